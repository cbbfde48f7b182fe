package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// AdminMiddleware rejects requests that do not carry a valid admin bearer
// token. The token is either the admin code itself or a JWT signed with it.
func AdminMiddleware(next http.Handler, adminCode string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, err.Error())
			return
		}

		if !Validate(tokenString, adminCode) {
			writeAuthError(w, http.StatusForbidden, "invalid admin code")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Validate accepts the raw admin code or a signed, unexpired admin token.
func Validate(tokenString, adminCode string) bool {
	if subtle.ConstantTimeCompare([]byte(tokenString), []byte(adminCode)) == 1 {
		return true
	}
	_, err := validateToken(tokenString, adminCode)
	return err == nil
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format")
	}

	return tokenString, nil
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
