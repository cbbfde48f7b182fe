package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminCode = "super-secret-code"

func protected(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	return AdminMiddleware(next, adminCode), &reached
}

func TestAdminMiddlewareMissingHeader(t *testing.T) {
	handler, reached := protected(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAdminMiddlewareMalformedHeader(t *testing.T) {
	handler, reached := protected(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("Authorization", adminCode)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "scheme prefix is required")
	assert.False(t, *reached)
}

func TestAdminMiddlewareWrongCode(t *testing.T) {
	handler, reached := protected(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("Authorization", "Bearer wrong-code")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *reached)
}

func TestAdminMiddlewareStaticCode(t *testing.T) {
	handler, reached := protected(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("Authorization", "Bearer "+adminCode)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestAdminMiddlewareSignedToken(t *testing.T) {
	handler, reached := protected(t)

	token, err := GenerateToken("upload-cli", adminCode, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("upload-cli", adminCode, -time.Minute)
	require.NoError(t, err)

	assert.False(t, Validate(token, adminCode))
}

func TestTokenSignedWithWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken("upload-cli", "another-secret", time.Minute)
	require.NoError(t, err)

	assert.False(t, Validate(token, adminCode))
}

func TestValidateTokenClaims(t *testing.T) {
	token, err := GenerateToken("upload-cli", adminCode, time.Minute)
	require.NoError(t, err)

	claims, err := validateToken(token, adminCode)
	require.NoError(t, err)
	assert.Equal(t, "upload-cli", claims["sub"])
}
