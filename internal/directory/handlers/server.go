// Package handlers provides the HTTP surface of the directory: the list
// and profile endpoints, the admin import endpoints, the sitemap, and the
// server lifecycle around them.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/floqer/directory/internal/directory/auth"
)

// Server wraps the HTTP server and its router.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *zap.Logger
	endpoint   string
}

// NewServer constructs a Server listening on the given port.
func NewServer(httpPort int, logger *zap.Logger) *Server {
	router := mux.NewRouter()
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", httpPort),
			Handler:      requestLogging(router, logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		router:   router,
		logger:   logger,
		endpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterRoutes mounts the directory handler. Admin routes are wrapped
// with the bearer-token middleware; everything else is public.
func (s *Server) RegisterRoutes(h *DirectoryHandler, adminCode string) {
	s.router.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	s.router.HandleFunc("/api/companies", h.ListCompanies).Methods(http.MethodGet)
	s.router.HandleFunc("/api/companies/all", h.ListAllCompanies).Methods(http.MethodGet)
	s.router.HandleFunc("/api/companies/{slug}", h.GetCompany).Methods(http.MethodGet)

	admin := s.router.PathPrefix("/api/admin").Subrouter()
	admin.Use(func(next http.Handler) http.Handler {
		return auth.AdminMiddleware(next, adminCode)
	})
	admin.HandleFunc("/upload", h.UploadCSV).Methods(http.MethodPost)
	admin.HandleFunc("/template", h.CSVTemplate).Methods(http.MethodGet)

	s.router.HandleFunc("/sitemap.xml", h.Sitemap).Methods(http.MethodGet)
}

// Start runs the HTTP server until it stops serving.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("endpoint", s.endpoint))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}

// requestLogging emits one structured log line per request.
func requestLogging(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
