// Package queryservice serves read-only analytics over the loaded star
// schema: processed orders, customer revenue rankings, and dataset totals.
package queryservice

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"commerce-etl-lab/internal/observability"
	"commerce-etl-lab/internal/warehouse/postgres"
)

// Server exposes the warehouse over HTTP.
type Server struct {
	pool *postgres.Pool
	log  zerolog.Logger
}

// NewServer creates a query service backed by the given PostgreSQL pool.
func NewServer(pool *postgres.Pool, log zerolog.Logger) *Server {
	return &Server{pool: pool, log: log}
}

// Router builds the HTTP router with all endpoints registered.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", observability.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/orders", s.handleOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", s.handleOrder).Methods("GET")
	api.HandleFunc("/customers/top", s.handleTopCustomers).Methods("GET")
	api.HandleFunc("/summary", s.handleSummary).Methods("GET")

	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := s.pool.Ping(ctx); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status, "service": "commerce-etl-query"})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Error().
					Interface("error", err).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
