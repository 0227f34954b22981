package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"memberpass.app/cloud/internal/config"
	"memberpass.app/cloud/internal/logger"
	"memberpass.app/cloud/internal/metrics"
	"memberpass.app/cloud/internal/ratelimit"
	"memberpass.app/cloud/storage"
)

type Server struct {
	Router  chi.Router
	Storage storage.Store
	Config  *config.Config

	// Now is the clock used for started_at and active checks. Tests inject
	// their own; nil means time.Now.
	Now func() time.Time

	startedAt        time.Time
	requestsServed   atomic.Int64
	membershipsSaved atomic.Int64
}

func NewHTTPServer(db storage.Store, cfg *config.Config) *Server {
	s := &Server{
		Router:    chi.NewRouter(),
		Storage:   db,
		Config:    cfg,
		startedAt: time.Now(),
	}

	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	s.Router.Use(s.requestID)
	s.Router.Use(s.recoverBoundary)
	s.Router.Use(s.countRequests)

	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)

	s.Router.HandleFunc("/api/v1/webhooks/helio", s.HelioWebhook)
	s.Router.With(ratelimit.Middleware(limiter)).HandleFunc("/api/v1/memberships/status", s.MembershipStatus)
	s.Router.HandleFunc("/health", s.Health)

	return s
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// requestID tags every request so log lines from one invocation correlate.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.Must(uuid.NewRandom()).String()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// recoverBoundary is the outer failure boundary: anything unexpected becomes
// a generic 500 without leaking internals.
func (s *Server) recoverBoundary(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Unhandled panic in request", map[string]interface{}{
					"panic":  rec,
					"path":   r.URL.Path,
					"method": r.Method,
				})
				writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
					"ok":    false,
					"error": "internal_error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requestsServed.Inc()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(ww.Status())).Inc()
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
		"ok":    false,
		"error": "method_not_allowed",
	})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"ok":    false,
		"error": "internal_error",
	})
}
