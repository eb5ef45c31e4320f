// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/internal/domain/model"
	"github.com/okian/lessongen/pkg/logger"
	"github.com/okian/lessongen/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes caps lesson request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Pitching(ctx context.Context, in model.PitchingMetrics) (lesson.Result, error)
	Hitting(ctx context.Context, in model.HittingMetrics) (lesson.Result, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	lessonHandler *LessonHandler
	rootHandler   *RootHandler

	origins []string
	log     logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps the size of lesson request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.lessonHandler.maxBody = n
		}
	}
}

// WithAllowedOrigins sets the CORS origins. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithDocs toggles whether the root response advertises /api-docs.
func WithDocs(enabled bool) Option {
	return func(s *Server) {
		s.rootHandler.docs = enabled
	}
}

// WithLogger sets the logger used by handlers and the access log.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		lessonHandler: NewLessonHandler(deps),
		rootHandler:   NewRootHandler(),
		origins:       []string{"*"},
		log:           logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("http")
	s.lessonHandler.log = s.log
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("POST /lesson/pitching", MetricsMiddleware(s.lessonHandler.HandlePitching, "lesson_pitching"))
	mux.HandleFunc("POST /lesson/hitting", MetricsMiddleware(s.lessonHandler.HandleHitting, "lesson_hitting"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
}

// Handler wraps next with request ID, access log and CORS middleware.
func (s *Server) Handler(next http.Handler) http.Handler {
	return RequestID(AccessLog(s.log, CORS(next, s.origins...)))
}

type errorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []model.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeErrorDetails(w, status, code, err, nil)
}

func writeErrorDetails(w http.ResponseWriter, status int, code string, err error, details []model.FieldError) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Details: details})
}
