package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"ytscribe/config"
	"ytscribe/middleware"
	"ytscribe/services/fetch"
	"ytscribe/services/summary"
	"ytscribe/session"
	"ytscribe/supadata"
	"ytscribe/validation"
)

// Server wires the handlers, middleware stack, and HTTP server.
type Server struct {
	videos      *VideoHandler
	transcripts *TranscriptHandler
	summary     *SummaryHandler
	session     *session.Session
	config      *config.Config
	logger      *logrus.Logger
	server      *http.Server
	startTime   time.Time
}

type ServerOption func(*Server)

func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		config:    cfg,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// WithServices builds the handlers around the shared session and the
// provided provider client and services.
func WithServices(
	provider *supadata.Client,
	fetchSvc *fetch.Service,
	summarySvc *summary.Service,
	sess *session.Session,
) ServerOption {
	return func(s *Server) {
		validator := validation.NewValidator(s.config)
		s.session = sess
		s.videos = NewVideoHandler(s.config, provider, fetchSvc, sess, validator)
		s.transcripts = NewTranscriptHandler(s.config, provider, fetchSvc, sess, validator)
		s.summary = NewSummaryHandler(summarySvc, sess)
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/videos/resolve", s.videos.HandleResolve)
		r.Get("/videos/ids.txt", s.videos.HandleDownloadIDs)
		r.Post("/videos/filter", s.videos.HandleFilter)
		r.Get("/videos/metadata", s.videos.HandleMetadata)
		r.Post("/channel/videos", s.videos.HandleChannelVideos)

		r.Post("/transcripts", s.transcripts.HandleRunBatch)
		r.Get("/exports/transcripts.json", s.transcripts.HandleExportJSON)
		r.Get("/exports/transcripts.txt", s.transcripts.HandleExportText)
		r.Get("/exports/transcripts-txt.zip", s.transcripts.HandleExportTXTArchive)
		r.Get("/exports/transcripts-json.zip", s.transcripts.HandleExportJSONArchive)

		r.Post("/summary", s.summary.HandleCreateSummary)

		r.Delete("/session", s.handleResetSession)
	})

	r.Get("/health", s.handleHealth)

	return s.middleware(r)
}

func (s *Server) middleware(handler http.Handler) http.Handler {
	rateLimiter := middleware.NewRateLimiter(
		s.config.RateLimit,
		rate.Every(s.config.RateLimitInterval),
	)

	return middleware.Chain(
		handler,
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.CORS(s.config.CORS),
		rateLimiter.Middleware,
	)
}

// handleResetSession handles DELETE /api/v1/session
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	s.logger.Info("Session reset")
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "reset"})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startTime).String(),
	}

	if s.config.Debug {
		status["debug"] = true
		status["goroutines"] = runtime.NumGoroutine()
	}

	respondJSON(w, r, http.StatusOK, status)
}
