package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prabalesh/paneltop/internal/models"
)

// DefaultStreamInterval is how often /api/ws pushes a status snapshot.
const DefaultStreamInterval = 5 * time.Second

// Source supplies the data the API serves.
type Source interface {
	Status(ctx context.Context) (models.StatusSnapshot, error)
	AppsStorage(ctx context.Context) (models.AppsStorage, error)
	Logs(lines int) (string, error)
	ClearCache()
}

// Restarter restarts the hosted apps.
type Restarter interface {
	Restart(ctx context.Context) error
}

type Options struct {
	Addr           string
	Source         Source
	Restarter      Restarter
	Auth           *Auth
	ActionLimiter  *RateLimiter
	StreamInterval time.Duration
	Logger         *slog.Logger
}

type Server struct {
	srv            *http.Server
	engine         *gin.Engine
	source         Source
	restarter      Restarter
	auth           *Auth
	limiter        *RateLimiter
	streamInterval time.Duration
	logger         *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limiter := opts.ActionLimiter
	if limiter == nil {
		limiter = NewRateLimiter(DefaultActionRate, DefaultActionBurst)
	}
	interval := opts.StreamInterval
	if interval <= 0 {
		interval = DefaultStreamInterval
	}

	s := &Server{
		source:         opts.Source,
		restarter:      opts.Restarter,
		auth:           opts.Auth,
		limiter:        limiter,
		streamInterval: interval,
		logger:         logger,
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), requestLogger(logger))
	s.registerRoutes()

	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Status server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
