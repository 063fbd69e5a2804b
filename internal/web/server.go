// Package web exposes the checker over HTTP.
//
// POST /api/check streams one JSON line per failure while the uploaded file
// is still being read, so large files do not have to fit in memory.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JonMunkholm/tsvcheck/internal/check"
	"github.com/JonMunkholm/tsvcheck/internal/config"
	"github.com/JonMunkholm/tsvcheck/internal/rules"
	mw "github.com/JonMunkholm/tsvcheck/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP front end of the checker.
type Server struct {
	cfg      config.ServerConfig
	settings *rules.Settings
	opts     check.Options

	limiter *CheckLimiter
	rate    *rateLimiter
	stop    chan struct{}

	router *chi.Mux
	server *http.Server
}

// NewServer builds a server that checks uploads against settings. opts
// carries the framing options; its Logger is replaced per request.
func NewServer(cfg config.ServerConfig, settings *rules.Settings, opts check.Options) *Server {
	if settings == nil {
		settings = rules.Permissive()
	}
	s := &Server{
		cfg:      cfg,
		settings: settings,
		opts:     opts,
		limiter:  NewCheckLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		stop:     make(chan struct{}),
		router:   chi.NewRouter(),
	}
	if cfg.RateLimit > 0 {
		s.rate = newRateLimiter(cfg.RateLimit, time.Minute)
		go s.rate.sweep(s.stop)
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:        cfg.Addr(),
		Handler:     s.router,
		ReadTimeout: cfg.ReadTimeout,
		IdleTimeout: cfg.IdleTimeout,
		// Responses stream while the body is read; no write deadline.
		WriteTimeout: 0,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
	if s.rate != nil {
		s.router.Use(s.rateLimit)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(s.cfg.APIKeys, s.respondError))
		r.Get("/rules", s.handleRules)
		r.Post("/check", s.handleCheck)
	})
}

// Start listens on the configured address until Shutdown is called. If
// Shutdown already ran, Start returns nil without listening.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown waits for running checks, then stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}

	drainErr := s.limiter.WaitForDrain(ctx)
	return errors.Join(drainErr, s.server.Shutdown(ctx))
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Limiter returns the check limiter.
func (s *Server) Limiter() *CheckLimiter {
	return s.limiter
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
