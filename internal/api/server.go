// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the composition root for the chi router (server.go) and for
    the stores and services behind it (app.go).
  - Only this package and the commands under cmd/ start an HTTP server.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/leoFagundes/breakfast-budget-club/internal/content/card"
	"github.com/leoFagundes/breakfast-budget-club/internal/content/category"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/config"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/metrics"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/member"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once by [Open] with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles sign-up, sign-in and password routes.
	Auth *auth.Handler

	// Members handles the role editor and user deletion.
	Members *member.Handler

	// Categories handles category CRUD and ordering.
	Categories *category.Handler

	// Cards handles cards, card files and the grouped public page.
	Cards *card.Handler

	// Pages serves /login and the /admin view models.
	Pages *PageHandler

	// Files serves card files from the in-memory object store. Nil when a
	// bucket is configured.
	Files http.HandlerFunc
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, resolver middleware.SessionResolver, collectors *metrics.Metrics, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(collectors.Instrument)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.LoadSession(resolver))
	r.Use(middleware.CoarseGate(collectors))

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", collectors.Handler())

	// # Pages
	r.Get(constants.LoginPath, h.Pages.Login)
	r.Mount(constants.AdminPathPrefix, h.Pages.AdminRoutes())

	if h.Files != nil {
		r.Get(LocalFilesPath+"/*", h.Files)
	}

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Members.Routes())
		api.Mount("/categories", h.Categories.Routes())
		api.Mount("/cards", h.Cards.Routes())
		api.Get("/content", h.Cards.Content)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
