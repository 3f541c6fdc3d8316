// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the composition root of the HTTP surface: the global
middleware chain, the probe and metrics endpoints, and the /api/v1 mounts of
the identity, catalog and point-of-sale handlers.

Route map:

	GET  /health, /ready, /metrics
	GET  /api/v1/public/health
	     /api/v1/auth/*      login, two-factor, refresh, logout
	     /api/v1/catalog/*   product search (products.view)
	     /api/v1/pos/*       carts, settlement, sales journal (sales.*)
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/quinca/internal/catalog"
	"github.com/taibuivan/quinca/internal/platform/config"
	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/middleware"
	"github.com/taibuivan/quinca/internal/pos"
	"github.com/taibuivan/quinca/internal/users/auth"
)

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     chi.Router
	log        *slog.Logger
}

// Handlers are the endpoint sets the server mounts. A nil member leaves its
// routes unregistered, which in-process tests rely on.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc
	Metrics   http.Handler

	Auth    *auth.Handler
	Catalog *catalog.Handler
	POS     *pos.Handler
}

/*
NewServer builds the router.

Middleware runs in this order: request id, access log, request timeout,
global rate limit, panic recovery, security headers, CORS, then token
verification (which only attaches claims; each mount enforces its own
permissions).

Parameters:
  - context: context.Context (stops the rate limiter janitor when cancelled)
  - cfg: *config.Config
  - log: *slog.Logger
  - verifier: middleware.TokenVerifier
  - h: Handlers
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(context),
		middleware.PanicRecovery(log),
		middleware.SecureHeaders(cfg),
		middleware.CORS(cfg, middleware.ParseOrigins(cfg.ExtraOrigins)),
		middleware.Authenticate(verifier),
		chimw.CleanPath,
	)

	// ── Probes ──────────────────────────────────────────────────────────────
	if h.Liveness != nil {
		router.Get("/health", h.Liveness)
	}
	if h.Readiness != nil {
		router.Get("/ready", h.Readiness)
	}
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics)
	}

	// ── Application ─────────────────────────────────────────────────────────
	router.Route("/api/v1", func(v1 chi.Router) {
		if h.Liveness != nil {
			v1.Get("/public/health", h.Liveness)
		}
		if h.Auth != nil {
			v1.Mount("/auth", h.Auth.Routes())
		}
		if h.Catalog != nil {
			v1.Mount("/catalog", h.Catalog.Routes())
		}
		if h.POS != nil {
			v1.Mount("/pos", h.POS.Routes())
		}
	})

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
		},
	}
}

// Handler exposes the router for in-process serving.
func (server *Server) Handler() http.Handler {
	return server.router
}

// ListenAndServe blocks until the server stops. It returns
// [http.ErrServerClosed] after [Server.Shutdown].
func (server *Server) ListenAndServe() error {
	server.log.Info("server_starting", slog.String("addr", server.httpServer.Addr))
	return server.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for
// in-flight requests.
func (server *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return server.httpServer.Shutdown(context)
}
