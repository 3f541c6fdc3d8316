// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Command api serves the Quinca HTTP API: identity, catalog and the register.

Startup order is configuration, PostgreSQL, Redis, migrations, signing keys,
then domain wiring. Any failure before the listener is up exits with status 1
and a structured log line. SIGINT or SIGTERM drains in-flight requests for
[constants.ShutdownTimeout].
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/quinca/internal/api"
	"github.com/taibuivan/quinca/internal/catalog"
	"github.com/taibuivan/quinca/internal/platform/config"
	"github.com/taibuivan/quinca/internal/platform/constants"
	"github.com/taibuivan/quinca/internal/platform/migration"
	pgstore "github.com/taibuivan/quinca/internal/platform/postgres"
	redisstore "github.com/taibuivan/quinca/internal/platform/redis"
	"github.com/taibuivan/quinca/internal/platform/sec"
	"github.com/taibuivan/quinca/internal/pos"
	"github.com/taibuivan/quinca/internal/users/auth"
)

// startupTimeout bounds connecting to the backing services.
const startupTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 1. Configuration ────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
	}
	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("identity_source", cfg.IdentitySource),
	)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	// ── 2. Backing services ─────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn("redis_close_failed", slog.Any("error", err))
		}
	}()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return fmt.Errorf("load signing keys: %w", err)
	}

	// ── 3. Serve ────────────────────────────────────────────────────────────
	serveCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(serveCtx, cfg, log, tokens, wire(cfg, log, pool, rdb, tokens))

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.ListenAndServe() }()

	select {
	case <-serveCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	}

	log.Info("server_draining", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server_stopped")
	return nil
}

// wire builds the domain services over the shared connections.
func wire(cfg *config.Config, log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, tokens *sec.TokenService) api.Handlers {
	var accounts auth.AccountRepository = auth.NewAccountRepository(pool)
	if cfg.IdentitySource == config.IdentitySourceDirectory {
		accounts = auth.NewDirectoryRepository()
	}

	identity := auth.NewService(
		accounts,
		auth.NewSessionRepository(rdb),
		auth.NewChallengeRepository(rdb),
		tokens,
		auth.WithTwoFactorTTL(cfg.TwoFactorTTL),
		auth.WithMetrics(auth.NewMetrics(prometheus.DefaultRegisterer)),
	)

	products := catalog.NewService(catalog.NewRepository(pool))

	register := pos.NewRegister(
		products,
		pos.NewSaleRepository(pool),
		pos.WithMetrics(pos.NewMetrics(prometheus.DefaultRegisterer)),
	)

	liveness, readiness := api.NewHealthHandlers(log,
		api.Dependency{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		api.Dependency{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	)

	return api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   promhttp.Handler(),
		Auth:      auth.NewHandler(identity),
		Catalog:   catalog.NewHandler(products),
		POS:       pos.NewHandler(register),
	}
}

// newLogger returns the JSON process logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)
	return logger
}
