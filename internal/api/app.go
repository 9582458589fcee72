// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/leoFagundes/breakfast-budget-club/internal/content/card"
	"github.com/leoFagundes/breakfast-budget-club/internal/content/category"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/config"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/docstore"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/metrics"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/migration"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/objectstore"
	pgstore "github.com/leoFagundes/breakfast-budget-club/internal/platform/postgres"
	redisstore "github.com/leoFagundes/breakfast-budget-club/internal/platform/redis"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/member"
)

// App is the fully wired portal.
type App struct {
	Server    *Server
	Documents docstore.Store
	Metrics   *metrics.Metrics

	log     *slog.Logger
	closers []func()
}

// Documents is an open document store plus the pool behind it, if any.
type Documents struct {
	Store docstore.Store
	// Pool is nil for the in-memory store.
	Pool *pgxpool.Pool
}

// Close releases the pool.
func (documents *Documents) Close() {
	if documents.Pool != nil {
		documents.Pool.Close()
	}
}

/*
OpenDocuments connects the configured document store.

The postgres driver connects the pool and applies pending migrations. The
memory driver starts empty and enforces the auth unique fields itself.
*/
func OpenDocuments(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Documents, error) {
	if cfg.DocumentStore == config.DocumentStoreMemory {
		log.Warn("document_store_in_memory", slog.String("reason", "DOCUMENT_STORE=memory, data is lost on exit"))
		return &Documents{Store: docstore.NewMemoryStore(auth.UniqueFields()...)}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		pool.Close()
		return nil, err
	}

	return &Documents{Store: docstore.NewPostgresStore(pool), Pool: pool}, nil
}

/*
Open builds the portal from configuration.

# Wiring Sequence

 1. Document store (postgres or memory).
 2. Redis for password reset tokens, when configured.
 3. RS256 token service, when a key pair is configured.
 4. Object store: S3 when a bucket is configured, otherwise in memory and
    served under /files.
 5. Metrics, health checks and domain services.
 6. HTTP server.

Everything opened here is released by [App.Close].
*/
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	app := &App{log: log, Metrics: metrics.New()}
	health := HealthDependencies{}

	// 1. Documents
	documents, err := OpenDocuments(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	app.Documents = documents.Store
	app.closers = append(app.closers, func() {
		log.Info("closing document store")
		documents.Close()
	})
	if documents.Pool != nil {
		pool := documents.Pool
		health.CheckDocuments = func(checkCtx context.Context) error { return pgstore.Ping(checkCtx, pool) }
	}

	// 2. Reset tokens
	var resetTokens auth.ResetTokenRepository = auth.DisabledResetTokenRepository{}
	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		app.closers = append(app.closers, func() { closeRedis(log, client) })
		health.CheckCache = func(checkCtx context.Context) error { return redisstore.Ping(checkCtx, client) }
		resetTokens = auth.NewResetTokenRepository(client)
	} else {
		log.Warn("password_reset_disabled", slog.String("reason", "REDIS_URL not set"))
	}

	// 3. Bearer tokens
	var (
		tokenProvider auth.TokenProvider
		tokenVerifier auth.TokenVerifier
	)
	if cfg.TokensEnabled() {
		tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("initialize jwt service: %w", err)
		}
		tokenProvider, tokenVerifier = tokens, tokens
	}

	// 4. Object storage
	var (
		objects    objectstore.Store
		localFiles http.HandlerFunc
	)
	if cfg.ObjectStoreEnabled() {
		bucket, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}, log)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("configure object store: %w", err)
		}
		objects = bucket
		health.CheckObjects = bucket.Ping
	} else {
		memory := objectstore.NewMemoryStore(LocalFilesPath)
		objects = memory
		localFiles = NewLocalFiles(memory)
		log.Warn("object_store_in_memory", slog.String("reason", "S3_BUCKET not set"))
	}

	// 5. Domain wiring
	userRepository := auth.NewUserRepository(documents.Store)
	credentialRepository := auth.NewCredentialRepository(documents.Store)
	authService := auth.NewService(userRepository, credentialRepository, resetTokens, tokenProvider)
	resolver := auth.NewResolver(userRepository, tokenVerifier)

	memberService := member.NewService(userRepository, app.Metrics)

	cardRepository := card.NewRepository(documents.Store)
	fileRepository := card.NewFileRepository(documents.Store)
	categoryService := category.NewService(category.NewRepository(documents.Store), cardRepository, app.Metrics)
	cardService := card.NewService(cardRepository, fileRepository, categoryService, objects)

	liveness, readiness := NewHealthHandlers(health, log)

	// 6. HTTP server
	// Background middleware (rate limit cleanup) lives until Close, not
	// until the startup deadline.
	serverCtx, stopServer := context.WithCancel(context.Background())
	app.closers = append(app.closers, stopServer)

	app.Server = NewServer(serverCtx, cfg, log, resolver, app.Metrics, Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService, cfg.CookieSecure, cfg.IsDevelopment()),
		Members:    member.NewHandler(memberService),
		Categories: category.NewHandler(categoryService),
		Cards:      card.NewHandler(cardService),
		Pages:      NewPageHandler(memberService, categoryService, cardService, app.Metrics, cfg.CookieSecure),
		Files:      localFiles,
	})

	return app, nil
}

/*
Run serves until ctx is cancelled or the listener fails, then drains
in-flight requests for up to [constants.ShutdownTimeout].
*/
func (app *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.log.Info("shutdown signal received")
	case runErr = <-serverErr:
		app.log.Error("server startup error", slog.Any("error", runErr))
	}

	app.log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := app.Server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	app.log.Info("server stopped cleanly")
	return runErr
}

// Close releases everything [Open] acquired, newest first.
func (app *App) Close() {
	for index := len(app.closers) - 1; index >= 0; index-- {
		app.closers[index]()
	}
	app.closers = nil
}

func closeRedis(log *slog.Logger, client *goredis.Client) {
	log.Info("closing redis client")
	if err := client.Close(); err != nil {
		log.Error("redis close error", slog.Any("error", err))
	}
}
