// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

// Command api is the entry point for the Kertas HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load .env (development convenience) and configuration.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the auth core (registry, cookies, guard) and domain services.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/joho/godotenv"

	"github.com/kertasdev/kertas/internal/account"
	"github.com/kertasdev/kertas/internal/api"
	"github.com/kertasdev/kertas/internal/auth"
	"github.com/kertasdev/kertas/internal/group"
	"github.com/kertasdev/kertas/internal/notes"
	"github.com/kertasdev/kertas/internal/platform/config"
	"github.com/kertasdev/kertas/internal/platform/constants"
	"github.com/kertasdev/kertas/internal/platform/mail"
	"github.com/kertasdev/kertas/internal/platform/middleware"
	"github.com/kertasdev/kertas/internal/platform/migration"
	pgstore "github.com/kertasdev/kertas/internal/platform/postgres"
	redisstore "github.com/kertasdev/kertas/internal/platform/redis"
	"github.com/kertasdev/kertas/internal/platform/sec"
	"github.com/kertasdev/kertas/internal/wallet"
	"github.com/kertasdev/kertas/internal/web"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "kertas"))
	slog.SetDefault(log)

	log.Info("[Kertas] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env is a development convenience; in production the process
	// environment is the single source of truth.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", slog.Any("error", err))
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "kertas"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Auth Core ──────────────────────────────────────────────────────
	fieldCodec, err := sec.NewFieldCodec([]byte(cfg.FieldEncryptionKey))
	must(log, err, "initialize field codec")

	tokenCodec := &sec.Codec{Issuer: constants.AuthIssuer}
	registry := auth.NewRegistry(auth.Secrets{
		Access:            cfg.AccessTokenSecret,
		SuperAdminRefresh: cfg.SuperAdminRefreshSecret,
		AdminRefresh:      cfg.AdminRefreshSecret,
		UserRefresh:       cfg.UserRefreshSecret,
	}, tokenCodec, log)

	cookieManager := auth.NewCookieManager(registry, !cfg.IsDevelopment())
	guard := auth.NewGuard(registry, cookieManager, auth.DefaultPathPolicy())
	authLimiter := middleware.NewRedisLimiter(rdb)

	// ── 7. Outbound Mail ──────────────────────────────────────────────────
	mailAccounts, err := mail.ParseAccounts(cfg.SMTPAccounts)
	must(log, err, "parse smtp accounts")

	var mailer mail.Sender
	if len(mailAccounts) == 0 {
		// Without relays, development logs the messages; production refuses
		// to start because reset emails would be silently lost.
		if !cfg.IsDevelopment() {
			must(log, fmt.Errorf("no SMTP accounts configured"), "initialize smtp sender")
		}
		log.Warn("smtp_not_configured_using_log_sender")
		mailer = mail.NewLogSender(log)
	} else {
		smtpSender, err := mail.NewSMTPSender(mailAccounts, cfg.MailFrom, log)
		must(log, err, "initialize smtp sender")
		mailer = smtpSender
	}

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	resetRepository := auth.NewResetTokenRepository(pool)
	authService := auth.NewService(userRepository, resetRepository, registry, fieldCodec, mailer, cfg.BaseURL)
	authHandler := auth.NewHandler(authService, cookieManager, authLimiter)

	accountService := account.NewService(userRepository, fieldCodec, log)
	notesService := notes.NewService(notes.NewPostgresRepository(pool), log)
	walletService := wallet.NewService(wallet.NewPostgresRepository(pool), log)
	groupService := group.NewService(group.NewPostgresRepository(pool), log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   account.NewHandler(accountService),
		Notes:     notes.NewHandler(notesService),
		Wallet:    wallet.NewHandler(walletService),
		Group:     group.NewHandler(groupService),
		Web:       web.NewHandler(guard),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, registry, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
