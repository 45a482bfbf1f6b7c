package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/supermarket-api/internal/application"
	"github.com/sangkips/supermarket-api/internal/config"
	"github.com/sangkips/supermarket-api/internal/presentation/http/middleware"
	"github.com/sangkips/supermarket-api/internal/presentation/http/routes"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logx.Init(logx.Options{
		Production: cfg.App.Env == "production",
		Debug:      cfg.App.Debug,
	})

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := application.OpenStores(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}

	app := application.New(cfg, stores)
	app.AddCloser(closeStores)
	if cfg.Auth.Enabled && cfg.Auth.OperatorPassword == "" {
		logx.Warn().Msg("AUTH_ENABLED is set but OPERATOR_PASSWORD_HASH is empty, nobody can log in")
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))

	router := routes.Setup(routes.NewHandlers(app), &routes.Deps{
		JWTManager:      app.JWT,
		Cfg:             cfg,
		IdempotencyRepo: stores.Idempotency,
		RateLimiter:     rateLimiter,
	})

	go app.PurgeExpiredKeys(ctx, time.Hour)

	port := cfg.App.Port
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logx.Info().Str("app", cfg.App.Name).Str("env", cfg.App.Env).Str("port", port).
			Str("storage", cfg.Storage.Driver).Bool("auth", cfg.Auth.Enabled).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("server shutdown failed")
	}
	rateLimiter.Stop()
	if err := app.Close(); err != nil {
		logx.Error().Err(err).Msg("failed to close storage")
	}
}
