package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tinylink-dev/tinylink/config"
	"github.com/tinylink-dev/tinylink/internal/auth"
	"github.com/tinylink-dev/tinylink/internal/email"
	"github.com/tinylink-dev/tinylink/internal/health"
	"github.com/tinylink-dev/tinylink/internal/infrastructure/postgres"
	ctxlog "github.com/tinylink-dev/tinylink/internal/log"
	"github.com/tinylink-dev/tinylink/internal/metrics"
	"github.com/tinylink-dev/tinylink/internal/shortcode"
	httptransport "github.com/tinylink-dev/tinylink/internal/transport/http"
	"github.com/tinylink-dev/tinylink/internal/transport/http/handler"
	"github.com/tinylink-dev/tinylink/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool, cfg.MigrationsDir); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	// Auth
	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, tokens, sender, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Short URLs
	urlRepo := postgres.NewShortURLRepository(pool)
	urlUsecase := usecase.NewShortURLUsecase(urlRepo, shortcode.NewGenerator())
	urlHandler := handler.NewShortURLHandler(urlUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, urlHandler, tokens),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
