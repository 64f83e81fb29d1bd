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
	"github.com/larabeech/guestgate/config"
	"github.com/larabeech/guestgate/internal/email"
	"github.com/larabeech/guestgate/internal/health"
	"github.com/larabeech/guestgate/internal/infrastructure/postgres"
	ctxlog "github.com/larabeech/guestgate/internal/log"
	"github.com/larabeech/guestgate/internal/metrics"
	"github.com/larabeech/guestgate/internal/ratelimit"
	httptransport "github.com/larabeech/guestgate/internal/transport/http"
	"github.com/larabeech/guestgate/internal/transport/http/handler"
	"github.com/larabeech/guestgate/internal/usecase"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
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

	if err := postgres.Migrate(pool); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	guestRepo := postgres.NewGuestRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)

	auditor := usecase.NewAuditor(auditRepo, logger)
	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	sessionUsecase := usecase.NewSessionUsecase(sessionRepo, auditor, logger)
	authUsecase := usecase.NewAuthUsecase(
		guestRepo, tokenRepo, settingsRepo, sessionUsecase, emailSender, auditor, logger, cfg.MagicLinkBase)
	guestUsecase := usecase.NewGuestUsecase(guestRepo, logger)
	settingsUsecase := usecase.NewSettingsUsecase(settingsRepo, guestRepo, auditor, logger)

	authHandler := handler.NewAuthHandler(authUsecase, sessionUsecase, guestUsecase, logger, cfg.SecureCookies())
	guestHandler := handler.NewGuestHandler(guestUsecase, logger)
	settingsHandler := handler.NewSettingsHandler(settingsUsecase, logger)

	limiter := ratelimit.New(ratelimit.LoginLimit)
	limiter.StartCleanup(ctx.Done(), 5*time.Minute)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(
			logger, authHandler, guestHandler, settingsHandler,
			sessionUsecase, limiter, []byte(cfg.AdminJWTSecret)),
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
