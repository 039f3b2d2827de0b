package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ghuser/jobdesk/pkg/app"
	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/cache"
	"github.com/ghuser/jobdesk/pkg/config"
	"github.com/ghuser/jobdesk/pkg/database"
	"github.com/ghuser/jobdesk/pkg/httpx"
	"github.com/ghuser/jobdesk/pkg/logger"
	"github.com/ghuser/jobdesk/pkg/notifier"
	"github.com/ghuser/jobdesk/pkg/telemetry"
	contactApi "github.com/ghuser/jobdesk/services/contact/application/api"
	itemApi "github.com/ghuser/jobdesk/services/item/application/api"
	jobApi "github.com/ghuser/jobdesk/services/job/application/api"
	streamApi "github.com/ghuser/jobdesk/services/stream/application/api"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry is optional, log and continue on failure
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer pool.Close()
	log.Info("database pool connected")

	bus := notifier.New(log)
	defer bus.Close() //nolint:errcheck

	// Redis is optional: without it item reads skip the cache.
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("failed to connect to redis, continuing without item cache", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")
	}

	verifier := auth.NewVerifier(cfg.AuthJWKSURL, cfg.AuthIssuer, cfg.AuthAudience, nil)

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		Notifier: bus,
		Redis:    redisClient,
		Verifier: verifier,
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	healthChecks := httpx.HealthChecks{Database: pool}
	if redisClient != nil {
		healthChecks.Redis = redisClient
	}
	r.Get("/health", httpx.HealthHandler(healthChecks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(verifier, log))
		r.Get("/me", auth.MeHandler)
		registerRoutes(r, appConfig)
	})
	// The WebSocket endpoint authenticates inside the handler: browser
	// clients cannot set headers on an upgrade request.
	streamApi.StreamRoutes(r, appConfig, splitOrigins(cfg.CORSAllowedOrigins))

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	contactApi.ContactRoutes(r, a)
	itemApi.ItemRoutes(r, a)
	jobApi.JobRoutes(r, a)
}

func splitOrigins(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
