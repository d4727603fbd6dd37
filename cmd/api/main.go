package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/theta/api/routes"
	"github.com/angelmondragon/theta/internal/auth"
	"github.com/angelmondragon/theta/internal/instagram"
	"github.com/angelmondragon/theta/internal/nhentai"
	"github.com/angelmondragon/theta/internal/users"
	"github.com/angelmondragon/theta/pkg/auth/session"
	"github.com/angelmondragon/theta/pkg/config"
	"github.com/angelmondragon/theta/pkg/instance"
	"github.com/angelmondragon/theta/pkg/logger"
	"github.com/angelmondragon/theta/pkg/metrics"
	"github.com/angelmondragon/theta/pkg/redis"
	"github.com/angelmondragon/theta/pkg/upstream"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.New(runCtx, cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)
	cacheMetrics := metrics.NewCacheMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(redisClient)
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	creds, err := instagram.LoadCredentials(cfg.Instagram)
	if err != nil {
		// The Instagram routes still answer, upstream will reject the anonymous call.
		logg.Warn(logg.WithField(context.Background(), "error", err.Error()), "instagram credentials incomplete")
	}

	instagramClient := upstream.New("instagram", cfg.Upstream, upstream.WithMetrics(upstreamMetrics), upstream.WithLogger(logg))
	nhentaiClient := upstream.New("nhentai", cfg.Upstream, upstream.WithMetrics(upstreamMetrics), upstream.WithLogger(logg))

	galleries := nhentai.NewClient(cfg.Nhentai, nhentaiClient, logg)
	services := routes.Services{
		Auth:      authService,
		Sessions:  sessionManager,
		Users:     userRepo,
		Instagram: instagram.NewFetcher(cfg.Instagram, creds, instagramClient, logg),
		Galleries: galleries,
		Random:    nhentai.NewRandomizer(cfg.Nhentai, galleries, logg),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, redisClient, registry, cacheMetrics, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case runErr = <-serveErr:
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	runErr = multierr.Combine(runErr, server.Shutdown(shutdownCtx), redisClient.Close())
	if runErr != nil {
		logg.Error(ctx, "api server stopped with errors", runErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
