package main

import (
	"context"
	"net"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hadfield/catalog/pkg/api"
	"github.com/hadfield/catalog/pkg/auth"
	"github.com/hadfield/catalog/pkg/config"
	"github.com/hadfield/catalog/pkg/httputil"
	"github.com/hadfield/catalog/pkg/observability"
	"github.com/hadfield/catalog/pkg/storage"
	"github.com/hadfield/catalog/pkg/storage/memory"
	catalogmongo "github.com/hadfield/catalog/pkg/storage/mongo"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Misconfiguration (including a missing signing secret) is
		// fatal; never proceed insecurely.
		observability.NewLogger(observability.ErrorLevel, os.Stderr).WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, os.Stdout)

	ctx := context.Background()

	var store storage.Storage
	var closeStore func(context.Context) error
	switch cfg.Storage.Type {
	case "mongo":
		mongoStore, err := catalogmongo.NewStorage(ctx, cfg.Storage)
		if err != nil {
			logger.WithError(err).Error("failed to initialize mongo storage")
			os.Exit(1)
		}
		store = mongoStore
		closeStore = mongoStore.Close
	case "memory":
		store = memory.NewStorage()
		logger.Warn("using in-memory storage, data will not survive restarts")
	}

	products := storage.ProductStore(store)
	var redisClose func() error
	if cfg.Storage.CacheEnabled {
		redisClient, err := storage.NewRedisClient(cfg.Storage)
		if err != nil {
			logger.WithError(err).Error("failed to initialize redis cache")
			os.Exit(1)
		}
		products = storage.NewCachedProductStore(products, redisClient, cfg.Storage.CacheTTL)
		redisClose = redisClient.Close
		logger.Info("product cache enabled")
	}

	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	health := observability.NewHealthChecker()
	health.Register("store", store.HealthCheck)

	var metrics *observability.Metrics
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		metrics = observability.NewMetrics(registry)
	}

	server := api.NewServer(api.ServerOptions{
		Users:    store,
		Products: products,
		Tokens:   tokens,
		Hasher:   hasher,
		Logger:   logger,
		Metrics:  metrics,
		Registry: registry,
		Health:   health,
	})

	handler := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		httputil.CORSMiddleware(cfg.Server.CORSOrigins),
	)(server)
	if metrics != nil {
		handler = observability.HTTPMetricsMiddleware(metrics)(handler)
	}

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	if closeStore != nil {
		shutdown.RegisterShutdownFunc(closeStore)
	}
	if redisClose != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error { return redisClose() })
	}

	go func() {
		logger.Infof("catalog server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("shutdown failed")
		os.Exit(1)
	}
}
