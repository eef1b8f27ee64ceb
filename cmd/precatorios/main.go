package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"precatorios/internal/amqp"
	"precatorios/internal/backend"
	"precatorios/internal/cache"
	"precatorios/internal/cli"
	"precatorios/internal/core"
	apphttp "precatorios/internal/http"
	applog "precatorios/internal/log"
	"precatorios/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Slog()).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	records := cache.NewLRUCache[[]core.Record](cfg.CacheSize, cfg.CacheTTL)
	caches := cache.NewManager(logger.WithComponent(applog.ComponentCache).Slog())
	caches.Register(records)
	caches.StartCleanup(time.Minute)

	datasets := services.NewDatasetService(res.Backend, records, logger)
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := datasets.Warm(warmCtx); err != nil {
		logger.Warn("Dataset warm-up incomplete", applog.FieldError, err)
	}
	warmCancel()

	opts := apphttp.Options{
		Loader:             datasets,
		Ready:              res.Ready,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}

	var queue *amqp.Client
	if cfg.AMQPEnabled() {
		queue, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, imports disabled", applog.FieldError, err)
		} else {
			opts.Publisher = queue
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, opts)
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		caches.Stop()
		if queue != nil {
			_ = queue.Close()
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", applog.FieldError, err)
			}
		}
	})

	logger.Info("Starting precatorios server", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend, "imports", opts.Publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
