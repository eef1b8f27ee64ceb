package main

import (
	"context"
	"errors"
	"os"
	"time"

	"precatorios/internal/amqp"
	"precatorios/internal/backend"
	"precatorios/internal/cli"
	applog "precatorios/internal/log"
	"precatorios/internal/services"
	"precatorios/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	logger.Info("Starting precatorios-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	sourceCfg := backend.ImportSource(cfg)
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Slog()).
		CreateBackend(context.Background(), sourceCfg)
	if err != nil {
		logger.Error("Failed to initialize import source", applog.FieldError, err, applog.FieldBackend, sourceCfg.Type.String())
		os.Exit(1)
	}

	importer := services.NewImportService(res.Backend, repo, repo, logger)
	importWorker := worker.NewImportWorker(importer, logger)

	var queue *amqp.Client
	if cfg.AMQPEnabled() {
		queue, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if queue != nil {
			_ = queue.Close()
		}
	})

	logger.Info("Performing startup import check...")
	if err := importWorker.StartupImportCheck(ctx); err != nil {
		// keep serving queued imports; the failing source can be retried by request
		logger.Error("Startup import check failed", applog.FieldError, err)
	}

	if queue == nil {
		logger.Info("AMQP disabled - startup import only")
		return
	}

	go func() {
		err := queue.ConsumeImportRequests(ctx, importWorker.HandleImportRequest)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
