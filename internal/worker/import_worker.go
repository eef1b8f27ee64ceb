package worker

import (
	"context"
	"errors"
	"fmt"

	"precatorios/internal/amqp"
	"precatorios/internal/core"
	applog "precatorios/internal/log"
)

// Importer imports one source, or every source that was never imported.
type Importer interface {
	Import(ctx context.Context, source core.Source) (core.ImportRun, error)
	ImportMissing(ctx context.Context) ([]core.Source, error)
}

// ImportWorker handles import requests received from AMQP
type ImportWorker struct {
	importer Importer
	logger   *applog.Logger
}

func NewImportWorker(importer Importer, logger *applog.Logger) *ImportWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ImportWorker{importer: importer, logger: logger.WithComponent(applog.ComponentWorker)}
}

// HandleImportRequest processes a single import request. Unknown sources are
// permanent failures; everything else is retried by the broker.
func (w *ImportWorker) HandleImportRequest(ctx context.Context, msg *amqp.ImportRequest) error {
	if msg == nil {
		return amqp.Permanent(errors.New("nil import request"))
	}
	source, err := core.ParseSource(msg.Source.String())
	if err != nil {
		return amqp.Permanent(err)
	}

	w.logger.InfoContext(ctx, "Processing import request",
		applog.FieldOperation, applog.OpConsume,
		applog.FieldImportID, msg.ID.String(),
		applog.FieldSource, source.String(),
		"requested_at", msg.RequestedAt)

	run, err := w.importer.Import(ctx, source)
	if err != nil {
		w.logger.ErrorContext(ctx, "Import failed",
			applog.FieldImportID, msg.ID.String(),
			applog.FieldSource, source.String(),
			applog.FieldError, err)
		return fmt.Errorf("import %s: %w", source, err)
	}

	w.logger.InfoContext(ctx, "Import completed",
		applog.FieldImportID, msg.ID.String(),
		applog.FieldSource, run.Source.String(),
		applog.FieldRecordCount, run.RowCount)
	return nil
}

// StartupImportCheck imports the sources the store has never seen, so the
// service has data before the first request arrives.
func (w *ImportWorker) StartupImportCheck(ctx context.Context) error {
	logger := w.logger.With(applog.FieldOperation, applog.OpStartup)
	imported, err := w.importer.ImportMissing(ctx)
	for _, src := range imported {
		logger.InfoContext(ctx, "Imported missing source", applog.FieldSource, src.String())
	}
	if err != nil {
		return fmt.Errorf("startup import: %w", err)
	}
	if len(imported) == 0 {
		logger.InfoContext(ctx, "All sources already imported")
	}
	return nil
}
