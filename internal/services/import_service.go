package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"precatorios/internal/core"
	applog "precatorios/internal/log"
	"precatorios/internal/sheets"
)

// ImportHistory reports past imports.
type ImportHistory interface {
	LastImport(ctx context.Context, source core.Source) (core.ImportRun, bool, error)
}

// ImportService copies datasets from their spreadsheets into the local store.
type ImportService struct {
	reader  sheets.DatasetReader
	writer  sheets.DatasetWriter
	history ImportHistory
	logger  *applog.Logger
	now     func() time.Time
}

func NewImportService(reader sheets.DatasetReader, writer sheets.DatasetWriter, history ImportHistory, logger *applog.Logger) *ImportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ImportService{
		reader:  reader,
		writer:  writer,
		history: history,
		logger:  logger.WithComponent(applog.ComponentImport),
		now:     time.Now,
	}
}

// Import reads source and replaces its stored records.
func (s *ImportService) Import(ctx context.Context, source core.Source) (core.ImportRun, error) {
	start := s.now()

	records, err := s.reader.ReadRecords(ctx, source)
	if err != nil {
		return core.ImportRun{}, core.NewLoadFailure(source, err)
	}

	if err := s.writer.ReplaceRecords(ctx, source, records); err != nil {
		return core.ImportRun{}, fmt.Errorf("store %s: %w", source, err)
	}

	run := core.ImportRun{Source: source, RowCount: len(records), ImportedAt: s.now()}
	s.logger.InfoContext(ctx, "Dataset imported",
		applog.FieldSource, source.String(),
		applog.FieldRecordCount, run.RowCount,
		applog.FieldDuration, run.ImportedAt.Sub(start).Milliseconds())
	return run, nil
}

// ImportMissing imports every source that was never imported and returns the
// ones it imported. A failing source does not stop the others.
func (s *ImportService) ImportMissing(ctx context.Context) ([]core.Source, error) {
	var (
		imported []core.Source
		errs     []error
	)
	for _, src := range core.Sources() {
		if s.history != nil {
			_, ok, err := s.history.LastImport(ctx, src)
			if err != nil {
				errs = append(errs, fmt.Errorf("check %s: %w", src, err))
				continue
			}
			if ok {
				continue
			}
		}
		if _, err := s.Import(ctx, src); err != nil {
			errs = append(errs, err)
			continue
		}
		imported = append(imported, src)
	}
	return imported, errors.Join(errs...)
}
