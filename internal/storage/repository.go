package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"precatorios/internal/core"
	ports "precatorios/internal/sheets"

	_ "modernc.org/sqlite"
)

var (
	_ ports.DatasetReader = (*SQLiteRepository)(nil)
	_ ports.DatasetWriter = (*SQLiteRepository)(nil)
)

// SQLiteRepository stores imported datasets and the history of imports.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ReadRecords implements sheets.DatasetReader. Rows come back in import order.
func (r *SQLiteRepository) ReadRecords(ctx context.Context, source core.Source) ([]core.Record, error) {
	rows, err := r.queries.ListRecordsBySource(ctx, source.String())
	if err != nil {
		return nil, core.NewLoadFailure(source, fmt.Errorf("list records: %w", err))
	}

	records := make([]core.Record, len(rows))
	for i, row := range rows {
		records[i] = core.Record{
			Assuntos:  row.Assuntos,
			Categoria: row.Categoria,
			Comarca:   row.Comarca,
			Devedor:   row.Devedor,
			Tribunal:  row.Tribunal,
			Ano:       int(row.Ano),
			Total:     row.Total,
		}
	}
	return records, nil
}

// ReplaceRecords implements sheets.DatasetWriter. The previous rows of source
// are dropped, the new ones inserted and an import run recorded in one
// transaction.
func (r *SQLiteRepository) ReplaceRecords(ctx context.Context, source core.Source, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteRecordsBySource(ctx, source.String()); err != nil {
		return fmt.Errorf("delete records of %s: %w", source, err)
	}

	for i, rec := range records {
		if err := q.InsertRecord(ctx, InsertRecordParams{
			Source:    source.String(),
			RowNumber: int64(i + 1),
			Assuntos:  rec.Assuntos,
			Categoria: rec.Categoria,
			Comarca:   rec.Comarca,
			Devedor:   rec.Devedor,
			Tribunal:  rec.Tribunal,
			Ano:       int64(rec.Ano),
			Total:     rec.Total,
		}); err != nil {
			return fmt.Errorf("insert row %d of %s: %w", i+1, source, err)
		}
	}

	importedAt := r.now().UTC()
	if err := q.InsertImportRun(ctx, InsertImportRunParams{
		Source:     source.String(),
		RowCount:   int64(len(records)),
		ImportedAt: importedAt.Format(time.RFC3339Nano),
	}); err != nil {
		return fmt.Errorf("record import run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import of %s: %w", source, err)
	}

	slog.InfoContext(ctx, "Dataset stored in SQLite",
		"source", source.String(),
		"record_count", len(records),
		"imported_at", importedAt)
	return nil
}

// LastImport returns the most recent import run of source. ok is false when
// the source was never imported.
func (r *SQLiteRepository) LastImport(ctx context.Context, source core.Source) (run core.ImportRun, ok bool, err error) {
	row, err := r.queries.GetLatestImportRun(ctx, source.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.ImportRun{}, false, nil
	}
	if err != nil {
		return core.ImportRun{}, false, fmt.Errorf("get latest import run: %w", err)
	}

	importedAt, err := time.Parse(time.RFC3339Nano, row.ImportedAt)
	if err != nil {
		return core.ImportRun{}, false, fmt.Errorf("parse import time %q: %w", row.ImportedAt, err)
	}
	return core.ImportRun{
		Source:     source,
		RowCount:   int(row.RowCount),
		ImportedAt: importedAt,
	}, true, nil
}
