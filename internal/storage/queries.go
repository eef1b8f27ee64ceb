package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Record is a stored dataset row.
type Record struct {
	Source    string
	RowNumber int64
	Assuntos  string
	Categoria string
	Comarca   string
	Devedor   string
	Tribunal  string
	Ano       int64
	Total     float64
}

// ImportRun is a stored import run.
type ImportRun struct {
	ID         int64
	Source     string
	RowCount   int64
	ImportedAt string
}

const deleteRecordsBySource = `DELETE FROM records WHERE source = ?`

func (q *Queries) DeleteRecordsBySource(ctx context.Context, source string) error {
	_, err := q.db.ExecContext(ctx, deleteRecordsBySource, source)
	return err
}

const insertRecord = `INSERT INTO records (
    source, row_number, assuntos, categoria, comarca, devedor, tribunal, ano, total
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertRecordParams struct {
	Source    string
	RowNumber int64
	Assuntos  string
	Categoria string
	Comarca   string
	Devedor   string
	Tribunal  string
	Ano       int64
	Total     float64
}

func (q *Queries) InsertRecord(ctx context.Context, arg InsertRecordParams) error {
	_, err := q.db.ExecContext(ctx, insertRecord,
		arg.Source,
		arg.RowNumber,
		arg.Assuntos,
		arg.Categoria,
		arg.Comarca,
		arg.Devedor,
		arg.Tribunal,
		arg.Ano,
		arg.Total,
	)
	return err
}

const listRecordsBySource = `SELECT source, row_number, assuntos, categoria, comarca, devedor, tribunal, ano, total
FROM records
WHERE source = ?
ORDER BY row_number`

func (q *Queries) ListRecordsBySource(ctx context.Context, source string) ([]Record, error) {
	rows, err := q.db.QueryContext(ctx, listRecordsBySource, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Record
	for rows.Next() {
		var i Record
		if err := rows.Scan(
			&i.Source,
			&i.RowNumber,
			&i.Assuntos,
			&i.Categoria,
			&i.Comarca,
			&i.Devedor,
			&i.Tribunal,
			&i.Ano,
			&i.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertImportRun = `INSERT INTO import_runs (source, row_count, imported_at) VALUES (?, ?, ?)`

type InsertImportRunParams struct {
	Source     string
	RowCount   int64
	ImportedAt string
}

func (q *Queries) InsertImportRun(ctx context.Context, arg InsertImportRunParams) error {
	_, err := q.db.ExecContext(ctx, insertImportRun, arg.Source, arg.RowCount, arg.ImportedAt)
	return err
}

const getLatestImportRun = `SELECT id, source, row_count, imported_at
FROM import_runs
WHERE source = ?
ORDER BY id DESC
LIMIT 1`

func (q *Queries) GetLatestImportRun(ctx context.Context, source string) (ImportRun, error) {
	row := q.db.QueryRowContext(ctx, getLatestImportRun, source)
	var i ImportRun
	err := row.Scan(&i.ID, &i.Source, &i.RowCount, &i.ImportedAt)
	return i, err
}
