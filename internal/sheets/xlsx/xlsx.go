// Package xlsx reads datasets from Excel workbooks on disk.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"precatorios/internal/core"
	ports "precatorios/internal/sheets"
)

var _ ports.DatasetReader = (*Reader)(nil)

// Reader maps each source to a workbook path.
type Reader struct {
	files map[core.Source]string
}

func New(files map[core.Source]string) *Reader {
	cp := make(map[core.Source]string, len(files))
	for k, v := range files {
		cp[k] = v
	}
	return &Reader{files: cp}
}

// ReadRecords opens the workbook of source and maps the first sheet to records.
// The workbook is reopened on every call so edits on disk are picked up.
func (r *Reader) ReadRecords(ctx context.Context, source core.Source) ([]core.Record, error) {
	path, ok := r.files[source]
	if !ok || path == "" {
		return nil, core.NewLoadFailure(source, fmt.Errorf("no workbook configured: %w", core.ErrUnknownSource))
	}
	if err := ctx.Err(); err != nil {
		return nil, core.NewLoadFailure(source, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.NewLoadFailure(source, fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	records, err := readFirstSheet(f)
	if err != nil {
		return nil, core.NewLoadFailure(source, fmt.Errorf("%s: %w", path, err))
	}
	return records, nil
}

// Decode reads records from a workbook stream.
func Decode(rd io.Reader) ([]core.Record, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readFirstSheet(f)
}

func readFirstSheet(f *excelize.File) ([]core.Record, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return core.RecordsFromRows(rows), nil
}
