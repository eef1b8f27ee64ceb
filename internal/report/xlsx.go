package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// excelize built-in "#,##0.00"
const amountNumFmt = 4

// WriteXLSX writes the report as a workbook: the header block, a blank row,
// then every record of the view.
func WriteXLSX(w io.Writer, r Report) error {
	f, err := buildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the report workbook to path
func SaveXLSX(path string, r Report) error {
	f, err := buildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(r Report) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := r.Source.Label()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: amountNumFmt})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	row := 1
	for _, line := range r.Header() {
		if err := setRow(f, sheet, row, []interface{}{line[0], line[1]}); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}
	row++

	header := make([]interface{}, 0, len(columns()))
	for _, c := range columns() {
		header = append(header, c)
	}
	if err := setRow(f, sheet, row, header); err != nil {
		f.Close()
		return nil, err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(header), row)
	if err := f.SetCellStyle(sheet, first, last, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("style header: %w", err)
	}
	row++

	totalCol := len(header)
	start := row
	for _, rec := range r.Snapshot.View {
		if err := setRow(f, sheet, row, []interface{}{
			rec.Assuntos, rec.Categoria, rec.Comarca, rec.Devedor, rec.Tribunal, rec.Ano, rec.Total,
		}); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}
	if row > start {
		top, _ := excelize.CoordinatesToCellName(totalCol, start)
		bottom, _ := excelize.CoordinatesToCellName(totalCol, row-1)
		if err := f.SetCellStyle(sheet, top, bottom, amount); err != nil {
			f.Close()
			return nil, fmt.Errorf("style amounts: %w", err)
		}
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
