package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	SourceROPV        Source = "ropv"
	SourcePrecatorios Source = "precatorios"
)

const (
	Assuntos  Dimension = "Assuntos"
	Categoria Dimension = "Categoria"
	Comarca   Dimension = "Comarca"
	Devedor   Dimension = "Devedor"
	Tribunal  Dimension = "Tribunal"
	Ano       Dimension = "Ano"
)

// FieldTotal is the header of the monetary column. It is a field, not a dimension.
const FieldTotal = "Total"

type (
	// Source identifies one of the spreadsheets the records are loaded from.
	Source string

	// Dimension is a facet usable as a filter axis.
	Dimension string

	// Record is one spreadsheet row reduced to the seven retained columns.
	Record struct {
		Assuntos  string  `json:"Assuntos"`
		Categoria string  `json:"Categoria"`
		Comarca   string  `json:"Comarca"`
		Devedor   string  `json:"Devedor"`
		Tribunal  string  `json:"Tribunal"`
		Ano       int     `json:"Ano"`
		Total     float64 `json:"Total"`
	}
)

var (
	ErrUnknownSource    = errors.New("unknown source")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrEmptyDataset     = errors.New("empty dataset")
)

var dimensions = []Dimension{Assuntos, Categoria, Comarca, Devedor, Tribunal, Ano}

// Dimensions returns the six dimensions in canonical display order.
func Dimensions() []Dimension {
	return append([]Dimension(nil), dimensions...)
}

// ParseDimension resolves a dimension name case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(s)
	for _, d := range dimensions {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

func (d Dimension) String() string {
	return string(d)
}

// Sources returns every known source.
func Sources() []Source {
	return []Source{SourceROPV, SourcePrecatorios}
}

// ParseSource resolves a source identifier, accepting the label form too ("ROPV", "Precatorios").
func ParseSource(s string) (Source, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	for _, src := range Sources() {
		if strings.EqualFold(string(src), s) || strings.EqualFold(src.Label(), s) {
			return src, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

func (s Source) String() string {
	return string(s)
}

// Label is the human name used in messages and sheet titles.
func (s Source) Label() string {
	switch s {
	case SourceROPV:
		return "ROPV"
	case SourcePrecatorios:
		return "Precatórios"
	default:
		return string(s)
	}
}

// FileName is the default spreadsheet file backing the source.
func (s Source) FileName() string {
	switch s {
	case SourceROPV:
		return "ROPV.xlsx"
	case SourcePrecatorios:
		return "Precatorios.xlsx"
	default:
		return string(s) + ".xlsx"
	}
}

// Path is the HTTP path serving the source.
func (s Source) Path() string {
	return "/" + string(s)
}

// Value returns the record's value for a dimension. Ano is rendered in decimal.
func (r Record) Value(d Dimension) string {
	switch d {
	case Assuntos:
		return r.Assuntos
	case Categoria:
		return r.Categoria
	case Comarca:
		return r.Comarca
	case Devedor:
		return r.Devedor
	case Tribunal:
		return r.Tribunal
	case Ano:
		return strconv.Itoa(r.Ano)
	default:
		return ""
	}
}

// NewRecord builds a record from a header→cell mapping. Absent columns become
// empty strings; Ano and Total fall back to 0 when they do not parse.
func NewRecord(cells map[string]string) Record {
	get := func(k string) string { return strings.TrimSpace(cells[k]) }
	return Record{
		Assuntos:  get(string(Assuntos)),
		Categoria: get(string(Categoria)),
		Comarca:   get(string(Comarca)),
		Devedor:   get(string(Devedor)),
		Tribunal:  get(string(Tribunal)),
		Ano:       ParseAno(get(string(Ano))),
		Total:     ParseTotal(get(FieldTotal)),
	}
}

// RecordsFromRows maps a sheet's rows to records. The first row is the header;
// rows with no non-blank cell are skipped.
func RecordsFromRows(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		cells := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			if _, dup := cells[name]; dup {
				continue
			}
			cells[name] = row[i]
		}
		out = append(out, NewRecord(cells))
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// LoadFailure reports that a source could not be read or parsed.
type LoadFailure struct {
	Source Source
	Err    error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadFailure) Unwrap() error {
	return e.Err
}

// NewLoadFailure wraps err, leaving an existing LoadFailure untouched.
func NewLoadFailure(source Source, err error) error {
	if err == nil {
		return nil
	}
	var lf *LoadFailure
	if errors.As(err, &lf) {
		return err
	}
	return &LoadFailure{Source: source, Err: err}
}
