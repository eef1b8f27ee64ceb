// Package report renders the result of a filter pass for people: a plain
// text summary for terminals and an xlsx workbook for spreadsheets.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"precatorios/internal/core"
	"precatorios/internal/filter"
)

// Report is one filter pass over one source
type Report struct {
	Source   core.Source
	Snapshot filter.Snapshot
}

// Header returns the summary lines shown above the records: one per
// dimension, then the total and the count.
func (r Report) Header() [][2]string {
	lines := make([][2]string, 0, len(core.Dimensions())+2)
	for _, d := range core.Dimensions() {
		lines = append(lines, [2]string{d.String(), r.Snapshot.Displayed[d]})
	}
	lines = append(lines,
		[2]string{"Total", core.FormatBRL(r.Snapshot.Aggregates.Total)},
		[2]string{"Registros", r.Snapshot.Aggregates.FormattedCount},
	)
	return lines
}

// WriteText prints the header and at most limit records. limit <= 0 prints
// every record.
func WriteText(w io.Writer, r Report, limit int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\n\n", r.Source.Label())
	for _, line := range r.Header() {
		fmt.Fprintf(tw, "%s:\t%s\n", line[0], line[1])
	}

	view := r.Snapshot.View
	if len(view) == 0 {
		fmt.Fprintln(tw, "\nNenhum registro encontrado.")
		return tw.Flush()
	}

	shown := view
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, strings.Join(columns(), "\t"))
	for _, rec := range shown {
		fmt.Fprintln(tw, strings.Join(textRow(rec), "\t"))
	}
	if len(shown) < len(view) {
		fmt.Fprintf(tw, "... %s registros omitidos\n", core.FormatCount(len(view)-len(shown)))
	}
	return tw.Flush()
}

// WriteOptions prints every dimension's option set, one dimension per block
func WriteOptions(w io.Writer, source core.Source, opts filter.Options) error {
	if _, err := fmt.Fprintf(w, "%s\n", source.Label()); err != nil {
		return err
	}
	for _, d := range core.Dimensions() {
		values := opts[d]
		fmt.Fprintf(w, "\n%s (%d)\n", d, len(values))
		for _, v := range values {
			if v == "" {
				v = `""`
			}
			if _, err := fmt.Fprintf(w, "  %s\n", v); err != nil {
				return err
			}
		}
	}
	return nil
}

func columns() []string {
	cols := make([]string, 0, len(core.Dimensions())+1)
	for _, d := range core.Dimensions() {
		cols = append(cols, d.String())
	}
	return append(cols, core.FieldTotal)
}

func textRow(rec core.Record) []string {
	row := make([]string, 0, len(core.Dimensions())+1)
	for _, d := range core.Dimensions() {
		row = append(row, rec.Value(d))
	}
	return append(row, core.FormatBRL(rec.Total))
}
