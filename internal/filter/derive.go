package filter

import (
	"strings"

	"precatorios/internal/core"
)

// DeriveOptions returns, for every dimension, the distinct values found in
// records sorted by order. Every dimension has an entry, empty when records is.
func DeriveOptions(records []core.Record, order Order) Options {
	opts := make(Options, len(core.Dimensions()))
	for _, d := range core.Dimensions() {
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, r := range records {
			v := r.Value(d)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		order.Sort(values)
		opts[d] = values
	}
	return opts
}

// Filter returns the records matching every restricted dimension of sel,
// in dataset order. Dimensions are AND-combined; values within a dimension
// are OR-combined.
func Filter(records []core.Record, sel Selection) []core.Record {
	sets := make(map[core.Dimension]map[string]struct{})
	for _, d := range core.Dimensions() {
		values := sel.Values(d)
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		sets[d] = set
	}

	view := make([]core.Record, 0, len(records))
	for _, r := range records {
		if matches(r, sets) {
			view = append(view, r)
		}
	}
	return view
}

func matches(r core.Record, sets map[core.Dimension]map[string]struct{}) bool {
	for d, set := range sets {
		if _, ok := set[r.Value(d)]; !ok {
			return false
		}
	}
	return true
}

// Display renders sel for a report header. Unrestricted dimensions show the
// placeholder; restricted ones list their values in selection order.
func Display(sel Selection, placeholder, separator string) DisplayedFilters {
	out := make(DisplayedFilters, len(core.Dimensions()))
	for _, d := range core.Dimensions() {
		values := sel.Values(d)
		if len(values) == 0 {
			out[d] = placeholder
			continue
		}
		out[d] = strings.Join(values, separator)
	}
	return out
}

// Aggregate sums Total over view and counts its records. A sum that is not
// positive is reported as 0.
func Aggregate(view []core.Record) Aggregates {
	total := core.Total(view)
	if total <= 0 {
		total = 0
	}
	return Aggregates{
		Total:          total,
		Count:          len(view),
		FormattedCount: core.FormatCount(len(view)),
	}
}
