// Package filter implements faceted filtering over a loaded dataset.
//
// The pure functions DeriveOptions, Filter, Display and Aggregate do the work;
// Engine is a single-user session composing them. Selections are buffered by
// SetSelection and only take effect when ApplyFilters commits them, at which
// point the view, options, displayed filters and aggregates are replaced
// together by a new Snapshot.
package filter

import (
	"precatorios/internal/core"
)

// Engine holds one browsing session. It is not safe for concurrent use.
type Engine struct {
	cfg      *config
	state    State
	dataset  []core.Record
	pending  Selection
	options  Options
	snapshot *Snapshot
}

// NewEngine returns an Engine in the Unloaded state.
func NewEngine(opts ...Option) *Engine {
	return &Engine{
		cfg:     applyOptions(opts),
		state:   Unloaded,
		pending: Selection{},
		options: DeriveOptions(nil, LexicalOrder{}),
	}
}

// Initialize stores the dataset and derives the initial options from all of
// it. An empty dataset is ignored and the engine stays Unloaded. Once loaded,
// the dataset is fixed for the engine's lifetime; later calls are ignored.
func (e *Engine) Initialize(dataset []core.Record) {
	if e.state != Unloaded || len(dataset) == 0 {
		return
	}
	e.dataset = append([]core.Record(nil), dataset...)
	e.pending = Selection{}
	e.options = DeriveOptions(e.dataset, e.cfg.initialOrder)
	e.state = Loaded
}

// SetSelection replaces the pending selection of d. Repeated values are
// dropped, keeping the first occurrence. Nothing is recomputed until
// ApplyFilters.
func (e *Engine) SetSelection(d core.Dimension, values []string) {
	if _, err := core.ParseDimension(string(d)); err != nil {
		return
	}
	seen := make(map[string]struct{}, len(values))
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		kept = append(kept, v)
	}
	e.pending[d] = kept
}

// ApplyFilters commits the pending selection and recomputes the filtered
// view, the options (from the view), the displayed filters and the
// aggregates. It does nothing while the engine is Unloaded.
func (e *Engine) ApplyFilters() {
	if e.state == Unloaded {
		return
	}
	applied := e.pending.Clone()
	view := Filter(e.dataset, applied)
	snap := &Snapshot{
		Selection:  applied,
		View:       view,
		Options:    DeriveOptions(view, e.cfg.postFilterOrder),
		Displayed:  Display(applied, e.cfg.placeholder, e.cfg.separator),
		Aggregates: Aggregate(view),
	}
	e.snapshot = snap
	e.options = snap.Options
	e.state = Filtered
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Loaded reports whether a non-empty dataset has been stored.
func (e *Engine) Loaded() bool {
	return e.state != Unloaded
}

// QueryPerformed reports whether ApplyFilters has run at least once.
func (e *Engine) QueryPerformed() bool {
	return e.snapshot != nil
}

// Len returns the size of the dataset.
func (e *Engine) Len() int {
	return len(e.dataset)
}

// Pending returns the selection that the next ApplyFilters will commit.
func (e *Engine) Pending() Selection {
	return e.pending.Clone()
}

// Options returns the values currently offered per dimension.
func (e *Engine) Options() Options {
	return e.options.Clone()
}

// Snapshot returns the result of the last filter pass.
func (e *Engine) Snapshot() (Snapshot, bool) {
	if e.snapshot == nil {
		return Snapshot{}, false
	}
	s := *e.snapshot
	s.Selection = s.Selection.Clone()
	s.View = append([]core.Record(nil), s.View...)
	s.Options = s.Options.Clone()
	s.Displayed = s.Displayed.Clone()
	return s, true
}

// FilteredData returns the current filtered view, nil before the first pass.
func (e *Engine) FilteredData() []core.Record {
	if e.snapshot == nil {
		return nil
	}
	return append([]core.Record(nil), e.snapshot.View...)
}

// DisplayedFilters returns the displayed filters of the last pass, nil before it.
func (e *Engine) DisplayedFilters() DisplayedFilters {
	if e.snapshot == nil {
		return nil
	}
	return e.snapshot.Displayed.Clone()
}

// Total returns the clamped sum of Total over the filtered view.
func (e *Engine) Total() float64 {
	return e.aggregates().Total
}

// FilteredCount returns the size of the filtered view with pt-BR grouping.
func (e *Engine) FilteredCount() string {
	return e.aggregates().FormattedCount
}

func (e *Engine) aggregates() Aggregates {
	if e.snapshot == nil {
		return Aggregate(nil)
	}
	return e.snapshot.Aggregates
}
