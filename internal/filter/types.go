package filter

import (
	"precatorios/internal/core"
)

// State is the lifecycle position of an Engine.
type State int

const (
	Unloaded State = iota
	Loaded
	Filtered
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Filtered:
		return "filtered"
	default:
		return "unknown"
	}
}

// Selection holds the chosen values per dimension. A missing or empty entry
// means the dimension is unrestricted.
type Selection map[core.Dimension][]string

// Options holds the values offered for selection per dimension.
type Options map[core.Dimension][]string

// DisplayedFilters is the human rendering of a Selection, one line per dimension.
type DisplayedFilters map[core.Dimension]string

// Aggregates are the figures derived from a filtered view.
type Aggregates struct {
	Total          float64 `json:"total"`
	Count          int     `json:"count"`
	FormattedCount string  `json:"formattedCount"`
}

// Snapshot is the result of one filter pass. All fields are produced together
// and never updated independently.
type Snapshot struct {
	Selection  Selection        `json:"selection"`
	View       []core.Record    `json:"filteredData"`
	Options    Options          `json:"options"`
	Displayed  DisplayedFilters `json:"displayedFilters"`
	Aggregates Aggregates       `json:"aggregates"`
}

// Values returns the selected values for d.
func (s Selection) Values(d core.Dimension) []string {
	return s[d]
}

// IsEmpty reports whether no dimension is restricted.
func (s Selection) IsEmpty() bool {
	for _, v := range s {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for d, v := range s {
		out[d] = append([]string(nil), v...)
	}
	return out
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for d, v := range o {
		out[d] = append([]string(nil), v...)
	}
	return out
}

// Clone returns a copy.
func (d DisplayedFilters) Clone() DisplayedFilters {
	out := make(DisplayedFilters, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
