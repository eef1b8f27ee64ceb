package core

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ImportRun describes one completed import of a source into the local store.
type ImportRun struct {
	Source     Source
	RowCount   int
	ImportedAt time.Time
}

// Total returns the raw (unclamped) sum of Total over records, computed in
// decimal. Infinite and NaN amounts count as 0.
func Total(records []Record) float64 {
	sum := decimal.Zero
	for _, r := range records {
		if math.IsInf(r.Total, 0) || math.IsNaN(r.Total) {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(r.Total))
	}
	return sum.InexactFloat64()
}
