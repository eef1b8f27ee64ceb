// Package sheets defines the ports through which datasets are read from and
// written to their backing stores. Adapters live in the subpackages.
package sheets

import (
	"context"

	"precatorios/internal/core"
)

// Ports for outbound adapters.
type (
	// DatasetReader returns every record of a source in row order.
	DatasetReader interface {
		ReadRecords(ctx context.Context, source core.Source) ([]core.Record, error)
	}

	// DatasetWriter replaces the stored records of a source.
	DatasetWriter interface {
		ReplaceRecords(ctx context.Context, source core.Source, records []core.Record) error
	}
)
