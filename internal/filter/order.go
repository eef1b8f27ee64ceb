package filter

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order sorts option values in place.
type Order interface {
	Sort(values []string)
}

// LexicalOrder sorts by code point, the way a plain string sort does.
type LexicalOrder struct{}

func (LexicalOrder) Sort(values []string) {
	sort.Strings(values)
}

// CollationOrder sorts with locale-aware collation.
// A Collator is not safe for concurrent use, neither is a CollationOrder.
type CollationOrder struct {
	collator *collate.Collator
}

// NewCollationOrder returns an Order comparing strings as the given locale does.
func NewCollationOrder(tag language.Tag) *CollationOrder {
	return &CollationOrder{collator: collate.New(tag)}
}

func (o *CollationOrder) Sort(values []string) {
	o.collator.SortStrings(values)
}
