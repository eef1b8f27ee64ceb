package filter

import (
	"golang.org/x/text/language"

	"precatorios/internal/core"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	placeholder     string
	separator       string
	initialOrder    Order
	postFilterOrder Order
}

// WithPlaceholder sets the text shown for an unrestricted dimension.
func WithPlaceholder(s string) Option {
	return func(c *config) {
		c.placeholder = s
	}
}

// WithSeparator sets the text joining selected values in DisplayedFilters.
func WithSeparator(s string) Option {
	return func(c *config) {
		c.separator = s
	}
}

// WithLocale sorts the initial options with the collation of tag.
func WithLocale(tag language.Tag) Option {
	return func(c *config) {
		c.initialOrder = NewCollationOrder(tag)
	}
}

// WithPostFilterOrder sets the order of options recomputed after a filter pass.
func WithPostFilterOrder(o Order) Option {
	return func(c *config) {
		c.postFilterOrder = o
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		placeholder:     "Todos",
		separator:       ", ",
		initialOrder:    NewCollationOrder(core.Locale),
		postFilterOrder: LexicalOrder{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
