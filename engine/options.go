package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/vegalite"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Synthesize()
// ============================================================================

// Option configures synthesis via functional options pattern.
type Option func(*config)

// JitterMode decides where the per-row jitter offset is computed.
type JitterMode string

const (
	// JitterExpression lets the renderer draw the offset per row
	// (clamp(sampleNormal(0.5, 0.25), 0, 1)). Draws vary between renders.
	JitterExpression JitterMode = "expression"
	// JitterLiteral computes seeded offsets during synthesis and embeds them
	// in the data, for renderers without row-level random expressions.
	JitterLiteral JitterMode = "literal"
)

// Valid reports whether m is a known jitter mode.
func (m JitterMode) Valid() bool { return m == JitterExpression || m == JitterLiteral }

// Defaults mirror the original component's props.
const (
	DefaultMaxPairs    = 8
	DefaultMaxColumns  = 2
	DefaultMaxNominals = 8
	DefaultJitterField = "__jitter"
)

type config struct {
	MaxPairs    int
	MaxColumns  int
	MaxNominals int
	Columns     []string           // explicit column selection; nil = every typed column
	Truncation  TruncationStrategy // nil = eager with MaxNominals
	Layout      vegalite.Layout
	Jitter      JitterMode
	JitterSeed  int64
	JitterField string
	Strict      bool // fail on unsupported pairs instead of skipping them
	Palette     Palette
}

// WithMaxPairs caps the number of enumerated pairs (first N kept).
func WithMaxPairs(n int) Option {
	return func(c *config) { c.MaxPairs = n }
}

// WithMaxColumns sets the grid width of the grid layout.
func WithMaxColumns(n int) Option {
	return func(c *config) { c.MaxColumns = n }
}

// WithMaxNominals sets the eager truncation cap.
func WithMaxNominals(n int) Option {
	return func(c *config) { c.MaxNominals = n }
}

// WithColumns restricts the plot to the given columns, in the given order.
// Every name must be present in the TypeMap.
func WithColumns(columns ...string) Option {
	return func(c *config) { c.Columns = columns }
}

// WithTruncation selects the categorical truncation strategy.
func WithTruncation(s TruncationStrategy) Option {
	return func(c *config) { c.Truncation = s }
}

// WithLayout selects grid or vertical panel arrangement.
func WithLayout(l vegalite.Layout) Option {
	return func(c *config) { c.Layout = l }
}

// WithJitter selects where jitter offsets are computed.
func WithJitter(m JitterMode) Option {
	return func(c *config) { c.Jitter = m }
}

// WithJitterSeed seeds literal jitter offsets.
func WithJitterSeed(seed int64) Option {
	return func(c *config) { c.JitterSeed = seed }
}

// WithStrict makes unsupported type combinations fail synthesis.
func WithStrict(strict bool) Option {
	return func(c *config) { c.Strict = strict }
}

// WithPalette overrides the selection colors.
func WithPalette(p Palette) Option {
	return func(c *config) { c.Palette = p }
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) (*config, error) {
	cfg := &config{
		MaxPairs:    DefaultMaxPairs,
		MaxColumns:  DefaultMaxColumns,
		MaxNominals: DefaultMaxNominals,
		Layout:      vegalite.LayoutGrid,
		Jitter:      JitterExpression,
		JitterSeed:  1,
		JitterField: DefaultJitterField,
		Palette:     DefaultPalette,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch {
	case cfg.MaxPairs < 0:
		return nil, errors.Wrapf(ErrInvalidOption, "maxPairs must be >= 0, got %d", cfg.MaxPairs)
	case cfg.MaxColumns < 1:
		return nil, errors.Wrapf(ErrInvalidOption, "maxColumns must be >= 1, got %d", cfg.MaxColumns)
	case cfg.MaxNominals < 1:
		return nil, errors.Wrapf(ErrInvalidOption, "maxNominals must be >= 1, got %d", cfg.MaxNominals)
	case !cfg.Layout.Valid():
		return nil, errors.Wrapf(ErrInvalidOption, "unknown layout %q", cfg.Layout)
	case !cfg.Jitter.Valid():
		return nil, errors.Wrapf(ErrInvalidOption, "unknown jitter mode %q", cfg.Jitter)
	}

	if cfg.Truncation == nil {
		cfg.Truncation = EagerTruncation{MaxNominals: cfg.MaxNominals}
	}
	return cfg, nil
}
