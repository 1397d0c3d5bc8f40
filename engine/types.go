package engine

import (
	"math"

	"github.com/spektr-org/pairplot/schema"
	"github.com/spektr-org/pairplot/vegalite"
)

// ============================================================================
// PAIRPLOT ENGINE TYPES
// ============================================================================
// Rows are generic column → scalar maps (string, number, bool, nil), exactly
// as a query backend or JSON file hands them over. The engine never mutates
// a Dataset; truncation works on a derived copy.
// ============================================================================

// Row is a single data row keyed by column name.
type Row = map[string]any

// Dataset is an ordered sequence of rows.
type Dataset []Row

// Column returns the raw values of one column, in row order.
// Rows lacking the key contribute nil.
func (d Dataset) Column(name string) []any {
	values := make([]any, len(d))
	for i, row := range d {
		values[i] = row[name]
	}
	return values
}

// IsMissing reports whether a value counts as missing: absent, nil, NaN/Inf
// or a non-scalar value. Missing values are never ranked nor bucketed.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x) || math.IsInf(x, 0)
	case float32:
		return math.IsNaN(float64(x)) || math.IsInf(float64(x), 0)
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return false
	}
	return true
}

// ============================================================================
// PAIRS + TEMPLATES
// ============================================================================

// ColumnPair is an unordered pair of columns in enumeration orientation.
type ColumnPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// TemplateKind names one of the four chart templates.
type TemplateKind string

const (
	TemplateScatter TemplateKind = "scatter"
	TemplateHeatDot TemplateKind = "heatdot"
	TemplateBar     TemplateKind = "bar"
	TemplateJitter  TemplateKind = "jitter"
)

// ============================================================================
// RESULT
// ============================================================================

// Result is the synthesized pair plot plus what was left out of it.
type Result struct {
	Spec    *vegalite.TopLevel `json:"spec"`
	Pairs   []PlottedPair      `json:"pairs"`
	Skipped []SkippedPair      `json:"skipped,omitempty"`
}

// PlottedPair records which template rendered a pair.
type PlottedPair struct {
	Pair     ColumnPair   `json:"pair"`
	Template TemplateKind `json:"template"`
	Rows     int          `json:"rows"` // rows with a value in both columns
}

// SkippedPair records why a pair produced no panel.
type SkippedPair struct {
	Pair   ColumnPair             `json:"pair"`
	Types  [2]schema.SemanticType `json:"types"`
	Reason string                 `json:"reason"`
}
