package engine

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/schema"
	"github.com/spektr-org/pairplot/vegalite"
)

// ============================================================================
// TRUNCATION — Bounding categorical cardinality
// ============================================================================
// Two interchangeable strategies, one per deployment:
//
//   EagerTruncation — rewrites a derived copy of the dataset before any
//                     template runs: values outside the top N of a nominal
//                     column become "Others".
//   LazyTruncation  — leaves data alone and injects a calculate transform per
//                     chart that maps values ranked ≥ N to "All Others".
//
// Either way an axis shows at most N+1 categories.
// ============================================================================

const (
	// EagerSentinel replaces truncated values in the eager strategy.
	EagerSentinel = "Others"
	// LazySentinel is written by the lazy strategy's derived field.
	LazySentinel = "All Others"
)

// FieldBinding tells a template how to encode one column.
type FieldBinding struct {
	Column     string               // original column name
	Field      string               // field the encoding reads (unescaped)
	Title      string               // axis title
	Sort       FrequencyOrder       // explicit axis order; empty = renderer default
	Cap        int                  // category cap the chart must still enforce; 0 = none
	Transforms []vegalite.Transform // transforms deriving Field, run after validity filters
}

// TruncationStrategy bounds the number of categories a nominal axis shows.
type TruncationStrategy interface {
	// Name identifies the strategy ("eager" or "lazy").
	Name() string
	// Prepare returns the dataset the spec embeds and a FrequencyOrder per
	// nominal column of types.
	Prepare(data Dataset, types schema.TypeMap) (Dataset, map[string]FrequencyOrder)
	// Bind describes how a chart of the given kind encodes a nominal column.
	Bind(column string, order FrequencyOrder, kind TemplateKind) FieldBinding
}

// ParseTruncation resolves a strategy by name.
func ParseTruncation(name string, maxNominals int) (TruncationStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "eager":
		return EagerTruncation{MaxNominals: maxNominals}, nil
	case "lazy":
		return LazyTruncation{}, nil
	}
	return nil, errors.Wrapf(ErrInvalidOption, "unknown truncation strategy %q", name)
}

// ============================================================================
// EAGER — rewrite a derived copy of the rows
// ============================================================================

// EagerTruncation keeps the top MaxNominals values of every nominal column.
type EagerTruncation struct {
	MaxNominals int
	Sentinel    string // default EagerSentinel
}

func (EagerTruncation) Name() string { return "eager" }

func (e EagerTruncation) sentinel() string {
	if e.Sentinel == "" {
		return EagerSentinel
	}
	return e.Sentinel
}

func (e EagerTruncation) Prepare(data Dataset, types schema.TypeMap) (Dataset, map[string]FrequencyOrder) {
	return TruncateNominals(data, types.Nominals(), e.MaxNominals, e.sentinel())
}

func (EagerTruncation) Bind(column string, order FrequencyOrder, _ TemplateKind) FieldBinding {
	return FieldBinding{
		Column: column,
		Field:  column,
		Title:  column,
		Sort:   order,
	}
}

// TruncateNominals returns a copy of data in which, for every listed column,
// values ranked n or worse are replaced by sentinel. Missing values are left
// as they are. The returned orders list the kept values by rank, followed by
// sentinel when at least one value was bucketed. n <= 0 disables truncation.
func TruncateNominals(data Dataset, columns []string, n int, sentinel string) (Dataset, map[string]FrequencyOrder) {
	orders := make(map[string]FrequencyOrder, len(columns))
	keep := make(map[string]map[any]bool, len(columns))

	for _, col := range columns {
		full := ColumnOrder(data, col)
		top := full.Top(n)

		kept := make(map[any]bool, len(top))
		for _, v := range top {
			kept[v] = true
		}
		keep[col] = kept

		order := make(FrequencyOrder, len(top), len(top)+1)
		copy(order, top)
		if len(full) > len(top) && !kept[sentinel] {
			order = append(order, sentinel)
		}
		orders[col] = order
	}

	out := make(Dataset, len(data))
	for i, row := range data {
		derived := make(Row, len(row))
		for k, v := range row {
			derived[k] = v
		}
		for col, kept := range keep {
			v, ok := row[col]
			if !ok || IsMissing(v) {
				continue
			}
			if !kept[v] {
				derived[col] = sentinel
			}
		}
		out[i] = derived
	}

	return out, orders
}

// ============================================================================
// LAZY — derive a truncated field inside each chart
// ============================================================================

// DefaultLazyCaps are the per-template category caps of the lazy strategy.
var DefaultLazyCaps = map[TemplateKind]int{
	TemplateHeatDot: 10,
	TemplateJitter:  5,
	TemplateBar:     10,
}

// LazyTruncation caps categories at render time, per chart type.
type LazyTruncation struct {
	Caps     map[TemplateKind]int // default DefaultLazyCaps
	Sentinel string               // default LazySentinel
}

func (LazyTruncation) Name() string { return "lazy" }

func (l LazyTruncation) sentinel() string {
	if l.Sentinel == "" {
		return LazySentinel
	}
	return l.Sentinel
}

func (l LazyTruncation) cap(kind TemplateKind) int {
	caps := l.Caps
	if caps == nil {
		caps = DefaultLazyCaps
	}
	return caps[kind]
}

func (LazyTruncation) Prepare(data Dataset, types schema.TypeMap) (Dataset, map[string]FrequencyOrder) {
	return data, ColumnOrders(data, types.Nominals())
}

func (l LazyTruncation) Bind(column string, order FrequencyOrder, kind TemplateKind) FieldBinding {
	n := l.cap(kind)
	binding := FieldBinding{
		Column: column,
		Field:  column,
		Title:  column,
		Sort:   order,
	}

	// Bars rank by their aggregated value, so they are limited with a
	// rank filter inside the chart instead of a derived field.
	if kind == TemplateBar {
		binding.Sort = nil
		if n > 0 && len(order) > n {
			binding.Cap = n
		}
		return binding
	}

	if n <= 0 || len(order) <= n {
		return binding
	}

	top := order.Top(n)
	sentinel := l.sentinel()
	derived := fmt.Sprintf("%s (top %d)", column, n)

	binding.Field = derived
	binding.Sort = append(append(FrequencyOrder{}, top...), sentinel)
	binding.Transforms = []vegalite.Transform{{
		Calculate: fmt.Sprintf("indexof(%s, %s) >= 0 ? %s : %s",
			vegalite.Literal([]any(top)), vegalite.Datum(column),
			vegalite.Datum(column), vegalite.Literal(sentinel)),
		As: derived,
	}}
	return binding
}
