package engine

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spektr-org/pairplot/schema"
	"github.com/spektr-org/pairplot/vegalite"
)

// ============================================================================
// EXECUTOR — Pair-spec assembler
// ============================================================================
// Entry point: Synthesize(data, types, opts...)
//
// Pipeline:
//   1. Resolve options and the column selection
//   2. Truncate categorical columns (strategy decides eager vs lazy)
//   3. Enumerate pairs, keep the first MaxPairs
//   4. Classify each pair and build its panel
//   5. Wrap panels with shared data, jitter transform, layout and config
//
// Pure: no I/O, no logging, no state kept between calls. Safe to call
// concurrently with different inputs.
// ============================================================================

// bandWithNestedOffsetPaddingInner keeps jittered strips apart.
const bandPaddingInner = 0.6

// Synthesize builds the composite pair-plot specification.
//
// Options:
//   - WithMaxPairs(n), WithMaxColumns(n), WithMaxNominals(n)
//   - WithTruncation(strategy), WithLayout(layout), WithJitter(mode)
//   - WithColumns(names...) — unknown names fail with ErrUnmappedColumn
//   - WithStrict(true) — unsupported pairs fail instead of being skipped
func Synthesize(data Dataset, types schema.TypeMap, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	// 1. Column selection
	if cfg.Columns != nil {
		subset, missing := types.Subset(cfg.Columns)
		if len(missing) > 0 {
			return nil, errors.WithHint(
				errors.Wrapf(ErrUnmappedColumn, "columns %s", strings.Join(missing, ", ")),
				"declare a semantic type for every selected column")
		}
		types = subset
	}
	cfg.JitterField = freeFieldName(data, types, cfg.JitterField)

	// 2. Truncate
	prepared, orders := cfg.Truncation.Prepare(data, types)

	// 3. Pairs
	pairs := Pairs(types.Names())
	if len(pairs) > cfg.MaxPairs {
		pairs = pairs[:cfg.MaxPairs]
	}

	// 4. Dispatch
	result := &Result{}
	panels := make([]vegalite.Spec, 0, len(pairs))
	for _, pair := range pairs {
		kind, err := Classify(pair, types)
		if err != nil {
			var pe *PairError
			if cfg.Strict || !errors.As(err, &pe) || !errors.Is(err, ErrUnsupportedPair) {
				return nil, err
			}
			result.Skipped = append(result.Skipped, SkippedPair{
				Pair:   pair,
				Types:  pe.Types,
				Reason: pe.Err.Error(),
			})
			continue
		}

		panels = append(panels, buildPanel(kind, pair, types, orders, cfg))
		result.Pairs = append(result.Pairs, PlottedPair{
			Pair:     pair,
			Template: kind,
			Rows:     ValidRows(prepared, pair.A, pair.B),
		})
	}

	// 5. Assemble
	spec := &vegalite.TopLevel{
		Layout:  cfg.Layout,
		Panels:  panels,
		Columns: cfg.MaxColumns,
		Config: &vegalite.Config{
			Scale: &vegalite.ScaleConfig{BandWithNestedOffsetPaddingInner: bandPaddingInner},
		},
	}

	var offsets []float64
	if cfg.Jitter == JitterLiteral {
		offsets = JitterOffsets(len(prepared), cfg.JitterSeed)
	} else {
		spec.Transform = []vegalite.Transform{{Calculate: JitterExpr, As: cfg.JitterField}}
	}
	spec.Data = vegalite.Data{Values: materialize(prepared, cfg.JitterField, offsets)}

	result.Spec = spec
	return result, nil
}

// buildPanel dispatches a classified pair to its template.
func buildPanel(kind TemplateKind, pair ColumnPair, types schema.TypeMap, orders map[string]FrequencyOrder, cfg *config) vegalite.Spec {
	bind := func(column string) FieldBinding {
		return cfg.Truncation.Bind(column, orders[column], kind)
	}

	switch kind {
	case TemplateScatter:
		return ScatterSpec(pair.A, pair.B, cfg.Palette)
	case TemplateHeatDot:
		return HeatDotSpec(bind(pair.A), bind(pair.B), cfg.Palette)
	}

	typeA, _ := types.Get(pair.A)
	quant, cat := splitQuantNominal(pair, typeA)
	if kind == TemplateBar {
		return BarSpec(quant, bind(cat), cfg.Palette)
	}
	return JitterSpec(quant, bind(cat), cfg.JitterField, cfg.Palette)
}

// materialize copies rows into the spec's inline data. NaN and Inf become
// null (JSON has no encoding for them) and literal jitter offsets, when
// given, are added under jitterField. The input rows are not modified.
func materialize(data Dataset, jitterField string, offsets []float64) []map[string]any {
	values := make([]map[string]any, len(data))
	for i, row := range data {
		out := make(map[string]any, len(row)+1)
		for k, v := range row {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				v = nil
			}
			out[k] = v
		}
		if offsets != nil {
			out[jitterField] = offsets[i]
		}
		values[i] = out
	}
	return values
}
