package engine

import (
	"strings"

	"github.com/spektr-org/pairplot/schema"
)

// ============================================================================
// SELECTOR — Pair → chart template dispatch
// ============================================================================
// First match wins:
//   1. quantitative × quantitative           → scatter
//   2. nominal × nominal                     → heat-dot
//   3. quantitative × nominal, name "count…" → bar
//      quantitative × nominal, otherwise     → jitter
// Anything involving temporal, ordinal or geojson has no template yet and is
// reported as ErrUnsupportedPair.
// ============================================================================

// Classify picks the template for a pair.
func Classify(pair ColumnPair, types schema.TypeMap) (TemplateKind, error) {
	ta, okA := types.Get(pair.A)
	tb, okB := types.Get(pair.B)
	if !okA || !okB {
		return "", &PairError{Pair: pair, Types: [2]schema.SemanticType{ta, tb}, Err: ErrUnmappedColumn}
	}

	switch {
	case ta == schema.Quantitative && tb == schema.Quantitative:
		return TemplateScatter, nil
	case ta == schema.Nominal && tb == schema.Nominal:
		return TemplateHeatDot, nil
	case isQuantNominal(ta, tb):
		quant, _ := splitQuantNominal(pair, ta)
		if isCount(quant) {
			return TemplateBar, nil
		}
		return TemplateJitter, nil
	}

	return "", &PairError{Pair: pair, Types: [2]schema.SemanticType{ta, tb}, Err: ErrUnsupportedPair}
}

func isQuantNominal(ta, tb schema.SemanticType) bool {
	return (ta == schema.Quantitative && tb == schema.Nominal) ||
		(ta == schema.Nominal && tb == schema.Quantitative)
}

// splitQuantNominal returns (quantitative, nominal) field names of a mixed pair.
func splitQuantNominal(pair ColumnPair, typeA schema.SemanticType) (string, string) {
	if typeA == schema.Quantitative {
		return pair.A, pair.B
	}
	return pair.B, pair.A
}

// ── Name heuristics ──────────────────────────────────────────────────────────
// Deliberately crude: literal, case-insensitive prefix checks.

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), prefix)
}

func isCount(field string) bool       { return hasPrefixFold(field, "count") }
func isProbability(field string) bool { return hasPrefixFold(field, "prob") }

// scatterAxes orients a quantitative pair: a "prob…" or "count…" field reads
// as the dependent variable and goes on Y. The first field is checked first.
func scatterAxes(a, b string) (x, y string) {
	if isProbability(a) || isCount(a) {
		return b, a
	}
	return a, b
}
