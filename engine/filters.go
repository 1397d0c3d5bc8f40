package engine

import (
	"github.com/spektr-org/pairplot/vegalite"
)

// ============================================================================
// FILTERS — Per-chart validity filtering
// ============================================================================
// Rows missing a value for a plotted column are dropped from that chart only.
// The filter runs in the renderer, so the shared dataset stays whole and
// other panels still see those rows.
// ============================================================================

// validQuantitative keeps rows where each column holds a finite number:
// {"field": f, "valid": true}.
func validQuantitative(columns ...string) []vegalite.Transform {
	filters := make([]vegalite.Transform, 0, len(columns))
	for _, col := range columns {
		filters = append(filters, vegalite.Transform{
			Filter: vegalite.FieldPredicate{
				Field: vegalite.Field(col),
				Valid: vegalite.Bool(true),
			},
		})
	}
	return filters
}

// validNominal keeps rows where each column has a value. The field "valid"
// predicate also requires a number, which would drop every string category,
// so categories are tested with isValid() alone.
func validNominal(columns ...string) []vegalite.Transform {
	filters := make([]vegalite.Transform, 0, len(columns))
	for _, col := range columns {
		filters = append(filters, vegalite.Transform{
			Filter: "isValid(" + vegalite.Datum(col) + ")",
		})
	}
	return filters
}

// selectionFilter keeps only marks inside the "selected" parameter.
func selectionFilter() vegalite.Transform {
	return vegalite.Transform{
		Filter: vegalite.ParamPredicate{
			Param: selectionName,
			Empty: vegalite.Bool(false),
		},
	}
}

// ValidRows counts rows where every listed column has a value.
func ValidRows(data Dataset, columns ...string) int {
	n := 0
	for _, row := range data {
		ok := true
		for _, col := range columns {
			if IsMissing(row[col]) {
				ok = false
				break
			}
		}
		if ok {
			n++
		}
	}
	return n
}
