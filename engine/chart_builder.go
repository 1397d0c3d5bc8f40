package engine

import (
	"fmt"

	"github.com/spektr-org/pairplot/vegalite"
)

// ============================================================================
// CHART BUILDER — The four pair templates
// ============================================================================
// Every template is a pure function of its fields and returns one panel.
// Each panel declares its own "selected" parameter; selections stay local
// to the panel and drive a two-tone color encoding:
//   unselected → Palette.Default, selected → Palette.Selected.
// ============================================================================

const (
	selectionName = "selected"

	rankTotalField = "__total"
	rankField      = "__rank"

	jitterStep = 40
)

// Palette holds the two-tone selection colors.
type Palette struct {
	Default  string  `json:"default"`
	Selected string  `json:"selected"`
	Opacity  float64 `json:"opacity"` // opacity of unselected points
}

// DefaultPalette is steelblue marks with goldenrod highlights.
var DefaultPalette = Palette{
	Default:  "steelblue",
	Selected: "goldenrod",
	Opacity:  0.4,
}

// ScatterSpec plots two quantitative fields with a rectangular brush.
// Name heuristics decide which field goes on Y (see scatterAxes).
func ScatterSpec(fieldA, fieldB string, p Palette) vegalite.Spec {
	x, y := scatterAxes(fieldA, fieldB)
	return vegalite.Spec{
		Mark:   &vegalite.Mark{Type: "circle"},
		Params: []vegalite.Param{brush()},
		Encoding: &vegalite.Encoding{
			X:       quantitative(x, false),
			Y:       quantitative(y, false),
			Color:   highlight(p),
			Opacity: dim(p),
		},
	}
}

// HeatDotSpec plots two nominal fields as a dot matrix sized by row count.
// The second layer redraws the clicked cell in the highlight color.
func HeatDotSpec(x, y FieldBinding, p Palette) vegalite.Spec {
	base := func(color string) *vegalite.Encoding {
		return &vegalite.Encoding{
			X: nominal(x),
			Y: nominal(y),
			Size: &vegalite.FieldDef{
				Aggregate: "count",
				Legend:    &vegalite.Null{},
			},
			Color: &vegalite.ValueDef{Value: color},
		}
	}

	transforms := validNominal(x.Column, y.Column)
	transforms = append(transforms, x.Transforms...)
	transforms = append(transforms, y.Transforms...)

	return vegalite.Spec{
		Transform: transforms,
		Layer: []vegalite.Spec{
			{
				Mark: &vegalite.Mark{Type: "circle"},
				Params: []vegalite.Param{{
					Name: selectionName,
					Select: vegalite.Selection{
						Type:      vegalite.SelectPoint,
						Nearest:   true,
						Encodings: []string{"x", "y"},
					},
				}},
				Encoding: base(p.Default),
			},
			{
				Mark:      &vegalite.Mark{Type: "circle"},
				Transform: []vegalite.Transform{selectionFilter()},
				Encoding:  base(p.Selected),
			},
		},
	}
}

// BarSpec sums a count-like quantitative field per category, bars sorted by
// that sum. When the binding carries a cap, only the top-ranked categories
// are kept via a joinaggregate + window rank + filter.
func BarSpec(quant string, cat FieldBinding, p Palette) vegalite.Spec {
	base := func(color string) *vegalite.Encoding {
		x := nominal(cat)
		x.Sort = vegalite.SortField{
			Field: vegalite.Field(quant),
			Op:    "sum",
			Order: "descending",
		}
		y := quantitative(quant, true)
		y.Aggregate = "sum"
		return &vegalite.Encoding{
			X:     x,
			Y:     y,
			Color: &vegalite.ValueDef{Value: color},
		}
	}

	transforms := append(validQuantitative(quant), validNominal(cat.Column)...)
	transforms = append(transforms, cat.Transforms...)
	if cat.Cap > 0 {
		transforms = append(transforms, topRankFilter(quant, cat.Field, cat.Cap)...)
	}

	return vegalite.Spec{
		Transform: transforms,
		Layer: []vegalite.Spec{
			{
				Mark: &vegalite.Mark{Type: "bar"},
				Params: []vegalite.Param{{
					Name: selectionName,
					Select: vegalite.Selection{
						Type:      vegalite.SelectPoint,
						Encodings: []string{"x"},
					},
				}},
				Encoding: base(p.Default),
			},
			{
				Mark:      &vegalite.Mark{Type: "bar"},
				Transform: []vegalite.Transform{selectionFilter()},
				Encoding:  base(p.Selected),
			},
		},
	}
}

// JitterSpec is a strip plot: categories on X, spread by the shared jitter
// field on xOffset so points in the same category do not overlap.
func JitterSpec(quant string, cat FieldBinding, jitterField string, p Palette) vegalite.Spec {
	transforms := append(validQuantitative(quant), validNominal(cat.Column)...)
	transforms = append(transforms, cat.Transforms...)

	return vegalite.Spec{
		Width:     vegalite.Step{Step: jitterStep},
		Mark:      &vegalite.Mark{Type: "circle"},
		Params:    []vegalite.Param{brush()},
		Transform: transforms,
		Encoding: &vegalite.Encoding{
			X: nominal(cat),
			Y: quantitative(quant, false),
			XOffset: &vegalite.FieldDef{
				Field: vegalite.Field(jitterField),
				Type:  encQuantitative,
			},
			Color:   highlight(p),
			Opacity: dim(p),
		},
	}
}

// ── Shared pieces ────────────────────────────────────────────────────────────

// Vega-Lite encoding types used by the templates.
const (
	encQuantitative = "quantitative"
	encNominal      = "nominal"
)

func brush() vegalite.Param {
	return vegalite.Param{
		Name: selectionName,
		Select: vegalite.Selection{
			Type:      vegalite.SelectInterval,
			Encodings: []string{"x", "y"},
		},
	}
}

func highlight(p Palette) *vegalite.ValueDef {
	return &vegalite.ValueDef{
		Condition: &vegalite.Condition{
			Param: selectionName,
			Empty: vegalite.Bool(false),
			Value: p.Selected,
		},
		Value: p.Default,
	}
}

// dim fades unselected points; selected ones are drawn opaque. A zero
// opacity leaves the renderer default.
func dim(p Palette) *vegalite.ValueDef {
	if p.Opacity <= 0 {
		return nil
	}
	return &vegalite.ValueDef{
		Condition: &vegalite.Condition{
			Param: selectionName,
			Empty: vegalite.Bool(false),
			Value: 1,
		},
		Value: p.Opacity,
	}
}

// quantitative encodes a continuous field. zero=false frees the scale from
// the origin.
func quantitative(field string, zero bool) *vegalite.FieldDef {
	def := &vegalite.FieldDef{
		Field: vegalite.Field(field),
		Type:  encQuantitative,
		Title: escapedTitle(field),
	}
	if !zero {
		def.Scale = &vegalite.Scale{Zero: vegalite.Bool(false)}
	}
	return def
}

func nominal(b FieldBinding) *vegalite.FieldDef {
	def := &vegalite.FieldDef{
		Field: vegalite.Field(b.Field),
		Type:  encNominal,
	}
	if b.Title != "" && b.Title != b.Field {
		def.Title = b.Title
	} else {
		def.Title = escapedTitle(b.Field)
	}
	if len(b.Sort) > 0 {
		def.Sort = []any(b.Sort)
	}
	return def
}

// escapedTitle returns the raw name when escaping changed the field string,
// so axis titles never show backslashes.
func escapedTitle(field string) string {
	if vegalite.Field(field) != field {
		return field
	}
	return ""
}

// topRankFilter keeps rows whose category ranks within the top n by the
// summed quantity. Equal sums are ordered by category name so every category
// gets its own dense rank and at most n survive.
func topRankFilter(quant, catField string, n int) []vegalite.Transform {
	return []vegalite.Transform{
		{
			JoinAggregate: []vegalite.AggregateOp{{
				Op:    "sum",
				Field: vegalite.Field(quant),
				As:    rankTotalField,
			}},
			GroupBy: []string{vegalite.Field(catField)},
		},
		{
			Window: []vegalite.WindowOp{{Op: "dense_rank", As: rankField}},
			Sort: []vegalite.SortField{
				{Field: rankTotalField, Order: "descending"},
				{Field: vegalite.Field(catField), Order: "ascending"},
			},
		},
		{
			Filter: fmt.Sprintf("datum.%s <= %d", rankField, n),
		},
	}
}
