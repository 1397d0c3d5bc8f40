// Package vegalite holds the subset of the Vega-Lite v5 grammar the pair-plot
// engine emits. Values are plain structs serialized with encoding/json; the
// renderer (vega-embed or any Vega-Lite runtime) consumes the JSON directly.
package vegalite

import (
	"encoding/json"
	"strings"
)

// SchemaURL is the $schema every top-level spec declares.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Layout selects how panels are arranged in the composite spec.
type Layout string

const (
	// LayoutGrid wraps panels into rows of Columns panels ("concat").
	LayoutGrid Layout = "grid"
	// LayoutVertical stacks panels in a single column ("vconcat").
	LayoutVertical Layout = "vertical"
)

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool { return l == LayoutGrid || l == LayoutVertical }

// TopLevel is a composite spec: shared data, global transforms, one panel
// per column pair.
type TopLevel struct {
	Data      Data
	Transform []Transform
	Layout    Layout
	Panels    []Spec
	Columns   int
	Config    *Config
}

// MarshalJSON emits "concat"+"columns" for the grid layout and "vconcat"
// otherwise. Empty data and panel lists are written as [] so the result
// stays schema-valid.
func (t TopLevel) MarshalJSON() ([]byte, error) {
	panels := t.Panels
	if panels == nil {
		panels = []Spec{}
	}
	values := t.Data.Values
	if values == nil {
		values = []map[string]any{}
	}

	out := struct {
		Schema    string      `json:"$schema"`
		Data      Data        `json:"data"`
		Transform []Transform `json:"transform,omitempty"`
		Concat    *[]Spec     `json:"concat,omitempty"`
		VConcat   *[]Spec     `json:"vconcat,omitempty"`
		Columns   int         `json:"columns,omitempty"`
		Config    *Config     `json:"config,omitempty"`
	}{
		Schema:    SchemaURL,
		Data:      Data{Values: values},
		Transform: t.Transform,
		Config:    t.Config,
	}

	if t.Layout == LayoutVertical {
		out.VConcat = &panels
	} else {
		out.Concat = &panels
		out.Columns = t.Columns
	}
	return json.Marshal(out)
}

// Data is an inline data source.
type Data struct {
	Values []map[string]any `json:"values"`
}

// Spec is a unit spec (Mark set) or a layer spec (Layer set).
type Spec struct {
	Width     any         `json:"width,omitempty"`
	Mark      *Mark       `json:"mark,omitempty"`
	Params    []Param     `json:"params,omitempty"`
	Transform []Transform `json:"transform,omitempty"`
	Encoding  *Encoding   `json:"encoding,omitempty"`
	Layer     []Spec      `json:"layer,omitempty"`
}

// Step sizes a discrete axis per band, e.g. {"step": 40}.
type Step struct {
	Step float64 `json:"step"`
}

// Mark is a mark definition.
type Mark struct {
	Type string `json:"type"`
}

// ── Selection parameters ─────────────────────────────────────────────────────

// Param is a named interactive selection.
type Param struct {
	Name   string    `json:"name"`
	Select Selection `json:"select"`
}

// Selection types.
const (
	SelectInterval = "interval"
	SelectPoint    = "point"
)

// Selection configures how user input selects marks.
type Selection struct {
	Type      string   `json:"type"`
	Encodings []string `json:"encodings,omitempty"`
	Nearest   bool     `json:"nearest,omitempty"`
}

// ── Encodings ────────────────────────────────────────────────────────────────

// Encoding maps channels to field or value definitions.
type Encoding struct {
	X       *FieldDef `json:"x,omitempty"`
	Y       *FieldDef `json:"y,omitempty"`
	XOffset *FieldDef `json:"xOffset,omitempty"`
	Size    *FieldDef `json:"size,omitempty"`
	Color   *ValueDef `json:"color,omitempty"`
	Opacity *ValueDef `json:"opacity,omitempty"`
}

// FieldDef is a channel definition bound to a field (or an aggregate).
// Sort holds a channel name ("-y"), an explicit value array or a SortField.
type FieldDef struct {
	Field     string `json:"field,omitempty"`
	Type      string `json:"type,omitempty"`
	Aggregate string `json:"aggregate,omitempty"`
	Sort      any    `json:"sort,omitempty"`
	Title     string `json:"title,omitempty"`
	Scale     *Scale `json:"scale,omitempty"`
	Legend    *Null  `json:"legend,omitempty"`
}

// SortField sorts a discrete channel by an aggregate of another field.
type SortField struct {
	Field string `json:"field,omitempty"`
	Op    string `json:"op,omitempty"`
	Order string `json:"order,omitempty"`
}

// Scale holds scale properties.
type Scale struct {
	Zero *bool `json:"zero,omitempty"`
}

// ValueDef is a value definition with an optional selection condition.
type ValueDef struct {
	Condition *Condition `json:"condition,omitempty"`
	Value     any        `json:"value,omitempty"`
}

// Condition picks Value while Param holds.
type Condition struct {
	Param string `json:"param"`
	Empty *bool  `json:"empty,omitempty"`
	Value any    `json:"value"`
}

// Null always serializes as JSON null; used to disable legends.
type Null struct{}

// MarshalJSON implements json.Marshaler.
func (*Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// ── Transforms ───────────────────────────────────────────────────────────────

// Transform is one entry of a transform array. Exactly one of Filter,
// Calculate, JoinAggregate or Window is set.
type Transform struct {
	Filter        any           `json:"filter,omitempty"`
	Calculate     string        `json:"calculate,omitempty"`
	As            string        `json:"as,omitempty"`
	JoinAggregate []AggregateOp `json:"joinaggregate,omitempty"`
	Window        []WindowOp    `json:"window,omitempty"`
	Sort          []SortField   `json:"sort,omitempty"`
	GroupBy       []string      `json:"groupby,omitempty"`
}

// AggregateOp is an aggregate inside a joinaggregate transform.
type AggregateOp struct {
	Op    string `json:"op"`
	Field string `json:"field,omitempty"`
	As    string `json:"as"`
}

// WindowOp is an operation inside a window transform.
type WindowOp struct {
	Op string `json:"op"`
	As string `json:"as"`
}

// FieldPredicate filters on a field, e.g. {"field": "Sex", "valid": true}.
type FieldPredicate struct {
	Field string `json:"field"`
	Valid *bool  `json:"valid,omitempty"`
}

// ParamPredicate filters on selection membership.
type ParamPredicate struct {
	Param string `json:"param"`
	Empty *bool  `json:"empty,omitempty"`
}

// ── Config ───────────────────────────────────────────────────────────────────

// Config is the shared styling block.
type Config struct {
	Scale *ScaleConfig `json:"scale,omitempty"`
}

// ScaleConfig holds scale defaults.
type ScaleConfig struct {
	BandWithNestedOffsetPaddingInner float64 `json:"bandWithNestedOffsetPaddingInner,omitempty"`
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

var fieldEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `[`, `\[`, `]`, `\]`)

// Field escapes a column name for use in a "field" property, where dots and
// brackets would otherwise address nested properties.
func Field(name string) string {
	return fieldEscaper.Replace(name)
}

// Datum returns an expression reading column name from the current row.
func Datum(name string) string {
	quoted, _ := json.Marshal(name)
	return "datum[" + string(quoted) + "]"
}

// Literal renders a Go value as an expression literal.
func Literal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
