package engine

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/pairplot/vegalite"
)

// toMap round-trips a value through JSON so assertions see exactly what a
// renderer would.
func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func dig(t *testing.T, m any, path ...any) any {
	t.Helper()
	cur := m
	for _, p := range path {
		switch key := p.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			require.True(t, ok, "expected object at %v", p)
			cur = obj[key]
		case int:
			arr, ok := cur.([]any)
			require.True(t, ok, "expected array at %v", p)
			require.Greater(t, len(arr), key)
			cur = arr[key]
		}
	}
	return cur
}

func binding(col string, order ...any) FieldBinding {
	return FieldBinding{Column: col, Field: col, Title: col, Sort: order}
}

func TestScatterSpec(t *testing.T) {
	spec := toMap(t, ScatterSpec("Height", "count_x", DefaultPalette))

	assert.Equal(t, "circle", dig(t, spec, "mark", "type"))
	assert.NotContains(t, dig(t, spec, "mark").(map[string]any), "opacity")
	assert.Equal(t, 0.4, dig(t, spec, "encoding", "opacity", "value"))
	assert.Equal(t, map[string]any{"param": "selected", "empty": false, "value": float64(1)},
		dig(t, spec, "encoding", "opacity", "condition"))
	assert.Equal(t, "Height", dig(t, spec, "encoding", "x", "field"))
	assert.Equal(t, "count_x", dig(t, spec, "encoding", "y", "field"))
	assert.Equal(t, false, dig(t, spec, "encoding", "x", "scale", "zero"))

	assert.Equal(t, "selected", dig(t, spec, "params", 0, "name"))
	assert.Equal(t, "interval", dig(t, spec, "params", 0, "select", "type"))

	assert.Equal(t, "steelblue", dig(t, spec, "encoding", "color", "value"))
	assert.Equal(t, "goldenrod", dig(t, spec, "encoding", "color", "condition", "value"))
	assert.Equal(t, "selected", dig(t, spec, "encoding", "color", "condition", "param"))
	assert.Equal(t, false, dig(t, spec, "encoding", "color", "condition", "empty"))
}

func TestHeatDotSpec(t *testing.T) {
	spec := toMap(t, HeatDotSpec(binding("Sex", "MALE", "FEMALE"), binding("Island", "Biscoe"), DefaultPalette))

	transforms := dig(t, spec, "transform").([]any)
	require.Len(t, transforms, 2)
	assert.Equal(t, `isValid(datum["Sex"])`, dig(t, transforms, 0, "filter"))
	assert.Equal(t, `isValid(datum["Island"])`, dig(t, transforms, 1, "filter"))

	layers := dig(t, spec, "layer").([]any)
	require.Len(t, layers, 2)

	assert.Equal(t, "point", dig(t, layers, 0, "params", 0, "select", "type"))
	assert.Equal(t, true, dig(t, layers, 0, "params", 0, "select", "nearest"))
	assert.Equal(t, "count", dig(t, layers, 0, "encoding", "size", "aggregate"))
	assert.Nil(t, dig(t, layers, 0, "encoding", "size", "legend"))
	assert.Contains(t, dig(t, layers, 0, "encoding", "size").(map[string]any), "legend")
	assert.Equal(t, []any{"MALE", "FEMALE"}, dig(t, layers, 0, "encoding", "x", "sort"))
	assert.Equal(t, "steelblue", dig(t, layers, 0, "encoding", "color", "value"))

	assert.Equal(t, map[string]any{"param": "selected", "empty": false},
		dig(t, layers, 1, "transform", 0, "filter"))
	assert.Equal(t, "goldenrod", dig(t, layers, 1, "encoding", "color", "value"))
	assert.Nil(t, dig(t, layers, 1, "params"))
}

func TestBarSpec(t *testing.T) {
	spec := toMap(t, BarSpec("Count", binding("cat"), DefaultPalette))

	layers := dig(t, spec, "layer").([]any)
	require.Len(t, layers, 2)

	for i, color := range []string{"steelblue", "goldenrod"} {
		assert.Equal(t, "bar", dig(t, layers, i, "mark", "type"))
		assert.Equal(t, "cat", dig(t, layers, i, "encoding", "x", "field"))
		assert.Equal(t, map[string]any{"field": "Count", "op": "sum", "order": "descending"},
			dig(t, layers, i, "encoding", "x", "sort"))
		assert.Equal(t, "sum", dig(t, layers, i, "encoding", "y", "aggregate"))
		assert.Equal(t, "Count", dig(t, layers, i, "encoding", "y", "field"))
		assert.Equal(t, color, dig(t, layers, i, "encoding", "color", "value"))
	}
	assert.Equal(t, []any{"x"}, dig(t, layers, 0, "params", 0, "select", "encodings"))
}

func TestBarSpecWithCap(t *testing.T) {
	cat := binding("cat")
	cat.Sort = nil
	cat.Cap = 10

	spec := BarSpec("count", cat, DefaultPalette)
	require.Len(t, spec.Transform, 5)

	join := spec.Transform[2]
	require.Len(t, join.JoinAggregate, 1)
	assert.Equal(t, "sum", join.JoinAggregate[0].Op)
	assert.Equal(t, []string{"cat"}, join.GroupBy)

	window := spec.Transform[3]
	assert.Equal(t, "dense_rank", window.Window[0].Op)
	assert.Equal(t, []vegalite.SortField{
		{Field: "__total", Order: "descending"},
		{Field: "cat", Order: "ascending"},
	}, window.Sort)

	assert.Equal(t, "datum.__rank <= 10", spec.Transform[4].Filter)
}

func TestJitterSpec(t *testing.T) {
	spec := toMap(t, JitterSpec("Height", binding("Sex", "MALE", "FEMALE"), "__jitter", DefaultPalette))

	assert.Equal(t, float64(40), dig(t, spec, "width", "step"))
	assert.Equal(t, "circle", dig(t, spec, "mark", "type"))
	assert.Equal(t, "Sex", dig(t, spec, "encoding", "x", "field"))
	assert.Equal(t, "nominal", dig(t, spec, "encoding", "x", "type"))
	assert.Equal(t, "Height", dig(t, spec, "encoding", "y", "field"))
	assert.Equal(t, "__jitter", dig(t, spec, "encoding", "xOffset", "field"))
	assert.Equal(t, "quantitative", dig(t, spec, "encoding", "xOffset", "type"))
	assert.Equal(t, "interval", dig(t, spec, "params", 0, "select", "type"))
	assert.Len(t, dig(t, spec, "transform").([]any), 2)
}

func TestTemplatesEscapeFieldNames(t *testing.T) {
	spec := ScatterSpec("a.b", "c[0]", DefaultPalette)

	assert.Equal(t, `a\.b`, spec.Encoding.X.Field)
	assert.Equal(t, "a.b", spec.Encoding.X.Title)
	assert.Equal(t, `c\[0\]`, spec.Encoding.Y.Field)

	heat := HeatDotSpec(binding("x.y"), binding("z"), DefaultPalette)
	assert.Equal(t, `isValid(datum["x.y"])`, heat.Transform[0].Filter)

	bar := BarSpec("n.total", binding("z"), DefaultPalette)
	assert.Equal(t, vegalite.FieldPredicate{Field: `n\.total`, Valid: vegalite.Bool(true)}, bar.Transform[0].Filter)
}

func TestCustomPalette(t *testing.T) {
	p := Palette{Default: "gray", Selected: "crimson", Opacity: 0.7}
	spec := ScatterSpec("a", "b", p)

	assert.Equal(t, "gray", spec.Encoding.Color.Value)
	assert.Equal(t, "crimson", spec.Encoding.Color.Condition.Value)
	assert.Equal(t, 0.7, spec.Encoding.Opacity.Value)
	assert.Equal(t, 1, spec.Encoding.Opacity.Condition.Value)

	// selected marks are never dimmed
	jitter := JitterSpec("a", binding("c"), "__jitter", p)
	assert.Equal(t, selectionName, jitter.Encoding.Opacity.Condition.Param)
	assert.Equal(t, 1, jitter.Encoding.Opacity.Condition.Value)

	noOpacity := ScatterSpec("a", "b", Palette{Default: "gray", Selected: "crimson"})
	assert.Nil(t, noOpacity.Encoding.Opacity)
}

// String categories are kept by the missing-value filter; only the
// quantitative side requires a number.
func TestValidityFiltersOnStringCategories(t *testing.T) {
	for name, spec := range map[string]vegalite.Spec{
		"bar":    BarSpec("count", binding("Species"), DefaultPalette),
		"jitter": JitterSpec("Mass", binding("Species"), "__jitter", DefaultPalette),
	} {
		m := toMap(t, spec)
		assert.Equal(t, map[string]any{"field": spec.Transform[0].Filter.(vegalite.FieldPredicate).Field, "valid": true},
			dig(t, m, "transform", 0, "filter"), name)
		assert.Equal(t, `isValid(datum["Species"])`, dig(t, m, "transform", 1, "filter"), name)
	}

	heat := toMap(t, HeatDotSpec(binding("Species"), binding("Island"), DefaultPalette))
	for i := 0; i < 2; i++ {
		filter := dig(t, heat, "transform", i, "filter")
		assert.IsType(t, "", filter)
		assert.NotContains(t, filter, "isFinite")
	}
}

// denseRank evaluates a window dense_rank over rows ordered by keys.
func denseRank(rows []Row, keys []vegalite.SortField) []int {
	compare := func(a, b Row) int {
		for _, k := range keys {
			c := 0
			switch x := a[k.Field].(type) {
			case float64:
				y := b[k.Field].(float64)
				if x < y {
					c = -1
				} else if x > y {
					c = 1
				}
			case string:
				c = strings.Compare(x, b[k.Field].(string))
			}
			if k.Order == "descending" {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return compare(rows[order[i]], rows[order[j]]) < 0 })

	ranks := make([]int, len(rows))
	rank := 0
	for i, idx := range order {
		if i == 0 || compare(rows[order[i-1]], rows[idx]) != 0 {
			rank++
		}
		ranks[idx] = rank
	}
	return ranks
}

// Categories with equal sums still get distinct ranks, so a cap of n keeps
// exactly n of them.
func TestBarSpecRankBreaksTies(t *testing.T) {
	cat := binding("Species")
	cat.Sort = nil
	cat.Cap = 10
	spec := BarSpec("count", cat, DefaultPalette)

	n := len(spec.Transform)
	window := spec.Transform[n-2]
	require.Equal(t, "dense_rank", window.Window[0].Op)
	assert.Equal(t, "datum.__rank <= 10", spec.Transform[n-1].Filter)

	// 20 categories, two rows each, every total equal to 2
	var rows []Row
	for i := 0; i < 40; i++ {
		rows = append(rows, Row{"Species": string(rune('A' + i%20)), "__total": 2.0})
	}

	kept := make(map[string]bool)
	for i, r := range denseRank(rows, window.Sort) {
		if r <= 10 {
			kept[rows[i]["Species"].(string)] = true
		}
	}
	assert.Len(t, kept, 10)
	assert.True(t, kept["A"])
	assert.False(t, kept["K"])
}
