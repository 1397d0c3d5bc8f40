package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankByFrequency(t *testing.T) {
	assert.Equal(t, []string{"c", "a", "b"},
		RankByFrequency([]string{"a", "a", "b", "c", "c", "c"}))

	// tie: x appears before y
	assert.Equal(t, []string{"x", "y"},
		RankByFrequency([]string{"x", "y", "x", "y"}))

	assert.Equal(t, []string{"y", "x"},
		RankByFrequency([]string{"y", "x", "x", "y"}))

	assert.Empty(t, RankByFrequency([]string{}))
}

func TestColumnOrderSkipsMissing(t *testing.T) {
	data := Dataset{
		{"sex": "MALE"},
		{"sex": nil},
		{"sex": "FEMALE"},
		{},
		{"sex": "FEMALE"},
		{"sex": math.NaN()},
	}

	assert.Equal(t, FrequencyOrder{"FEMALE", "MALE"}, ColumnOrder(data, "sex"))
}

func TestColumnOrderAllMissing(t *testing.T) {
	data := Dataset{{"sex": nil}, {"sex": nil}, {}}

	order := ColumnOrder(data, "sex")
	assert.Empty(t, order)
	assert.Empty(t, order.Top(3))
}

func TestColumnOrderMixedScalars(t *testing.T) {
	data := Dataset{
		{"cyl": 4.0}, {"cyl": 6.0}, {"cyl": 4.0}, {"cyl": 8.0}, {"cyl": 4.0}, {"cyl": 6.0},
	}
	assert.Equal(t, FrequencyOrder{4.0, 6.0, 8.0}, ColumnOrder(data, "cyl"))
}

func TestFrequencyOrderTop(t *testing.T) {
	order := FrequencyOrder{"c", "a", "b"}

	assert.Equal(t, FrequencyOrder{"c", "a"}, order.Top(2))
	assert.Equal(t, order, order.Top(0))
	assert.Equal(t, order, order.Top(10))
}

func TestDatasetColumn(t *testing.T) {
	data := Dataset{{"a": 1.0}, {"b": "x"}, {"a": "y"}}
	assert.Equal(t, []any{1.0, nil, "y"}, data.Column("a"))
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(math.NaN()))
	assert.True(t, IsMissing(math.Inf(1)))
	assert.True(t, IsMissing([]any{"nested"}))

	assert.False(t, IsMissing(""))
	assert.False(t, IsMissing(0.0))
	assert.False(t, IsMissing(int64(3)))
	assert.False(t, IsMissing(false))
}
