package engine

import (
	"sort"
)

// ============================================================================
// AGGREGATORS — Frequency ranking for categorical columns
// ============================================================================
// Pipeline: filter → group-and-count → sort → take.
// Orders are derived per render from the current dataset and never cached.
// ============================================================================

// FrequencyOrder lists the distinct values of a column, most frequent first.
// Ties keep first-seen order.
type FrequencyOrder []any

// Top returns the first n values (all of them when n <= 0 or n >= len).
func (o FrequencyOrder) Top(n int) FrequencyOrder {
	if n <= 0 || n >= len(o) {
		return o
	}
	return o[:n]
}

// RankByFrequency orders the distinct values by descending count, breaking
// ties by order of first appearance.
func RankByFrequency[T comparable](values []T) []T {
	counts := make(map[T]int)
	order := make([]T, 0)

	// 1. Group and count
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	// 2. Sort (stable keeps first-seen order for ties)
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	return order
}

// ColumnOrder ranks the non-missing values of one column.
// An all-missing or absent column yields an empty order.
func ColumnOrder(data Dataset, column string) FrequencyOrder {
	values := make([]any, 0, len(data))
	for _, v := range data.Column(column) {
		if !IsMissing(v) {
			values = append(values, v)
		}
	}
	return FrequencyOrder(RankByFrequency(values))
}

// ColumnOrders ranks every listed column.
func ColumnOrders(data Dataset, columns []string) map[string]FrequencyOrder {
	orders := make(map[string]FrequencyOrder, len(columns))
	for _, col := range columns {
		orders[col] = ColumnOrder(data, col)
	}
	return orders
}
