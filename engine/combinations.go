package engine

// Combinations returns every k-element subset of items. Each subset keeps
// the relative input order of its elements, and subsets are enumerated in
// lexicographic index order, so for k=2 the result is the upper triangle
// (0,1) (0,2) … (1,2) …. k <= 0, k > len(items) or empty input yield nil.
func Combinations[T any](items []T, k int) [][]T {
	n := len(items)
	if k <= 0 || n == 0 || k > n {
		return nil
	}

	var out [][]T
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		subset := make([]T, k)
		for i, j := range idx {
			subset[i] = items[j]
		}
		out = append(out, subset)

		// Advance the rightmost index that still has room.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Pairs enumerates all unordered column pairs in upper-triangle order.
func Pairs(columns []string) []ColumnPair {
	combos := Combinations(columns, 2)
	pairs := make([]ColumnPair, len(combos))
	for i, c := range combos {
		pairs[i] = ColumnPair{A: c[0], B: c[1]}
	}
	return pairs
}
