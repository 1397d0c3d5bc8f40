package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aclements/go-moremath/stats"

	"github.com/spektr-org/pairplot/schema"
)

// Jitter offsets follow a normal distribution centred in the band and are
// clamped to it.
const (
	jitterMean   = 0.5
	jitterStdDev = 0.25
)

// JitterExpr is the renderer-side expression computing one offset per row.
const JitterExpr = "clamp(sampleNormal(0.5, 0.25), 0, 1)"

// JitterOffsets draws n clamped-normal offsets from a seeded source.
// The same seed always yields the same offsets.
func JitterOffsets(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	dist := stats.NormalDist{Mu: jitterMean, Sigma: jitterStdDev}

	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = math.Min(1, math.Max(0, dist.Rand(r)))
	}
	return offsets
}

// freeFieldName returns base, or base with the first numeric suffix no
// column of data or types uses, so the jitter field never shadows a column.
func freeFieldName(data Dataset, types schema.TypeMap, base string) string {
	taken := func(name string) bool {
		if _, ok := types.Get(name); ok {
			return true
		}
		for _, row := range data {
			if _, ok := row[name]; ok {
				return true
			}
		}
		return false
	}

	name := base
	for i := 1; taken(name); i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}
