package analytics

import (
	"math"
	"sort"

	"MarketLens/internal/dateint"
	"MarketLens/internal/model"
)

// Correlation computes the Pearson coefficient between two dated series,
// aligned on the dates both share. Fewer than two shared dates or a constant
// series yields 0 rather than an error, so a sparse pair never aborts a
// whole analysis pass.
func Correlation(a, b []model.Point) float64 {
	valuesA := make(map[dateint.Key]float64, len(a))
	for _, p := range a {
		valuesA[p.Date] = p.Value
	}
	valuesB := make(map[dateint.Key]float64, len(b))
	for _, p := range b {
		valuesB[p.Date] = p.Value
	}

	shared := make([]dateint.Key, 0, len(valuesA))
	for d := range valuesA {
		if _, ok := valuesB[d]; ok {
			shared = append(shared, d)
		}
	}
	if len(shared) < 2 {
		return 0
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })

	var sumA, sumB float64
	for _, d := range shared {
		sumA += valuesA[d]
		sumB += valuesB[d]
	}
	n := float64(len(shared))
	meanA := sumA / n
	meanB := sumB / n

	var cov, varA, varB float64
	for _, d := range shared {
		da := valuesA[d] - meanA
		db := valuesB[d] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	denom := math.Sqrt(varA * varB)
	if denom == 0 {
		return 0
	}
	return cov / denom
}
