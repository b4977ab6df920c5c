package analytics

import (
	"math"
	"sort"

	"MarketLens/internal/model"
)

// Mean returns the arithmetic mean of the series values, or 0 for an empty
// series.
func Mean(points []model.Point) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}

// TopByMagnitude returns the n entries with the largest absolute values in
// descending magnitude order. Ties keep their input order. Shorter inputs
// come back whole; n below 1 yields nil. The input slice is left untouched.
func TopByMagnitude(points []model.Point, n int) []model.Point {
	if n < 1 || len(points) == 0 {
		return nil
	}
	ranked := make([]model.Point, len(points))
	copy(ranked, points)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Value) > math.Abs(ranked[j].Value)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
