package analytics

import (
	"math"
	"testing"

	"MarketLens/internal/model"
)

func TestCorrelation_PerfectPositive(t *testing.T) {
	a := []model.Point{{Date: 20250102, Value: 1}, {Date: 20250103, Value: 2}, {Date: 20250104, Value: 3}}
	b := []model.Point{{Date: 20250102, Value: 10}, {Date: 20250103, Value: 20}, {Date: 20250104, Value: 30}}
	if got := Correlation(a, b); !almostEqual(got, 1) {
		t.Errorf("expected 1.0, got %.6f", got)
	}
	if got := Correlation(a, a); !almostEqual(got, 1) {
		t.Errorf("series against itself: expected 1.0, got %.6f", got)
	}
}

func TestCorrelation_PerfectNegative(t *testing.T) {
	a := []model.Point{{Date: 20250102, Value: 1}, {Date: 20250103, Value: 2}, {Date: 20250104, Value: 3}}
	b := []model.Point{{Date: 20250102, Value: 30}, {Date: 20250103, Value: 20}, {Date: 20250104, Value: 10}}
	if got := Correlation(a, b); !almostEqual(got, -1) {
		t.Errorf("expected -1.0, got %.6f", got)
	}
}

func TestCorrelation_AlignsOnSharedDates(t *testing.T) {
	// Outliers on unshared dates must not influence the coefficient.
	a := []model.Point{
		{Date: 20250102, Value: 1},
		{Date: 20250103, Value: 2},
		{Date: 20250104, Value: 3},
		{Date: 20250105, Value: 1000},
	}
	b := []model.Point{
		{Date: 20250102, Value: 10},
		{Date: 20250103, Value: 20},
		{Date: 20250104, Value: 30},
		{Date: 20250106, Value: -1000},
	}
	if got := Correlation(a, b); !almostEqual(got, 1) {
		t.Errorf("expected 1.0 over shared dates, got %.6f", got)
	}
}

func TestCorrelation_TooFewSharedDates(t *testing.T) {
	a := []model.Point{{Date: 20250102, Value: 1}, {Date: 20250103, Value: 2}}
	disjoint := []model.Point{{Date: 20250104, Value: 1}, {Date: 20250105, Value: 2}}
	if got := Correlation(a, disjoint); got != 0 {
		t.Errorf("disjoint dates: expected 0, got %.6f", got)
	}
	oneShared := []model.Point{{Date: 20250103, Value: 5}, {Date: 20250105, Value: 6}}
	if got := Correlation(a, oneShared); got != 0 {
		t.Errorf("single shared date: expected 0, got %.6f", got)
	}
	if got := Correlation(nil, nil); got != 0 {
		t.Errorf("empty series: expected 0, got %.6f", got)
	}
}

func TestCorrelation_ConstantSeries(t *testing.T) {
	flat := []model.Point{{Date: 20250102, Value: 7}, {Date: 20250103, Value: 7}, {Date: 20250104, Value: 7}}
	moving := []model.Point{{Date: 20250102, Value: 1}, {Date: 20250103, Value: 2}, {Date: 20250104, Value: 3}}
	if got := Correlation(flat, moving); got != 0 {
		t.Errorf("constant series: expected 0, got %.6f", got)
	}
}

func TestCorrelation_DuplicateDates(t *testing.T) {
	// Duplicate dates should have been filtered upstream; when they slip
	// through, the later value wins and the result is still finite.
	a := []model.Point{
		{Date: 20250102, Value: 1},
		{Date: 20250102, Value: 5},
		{Date: 20250103, Value: 2},
		{Date: 20250104, Value: 3},
	}
	b := []model.Point{{Date: 20250102, Value: 50}, {Date: 20250103, Value: 20}, {Date: 20250104, Value: 30}}
	got := Correlation(a, b)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("expected a finite coefficient, got %v", got)
	}
	if got < -1 || got > 1 {
		t.Errorf("coefficient %v outside [-1, 1]", got)
	}
}

func TestCorrelation_Symmetric(t *testing.T) {
	a := []model.Point{{Date: 20250102, Value: 3}, {Date: 20250103, Value: 1}, {Date: 20250104, Value: 4}, {Date: 20250105, Value: 1}}
	b := []model.Point{{Date: 20250102, Value: 2}, {Date: 20250103, Value: 7}, {Date: 20250104, Value: 1}, {Date: 20250105, Value: 8}}
	if ab, ba := Correlation(a, b), Correlation(b, a); !almostEqual(ab, ba) {
		t.Errorf("expected symmetry, got %.6f vs %.6f", ab, ba)
	}
}
