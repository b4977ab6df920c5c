package analytics

import (
	"testing"

	"MarketLens/internal/model"
)

func TestMean(t *testing.T) {
	points := []model.Point{
		{Date: 20250102, Value: 2},
		{Date: 20250103, Value: 4},
		{Date: 20250104, Value: 6},
	}
	if got := Mean(points); !almostEqual(got, 4) {
		t.Errorf("expected 4, got %.4f", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("empty series: expected 0, got %.4f", got)
	}
}

func TestTopByMagnitude(t *testing.T) {
	points := []model.Point{
		{Date: 20250102, Value: 5},
		{Date: 20250103, Value: -10},
		{Date: 20250104, Value: 3},
		{Date: 20250105, Value: -3},
		{Date: 20250106, Value: 8},
	}
	got := TopByMagnitude(points, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	wantDates := []int{20250103, 20250106, 20250102} // |-10|, |8|, |5|
	for i, w := range wantDates {
		if int(got[i].Date) != w {
			t.Errorf("rank %d: expected date %d, got %v", i, w, got[i].Date)
		}
	}
}

func TestTopByMagnitude_TiesKeepInputOrder(t *testing.T) {
	points := []model.Point{
		{Date: 20250102, Value: 3},
		{Date: 20250103, Value: -3},
	}
	got := TopByMagnitude(points, 2)
	if len(got) != 2 || got[0].Date != 20250102 || got[1].Date != 20250103 {
		t.Errorf("expected tied values in input order, got %v", got)
	}
}

func TestTopByMagnitude_Bounds(t *testing.T) {
	points := []model.Point{
		{Date: 20250102, Value: 1},
		{Date: 20250103, Value: 2},
	}
	if got := TopByMagnitude(points, 10); len(got) != 2 {
		t.Errorf("n beyond length: expected all 2 values, got %d", len(got))
	}
	if got := TopByMagnitude(points, 0); got != nil {
		t.Errorf("n of zero: expected nil, got %v", got)
	}
	if got := TopByMagnitude(nil, 5); got != nil {
		t.Errorf("empty input: expected nil, got %v", got)
	}
}

func TestTopByMagnitude_DoesNotMutateInput(t *testing.T) {
	points := []model.Point{
		{Date: 20250102, Value: 1},
		{Date: 20250103, Value: -9},
		{Date: 20250104, Value: 5},
	}
	TopByMagnitude(points, 2)
	wantDates := []int{20250102, 20250103, 20250104}
	for i, w := range wantDates {
		if int(points[i].Date) != w {
			t.Fatalf("input reordered at %d: got %v", i, points[i].Date)
		}
	}
}
