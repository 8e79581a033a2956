package features

import (
	"errors"
	"testing"
	"time"

	"PricePulse/internal/domain/models"
)

func series(n int, closeAt func(i int) float64) models.PriceSeries {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(models.PriceSeries, n)
	for i := 0; i < n; i++ {
		c := closeAt(i)
		out[i] = models.PricePoint{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return out
}

var testCfg = Config{LookbackWindow: 10, MAShort: 3, MALong: 10}

func TestBuildInsufficientData(t *testing.T) {
	s := series(5, func(i int) float64 { return 100 })
	_, err := Build(s, testCfg)
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Need != 11 || insufficient.Got != 5 {
		t.Fatalf("unexpected need/got: %d/%d", insufficient.Need, insufficient.Got)
	}
}

func TestBuildFirstValidIndexAndWidth(t *testing.T) {
	s := series(20, func(i int) float64 { return 100 + float64(i) })
	vectors, err := Build(s, testCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 10 {
		t.Fatalf("expected 10 vectors, got %d", len(vectors))
	}
	if vectors[0].Index != 10 {
		t.Fatalf("first valid index should be 10, got %d", vectors[0].Index)
	}
	for _, v := range vectors {
		if len(v.Values) != testCfg.Width() {
			t.Fatalf("vector width %d, want %d", len(v.Values), testCfg.Width())
		}
	}
}

func TestBuildLongMADominatesStart(t *testing.T) {
	cfg := Config{LookbackWindow: 5, MAShort: 3, MALong: 12}
	s := series(20, func(i int) float64 { return 100 + float64(i) })
	vectors, err := Build(s, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors[0].Index != 12 {
		t.Fatalf("first valid index should follow the long MA window, got %d", vectors[0].Index)
	}
}

func TestBuildRejectsInvalidSeries(t *testing.T) {
	s := series(20, func(i int) float64 { return 100 })
	s[3].Low = s[3].High + 5
	if _, err := Build(s, testCfg); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSyntheticRowMatchesWidth(t *testing.T) {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 50 + float64(i)
	}
	row := SyntheticRow(closes, testCfg)
	if len(row) != testCfg.Width() {
		t.Fatalf("row width %d, want %d", len(row), testCfg.Width())
	}
	if row[len(row)-1] != 0 {
		t.Fatalf("synthetic row range feature should be zero, got %v", row[len(row)-1])
	}
}

func TestStatsHelpers(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Fatalf("mean of empty should be 0, got %v", got)
	}
	if got := StdDev([]float64{5}); got != 0 {
		t.Fatalf("stddev of single value should be 0, got %v", got)
	}
	diffs := Diffs([]float64{1, 3, 6})
	if len(diffs) != 2 || diffs[0] != 2 || diffs[1] != 3 {
		t.Fatalf("unexpected diffs %v", diffs)
	}
}
