package forecast

import (
	"errors"
	"math"
	"testing"

	"PricePulse/internal/domain/models"
)

func wavy(n int) models.PriceSeries {
	return series(n, func(i int) float64 {
		return 100 + 0.2*float64(i) + 4*math.Sin(float64(i)/3)
	})
}

func TestLearnedTooFewPoints(t *testing.T) {
	l := NewLearned(Default())
	_, err := l.Train(series(10, func(i int) float64 { return 100 + float64(i) }))

	var training *models.ModelTrainingError
	if !errors.As(err, &training) {
		t.Fatalf("expected ModelTrainingError, got %v", err)
	}
	// the underlying data shortfall stays reachable
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected wrapped InsufficientDataError, got %v", err)
	}
}

func TestLearnedBelowMinTrainingRows(t *testing.T) {
	l := NewLearned(Default())
	// 60 points yields 29 usable rows, below the 50-row minimum
	_, err := l.Train(wavy(60))
	var training *models.ModelTrainingError
	if !errors.As(err, &training) {
		t.Fatalf("expected ModelTrainingError, got %v", err)
	}
}

func TestLearnedDegenerateSeries(t *testing.T) {
	l := NewLearned(Default())
	_, err := l.Train(series(150, func(i int) float64 { return 100 }))
	var training *models.ModelTrainingError
	if !errors.As(err, &training) {
		t.Fatalf("expected ModelTrainingError for constant series, got %v", err)
	}
}

func TestLearnedSeedDeterminism(t *testing.T) {
	s := wavy(150)
	cfg := Default()

	m1, err := NewLearned(cfg).Train(s)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	m2, err := NewLearned(cfg).Train(s)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	p1, err := m1.Predict(14)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	p2, _ := m2.Predict(14)
	for k := range p1.Prices {
		if p1.Prices[k] != p2.Prices[k] {
			t.Fatalf("step %d: same seed and data must predict identically", k)
		}
	}
}

func TestLearnedRecursiveConsistency(t *testing.T) {
	m, err := NewLearned(Default()).Train(wavy(150))
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	one, err := m.Predict(1)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	ten, err := m.Predict(10)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if one.Prices[0] != ten.Prices[0] {
		t.Fatalf("first step must not depend on horizon: %v vs %v", one.Prices[0], ten.Prices[0])
	}

	// repeated calls see identical state
	again, _ := m.Predict(10)
	for k := range ten.Prices {
		if ten.Prices[k] != again.Prices[k] {
			t.Fatalf("step %d: prediction mutated model state", k)
		}
	}
}

func TestLearnedIntervalsWiden(t *testing.T) {
	m, err := NewLearned(Default()).Train(wavy(150))
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	pred, err := m.Predict(12)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	prev := 0.0
	for k := range pred.Prices {
		width := pred.Upper[k] - pred.Lower[k]
		if width < prev {
			t.Fatalf("step %d: interval narrowed from %v to %v", k, prev, width)
		}
		if pred.Lower[k] > pred.Prices[k] || pred.Upper[k] < pred.Prices[k] {
			t.Fatalf("step %d: point forecast outside its interval", k)
		}
		prev = width
	}
}

func TestLearnedMetricsPresent(t *testing.T) {
	m, err := NewLearned(Default()).Train(wavy(150))
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	metrics := m.Metrics()
	for _, key := range []string{"mae", "rmse", "r2", "mape", "directional_accuracy", "accuracy"} {
		if _, ok := metrics[key]; !ok {
			t.Fatalf("missing metric %q", key)
		}
	}
	if acc := metrics["accuracy"]; acc < 0 || acc > 1 {
		t.Fatalf("accuracy must be in [0,1], got %v", acc)
	}
}

func TestLearnedPredictInvalidHorizon(t *testing.T) {
	m, err := NewLearned(Default()).Train(wavy(150))
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	var cfgErr *models.InvalidConfigurationError
	if _, err := m.Predict(0); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}
}
