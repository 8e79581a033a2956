package forecast

import (
	"errors"
	"math"
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
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return out
}

func TestBaselineInsufficientData(t *testing.T) {
	b := NewBaseline(Default())
	_, err := b.Train(series(10, func(i int) float64 { return 100 }))
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestBaselineFlatSeries(t *testing.T) {
	b := NewBaseline(Default())
	m, err := b.Train(series(40, func(i int) float64 { return 100 }))
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	pred, err := m.Predict(7)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for k := 0; k < 7; k++ {
		if pred.Prices[k] != 100 {
			t.Fatalf("step %d: want 100, got %v", k, pred.Prices[k])
		}
		// zero trailing volatility collapses the interval
		if pred.Lower[k] != 100 || pred.Upper[k] != 100 {
			t.Fatalf("step %d: interval should be degenerate, got [%v, %v]", k, pred.Lower[k], pred.Upper[k])
		}
	}
}

func TestBaselineLinearTrend(t *testing.T) {
	b := NewBaseline(Default())
	m, err := b.Train(series(60, func(i int) float64 { return 100 + float64(i) }))
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	pred, err := m.Predict(7)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for k := 1; k < 7; k++ {
		step := pred.Prices[k] - pred.Prices[k-1]
		if math.Abs(step-1) > 0.01 {
			t.Fatalf("step %d: expected unit trend continuation, got %v", k, step)
		}
	}
}

func TestBaselineDeterminism(t *testing.T) {
	s := series(90, func(i int) float64 { return 100 + 5*math.Sin(float64(i)/4) })
	b := NewBaseline(Default())

	m1, err := b.Train(s)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	m2, err := b.Train(s)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	p1, _ := m1.Predict(14)
	p2, _ := m2.Predict(14)
	for k := range p1.Prices {
		if p1.Prices[k] != p2.Prices[k] || p1.Lower[k] != p2.Lower[k] || p1.Upper[k] != p2.Upper[k] {
			t.Fatalf("step %d: repeated training must be bit-identical", k)
		}
	}
}

func TestBaselineIntervalsWiden(t *testing.T) {
	s := series(90, func(i int) float64 { return 100 + 5*math.Sin(float64(i)/4) })
	m, err := NewBaseline(Default()).Train(s)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	pred, _ := m.Predict(10)
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

func TestBaselinePredictInvalidHorizon(t *testing.T) {
	m, err := NewBaseline(Default()).Train(series(40, func(i int) float64 { return 100 }))
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	var cfgErr *models.InvalidConfigurationError
	if _, err := m.Predict(0); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}
	if _, err := m.Predict(-3); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}
}

func TestNotTrainedHandle(t *testing.T) {
	m := NotTrained(models.ModelLearned)
	var untrained *models.ModelNotTrainedError
	if _, err := m.Predict(7); !errors.As(err, &untrained) {
		t.Fatalf("expected ModelNotTrainedError, got %v", err)
	}
	if untrained.Kind != models.ModelLearned {
		t.Fatalf("unexpected kind %s", untrained.Kind)
	}
}

func TestNewUnknownKind(t *testing.T) {
	var cfgErr *models.InvalidConfigurationError
	if _, err := New(models.ModelKind("prophet"), Default()); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}
}
