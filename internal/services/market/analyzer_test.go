package market

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

func TestAnalyzeInsufficientData(t *testing.T) {
	a := New(DefaultConfig())
	_, err := a.Analyze(series(5, func(i int) float64 { return 100 }))
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestAnalyzeBullish(t *testing.T) {
	a := New(DefaultConfig())
	cond, err := a.Analyze(series(60, func(i int) float64 { return 100 + float64(i) }))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if cond.Trend != models.TrendUp {
		t.Fatalf("want trend up, got %s", cond.Trend)
	}
	if cond.Label != models.ConditionBullish {
		t.Fatalf("want bullish, got %s", cond.Label)
	}
	// trailing 30-point window of a unit-slope series
	if cond.Support != 130 || cond.Resistance != 159 {
		t.Fatalf("unexpected support/resistance: %v/%v", cond.Support, cond.Resistance)
	}
	if cond.Momentum <= 0 {
		t.Fatalf("rising series should have positive momentum, got %v", cond.Momentum)
	}
	if cond.Window != 30 {
		t.Fatalf("want window 30, got %d", cond.Window)
	}
}

func TestAnalyzeBearish(t *testing.T) {
	a := New(DefaultConfig())
	cond, err := a.Analyze(series(60, func(i int) float64 { return 200 - float64(i) }))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if cond.Trend != models.TrendDown {
		t.Fatalf("want trend down, got %s", cond.Trend)
	}
	if cond.Label != models.ConditionBearish {
		t.Fatalf("want bearish, got %s", cond.Label)
	}
	if cond.TrendStrength <= 0 {
		t.Fatalf("trend strength must be positive, got %v", cond.TrendStrength)
	}
}

func TestAnalyzeSideways(t *testing.T) {
	a := New(DefaultConfig())
	cond, err := a.Analyze(series(60, func(i int) float64 { return 100 }))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if cond.Label != models.ConditionSideways {
		t.Fatalf("want sideways, got %s", cond.Label)
	}
	if cond.Volatility != 0 {
		t.Fatalf("flat series should have zero volatility, got %v", cond.Volatility)
	}
}

func TestVolatilityTakesPrecedence(t *testing.T) {
	a := New(DefaultConfig())
	// strong uptrend with alternating 10% swings: volatile wins over bullish
	cond, err := a.Analyze(series(60, func(i int) float64 {
		c := 100 + 2*float64(i)
		if i%2 == 0 {
			return c * 1.1
		}
		return c * 0.9
	}))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if cond.Volatility <= DefaultConfig().VolatilityThreshold {
		t.Fatalf("test series not volatile enough: %v", cond.Volatility)
	}
	if cond.Label != models.ConditionVolatile {
		t.Fatalf("volatility must take precedence, got %s", cond.Label)
	}
}

func TestCorrelationIdenticalSeries(t *testing.T) {
	a := New(DefaultConfig())
	s := series(30, func(i int) float64 { return 100 + float64(i) })
	corr, err := a.Correlation(s, s)
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}
	if math.Abs(corr-1) > 1e-9 {
		t.Fatalf("identical series should correlate at 1, got %v", corr)
	}
}

func TestCorrelationLengthMismatch(t *testing.T) {
	a := New(DefaultConfig())
	x := series(30, func(i int) float64 { return 100 + float64(i) })
	y := series(20, func(i int) float64 { return 100 + float64(i) })
	var cfgErr *models.InvalidConfigurationError
	if _, err := a.Correlation(x, y); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}
}

func TestCorrelationTooShort(t *testing.T) {
	a := New(DefaultConfig())
	x := series(2, func(i int) float64 { return 100 + float64(i) })
	var insufficient *models.InsufficientDataError
	if _, err := a.Correlation(x, x); !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}
