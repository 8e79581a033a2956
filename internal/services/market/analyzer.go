package market

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"PricePulse/internal/domain/models"
	"PricePulse/internal/services/features"
)

// Config tunes condition classification. Thresholds are fractions: a
// volatility of 0.03 means 3% daily return deviation.
type Config struct {
	Window              int
	MinPoints           int
	VolatilityThreshold float64
	TrendThreshold      float64
}

func DefaultConfig() Config {
	return Config{
		Window:              30,
		MinPoints:           7,
		VolatilityThreshold: 0.03,
		TrendThreshold:      0.002,
	}
}

// Analyzer classifies a price series into a market condition using simple,
// explainable statistics over the trailing window.
type Analyzer struct {
	cfg Config
}

func New(cfg Config) *Analyzer { return &Analyzer{cfg: cfg} }

// rule maps a predicate over the measured statistics to a label. Rules are
// evaluated in order; the first match wins, so volatility always takes
// precedence over direction.
type rule struct {
	label models.ConditionLabel
	match func(c *Analyzer, cond models.MarketCondition) bool
}

var rules = []rule{
	{models.ConditionVolatile, func(a *Analyzer, c models.MarketCondition) bool {
		return c.Volatility > a.cfg.VolatilityThreshold
	}},
	{models.ConditionBullish, func(a *Analyzer, c models.MarketCondition) bool {
		return c.Trend == models.TrendUp && c.TrendStrength > a.cfg.TrendThreshold
	}},
	{models.ConditionBearish, func(a *Analyzer, c models.MarketCondition) bool {
		return c.Trend == models.TrendDown && c.TrendStrength > a.cfg.TrendThreshold
	}},
}

// Analyze measures the trailing window of the series and classifies it.
// Fails with InsufficientDataError below MinPoints.
func (a *Analyzer) Analyze(series models.PriceSeries) (models.MarketCondition, error) {
	if err := series.Validate(); err != nil {
		return models.MarketCondition{}, err
	}
	window := series.Tail(a.cfg.Window)
	if len(window) < a.cfg.MinPoints {
		return models.MarketCondition{}, &models.InsufficientDataError{
			Op: "market analysis", Need: a.cfg.MinPoints, Got: len(window),
		}
	}

	closes := window.Closes()
	cond := models.MarketCondition{
		Volatility: features.StdDev(window.Returns()),
		Support:    floats.Min(closes),
		Resistance: floats.Max(closes),
		Momentum:   momentum(closes),
		Window:     len(window),
		Timestamp:  time.Now().UTC(),
	}
	cond.Trend, cond.TrendStrength = a.trend(closes)

	cond.Label = models.ConditionSideways
	for _, r := range rules {
		if r.match(a, cond) {
			cond.Label = r.label
			break
		}
	}
	return cond, nil
}

// trend fits a least-squares line through the closes and normalizes the slope
// by the mean level, so strength is comparable across price scales.
func (a *Analyzer) trend(closes []float64) (models.Trend, float64) {
	xs := make([]float64, len(closes))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, closes, nil, false)

	mean := features.Mean(closes)
	if mean == 0 {
		return models.TrendFlat, 0
	}
	normalized := slope / mean
	switch {
	case normalized > 0:
		return models.TrendUp, normalized
	case normalized < 0:
		return models.TrendDown, -normalized
	default:
		return models.TrendFlat, 0
	}
}

// momentum compares the mean of the last five closes against the five before
// them. Zero when fewer than ten points exist.
func momentum(closes []float64) float64 {
	n := len(closes)
	if n < 10 {
		return 0
	}
	recent := features.Mean(closes[n-5:])
	prior := features.Mean(closes[n-10 : n-5])
	if prior == 0 {
		return 0
	}
	return (recent - prior) / prior
}

// Correlation returns the Pearson correlation of the two series' returns.
// Series must be the same length and long enough to yield two return points.
func (a *Analyzer) Correlation(x, y models.PriceSeries) (float64, error) {
	if len(x) != len(y) {
		return 0, &models.InvalidConfigurationError{Field: "series", Reason: "correlation requires equal-length series"}
	}
	rx, ry := x.Returns(), y.Returns()
	if len(rx) < 2 {
		return 0, &models.InsufficientDataError{Op: "correlation", Need: 3, Got: len(x)}
	}
	return stat.Correlation(rx, ry, nil), nil
}
