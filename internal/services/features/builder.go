package features

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"PricePulse/internal/domain/models"
)

// Config controls feature construction windows.
type Config struct {
	LookbackWindow int // lag closes per vector
	MAShort        int // short moving-average window
	MALong         int // long moving-average window, also the volatility window
}

// Width returns the number of values per feature vector: the lag window plus
// short MA, long MA, rolling volatility, pct change and high-low range.
func (c Config) Width() int { return c.LookbackWindow + 5 }

// Vector is one engineered feature row. Index is the series position it was
// derived from; during training the target is the close at Index+1.
type Vector struct {
	Index  int
	Values []float64
}

// Build derives a feature vector for every index i >= max(LookbackWindow, MALong).
// Moving averages with fewer than a full window of prior data are undefined and
// excluded rather than zero-filled, which is why the first valid index is the
// larger of the two windows.
//
// Fails with InsufficientDataError when the series has fewer than
// LookbackWindow+1 points, and rejects any series violating the OHLC or
// ordering invariants before computing anything.
func Build(series models.PriceSeries, cfg Config) ([]Vector, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	w := cfg.LookbackWindow
	if len(series) < w+1 {
		return nil, &models.InsufficientDataError{Op: "features", Need: w + 1, Got: len(series)}
	}

	closes := series.Closes()
	start := w
	if cfg.MALong > start {
		start = cfg.MALong
	}

	out := make([]Vector, 0, len(series)-start)
	for i := start; i < len(series); i++ {
		row := composeRow(closes[:i+1], rangeFraction(series[i]), cfg)
		if !finite(row) {
			return nil, &models.InvalidConfigurationError{Field: "series", Reason: "non-finite feature value"}
		}
		out = append(out, Vector{Index: i, Values: row})
	}
	return out, nil
}

// SyntheticRow derives a feature row from a trailing close window alone, used
// during recursive forecasting where appended points are synthetic and carry
// no intraday high/low. The range feature is zero for such points.
func SyntheticRow(closes []float64, cfg Config) []float64 {
	return composeRow(closes, 0, cfg)
}

// composeRow assembles one feature row from closes[...] ending at the feature
// index. closes must hold at least max(LookbackWindow, MALong) values.
func composeRow(closes []float64, hlRange float64, cfg Config) []float64 {
	n := len(closes)
	row := make([]float64, 0, cfg.Width())
	row = append(row, closes[n-cfg.LookbackWindow:]...)
	row = append(row, Mean(closes[n-cfg.MAShort:]))
	row = append(row, Mean(closes[n-cfg.MALong:]))
	row = append(row, StdDev(closes[n-cfg.MALong:]))
	row = append(row, pctChange(closes))
	row = append(row, hlRange)
	return row
}

func pctChange(closes []float64) float64 {
	n := len(closes)
	if n < 2 || closes[n-2] == 0 {
		return 0
	}
	return (closes[n-1] - closes[n-2]) / closes[n-2]
}

func rangeFraction(p models.PricePoint) float64 {
	if p.Close == 0 {
		return 0
	}
	return (p.High - p.Low) / p.Close
}

func finite(row []float64) bool {
	if floats.HasNaN(row) {
		return false
	}
	for _, v := range row {
		if math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
