package forecast

import (
	"math"

	"PricePulse/internal/domain/models"
	"PricePulse/internal/domain/service"
	"PricePulse/internal/services/features"
)

// Baseline is the trend-adjusted moving-average model. It has no fitting
// phase beyond capturing the trailing window, and its predictions are
// bit-identical across repeated calls on the same series.
type Baseline struct {
	cfg Config
}

func NewBaseline(cfg Config) *Baseline { return &Baseline{cfg: cfg} }

func (b *Baseline) Kind() models.ModelKind { return models.ModelBaseline }

// Train captures the trailing close window and its volatility. Fails with
// InsufficientDataError when fewer than LookbackWindow points exist.
func (b *Baseline) Train(series models.PriceSeries) (service.TrainedModel, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	w := b.cfg.LookbackWindow
	if len(series) < w {
		return nil, &models.InsufficientDataError{Op: "baseline", Need: w, Got: len(series)}
	}

	closes := series.Closes()
	window := make([]float64, w)
	copy(window, closes[len(closes)-w:])

	m := &baselineModel{
		window: window,
		sigma:  features.StdDev(features.Diffs(window)),
		z:      zScore(b.cfg.ConfidenceLevel),
	}
	m.metrics = b.evaluate(closes)
	return m, nil
}

// evaluate walks one-step predictions over the chronological tail and scores
// them, so the resulting model carries directional accuracy for downstream
// confidence scoring. Returns an empty map when the tail is too short.
func (b *Baseline) evaluate(closes []float64) map[string]float64 {
	w := b.cfg.LookbackWindow
	trainEnd, err := SplitIndex(len(closes), b.cfg.TestSplitFraction)
	if err != nil || trainEnd < w {
		return map[string]float64{}
	}

	actual := make([]float64, 0, len(closes)-trainEnd)
	predicted := make([]float64, 0, len(closes)-trainEnd)
	for i := trainEnd; i < len(closes); i++ {
		window := closes[i-w : i]
		base := features.Mean(window)
		trend := (window[len(window)-1] - window[0]) / float64(len(window)-1)
		predicted = append(predicted, base+trend)
		actual = append(actual, closes[i])
	}
	return Metrics(actual, predicted)
}

// baselineModel is the immutable state captured by Baseline.Train.
type baselineModel struct {
	window  []float64
	sigma   float64
	z       float64
	metrics map[string]float64
}

func (m *baselineModel) Kind() models.ModelKind { return models.ModelBaseline }

func (m *baselineModel) Metrics() map[string]float64 { return m.metrics }

// Predict extends the window mean along its endpoint trend. The interval at
// step k is prediction +- z*sigma*sqrt(k+1); with zero trailing volatility it
// degenerates to the point estimate.
func (m *baselineModel) Predict(horizon int) (models.Prediction, error) {
	if horizon <= 0 {
		return models.Prediction{}, &models.InvalidConfigurationError{Field: "horizon", Reason: "must be positive"}
	}

	n := len(m.window)
	base := features.Mean(m.window)
	trend := (m.window[n-1] - m.window[0]) / float64(n-1)

	pred := models.Prediction{
		Prices: make([]float64, horizon),
		Lower:  make([]float64, horizon),
		Upper:  make([]float64, horizon),
	}
	for k := 0; k < horizon; k++ {
		p := base + trend*float64(k+1)
		half := m.z * m.sigma * math.Sqrt(float64(k+1))
		pred.Prices[k] = p
		pred.Lower[k] = p - half
		pred.Upper[k] = p + half
	}
	return pred, nil
}
