package forecast

import (
	"gonum.org/v1/gonum/stat/distuv"

	"PricePulse/internal/domain/models"
	"PricePulse/internal/domain/service"
	"PricePulse/internal/services/features"
)

// Config carries every tunable of the forecasting models. Values come from
// the application config; zero values are filled by Default.
type Config struct {
	LookbackWindow    int
	MAShort           int
	MALong            int
	Estimators        int
	MaxDepth          int
	MinLeaf           int
	ConfidenceLevel   float64
	MinTrainingRows   int
	TestSplitFraction float64
	Seed              int64
}

// Default returns the stock configuration: 30-point lookback, 7/30 moving
// averages, 100 estimators, 95% intervals, 50-row training minimum, 20%
// chronological test split, fixed seed.
func Default() Config {
	return Config{
		LookbackWindow:    30,
		MAShort:           7,
		MALong:            30,
		Estimators:        100,
		MaxDepth:          12,
		MinLeaf:           2,
		ConfidenceLevel:   0.95,
		MinTrainingRows:   50,
		TestSplitFraction: 0.2,
		Seed:              42,
	}
}

func (c Config) features() features.Config {
	return features.Config{
		LookbackWindow: c.LookbackWindow,
		MAShort:        c.MAShort,
		MALong:         c.MALong,
	}
}

// New returns the forecaster for a model kind. The kind set is closed;
// anything else fails with InvalidConfigurationError.
func New(kind models.ModelKind, cfg Config) (service.Forecaster, error) {
	switch kind {
	case models.ModelBaseline:
		return NewBaseline(cfg), nil
	case models.ModelLearned:
		return NewLearned(cfg), nil
	default:
		return nil, &models.InvalidConfigurationError{Field: "model", Reason: "unknown model kind " + string(kind)}
	}
}

// NotTrained returns a model handle that fails every prediction with
// ModelNotTrainedError. Callers that look up models by symbol use it as the
// zero state before the first training run.
func NotTrained(kind models.ModelKind) service.TrainedModel {
	return notTrained{kind: kind}
}

type notTrained struct{ kind models.ModelKind }

func (n notTrained) Kind() models.ModelKind { return n.kind }

func (n notTrained) Predict(int) (models.Prediction, error) {
	return models.Prediction{}, &models.ModelNotTrainedError{Kind: n.kind}
}

func (n notTrained) Metrics() map[string]float64 { return nil }

// zScore returns the two-sided standard normal quantile for a confidence
// level, e.g. 0.95 -> 1.96.
func zScore(confidence float64) float64 {
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile(1 - (1-confidence)/2)
}
