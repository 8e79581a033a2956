package service

import (
	"PricePulse/internal/domain/models"
)

// TrainedModel is an immutable fitted model snapshot. Retraining produces a
// new TrainedModel rather than mutating an existing one, so a TrainedModel is
// safe for concurrent read-only use by multiple forecasting calls.
type TrainedModel interface {
	Kind() models.ModelKind
	// Predict performs multi-step forecasting over the given horizon.
	Predict(horizon int) (models.Prediction, error)
	// Metrics returns the held-out evaluation metrics captured at training time.
	Metrics() map[string]float64
}

// Forecaster trains a model of one kind on a price series.
type Forecaster interface {
	Kind() models.ModelKind
	Train(series models.PriceSeries) (TrainedModel, error)
}

// MarketAnalyzer classifies the volatility/trend regime of a series tail and
// relates series to each other.
type MarketAnalyzer interface {
	Analyze(series models.PriceSeries) (models.MarketCondition, error)
	// Correlation returns the Pearson correlation of two equal-length series' returns.
	Correlation(x, y models.PriceSeries) (float64, error)
}

// PricingRecommender turns a forecast and a market condition into a price
// adjustment under a named strategy.
type PricingRecommender interface {
	Recommend(symbol string, currentPrice float64, forecast *models.ForecastResult, cond models.MarketCondition, strategy models.Strategy) (models.PricingRecommendation, error)
}
