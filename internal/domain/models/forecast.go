package models

import "time"

// ModelKind identifies a forecasting model implementation. The set is closed;
// unknown kinds are rejected at parse time.
type ModelKind string

const (
	ModelBaseline ModelKind = "baseline"
	ModelLearned  ModelKind = "learned"
)

// ParseModelKind validates a raw model kind string.
func ParseModelKind(s string) (ModelKind, error) {
	switch ModelKind(s) {
	case ModelBaseline, ModelLearned:
		return ModelKind(s), nil
	default:
		return "", &InvalidConfigurationError{Field: "model", Reason: "unknown model kind " + s}
	}
}

// Strategy is a named risk posture for pricing recommendations.
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyBalanced     Strategy = "balanced"
	StrategyAggressive   Strategy = "aggressive"
)

// ParseStrategy validates a raw strategy string.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyConservative, StrategyBalanced, StrategyAggressive:
		return Strategy(s), nil
	default:
		return "", &InvalidConfigurationError{Field: "strategy", Reason: "unknown strategy " + s}
	}
}

// Trend is the direction of the price slope over the analysis window.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// ConditionLabel is the coarse market regime classification.
type ConditionLabel string

const (
	ConditionVolatile ConditionLabel = "volatile"
	ConditionBullish  ConditionLabel = "bullish"
	ConditionBearish  ConditionLabel = "bearish"
	ConditionSideways ConditionLabel = "sideways"
)

// Prediction is the raw multi-step output of a trained model: point forecasts
// with per-step confidence bounds, Lower[i] <= Prices[i] <= Upper[i].
type Prediction struct {
	Prices []float64
	Lower  []float64
	Upper  []float64
}

// ForecastResult is the forecast value object returned to callers.
type ForecastResult struct {
	Symbol      string
	Model       ModelKind
	Horizon     int
	Predicted   []float64
	Lower       []float64
	Upper       []float64
	Metrics     map[string]float64
	GeneratedAt time.Time
}

// MarketCondition is a derived regime snapshot, recomputed per request and
// never persisted.
type MarketCondition struct {
	Symbol        string
	Volatility    float64
	Trend         Trend
	TrendStrength float64
	Support       float64
	Resistance    float64
	Momentum      float64
	Label         ConditionLabel
	Window        int
	Timestamp     time.Time
}

// PricingRecommendation is the pricing decision for one symbol.
type PricingRecommendation struct {
	Symbol           string
	CurrentPrice     float64
	RecommendedPrice float64
	ConfidenceScore  float64
	Strategy         Strategy
	Reasoning        string
	Condition        MarketCondition
	Timestamp        time.Time
}

// PriceChangePercent returns the recommended adjustment in percent.
func (r PricingRecommendation) PriceChangePercent() float64 {
	if r.CurrentPrice == 0 {
		return 0
	}
	return (r.RecommendedPrice - r.CurrentPrice) / r.CurrentPrice * 100
}

// PricingInsights bundles the market analysis with recommendations for every
// strategy, for one symbol.
type PricingInsights struct {
	Symbol          string
	CurrentPrice    float64
	Condition       MarketCondition
	Recommendations map[Strategy]PricingRecommendation
	Timestamp       time.Time
}

// PricingReport aggregates recommendations across symbols.
type PricingReport struct {
	Strategy           Strategy
	SymbolsAnalyzed    int
	Recommendations    []PricingRecommendation
	AverageConfidence  float64
	AveragePriceChange float64
	Errors             map[string]string
	Timestamp          time.Time
}

// TrainReport summarizes a completed training run.
type TrainReport struct {
	Symbol    string
	Model     ModelKind
	Rows      int
	Metrics   map[string]float64
	TrainedAt time.Time
}
