package pricing

import (
	"fmt"
	"time"

	"PricePulse/internal/domain/models"
)

// strategyMultipliers scale how much of the measured trend each risk posture
// is willing to price in.
var strategyMultipliers = map[models.Strategy]float64{
	models.StrategyConservative: 0.3,
	models.StrategyBalanced:     0.7,
	models.StrategyAggressive:   1.2,
}

// volatileDampening halves any adjustment in a volatile regime.
const volatileDampening = 0.5

// Recommender derives price adjustments from the market condition and,
// when available, a model forecast. It is stateless; every call is a pure
// function of its inputs.
type Recommender struct{}

func New() *Recommender { return &Recommender{} }

// Recommend adjusts the current price along the measured trend, scaled by the
// strategy multiplier and dampened under volatility. forecast may be nil; it
// only feeds the confidence score, never the price itself.
func (r *Recommender) Recommend(symbol string, currentPrice float64, forecast *models.ForecastResult, cond models.MarketCondition, strategy models.Strategy) (models.PricingRecommendation, error) {
	if currentPrice <= 0 {
		return models.PricingRecommendation{}, &models.InvalidConfigurationError{Field: "current_price", Reason: "must be positive"}
	}
	mult, ok := strategyMultipliers[strategy]
	if !ok {
		return models.PricingRecommendation{}, &models.InvalidConfigurationError{Field: "strategy", Reason: "unknown strategy " + string(strategy)}
	}

	adjustment := signedStrength(cond) * mult
	if cond.Label == models.ConditionVolatile {
		adjustment *= volatileDampening
	}

	rec := models.PricingRecommendation{
		Symbol:           symbol,
		CurrentPrice:     currentPrice,
		RecommendedPrice: currentPrice * (1 + adjustment),
		ConfidenceScore:  confidence(forecast, cond),
		Strategy:         strategy,
		Reasoning:        reasoning(cond, strategy, adjustment),
		Condition:        cond,
		Timestamp:        time.Now().UTC(),
	}
	return rec, nil
}

// signedStrength folds the trend direction into the strength so flat and
// sideways regimes yield a zero adjustment.
func signedStrength(cond models.MarketCondition) float64 {
	switch cond.Trend {
	case models.TrendUp:
		return cond.TrendStrength
	case models.TrendDown:
		return -cond.TrendStrength
	default:
		return 0
	}
}

// confidence combines the model's directional accuracy with a volatility
// penalty, clamped to [0,1]. Without a forecast, directional accuracy
// defaults to a coin flip.
func confidence(forecast *models.ForecastResult, cond models.MarketCondition) float64 {
	da := 0.5
	if forecast != nil {
		if v, ok := forecast.Metrics["directional_accuracy"]; ok {
			da = v
		}
	}
	score := da / (1 + 10*cond.Volatility)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func reasoning(cond models.MarketCondition, strategy models.Strategy, adjustment float64) string {
	return fmt.Sprintf("%s market with %s trend (strength %.4f, volatility %.4f); %s strategy adjusts price by %+.2f%%",
		cond.Label, cond.Trend, cond.TrendStrength, cond.Volatility, strategy, adjustment*100)
}
