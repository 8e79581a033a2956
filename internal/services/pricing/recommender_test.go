package pricing

import (
	"errors"
	"math"
	"testing"

	"PricePulse/internal/domain/models"
)

func bullishCondition() models.MarketCondition {
	return models.MarketCondition{
		Symbol:        "ACME",
		Volatility:    0.01,
		Trend:         models.TrendUp,
		TrendStrength: 0.01,
		Label:         models.ConditionBullish,
		Window:        30,
	}
}

func TestRecommendStrategyOrdering(t *testing.T) {
	r := New()
	cond := bullishCondition()

	changes := map[models.Strategy]float64{}
	for _, s := range []models.Strategy{models.StrategyConservative, models.StrategyBalanced, models.StrategyAggressive} {
		rec, err := r.Recommend("ACME", 100, nil, cond, s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		changes[s] = math.Abs(rec.PriceChangePercent())
	}
	if !(changes[models.StrategyConservative] < changes[models.StrategyBalanced] &&
		changes[models.StrategyBalanced] < changes[models.StrategyAggressive]) {
		t.Fatalf("adjustment must grow with risk appetite: %v", changes)
	}
}

func TestRecommendDirection(t *testing.T) {
	r := New()

	up, err := r.Recommend("ACME", 100, nil, bullishCondition(), models.StrategyBalanced)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if up.RecommendedPrice <= 100 {
		t.Fatalf("uptrend should raise the price, got %v", up.RecommendedPrice)
	}

	cond := bullishCondition()
	cond.Trend = models.TrendDown
	cond.Label = models.ConditionBearish
	down, err := r.Recommend("ACME", 100, nil, cond, models.StrategyBalanced)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if down.RecommendedPrice >= 100 {
		t.Fatalf("downtrend should lower the price, got %v", down.RecommendedPrice)
	}

	cond.Trend = models.TrendFlat
	cond.Label = models.ConditionSideways
	flat, err := r.Recommend("ACME", 100, nil, cond, models.StrategyBalanced)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if flat.RecommendedPrice != 100 {
		t.Fatalf("flat trend should keep the price, got %v", flat.RecommendedPrice)
	}
}

func TestRecommendVolatileDampening(t *testing.T) {
	r := New()
	calm := bullishCondition()

	volatile := bullishCondition()
	volatile.Label = models.ConditionVolatile

	calmRec, err := r.Recommend("ACME", 100, nil, calm, models.StrategyAggressive)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	volRec, err := r.Recommend("ACME", 100, nil, volatile, models.StrategyAggressive)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	calmAdj := calmRec.RecommendedPrice - 100
	volAdj := volRec.RecommendedPrice - 100
	if math.Abs(volAdj-calmAdj/2) > 1e-9 {
		t.Fatalf("volatile adjustment should be halved: calm %v, volatile %v", calmAdj, volAdj)
	}
}

func TestRecommendConfidence(t *testing.T) {
	r := New()
	cond := bullishCondition()

	// no forecast: coin-flip directional accuracy with a volatility penalty
	rec, err := r.Recommend("ACME", 100, nil, cond, models.StrategyBalanced)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	want := 0.5 / (1 + 10*cond.Volatility)
	if math.Abs(rec.ConfidenceScore-want) > 1e-12 {
		t.Fatalf("confidence: want %v, got %v", want, rec.ConfidenceScore)
	}

	fc := &models.ForecastResult{Metrics: map[string]float64{"directional_accuracy": 0.9}}
	rec, err = r.Recommend("ACME", 100, fc, cond, models.StrategyBalanced)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.ConfidenceScore <= want {
		t.Fatalf("better directional accuracy should raise confidence")
	}
	if rec.ConfidenceScore < 0 || rec.ConfidenceScore > 1 {
		t.Fatalf("confidence out of bounds: %v", rec.ConfidenceScore)
	}
}

func TestRecommendInvalidInputs(t *testing.T) {
	r := New()
	cond := bullishCondition()

	var cfgErr *models.InvalidConfigurationError
	if _, err := r.Recommend("ACME", 0, nil, cond, models.StrategyBalanced); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError for zero price, got %v", err)
	}
	if _, err := r.Recommend("ACME", 100, nil, cond, models.Strategy("yolo")); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError for unknown strategy, got %v", err)
	}
}

func TestRecommendCarriesContext(t *testing.T) {
	r := New()
	cond := bullishCondition()
	rec, err := r.Recommend("ACME", 100, nil, cond, models.StrategyConservative)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.Symbol != "ACME" || rec.Strategy != models.StrategyConservative {
		t.Fatalf("recommendation lost its inputs: %+v", rec)
	}
	if rec.Condition.Label != cond.Label {
		t.Fatalf("recommendation should embed the analyzed condition")
	}
	if rec.Reasoning == "" {
		t.Fatalf("reasoning must be populated")
	}
}
