package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"PricePulse/internal/domain/models"
	domrepo "PricePulse/internal/domain/repository"
	domsvc "PricePulse/internal/domain/service"
	"PricePulse/internal/services/forecast"
	"PricePulse/pkg/cache"
	xlogger "PricePulse/pkg/logger"
)

// Config tunes the forecasting use case.
type Config struct {
	Forecast  forecast.Config
	History   int           // points loaded for training and analysis
	ResultTTL time.Duration // forecast result cache TTL
	ModelTTL  time.Duration // trained model retention
}

func DefaultConfig() Config {
	return Config{
		Forecast:  forecast.Default(),
		History:   365,
		ResultTTL: 5 * time.Minute,
		ModelTTL:  24 * time.Hour,
	}
}

// ForecastingUseCase orchestrates training, forecasting, market analysis and
// pricing over a price store. Trained models live in the in-process model
// cache; serialized forecast results may sit in any cache.Service backend.
type ForecastingUseCase struct {
	store       domrepo.PriceStore
	modelCache  cache.Service
	resultCache cache.Service
	analyzer    domsvc.MarketAnalyzer
	recommender domsvc.PricingRecommender
	metrics     domrepo.Metrics
	logger      *xlogger.Logger
	cfg         Config

	mu       sync.Mutex
	registry map[string]models.TrainReport
}

func NewForecastingUseCase(
	store domrepo.PriceStore,
	modelCache cache.Service,
	resultCache cache.Service,
	analyzer domsvc.MarketAnalyzer,
	recommender domsvc.PricingRecommender,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
	cfg Config,
) *ForecastingUseCase {
	if cfg.History <= 0 {
		cfg.History = 365
	}
	return &ForecastingUseCase{
		store:       store,
		modelCache:  modelCache,
		resultCache: resultCache,
		analyzer:    analyzer,
		recommender: recommender,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
		registry:    map[string]models.TrainReport{},
	}
}

func (uc *ForecastingUseCase) history(n int) int {
	if n <= 0 {
		return uc.cfg.History
	}
	return n
}

func modelKey(symbol string, kind models.ModelKind) string {
	return fmt.Sprintf("model:%s:%s", symbol, kind)
}

func resultKey(symbol string, kind models.ModelKind, horizon int) string {
	return fmt.Sprintf("forecast:%s:%s:%d", symbol, kind, horizon)
}

// TrainModel loads history, trains the requested model and caches the fitted
// snapshot for later forecasting calls.
func (uc *ForecastingUseCase) TrainModel(ctx context.Context, symbol string, kind models.ModelKind, n int, tf domrepo.Timeframe) (*models.TrainReport, error) {
	series, err := uc.store.GetLatestN(ctx, symbol, uc.history(n), tf)
	if err != nil {
		uc.metrics.RecordError("store")
		return nil, fmt.Errorf("load series: %w", err)
	}

	forecaster, err := forecast.New(kind, uc.cfg.Forecast)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	trained, err := forecaster.Train(series)
	if err != nil {
		uc.metrics.RecordError("training")
		uc.logger.Error("model training failed",
			xlogger.String("symbol", symbol),
			xlogger.String("model", string(kind)),
			xlogger.Error(err))
		return nil, err
	}
	elapsed := time.Since(start)

	if err := uc.modelCache.Set(ctx, modelKey(symbol, kind), trained, uc.cfg.ModelTTL); err != nil {
		return nil, fmt.Errorf("cache model: %w", err)
	}
	// Retraining invalidates previously served forecasts for this model.
	_ = uc.resultCache.DeleteByPattern(ctx, fmt.Sprintf("forecast:%s:%s:*", symbol, kind))

	uc.metrics.RecordTraining(symbol, string(kind), elapsed.Seconds())
	if last, ok := series.Last(); ok {
		uc.metrics.RecordLastPrice(symbol, last.Close)
	}
	uc.logger.Info("model trained",
		xlogger.String("symbol", symbol),
		xlogger.String("model", string(kind)),
		xlogger.Int("rows", len(series)),
		xlogger.Duration("took", elapsed))

	report := models.TrainReport{
		Symbol:    symbol,
		Model:     kind,
		Rows:      len(series),
		Metrics:   trained.Metrics(),
		TrainedAt: time.Now().UTC(),
	}
	uc.mu.Lock()
	uc.registry[modelKey(symbol, kind)] = report
	uc.mu.Unlock()
	return &report, nil
}

// Models lists the models trained through this process, one entry per
// symbol and kind, most recent training wins.
func (uc *ForecastingUseCase) Models() []models.TrainReport {
	uc.mu.Lock()
	out := make([]models.TrainReport, 0, len(uc.registry))
	for _, r := range uc.registry {
		out = append(out, r)
	}
	uc.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// Forecast predicts the next horizon steps using the cached trained model.
// Callers must train first; an untrained symbol/model pair fails with
// ModelNotTrainedError rather than training implicitly.
func (uc *ForecastingUseCase) Forecast(ctx context.Context, symbol string, kind models.ModelKind, horizon int) (*models.ForecastResult, error) {
	if horizon <= 0 {
		return nil, &models.InvalidConfigurationError{Field: "horizon", Reason: "must be positive"}
	}

	key := resultKey(symbol, kind, horizon)
	var raw interface{}
	if err := uc.resultCache.Get(ctx, key, &raw); err == nil {
		if cached, ok := raw.(*models.ForecastResult); ok && cached.Horizon == horizon {
			return cached, nil
		}
	}

	trained, err := uc.trainedModel(ctx, symbol, kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pred, err := trained.Predict(horizon)
	if err != nil {
		uc.metrics.RecordError("forecast")
		return nil, err
	}
	uc.metrics.RecordForecast(symbol, string(kind))
	uc.metrics.RecordLatency("forecast", time.Since(start).Seconds())

	res := &models.ForecastResult{
		Symbol:      symbol,
		Model:       kind,
		Horizon:     horizon,
		Predicted:   pred.Prices,
		Lower:       pred.Lower,
		Upper:       pred.Upper,
		Metrics:     trained.Metrics(),
		GeneratedAt: time.Now().UTC(),
	}
	if err := uc.resultCache.Set(ctx, key, res, uc.cfg.ResultTTL); err != nil {
		uc.logger.Warn("forecast cache write failed", xlogger.Error(err))
	}
	return res, nil
}

// ForecastSeries trains and predicts in one shot on a caller-supplied series,
// bypassing the store and every cache. Useful for ad hoc evaluation.
func (uc *ForecastingUseCase) ForecastSeries(symbol string, series models.PriceSeries, kind models.ModelKind, horizon int) (*models.ForecastResult, error) {
	if horizon <= 0 {
		return nil, &models.InvalidConfigurationError{Field: "horizon", Reason: "must be positive"}
	}
	forecaster, err := forecast.New(kind, uc.cfg.Forecast)
	if err != nil {
		return nil, err
	}
	trained, err := forecaster.Train(series)
	if err != nil {
		return nil, err
	}
	pred, err := trained.Predict(horizon)
	if err != nil {
		return nil, err
	}
	return &models.ForecastResult{
		Symbol:      symbol,
		Model:       kind,
		Horizon:     horizon,
		Predicted:   pred.Prices,
		Lower:       pred.Lower,
		Upper:       pred.Upper,
		Metrics:     trained.Metrics(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (uc *ForecastingUseCase) trainedModel(ctx context.Context, symbol string, kind models.ModelKind) (domsvc.TrainedModel, error) {
	var raw interface{}
	if err := uc.modelCache.Get(ctx, modelKey(symbol, kind), &raw); err != nil {
		return nil, &models.ModelNotTrainedError{Kind: kind}
	}
	trained, ok := raw.(domsvc.TrainedModel)
	if !ok {
		return nil, &models.ModelNotTrainedError{Kind: kind}
	}
	return trained, nil
}

// AnalyzeMarket classifies the current market condition of a symbol.
func (uc *ForecastingUseCase) AnalyzeMarket(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) (models.MarketCondition, error) {
	series, err := uc.store.GetLatestN(ctx, symbol, uc.history(n), tf)
	if err != nil {
		uc.metrics.RecordError("store")
		return models.MarketCondition{}, fmt.Errorf("load series: %w", err)
	}
	return uc.AnalyzeSeries(symbol, series)
}

// AnalyzeSeries classifies a caller-supplied series.
func (uc *ForecastingUseCase) AnalyzeSeries(symbol string, series models.PriceSeries) (models.MarketCondition, error) {
	cond, err := uc.analyzer.Analyze(series)
	if err != nil {
		return models.MarketCondition{}, err
	}
	cond.Symbol = symbol
	return cond, nil
}

// RecommendPricing derives a price adjustment for a symbol under a strategy.
// A missing or failing forecast degrades confidence but never blocks the
// recommendation; the condition analysis alone is enough to price.
func (uc *ForecastingUseCase) RecommendPricing(ctx context.Context, symbol string, strategy models.Strategy, kind models.ModelKind, currentPrice float64, horizon, n int, tf domrepo.Timeframe) (models.PricingRecommendation, error) {
	series, err := uc.store.GetLatestN(ctx, symbol, uc.history(n), tf)
	if err != nil {
		uc.metrics.RecordError("store")
		return models.PricingRecommendation{}, fmt.Errorf("load series: %w", err)
	}
	last, ok := series.Last()
	if !ok {
		return models.PricingRecommendation{}, &models.InsufficientDataError{Op: "pricing", Need: 1, Got: 0}
	}
	if currentPrice <= 0 {
		currentPrice = last.Close
	}

	cond, err := uc.AnalyzeSeries(symbol, series)
	if err != nil {
		return models.PricingRecommendation{}, err
	}

	var fc *models.ForecastResult
	if res, ferr := uc.Forecast(ctx, symbol, kind, horizon); ferr == nil {
		fc = res
	} else if !errors.As(ferr, new(*models.ModelNotTrainedError)) {
		uc.logger.Warn("forecast unavailable for pricing",
			xlogger.String("symbol", symbol),
			xlogger.Error(ferr))
	}

	rec, err := uc.recommender.Recommend(symbol, currentPrice, fc, cond, strategy)
	if err != nil {
		return models.PricingRecommendation{}, err
	}
	uc.metrics.RecordRecommendation(string(strategy))
	return rec, nil
}

// Insights runs the market analysis once and prices the symbol under every
// strategy.
func (uc *ForecastingUseCase) Insights(ctx context.Context, symbol string, kind models.ModelKind, horizon, n int, tf domrepo.Timeframe) (*models.PricingInsights, error) {
	series, err := uc.store.GetLatestN(ctx, symbol, uc.history(n), tf)
	if err != nil {
		uc.metrics.RecordError("store")
		return nil, fmt.Errorf("load series: %w", err)
	}
	last, ok := series.Last()
	if !ok {
		return nil, &models.InsufficientDataError{Op: "insights", Need: 1, Got: 0}
	}
	cond, err := uc.AnalyzeSeries(symbol, series)
	if err != nil {
		return nil, err
	}

	var fc *models.ForecastResult
	if res, ferr := uc.Forecast(ctx, symbol, kind, horizon); ferr == nil {
		fc = res
	}

	recs := make(map[models.Strategy]models.PricingRecommendation, 3)
	for _, s := range []models.Strategy{models.StrategyConservative, models.StrategyBalanced, models.StrategyAggressive} {
		rec, err := uc.recommender.Recommend(symbol, last.Close, fc, cond, s)
		if err != nil {
			return nil, err
		}
		recs[s] = rec
	}

	return &models.PricingInsights{
		Symbol:          symbol,
		CurrentPrice:    last.Close,
		Condition:       cond,
		Recommendations: recs,
		Timestamp:       time.Now().UTC(),
	}, nil
}

// Report prices every requested symbol under one strategy and aggregates
// confidence and adjustment averages. Per-symbol failures land in the Errors
// map instead of failing the whole report.
func (uc *ForecastingUseCase) Report(ctx context.Context, symbols []string, strategy models.Strategy, kind models.ModelKind, horizon, n int, tf domrepo.Timeframe) (*models.PricingReport, error) {
	if len(symbols) == 0 {
		var err error
		symbols, err = uc.store.Symbols(ctx)
		if err != nil {
			return nil, fmt.Errorf("list symbols: %w", err)
		}
	}

	report := &models.PricingReport{
		Strategy:  strategy,
		Errors:    map[string]string{},
		Timestamp: time.Now().UTC(),
	}
	var confSum, changeSum float64
	for _, symbol := range symbols {
		rec, err := uc.RecommendPricing(ctx, symbol, strategy, kind, 0, horizon, n, tf)
		if err != nil {
			report.Errors[symbol] = err.Error()
			continue
		}
		report.Recommendations = append(report.Recommendations, rec)
		confSum += rec.ConfidenceScore
		changeSum += rec.PriceChangePercent()
	}
	report.SymbolsAnalyzed = len(symbols)
	if n := len(report.Recommendations); n > 0 {
		report.AverageConfidence = confSum / float64(n)
		report.AveragePriceChange = changeSum / float64(n)
	}
	return report, nil
}

// Correlation returns the return correlation of two symbols over the shared
// trailing history.
func (uc *ForecastingUseCase) Correlation(ctx context.Context, symbolA, symbolB string, n int, tf domrepo.Timeframe) (float64, error) {
	a, err := uc.store.GetLatestN(ctx, symbolA, uc.history(n), tf)
	if err != nil {
		return 0, fmt.Errorf("load series %s: %w", symbolA, err)
	}
	b, err := uc.store.GetLatestN(ctx, symbolB, uc.history(n), tf)
	if err != nil {
		return 0, fmt.Errorf("load series %s: %w", symbolB, err)
	}
	shared := len(a)
	if len(b) < shared {
		shared = len(b)
	}
	return uc.analyzer.Correlation(a.Tail(shared), b.Tail(shared))
}
