package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"PricePulse/internal/domain/repository"
	domsvc "PricePulse/internal/domain/service"
	"PricePulse/internal/handler/api"
	internalrepo "PricePulse/internal/repository"
	"PricePulse/internal/services/forecast"
	"PricePulse/internal/services/market"
	"PricePulse/internal/services/pricing"
	"PricePulse/internal/usecase"
	"PricePulse/pkg/cache"
	pkgch "PricePulse/pkg/clickhouse"
	"PricePulse/pkg/config"
	xhttp "PricePulse/pkg/http"
	applogger "PricePulse/pkg/logger"
	"PricePulse/pkg/metrics"
	"PricePulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client when the ClickHouse
// data source is configured. Returns nil for the CSV source.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Data.Source != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS pricepulse",
		"CREATE TABLE IF NOT EXISTS pricepulse.prices_1d (symbol String, ts DateTime, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=MergeTree ORDER BY (symbol, ts)",
		"CREATE TABLE IF NOT EXISTS pricepulse.prices_1h (symbol String, ts DateTime, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=MergeTree ORDER BY (symbol, ts)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvidePriceStore selects the configured price history backend.
func ProvidePriceStore(cfg *config.Config, chClient *pkgch.Client, logger *applogger.Logger) (repository.PriceStore, error) {
	switch cfg.Data.Source {
	case "clickhouse":
		store := internalrepo.NewCHPriceStore(chClient)
		store.SetLogger(logger)
		return store, nil
	case "csv":
		store := internalrepo.NewCSVPriceStore(cfg.Data.CSV.Dir)
		store.SetLogger(logger)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported data source: %s", cfg.Data.Source)
	}
}

// Caches bundles the two cache tiers the forecasting use case needs: an
// in-process store for trained model snapshots and a result cache that may be
// layered over Redis.
type Caches struct {
	Models  cache.Service
	Results cache.Service
}

// ProvideCaches builds the cache tiers. Trained models never leave the
// process, so the model cache is always in-memory regardless of Redis.
func ProvideCaches(cfg *config.Config) (*Caches, error) {
	models := cache.NewMemoryCache(cache.WithMemoryMaxSize(256))

	var results cache.Service = cache.NewMemoryCache()
	if cfg.Cache.Redis.Enabled {
		host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
		if err != nil {
			return nil, fmt.Errorf("redis addr: %w", err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("redis port: %w", err)
		}
		redis, err := cache.NewRedisCache(
			cache.WithRedisHost(host),
			cache.WithRedisPort(port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix("pricepulse"),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		results = cache.NewLayeredCache(redis)
	}

	return &Caches{Models: models, Results: results}, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideAnalyzer creates the market condition analyzer.
func ProvideAnalyzer(cfg *config.Config) domsvc.MarketAnalyzer {
	return market.New(market.Config{
		Window:              cfg.Market.Window,
		MinPoints:           cfg.Market.MinPoints,
		VolatilityThreshold: cfg.Market.VolatilityThreshold,
		TrendThreshold:      cfg.Market.TrendThreshold,
	})
}

// ProvideRecommender creates the pricing recommender.
func ProvideRecommender() domsvc.PricingRecommender {
	return pricing.New()
}

// ProvideForecastingUseCase wires the forecasting orchestration.
func ProvideForecastingUseCase(
	store repository.PriceStore,
	caches *Caches,
	analyzer domsvc.MarketAnalyzer,
	recommender domsvc.PricingRecommender,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.ForecastingUseCase {
	return usecase.NewForecastingUseCase(
		store,
		caches.Models,
		caches.Results,
		analyzer,
		recommender,
		m,
		logger,
		usecase.Config{
			Forecast: forecast.Config{
				LookbackWindow:    cfg.Forecast.LookbackWindow,
				MAShort:           cfg.Forecast.MAShort,
				MALong:            cfg.Forecast.MALong,
				Estimators:        cfg.Forecast.Estimators,
				MaxDepth:          cfg.Forecast.MaxDepth,
				MinLeaf:           cfg.Forecast.MinLeaf,
				ConfidenceLevel:   cfg.Forecast.ConfidenceLevel,
				MinTrainingRows:   cfg.Forecast.MinTrainingRows,
				TestSplitFraction: cfg.Forecast.TestSplitFraction,
				Seed:              cfg.Forecast.Seed,
			},
			History:   cfg.Forecast.History,
			ResultTTL: cfg.Cache.ResultTTL,
			ModelTTL:  cfg.Cache.ModelTTL,
		},
	)
}

// ProvideSeriesUseCase wires the raw history use case.
func ProvideSeriesUseCase(store repository.PriceStore) *usecase.SeriesUseCase {
	return usecase.NewSeriesUseCase(store)
}

// ProvideHandler creates the Echo API handler.
func ProvideHandler(logger *applogger.Logger, uc *usecase.ForecastingUseCase, series *usecase.SeriesUseCase) xhttp.Handler {
	return api.NewForecastEchoHandler(logger, uc, series)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	caches *Caches,
) *server.App {
	app := server.New(cfg, logger, handler, chClient)
	if mc, ok := caches.Models.(*cache.MemoryCache); ok {
		app.AddCloser(mc)
	}
	if lc, ok := caches.Results.(*cache.LayeredCache); ok {
		app.AddCloser(lc)
	}
	return app
}
