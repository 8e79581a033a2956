package repository

import (
	"context"
	"time"

	"PricePulse/internal/domain/models"
)

// Timeframe represents price history resolution buckets.
type Timeframe string

const (
	TF1d Timeframe = "1d"
	TF1h Timeframe = "1h"
)

// PriceStore provides read-only access to historical price series.
// The forecasting core never touches storage directly; it receives a
// models.PriceSeries value loaded through this interface.
type PriceStore interface {
	GetSeries(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) (models.PriceSeries, error)
	GetLatestN(ctx context.Context, symbol string, n int, tf Timeframe) (models.PriceSeries, error)
	Symbols(ctx context.Context) ([]string, error)
}
