package usecase

import (
	"context"
	"fmt"
	"time"

	"PricePulse/internal/domain/models"
	domrepo "PricePulse/internal/domain/repository"
	"PricePulse/pkg/util"
)

// SeriesUseCase provides business logic for retrieving price history.
type SeriesUseCase struct {
	store domrepo.PriceStore
}

func NewSeriesUseCase(store domrepo.PriceStore) *SeriesUseCase {
	return &SeriesUseCase{store: store}
}

type GetSeriesParams struct {
	Symbol    string
	From      time.Time
	To        time.Time
	Timeframe domrepo.Timeframe
	Limit     int
}

type GetSeriesResult struct {
	Symbol    string
	Timeframe string
	From      time.Time
	To        time.Time
	Count     int
	Points    []models.PricePoint
}

func (uc *SeriesUseCase) GetSeries(ctx context.Context, p GetSeriesParams) (*GetSeriesResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}
	p.From, p.To = util.AlignFromTo(p.From, p.To, string(p.Timeframe))

	series, err := uc.store.GetSeries(ctx, p.Symbol, p.From, p.To, p.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}
	if len(series) > p.Limit {
		series = series[:p.Limit]
	}

	return &GetSeriesResult{
		Symbol:    p.Symbol,
		Timeframe: string(p.Timeframe),
		From:      p.From,
		To:        p.To,
		Count:     len(series),
		Points:    series,
	}, nil
}

// Symbols lists every symbol with stored history.
func (uc *SeriesUseCase) Symbols(ctx context.Context) ([]string, error) {
	return uc.store.Symbols(ctx)
}
