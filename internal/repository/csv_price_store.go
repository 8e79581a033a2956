package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"PricePulse/internal/domain/models"
	domrepo "PricePulse/internal/domain/repository"
	applogger "PricePulse/pkg/logger"
)

// CSVPriceStore implements PriceStore over a directory of per-symbol CSV
// files named <symbol>.csv with a date,open,high,low,close,volume header.
// Intended for local runs and backtests without a ClickHouse instance.
type CSVPriceStore struct {
	dir string
	l   *applogger.Logger
}

func NewCSVPriceStore(dir string) *CSVPriceStore {
	return &CSVPriceStore{dir: dir}
}

// SetLogger injects a structured logger.
func (s *CSVPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CSVPriceStore) GetSeries(ctx context.Context, symbol string, from, to time.Time, _ domrepo.Timeframe) (models.PriceSeries, error) {
	series, err := s.load(ctx, symbol)
	if err != nil {
		return nil, err
	}
	out := make(models.PriceSeries, 0, len(series))
	for _, p := range series {
		if p.Timestamp.Before(from) || p.Timestamp.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *CSVPriceStore) GetLatestN(ctx context.Context, symbol string, n int, _ domrepo.Timeframe) (models.PriceSeries, error) {
	series, err := s.load(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return series.Tail(n), nil
}

func (s *CSVPriceStore) Symbols(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".csv"))
	}
	sort.Strings(out)
	return out, nil
}

func (s *CSVPriceStore) load(ctx context.Context, symbol string) (models.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	path := filepath.Join(s.dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("read header: %w", err)
	}

	out := make(models.PriceSeries, 0, 1024)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		p, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("parse record for %s: %w", symbol, err)
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if s.l != nil {
		s.l.Debug("csv series loaded",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func parseRecord(rec []string) (models.PricePoint, error) {
	ts, err := parseDate(rec[0])
	if err != nil {
		return models.PricePoint{}, err
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return models.PricePoint{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return models.PricePoint{
		Timestamp: ts,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
