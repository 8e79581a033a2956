package models

import (
	"errors"
	"testing"
	"time"
)

func day(i int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func point(i int, close float64) PricePoint {
	return PricePoint{
		Timestamp: day(i),
		Open:      close,
		High:      close + 1,
		Low:       close - 1,
		Close:     close,
		Volume:    100,
	}
}

func TestPricePointValidateOHLC(t *testing.T) {
	p := PricePoint{Timestamp: day(0), Open: 10, High: 9, Low: 11, Close: 10}
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for low above high")
	}

	p = PricePoint{Timestamp: day(0), Open: 20, High: 15, Low: 5, Close: 10}
	var cfgErr *InvalidConfigurationError
	if err := p.Validate(); !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}

	p = point(0, 100)
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPriceSeriesValidateOrdering(t *testing.T) {
	s := PriceSeries{point(0, 100), point(2, 101), point(1, 102)}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for unordered timestamps")
	}

	dup := PriceSeries{point(0, 100), point(0, 101)}
	if err := dup.Validate(); err == nil {
		t.Fatalf("expected error for duplicate timestamps")
	}

	ok := PriceSeries{point(0, 100), point(1, 101), point(2, 102)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPriceSeriesTailAndLast(t *testing.T) {
	s := PriceSeries{point(0, 100), point(1, 101), point(2, 102)}

	tail := s.Tail(2)
	if len(tail) != 2 || tail[0].Close != 101 {
		t.Fatalf("unexpected tail %v", tail)
	}
	if got := s.Tail(10); len(got) != 3 {
		t.Fatalf("tail larger than series should return all points")
	}

	last, ok := s.Last()
	if !ok || last.Close != 102 {
		t.Fatalf("unexpected last %v", last)
	}
	if _, ok := (PriceSeries{}).Last(); ok {
		t.Fatalf("empty series should have no last point")
	}
}

func TestPriceSeriesReturns(t *testing.T) {
	s := PriceSeries{point(0, 100), point(1, 110), point(2, 99)}
	rets := s.Returns()
	if len(rets) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(rets))
	}
	if rets[0] != 0.1 {
		t.Fatalf("unexpected first return %v", rets[0])
	}
}
