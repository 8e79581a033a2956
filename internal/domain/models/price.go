package models

import "time"

// PricePoint represents one OHLCV record of a tracked product/asset.
type PricePoint struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Validate checks the OHLC invariant: low <= open,close <= high.
func (p PricePoint) Validate() error {
	if p.Low > p.High {
		return &InvalidConfigurationError{Field: "series", Reason: "low above high"}
	}
	if p.Open < p.Low || p.Open > p.High {
		return &InvalidConfigurationError{Field: "series", Reason: "open outside low/high range"}
	}
	if p.Close < p.Low || p.Close > p.High {
		return &InvalidConfigurationError{Field: "series", Reason: "close outside low/high range"}
	}
	return nil
}

// PriceSeries is an ordered price history with strictly increasing timestamps.
// The series is read-only for all consumers; nothing in this module mutates it.
type PriceSeries []PricePoint

// Validate checks per-point OHLC invariants and strict timestamp ordering.
func (s PriceSeries) Validate() error {
	for i, p := range s {
		if err := p.Validate(); err != nil {
			return err
		}
		if i > 0 && !s[i-1].Timestamp.Before(p.Timestamp) {
			return &InvalidConfigurationError{Field: "series", Reason: "timestamps not strictly increasing"}
		}
	}
	return nil
}

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// Tail returns the last n points (or the whole series when shorter).
func (s PriceSeries) Tail(n int) PriceSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Last returns the most recent point; the second value is false for an empty series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Returns computes simple one-step returns of the closing prices.
// Steps with a non-positive previous close contribute zero.
func (s PriceSeries) Returns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (s[i].Close-prev)/prev)
	}
	return out
}
