package market

import (
	"context"
	"sort"
)

// Provider exposes intraday market data for a single ticker symbol.
type Provider interface {
	// Intraday returns the latest 5-minute bars for symbol, newest first.
	// Implementations issue exactly one upstream request per call and never
	// return partial data alongside an error.
	Intraday(ctx context.Context, symbol string) (Series, error)
}

// PricePoint is one OHLCV bar. Timestamp is exchange-local at minute resolution
// (e.g. "2024-01-05 19:55:00").
type PricePoint struct {
	Timestamp string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Series is an ordered set of bars for one symbol, newest first.
type Series []PricePoint

// SortNewestFirst orders the series by timestamp, descending.
func (s Series) SortNewestFirst() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Timestamp > s[j].Timestamp
	})
}

// Latest returns the most recent bar.
func (s Series) Latest() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[0], true
}

// Head returns at most n of the most recent bars.
func (s Series) Head(n int) Series {
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
