package alphavantage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

// intradayResponse mirrors the TIME_SERIES_INTRADAY payload for a 5min interval.
// Failures come back with HTTP 200 and one of the message fields set.
type intradayResponse struct {
	ErrorMessage string            `json:"Error Message"`
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
	TimeSeries   map[string]rawBar `json:"Time Series (5min)"`
	MetaData     map[string]string `json:"Meta Data"`
}

type rawBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// providerError returns the provider-reported failure, if any.
func (r *intradayResponse) providerError() string {
	for _, msg := range []string{r.ErrorMessage, r.Note, r.Information} {
		if msg = strings.TrimSpace(msg); msg != "" {
			return msg
		}
	}
	return ""
}

// toSeries converts the raw bars into a series sorted newest first.
func (r *intradayResponse) toSeries() (market.Series, error) {
	if len(r.TimeSeries) == 0 {
		return nil, market.ErrNoData
	}
	series := make(market.Series, 0, len(r.TimeSeries))
	for ts, bar := range r.TimeSeries {
		point, err := bar.toPoint(ts)
		if err != nil {
			return nil, err
		}
		series = append(series, point)
	}
	series.SortNewestFirst()
	return series, nil
}

func (b rawBar) toPoint(ts string) (market.PricePoint, error) {
	open, err := parsePrice(ts, "open", b.Open)
	if err != nil {
		return market.PricePoint{}, err
	}
	high, err := parsePrice(ts, "high", b.High)
	if err != nil {
		return market.PricePoint{}, err
	}
	low, err := parsePrice(ts, "low", b.Low)
	if err != nil {
		return market.PricePoint{}, err
	}
	closePx, err := parsePrice(ts, "close", b.Close)
	if err != nil {
		return market.PricePoint{}, err
	}
	volume, err := strconv.ParseInt(strings.TrimSpace(b.Volume), 10, 64)
	if err != nil {
		return market.PricePoint{}, fmt.Errorf("invalid volume %q at %s", b.Volume, ts)
	}
	return market.PricePoint{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePx,
		Volume:    volume,
	}, nil
}

func parsePrice(ts, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s price %q at %s", field, raw, ts)
	}
	return v, nil
}
