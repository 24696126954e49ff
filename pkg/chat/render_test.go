package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

func TestRenderTable(t *testing.T) {
	series := market.Series{
		{Timestamp: "2024-01-05 19:55:00", Open: 160.15, High: 160.3, Low: 160.1, Close: 160.25, Volume: 1234567},
		{Timestamp: "2024-01-05 19:50:00", Open: 160.1, High: 160.2, Low: 160, Close: 160.15, Volume: 98},
	}

	out, err := RenderTable(series, 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<table border="1"`))
	assert.Contains(t, out, "<th>Timestamp</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Volume</th>")
	assert.Contains(t, out, "<tr><td>2024-01-05 19:55:00</td><td>160.15</td><td>160.30</td><td>160.10</td><td>160.25</td><td>1,234,567</td></tr>")
	assert.Contains(t, out, "<td>160.00</td>")
	assert.Contains(t, out, "<td>98</td>")
	assert.Less(t, strings.Index(out, "19:55:00"), strings.Index(out, "19:50:00"))
}

func TestRenderTableLimitsRows(t *testing.T) {
	series := make(market.Series, 8)
	for i := range series {
		series[i] = market.PricePoint{Timestamp: string(rune('a' + i))}
	}
	out, err := RenderTable(series, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(out, "<tr><td>"))
}

func TestRenderTableEmpty(t *testing.T) {
	out, err := RenderTable(nil, 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComparisonHeader(t *testing.T) {
	got := ComparisonHeader([]string{"AAPL", "MSFT"}, []float64{101.23, 99.0})
	assert.Equal(t, "\nComparison of latest prices:\nAAPL: $101.23\nMSFT: $99.00\n", got)
}
