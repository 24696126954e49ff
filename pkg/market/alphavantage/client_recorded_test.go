package alphavantage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Replays an intraday call made with the public "demo" key, which Alpha
// Vantage serves for IBM only. Delete the cassette and set RECORD_CASSETTES=1
// to record a fresh one.
func TestClientFetchIntradayRecorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "alphavantage_intraday_ibm")
	if _, err := os.Stat(cassette + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s.yaml", cassette)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(cassette), 0o755))
	}

	r, err := recorder.New(cassette)
	require.NoError(t, err)
	defer func() { _ = r.Stop() }()

	client, err := NewClient("demo", WithTransport(r))
	require.NoError(t, err)

	series, err := client.FetchIntraday(context.Background(), "IBM")
	require.NoError(t, err)
	require.NotEmpty(t, series)
	for i := 1; i < len(series); i++ {
		assert.Greater(t, series[i-1].Timestamp, series[i].Timestamp, "series must be newest first without duplicates")
	}
	latest, ok := series.Latest()
	require.True(t, ok)
	assert.Greater(t, latest.Close, 0.0)
	if r.Mode() == recorder.ModeReplaying {
		assert.Len(t, series, 6)
		assert.Equal(t, "2024-05-03 19:55:00", latest.Timestamp)
		assert.InDelta(t, 165.28, latest.Close, 1e-9)
		assert.Equal(t, int64(2153), latest.Volume)
	}
}
