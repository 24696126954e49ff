package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

const (
	defaultBaseURL     = "https://www.alphavantage.co"
	defaultHTTPTimeout = 10 * time.Second

	queryPath        = "/query"
	intradayFunction = "TIME_SERIES_INTRADAY"
	intradayInterval = "5min"
)

// ErrMissingAPIKey is returned when the client is built without credentials.
var ErrMissingAPIKey = errors.New("alphavantage: api key is required")

// Client wraps the Alpha Vantage query endpoint.
type Client struct {
	apiKey string
	rest   *resty.Client
}

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	transport  http.RoundTripper
}

// Option configures a new Client.
type Option func(*clientConfig)

// WithBaseURL overrides the API host (tests point this at httptest servers).
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPTimeout sets the overall timeout of one HTTP exchange.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTransport replaces the round tripper, e.g. with a go-vcr recorder.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// NewClient constructs an Alpha Vantage client. Retries are disabled: every
// call maps to exactly one upstream request.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := &clientConfig{
		baseURL: defaultBaseURL,
		timeout: defaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var rc *resty.Client
	if cfg.httpClient != nil {
		rc = resty.NewWithClient(cfg.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(cfg.baseURL).
		SetTimeout(cfg.timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if cfg.transport != nil {
		rc.SetTransport(cfg.transport)
	}

	return &Client{apiKey: apiKey, rest: rc}, nil
}

// FetchIntraday requests the 5-minute intraday series for symbol.
func (c *Client) FetchIntraday(ctx context.Context, symbol string) (market.Series, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": intradayFunction,
			"symbol":   symbol,
			"interval": intradayInterval,
			"apikey":   c.apiKey,
		}).
		Get(queryPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("request intraday series: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("alphavantage: http %d", resp.StatusCode())
	}

	var payload intradayResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode intraday response: %w", err)
	}
	if msg := payload.providerError(); msg != "" {
		return nil, errors.New(msg)
	}
	return payload.toSeries()
}
