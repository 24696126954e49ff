package alphavantage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

const (
	providerType           = "alphavantage"
	defaultProviderTimeout = 15 * time.Second
)

var errEmptySymbol = errors.New("symbol is required")

// Provider serves market.Provider from Alpha Vantage intraday data. It does not
// cache: each Intraday call is a fresh point-in-time snapshot.
type Provider struct {
	client     *Client
	timeout    time.Duration
	providerID string
}

type providerConfig struct {
	timeout       time.Duration
	clientOptions []Option
}

// ProviderOption customises the Alpha Vantage provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithClientOptions passes options to the underlying client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientOptions = append(cfg.clientOptions, options...)
	}
}

// NewProvider constructs an Alpha Vantage market provider.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	cfg := &providerConfig{timeout: defaultProviderTimeout}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := NewClient(apiKey, cfg.clientOptions...)
	if err != nil {
		return nil, err
	}
	return &Provider{
		client:  client,
		timeout: cfg.timeout,
	}, nil
}

func init() {
	market.RegisterProvider(providerType, func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []ProviderOption{}
		clientOptions := []Option{}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
			clientOptions = append(clientOptions, WithHTTPTimeout(cfg.Timeout))
		}
		if cfg.BaseURL != "" {
			clientOptions = append(clientOptions, WithBaseURL(cfg.BaseURL))
		}
		if len(clientOptions) > 0 {
			opts = append(opts, WithClientOptions(clientOptions...))
		}
		provider, err := NewProvider(cfg.APIKey, opts...)
		if err != nil {
			return nil, err
		}
		provider.providerID = name
		return provider, nil
	})
}

// Intraday implements market.Provider.
func (p *Provider) Intraday(ctx context.Context, symbol string) (market.Series, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, p.fetchError(symbol, errEmptySymbol)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	series, err := p.client.FetchIntraday(ctx, symbol)
	if err != nil {
		logx.WithContext(ctx).Errorf("alphavantage: intraday symbol=%s err=%v", symbol, err)
		return nil, p.fetchError(symbol, err)
	}
	logx.WithContext(ctx).Infof("alphavantage: intraday symbol=%s bars=%d duration=%s",
		symbol, len(series), time.Since(start))
	return series, nil
}

func (p *Provider) fetchError(symbol string, err error) *market.FetchError {
	return &market.FetchError{Provider: p.providerName(), Symbol: symbol, Err: err}
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Provider) providerName() string {
	if strings.TrimSpace(p.providerID) != "" {
		return p.providerID
	}
	return providerType
}
