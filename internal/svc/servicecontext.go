package svc

import (
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/config"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/session"
	chatpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/chat"
	llmpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/llm"
	marketpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
	_ "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market/alphavantage"
)

type ServiceContext struct {
	Config config.Config

	LLMConfig       *llmpkg.Config
	LLMClient       llmpkg.LLMClient
	MarketConfig    *marketpkg.Config
	MarketProviders map[string]marketpkg.Provider
	DefaultMarket   marketpkg.Provider
	ChatConfig      *chatpkg.Config
	Sessions        *session.Store
	Chat            *chatpkg.Service
}

// Option overrides a dependency before the chat service is built.
type Option func(*ServiceContext)

// WithLLMClient replaces the client built from the LLM section.
func WithLLMClient(client llmpkg.LLMClient) Option {
	return func(s *ServiceContext) { s.LLMClient = client }
}

// WithMarketProvider replaces the default market provider.
func WithMarketProvider(provider marketpkg.Provider) Option {
	return func(s *ServiceContext) { s.DefaultMarket = provider }
}

// NewServiceContext builds every dependency from c and panics on failure,
// as startup cannot continue without them.
func NewServiceContext(c config.Config, opts ...Option) *ServiceContext {
	svc, err := Build(c, opts...)
	if err != nil {
		logx.Must(err)
	}
	return svc
}

// Build is NewServiceContext returning the error.
func Build(c config.Config, opts ...Option) (*ServiceContext, error) {
	svc := &ServiceContext{
		Config:       c,
		LLMConfig:    c.LLM.Value,
		MarketConfig: c.Market.Value,
		ChatConfig:   c.Chat.Value,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.ChatConfig == nil {
		svc.ChatConfig = chatpkg.DefaultConfig()
	}

	if svc.LLMClient == nil {
		if svc.LLMConfig == nil {
			return nil, fmt.Errorf("llm config is required")
		}
		// Apply test environment defaults: pin a low-cost model
		if c.IsTestEnv() {
			svc.LLMConfig = svc.LLMConfig.Clone()
			svc.LLMConfig.DefaultModel = llmpkg.TestModel
		}
		client, err := llmpkg.NewClient(svc.LLMConfig)
		if err != nil {
			return nil, fmt.Errorf("build llm client: %w", err)
		}
		svc.LLMClient = client
	}

	if svc.DefaultMarket == nil {
		if svc.MarketConfig == nil {
			return nil, fmt.Errorf("market config is required")
		}
		providers, err := svc.MarketConfig.BuildProviders()
		if err != nil {
			return nil, fmt.Errorf("build market providers: %w", err)
		}
		svc.MarketProviders = providers
		svc.DefaultMarket = providers[svc.MarketConfig.Default]
	}

	svc.Sessions = session.NewStore(svc.ChatConfig.MaxTurns)
	chat, err := chatpkg.NewService(svc.ChatConfig, svc.LLMClient, svc.DefaultMarket, chatpkg.WithStore(svc.Sessions))
	if err != nil {
		return nil, err
	}
	svc.Chat = chat
	if digest := chat.PromptDigest(); digest != "" {
		logx.Infof("chat prompt template %s sha256=%s", chat.PromptSource(), digest)
	}
	return svc, nil
}

// Close releases outbound clients.
func (s *ServiceContext) Close() {
	if s.LLMClient != nil {
		_ = s.LLMClient.Close()
	}
}
