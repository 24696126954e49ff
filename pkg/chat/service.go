package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/syncx"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/session"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/intent"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/llm"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

const (
	// DefaultSessionID is used when a caller does not name a session.
	DefaultSessionID = "default"

	// EmptyMessageReply answers a blank user message.
	EmptyMessageReply = "Please send a message."
)

// ErrNoSymbols is reported when a data turn names no ticker.
var ErrNoSymbols = errors.New("no symbols requested for market data")

// Outcome classifies how a turn was answered.
type Outcome string

const (
	OutcomeEmpty      Outcome = "empty"
	OutcomeText       Outcome = "text"
	OutcomeLLMError   Outcome = "llm_error"
	OutcomeFinancial  Outcome = "financial_text"
	OutcomeData       Outcome = "data"
	OutcomeComparison Outcome = "comparison"
	OutcomeFetchError Outcome = "fetch_error"
	OutcomeError      Outcome = "error"
)

// Reply is the result of one chat turn. Text is what the user sees; Outcome
// and Err describe the same result for logs and metrics.
type Reply struct {
	Text    string
	Outcome Outcome
	Symbols []string
	Err     error
}

// Stored reports whether the turn was written to session history.
func (r Reply) Stored() bool {
	switch r.Outcome {
	case OutcomeEmpty, OutcomeFetchError, OutcomeError:
		return false
	default:
		return true
	}
}

// UnexpectedErrorText formats the reply used for failures outside the
// normal answer paths.
func UnexpectedErrorText(err error) string {
	return fmt.Sprintf("An error occurred: %v", err)
}

// Service answers chat turns. Turns for the same session id are serialised;
// different sessions proceed in parallel.
type Service struct {
	cfg          *Config
	llm          llm.LLMClient
	market       market.Provider
	store        *session.Store
	systemPrompt string
	promptSource string
	promptDigest string
	calls        syncx.LockedCalls
}

// Option customises a Service.
type Option func(*Service)

// WithStore shares an existing session store.
func WithStore(store *session.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSystemPrompt sets the system instruction directly instead of rendering
// the configured template.
func WithSystemPrompt(prompt string) Option {
	return func(s *Service) {
		s.systemPrompt = strings.TrimSpace(prompt)
	}
}

// NewService wires a chat service. When no system prompt is supplied the
// configured prompt template, or the built-in one, is rendered once here.
func NewService(cfg *Config, client llm.LLMClient, provider market.Provider, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if client == nil {
		return nil, errors.New("chat: llm client is required")
	}
	if provider == nil {
		return nil, errors.New("chat: market provider is required")
	}

	s := &Service{
		cfg:    cfg,
		llm:    client,
		market: provider,
		calls:  syncx.NewLockedCalls(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = session.NewStore(cfg.MaxTurns)
	}

	if s.systemPrompt == "" {
		renderer, err := NewPromptRenderer(cfg.PromptTemplate)
		if err != nil {
			return nil, fmt.Errorf("chat: load prompt template: %w", err)
		}
		rendered, err := renderer.Render(cfg)
		if err != nil {
			return nil, fmt.Errorf("chat: render prompt template: %w", err)
		}
		s.systemPrompt = rendered
		s.promptSource = renderer.Source()
		s.promptDigest = renderer.Digest()
	}
	return s, nil
}

// Store exposes the session store.
func (s *Service) Store() *session.Store { return s.store }

// PromptSource names the prompt template in use, or "" when the prompt was
// given directly.
func (s *Service) PromptSource() string { return s.promptSource }

// PromptDigest returns the sha256 digest of the prompt template, or "" when
// the prompt was given directly.
func (s *Service) PromptDigest() string { return s.promptDigest }

// Handle answers message within sessionID and returns the reply text.
func (s *Service) Handle(ctx context.Context, message, sessionID string) string {
	return s.Respond(ctx, message, sessionID).Text
}

// Respond answers message within sessionID.
func (s *Service) Respond(ctx context.Context, message, sessionID string) Reply {
	if strings.TrimSpace(message) == "" {
		reply := Reply{Text: EmptyMessageReply, Outcome: OutcomeEmpty}
		metricReplies.Inc(string(reply.Outcome))
		return reply
	}
	if strings.TrimSpace(sessionID) == "" {
		sessionID = DefaultSessionID
	}

	start := time.Now()
	v, _ := s.calls.Do(sessionID, func() (any, error) {
		return s.respond(ctx, message, sessionID), nil
	})
	reply := v.(Reply)
	metricReplies.Inc(string(reply.Outcome))

	logger := logx.WithContext(ctx).WithDuration(time.Since(start))
	if reply.Err != nil {
		logger.Errorf("chat: session=%s outcome=%s symbols=%v err=%v", sessionID, reply.Outcome, reply.Symbols, reply.Err)
	} else {
		logger.Infof("chat: session=%s outcome=%s symbols=%v turns=%d", sessionID, reply.Outcome, reply.Symbols, s.store.Len(sessionID))
	}
	return reply
}

func (s *Service) respond(ctx context.Context, message, sessionID string) Reply {
	s.store.GetOrCreate(sessionID)
	history := s.store.ContextFor(sessionID, s.cfg.ContextWindow)

	rec, llmErr := s.classify(ctx, message, history)

	if !rec.IsFinancial {
		outcome := OutcomeText
		if llmErr != nil {
			outcome = OutcomeLLMError
		}
		s.store.Append(sessionID, session.Turn{User: message, Assistant: rec.Message})
		return Reply{Text: rec.Message, Outcome: outcome, Err: llmErr}
	}

	reply := Reply{Text: rec.Message, Outcome: OutcomeFinancial, Symbols: rec.Symbols}
	if rec.WantsData() {
		reply = s.dataReply(ctx, rec)
		if !reply.Stored() {
			return reply
		}
	}

	s.store.Append(sessionID, session.Turn{
		User:      message,
		Assistant: reply.Text,
		Context: &session.TurnContext{
			Symbols:  rec.Symbols,
			DataType: s.cfg.DataType,
		},
	})
	return reply
}

// classify asks the language model for an intent-tagged answer. A failed call
// yields the error record, never an error return.
func (s *Service) classify(ctx context.Context, message string, history []session.Turn) (intent.Record, error) {
	messages := make([]llm.Message, 0, 2+2*len(history))
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s.systemPrompt})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: turn.User})
		if turn.Assistant != "" {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: turn.Assistant})
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.llm.Chat(callCtx, &llm.ChatRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: llm.Float(s.cfg.Temperature),
	})
	metricLLMDuration.Observe(time.Since(start).Milliseconds(), resultLabel(err))
	if err != nil {
		return intent.FromError(err), err
	}
	return intent.Extract(resp.Content()), nil
}

// dataReply fetches every symbol in order and stops at the first failure.
func (s *Service) dataReply(ctx context.Context, rec intent.Record) Reply {
	if len(rec.Symbols) == 0 {
		return Reply{Text: UnexpectedErrorText(ErrNoSymbols), Outcome: OutcomeError, Err: ErrNoSymbols}
	}

	all := make([]market.Series, len(rec.Symbols))
	for i, symbol := range rec.Symbols {
		series, err := s.fetch(ctx, symbol)
		if err != nil {
			return Reply{
				Text:    fmt.Sprintf("Error fetching data for %s: %v", symbol, err),
				Outcome: OutcomeFetchError,
				Symbols: rec.Symbols,
				Err:     err,
			}
		}
		all[i] = series
	}

	var (
		text    string
		outcome Outcome
		err     error
	)
	if rec.Compares() {
		text, err = s.comparisonText(rec.Symbols, all)
		outcome = OutcomeComparison
	} else {
		var table string
		table, err = RenderTable(all[0], s.cfg.DetailRows)
		text = rec.Message + "\n" + table
		outcome = OutcomeData
	}
	if err != nil {
		return Reply{Text: UnexpectedErrorText(err), Outcome: OutcomeError, Symbols: rec.Symbols, Err: err}
	}
	return Reply{Text: text, Outcome: outcome, Symbols: rec.Symbols}
}

func (s *Service) fetch(ctx context.Context, symbol string) (market.Series, error) {
	start := time.Now()
	series, err := s.market.Intraday(ctx, symbol)
	if err == nil && len(series) == 0 {
		err = market.ErrNoData
	}
	metricFetchDuration.Observe(time.Since(start).Milliseconds(), resultLabel(err))
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (s *Service) comparisonText(symbols []string, all []market.Series) (string, error) {
	latest := make([]float64, len(all))
	for i, series := range all {
		point, _ := series.Latest()
		latest[i] = point.Close
	}

	var b strings.Builder
	b.WriteString(ComparisonHeader(symbols, latest))
	b.WriteString("\nDetailed data:\n")
	for i, symbol := range symbols {
		table, err := RenderTable(all[i], s.cfg.DetailRows)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\n%s Data:\n%s", symbol, table)
	}
	return b.String(), nil
}
