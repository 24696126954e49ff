package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/session"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/llm"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

type fakeLLM struct {
	mu       sync.Mutex
	requests []*llm.ChatRequest
	reply    func(req *llm.ChatRequest) (string, error)
}

func (f *fakeLLM) Chat(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	content, err := f.reply(req)
	if err != nil {
		return nil, err
	}
	return &llm.ChatResponse{Choices: []llm.Choice{{Message: llm.Message{Role: llm.RoleAssistant, Content: content}}}}, nil
}

func (f *fakeLLM) GetConfig() *llm.Config { return &llm.Config{} }
func (f *fakeLLM) Close() error           { return nil }

func (f *fakeLLM) lastRequest() *llm.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func replyWith(content string) *fakeLLM {
	return &fakeLLM{reply: func(*llm.ChatRequest) (string, error) { return content, nil }}
}

type fakeMarket struct {
	mu      sync.Mutex
	fetched []string
	data    map[string]market.Series
}

func (f *fakeMarket) Intraday(_ context.Context, symbol string) (market.Series, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, symbol)
	f.mu.Unlock()

	series, ok := f.data[symbol]
	if !ok {
		return nil, &market.FetchError{Provider: "fake", Symbol: symbol, Err: errors.New("Invalid API call.")}
	}
	return series, nil
}

func seriesWithClose(closes ...float64) market.Series {
	out := make(market.Series, 0, len(closes))
	for i, c := range closes {
		out = append(out, market.PricePoint{
			Timestamp: fmt.Sprintf("2024-01-05 19:%02d:00", 55-5*i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		})
	}
	return out
}

func newTestService(t *testing.T, client llm.LLMClient, provider market.Provider) *Service {
	t.Helper()
	svc, err := NewService(DefaultConfig(), client, provider, WithSystemPrompt("You are Sam."))
	require.NoError(t, err)
	return svc
}

func TestRespondEmptyMessage(t *testing.T) {
	client := replyWith("unused")
	svc := newTestService(t, client, &fakeMarket{})

	for _, msg := range []string{"", "   ", "\n\t"} {
		reply := svc.Respond(context.Background(), msg, "abc")
		assert.Equal(t, EmptyMessageReply, reply.Text)
		assert.Equal(t, OutcomeEmpty, reply.Outcome)
	}
	assert.Equal(t, 0, svc.Store().Sessions())
	assert.Empty(t, client.requests)
}

func TestRespondPlainText(t *testing.T) {
	client := replyWith("Hello! What is your name?")
	svc := newTestService(t, client, &fakeMarket{})

	got := svc.Handle(context.Background(), "hi", "")
	assert.Equal(t, "Hello! What is your name?", got)

	turns := svc.Store().GetOrCreate(DefaultSessionID)
	require.Len(t, turns, 1)
	assert.Equal(t, "hi", turns[0].User)
	assert.Equal(t, "Hello! What is your name?", turns[0].Assistant)
	assert.Nil(t, turns[0].Context)

	req := client.lastRequest()
	require.NotNil(t, req.Temperature)
	assert.Zero(t, *req.Temperature)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "You are Sam.", req.Messages[0].Content)
}

func TestRespondLLMFailure(t *testing.T) {
	client := &fakeLLM{reply: func(*llm.ChatRequest) (string, error) {
		return "", errors.New("upstream unavailable")
	}}
	svc := newTestService(t, client, &fakeMarket{})

	reply := svc.Respond(context.Background(), "hi", "abc")
	assert.Equal(t, "upstream unavailable", reply.Text)
	assert.Equal(t, OutcomeLLMError, reply.Outcome)
	assert.Error(t, reply.Err)
	assert.Equal(t, 1, svc.Store().Len("abc"))
}

func TestRespondFinancialTextKeepsContext(t *testing.T) {
	client := replyWith("Apple makes phones.\nMETADATA:\nIS_FINANCIAL: true\nRESPONSE_TYPE: text\nSYMBOLS: [AAPL]\nCOMPARISON: false")
	provider := &fakeMarket{}
	svc := newTestService(t, client, provider)

	reply := svc.Respond(context.Background(), "what does apple do?", "abc")
	assert.Equal(t, "Apple makes phones.", reply.Text)
	assert.Equal(t, OutcomeFinancial, reply.Outcome)
	assert.Empty(t, provider.fetched)

	turns := svc.Store().GetOrCreate("abc")
	require.Len(t, turns, 1)
	require.NotNil(t, turns[0].Context)
	assert.Equal(t, []string{"AAPL"}, turns[0].Context.Symbols)
	assert.Equal(t, "stock_price", turns[0].Context.DataType)
}

func TestRespondSingleSymbolData(t *testing.T) {
	client := replyWith("Here is IBM.\nMETADATA:\nIS_FINANCIAL: true\nRESPONSE_TYPE: data\nSYMBOLS: [IBM]\nCOMPARISON: false")
	provider := &fakeMarket{data: map[string]market.Series{
		"IBM": seriesWithClose(1, 2, 3, 4, 5, 6, 7),
	}}
	svc := newTestService(t, client, provider)

	reply := svc.Respond(context.Background(), "show IBM", "abc")
	require.NoError(t, reply.Err)
	assert.Equal(t, OutcomeData, reply.Outcome)
	assert.True(t, strings.HasPrefix(reply.Text, "Here is IBM.\n<table"))
	assert.Equal(t, 5, strings.Count(reply.Text, "<tr><td>"))
	assert.Contains(t, reply.Text, "<td>2024-01-05 19:55:00</td>")
	assert.NotContains(t, reply.Text, "19:25:00")

	turns := svc.Store().GetOrCreate("abc")
	require.Len(t, turns, 1)
	assert.Equal(t, reply.Text, turns[0].Assistant)
}

func TestRespondComparison(t *testing.T) {
	client := replyWith("Comparing.\nMETADATA:\nIS_FINANCIAL: true\nRESPONSE_TYPE: data\nSYMBOLS: [AAPL, MSFT]\nCOMPARISON: true")
	provider := &fakeMarket{data: map[string]market.Series{
		"AAPL": seriesWithClose(101.23, 100),
		"MSFT": seriesWithClose(99.0, 98),
	}}
	svc := newTestService(t, client, provider)

	reply := svc.Respond(context.Background(), "compare apple and microsoft", "abc")
	require.NoError(t, reply.Err)
	assert.Equal(t, OutcomeComparison, reply.Outcome)
	assert.True(t, strings.HasPrefix(reply.Text, "\nComparison of latest prices:\nAAPL: $101.23\nMSFT: $99.00\n\nDetailed data:\n"))

	aapl := strings.Index(reply.Text, "\nAAPL Data:\n<table")
	msft := strings.Index(reply.Text, "\nMSFT Data:\n<table")
	require.True(t, aapl > 0 && msft > aapl, "detail tables must follow symbol order")
	assert.Equal(t, []string{"AAPL", "MSFT"}, provider.fetched)
}

func TestRespondComparisonWithOneSymbolFallsBackToSingle(t *testing.T) {
	client := replyWith("Apple.\nMETADATA:\nIS_FINANCIAL: true\nRESPONSE_TYPE: data\nSYMBOLS: [AAPL]\nCOMPARISON: true")
	provider := &fakeMarket{data: map[string]market.Series{"AAPL": seriesWithClose(101.23)}}
	svc := newTestService(t, client, provider)

	reply := svc.Respond(context.Background(), "compare apple", "abc")
	assert.Equal(t, OutcomeData, reply.Outcome)
	assert.True(t, strings.HasPrefix(reply.Text, "Apple.\n<table"))
}

func TestRespondFailsFastOnFetchError(t *testing.T) {
	client := replyWith("Sure.\nMETADATA:\nIS_FINANCIAL: true\nRESPONSE_TYPE: data\nSYMBOLS: [AAPL, BADSYM, MSFT]\nCOMPARISON: true")
	provider := &fakeMarket{data: map[string]market.Series{
		"AAPL": seriesWithClose(101.23),
		"MSFT": seriesWithClose(99.0),
	}}
	svc := newTestService(t, client, provider)

	reply := svc.Respond(context.Background(), "compare", "abc")
	assert.Equal(t, "Error fetching data for BADSYM: Invalid API call.", reply.Text)
	assert.Equal(t, OutcomeFetchError, reply.Outcome)
	assert.False(t, reply.Stored())
	assert.Equal(t, []string{"AAPL", "BADSYM"}, provider.fetched)
	assert.Equal(t, 0, svc.Store().Len("abc"))
	assert.True(t, svc.Store().Exists("abc"))
}

func TestRespondEmptySeriesIsNoData(t *testing.T) {
	client := replyWith("x\nMETADATA:\nIS_FINANCIAL: true\nRESPONSE_TYPE: data\nSYMBOLS: [NONE]")
	provider := &fakeMarket{data: map[string]market.Series{"NONE": {}}}
	svc := newTestService(t, client, provider)

	reply := svc.Respond(context.Background(), "none", "abc")
	assert.Equal(t, "Error fetching data for NONE: No data found for the provided symbol.", reply.Text)
	assert.ErrorIs(t, reply.Err, market.ErrNoData)
}

func TestRespondDataWithoutSymbols(t *testing.T) {
	client := replyWith("Which one?\nMETADATA:\nIS_FINANCIAL: true\nRESPONSE_TYPE: data\nSYMBOLS: []")
	svc := newTestService(t, client, &fakeMarket{})

	reply := svc.Respond(context.Background(), "show me a stock", "abc")
	assert.Equal(t, "An error occurred: no symbols requested for market data", reply.Text)
	assert.ErrorIs(t, reply.Err, ErrNoSymbols)
	assert.Equal(t, 0, svc.Store().Len("abc"))
}

func TestRespondSendsBoundedHistory(t *testing.T) {
	client := &fakeLLM{reply: func(req *llm.ChatRequest) (string, error) {
		last := req.Messages[len(req.Messages)-1].Content
		if last == "silent" {
			return "", nil
		}
		return "re: " + last, nil
	}}
	svc := newTestService(t, client, &fakeMarket{})
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "silent", "four"} {
		svc.Respond(ctx, msg, "abc")
	}
	svc.Respond(ctx, "five", "abc")

	req := client.lastRequest()
	var got []string
	for _, m := range req.Messages[1:] {
		got = append(got, m.Role+":"+m.Content)
	}
	assert.Equal(t, []string{
		"user:two", "assistant:re: two",
		"user:silent",
		"user:four", "assistant:re: four",
		"user:five",
	}, got)
}

func TestRespondTrimsHistory(t *testing.T) {
	svc := newTestService(t, replyWith("ok"), &fakeMarket{})
	for i := 1; i <= 11; i++ {
		svc.Respond(context.Background(), fmt.Sprintf("m%d", i), "abc")
	}
	turns := svc.Store().GetOrCreate("abc")
	require.Len(t, turns, 10)
	assert.Equal(t, "m2", turns[0].User)
	assert.Equal(t, "m11", turns[9].User)
}

func TestRespondSerialisesSameSession(t *testing.T) {
	store := session.NewStore(50)
	svc, err := NewService(DefaultConfig(), replyWith("ok"), &fakeMarket{}, WithSystemPrompt("p"), WithStore(store))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.Respond(context.Background(), fmt.Sprintf("m%d", i), []string{"a", "b", "c"}[i%3])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, store.Len("a"))
	assert.Equal(t, 10, store.Len("b"))
	assert.Equal(t, 10, store.Len("c"))
}

func TestNewServiceRendersPromptTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("You are {{ .AssistantName }}.\nEnd with {{ .Marker }}\n"), 0o600))

	cfg := DefaultConfig()
	cfg.PromptTemplate = path
	client := replyWith("ok")
	svc, err := NewService(cfg, client, &fakeMarket{})
	require.NoError(t, err)
	assert.Len(t, svc.PromptDigest(), 64)

	svc.Respond(context.Background(), "hi", "abc")
	assert.Equal(t, "You are Sam.\nEnd with METADATA:", client.lastRequest().Messages[0].Content)
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(DefaultConfig(), nil, &fakeMarket{}, WithSystemPrompt("p"))
	assert.Error(t, err)

	_, err = NewService(DefaultConfig(), replyWith("x"), nil, WithSystemPrompt("p"))
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.PromptTemplate = filepath.Join(t.TempDir(), "missing.tmpl")
	_, err = NewService(cfg, replyWith("x"), &fakeMarket{})
	assert.ErrorContains(t, err, "load prompt template")
}

func TestNewServiceUsesBuiltinPrompt(t *testing.T) {
	client := replyWith("ok")
	svc, err := NewService(DefaultConfig(), client, &fakeMarket{})
	require.NoError(t, err)
	assert.Equal(t, "builtin:system.tmpl", svc.PromptSource())
	assert.Len(t, svc.PromptDigest(), 64)

	svc.Respond(context.Background(), "hi", "abc")
	system := client.lastRequest().Messages[0].Content
	assert.Contains(t, system, "Sam")
	assert.Contains(t, system, "METADATA:")
	assert.Contains(t, system, "RESPONSE_TYPE:")
}
