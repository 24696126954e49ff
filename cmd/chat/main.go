package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/cli"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/config"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/svc"
	chatpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/chat"
	marketpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

func parseSymbols(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		field = strings.ToUpper(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		if _, exists := seen[field]; exists {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, field)
	}
	return out
}

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

// printTables fetches each symbol and prints its detail table.
func printTables(ctx context.Context, w io.Writer, provider marketpkg.Provider, symbols []string, rows int) error {
	for _, symbol := range symbols {
		series, err := provider.Intraday(ctx, symbol)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", symbol, err)
		}
		table, err := chatpkg.RenderTable(series, rows)
		if err != nil {
			return fmt.Errorf("render %s: %w", symbol, err)
		}
		fmt.Fprintf(w, "%s Data:\n%s\n", symbol, table)
	}
	return nil
}

// converse answers every non-empty line from r within one session.
func converse(ctx context.Context, r io.Reader, w io.Writer, chat *chatpkg.Service, sessionID string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fmt.Fprintln(w, chat.Handle(ctx, line, sessionID))
	}
	return scanner.Err()
}

func main() {
	var (
		configPath = flag.String("f", "etc/stockchat.yaml", "the config file")
		message    = flag.String("m", "", "answer a single message and exit")
		sessionID  = flag.String("session", chatpkg.DefaultSessionID, "session id used for history")
		symbolsRaw = flag.String("symbol", "", "comma-separated symbols to fetch directly, bypassing the model")
	)
	flag.Parse()
	logx.MustSetup(logx.LogConf{})
	logx.DisableStat()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	cli.LogConfigSummary(cfg)

	svcCtx, err := svc.Build(*cfg)
	if err != nil {
		fatalf("build service context: %v", err)
	}
	defer svcCtx.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case strings.TrimSpace(*symbolsRaw) != "":
		symbols := parseSymbols(*symbolsRaw)
		if len(symbols) == 0 {
			fatalf("no symbols provided; use -symbol AAPL,MSFT")
		}
		if err := printTables(ctx, os.Stdout, svcCtx.DefaultMarket, symbols, svcCtx.ChatConfig.DetailRows); err != nil {
			fatalf("%v", err)
		}
	case strings.TrimSpace(*message) != "":
		fmt.Println(svcCtx.Chat.Handle(ctx, *message, *sessionID))
	default:
		logx.Infof("reading messages from stdin for session %s", *sessionID)
		if err := converse(ctx, os.Stdin, os.Stdout, svcCtx.Chat, *sessionID); err != nil && err != context.Canceled {
			fatalf("read stdin: %v", err)
		}
	}
}
