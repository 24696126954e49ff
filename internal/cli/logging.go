package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/config"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
// Secrets are reported only as present or missing.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		sectionLine("LLM config", cfg.LLM),
		sectionLine("Market config", cfg.Market),
		sectionLine("Chat config", cfg.Chat),
	}

	if llm := cfg.LLM.Value; llm != nil {
		lines = append(lines,
			fmt.Sprintf("LLM model: %s (timeout %s, retries %d)", llm.DefaultModel, llm.Timeout, llm.MaxRetries),
			fmt.Sprintf("LLM api key: %s", presence(strings.TrimSpace(llm.APIKey) != "")),
		)
	}
	if market := cfg.Market.Value; market != nil {
		lines = append(lines, fmt.Sprintf("Market providers: %s (default %s)", strings.Join(market.Names(), ", "), market.Default))
	}
	if chat := cfg.Chat.Value; chat != nil {
		lines = append(lines, fmt.Sprintf("Chat: assistant=%s history=%d window=%d rows=%d",
			chat.AssistantName, chat.MaxTurns, chat.ContextWindow, chat.DetailRows))
	}
	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
