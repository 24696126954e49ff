package chat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadChatConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prompts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompts", "system.tmpl"), []byte("hi"), 0o600))
	path := filepath.Join(dir, "chat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assistant_name: Sam
max_turns: 10
context_window: 3
detail_rows: 5
data_type: stock_price
temperature: 0
request_timeout: 30s
prompt_template: prompts/system.tmpl
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "Sam", cfg.AssistantName)
	require.Equal(t, 10, cfg.MaxTurns)
	require.Equal(t, 3, cfg.ContextWindow)
	require.Equal(t, 5, cfg.DetailRows)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, filepath.Join(dir, "prompts", "system.tmpl"), cfg.PromptTemplate)
}

func TestChatConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader("{}"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().MaxTurns, cfg.MaxTurns)
	require.Equal(t, 10, cfg.MaxTurns)
	require.Equal(t, 3, cfg.ContextWindow)
	require.Equal(t, 5, cfg.DetailRows)
	require.Equal(t, "stock_price", cfg.DataType)
	require.Equal(t, 60*time.Second, cfg.RequestTimeout)
	require.Zero(t, cfg.Temperature)
	require.Empty(t, cfg.PromptTemplate)
}

func TestChatConfigErrors(t *testing.T) {
	cases := []struct{ body, want string }{
		{"request_timeout: soon", "invalid request_timeout"},
		{"request_timeout: -1s", "must be positive"},
		{"temperature: 3", "temperature"},
		{"max_turns: 2\ncontext_window: 3", "exceeds max_turns"},
		{"prompt_template: /nope/missing.tmpl", "not accessible"},
	}
	for _, tc := range cases {
		_, err := LoadConfigFromReader(strings.NewReader(tc.body))
		require.Error(t, err, tc.body)
		require.Contains(t, err.Error(), tc.want, tc.body)
	}
}
