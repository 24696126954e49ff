package chat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/session"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/confkit"
)

const (
	defaultContextWindow  = 3
	defaultDetailRows     = 5
	defaultDataType       = "stock_price"
	defaultRequestTimeout = 60 * time.Second
	defaultAssistantName  = "Sam"
)

// Config controls how chat turns are answered.
type Config struct {
	AssistantName  string        `yaml:"assistant_name"`
	Model          string        `yaml:"model"`
	Temperature    float64       `yaml:"temperature"`
	MaxTurns       int           `yaml:"max_turns"`
	ContextWindow  int           `yaml:"context_window"`
	DetailRows     int           `yaml:"detail_rows"`
	DataType       string        `yaml:"data_type"`
	PromptTemplate string        `yaml:"prompt_template"`
	RequestTimeout time.Duration `yaml:"-"`

	RequestTimeoutRaw string `yaml:"request_timeout"`
	baseDir           string
}

// LoadConfig reads configuration from disk. Relative template paths resolve
// against the directory of the file.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chat config: %w", err)
	}
	defer file.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve chat config path: %w", err)
	}
	return loadConfig(file, filepath.Dir(absPath))
}

// MustLoad reads chat configuration from the default project location and panics on error.
func MustLoad() *Config {
	cfg, err := LoadConfig(confkit.MustProjectPath("etc/chat.yaml"))
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config from a reader. Relative template
// paths resolve against the working directory.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	return loadConfig(r, "")
}

func loadConfig(r io.Reader, baseDir string) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read chat config: %w", err)
	}

	cfg := Config{baseDir: baseDir}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal chat config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	cfg.expandFields()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no chat file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.RequestTimeout = defaultRequestTimeout
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.AssistantName) == "" {
		c.AssistantName = defaultAssistantName
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = session.DefaultMaxTurns
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = defaultContextWindow
	}
	if c.DetailRows <= 0 {
		c.DetailRows = defaultDetailRows
	}
	if strings.TrimSpace(c.DataType) == "" {
		c.DataType = defaultDataType
	}
	if strings.TrimSpace(c.RequestTimeoutRaw) == "" {
		c.RequestTimeoutRaw = defaultRequestTimeout.String()
	}
}

func (c *Config) parseDurations() error {
	d, err := time.ParseDuration(strings.TrimSpace(c.RequestTimeoutRaw))
	if err != nil {
		return fmt.Errorf("chat config: invalid request_timeout %q: %w", c.RequestTimeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("chat config: request_timeout must be positive, got %s", d)
	}
	c.RequestTimeout = d
	return nil
}

func (c *Config) expandFields() {
	c.AssistantName = strings.TrimSpace(c.AssistantName)
	c.Model = strings.TrimSpace(os.ExpandEnv(c.Model))
	c.DataType = strings.TrimSpace(c.DataType)
	c.PromptTemplate = c.resolvePath(c.PromptTemplate)
}

func (c *Config) resolvePath(path string) string {
	path = strings.TrimSpace(os.ExpandEnv(path))
	if path == "" || filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

// Validate ensures configuration sanity.
func (c *Config) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("chat config: temperature must be between 0 and 2")
	}
	if c.ContextWindow > c.MaxTurns {
		return fmt.Errorf("chat config: context_window %d exceeds max_turns %d", c.ContextWindow, c.MaxTurns)
	}
	if c.PromptTemplate != "" {
		if _, err := os.Stat(c.PromptTemplate); err != nil {
			return fmt.Errorf("chat config: prompt_template %q not accessible: %w", c.PromptTemplate, err)
		}
	}
	return nil
}
