package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	chatpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/chat"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/confkit"
	llmpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/llm"
	marketpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/market"
)

type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod
	// Defaults to test. In test mode the LLM model is pinned to a low-cost one.
	Env string `json:",default=test"`

	LLM    confkit.Section[llmpkg.Config]    `json:",optional"`
	Market confkit.Section[marketpkg.Config] `json:",optional"`
	Chat   confkit.Section[chatpkg.Config]   `json:",optional"`

	mainPath string
	baseDir  string
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "":
		c.Env = "test"
	case "test", "dev", "prod":
		c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if strings.TrimSpace(c.LLM.File) == "" && c.LLM.Value == nil {
		return errors.New("config: LLM.File is required")
	}
	if strings.TrimSpace(c.Market.File) == "" && c.Market.Value == nil {
		return errors.New("config: Market.File is required")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	base := c.baseDir

	if err := c.LLM.Hydrate(base, llmpkg.LoadConfig); err != nil {
		return fmt.Errorf("load llm config: %w", err)
	}
	if err := c.Market.Hydrate(base, marketpkg.LoadConfig); err != nil {
		return fmt.Errorf("load market config: %w", err)
	}
	if err := c.Chat.Hydrate(base, chatpkg.LoadConfig); err != nil {
		return fmt.Errorf("load chat config: %w", err)
	}
	if c.Chat.Value == nil {
		c.Chat.Value = chatpkg.DefaultConfig()
	}
	return nil
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
