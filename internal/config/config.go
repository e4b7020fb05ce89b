package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
	Mode string `toml:"mode"` // "dev" or "prod", controls logging
}

type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LayoutConfig struct {
	Strategy   string  `toml:"strategy"` // "force" or "layered"
	Iterations int     `toml:"iterations"`
	RankSep    float64 `toml:"rank_sep"`
	NodeSep    float64 `toml:"node_sep"`
}

type RedisConfig struct {
	Addr       string `toml:"addr"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type NormalizeConfig struct {
	Aliases        map[string]string `toml:"aliases"`
	ExtraStopwords []string          `toml:"extra_stopwords"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Backend   BackendConfig   `toml:"backend"`
	Layout    LayoutConfig    `toml:"layout"`
	Redis     RedisConfig     `toml:"redis"`
	Memgraph  MemgraphConfig  `toml:"memgraph"`
	LLM       LLMConfig       `toml:"llm"`
	Normalize NormalizeConfig `toml:"normalize"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return &cfg, nil
}

// Default returns a usable config when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg
}

// Timeout returns the backend request timeout as a duration.
func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8090"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "dev"
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:8000"
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 8
	}
	if c.Layout.Strategy == "" {
		c.Layout.Strategy = "force"
	}
	if c.Layout.Iterations <= 0 {
		c.Layout.Iterations = 300
	}
	if c.Layout.RankSep <= 0 {
		c.Layout.RankSep = 0.5
	}
	if c.Layout.NodeSep <= 0 {
		c.Layout.NodeSep = 0.3
	}
	if c.Redis.TTLMinutes <= 0 {
		c.Redis.TTLMinutes = 30
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("STORY_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("STORY_BACKEND_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Backend.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("LAYOUT_STRATEGY"); v != "" {
		c.Layout.Strategy = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
}
