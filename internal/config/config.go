// Package config loads showsort's YAML configuration, following the same
// ConfigPath/Load/DefaultConfig shape as the teacher's internal/config
// package but reading YAML instead of JSON (spec.md §6 Configuration keys).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sorttv/showsort/internal/category"
)

// LLMConfig configures the name extractor's model access (spec.md §6).
type LLMConfig struct {
	APIKey    string  `yaml:"api_key"`
	BaseURL   string  `yaml:"base_url"`
	Model     string  `yaml:"model"`
	BatchSize int     `yaml:"batch_size"`
	RateLimit float64 `yaml:"rate_limit"`
}

// TMDBConfig configures the catalog resolver. Languages is ordered; the
// first entry is the default search language.
type TMDBConfig struct {
	APIKey    string   `yaml:"api_key"`
	Languages []string `yaml:"languages"`
	RateLimit float64  `yaml:"rate_limit"`
}

// ProxyConfig holds the optional proxy host and port from the config file.
// It is parsed but not passed to the catalog or LLM clients.
type ProxyConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TVDBConfig configures the secondary TVDB resolver consulted when TMDB
// confidence stays low. An empty APIKey disables TVDB entirely.
type TVDBConfig struct {
	APIKey string `yaml:"api_key"`
}

// OMDbConfig configures the IMDb-rating enrichment step layered onto a
// resolved show. An empty APIKey disables OMDb entirely.
type OMDbConfig struct {
	APIKey string `yaml:"api_key"`
}

// Config is the top-level configuration document (spec.md §6).
type Config struct {
	LLM      LLMConfig       `yaml:"llm"`
	TMDB     TMDBConfig      `yaml:"tmdb"`
	TVDB     TVDBConfig      `yaml:"tvdb"`
	OMDb     OMDbConfig      `yaml:"omdb"`
	Proxy    *ProxyConfig    `yaml:"proxy,omitempty"`
	Category []category.Rule `yaml:"category"`
	Redis    RedisConfig     `yaml:"redis"`
}

// RedisConfig configures the job store backend. Addr empty means "use the
// in-process Memory cache instead of Redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DefaultConfig returns sane defaults matching the teacher's DefaultConfig
// shape, adapted to showsort's domain.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BatchSize: 20,
			RateLimit: 2,
		},
		TMDB: TMDBConfig{
			Languages: []string{"en-US"},
			RateLimit: 4,
		},
	}
}

// ConfigPath returns the default path to showsort's config file.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".showsort", "config.yaml"), nil
}

// Load reads configuration from path, falling back to DefaultConfig if the
// file does not exist. Missing scalar fields are filled from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.LLM.BatchSize == 0 {
		cfg.LLM.BatchSize = defaults.LLM.BatchSize
	}
	if cfg.LLM.RateLimit == 0 {
		cfg.LLM.RateLimit = defaults.LLM.RateLimit
	}
	if len(cfg.TMDB.Languages) == 0 {
		cfg.TMDB.Languages = defaults.TMDB.Languages
	}
	if cfg.TMDB.RateLimit == 0 {
		cfg.TMDB.RateLimit = defaults.TMDB.RateLimit
	}

	return &cfg, nil
}
