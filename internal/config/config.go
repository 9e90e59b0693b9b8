// Package config provides unified configuration loading for the support bot.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the support bot.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Cache         CacheConfig         `yaml:"cache"`
	Classifier    ClassifierConfig    `yaml:"classifier"`
	Languages     LanguageConfig      `yaml:"languages"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	LLM           LLMConfig           `yaml:"llm"`
	Dispatcher    DispatcherConfig    `yaml:"dispatcher"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Driver string      `yaml:"driver"` // memory or redis
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// ClassifierConfig holds rule-based classifier settings.
type ClassifierConfig struct {
	// TieBreakConfidence is the confidence reported when pattern scores tie
	// and the classifier defaults to app_related.
	TieBreakConfidence float64 `yaml:"tie_break_confidence"`
}

// LanguageConfig holds language detection policy settings.
type LanguageConfig struct {
	// FillerWords short-circuit detection: a query of at most two words
	// containing one of these is treated as Vietnamese.
	FillerWords []string `yaml:"filler_words"`
}

// RetrievalConfig holds the external semantic-search collaborator settings.
type RetrievalConfig struct {
	Endpoint string        `yaml:"endpoint"`
	TopK     int           `yaml:"top_k"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LLMConfig holds language-model client settings.
type LLMConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// DispatcherConfig holds query dispatch policy settings.
type DispatcherConfig struct {
	// CacheFailures controls whether the generic error reply produced at the
	// dispatcher boundary is stored in the response cache. The historical
	// behavior is true; disabling it lets transient upstream failures be
	// retried instead of replayed from cache.
	CacheFailures bool `yaml:"cache_failures"`
	// Hotline is the support phone number surfaced in fallback replies.
	Hotline string `yaml:"hotline"`
	// UpgradingServices lists service categories that are not priced yet and
	// get a canned upgrade-in-progress reply instead of retrieval.
	UpgradingServices []string `yaml:"upgrading_services"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8000,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Cache: CacheConfig{
			Driver: "memory",
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
				Prefix:   "supportbot:",
			},
		},
		Classifier: ClassifierConfig{
			TieBreakConfidence: 0.6,
		},
		Languages: LanguageConfig{
			FillerWords: []string{"hello", "hi", "ok", "thanks", "sorry"},
		},
		Retrieval: RetrievalConfig{
			Endpoint: "http://localhost:8085/api/v1/retrieval/query",
			TopK:     3,
			Timeout:  15 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:    "https://openrouter.ai/api/v1",
			Model:      "meta-llama/llama-3-8b-instruct",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Dispatcher: DispatcherConfig{
			CacheFailures: true,
			Hotline:       "0347596789",
			UpgradingServices: []string{
				"sửa tivi", "sửa ô tô", "thợ điện", "thợ ống nước",
				"vận chuyển", "thợ may", "làm đẹp", "chăm sóc", "làm vườn",
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "supportbot",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Classifier.TieBreakConfidence < 0 || c.Classifier.TieBreakConfidence > 1 {
		return fmt.Errorf("tie_break_confidence must be in [0, 1]")
	}

	if c.Retrieval.TopK < 1 || c.Retrieval.TopK > 50 {
		return fmt.Errorf("retrieval top_k must be between 1 and 50")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("RETRIEVAL_ENDPOINT"); v != "" {
		cfg.Retrieval.Endpoint = v
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
