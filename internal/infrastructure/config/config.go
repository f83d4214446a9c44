package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Data      DataConfig
	Annotator AnnotatorConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string   `envconfig:"PORT" default:"8000"`
	Host        string   `envconfig:"HOST" default:"0.0.0.0"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// EngineConfig holds composition engine limits.
type EngineConfig struct {
	MaxExpansions  int           `envconfig:"ENGINE_MAX_EXPANSIONS" default:"500000"`
	MaxGreedySteps int           `envconfig:"ENGINE_MAX_GREEDY_STEPS" default:"50"`
	Timeout        time.Duration `envconfig:"ENGINE_TIMEOUT" default:"60s"`
	TraceExplores  int           `envconfig:"ENGINE_TRACE_EXPLORES" default:"50"`
	TraceExpands   int           `envconfig:"ENGINE_TRACE_EXPANDS" default:"30"`
}

// DataConfig holds dataset directory configuration.
type DataConfig struct {
	Root     string `envconfig:"DATA_ROOT" default:""`
	AutoLoad bool   `envconfig:"DATA_AUTOLOAD" default:"true"`
}

// AnnotatorConfig holds collaborator annotation service configuration.
type AnnotatorConfig struct {
	Address  string        `envconfig:"ANNOTATOR_ADDR" default:""`
	Timeout  time.Duration `envconfig:"ANNOTATOR_TIMEOUT" default:"30s"`
	RetryMax int           `envconfig:"ANNOTATOR_RETRY_MAX" default:"3"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Engine: EngineConfig{
			MaxExpansions:  500000,
			MaxGreedySteps: 50,
			Timeout:        60 * time.Second,
			TraceExplores:  50,
			TraceExpands:   30,
		},
		Data: DataConfig{
			Root:     "",
			AutoLoad: true,
		},
		Annotator: AnnotatorConfig{
			Address:  "",
			Timeout:  30 * time.Second,
			RetryMax: 3,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
