// Package config loads server configuration from environment variables and
// provides the concurrency tuning defaults for high load.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server binary needs to wire itself up.
type Config struct {
	ListenAddr string `env:"PULSO_ADDR" envDefault:":8080"`
	DBPath     string `env:"PULSO_DB_PATH" envDefault:"pulso.db"`

	// Session store. Sessions expire after the TTL unless touched.
	// RedisAddr empty = in-memory store (development, tests).
	SessionTTL time.Duration `env:"PULSO_SESSION_TTL" envDefault:"2h"`
	RedisAddr  string        `env:"PULSO_REDIS_ADDR"`

	// Engine defaults for new sessions.
	DefaultMaxTurns int `env:"PULSO_MAX_TURNS" envDefault:"30"`

	// Narrator. Provider empty = flavor text disabled.
	LLMProvider  string  `env:"PULSO_LLM_PROVIDER"` // "openai" or "anthropic"
	OpenAIKey    string  `env:"OPENAI_API_KEY"`
	AnthropicKey string  `env:"ANTHROPIC_API_KEY"`
	LLMBudgetUSD float64 `env:"PULSO_LLM_BUDGET_USD" envDefault:"10"`

	// Tuning. Zero values are replaced by CPU-derived defaults in Load.
	ClientSendBuffer int `env:"PULSO_WS_SEND_BUFFER" envDefault:"64"`
	BroadcastBuffer  int `env:"PULSO_BROADCAST_BUFFER" envDefault:"256"`
	DBMaxOpenConns   int `env:"PULSO_DB_MAX_OPEN"`
	DBMaxIdleConns   int `env:"PULSO_DB_MAX_IDLE"`
}

// Load parses the environment and fills CPU-derived defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	numCPU := runtime.NumCPU()
	if cfg.DBMaxOpenConns <= 0 {
		cfg.DBMaxOpenConns = numCPU * 4
	}
	if cfg.DBMaxIdleConns <= 0 {
		cfg.DBMaxIdleConns = numCPU * 2
	}
	return cfg, nil
}

// NarratorEnabled reports whether a narrator provider is configured.
func (c *Config) NarratorEnabled() bool {
	return c.LLMProvider != ""
}
