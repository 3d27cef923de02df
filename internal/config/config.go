package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service. It is loaded once
// at process start and treated as immutable afterwards.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Gemini      GeminiConfig              `json:"gemini"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Interview   InterviewConfig           `json:"interview"`
}

type BasicConfig struct {
	ServerAddress   string `json:"server_address"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// GeminiConfig configures the primary question/report generator backend.
// An empty APIKey disables the AI path entirely; all components fall back to
// their deterministic strategies.
type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// ProviderConfig configures an alternative chat-model provider (openai,
// claude) used when gemini is not the configured backend.
type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type InterviewConfig struct {
	// DefaultMaxQuestions bounds the planned question count when a start
	// request does not supply one.
	DefaultMaxQuestions int `json:"default_max_questions"`
	// GeneratorTimeoutSeconds bounds a single call to the AI backend.
	GeneratorTimeoutSeconds int `json:"generator_timeout_seconds"`
}

const (
	DefaultMaxQuestions     = 8
	DefaultGeneratorTimeout = 30
)

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if len(cfg.Databases) == 0 {
		return nil, fmt.Errorf("at least one database must be configured")
	}
	if cfg.Interview.DefaultMaxQuestions <= 0 {
		cfg.Interview.DefaultMaxQuestions = DefaultMaxQuestions
	}
	if cfg.Interview.GeneratorTimeoutSeconds <= 0 {
		cfg.Interview.GeneratorTimeoutSeconds = DefaultGeneratorTimeout
	}

	return &cfg, nil
}
