// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Seed     SeedConfig     `yaml:"seed"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DataConfig holds the JSON store locations.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// RedisConfig holds the optional conversation-store backend. When
// disabled, conversations live in process memory.
type RedisConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
}

// PostgresConfig holds the optional CRM identity source. When disabled,
// identities come from a JSON file or are fabricated.
type PostgresConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DSN           string `yaml:"dsn"`
	IdentityTable string `yaml:"identity_table"`
}

// ScoringConfig tunes preferred-channel selection.
type ScoringConfig struct {
	HighEngagementThreshold float64 `yaml:"high_engagement_threshold"`
	MinChannelScore         float64 `yaml:"min_channel_score"`
}

// SeedConfig controls synthetic data generation.
type SeedConfig struct {
	Individuals    int    `yaml:"individuals"`
	MinInsights    int    `yaml:"min_insights"`
	MaxInsights    int    `yaml:"max_insights"`
	Seed           int64  `yaml:"seed"`
	IdentitiesFile string `yaml:"identities_file"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// RedactPIIEnabled reports the redaction setting; unset means enabled.
func (l LoggingConfig) RedactPIIEnabled() bool {
	return l.RedactPII == nil || *l.RedactPII
}

// Load reads and parses the configuration file. An empty path yields
// pure defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Defaults.
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.SessionTTLHours == 0 {
		cfg.Redis.SessionTTLHours = 24
	}
	if cfg.Postgres.IdentityTable == "" {
		cfg.Postgres.IdentityTable = "individuals"
	}
	if cfg.Scoring.HighEngagementThreshold == 0 {
		cfg.Scoring.HighEngagementThreshold = 6.0
	}
	if cfg.Scoring.MinChannelScore == 0 {
		cfg.Scoring.MinChannelScore = 10.0
	}
	if cfg.Seed.Individuals == 0 {
		cfg.Seed.Individuals = 100
	}
	if cfg.Seed.MinInsights == 0 {
		cfg.Seed.MinInsights = 3
	}
	if cfg.Seed.MaxInsights == 0 {
		cfg.Seed.MaxInsights = 8
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file is loaded first when present, so secrets can live in .env
// locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
		cfg.Postgres.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
