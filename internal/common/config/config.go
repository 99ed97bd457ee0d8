// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	GenAI    GenAIConfig    `mapstructure:"genai"`
	Search   SearchConfig   `mapstructure:"search"`
	Company  CompanyConfig  `mapstructure:"company"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RequestTimeout int      `mapstructure:"request_timeout"` // milliseconds
}

// RequestTimeoutDuration returns the per-request write deadline.
func (s ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Millisecond
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GenAIConfig holds settings for the completion service. The pipeline talks
// to an OpenAI-compatible chat completions endpoint.
type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	Temperature float64 `mapstructure:"temperature"`
}

// TimeoutDuration returns the per-call completion timeout.
func (g GenAIConfig) TimeoutDuration() time.Duration {
	return time.Duration(g.Timeout) * time.Millisecond
}

// SearchConfig holds the result caps and store selection for the pipeline.
type SearchConfig struct {
	Store          string `mapstructure:"store"`       // "postgres" or "elasticsearch"
	FetchLimit     int    `mapstructure:"fetch_limit"` // max rows pulled from the store
	ShowLimit      int    `mapstructure:"show_limit"`  // max listings surfaced to the caller
	DetailLimit    int    `mapstructure:"detail_limit"`
	ConfidenceMin  float64 `mapstructure:"confidence_min"` // property_search routing threshold
	FilterCacheTTL int    `mapstructure:"filter_cache_ttl"` // seconds, /api/chat/filters cache
}

// CompanyConfig holds the contact constants used by the company_info branch.
type CompanyConfig struct {
	Name   string `mapstructure:"name"`
	Office string `mapstructure:"office"`
	Phone  string `mapstructure:"phone"`
	Email  string `mapstructure:"email"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
