// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/folio/internal/models"
)

// Storage backends.
const (
	BackendSQLite    = "sqlite"
	BackendSurrealDB = "surrealdb"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string            `toml:"environment"`
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Auth        AuthConfig        `toml:"auth"`
	Logging     LoggingConfig     `toml:"logging"`
	Market      MarketConfig      `toml:"market"`
	News        []models.NewsItem `toml:"news"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// TrustProxyHeaders keys per-client limits on X-Forwarded-For. Enable only
	// behind a proxy that overwrites the header.
	TrustProxyHeaders bool `toml:"trust_proxy_headers"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Backend   string `toml:"backend"` // "sqlite" (default) or "surrealdb"
	Path      string `toml:"path"`    // sqlite database file
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// AuthConfig holds authentication configuration for JWT sign-in.
type AuthConfig struct {
	JWTSecret          string `toml:"jwt_secret"`
	TokenExpiry        string `toml:"token_expiry"` // duration string, default "24h"
	LoginRatePerMinute int    `toml:"login_rate_per_minute"`
	Breakglass         bool   `toml:"breakglass"` // create an emergency admin account at startup
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`  // "console" or "json"
	Outputs  []string `toml:"outputs"` // "console", "file"
	FilePath string   `toml:"file_path"`
}

// MarketConfig holds the static reference data used for pricing and sector lookup.
type MarketConfig struct {
	Currency string            `toml:"currency"`
	Quotes   []models.Quote    `toml:"quotes"`
	Sectors  map[string]string `toml:"sectors"`
}

// DefaultQuotes is the built-in price table.
func DefaultQuotes() []models.Quote {
	return []models.Quote{
		{Symbol: "AAPL", Price: 175.43, Change: 2.31, ChangePercent: 1.32},
		{Symbol: "GOOGL", Price: 142.89, Change: -0.54, ChangePercent: -0.38},
		{Symbol: "MSFT", Price: 378.85, Change: 4.23, ChangePercent: 1.12},
	}
}

// DefaultSectors is the built-in symbol to sector table.
func DefaultSectors() map[string]string {
	return map[string]string{
		"AAPL":  "Technology",
		"GOOGL": "Technology",
		"MSFT":  "Technology",
		"JPM":   "Financial",
		"BAC":   "Financial",
		"XOM":   "Energy",
		"CVX":   "Energy",
		"JNJ":   "Healthcare",
		"PFE":   "Healthcare",
		"PG":    "Consumer Staples",
		"KO":    "Consumer Staples",
		"AMZN":  "Consumer Discretionary",
		"TSLA":  "Consumer Discretionary",
	}
}

// DefaultNews is the built-in news feed.
func DefaultNews() []models.NewsItem {
	return []models.NewsItem{
		{
			Title:       "Apple Announces New iPhone Release Date",
			URL:         "https://example.com/news/1",
			Source:      "Tech News Daily",
			PublishedAt: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			Symbols:     []string{"AAPL"},
		},
		{
			Title:       "Google Cloud Reports Strong Q4 Growth",
			URL:         "https://example.com/news/2",
			Source:      "Business Insider",
			PublishedAt: time.Date(2024, 3, 14, 15, 45, 0, 0, time.UTC),
			Symbols:     []string{"GOOGL"},
		},
	}
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			Path:      "data/folio.db",
			Address:   "ws://localhost:8000/rpc",
			Namespace: "folio",
			Database:  "folio",
			Username:  "root",
			Password:  "root",
		},
		Auth: AuthConfig{
			JWTSecret:          "dev-jwt-secret-change-in-production",
			TokenExpiry:        "24h",
			LoginRatePerMinute: 10,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/folio.log",
		},
		Market: MarketConfig{
			Currency: "USD",
			Quotes:   DefaultQuotes(),
			Sectors:  DefaultSectors(),
		},
		News: DefaultNews(),
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory is loaded first when present.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if v := os.Getenv("FOLIO_TRUST_PROXY_HEADERS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Server.TrustProxyHeaders = b
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Storage overrides
	if v := os.Getenv("FOLIO_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("FOLIO_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("FOLIO_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("FOLIO_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("FOLIO_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	// Auth overrides
	if v := os.Getenv("FOLIO_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOLIO_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("FOLIO_AUTH_BREAKGLASS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Auth.Breakglass = b
		}
	}

	if v := os.Getenv("FOLIO_CURRENCY"); v != "" {
		config.Market.Currency = strings.ToUpper(v)
	}
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendSurrealDB:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.IsProduction() && c.Auth.JWTSecret == NewDefaultConfig().Auth.JWTSecret {
		return fmt.Errorf("auth.jwt_secret must be set in production")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
