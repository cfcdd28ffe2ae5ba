package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog source kinds.
const (
	SourcePostgres = "postgres"
	SourceFeed     = "feed"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB      DatabaseConfig
	Redis   RedisConfig
	Catalog CatalogConfig
	Pricing PricingConfig
	Cart    CartConfig
	Worker  WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CatalogConfig selects the product source and default view sizing.
type CatalogConfig struct {
	Source      string // postgres or feed
	FeedURL     string
	FeedAPIKey  string
	PageSize    int
	MaxPageSize int
}

// PricingConfig holds the fixed EcoToken conversion and final-total policy.
type PricingConfig struct {
	TokenToFiatRate float64
	FloorFinalTotal bool
}

// CartConfig controls session cart persistence.
type CartConfig struct {
	TTL time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CatalogRefreshInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Catalog
	cfg.Catalog = CatalogConfig{
		Source:      strings.ToLower(getEnv("CATALOG_SOURCE", SourcePostgres)),
		FeedURL:     getEnv("CATALOG_FEED_URL", ""),
		FeedAPIKey:  getEnv("CATALOG_FEED_API_KEY", ""),
		PageSize:    getEnvInt("CATALOG_PAGE_SIZE", 12),
		MaxPageSize: getEnvInt("CATALOG_MAX_PAGE_SIZE", 100),
	}

	// Pricing
	var err error
	if cfg.Pricing.TokenToFiatRate, err = getEnvFloat("TOKEN_TO_FIAT_RATE", 5); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TO_FIAT_RATE: %w", err)
	}
	if cfg.Pricing.FloorFinalTotal, err = getEnvBool("FLOOR_FINAL_TOTAL", false); err != nil {
		return nil, fmt.Errorf("invalid FLOOR_FINAL_TOTAL: %w", err)
	}

	// Durations
	if cfg.Cart.TTL, err = parseDurationEnv("CART_TTL", "72h"); err != nil {
		return nil, fmt.Errorf("invalid CART_TTL: %w", err)
	}
	if cfg.Worker.CatalogRefreshInterval, err = parseDurationEnv("CATALOG_REFRESH_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_REFRESH_INTERVAL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
		return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set for authentication")
	}
	switch c.Catalog.Source {
	case SourcePostgres:
	case SourceFeed:
		if c.Catalog.FeedURL == "" {
			return errors.New("CATALOG_FEED_URL must be set when CATALOG_SOURCE=feed")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q (want postgres or feed)", c.Catalog.Source)
	}
	if c.Catalog.PageSize <= 0 {
		return errors.New("CATALOG_PAGE_SIZE must be > 0")
	}
	if c.Catalog.MaxPageSize < c.Catalog.PageSize {
		return errors.New("CATALOG_MAX_PAGE_SIZE must be >= CATALOG_PAGE_SIZE")
	}
	if c.Pricing.TokenToFiatRate <= 0 {
		return errors.New("TOKEN_TO_FIAT_RATE must be > 0")
	}
	if c.Worker.CatalogRefreshInterval == 0 {
		return errors.New("CATALOG_REFRESH_INTERVAL must be > 0")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
