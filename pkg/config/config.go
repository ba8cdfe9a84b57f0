package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported environments
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production, test

	// Database (optional, screening session history)
	Database DatabaseConfig

	// Redis (optional, shared rate limit + cache)
	Redis RedisConfig

	// Data sources
	Yahoo           YahooConfig
	FixturesEnabled bool
	CacheExpiry     time.Duration

	// Screening
	Screening ScreeningConfig

	// Watchlist job
	Watchlist WatchlistConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// YahooConfig holds the remote provider configuration
type YahooConfig struct {
	BaseURL    string
	RateLimit  int           // requests per RateWindow
	RateWindow time.Duration
	Workers    int           // bounded pool for blocking calls
	Timeout    time.Duration // per call
}

// ScreeningConfig holds screening limits
type ScreeningConfig struct {
	MaxSymbolsPerRequest int
	Workers              int
	Timeout              time.Duration
	PresetsPath          string
}

// WatchlistConfig holds the scheduled watchlist screening
type WatchlistConfig struct {
	Symbols      []string
	Preset       string
	Schedule     string
	WarmSchedule string // cache warm ahead of Schedule
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads envFile before reading the environment. An empty envFile
// searches the default .env locations.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		loadEnvFile()
	}

	env := getEnv("ENV", EnvDevelopment)

	cfg := &Config{
		Port: getEnv("PORT", "8000"),
		Env:  env,

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Yahoo: YahooConfig{
			BaseURL:    getEnv("YAHOO_BASE_URL", "https://finance.yahoo.com"),
			RateLimit:  getEnvAsInt("YAHOO_API_RATE_LIMIT", 5),
			RateWindow: getEnvAsDuration("YAHOO_API_RATE_WINDOW", "1s"),
			Workers:    getEnvAsInt("YAHOO_WORKERS", 4),
			Timeout:    getEnvAsDuration("YAHOO_TIMEOUT", "10s"),
		},
		// Sample data is authoritative everywhere except production
		FixturesEnabled: getEnvAsBool("FIXTURES_ENABLED", env != EnvProduction),
		CacheExpiry:     getEnvAsDuration("CACHE_EXPIRY", "60m"),

		Screening: ScreeningConfig{
			MaxSymbolsPerRequest: getEnvAsInt("MAX_STOCKS_PER_REQUEST", 10),
			Workers:              getEnvAsInt("SCREENING_WORKERS", 1),
			Timeout:              getEnvAsDuration("SCREENING_TIMEOUT", "30s"),
			PresetsPath:          getEnv("PRESETS_PATH", ""),
		},

		Watchlist: WatchlistConfig{
			Symbols:      getEnvAsList("WATCHLIST_SYMBOLS"),
			Preset:       getEnv("WATCHLIST_PRESET", ""),
			Schedule:     getEnv("WATCHLIST_SCHEDULE", "0 0 17 * * 1-5"),
			WarmSchedule: getEnv("WATCHLIST_WARM_SCHEDULE", "0 45 16 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// validate checks that configured values are usable
func (c *Config) validate() error {
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("ENV must be one of: development, staging, production, test")
	}

	if c.Screening.MaxSymbolsPerRequest <= 0 {
		return fmt.Errorf("MAX_STOCKS_PER_REQUEST must be positive")
	}
	if c.Screening.Workers <= 0 {
		return fmt.Errorf("SCREENING_WORKERS must be positive")
	}
	if c.Yahoo.RateLimit <= 0 {
		return fmt.Errorf("YAHOO_API_RATE_LIMIT must be positive")
	}
	if c.Yahoo.RateWindow <= 0 {
		return fmt.Errorf("YAHOO_API_RATE_WINDOW must be positive")
	}
	if c.Yahoo.Workers <= 0 {
		return fmt.Errorf("YAHOO_WORKERS must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
