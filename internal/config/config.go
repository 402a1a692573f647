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

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	CORSAllowedHosts []string

	DB        DatabaseConfig
	Redis     RedisConfig
	Rates     RatesConfig
	GoldAPI   GoldAPIConfig
	Providers ProvidersConfig
	FX        FXConfig
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
// Redis is optional: when Host is empty the rate cache stays in process memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// RatesConfig controls caching and fallback behaviour of live metal rates.
type RatesConfig struct {
	CacheTTL          time.Duration
	SourceTimeout     time.Duration
	SourceOrder       []string
	FallbackRatesFile string
	FallbackGold      float64 // INR per gram
	FallbackSilver    float64 // INR per gram
	DefaultGST        float64
}

// GoldAPIConfig contains credentials for the premium goldapi.io feed.
type GoldAPIConfig struct {
	BaseURL  string
	APIKey   string
	Currency string
}

// Enabled reports whether the premium feed is configured.
func (g GoldAPIConfig) Enabled() bool {
	return g.APIKey != ""
}

// ProvidersConfig holds base URLs for the free public rate feeds.
type ProvidersConfig struct {
	GoldPriceURL  string
	MetalsLiveURL string
	GoldSpotURL   string
}

// FXConfig contains the USD -> INR exchange rate lookup settings.
type FXConfig struct {
	BaseURL      string
	Quote        string
	FallbackRate float64
	TTL          time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000"))

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
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Premium feed (goldapi.io)
	cfg.GoldAPI = GoldAPIConfig{
		BaseURL:  getEnv("GOLDAPI_BASE_URL", "https://www.goldapi.io/api"),
		APIKey:   getEnv("GOLDAPI_KEY", ""),
		Currency: getEnv("GOLDAPI_CURRENCY", "INR"),
	}

	// Free feeds
	cfg.Providers = ProvidersConfig{
		GoldPriceURL:  getEnv("GOLDPRICE_URL", "https://data-asg.goldprice.org/dbXRates/USD"),
		MetalsLiveURL: getEnv("METALSLIVE_URL", "https://api.metals.live/v1/spot"),
		GoldSpotURL:   getEnv("GOLDSPOT_URL", "https://api.gold-api.com/price/XAU"),
	}

	var err error

	// FX
	cfg.FX = FXConfig{
		BaseURL: getEnv("FX_BASE_URL", "https://open.er-api.com/v6/latest/USD"),
		Quote:   getEnv("FX_QUOTE_CURRENCY", "INR"),
	}
	if cfg.FX.FallbackRate, err = getEnvFloat("FX_FALLBACK_USD_INR", 83.0); err != nil {
		return nil, fmt.Errorf("invalid FX_FALLBACK_USD_INR: %w", err)
	}
	if cfg.FX.TTL, err = parseDurationEnv("FX_TTL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid FX_TTL: %w", err)
	}

	// Rates
	cfg.Rates.FallbackRatesFile = getEnv("FALLBACK_RATES_FILE", "")
	cfg.Rates.SourceOrder = splitList(getEnv("RATE_SOURCE_ORDER", ""))
	if cfg.Rates.CacheTTL, err = parseDurationEnv("RATE_CACHE_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid RATE_CACHE_TTL: %w", err)
	}
	if cfg.Rates.SourceTimeout, err = parseDurationEnv("RATE_SOURCE_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid RATE_SOURCE_TIMEOUT: %w", err)
	}
	if cfg.Rates.FallbackGold, err = getEnvFloat("FALLBACK_GOLD_PER_GRAM", 0); err != nil {
		return nil, fmt.Errorf("invalid FALLBACK_GOLD_PER_GRAM: %w", err)
	}
	if cfg.Rates.FallbackSilver, err = getEnvFloat("FALLBACK_SILVER_PER_GRAM", 0); err != nil {
		return nil, fmt.Errorf("invalid FALLBACK_SILVER_PER_GRAM: %w", err)
	}
	if cfg.Rates.DefaultGST, err = getEnvFloat("DEFAULT_GST_PERCENT", 3); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_GST_PERCENT: %w", err)
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
	if c.Rates.CacheTTL == 0 {
		return errors.New("RATE_CACHE_TTL must be greater than zero")
	}
	if c.Rates.SourceTimeout == 0 {
		return errors.New("RATE_SOURCE_TIMEOUT must be greater than zero")
	}
	if c.FX.FallbackRate <= 0 {
		return errors.New("FX_FALLBACK_USD_INR must be greater than zero")
	}
	if c.Rates.DefaultGST < 0 || c.Rates.DefaultGST > 28 {
		return errors.New("DEFAULT_GST_PERCENT must be between 0 and 28")
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

// getEnvFloat parses a non-negative float environment variable. Unlike
// getEnvInt a malformed value is an error.
func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("value must be >= 0")
	}
	return f, nil
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

// splitList splits a comma separated list and drops empty entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
