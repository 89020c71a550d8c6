package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/constants"
)

type Config struct {
	// DexScreener settings
	DexScreenerBaseURL string
	UserAgent          string
	TrendingLimit      int

	// HTTP client settings
	HTTPTimeout time.Duration

	// Logging
	LogLevel string

	// API settings
	APIAddr      string
	APIKey       string
	DevMode      bool
	APIRateLimit float64 // trending requests per second per client
	APIRateBurst int

	// Redis settings (empty addr disables cache and pub/sub)
	RedisAddr string
	CacheTTL  time.Duration

	// ClickHouse settings (empty addr disables snapshot history)
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string
}

func Load() *Config {
	return &Config{
		// DexScreener
		DexScreenerBaseURL: getEnv("DEXSCREENER_BASE_URL", constants.DexScreenerBaseURL),
		UserAgent:          getEnv("USER_AGENT", constants.DefaultUserAgent),
		TrendingLimit:      getIntEnv("TRENDING_LIMIT", constants.DefaultTrendingLimit),

		// HTTP
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", constants.DefaultHTTPTimeout),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		// API
		APIAddr:      getEnv("API_ADDR", ":8090"),
		APIKey:       getEnv("API_KEY", ""),
		DevMode:      getBoolEnv("DEV_MODE", false),
		APIRateLimit: getFloatEnv("API_RATE_LIMIT", constants.DefaultAPIRateLimit),
		APIRateBurst: getIntEnv("API_RATE_BURST", constants.DefaultAPIRateBurst),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getDurationEnv("CACHE_TTL", constants.DefaultCacheTTL),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "dexscreener"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
	}
}

// Validate checks the values that would otherwise fail later in a less obvious place.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DexScreenerBaseURL) == "" {
		return fmt.Errorf("DEXSCREENER_BASE_URL must not be empty")
	}
	if c.TrendingLimit < 1 || c.TrendingLimit > constants.MaxTrendingLimit {
		return fmt.Errorf("TRENDING_LIMIT must be between 1 and %d, got %d", constants.MaxTrendingLimit, c.TrendingLimit)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	return nil
}

// ValidateAPI checks the settings only the API process reads.
func (c *Config) ValidateAPI() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive, got %g", c.APIRateLimit)
	}
	if c.APIRateBurst < 1 {
		return fmt.Errorf("API_RATE_BURST must be at least 1, got %d", c.APIRateBurst)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
