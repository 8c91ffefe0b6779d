package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port             int
	DevMode          bool
	LogLevel         string
	FetchMaxRetries  int
	LookbackPeriod   string
	CacheTTLMinutes  int
	Thresholds       string // "modern" (75/50/25) or "legacy" (80/50/20)
	SentimentEnabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvAsInt("GO_PORT", 8001),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		FetchMaxRetries:  getEnvAsInt("FETCH_MAX_RETRIES", 5),
		LookbackPeriod:   getEnv("LOOKBACK_PERIOD", "5y"),
		CacheTTLMinutes:  getEnvAsInt("CACHE_TTL_MINUTES", 0), // 0 = never evict
		Thresholds:       getEnv("RECOMMENDATION_THRESHOLDS", "modern"),
		SentimentEnabled: getEnvAsBool("SENTIMENT_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.FetchMaxRetries < 1 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be at least 1, got %d", c.FetchMaxRetries)
	}

	// Both threshold sets are kept on purpose: older evaluations used
	// 80/50/20 and the two produce different labels for the same score.
	if c.Thresholds != "modern" && c.Thresholds != "legacy" {
		return fmt.Errorf("RECOMMENDATION_THRESHOLDS must be 'modern' or 'legacy', got %q", c.Thresholds)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
