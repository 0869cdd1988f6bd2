package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string
	APIKey      string

	InventoryDBURL        string
	InventoryDBServiceKey string
	InventoryHTTPTimeout  time.Duration

	FeedURL          string
	FeedSyncInterval time.Duration

	PostgresDSN string

	SiteBaseURL          string
	DefaultMonthlyBudget float64
	DefaultCPC           float64
	DefaultConversion    float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		APIKey:      getEnv("ADMIN_API_KEY", ""),

		InventoryDBURL:        getEnv("INVENTORY_DB_URL", ""),
		InventoryDBServiceKey: getEnv("INVENTORY_DB_SERVICE_KEY", ""),
		InventoryHTTPTimeout:  getEnvSeconds("INVENTORY_HTTP_TIMEOUT_SECONDS", 10),

		FeedURL:          getEnv("FEED_URL", ""),
		FeedSyncInterval: getEnvSeconds("FEED_SYNC_INTERVAL_SECONDS", 6*60*60),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		SiteBaseURL:          getEnv("SITE_BASE_URL", "https://www.carzo.com"),
		DefaultMonthlyBudget: getEnvFloat("DEFAULT_MONTHLY_BUDGET", 7500),
		DefaultCPC:           getEnvFloat("DEFAULT_CPC", 0.50),
		DefaultConversion:    getEnvFloat("DEFAULT_CONVERSION_RATE", 0.35),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
