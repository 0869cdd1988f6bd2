package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	testCases := map[string]string{
		"PORT":                             "9090",
		"ENVIRONMENT":                      "test",
		"INVENTORY_DB_URL":                 "https://db.test.carzo.com",
		"INVENTORY_DB_SERVICE_KEY":         "service-key",
		"INVENTORY_HTTP_TIMEOUT_SECONDS":   "5",
		"FEED_URL":                         "https://feed.test.carzo.com/vehicles.json",
		"DEFAULT_MONTHLY_BUDGET":           "9000",
		"DEFAULT_CPC":                      "0.75",
	}

	for key, value := range testCases {
		os.Setenv(key, value)
	}
	defer func() {
		for key := range testCases {
			os.Unsetenv(key)
		}
	}()

	cfg := LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}
	if cfg.Environment != "test" {
		t.Errorf("Expected Environment to be 'test', got '%s'", cfg.Environment)
	}
	if cfg.InventoryDBURL != "https://db.test.carzo.com" {
		t.Errorf("Expected InventoryDBURL to be set, got '%s'", cfg.InventoryDBURL)
	}
	if cfg.InventoryHTTPTimeout != 5*time.Second {
		t.Errorf("Expected InventoryHTTPTimeout to be 5s, got %v", cfg.InventoryHTTPTimeout)
	}
	if cfg.DefaultMonthlyBudget != 9000 {
		t.Errorf("Expected DefaultMonthlyBudget to be 9000, got %v", cfg.DefaultMonthlyBudget)
	}
	if cfg.DefaultCPC != 0.75 {
		t.Errorf("Expected DefaultCPC to be 0.75, got %v", cfg.DefaultCPC)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	vars := []string{
		"PORT", "ENVIRONMENT", "INVENTORY_DB_URL", "INVENTORY_DB_SERVICE_KEY",
		"INVENTORY_HTTP_TIMEOUT_SECONDS", "FEED_URL", "FEED_SYNC_INTERVAL_SECONDS",
		"DEFAULT_MONTHLY_BUDGET", "DEFAULT_CPC", "DEFAULT_CONVERSION_RATE",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Expected default Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Expected default Environment to be 'development', got '%s'", cfg.Environment)
	}
	if cfg.DefaultMonthlyBudget != 7500 {
		t.Errorf("Expected default monthly budget to be 7500, got %v", cfg.DefaultMonthlyBudget)
	}
	if cfg.DefaultCPC != 0.50 {
		t.Errorf("Expected default CPC to be 0.50, got %v", cfg.DefaultCPC)
	}
	if cfg.DefaultConversion != 0.35 {
		t.Errorf("Expected default conversion rate to be 0.35, got %v", cfg.DefaultConversion)
	}
	if cfg.FeedSyncInterval != 6*time.Hour {
		t.Errorf("Expected default feed sync interval to be 6h, got %v", cfg.FeedSyncInterval)
	}
}
