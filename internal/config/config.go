// Package config holds the explicit configuration object passed into the
// pipeline driver and supporting services. The environment is read here
// and nowhere else; nothing reads env vars mid-pipeline.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries all process configuration.
type Config struct {
	DatasetName string

	// Sources
	ItemsPath  string // line-item CSV
	OrdersPath string // optional order-header CSV
	APIBaseURL string // optional HTTP source

	OutputDir string

	// Cleaning
	ImputationStrategy string // "", "mean", "median", "mode"
	DedupKeyFields     []string

	// Warehouse
	PostgresDSN   string
	ClickhouseDSN string

	// Query service
	HTTPAddr string

	// Logging
	LogLevel  string
	LogFormat string // "json" or "console"
}

// Load reads configuration from the environment, after loading a .env
// file when present. Only this function calls os.Getenv.
func Load() *Config {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	return &Config{
		DatasetName:        getEnv("ETL_DATASET_NAME", "orders"),
		ItemsPath:          getEnv("ETL_ITEMS_PATH", "data/staging/order_items.csv"),
		OrdersPath:         getEnv("ETL_ORDERS_PATH", ""),
		APIBaseURL:         getEnv("ETL_API_BASE_URL", ""),
		OutputDir:          getEnv("ETL_OUTPUT_DIR", "data/processed"),
		ImputationStrategy: getEnv("ETL_IMPUTATION", ""),
		DedupKeyFields:     splitList(getEnv("ETL_DEDUP_KEYS", "")),
		PostgresDSN:        getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN:      getEnv("CLICKHOUSE_DSN", ""),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
