package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"commerce-etl-lab/internal/config"
	"commerce-etl-lab/internal/logging"
)

var (
	// Global flags
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "etl",
	Short: "Commerce analytics ETL pipeline",
	Long: `Transform raw e-commerce order exports into clean, deduplicated,
quality-scored analytics outputs.

Examples:
  etl run --items data/staging/order_items.csv --output data/processed
  etl run --items items.csv --headers orders.csv --impute median
  etl load --postgres-dsn postgres://localhost:5432/analytics
  etl serve --addr :8080
  etl schedule --cron "0 2 * * *"`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json|console)")
}

// loadConfig reads the environment configuration and applies global flag
// overrides.
func loadConfig() *config.Config {
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return cfg
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat)
}
