package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"commerce-etl-lab/internal/cleaning"
	"commerce-etl-lab/internal/observability"
	"commerce-etl-lab/internal/pipeline"
)

// runCmd executes one transform-and-load pass over a staged CSV export.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ETL pipeline once",
	Long: `Read a line-item CSV export, deduplicate, validate, clean and
aggregate it, then write the processed orders CSV and quality report.

Example:
  etl run --items data/staging/order_items.csv --output data/processed
  etl run --items items.csv --headers orders.csv --impute median`,
	RunE: runPipeline,
}

var (
	runItemsPath   string
	runHeadersPath string
	runDataset     string
	runOutputDir   string
	runImpute      string
	runDedupKeys   []string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runItemsPath, "items", "", "line-item CSV path (overrides ETL_ITEMS_PATH)")
	runCmd.Flags().StringVar(&runHeadersPath, "headers", "", "optional order-header CSV path")
	runCmd.Flags().StringVar(&runDataset, "dataset", "", "dataset name used in the quality report")
	runCmd.Flags().StringVar(&runOutputDir, "output", "", "output directory (overrides ETL_OUTPUT_DIR)")
	runCmd.Flags().StringVar(&runImpute, "impute", "", "imputation strategy (mean|median|mode)")
	runCmd.Flags().StringSliceVar(&runDedupKeys, "dedup-keys", nil, "comma-separated duplicate key fields")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)

	if runItemsPath != "" {
		cfg.ItemsPath = runItemsPath
	}
	if runHeadersPath != "" {
		cfg.OrdersPath = runHeadersPath
	}
	if runDataset != "" {
		cfg.DatasetName = runDataset
	}
	if runOutputDir != "" {
		cfg.OutputDir = runOutputDir
	}
	if runImpute != "" {
		cfg.ImputationStrategy = runImpute
	}
	if len(runDedupKeys) > 0 {
		cfg.DedupKeyFields = runDedupKeys
	}

	strategy := cleaning.ParseStrategy(cfg.ImputationStrategy)

	p := pipeline.New(cfg.DatasetName, cfg.ItemsPath, cfg.OutputDir).
		WithImputation(strategy).
		WithLogger(log)
	if cfg.OrdersPath != "" {
		p = p.WithOrderHeaders(cfg.OrdersPath)
	}
	if len(cfg.DedupKeyFields) > 0 {
		p = p.WithDedupKeys(cfg.DedupKeyFields)
	}

	start := time.Now()
	result, err := p.Run(cmd.Context())
	if err != nil {
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
		return fmt.Errorf("pipeline run: %w", err)
	}
	observability.RecordPipelineRun("ok", time.Since(start).Seconds())

	report := result.Report
	observability.RecordQualityScores(
		report.CompletenessScore,
		report.AccuracyScore,
		report.ConsistencyScore,
		report.ValidityScore,
		report.OverallQualityScore,
	)
	observability.DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()

	fmt.Printf("Processed %d records (%d valid, %d invalid, %d duplicates, %d dropped)\n",
		report.TotalRecords, report.ValidRecords, report.InvalidRecords,
		report.DuplicateRecords, report.DroppedRecords)
	fmt.Printf("Overall quality score: %.1f\n", report.OverallQualityScore)
	fmt.Printf("Orders:  %s\n", result.OrdersCSVPath)
	fmt.Printf("Report:  %s\n", result.ReportPath)

	return nil
}
