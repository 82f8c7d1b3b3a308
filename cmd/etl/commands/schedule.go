package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"commerce-etl-lab/internal/cleaning"
	"commerce-etl-lab/internal/observability"
	"commerce-etl-lab/internal/pipeline"
)

// scheduleCmd runs the pipeline on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Run the ETL pipeline repeatedly on a standard 5-field cron
schedule. Overlapping runs are skipped: if a run is still in progress
when the next tick fires, the tick is dropped and logged.

Example:
  etl schedule --cron "0 2 * * *"`,
	RunE: runSchedule,
}

var scheduleSpec string

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "0 2 * * *", "cron schedule spec")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)
	ctx := cmd.Context()

	strategy := cleaning.ParseStrategy(cfg.ImputationStrategy)

	runOnce := func() {
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
		result, err := p.Run(ctx)
		if err != nil {
			observability.RecordPipelineRun("error", time.Since(start).Seconds())
			log.Error().Err(err).Msg("scheduled run failed")
			return
		}
		observability.RecordPipelineRun("ok", time.Since(start).Seconds())
		observability.DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()
		log.Info().
			Int("total", result.Report.TotalRecords).
			Float64("overall_score", result.Report.OverallQualityScore).
			Msg("scheduled run completed")
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	if _, err := c.AddFunc(scheduleSpec, runOnce); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", scheduleSpec, err)
	}

	log.Info().Str("spec", scheduleSpec).Msg("scheduler started")
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("stopping scheduler")
	case <-ctx.Done():
	}

	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}
