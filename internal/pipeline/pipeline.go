// Package pipeline wires the ETL stages into a single batch run:
// read -> deduplicate -> clean/validate -> aggregate -> emit, with the
// quality ledger threaded through every stage.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"commerce-etl-lab/internal/aggregate"
	"commerce-etl-lab/internal/cleaning"
	"commerce-etl-lab/internal/dedup"
	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/emit"
	"commerce-etl-lab/internal/ingest"
	"commerce-etl-lab/internal/quality"
	"commerce-etl-lab/internal/validate"
)

// Output file names within the output directory.
const (
	OrdersOutputFile  = "orders_processed.csv"
	QualityReportFile = "quality_report.json"
)

// Pipeline orchestrates one batch run. The run is single-threaded: each
// stage fully consumes its input before the next starts, and output files
// are written only after every stage has completed.
type Pipeline struct {
	datasetName string
	itemsPath   string
	ordersPath  string // optional order-header source
	outputDir   string

	dedupKeys  []string
	imputation cleaning.Strategy
	validator  *validate.Validator

	clock func() time.Time
	log   zerolog.Logger
}

// Result summarizes a completed run.
type Result struct {
	Report    domain.QualityReport
	Orders    []*domain.OrderAggregate
	Customers []*domain.CustomerMetrics

	// Cleaned holds the surviving line items for warehouse loading.
	Cleaned []domain.CleanedRecord

	OrdersCSVPath string
	ReportPath    string
}

// New creates a pipeline for one line-item source. Defaults: standard
// business rules, legacy dedup key set, no imputation.
func New(datasetName, itemsPath, outputDir string) *Pipeline {
	return &Pipeline{
		datasetName: datasetName,
		itemsPath:   itemsPath,
		outputDir:   outputDir,
		dedupKeys:   dedup.DefaultKeyFields,
		validator:   validate.DefaultRules(),
		clock:       func() time.Time { return time.Now().UTC() },
		log:         zerolog.Nop(),
	}
}

// WithOrderHeaders adds an order-header source joining orders to
// customers.
func (p *Pipeline) WithOrderHeaders(path string) *Pipeline {
	p.ordersPath = path
	return p
}

// WithDedupKeys overrides the fingerprint key-field set.
func (p *Pipeline) WithDedupKeys(keys []string) *Pipeline {
	if len(keys) > 0 {
		p.dedupKeys = keys
	}
	return p
}

// WithImputation enables the second-pass imputation strategy.
func (p *Pipeline) WithImputation(s cleaning.Strategy) *Pipeline {
	p.imputation = s
	return p
}

// WithValidator replaces the standard rule set. Nil disables validation.
func (p *Pipeline) WithValidator(v *validate.Validator) *Pipeline {
	p.validator = v
	return p
}

// WithClock sets a custom clock for deterministic report timestamps.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// WithLogger sets the run logger.
func (p *Pipeline) WithLogger(log zerolog.Logger) *Pipeline {
	p.log = log
	return p
}

// Run executes the full pipeline. A missing or unreadable source aborts
// before any output file is created; every other defect degrades into a
// ledger entry and the run completes.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.clock()
	ledger := quality.NewLedger(p.datasetName).WithClock(p.clock)

	records, header, err := ingest.ReadCSV(p.itemsPath)
	if err != nil {
		return nil, err
	}

	var headers []domain.Record
	var headerFields []string
	if p.ordersPath != "" {
		headers, headerFields, err = ingest.ReadCSV(p.ordersPath)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ledger.RecordTotal(len(records))
	quality.ProfileFields(records, ledger)

	deduped, duplicates := dedup.Deduplicate(records, p.dedupKeys)
	ledger.RecordDuplicates(duplicates)

	cleaner := cleaning.New(cleaning.Options{
		Validator:  p.validator,
		Imputation: p.imputation,
		Logger:     p.log,
	})
	cleaned := cleaner.Clean(deduped, ledger)

	orders := aggregate.AggregateOrders(cleaned, headers)
	customers := aggregate.ComputeCustomerMetrics(orders)

	// Output is written last so a failed run leaves no partial artifact.
	outHeader := headerFields
	if len(outHeader) == 0 {
		outHeader = header
	}
	result := &Result{
		Orders:         orders,
		Customers:      customers,
		Cleaned:        cleaned,
		OrdersCSVPath:  filepath.Join(p.outputDir, OrdersOutputFile),
		ReportPath:     filepath.Join(p.outputDir, QualityReportFile),
	}
	if err := emit.WriteOrdersCSV(result.OrdersCSVPath, orders, customers, outHeader); err != nil {
		return nil, err
	}
	result.Report = ledger.Report()
	if err := emit.WriteQualityReport(result.ReportPath, result.Report); err != nil {
		return nil, err
	}

	p.log.Info().
		Str("dataset", p.datasetName).
		Int("total", result.Report.TotalRecords).
		Int("duplicates", result.Report.DuplicateRecords).
		Int("dropped", result.Report.DroppedRecords).
		Int("orders", len(orders)).
		Int("customers", len(customers)).
		Float64("quality_score", result.Report.OverallQualityScore).
		Dur("elapsed", p.clock().Sub(start)).
		Msg("pipeline run completed")

	return result, nil
}
