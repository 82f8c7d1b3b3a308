// Package quality tracks per-run data-quality counters and renders them
// into a QualityReport. The ledger is owned by a single pipeline run and
// mutated from one goroutine only.
package quality

import (
	"time"

	"commerce-etl-lab/internal/domain"
)

// MaxReportedErrors caps the validation errors included in a report.
// Counters keep the full total; only the detail list is truncated.
const MaxReportedErrors = 100

// Ledger accumulates quality counters for one pipeline run. Counters are
// monotonic within a run; Report is a pure function of current state.
type Ledger struct {
	datasetName string
	clock       func() time.Time

	total     int
	valid     int
	invalid   int
	duplicate int
	dropped   int
	imputed   int
	accurate  int

	nullCounts   map[string]int
	fieldMetrics map[string]domain.FieldMetric
	errors       []domain.ValidationError
	errorTotal   int
}

// NewLedger creates a ledger for the named dataset.
func NewLedger(datasetName string) *Ledger {
	return &Ledger{
		datasetName:  datasetName,
		clock:        func() time.Time { return time.Now().UTC() },
		nullCounts:   make(map[string]int),
		fieldMetrics: make(map[string]domain.FieldMetric),
	}
}

// WithClock sets a custom clock for deterministic report timestamps.
func (l *Ledger) WithClock(clock func() time.Time) *Ledger {
	l.clock = clock
	return l
}

// RecordTotal adds to the total record count.
func (l *Ledger) RecordTotal(n int) { l.total += n }

// RecordValid adds to the count of records passing all business rules.
func (l *Ledger) RecordValid(n int) { l.valid += n }

// RecordInvalid adds to the count of records with rule violations.
func (l *Ledger) RecordInvalid(n int) { l.invalid += n }

// RecordDuplicates adds to the duplicate count.
func (l *Ledger) RecordDuplicates(n int) { l.duplicate += n }

// RecordDropped adds to the count of records dropped for missing identity.
func (l *Ledger) RecordDropped(n int) { l.dropped += n }

// RecordImputed adds to the count of zeroed or imputed field values.
func (l *Ledger) RecordImputed(n int) { l.imputed += n }

// RecordAccurate adds to the count of records that survived cleaning with
// no fallback or imputation applied.
func (l *Ledger) RecordAccurate(n int) { l.accurate += n }

// RecordNullCount adds to the null count for a field.
func (l *Ledger) RecordNullCount(field string, n int) {
	l.nullCounts[field] += n
}

// RecordFieldMetric stores profile metrics for a field.
func (l *Ledger) RecordFieldMetric(field string, m domain.FieldMetric) {
	l.fieldMetrics[field] = m
}

// AddValidationError records one rule violation. The full count is kept;
// detail beyond MaxReportedErrors is not retained.
func (l *Ledger) AddValidationError(rowID, field, reason string) {
	l.errorTotal++
	if len(l.errors) < MaxReportedErrors {
		l.errors = append(l.errors, domain.ValidationError{RowID: rowID, Field: field, Reason: reason})
	}
}

// ErrorTotal returns the total number of validation errors recorded,
// including those truncated from the report.
func (l *Ledger) ErrorTotal() int { return l.errorTotal }

// Report renders the current counter state. Calling it twice without
// intervening increments yields identical output; scores are never stored
// independently of their inputs.
func (l *Ledger) Report() domain.QualityReport {
	r := domain.QualityReport{
		DatasetName:      l.datasetName,
		Timestamp:        l.clock(),
		TotalRecords:     l.total,
		ValidRecords:     l.valid,
		InvalidRecords:   l.invalid,
		DuplicateRecords: l.duplicate,
		DroppedRecords:   l.dropped,
		ImputedValues:    l.imputed,
		NullCounts:       make(map[string]int, len(l.nullCounts)),
		FieldMetrics:     make(map[string]domain.FieldMetric, len(l.fieldMetrics)),
		ValidationErrors: make([]domain.ValidationError, len(l.errors)),
	}
	for k, v := range l.nullCounts {
		r.NullCounts[k] = v
	}
	for k, v := range l.fieldMetrics {
		r.FieldMetrics[k] = v
	}
	copy(r.ValidationErrors, l.errors)

	if l.total == 0 {
		return r
	}

	totalNulls := 0
	for _, n := range l.nullCounts {
		totalNulls += n
	}
	trackedCells := len(l.nullCounts) * l.total
	if trackedCells == 0 {
		trackedCells = l.total
	}

	r.CompletenessScore = clampScore((1 - float64(totalNulls)/float64(trackedCells)) * 100)
	r.ValidityScore = clampScore(float64(l.valid) / float64(l.total) * 100)
	r.ConsistencyScore = clampScore((1 - float64(l.duplicate)/float64(l.total)) * 100)
	r.AccuracyScore = clampScore(float64(l.accurate) / float64(l.total) * 100)
	r.OverallQualityScore = clampScore(0.3*r.CompletenessScore + 0.4*r.ValidityScore + 0.3*r.ConsistencyScore)

	return r
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
