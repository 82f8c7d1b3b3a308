package domain

import "time"

// ValidationError records one business-rule violation.
type ValidationError struct {
	RowID  string `json:"row_id"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// FieldMetric profiles one source column.
type FieldMetric struct {
	MinLength    int     `json:"min_length"`
	MaxLength    int     `json:"max_length"`
	IsNumeric    bool    `json:"is_numeric"`
	Completeness float64 `json:"completeness"`
}

// QualityReport is the value object rendered at the end of a run.
// Scores are recomputed from raw counters at report time; the struct is
// read-only once emitted.
type QualityReport struct {
	DatasetName string    `json:"dataset_name"`
	Timestamp   time.Time `json:"timestamp"`

	TotalRecords     int `json:"total_records"`
	ValidRecords     int `json:"valid_records"`
	InvalidRecords   int `json:"invalid_records"`
	DuplicateRecords int `json:"duplicate_records"`
	DroppedRecords   int `json:"dropped_records"`
	ImputedValues    int `json:"imputed_values"`

	NullCounts map[string]int `json:"null_counts"`

	CompletenessScore   float64 `json:"completeness_score"`
	AccuracyScore       float64 `json:"accuracy_score"`
	ConsistencyScore    float64 `json:"consistency_score"`
	ValidityScore       float64 `json:"validity_score"`
	OverallQualityScore float64 `json:"overall_quality_score"`

	FieldMetrics     map[string]FieldMetric `json:"field_metrics"`
	ValidationErrors []ValidationError      `json:"validation_errors"`
}
