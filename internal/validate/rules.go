// Package validate applies ordered field-level business rules to cleaned
// records. Violations are logged into the quality ledger; the decision to
// keep or drop a row belongs to the pipeline driver.
package validate

import (
	"fmt"
	"strconv"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/quality"
)

// Rule is one field-level predicate. Check receives the raw field value
// as emitted by the cleaner.
type Rule struct {
	Field   string
	Check   func(value string) bool
	Message string
}

// Validator evaluates an ordered rule list. Evaluation never
// short-circuits: all rules run and all failures are recorded.
type Validator struct {
	rules []Rule
}

// New creates an empty validator.
func New() *Validator {
	return &Validator{}
}

// AddRule appends a rule. Rules run in insertion order.
func (v *Validator) AddRule(field string, check func(string) bool, message string) {
	v.rules = append(v.rules, Rule{Field: field, Check: check, Message: message})
}

// Validate evaluates every rule against the record, recording each failure
// in the ledger when one is supplied. A panicking predicate counts as a
// failure with a synthesized message; a single bad record must never crash
// the run.
func (v *Validator) Validate(rec *domain.CleanedRecord, ledger *quality.Ledger) (bool, []string) {
	var errs []string
	for _, rule := range v.rules {
		value := fieldValue(rec, rule.Field)
		ok := runCheck(rule.Check, value)
		if ok {
			continue
		}
		errs = append(errs, fmt.Sprintf("%s: %s", rule.Field, rule.Message))
		if ledger != nil {
			rowID := rec.InvoiceID
			if rowID == "" {
				rowID = "unknown"
			}
			ledger.AddValidationError(rowID, rule.Field, rule.Message)
		}
	}
	return len(errs) == 0, errs
}

// runCheck recovers a panicking predicate into a failed check.
func runCheck(check func(string) bool, value string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return check(value)
}

// fieldValue maps rule field names onto the cleaner's derived fields,
// falling back to the original source columns.
func fieldValue(rec *domain.CleanedRecord, field string) string {
	switch field {
	case domain.FieldQuantity:
		return strconv.FormatInt(rec.Quantity, 10)
	case domain.FieldUnitPrice:
		return strconv.FormatFloat(rec.UnitPrice, 'f', -1, 64)
	case domain.FieldTotalAmount:
		return strconv.FormatFloat(rec.TotalAmount, 'f', -1, 64)
	default:
		return rec.Get(field)
	}
}

// Rule bounds for the standard retail rule set.
const (
	MaxQuantity  = 10000
	MaxUnitPrice = 1_000_000
)

// DefaultRules returns the standard business rules for order line items:
// positive bounded quantity, non-negative bounded unit price, non-negative
// total amount.
func DefaultRules() *Validator {
	v := New()
	v.AddRule(domain.FieldQuantity, func(s string) bool {
		q, err := strconv.ParseInt(s, 10, 64)
		return err == nil && q > 0
	}, "Quantity must be positive")
	v.AddRule(domain.FieldQuantity, func(s string) bool {
		q, err := strconv.ParseInt(s, 10, 64)
		return err == nil && q <= MaxQuantity
	}, fmt.Sprintf("Quantity exceeds maximum (%d)", MaxQuantity))
	v.AddRule(domain.FieldUnitPrice, func(s string) bool {
		p, err := strconv.ParseFloat(s, 64)
		return err == nil && p >= 0
	}, "Price cannot be negative")
	v.AddRule(domain.FieldUnitPrice, func(s string) bool {
		p, err := strconv.ParseFloat(s, 64)
		return err == nil && p <= MaxUnitPrice
	}, "Price exceeds maximum (1M)")
	v.AddRule(domain.FieldTotalAmount, func(s string) bool {
		t, err := strconv.ParseFloat(s, 64)
		return err == nil && t >= 0
	}, "Total amount cannot be negative")
	return v
}
