// Package cleaning implements the central row transform: alias
// resolution, numeric coercion with zero fallback, derived totals, date
// normalization, optional validation, and optional batch imputation.
package cleaning

import (
	"strconv"

	"github.com/rs/zerolog"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/quality"
	"commerce-etl-lab/internal/validate"
)

// Field aliases accumulated across historical export shapes. Matching is
// case-sensitive and ordered; the first populated alias wins.
var (
	InvoiceAliases   = []string{"InvoiceNo", "Invoice", "invoice", "invoice_no", "order_id"}
	StockCodeAliases = []string{"StockCode", "stockcode", "stock_code", "product_id"}
	QuantityAliases  = []string{"Quantity", "quantity", "Qty"}
	UnitPriceAliases = []string{"UnitPrice", "unit_price", "Price", "price"}
	DateAliases      = []string{"InvoiceDate", "invoice_date", "date", "order_purchase_timestamp"}
)

// Options controls optional cleaning behavior.
type Options struct {
	// Validator, when non-nil, runs business rules per record. Failures
	// are logged only; rows are never dropped for a rule violation here.
	Validator *validate.Validator

	// Imputation selects the second-pass strategy for missing numeric
	// fields. StrategyNone leaves the zero fallback in place.
	Imputation Strategy

	Logger zerolog.Logger
}

// Cleaner transforms raw records into CleanedRecords.
type Cleaner struct {
	opts Options
}

// New creates a cleaner with the given options.
func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts}
}

// Clean transforms the batch. Per record: resolve identity fields (drop
// and count the record when absent), coerce quantity and unit price with
// zero-on-failure fallback, compute total_amount = quantity * unit_price,
// normalize the invoice date, then optionally validate. A configured
// imputation strategy runs as a second pass over the materialized batch.
//
// Input records are never mutated; the ledger is.
func (c *Cleaner) Clean(records []domain.Record, ledger *quality.Ledger) []domain.CleanedRecord {
	out := make([]domain.CleanedRecord, 0, len(records))
	invalid := 0
	accurate := 0

	for _, rec := range records {
		invoice, okInvoice := rec.GetAny(InvoiceAliases...)
		stock, okStock := rec.GetAny(StockCodeAliases...)
		if !okInvoice || !okStock {
			ledger.RecordDropped(1)
			continue
		}

		cleaned := domain.CleanedRecord{
			Record:    rec.Clone(),
			InvoiceID: invoice,
			StockCode: stock,
		}
		fallbacks := 0

		rawQty, qtyPresent := rec.GetAny(QuantityAliases...)
		cleaned.Quantity, cleaned.QuantityMissing = parseQuantity(rawQty, qtyPresent)
		if cleaned.QuantityMissing {
			ledger.RecordImputed(1)
			fallbacks++
		}

		rawPrice, pricePresent := rec.GetAny(UnitPriceAliases...)
		cleaned.UnitPrice, cleaned.UnitPriceMissing = parsePrice(rawPrice, pricePresent)
		if cleaned.UnitPriceMissing {
			ledger.RecordImputed(1)
			fallbacks++
		}

		// The only place total_amount is ever derived.
		cleaned.TotalAmount = float64(cleaned.Quantity) * cleaned.UnitPrice

		if rawDate, ok := rec.GetAny(DateAliases...); ok {
			cleaned.InvoiceDateISO = NormalizeDate(rawDate)
		}

		if c.opts.Validator != nil {
			ok, errs := c.opts.Validator.Validate(&cleaned, ledger)
			if !ok {
				invalid++
				c.opts.Logger.Debug().
					Str("invoice", invoice).
					Strs("errors", errs).
					Msg("business rule violations")
			}
		}

		if fallbacks == 0 {
			accurate++
		}
		out = append(out, cleaned)
	}

	// Without a validator every surviving record counts as valid, so a
	// rule-free run does not zero the validity score.
	ledger.RecordInvalid(invalid)
	ledger.RecordValid(len(out) - invalid)
	ledger.RecordAccurate(accurate)

	if c.opts.Imputation != StrategyNone {
		imputed := Impute(out, c.opts.Imputation)
		ledger.RecordImputed(imputed)
		if imputed > 0 {
			c.opts.Logger.Info().
				Int("values", imputed).
				Str("strategy", string(c.opts.Imputation)).
				Msg("imputed missing values")
		}
	}

	return out
}

// parseQuantity coerces via float then truncates, matching legacy exports
// that carry quantities like "2.0". The missing flag is set for absent or
// unparseable input, never for a legitimate "0".
func parseQuantity(raw string, present bool) (int64, bool) {
	if !present {
		return 0, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true
	}
	return int64(f), false
}

func parsePrice(raw string, present bool) (float64, bool) {
	if !present {
		return 0, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true
	}
	return f, false
}
