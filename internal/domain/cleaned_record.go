package domain

// Derived field names added by the cleaner. Emitted alongside all original
// source fields.
const (
	FieldQuantity       = "quantity"
	FieldUnitPrice      = "unit_price"
	FieldTotalAmount    = "total_amount"
	FieldInvoiceDateISO = "invoice_date_normalized"
)

// CleanedRecord is a Record augmented with a fixed set of derived fields.
// TotalAmount is always Quantity * UnitPrice at creation time and is never
// re-derived downstream.
type CleanedRecord struct {
	Record

	InvoiceID string // resolved order/invoice identifier
	StockCode string // resolved product/stock identifier

	Quantity    int64   // non-negative is not enforced here; validation reports violations
	UnitPrice   float64 // zero when unparseable
	TotalAmount float64 // Quantity * UnitPrice

	// InvoiceDateISO holds the normalized timestamp, "" when no known
	// format matched.
	InvoiceDateISO string

	// Missingness flags distinguish "field was absent or unparseable"
	// from a legitimately parsed zero. Imputation only overwrites fields
	// with the flag set.
	QuantityMissing  bool
	UnitPriceMissing bool
}
