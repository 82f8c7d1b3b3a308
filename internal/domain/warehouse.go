package domain

// Warehouse row types for the star schema. Dimension rows are keyed by
// natural business identifiers and upserted; fact rows are insert-only
// with monetary values as integer minor units, never floating point.

// CustomerDim is one row of dim_customers.
type CustomerDim struct {
	CustomerID string
	City       string
	State      string
	Country    string
}

// ProductDim is one row of dim_products.
type ProductDim struct {
	StockCode   string
	Description string
	Category    string
}

// OrderFact is one row of fact_orders, keyed by order identifier.
type OrderFact struct {
	OrderID          string
	CustomerID       string
	InvoiceDateISO   string
	ItemCount        int64
	TotalAmountCents int64
	Currency         string
}

// OrderItemFact is one row of fact_order_items, keyed by
// (order_id, stock_code, line_number).
type OrderItemFact struct {
	OrderID          string
	StockCode        string
	LineNumber       int
	Quantity         int64
	UnitPriceCents   int64
	TotalAmountCents int64
	InvoiceDateISO   string
}

// DefaultCurrency is the minor-unit currency code applied when the
// source carries no currency column.
const DefaultCurrency = "BRL"
