package domain

// OrderAggregate is the per-order rollup of line items.
// Corresponds to one row in fact_orders.
type OrderAggregate struct {
	OrderID    string
	CustomerID string // from the order-header source, "" when unknown

	ItemCount        int64 // sum of line-item quantities
	TotalAmountCents int64 // sum of line totals in minor units

	// InvoiceDateISO is the normalized order timestamp, "" when the
	// header carried no parseable date.
	InvoiceDateISO string

	// HeaderFields carries all original order-level fields verbatim.
	HeaderFields map[string]string
}

// CustomerMetrics is the per-customer rollup of orders.
type CustomerMetrics struct {
	CustomerID string

	TotalSpentCents int64
	OrderCount      int64

	// Derived ratios are display-rounded decimals, never used as keys.
	AvgOrderValue  float64 // total_spent / order_count
	OrderFrequency float64 // orders per 30-day month
	LifetimeValue  float64 // avg_order_value * order_frequency * lifespan months
}

// CustomerLifespanMonths is the fixed lifespan assumption used for
// customer lifetime value.
const CustomerLifespanMonths = 36
