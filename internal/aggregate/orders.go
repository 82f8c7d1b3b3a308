// Package aggregate rolls cleaned line items up into per-order and
// per-customer metrics. Monetary sums are accumulated in integer cents;
// floats appear only in display-rounded derived ratios.
package aggregate

import (
	"sort"

	"commerce-etl-lab/internal/cleaning"
	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/money"
)

// Header field aliases for the order-header source.
var (
	OrderIDAliases  = []string{"order_id", "OrderID", "InvoiceNo", "Invoice"}
	CustomerAliases = []string{"customer_id", "CustomerID", "Customer ID"}
)

// AggregateOrders groups cleaned line items by order identifier.
// Headers are optional: orders present in the header source but absent
// from the line items yield zero item count and zero total, which is not
// an error. Line items without a matching header fall back to the
// customer and date carried on the line itself.
//
// Output is sorted by order ID so repeated runs emit identical bytes.
func AggregateOrders(items []domain.CleanedRecord, headers []domain.Record) []*domain.OrderAggregate {
	byOrder := make(map[string]*domain.OrderAggregate)

	for _, h := range headers {
		oid, ok := h.GetAny(OrderIDAliases...)
		if !ok {
			continue
		}
		agg := &domain.OrderAggregate{
			OrderID:      oid,
			HeaderFields: h.Clone().Fields,
		}
		if cust, ok := h.GetAny(CustomerAliases...); ok {
			agg.CustomerID = cust
		}
		if raw, ok := h.GetAny(cleaning.DateAliases...); ok {
			agg.InvoiceDateISO = cleaning.NormalizeDate(raw)
		}
		byOrder[oid] = agg
	}

	for i := range items {
		item := &items[i]
		agg, ok := byOrder[item.InvoiceID]
		if !ok {
			// No header source for this order: the first line item
			// seen contributes the order-level fields.
			agg = &domain.OrderAggregate{
				OrderID:        item.InvoiceID,
				InvoiceDateISO: item.InvoiceDateISO,
				HeaderFields:   item.Clone().Fields,
			}
			if cust, ok := item.GetAny(CustomerAliases...); ok {
				agg.CustomerID = cust
			}
			byOrder[item.InvoiceID] = agg
		}
		agg.ItemCount += item.Quantity
		agg.TotalAmountCents += money.FromFloat(item.TotalAmount).Cents()
	}

	out := make([]*domain.OrderAggregate, 0, len(byOrder))
	for _, agg := range byOrder {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}
