package aggregate

import (
	"sort"
	"time"

	"commerce-etl-lab/internal/cleaning"
	"commerce-etl-lab/internal/domain"
)

// daysPerMonth is the fixed month length used for order frequency.
const daysPerMonth = 30.0

// ComputeCustomerMetrics groups order aggregates by customer identifier.
// Orders without a customer are skipped; a customer with no orders in the
// window gets no entry. Output is sorted by customer ID.
//
// Order frequency: with at least two dated orders,
// frequency = order_count / max(span_days/30, 1); otherwise it degrades
// to the order count. Orders with an unparseable timestamp are excluded
// from the span but still counted.
func ComputeCustomerMetrics(orders []*domain.OrderAggregate) []*domain.CustomerMetrics {
	type accum struct {
		spentCents int64
		orderCount int64
		dates      []time.Time
	}
	byCustomer := make(map[string]*accum)

	for _, o := range orders {
		if o.CustomerID == "" {
			continue
		}
		acc, ok := byCustomer[o.CustomerID]
		if !ok {
			acc = &accum{}
			byCustomer[o.CustomerID] = acc
		}
		acc.spentCents += o.TotalAmountCents
		acc.orderCount++
		if t, ok := cleaning.ParseNormalized(o.InvoiceDateISO); ok {
			acc.dates = append(acc.dates, t)
		}
	}

	out := make([]*domain.CustomerMetrics, 0, len(byCustomer))
	for customerID, acc := range byCustomer {
		m := &domain.CustomerMetrics{
			CustomerID:      customerID,
			TotalSpentCents: acc.spentCents,
			OrderCount:      acc.orderCount,
		}
		m.AvgOrderValue = float64(acc.spentCents) / 100 / float64(acc.orderCount)
		m.OrderFrequency = orderFrequency(acc.orderCount, acc.dates)
		m.LifetimeValue = m.AvgOrderValue * m.OrderFrequency * domain.CustomerLifespanMonths
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}

func orderFrequency(orderCount int64, dates []time.Time) float64 {
	if len(dates) < 2 {
		return float64(orderCount)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	spanDays := dates[len(dates)-1].Sub(dates[0]).Hours() / 24
	months := spanDays / daysPerMonth
	if months < 1 {
		months = 1
	}
	return float64(orderCount) / months
}
