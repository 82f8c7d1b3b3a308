// Package emit serializes aggregated output and the quality report.
// Tabular output is schema-stable: every row carries the identical field
// set, the union of all fields seen across the batch.
package emit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/money"
)

// Columns always appended to the source field set, in emission order.
var derivedColumns = []string{
	"item_count",
	"total_amount",
	"customer_lifetime_value",
	"avg_order_value",
	"order_frequency",
	domain.FieldInvoiceDateISO,
}

// WriteOrdersCSV writes one row per order: all original header fields
// plus the derived aggregate columns. The column order is deterministic:
// source header order first, then any extra fields in lexical order, then
// the derived columns. Absent fields become empty cells, never omitted
// columns. Monetary values are fixed to two decimals.
func WriteOrdersCSV(
	path string,
	orders []*domain.OrderAggregate,
	customers []*domain.CustomerMetrics,
	sourceHeader []string,
) error {
	byCustomer := make(map[string]*domain.CustomerMetrics, len(customers))
	for _, m := range customers {
		byCustomer[m.CustomerID] = m
	}

	columns := unionColumns(orders, sourceHeader)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, o := range orders {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cellValue(o, byCustomer[o.CustomerID], col)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func cellValue(o *domain.OrderAggregate, m *domain.CustomerMetrics, col string) string {
	total := money.Amount(o.TotalAmountCents)
	switch col {
	case "item_count":
		return strconv.FormatInt(o.ItemCount, 10)
	case "total_amount":
		return total.String()
	case "customer_lifetime_value":
		if m == nil {
			// No customer metrics for this order; fall back to the
			// order total, matching the legacy processed output.
			return total.String()
		}
		return fmt.Sprintf("%.2f", m.LifetimeValue)
	case "avg_order_value":
		if m == nil {
			return total.String()
		}
		return fmt.Sprintf("%.2f", m.AvgOrderValue)
	case "order_frequency":
		if m == nil {
			return "1.00"
		}
		return fmt.Sprintf("%.2f", m.OrderFrequency)
	case domain.FieldInvoiceDateISO:
		return o.InvoiceDateISO
	default:
		return o.HeaderFields[col]
	}
}

// unionColumns builds the deterministic column list: source header order,
// extras sorted, derived columns last. Derived names already present in
// the source are not duplicated.
func unionColumns(orders []*domain.OrderAggregate, sourceHeader []string) []string {
	seen := make(map[string]struct{}, len(sourceHeader))
	columns := make([]string, 0, len(sourceHeader)+len(derivedColumns))
	for _, c := range sourceHeader {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		columns = append(columns, c)
	}

	var extras []string
	for _, o := range orders {
		for f := range o.HeaderFields {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				extras = append(extras, f)
			}
		}
	}
	sort.Strings(extras)
	columns = append(columns, extras...)

	for _, c := range derivedColumns {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			columns = append(columns, c)
		}
	}
	return columns
}
