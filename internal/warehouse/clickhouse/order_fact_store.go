package clickhouse

import (
	"context"
	"fmt"
	"time"

	"commerce-etl-lab/internal/domain"
)

// isoFormat matches the normalized invoice date layout produced by the pipeline.
const isoFormat = "2006-01-02 15:04:05"

// OrderFactStore writes order and line-item facts to ClickHouse for
// analytical queries. ClickHouse MergeTree does not enforce uniqueness,
// so the tables use ReplacingMergeTree keyed on the natural keys and
// re-loads collapse to a single row at merge time.
type OrderFactStore struct {
	conn *Conn
}

// NewOrderFactStore creates a new OrderFactStore.
func NewOrderFactStore(conn *Conn) *OrderFactStore {
	return &OrderFactStore{conn: conn}
}

// InsertOrders appends order facts in a single batch.
func (s *OrderFactStore) InsertOrders(ctx context.Context, rows []*domain.OrderFact) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO fact_orders (
			order_id, customer_id, invoice_date, item_count, total_amount_cents, currency
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, row := range rows {
		err = batch.Append(
			row.OrderID,
			row.CustomerID,
			parseInvoiceDate(row.InvoiceDateISO),
			// Int64 column: item_count sums quantities, and retained
			// rule-violating rows can drive the sum negative.
			row.ItemCount,
			row.TotalAmountCents,
			row.Currency,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// InsertOrderItems appends line-item facts in a single batch.
func (s *OrderFactStore) InsertOrderItems(ctx context.Context, rows []*domain.OrderItemFact) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO fact_order_items (
			order_id, stock_code, line_number, quantity, unit_price_cents, total_amount_cents, invoice_date
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, row := range rows {
		err = batch.Append(
			row.OrderID,
			row.StockCode,
			int64(row.LineNumber),
			row.Quantity,
			row.UnitPriceCents,
			row.TotalAmountCents,
			parseInvoiceDate(row.InvoiceDateISO),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CountOrders returns the number of order fact rows (after merge collapsing
// this equals the distinct order count, before it may include duplicates).
func (s *OrderFactStore) CountOrders(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM fact_orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// RevenueByDay aggregates order revenue per calendar day, ordered by day ASC.
func (s *OrderFactStore) RevenueByDay(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT toDate(invoice_date) AS day, sum(total_amount_cents) AS revenue
		FROM fact_orders
		WHERE invoice_date > toDateTime(0)
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query revenue by day: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var day time.Time
		var revenue int64
		if err := rows.Scan(&day, &revenue); err != nil {
			return nil, fmt.Errorf("scan revenue row: %w", err)
		}
		result[day.Format("2006-01-02")] = revenue
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue rows: %w", err)
	}
	return result, nil
}

// parseInvoiceDate converts a normalized date string to time.Time.
// Unparseable or empty dates map to the zero Unix time so the fact row
// is never lost to a conversion error.
func parseInvoiceDate(iso string) time.Time {
	if iso == "" {
		return time.Unix(0, 0).UTC()
	}
	t, err := time.Parse(isoFormat, iso)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t.UTC()
}
