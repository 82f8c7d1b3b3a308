package postgres

import (
	"context"
	"fmt"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/warehouse"
)

// FactStore implements warehouse.FactStore using PostgreSQL. Inserts are
// idempotent via ON CONFLICT DO NOTHING, so re-loading the same pipeline
// output is safe.
type FactStore struct {
	pool *Pool
}

// NewFactStore creates a new FactStore.
func NewFactStore(pool *Pool) *FactStore {
	return &FactStore{pool: pool}
}

// Compile-time interface check.
var _ warehouse.FactStore = (*FactStore)(nil)

// InsertOrders appends order facts, skipping existing order IDs.
func (s *FactStore) InsertOrders(ctx context.Context, rows []*domain.OrderFact) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO fact_orders (
			order_id, customer_id, invoice_date, item_count, total_amount_cents, currency
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO NOTHING
	`
	for _, row := range rows {
		if row == nil || row.OrderID == "" {
			return warehouse.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			row.OrderID,
			nullIfEmpty(row.CustomerID),
			nullIfEmpty(row.InvoiceDateISO),
			row.ItemCount,
			row.TotalAmountCents,
			row.Currency,
		)
		if err != nil {
			return fmt.Errorf("insert order fact %s: %w", row.OrderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// InsertOrderItems appends line-item facts, skipping existing keys.
func (s *FactStore) InsertOrderItems(ctx context.Context, rows []*domain.OrderItemFact) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO fact_order_items (
			order_id, stock_code, line_number, quantity, unit_price_cents, total_amount_cents, invoice_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id, stock_code, line_number) DO NOTHING
	`
	for _, row := range rows {
		if row == nil || row.OrderID == "" || row.StockCode == "" {
			return warehouse.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			row.OrderID,
			row.StockCode,
			row.LineNumber,
			row.Quantity,
			row.UnitPriceCents,
			row.TotalAmountCents,
			nullIfEmpty(row.InvoiceDateISO),
		)
		if err != nil {
			return fmt.Errorf("insert order item fact %s/%s: %w", row.OrderID, row.StockCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetOrder retrieves an order fact. Returns ErrNotFound if absent.
func (s *FactStore) GetOrder(ctx context.Context, orderID string) (*domain.OrderFact, error) {
	query := `
		SELECT order_id, COALESCE(customer_id, ''), COALESCE(invoice_date::text, ''),
		       item_count, total_amount_cents, currency
		FROM fact_orders WHERE order_id = $1
	`

	var row domain.OrderFact
	err := s.pool.QueryRow(ctx, query, orderID).Scan(
		&row.OrderID,
		&row.CustomerID,
		&row.InvoiceDateISO,
		&row.ItemCount,
		&row.TotalAmountCents,
		&row.Currency,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, warehouse.ErrNotFound
		}
		return nil, fmt.Errorf("get order fact: %w", err)
	}
	return &row, nil
}

// CountOrders returns the number of order fact rows.
func (s *FactStore) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fact_orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// CountOrderItems returns the number of line-item fact rows.
func (s *FactStore) CountOrderItems(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fact_order_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count order items: %w", err)
	}
	return count, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
