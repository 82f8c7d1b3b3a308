package postgres

import (
	"context"
	"fmt"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/warehouse"
)

// DimensionStore implements warehouse.DimensionStore using PostgreSQL
// with ON CONFLICT upserts keyed by natural identifier.
type DimensionStore struct {
	pool *Pool
}

// NewDimensionStore creates a new DimensionStore.
func NewDimensionStore(pool *Pool) *DimensionStore {
	return &DimensionStore{pool: pool}
}

// Compile-time interface check.
var _ warehouse.DimensionStore = (*DimensionStore)(nil)

// UpsertCustomers inserts or updates customer dimension rows in one
// transaction.
func (s *DimensionStore) UpsertCustomers(ctx context.Context, rows []*domain.CustomerDim) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO dim_customers (customer_id, city, state, country)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_id) DO UPDATE SET
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			country = EXCLUDED.country
	`
	for _, row := range rows {
		if row == nil || row.CustomerID == "" {
			return warehouse.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, query, row.CustomerID, row.City, row.State, row.Country); err != nil {
			return fmt.Errorf("upsert customer %s: %w", row.CustomerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// UpsertProducts inserts or updates product dimension rows in one
// transaction.
func (s *DimensionStore) UpsertProducts(ctx context.Context, rows []*domain.ProductDim) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO dim_products (stock_code, description, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (stock_code) DO UPDATE SET
			description = EXCLUDED.description,
			category = EXCLUDED.category
	`
	for _, row := range rows {
		if row == nil || row.StockCode == "" {
			return warehouse.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, query, row.StockCode, row.Description, row.Category); err != nil {
			return fmt.Errorf("upsert product %s: %w", row.StockCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer row. Returns ErrNotFound if absent.
func (s *DimensionStore) GetCustomer(ctx context.Context, customerID string) (*domain.CustomerDim, error) {
	query := `SELECT customer_id, city, state, country FROM dim_customers WHERE customer_id = $1`

	var row domain.CustomerDim
	err := s.pool.QueryRow(ctx, query, customerID).Scan(&row.CustomerID, &row.City, &row.State, &row.Country)
	if err != nil {
		if isNotFoundError(err) {
			return nil, warehouse.ErrNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &row, nil
}

// GetProduct retrieves a product row. Returns ErrNotFound if absent.
func (s *DimensionStore) GetProduct(ctx context.Context, stockCode string) (*domain.ProductDim, error) {
	query := `SELECT stock_code, description, category FROM dim_products WHERE stock_code = $1`

	var row domain.ProductDim
	err := s.pool.QueryRow(ctx, query, stockCode).Scan(&row.StockCode, &row.Description, &row.Category)
	if err != nil {
		if isNotFoundError(err) {
			return nil, warehouse.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &row, nil
}
