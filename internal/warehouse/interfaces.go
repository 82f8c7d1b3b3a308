// Package warehouse defines the star-schema loading contract the
// pipeline's output is appended into. The core emits rows; conflict
// handling at write time belongs to the store implementations.
package warehouse

import (
	"context"

	"commerce-etl-lab/internal/domain"
)

// DimensionStore provides access to dimension tables. Upserts are keyed
// by natural business identifiers: a conflicting row updates in place.
type DimensionStore interface {
	// UpsertCustomers inserts or updates customer dimension rows.
	UpsertCustomers(ctx context.Context, rows []*domain.CustomerDim) error

	// UpsertProducts inserts or updates product dimension rows.
	UpsertProducts(ctx context.Context, rows []*domain.ProductDim) error
}

// FactStore provides access to fact tables. Inserts are idempotent:
// a row whose key already exists is skipped, so re-running a load over
// the same output is safe.
type FactStore interface {
	// InsertOrders appends order facts, skipping existing order IDs.
	InsertOrders(ctx context.Context, rows []*domain.OrderFact) error

	// InsertOrderItems appends line-item facts, skipping existing
	// (order_id, stock_code, line_number) keys.
	InsertOrderItems(ctx context.Context, rows []*domain.OrderItemFact) error
}
