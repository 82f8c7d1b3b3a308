package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/warehouse"
)

func TestDimensionStore_UpsertAndGetCustomer(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDimensionStore(pool)
	ctx := context.Background()

	err := store.UpsertCustomers(ctx, []*domain.CustomerDim{
		{CustomerID: "C1", City: "Fortaleza", State: "CE", Country: "Brazil"},
		{CustomerID: "C2", City: "Lisbon", Country: "Portugal"},
	})
	require.NoError(t, err)

	got, err := store.GetCustomer(ctx, "C1")
	require.NoError(t, err)

	assert.Equal(t, "Fortaleza", got.City)
	assert.Equal(t, "CE", got.State)
	assert.Equal(t, "Brazil", got.Country)
}

func TestDimensionStore_UpsertCustomerOverwrites(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDimensionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.UpsertCustomers(ctx, []*domain.CustomerDim{
		{CustomerID: "C1", City: "Fortaleza"},
	}))
	require.NoError(t, store.UpsertCustomers(ctx, []*domain.CustomerDim{
		{CustomerID: "C1", City: "Recife"},
	}))

	got, err := store.GetCustomer(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "Recife", got.City)
}

func TestDimensionStore_UpsertAndGetProduct(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDimensionStore(pool)
	ctx := context.Background()

	err := store.UpsertProducts(ctx, []*domain.ProductDim{
		{StockCode: "S1", Description: "Red mug", Category: "kitchen"},
	})
	require.NoError(t, err)

	got, err := store.GetProduct(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Red mug", got.Description)
	assert.Equal(t, "kitchen", got.Category)
}

func TestDimensionStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDimensionStore(pool)
	ctx := context.Background()

	_, err := store.GetCustomer(ctx, "missing")
	assert.ErrorIs(t, err, warehouse.ErrNotFound)

	_, err = store.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, warehouse.ErrNotFound)
}
