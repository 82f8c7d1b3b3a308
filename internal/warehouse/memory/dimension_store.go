// Package memory provides in-memory warehouse stores for tests and dry
// runs.
package memory

import (
	"context"
	"sync"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/warehouse"
)

// DimensionStore is an in-memory implementation of
// warehouse.DimensionStore.
type DimensionStore struct {
	mu        sync.RWMutex
	customers map[string]*domain.CustomerDim
	products  map[string]*domain.ProductDim
}

// NewDimensionStore creates an empty dimension store.
func NewDimensionStore() *DimensionStore {
	return &DimensionStore{
		customers: make(map[string]*domain.CustomerDim),
		products:  make(map[string]*domain.ProductDim),
	}
}

var _ warehouse.DimensionStore = (*DimensionStore)(nil)

// UpsertCustomers inserts or replaces customer rows by natural key.
func (s *DimensionStore) UpsertCustomers(_ context.Context, rows []*domain.CustomerDim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		if row == nil || row.CustomerID == "" {
			return warehouse.ErrInvalidInput
		}
		copy := *row
		s.customers[row.CustomerID] = &copy
	}
	return nil
}

// UpsertProducts inserts or replaces product rows by natural key.
func (s *DimensionStore) UpsertProducts(_ context.Context, rows []*domain.ProductDim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		if row == nil || row.StockCode == "" {
			return warehouse.ErrInvalidInput
		}
		copy := *row
		s.products[row.StockCode] = &copy
	}
	return nil
}

// GetCustomer retrieves a customer row. Returns ErrNotFound if absent.
func (s *DimensionStore) GetCustomer(_ context.Context, customerID string) (*domain.CustomerDim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.customers[customerID]
	if !ok {
		return nil, warehouse.ErrNotFound
	}
	copy := *row
	return &copy, nil
}

// GetProduct retrieves a product row. Returns ErrNotFound if absent.
func (s *DimensionStore) GetProduct(_ context.Context, stockCode string) (*domain.ProductDim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.products[stockCode]
	if !ok {
		return nil, warehouse.ErrNotFound
	}
	copy := *row
	return &copy, nil
}

// CustomerCount returns the number of customer rows.
func (s *DimensionStore) CustomerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers)
}

// ProductCount returns the number of product rows.
func (s *DimensionStore) ProductCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
