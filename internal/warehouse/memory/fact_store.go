package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/warehouse"
)

// FactStore is an in-memory implementation of warehouse.FactStore.
type FactStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.OrderFact
	items  map[string]*domain.OrderItemFact
}

// NewFactStore creates an empty fact store.
func NewFactStore() *FactStore {
	return &FactStore{
		orders: make(map[string]*domain.OrderFact),
		items:  make(map[string]*domain.OrderItemFact),
	}
}

var _ warehouse.FactStore = (*FactStore)(nil)

func itemKey(orderID, stockCode string, lineNumber int) string {
	return fmt.Sprintf("%s|%s|%d", orderID, stockCode, lineNumber)
}

// InsertOrders appends order facts, skipping existing order IDs.
func (s *FactStore) InsertOrders(_ context.Context, rows []*domain.OrderFact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		if row == nil || row.OrderID == "" {
			return warehouse.ErrInvalidInput
		}
		if _, exists := s.orders[row.OrderID]; exists {
			continue
		}
		copy := *row
		s.orders[row.OrderID] = &copy
	}
	return nil
}

// InsertOrderItems appends line-item facts, skipping existing keys.
func (s *FactStore) InsertOrderItems(_ context.Context, rows []*domain.OrderItemFact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		if row == nil || row.OrderID == "" || row.StockCode == "" {
			return warehouse.ErrInvalidInput
		}
		key := itemKey(row.OrderID, row.StockCode, row.LineNumber)
		if _, exists := s.items[key]; exists {
			continue
		}
		copy := *row
		s.items[key] = &copy
	}
	return nil
}

// GetOrder retrieves an order fact. Returns ErrNotFound if absent.
func (s *FactStore) GetOrder(_ context.Context, orderID string) (*domain.OrderFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.orders[orderID]
	if !ok {
		return nil, warehouse.ErrNotFound
	}
	copy := *row
	return &copy, nil
}

// GetOrderItems retrieves all line-item facts for an order, ordered by
// line number.
func (s *FactStore) GetOrderItems(_ context.Context, orderID string) ([]*domain.OrderItemFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*domain.OrderItemFact
	for _, row := range s.items {
		if row.OrderID == orderID {
			copy := *row
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LineNumber < result[j].LineNumber })
	return result, nil
}

// OrderCount returns the number of order facts.
func (s *FactStore) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// ItemCount returns the number of line-item facts.
func (s *FactStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
