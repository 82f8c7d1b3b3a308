package memory

import (
	"context"
	"errors"
	"testing"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/warehouse"

	"github.com/rs/zerolog"
)

func TestFactStore_InsertOrders(t *testing.T) {
	store := NewFactStore()
	ctx := context.Background()

	err := store.InsertOrders(ctx, []*domain.OrderFact{
		{OrderID: "O1", CustomerID: "C1", ItemCount: 2, TotalAmountCents: 1998, Currency: "BRL"},
	})
	if err != nil {
		t.Fatalf("InsertOrders failed: %v", err)
	}

	got, err := store.GetOrder(ctx, "O1")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.TotalAmountCents != 1998 {
		t.Errorf("expected 1998 cents, got %d", got.TotalAmountCents)
	}
}

func TestFactStore_ReInsertIsIdempotent(t *testing.T) {
	store := NewFactStore()
	ctx := context.Background()

	first := []*domain.OrderFact{{OrderID: "O1", TotalAmountCents: 100}}
	if err := store.InsertOrders(ctx, first); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	// Re-running a load skips existing keys instead of failing or
	// overwriting.
	second := []*domain.OrderFact{
		{OrderID: "O1", TotalAmountCents: 999},
		{OrderID: "O2", TotalAmountCents: 200},
	}
	if err := store.InsertOrders(ctx, second); err != nil {
		t.Fatalf("second insert failed: %v", err)
	}

	if store.OrderCount() != 2 {
		t.Errorf("expected 2 orders, got %d", store.OrderCount())
	}
	got, _ := store.GetOrder(ctx, "O1")
	if got.TotalAmountCents != 100 {
		t.Errorf("existing row was overwritten: got %d", got.TotalAmountCents)
	}
}

func TestFactStore_OrderItemsKeyedByLine(t *testing.T) {
	store := NewFactStore()
	ctx := context.Background()

	items := []*domain.OrderItemFact{
		{OrderID: "O1", StockCode: "S1", LineNumber: 2, Quantity: 1},
		{OrderID: "O1", StockCode: "S1", LineNumber: 1, Quantity: 3},
	}
	if err := store.InsertOrderItems(ctx, items); err != nil {
		t.Fatalf("InsertOrderItems failed: %v", err)
	}

	got, err := store.GetOrderItems(ctx, "O1")
	if err != nil {
		t.Fatalf("GetOrderItems failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	// Sorted by line number.
	if got[0].LineNumber != 1 || got[1].LineNumber != 2 {
		t.Errorf("expected line order 1,2, got %d,%d", got[0].LineNumber, got[1].LineNumber)
	}
}

func TestFactStore_GetOrderNotFound(t *testing.T) {
	store := NewFactStore()

	_, err := store.GetOrder(context.Background(), "missing")
	if !errors.Is(err, warehouse.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoader_EndToEnd(t *testing.T) {
	dims := NewDimensionStore()
	facts := NewFactStore()
	loader := warehouse.NewLoader(dims, facts, zerolog.Nop())

	orders := []*domain.OrderAggregate{
		{OrderID: "O1", CustomerID: "C1", ItemCount: 2, TotalAmountCents: 700,
			HeaderFields: map[string]string{"customer_city": "Natal"}},
	}
	rec := domain.NewRecord()
	rec.Fields["Description"] = "Blue mug"
	items := []domain.CleanedRecord{
		{Record: rec, InvoiceID: "O1", StockCode: "S1", Quantity: 2, UnitPrice: 3.5, TotalAmount: 7},
	}

	if err := loader.Load(context.Background(), orders, items); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if dims.CustomerCount() != 1 || dims.ProductCount() != 1 {
		t.Errorf("expected 1 customer and 1 product, got %d / %d", dims.CustomerCount(), dims.ProductCount())
	}
	order, err := facts.GetOrder(context.Background(), "O1")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.Currency != domain.DefaultCurrency || order.TotalAmountCents != 700 {
		t.Errorf("unexpected order fact: %+v", order)
	}
	lines, _ := facts.GetOrderItems(context.Background(), "O1")
	if len(lines) != 1 || lines[0].UnitPriceCents != 350 {
		t.Errorf("unexpected item facts: %+v", lines)
	}

	// Loading the same batch again must not duplicate anything.
	if err := loader.Load(context.Background(), orders, items); err != nil {
		t.Fatalf("re-load failed: %v", err)
	}
	if facts.OrderCount() != 1 || facts.ItemCount() != 1 {
		t.Errorf("re-load duplicated facts: %d orders, %d items", facts.OrderCount(), facts.ItemCount())
	}
}
