package warehouse

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"commerce-etl-lab/internal/domain"
	"commerce-etl-lab/internal/money"
)

// Source columns consulted when building dimension rows.
var (
	customerCityAliases    = []string{"customer_city", "City", "city"}
	customerStateAliases   = []string{"customer_state", "State", "state"}
	customerCountryAliases = []string{"Country", "country"}
	productDescAliases     = []string{"Description", "description", "product_name"}
	productCategoryAliases = []string{"product_category_name", "Category", "category"}
)

// Loader appends a completed pipeline run into the star schema:
// dimensions first (upsert), then facts (idempotent insert). The loader
// owns write-time conflict handling; the pipeline core only emits rows.
type Loader struct {
	dims  DimensionStore
	facts FactStore
	log   zerolog.Logger
}

// NewLoader creates a loader over the given stores.
func NewLoader(dims DimensionStore, facts FactStore, log zerolog.Logger) *Loader {
	return &Loader{dims: dims, facts: facts, log: log}
}

// Load converts the run output into warehouse rows and writes them.
// Dimension rows are deduplicated by natural key within the batch.
func (l *Loader) Load(
	ctx context.Context,
	orders []*domain.OrderAggregate,
	items []domain.CleanedRecord,
) error {
	customers := buildCustomerDims(orders)
	products := buildProductDims(items)

	if err := l.dims.UpsertCustomers(ctx, customers); err != nil {
		return fmt.Errorf("upsert customers: %w", err)
	}
	if err := l.dims.UpsertProducts(ctx, products); err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}

	orderFacts := BuildOrderFacts(orders)
	if err := l.facts.InsertOrders(ctx, orderFacts); err != nil {
		return fmt.Errorf("insert order facts: %w", err)
	}

	itemFacts := BuildOrderItemFacts(items)
	if err := l.facts.InsertOrderItems(ctx, itemFacts); err != nil {
		return fmt.Errorf("insert order item facts: %w", err)
	}

	l.log.Info().
		Int("customers", len(customers)).
		Int("products", len(products)).
		Int("orders", len(orderFacts)).
		Int("order_items", len(itemFacts)).
		Msg("warehouse load completed")

	return nil
}

// BuildOrderFacts converts order aggregates to fact rows, sorted by
// order ID.
func BuildOrderFacts(orders []*domain.OrderAggregate) []*domain.OrderFact {
	out := make([]*domain.OrderFact, 0, len(orders))
	for _, o := range orders {
		out = append(out, &domain.OrderFact{
			OrderID:          o.OrderID,
			CustomerID:       o.CustomerID,
			InvoiceDateISO:   o.InvoiceDateISO,
			ItemCount:        o.ItemCount,
			TotalAmountCents: o.TotalAmountCents,
			Currency:         domain.DefaultCurrency,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

// BuildOrderItemFacts converts cleaned line items to fact rows. Line
// numbers are assigned per order in input order, starting at 1.
func BuildOrderItemFacts(items []domain.CleanedRecord) []*domain.OrderItemFact {
	lineNumbers := make(map[string]int)
	out := make([]*domain.OrderItemFact, 0, len(items))
	for i := range items {
		item := &items[i]
		lineNumbers[item.InvoiceID]++
		out = append(out, &domain.OrderItemFact{
			OrderID:          item.InvoiceID,
			StockCode:        item.StockCode,
			LineNumber:       lineNumbers[item.InvoiceID],
			Quantity:         item.Quantity,
			UnitPriceCents:   money.FromFloat(item.UnitPrice).Cents(),
			TotalAmountCents: money.FromFloat(item.TotalAmount).Cents(),
			InvoiceDateISO:   item.InvoiceDateISO,
		})
	}
	return out
}

func buildCustomerDims(orders []*domain.OrderAggregate) []*domain.CustomerDim {
	byID := make(map[string]*domain.CustomerDim)
	for _, o := range orders {
		if o.CustomerID == "" {
			continue
		}
		if _, ok := byID[o.CustomerID]; ok {
			continue
		}
		rec := domain.Record{Fields: o.HeaderFields}
		dim := &domain.CustomerDim{CustomerID: o.CustomerID}
		dim.City, _ = rec.GetAny(customerCityAliases...)
		dim.State, _ = rec.GetAny(customerStateAliases...)
		dim.Country, _ = rec.GetAny(customerCountryAliases...)
		byID[o.CustomerID] = dim
	}
	return sortedDims(byID)
}

func buildProductDims(items []domain.CleanedRecord) []*domain.ProductDim {
	byCode := make(map[string]*domain.ProductDim)
	for i := range items {
		item := &items[i]
		if _, ok := byCode[item.StockCode]; ok {
			continue
		}
		dim := &domain.ProductDim{StockCode: item.StockCode}
		dim.Description, _ = item.GetAny(productDescAliases...)
		dim.Category, _ = item.GetAny(productCategoryAliases...)
		byCode[item.StockCode] = dim
	}

	out := make([]*domain.ProductDim, 0, len(byCode))
	for _, d := range byCode {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockCode < out[j].StockCode })
	return out
}

func sortedDims(byID map[string]*domain.CustomerDim) []*domain.CustomerDim {
	out := make([]*domain.CustomerDim, 0, len(byID))
	for _, d := range byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}
