package queryservice

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"commerce-etl-lab/internal/warehouse"
	pgstore "commerce-etl-lab/internal/warehouse/postgres"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// orderResponse is the wire shape for a single order fact.
type orderResponse struct {
	OrderID     string  `json:"order_id"`
	CustomerID  string  `json:"customer_id,omitempty"`
	InvoiceDate string  `json:"invoice_date,omitempty"`
	ItemCount   int64   `json:"item_count"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
}

// customerRevenueResponse ranks a customer by warehouse revenue.
type customerRevenueResponse struct {
	CustomerID string  `json:"customer_id"`
	OrderCount int64   `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

// summaryResponse reports dataset-level totals.
type summaryResponse struct {
	Orders       int64   `json:"orders"`
	OrderItems   int64   `json:"order_items"`
	Customers    int64   `json:"customers"`
	Products     int64   `json:"products"`
	TotalRevenue float64 `json:"total_revenue"`
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	query := `
		SELECT order_id, COALESCE(customer_id, ''), COALESCE(invoice_date::text, ''),
		       item_count, total_amount_cents, currency
		FROM fact_orders
		ORDER BY order_id
		LIMIT $1
	`
	rows, err := s.pool.Query(r.Context(), query, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("query orders")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	defer rows.Close()

	orders := make([]orderResponse, 0, limit)
	for rows.Next() {
		var o orderResponse
		var cents int64
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.InvoiceDate, &o.ItemCount, &cents, &o.Currency); err != nil {
			s.log.Error().Err(err).Msg("scan order row")
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}
		o.TotalAmount = float64(cents) / 100
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		s.log.Error().Err(err).Msg("iterate order rows")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	store := pgstore.NewFactStore(s.pool)
	fact, err := store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, warehouse.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("order %s not found", orderID))
			return
		}
		s.log.Error().Err(err).Str("order_id", orderID).Msg("get order")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{
		OrderID:     fact.OrderID,
		CustomerID:  fact.CustomerID,
		InvoiceDate: fact.InvoiceDateISO,
		ItemCount:   fact.ItemCount,
		TotalAmount: float64(fact.TotalAmountCents) / 100,
		Currency:    fact.Currency,
	})
}

func (s *Server) handleTopCustomers(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	query := `
		SELECT customer_id, COUNT(*), SUM(total_amount_cents)
		FROM fact_orders
		WHERE customer_id IS NOT NULL AND customer_id <> ''
		GROUP BY customer_id
		ORDER BY SUM(total_amount_cents) DESC, customer_id
		LIMIT $1
	`
	rows, err := s.pool.Query(r.Context(), query, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("query top customers")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	defer rows.Close()

	customers := make([]customerRevenueResponse, 0, limit)
	for rows.Next() {
		var c customerRevenueResponse
		var cents int64
		if err := rows.Scan(&c.CustomerID, &c.OrderCount, &cents); err != nil {
			s.log.Error().Err(err).Msg("scan customer row")
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}
		c.TotalSpent = float64(cents) / 100
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		s.log.Error().Err(err).Msg("iterate customer rows")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM fact_orders),
			(SELECT COUNT(*) FROM fact_order_items),
			(SELECT COUNT(*) FROM dim_customers),
			(SELECT COUNT(*) FROM dim_products),
			(SELECT COALESCE(SUM(total_amount_cents), 0) FROM fact_orders)
	`

	var resp summaryResponse
	var cents int64
	err := s.pool.QueryRow(r.Context(), query).Scan(
		&resp.Orders, &resp.OrderItems, &resp.Customers, &resp.Products, &cents,
	)
	if err != nil {
		s.log.Error().Err(err).Msg("query summary")
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	resp.TotalRevenue = float64(cents) / 100

	writeJSON(w, http.StatusOK, resp)
}

func parseLimit(r *http.Request) int {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
