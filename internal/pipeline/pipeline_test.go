package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"commerce-etl-lab/internal/ingest"
)

const itemsCSV = `InvoiceNo,StockCode,customer_id,Quantity,UnitPrice,InvoiceDate
O1,S1,C1,2,10.00,2024-01-15 10:30:00
O1,S2,C1,1,5.00,2024-01-15 10:30:00
O1,S2,C1,1,5.00,2024-01-15 10:30:00
O2,S1,C2,3,10.00,2024-02-20 09:00:00
O3,S3,C1,-1,4.00,2024-03-01 12:00:00
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestPipeline_Run(t *testing.T) {
	dir := t.TempDir()
	itemsPath := writeFixture(t, dir, "items.csv", itemsCSV)
	outDir := filepath.Join(dir, "out")

	result, err := New("orders", itemsPath, outDir).
		WithClock(fixedClock).
		Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	r := result.Report
	if r.TotalRecords != 5 {
		t.Errorf("expected 5 total records, got %d", r.TotalRecords)
	}
	if r.DuplicateRecords != 1 {
		t.Errorf("expected 1 duplicate, got %d", r.DuplicateRecords)
	}
	// The negative-quantity record fails validation but is not dropped.
	if r.InvalidRecords != 1 {
		t.Errorf("expected 1 invalid record, got %d", r.InvalidRecords)
	}
	if r.ValidRecords != 3 {
		t.Errorf("expected 3 valid records, got %d", r.ValidRecords)
	}

	if len(result.Orders) != 3 {
		t.Errorf("expected 3 orders, got %d", len(result.Orders))
	}
	// O1 = 2*10.00 + 1*5.00 after dedup removed the repeated 5.00 line.
	if result.Orders[0].OrderID != "O1" || result.Orders[0].TotalAmountCents != 2500 {
		t.Errorf("unexpected O1 aggregate: %+v", result.Orders[0])
	}

	if _, err := os.Stat(result.OrdersCSVPath); err != nil {
		t.Errorf("orders CSV not written: %v", err)
	}
	if _, err := os.Stat(result.ReportPath); err != nil {
		t.Errorf("quality report not written: %v", err)
	}
}

func TestPipeline_RerunIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	itemsPath := writeFixture(t, dir, "items.csv", itemsCSV)
	outDir := filepath.Join(dir, "out")

	p := New("orders", itemsPath, outDir).WithClock(fixedClock)

	first, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstCSV, _ := os.ReadFile(first.OrdersCSVPath)
	firstReport, _ := os.ReadFile(first.ReportPath)

	second, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	secondCSV, _ := os.ReadFile(second.OrdersCSVPath)
	secondReport, _ := os.ReadFile(second.ReportPath)

	if !bytes.Equal(firstCSV, secondCSV) {
		t.Error("orders CSV differs between identical runs")
	}
	if !bytes.Equal(firstReport, secondReport) {
		t.Error("quality report differs between identical runs")
	}
}

func TestPipeline_MissingSourceLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	_, err := New("orders", filepath.Join(dir, "absent.csv"), outDir).
		WithClock(fixedClock).
		Run(context.Background())

	if !errors.Is(err, ingest.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(outDir, OrdersOutputFile)); !os.IsNotExist(statErr) {
		t.Error("orders CSV must not exist after a fatal source error")
	}
	if _, statErr := os.Stat(filepath.Join(outDir, QualityReportFile)); !os.IsNotExist(statErr) {
		t.Error("quality report must not exist after a fatal source error")
	}
}

func TestPipeline_OrderHeadersJoin(t *testing.T) {
	dir := t.TempDir()
	itemsPath := writeFixture(t, dir, "items.csv",
		"order_id,product_id,quantity,unit_price\nO1,S1,2,3.00\nO2,S1,1,4.00\n")
	headersPath := writeFixture(t, dir, "orders.csv",
		"order_id,customer_id,invoice_date\nO1,C1,2024-01-01\nO2,C1,2024-03-01\n")
	outDir := filepath.Join(dir, "out")

	result, err := New("orders", itemsPath, outDir).
		WithOrderHeaders(headersPath).
		WithClock(fixedClock).
		Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(result.Customers))
	}
	m := result.Customers[0]
	if m.CustomerID != "C1" || m.OrderCount != 2 {
		t.Errorf("unexpected customer metrics: %+v", m)
	}
	// (6.00 + 4.00)lifetime: AOV 5.00, 60-day span = 2 months, freq 1.
	if m.AvgOrderValue != 5 {
		t.Errorf("expected AOV 5, got %f", m.AvgOrderValue)
	}
}

func TestPipeline_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	itemsPath := writeFixture(t, dir, "items.csv", itemsCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New("orders", itemsPath, filepath.Join(dir, "out")).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
