package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadCSV_Basic(t *testing.T) {
	path := writeFile(t, "InvoiceNo,StockCode,Quantity\nI1,S1,2\nI2,S2,3\n")

	records, header, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(header) != 3 || header[0] != "InvoiceNo" {
		t.Errorf("unexpected header: %v", header)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Get("InvoiceNo") != "I1" || records[1].Get("Quantity") != "3" {
		t.Errorf("unexpected field values: %+v", records)
	}
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, _, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))

	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestReadCSV_ShortRowLeavesFieldsAbsent(t *testing.T) {
	path := writeFile(t, "a,b,c\n1,2\n")

	records, _, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if _, ok := records[0].Fields["c"]; ok {
		t.Error("expected field c absent for short row, not empty")
	}
	if records[0].Get("b") != "2" {
		t.Errorf("expected b=2, got %q", records[0].Get("b"))
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	path := writeFile(t, "a,b,c\n")

	records, header, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records, got %d", len(records))
	}
	if len(header) != 3 {
		t.Errorf("expected header preserved, got %v", header)
	}
}

func TestReadCSV_EmptyFile(t *testing.T) {
	path := writeFile(t, "")

	records, header, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("expected empty file to read cleanly, got %v", err)
	}
	if len(records) != 0 || len(header) != 0 {
		t.Errorf("expected no records and no header, got %d records", len(records))
	}
}
