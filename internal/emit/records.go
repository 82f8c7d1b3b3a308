package emit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"commerce-etl-lab/internal/domain"
)

// WriteRecordsCSV writes raw records to a staging CSV. Columns are the
// sorted union of all fields seen, so the output is deterministic for
// the same input regardless of record order within a row.
func WriteRecordsCSV(path string, records []domain.Record) error {
	fieldSet := make(map[string]struct{})
	for _, rec := range records {
		for f := range rec.Fields {
			fieldSet[f] = struct{}{}
		}
	}
	columns := make([]string, 0, len(fieldSet))
	for f := range fieldSet {
		columns = append(columns, f)
	}
	sort.Strings(columns)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create staging csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec.Get(col)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush staging csv: %w", err)
	}
	return nil
}
