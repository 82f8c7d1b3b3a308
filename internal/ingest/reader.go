// Package ingest reads raw records from delimited files and HTTP APIs.
// No type coercion happens here: values stay strings so malformed data
// reaches the quality ledger as a data problem, not an I/O error.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"commerce-etl-lab/internal/domain"
)

// ErrSourceNotFound is returned when the input path does not exist.
// This is the one fatal error class: no quality judgment is possible
// without a readable source.
var ErrSourceNotFound = errors.New("source file not found")

// ReadCSV parses a delimited file with a header row into records keyed by
// the header-declared field names, preserved verbatim. Short rows leave
// trailing fields absent; extra cells beyond the header are ignored.
// Returns the records and the header in source order.
func ReadCSV(path string) ([]domain.Record, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate missing/extra columns

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var records []domain.Record
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		rec := domain.NewRecord()
		for i, field := range header {
			if i < len(cells) {
				rec.Fields[field] = cells[i]
			}
		}
		records = append(records, rec)
	}

	return records, header, nil
}
