package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"commerce-etl-lab/internal/domain"
)

// WriteQualityReport serializes the quality report as indented JSON,
// independent of the tabular output's format.
func WriteQualityReport(path string, report domain.QualityReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quality report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
