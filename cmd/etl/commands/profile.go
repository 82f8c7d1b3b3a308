package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"commerce-etl-lab/internal/ingest"
	"commerce-etl-lab/internal/quality"
)

// profileCmd inspects a staged CSV without transforming it.
var profileCmd = &cobra.Command{
	Use:   "profile [file]",
	Short: "Profile a staged CSV export",
	Long: `Read a CSV export and print per-field metrics: completeness,
observed length range, and whether the column is predominantly numeric.
No output files are written.

Example:
  etl profile data/staging/order_items.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	records, _, err := ingest.ReadCSV(args[0])
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	ledger := quality.NewLedger("profile")
	quality.ProfileFields(records, ledger)
	report := ledger.Report()

	fields := make([]string, 0, len(report.FieldMetrics))
	for name := range report.FieldMetrics {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	fmt.Printf("Records: %d\n\n", len(records))
	fmt.Printf("%-30s %12s %10s %10s %8s %8s\n",
		"FIELD", "COMPLETENESS", "MIN LEN", "MAX LEN", "NUMERIC", "NULLS")
	for _, name := range fields {
		m := report.FieldMetrics[name]
		fmt.Printf("%-30s %11.1f%% %10d %10d %8v %8d\n",
			name, m.Completeness, m.MinLength, m.MaxLength,
			m.IsNumeric, report.NullCounts[name])
	}

	return nil
}
