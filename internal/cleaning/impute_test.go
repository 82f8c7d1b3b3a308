package cleaning

import (
	"testing"

	"commerce-etl-lab/internal/domain"
)

func cleanedRec(qty int64, qtyMissing bool, price float64, priceMissing bool) domain.CleanedRecord {
	return domain.CleanedRecord{
		Record:           domain.NewRecord(),
		InvoiceID:        "I",
		StockCode:        "S",
		Quantity:         qty,
		UnitPrice:        price,
		TotalAmount:      float64(qty) * price,
		QuantityMissing:  qtyMissing,
		UnitPriceMissing: priceMissing,
	}
}

func TestImpute_Mean(t *testing.T) {
	records := []domain.CleanedRecord{
		cleanedRec(2, false, 10, false),
		cleanedRec(4, false, 20, false),
		cleanedRec(0, true, 0, true),
	}

	n := Impute(records, StrategyMean)

	if n != 2 {
		t.Errorf("expected 2 values imputed, got %d", n)
	}
	if records[2].Quantity != 3 {
		t.Errorf("expected mean quantity 3, got %d", records[2].Quantity)
	}
	if records[2].UnitPrice != 15 {
		t.Errorf("expected mean price 15, got %v", records[2].UnitPrice)
	}
	if records[2].TotalAmount != 45 {
		t.Errorf("expected recomputed total 45, got %v", records[2].TotalAmount)
	}
}

func TestImpute_Median(t *testing.T) {
	records := []domain.CleanedRecord{
		cleanedRec(1, false, 1, false),
		cleanedRec(2, false, 2, false),
		cleanedRec(100, false, 100, false),
		cleanedRec(0, true, 0, true),
	}

	Impute(records, StrategyMedian)

	// Median of {1, 2, 100} = 2; outlier does not skew the fill.
	if records[3].Quantity != 2 {
		t.Errorf("expected median quantity 2, got %d", records[3].Quantity)
	}
	if records[3].UnitPrice != 2 {
		t.Errorf("expected median price 2, got %v", records[3].UnitPrice)
	}
}

func TestImpute_MedianEvenCount(t *testing.T) {
	records := []domain.CleanedRecord{
		cleanedRec(0, false, 1, false),
		cleanedRec(0, false, 3, false),
		cleanedRec(0, false, 0, true),
	}

	Impute(records, StrategyMedian)

	// Even count: midpoint of 1 and 3 = 2
	if records[2].UnitPrice != 2 {
		t.Errorf("expected midpoint 2, got %v", records[2].UnitPrice)
	}
}

func TestImpute_ModeTieBreaksLow(t *testing.T) {
	records := []domain.CleanedRecord{
		cleanedRec(0, false, 5, false),
		cleanedRec(0, false, 5, false),
		cleanedRec(0, false, 3, false),
		cleanedRec(0, false, 3, false),
		cleanedRec(0, false, 0, true),
	}

	Impute(records, StrategyMode)

	// 3 and 5 both appear twice; the smaller value wins for determinism.
	if records[4].UnitPrice != 3 {
		t.Errorf("expected tie to resolve to 3, got %v", records[4].UnitPrice)
	}
}

func TestImpute_NeverOverwritesLegitimateValues(t *testing.T) {
	records := []domain.CleanedRecord{
		cleanedRec(0, false, 0, false), // legitimate zeros
		cleanedRec(5, false, 9, false),
	}

	n := Impute(records, StrategyMean)

	if n != 0 {
		t.Errorf("expected no imputation, got %d", n)
	}
	if records[0].Quantity != 0 || records[0].UnitPrice != 0 {
		t.Error("legitimate zero was overwritten")
	}
}

func TestImpute_AllMissingLeavesZeros(t *testing.T) {
	// No non-missing values to compute a statistic from.
	records := []domain.CleanedRecord{
		cleanedRec(0, true, 0, true),
		cleanedRec(0, true, 0, true),
	}

	n := Impute(records, StrategyMean)

	if n != 0 {
		t.Errorf("expected no imputation with no observed values, got %d", n)
	}
	if !records[0].QuantityMissing {
		t.Error("missing flag must survive when nothing could be imputed")
	}
}

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in   string
		want Strategy
	}{
		{"mean", StrategyMean},
		{"median", StrategyMedian},
		{"mode", StrategyMode},
		{"", StrategyNone},
		{"bogus", StrategyNone},
	}
	for _, c := range cases {
		if got := ParseStrategy(c.in); got != c.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
