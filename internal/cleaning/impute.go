package cleaning

import (
	"sort"

	"commerce-etl-lab/internal/domain"
)

// Strategy selects how missing numeric fields are filled in the second
// pass. The batch must be fully materialized: statistics are computed
// over all non-missing values before any overwrite.
type Strategy string

const (
	StrategyNone   Strategy = ""
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyMode   Strategy = "mode"
)

// ParseStrategy maps a config string to a Strategy, defaulting to none.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyMean, StrategyMedian, StrategyMode:
		return Strategy(s)
	default:
		return StrategyNone
	}
}

// Impute overwrites quantity and unit price on records flagged missing,
// using the chosen statistic over the non-missing values in the batch.
// A legitimately parsed zero is never overwritten. Total amounts are
// recomputed for touched records so the total/quantity/price invariant
// holds. Returns the number of field values overwritten.
func Impute(records []domain.CleanedRecord, strategy Strategy) int {
	if len(records) == 0 || strategy == StrategyNone {
		return 0
	}

	var qtys, prices []float64
	for i := range records {
		if !records[i].QuantityMissing {
			qtys = append(qtys, float64(records[i].Quantity))
		}
		if !records[i].UnitPriceMissing {
			prices = append(prices, records[i].UnitPrice)
		}
	}

	qtyFill, qtyOK := statistic(qtys, strategy)
	priceFill, priceOK := statistic(prices, strategy)

	imputed := 0
	for i := range records {
		touched := false
		if records[i].QuantityMissing && qtyOK {
			records[i].Quantity = int64(qtyFill)
			records[i].QuantityMissing = false
			imputed++
			touched = true
		}
		if records[i].UnitPriceMissing && priceOK {
			records[i].UnitPrice = priceFill
			records[i].UnitPriceMissing = false
			imputed++
			touched = true
		}
		if touched {
			records[i].TotalAmount = float64(records[i].Quantity) * records[i].UnitPrice
		}
	}
	return imputed
}

func statistic(values []float64, strategy Strategy) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	switch strategy {
	case StrategyMean:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), true
	case StrategyMedian:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 != 0 {
			return sorted[mid], true
		}
		return (sorted[mid-1] + sorted[mid]) / 2, true
	case StrategyMode:
		counts := make(map[float64]int)
		for _, v := range values {
			counts[v]++
		}
		best, bestCount := 0.0, 0
		// Ties resolve to the smaller value for determinism.
		for v, n := range counts {
			if n > bestCount || (n == bestCount && v < best) {
				best, bestCount = v, n
			}
		}
		return best, true
	default:
		return 0, false
	}
}
