package quality

import (
	"strconv"

	"commerce-etl-lab/internal/domain"
)

// null-equivalent raw values in legacy exports
var nullValues = map[string]struct{}{
	"":     {},
	"NULL": {},
	"null": {},
	"N/A":  {},
}

// ProfileFields scans a batch of raw records and records per-field null
// counts and profile metrics (length range, numeric ratio, completeness)
// into the ledger. Fields are the union of all fields seen in the batch.
func ProfileFields(records []domain.Record, ledger *Ledger) {
	if len(records) == 0 {
		return
	}

	type fieldStats struct {
		minLen, maxLen int
		numeric        int
		present        int
	}
	stats := make(map[string]*fieldStats)

	fieldSet := make(map[string]struct{})
	for _, rec := range records {
		for f := range rec.Fields {
			fieldSet[f] = struct{}{}
		}
	}

	total := len(records)
	for field := range fieldSet {
		st := &fieldStats{minLen: -1}
		nulls := 0
		for _, rec := range records {
			v := rec.Get(field)
			if _, isNull := nullValues[v]; isNull {
				nulls++
				continue
			}
			st.present++
			if st.minLen < 0 || len(v) < st.minLen {
				st.minLen = len(v)
			}
			if len(v) > st.maxLen {
				st.maxLen = len(v)
			}
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				st.numeric++
			}
		}
		stats[field] = st
		ledger.RecordNullCount(field, nulls)
	}

	for field, st := range stats {
		if st.present == 0 {
			continue
		}
		minLen := st.minLen
		if minLen < 0 {
			minLen = 0
		}
		ledger.RecordFieldMetric(field, domain.FieldMetric{
			MinLength:    minLen,
			MaxLength:    st.maxLen,
			IsNumeric:    float64(st.numeric)/float64(st.present) > 0.9,
			Completeness: float64(st.present) / float64(total) * 100,
		})
	}
}
