package dedup

import "commerce-etl-lab/internal/domain"

// Deduplicate returns the input records minus later occurrences of a
// previously seen fingerprint, plus the number of duplicates removed.
// First occurrence wins: for a fixed input order the output is fully
// deterministic, and reordering the input changes which record survives.
// That is the defined policy, not an accident.
//
// Records are filtered, never mutated. A nil or empty keyFields falls
// back to DefaultKeyFields.
func Deduplicate(records []domain.Record, keyFields []string) ([]domain.Record, int) {
	if len(records) == 0 {
		return nil, 0
	}
	if len(keyFields) == 0 {
		keyFields = DefaultKeyFields
	}

	seen := make(map[string]struct{}, len(records))
	unique := make([]domain.Record, 0, len(records))
	duplicates := 0

	for _, rec := range records {
		fp := Fingerprint(rec, keyFields)
		if _, ok := seen[fp]; ok {
			duplicates++
			continue
		}
		seen[fp] = struct{}{}
		unique = append(unique, rec)
	}

	return unique, duplicates
}
