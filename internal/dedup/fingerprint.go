// Package dedup removes duplicate records by content-addressed fingerprint.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"commerce-etl-lab/internal/domain"
)

// DefaultKeyFields is the legacy retail export key set. Callers with a
// different dataset shape must pass their own key fields.
var DefaultKeyFields = []string{"InvoiceNo", "StockCode", "invoice_date", "quantity", "unit_price"}

// Fingerprint computes a deterministic digest over the ordered key-field
// values joined by "|". Formula: SHA256(v1|v2|...|vn), hex-encoded.
// Absent fields contribute the empty string.
func Fingerprint(rec domain.Record, keyFields []string) string {
	values := make([]string, len(keyFields))
	for i, f := range keyFields {
		values[i] = rec.Get(f)
	}
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
