package domain

// Record represents one raw source row as a field-name -> value mapping.
// Values are kept as strings exactly as read; interpretation is deferred
// to the cleaner so malformed data surfaces as a data-quality problem,
// not an I/O error.
type Record struct {
	Fields map[string]string
}

// NewRecord creates an empty record.
func NewRecord() Record {
	return Record{Fields: make(map[string]string)}
}

// Get returns the raw value for a field name, or "" if absent.
func (r Record) Get(field string) string {
	return r.Fields[field]
}

// GetAny returns the first non-empty value among the given field aliases.
// Returns "" and false when none of the aliases carry a value.
func (r Record) GetAny(aliases ...string) (string, bool) {
	for _, a := range aliases {
		if v, ok := r.Fields[a]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the record. Pipeline stages that derive new
// rows must not mutate their input.
func (r Record) Clone() Record {
	out := Record{Fields: make(map[string]string, len(r.Fields))}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}
