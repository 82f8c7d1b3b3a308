package cleaning

import "time"

// dateFormats is the fixed, ordered list of accepted source formats.
// First successful parse wins.
var dateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// isoFormat is the normalized output layout.
const isoFormat = "2006-01-02 15:04:05"

// NormalizeDate parses a raw date string against the known formats and
// returns the ISO-8601 rendering, or "" when no format matches. It never
// fails; an unparseable date is a reported data problem, not an error.
func NormalizeDate(raw string) string {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(isoFormat)
		}
	}
	return ""
}

// ParseNormalized converts a previously normalized date back to a time.
// The ok result is false for "" or foreign layouts.
func ParseNormalized(iso string) (time.Time, bool) {
	t, err := time.Parse(isoFormat, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
