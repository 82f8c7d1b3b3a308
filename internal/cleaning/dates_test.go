package cleaning

import "testing"

func TestNormalizeDate_SupportedFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-15 10:30:00", "2024-01-15 10:30:00"},
		{"2024-01-15", "2024-01-15 00:00:00"},
		{"15/01/2024 10:30", "2024-01-15 10:30:00"},
		{"15/01/2024", "2024-01-15 00:00:00"},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeDate_Unparseable(t *testing.T) {
	cases := []string{"", "not a date", "2024-13-45", "01-15-2024"}
	for _, in := range cases {
		if got := NormalizeDate(in); got != "" {
			t.Errorf("NormalizeDate(%q) = %q, want empty", in, got)
		}
	}
}

func TestParseNormalized(t *testing.T) {
	tm, ok := ParseNormalized("2024-01-15 10:30:00")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if tm.Year() != 2024 || tm.Month() != 1 || tm.Day() != 15 {
		t.Errorf("unexpected time %v", tm)
	}

	if _, ok := ParseNormalized(""); ok {
		t.Error("expected empty string to fail")
	}
}
