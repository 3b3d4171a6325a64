package memories

import (
	"testing"
	"time"
)

func TestDurationDays(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-01-03", 3},
		{"2024-01-01", "2024-01-01", 1},
		{"2024-02-28", "2024-03-01", 3},
		{"2024-01-03", "2024-01-01", -1},
	}
	for _, tt := range tests {
		s, err := ParseDate(tt.start)
		if err != nil {
			t.Fatalf("ParseDate(%s): %v", tt.start, err)
		}
		e, err := ParseDate(tt.end)
		if err != nil {
			t.Fatalf("ParseDate(%s): %v", tt.end, err)
		}
		if got := DurationDays(s, e); got != tt.want {
			t.Errorf("DurationDays(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestParseDate_RFC3339(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-02-01T00:00:00.000Z", "2024-02-01"},
		// 17:00 UTC is already the next day in Bangkok.
		{"2024-01-31T17:00:00Z", "2024-02-01"},
		{"2024-01-31T16:59:59Z", "2024-01-31"},
		{"2024-02-01T23:30:00+07:00", "2024-02-01"},
		{"2024-02-01T10:00:00", "2024-02-01"},
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.in)
		if err != nil {
			t.Fatalf("ParseDate(%s) failed: %v", tt.in, err)
		}
		if got := d.Format(time.DateOnly); got != tt.want {
			t.Errorf("ParseDate(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if _, err := ParseDate("01/02/2024"); err == nil {
		t.Errorf("expected an error for a non-ISO date")
	}
}

func TestThaiMonthAbbrev(t *testing.T) {
	if got := ThaiMonthAbbrev("2024-01-15"); got != "ม.ค." {
		t.Errorf("expected ม.ค., got %s", got)
	}
	if got := ThaiMonthAbbrev("2024-01-31T17:00:00Z"); got != "ก.พ." {
		t.Errorf("a late-evening UTC timestamp belongs to the next Bangkok day, got %s", got)
	}
	if got := ThaiMonthAbbrev("2024-12-31T00:00:00Z"); got != "ธ.ค." {
		t.Errorf("expected ธ.ค., got %s", got)
	}
	if got := ThaiMonthAbbrev("garbage"); got != "" {
		t.Errorf("expected empty string, got %s", got)
	}
}

func TestFormatTripDate(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"2024-02-01", "2024-02-03", "1 ก.พ. - 3 ก.พ. 67"},
		{"2023-12-30T00:00:00Z", "2024-01-02T00:00:00Z", "30 ธ.ค. - 2 ม.ค. 66"},
		{"", "2024-01-02", "-"},
		{"soon", "later", "soon - later"},
	}
	for _, tt := range tests {
		if got := FormatTripDate(tt.start, tt.end); got != tt.want {
			t.Errorf("FormatTripDate(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestFormatShortDate(t *testing.T) {
	if got := FormatShortDate("2024-02-01"); got != "01/02/2024" {
		t.Errorf("unexpected short date: %s", got)
	}
}
