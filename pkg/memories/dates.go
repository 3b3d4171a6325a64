package memories

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Day is the unit of trip duration.
const Day = 24 * time.Hour

// ThaiMonths are the abbreviated Thai month names, January first.
var ThaiMonths = [12]string{"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.", "ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค."}

const buddhistEraOffset = 543

// Location is the zone timestamps are read in before their calendar date is
// taken. Trips are in Thailand, which has no daylight saving.
var Location = time.FixedZone("Asia/Bangkok", 7*60*60)

// ParseDate accepts YYYY-MM-DD and RFC3339 timestamps. Only the calendar date
// is kept; the result is midnight UTC. A timestamp counts on the day it falls
// on in Location, so 2024-01-31T17:00:00Z is 1 February.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			y, m, d := ts.In(Location).Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
		// No zone: take the written date.
		s = s[:i]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s': %w", s, err)
	}
	return t, nil
}

// DurationDays is the inclusive day count ceil((end-start)/day)+1.
func DurationDays(start, end time.Time) int {
	return int(math.Ceil(float64(end.Sub(start))/float64(Day))) + 1
}

// ThaiMonthAbbrev returns the Thai month abbreviation of date, or "" if it does not parse.
func ThaiMonthAbbrev(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return ThaiMonths[t.Month()-1]
}

// FormatTripDate renders a range like "1 ก.พ. - 3 ก.พ. 67" with the
// two-digit Buddhist-era year of the start date.
func FormatTripDate(start, end string) string {
	if start == "" || end == "" {
		return "-"
	}
	s, err1 := ParseDate(start)
	e, err2 := ParseDate(end)
	if err1 != nil || err2 != nil {
		return start + " - " + end
	}
	year := strconv.Itoa(s.Year() + buddhistEraOffset)
	if len(year) > 2 {
		year = year[len(year)-2:]
	}
	return fmt.Sprintf("%d %s - %d %s %s", s.Day(), ThaiMonths[s.Month()-1], e.Day(), ThaiMonths[e.Month()-1], year)
}

// FormatShortDate renders DD/MM/YYYY (Gregorian), or the input when it does not parse.
func FormatShortDate(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
