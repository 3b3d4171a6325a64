package memories

// FilterAll disables a filter criterion.
const FilterAll = "all"

// TripFilter narrows an already-loaded trip list. Empty or FilterAll fields match everything.
type TripFilter struct {
	// Month is a Thai month abbreviation matched against start_date.
	Month string
	// Location is matched exactly against park_name.
	Location string
}

func (f TripFilter) active(v string) bool {
	return v != "" && v != FilterAll
}

// Match reports whether m satisfies every active criterion.
func (f TripFilter) Match(m Memory) bool {
	if f.active(f.Month) && ThaiMonthAbbrev(m.StartDate) != f.Month {
		return false
	}
	if f.active(f.Location) && m.ParkName != f.Location {
		return false
	}
	return true
}

// ActiveCount is the number of criteria in effect.
func (f TripFilter) ActiveCount() int {
	n := 0
	for _, v := range []string{f.Month, f.Location} {
		if f.active(v) {
			n++
		}
	}
	return n
}

// FilterTrips returns the trips matching f, preserving order.
func FilterTrips(trips []Memory, f TripFilter) []Memory {
	out := make([]Memory, 0, len(trips))
	for _, m := range trips {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// Locations returns the distinct park names in first-seen order.
func Locations(trips []Memory) []string {
	seen := make(map[string]bool, len(trips))
	var out []string
	for _, m := range trips {
		if m.ParkName == "" || seen[m.ParkName] {
			continue
		}
		seen[m.ParkName] = true
		out = append(out, m.ParkName)
	}
	return out
}

// MonthOptions lists the month filter choices, FilterAll first then December back to January.
func MonthOptions() []string {
	out := []string{FilterAll}
	for i := len(ThaiMonths) - 1; i >= 0; i-- {
		out = append(out, ThaiMonths[i])
	}
	return out
}
