package memories

// VisitedLocation is one park on the visited map.
type VisitedLocation struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Trips int     `json:"trips"`
}

// VisitedLocations groups trips with coordinates by park name. The first trip
// seen for a park supplies its coordinates.
func VisitedLocations(trips []Memory) []VisitedLocation {
	index := make(map[string]int)
	var out []VisitedLocation
	for _, m := range trips {
		if !m.HasLocation() {
			continue
		}
		if i, ok := index[m.ParkName]; ok {
			out[i].Trips++
			continue
		}
		index[m.ParkName] = len(out)
		out = append(out, VisitedLocation{Name: m.ParkName, Lat: *m.LocationLat, Lng: *m.LocationLng, Trips: 1})
	}
	return out
}

// TotalExpense sums the server-computed totals of trips.
func TotalExpense(trips []Memory) float64 {
	var sum float64
	for _, m := range trips {
		sum += float64(m.TotalExpense)
	}
	return sum
}
