package memories

import (
	"reflect"
	"testing"
)

func sampleTrips() []Memory {
	lat, lng := 14.4392, 101.3725
	return []Memory{
		{ID: 1, ParkName: "เขาใหญ่", StartDate: "2024-01-10", LocationLat: &lat, LocationLng: &lng, TotalExpense: 1200},
		{ID: 2, ParkName: "ดอยอินทนนท์", StartDate: "2024-03-05T00:00:00Z", TotalExpense: 800.5},
		{ID: 3, ParkName: "เขาใหญ่", StartDate: "2023-01-20", LocationLat: &lat, LocationLng: &lng},
	}
}

func ids(trips []Memory) []int {
	out := []int{}
	for _, m := range trips {
		out = append(out, m.ID)
	}
	return out
}

func TestFilterTrips(t *testing.T) {
	trips := sampleTrips()

	tests := []struct {
		name   string
		filter TripFilter
		want   []int
	}{
		{"no filter", TripFilter{}, []int{1, 2, 3}},
		{"all sentinel", TripFilter{Month: FilterAll, Location: FilterAll}, []int{1, 2, 3}},
		{"january", TripFilter{Month: "ม.ค."}, []int{1, 3}},
		{"march", TripFilter{Month: "มี.ค."}, []int{2}},
		{"location", TripFilter{Location: "ดอยอินทนนท์"}, []int{2}},
		{"and combined", TripFilter{Month: "มี.ค.", Location: "เขาใหญ่"}, []int{}},
		{"unknown park", TripFilter{Location: "ภูกระดึง"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterTrips(trips, tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTripFilter_ActiveCount(t *testing.T) {
	if n := (TripFilter{Month: "ม.ค.", Location: FilterAll}).ActiveCount(); n != 1 {
		t.Errorf("expected 1 active filter, got %d", n)
	}
}

func TestLocations(t *testing.T) {
	got := Locations(sampleTrips())
	want := []string{"เขาใหญ่", "ดอยอินทนนท์"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMonthOptions(t *testing.T) {
	opts := MonthOptions()
	if len(opts) != 13 || opts[0] != FilterAll || opts[1] != "ธ.ค." || opts[12] != "ม.ค." {
		t.Errorf("unexpected month options: %v", opts)
	}
}

func TestVisitedLocations(t *testing.T) {
	got := VisitedLocations(sampleTrips())
	if len(got) != 1 {
		t.Fatalf("expected one visited location, got %d", len(got))
	}
	if got[0].Name != "เขาใหญ่" || got[0].Trips != 2 {
		t.Errorf("unexpected visited location: %+v", got[0])
	}
	if TotalExpense(sampleTrips()) != 2000.5 {
		t.Errorf("unexpected total expense: %v", TotalExpense(sampleTrips()))
	}
}

func TestParsePrivacyLevel(t *testing.T) {
	if p, err := ParsePrivacyLevel(" Friends "); err != nil || p != PrivacyFriends {
		t.Errorf("expected friends, got %q %v", p, err)
	}
	if _, err := ParsePrivacyLevel("everyone"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestFilterTrips_MonthInBangkok(t *testing.T) {
	trips := []Memory{
		{ID: 1, StartDate: "2024-01-31T17:00:00Z"},
		{ID: 2, StartDate: "2024-01-31T16:00:00Z"},
	}
	if got := ids(FilterTrips(trips, TripFilter{Month: "ก.พ."})); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("got %v, want [1]", got)
	}
}
