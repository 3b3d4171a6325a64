package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/geocode"
	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/session"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

type backend struct {
	mu           sync.Mutex
	trips        []memories.Memory
	created      []memories.CreateMemoryData
	deleted      []int
	privacyQuery string
}

func newBackend(t *testing.T) (*backend, *api.Client) {
	t.Helper()
	b := &backend{}
	r := chi.NewRouter()
	r.Get("/memory/my-memories", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.privacyQuery = r.URL.Query().Get("privacy_level")
		json.NewEncoder(w).Encode(memories.MemoryList{Memories: b.trips, Count: len(b.trips)})
	})
	r.Get("/memory/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(r, "id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, m := range b.trips {
			if m.ID == id {
				json.NewEncoder(w).Encode(map[string]any{"memory": m})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "ไม่พบข้อมูล"})
	})
	r.Post("/memory", func(w http.ResponseWriter, r *http.Request) {
		var data memories.CreateMemoryData
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.created = append(b.created, data)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"memory": memories.Memory{ID: 42, ParkName: data.ParkName, StartDate: data.StartDate, EndDate: data.EndDate}})
	})
	r.Delete("/memory/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(r, "id"))
		b.mu.Lock()
		b.deleted = append(b.deleted, id)
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	})
	r.Get("/memory/{id}/timelines", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"timelines": []memories.Timeline{{ID: 1, TimeLabel: "08:00", Title: "เดินป่า"}}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, api.New(srv.URL)
}

type stubGeocoder struct{ found bool }

func (g stubGeocoder) Search(ctx context.Context, name string) (geocode.Coordinates, bool, error) {
	return geocode.Coordinates{Lat: 14.4393, Lng: 101.3729}, g.found, nil
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestPing(t *testing.T) {
	text, isErr := call(t, pingHandler, nil)
	if isErr || text != "pong_journey" {
		t.Errorf("unexpected ping result %q", text)
	}
}

func TestListTrips_Filters(t *testing.T) {
	b, c := newBackend(t)
	b.trips = []memories.Memory{
		{ID: 1, ParkName: "เขาใหญ่", StartDate: "2024-02-01"},
		{ID: 2, ParkName: "ภูกระดึง", StartDate: "2024-02-10"},
		{ID: 3, ParkName: "เขาใหญ่", StartDate: "2024-12-20"},
	}
	h := listTripsHandler(Deps{Client: c})

	text, isErr := call(t, h, map[string]any{"month": "ก.พ.", "location": "เขาใหญ่", "privacy": "public"})
	if isErr {
		t.Fatalf("list_trips failed: %s", text)
	}
	var trips []memories.Memory
	if err := json.Unmarshal([]byte(text), &trips); err != nil {
		t.Fatalf("invalid JSON %q: %v", text, err)
	}
	if len(trips) != 1 || trips[0].ID != 1 {
		t.Errorf("unexpected trips: %+v", trips)
	}
	if b.privacyQuery != "public" {
		t.Errorf("expected privacy_level=public, got %q", b.privacyQuery)
	}

	text, _ = call(t, h, map[string]any{"month": "มี.ค."})
	if text != "[]" {
		t.Errorf("expected empty list, got %s", text)
	}

	if _, isErr := call(t, h, map[string]any{"privacy": "secret"}); !isErr {
		t.Errorf("expected an invalid privacy error")
	}
}

func TestGetTrip(t *testing.T) {
	b, c := newBackend(t)
	b.trips = []memories.Memory{{ID: 5, ParkName: "ดอยอินทนนท์"}}
	h := getTripHandler(Deps{Client: c})

	text, isErr := call(t, h, map[string]any{"id": float64(5)})
	if isErr || !strings.Contains(text, "ดอยอินทนนท์") {
		t.Errorf("unexpected get_trip result %q", text)
	}

	text, isErr = call(t, h, map[string]any{"id": float64(9)})
	if !isErr || !strings.Contains(text, "not found") {
		t.Errorf("expected not found, got %q", text)
	}

	if _, isErr := call(t, h, map[string]any{"id": "5"}); !isErr {
		t.Errorf("expected a parameter error for a string id")
	}
}

func TestCreateTrip(t *testing.T) {
	b, c := newBackend(t)
	h := createTripHandler(Deps{Client: c, Service: wizard.NewService(c), Geocoder: stubGeocoder{found: true}})

	text, isErr := call(t, h, map[string]any{
		"park_name":  "เขาใหญ่",
		"start_date": "2024-02-01",
		"end_date":   "2024-02-03",
		"geocode":    true,
		"places":     "น้ำตกเหวสุวัต, , ผาเดียวดาย",
		"expenses":   "อาหาร=350, ที่พัก=1200",
		"privacy":    "public",
	})
	if isErr {
		t.Fatalf("create_trip failed: %s", text)
	}
	if len(b.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(b.created))
	}
	data := b.created[0]
	if data.DurationDays != 3 || data.PrivacyLevel != memories.PrivacyPublic {
		t.Errorf("unexpected payload: %+v", data)
	}
	if data.LocationLat == nil || *data.LocationLat != 14.4393 {
		t.Errorf("expected geocoded latitude, got %v", data.LocationLat)
	}
	if len(data.Places) != 2 || len(data.Expenses) != 2 {
		t.Errorf("unexpected places/expenses: %+v %+v", data.Places, data.Expenses)
	}
	if !strings.Contains(text, `"id":42`) {
		t.Errorf("expected created trip JSON, got %s", text)
	}
}

func TestCreateTrip_Errors(t *testing.T) {
	b, c := newBackend(t)
	h := createTripHandler(Deps{Client: c, Service: wizard.NewService(c)})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"end before start", map[string]any{"park_name": "เขาใหญ่", "start_date": "2024-02-05", "end_date": "2024-02-01"}, wizard.MsgEndBeforeStart},
		{"missing park", map[string]any{"start_date": "2024-02-01", "end_date": "2024-02-01"}, wizard.MsgIncompleteLocation},
		{"bad expense", map[string]any{"park_name": "เขาใหญ่", "start_date": "2024-02-01", "end_date": "2024-02-01", "expenses": "ของฝาก=100"}, "unknown expense category"},
		{"bad pair", map[string]any{"park_name": "เขาใหญ่", "start_date": "2024-02-01", "end_date": "2024-02-01", "expenses": "อาหาร"}, "expected category=amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, h, tt.args)
			if !isErr || !strings.Contains(text, tt.want) {
				t.Errorf("expected error containing %q, got %q (isError=%v)", tt.want, text, isErr)
			}
		})
	}
	if len(b.created) != 0 {
		t.Errorf("no trip should be created, got %d", len(b.created))
	}
}

func TestDeleteTripAndTimelines(t *testing.T) {
	b, c := newBackend(t)
	deps := Deps{Client: c}

	if text, isErr := call(t, deleteTripHandler(deps), map[string]any{"id": float64(3)}); isErr {
		t.Fatalf("delete_trip failed: %s", text)
	}
	if len(b.deleted) != 1 || b.deleted[0] != 3 {
		t.Errorf("unexpected deletes: %v", b.deleted)
	}

	text, isErr := call(t, listTimelinesHandler(deps), map[string]any{"trip_id": float64(3)})
	if isErr || !strings.Contains(text, "เดินป่า") {
		t.Errorf("unexpected timelines result %q", text)
	}
}

func TestGeocodePark(t *testing.T) {
	text, isErr := call(t, geocodeParkHandler(Deps{Geocoder: stubGeocoder{found: true}}), map[string]any{"name": "เขาใหญ่"})
	if isErr || !strings.Contains(text, "14.4393") {
		t.Errorf("unexpected geocode result %q", text)
	}

	_, isErr = call(t, geocodeParkHandler(Deps{Geocoder: stubGeocoder{}}), map[string]any{"name": "ไม่มีที่นี่"})
	if !isErr {
		t.Errorf("expected not found error")
	}

	_, isErr = call(t, geocodeParkHandler(Deps{}), map[string]any{"name": "เขาใหญ่"})
	if !isErr {
		t.Errorf("expected not configured error")
	}
}

func TestTools_SignedOut(t *testing.T) {
	b, c := newBackend(t)
	b.trips = []memories.Memory{{ID: 1, ParkName: "เขาใหญ่", StartDate: "2024-02-01"}}

	ctx := context.Background()
	sess, err := session.Open(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sess.Close()
	if err := sess.SetToken(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	deps := Deps{Client: c, Session: sess}

	if _, isErr := call(t, listTripsHandler(deps), nil); isErr {
		t.Fatalf("list_trips should work while signed in")
	}

	if err := sess.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	handlers := map[string]server.ToolHandlerFunc{
		"list_trips":     listTripsHandler(deps),
		"get_trip":       getTripHandler(deps),
		"create_trip":    createTripHandler(deps),
		"delete_trip":    deleteTripHandler(deps),
		"list_timelines": listTimelinesHandler(deps),
	}
	args := map[string]any{"id": float64(1), "trip_id": float64(1), "park_name": "เขาใหญ่", "start_date": "2024-02-01", "end_date": "2024-02-03"}
	for name, h := range handlers {
		text, isErr := call(t, h, args)
		if !isErr || text != MsgSignedOut {
			t.Errorf("%s after sign-out: got %q (error %v)", name, text, isErr)
		}
	}
	if len(b.created) != 0 || len(b.deleted) != 0 {
		t.Errorf("no backend writes expected after sign-out")
	}
}
