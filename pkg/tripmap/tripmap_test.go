package tripmap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mynaturejourney/journey/pkg/memories"
)

type recordingWidget struct {
	markers []Marker
	clears  int
	removes int
}

func (r *recordingWidget) AddMarker(m Marker) { r.markers = append(r.markers, m) }
func (r *recordingWidget) ClearMarkers()      { r.markers = nil; r.clears++ }
func (r *recordingWidget) Remove()            { r.removes++ }

func TestAdapter_RenderAndRebuild(t *testing.T) {
	w := &recordingWidget{}
	a := NewAdapter(w)

	visited := []Location{{Name: "เขาใหญ่", Province: "นครราชสีมา", Lat: 14.43, Lng: 101.37}}
	wishlist := []Location{{Name: "ภูกระดึง", Province: "เลย", Lat: 16.88, Lng: 101.83}, {Name: "เกาะตะรุเตา", Province: "สตูล", Lat: 6.6, Lng: 99.65}}

	if !a.Render(visited, wishlist) {
		t.Fatalf("first render should draw")
	}
	if len(w.markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(w.markers))
	}
	if w.markers[0].Icon != IconVisited || w.markers[0].Status != statusVisited || w.markers[0].Detail != "นครราชสีมา" {
		t.Errorf("unexpected visited marker: %+v", w.markers[0])
	}
	if w.markers[1].Icon != IconWishlist || w.markers[2].Title != "เกาะตะรุเตา" {
		t.Errorf("unexpected wishlist markers: %+v", w.markers[1:])
	}

	if a.Render(visited, wishlist) {
		t.Errorf("same lists should not redraw")
	}

	more := append([]Location(nil), visited...)
	if !a.Render(more, wishlist) {
		t.Errorf("a new visited list should redraw")
	}
	if w.clears != 2 || len(w.markers) != 3 {
		t.Errorf("expected full rebuild, clears=%d markers=%d", w.clears, len(w.markers))
	}

	a.Close()
	a.Close()
	if w.removes != 1 {
		t.Errorf("expected one Remove, got %d", w.removes)
	}
	if a.Render(nil, nil) {
		t.Errorf("render after close must be ignored")
	}
}

func TestFromVisited(t *testing.T) {
	got := FromVisited([]memories.VisitedLocation{{Name: "เขาใหญ่", Lat: 1, Lng: 2, Trips: 3}})
	if len(got) != 1 || got[0].Province != "3 ทริป" {
		t.Errorf("unexpected conversion: %+v", got)
	}
}

func TestHTMLWidget(t *testing.T) {
	h := NewHTMLWidget("MyNatureJourney")
	a := NewAdapter(h)
	a.Render([]Location{{Name: "<เขาใหญ่>", Province: "2 ทริป", Lat: 14.43, Lng: 101.37}}, nil)

	var buf bytes.Buffer
	if err := h.WriteHTML(&buf); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}
	page := buf.String()
	for _, want := range []string{"13.7563", "100.5018", "tile.openstreetmap.org", "เคยไปแล้ว (1)", "อยากไป (0)"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "<เขาใหญ่>") {
		t.Errorf("marker title was not escaped")
	}

	a.Close()
	if err := h.WriteHTML(&buf); !errors.Is(err, ErrRemoved) {
		t.Errorf("expected ErrRemoved, got %v", err)
	}
}
