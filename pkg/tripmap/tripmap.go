package tripmap

import (
	"fmt"

	"github.com/mynaturejourney/journey/pkg/memories"
)

// Thailand is the initial view.
const (
	CenterLat   = 13.7563
	CenterLng   = 100.5018
	DefaultZoom = 6
)

type Icon string

const (
	IconVisited  Icon = "visited"
	IconWishlist Icon = "wishlist"
)

const (
	statusVisited  = "✓ เคยไปแล้ว"
	statusWishlist = "★ อยากไป"
)

// Location is a labelled point on the map.
type Location struct {
	Name     string  `json:"name"`
	Province string  `json:"province"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// FromVisited converts grouped trips; the trip count takes the province line.
func FromVisited(v []memories.VisitedLocation) []Location {
	out := make([]Location, len(v))
	for i, l := range v {
		out[i] = Location{Name: l.Name, Province: fmt.Sprintf("%d ทริป", l.Trips), Lat: l.Lat, Lng: l.Lng}
	}
	return out
}

// Marker is what a Widget draws.
type Marker struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Icon   Icon    `json:"icon"`
	Title  string  `json:"title"`
	Detail string  `json:"detail"`
	Status string  `json:"status"`
}

// Widget is the underlying map implementation.
type Widget interface {
	AddMarker(m Marker)
	ClearMarkers()
	Remove()
}

type sliceID struct {
	ptr *Location
	n   int
}

func idOf(s []Location) sliceID {
	if cap(s) == 0 {
		return sliceID{}
	}
	return sliceID{ptr: &s[:1][0], n: len(s)}
}

// Adapter draws two location lists on a Widget. It keeps no state besides
// the widget and the identity of the last rendered lists.
type Adapter struct {
	widget   Widget
	visited  sliceID
	wishlist sliceID
	drawn    bool
	closed   bool
}

func NewAdapter(w Widget) *Adapter {
	return &Adapter{widget: w}
}

// Render rebuilds every marker when either list is not the one rendered last
// time (same backing array and length). It reports whether it redrew.
func (a *Adapter) Render(visited, wishlist []Location) bool {
	if a.closed {
		return false
	}
	v, w := idOf(visited), idOf(wishlist)
	if a.drawn && v == a.visited && w == a.wishlist {
		return false
	}

	a.widget.ClearMarkers()
	for _, l := range visited {
		a.widget.AddMarker(Marker{Lat: l.Lat, Lng: l.Lng, Icon: IconVisited, Title: l.Name, Detail: l.Province, Status: statusVisited})
	}
	for _, l := range wishlist {
		a.widget.AddMarker(Marker{Lat: l.Lat, Lng: l.Lng, Icon: IconWishlist, Title: l.Name, Detail: l.Province, Status: statusWishlist})
	}
	a.visited, a.wishlist, a.drawn = v, w, true
	return true
}

// Close tears the widget down. Later renders are ignored.
func (a *Adapter) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.widget.Remove()
}
