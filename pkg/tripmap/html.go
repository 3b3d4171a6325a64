package tripmap

import (
	"errors"
	"html/template"
	"io"
)

var ErrRemoved = errors.New("map widget was removed")

// HTMLWidget renders a self-contained Leaflet page with OpenStreetMap tiles.
type HTMLWidget struct {
	Title   string
	Height  string
	markers []Marker
	removed bool
}

func NewHTMLWidget(title string) *HTMLWidget {
	return &HTMLWidget{Title: title, Height: "100vh"}
}

func (h *HTMLWidget) AddMarker(m Marker) { h.markers = append(h.markers, m) }
func (h *HTMLWidget) ClearMarkers()      { h.markers = nil }
func (h *HTMLWidget) Remove()            { h.markers, h.removed = nil, true }

func (h *HTMLWidget) Markers() []Marker {
	return append([]Marker(nil), h.markers...)
}

func (h *HTMLWidget) count(icon Icon) int {
	n := 0
	for _, m := range h.markers {
		if m.Icon == icon {
			n++
		}
	}
	return n
}

// WriteHTML writes the page.
func (h *HTMLWidget) WriteHTML(w io.Writer) error {
	if h.removed {
		return ErrRemoved
	}
	return pageTemplate.Execute(w, map[string]any{
		"Title":    h.Title,
		"Height":   h.Height,
		"Lat":      CenterLat,
		"Lng":      CenterLng,
		"Zoom":     DefaultZoom,
		"Markers":  h.markers,
		"Visited":  h.count(IconVisited),
		"Wishlist": h.count(IconWishlist),
	})
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
body { margin: 0; font-family: 'Prompt', sans-serif; }
#map { width: 100%; height: {{.Height}}; }
.legend { position: absolute; top: 16px; right: 16px; z-index: 1000; background: rgba(255,255,255,.95); padding: 8px 12px; border-radius: 8px; font-size: 12px; }
.dot { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 6px; }
</style>
</head>
<body>
<div id="map"></div>
<div class="legend">
<div><span class="dot" style="background:#4CAF50"></span>เคยไปแล้ว ({{.Visited}})</div>
<div><span class="dot" style="background:#4FC3F7"></span>อยากไป ({{.Wishlist}})</div>
</div>
<script>
const map = L.map('map').setView([{{.Lat}}, {{.Lng}}], {{.Zoom}});
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '© OpenStreetMap contributors',
  maxZoom: 19,
}).addTo(map);
const colors = { visited: ['#4CAF50', '#2E7D32'], wishlist: ['#4FC3F7', '#0277BD'] };
const markers = {{.Markers}};
for (const m of markers) {
  const [fill, border] = colors[m.icon];
  const popup = document.createElement('div');
  popup.style.textAlign = 'center';
  for (const [text, size, color, bold] of [[m.title, 14, fill, true], [m.detail, 12, '#666'], [m.status, 11, '#999']]) {
    const line = document.createElement(bold ? 'strong' : 'div');
    line.textContent = text;
    line.style.fontSize = size + 'px';
    line.style.color = color;
    line.style.display = 'block';
    popup.appendChild(line);
  }
  L.circleMarker([m.lat, m.lng], { radius: 8, color: border, fillColor: fill, fillOpacity: 0.9 })
    .addTo(map)
    .bindPopup(popup);
}
</script>
</body>
</html>
`))
