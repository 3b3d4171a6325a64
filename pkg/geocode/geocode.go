package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mynaturejourney/journey/pkg/api"
)

// MinQueryRunes is the shortest name that is looked up.
const MinQueryRunes = 3

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Client queries a Nominatim search endpoint, restricted to Thailand.
type Client struct {
	api *api.Client
}

// New returns a geocoder for baseURL, e.g. "https://nominatim.openstreetmap.org".
func New(baseURL string, opts ...api.Option) *Client {
	return &Client{api: api.New(baseURL, opts...)}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search resolves a park name to coordinates. found is false when the name is
// too short or nothing matched. Each call makes one request.
func (c *Client) Search(ctx context.Context, name string) (coords Coordinates, found bool, err error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinQueryRunes {
		return Coordinates{}, false, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", name+", Thailand")
	q.Set("limit", "1")
	q.Set("countrycodes", "th")

	var results []searchResult
	if err := c.api.Get(ctx, "/search", q, &results); err != nil {
		return Coordinates{}, false, err
	}
	if len(results) == 0 {
		return Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("invalid latitude '%s': %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("invalid longitude '%s': %w", results[0].Lon, err)
	}
	return Coordinates{Lat: lat, Lng: lng}, true, nil
}
