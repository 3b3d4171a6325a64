package memories

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PrivacyLevel controls who may view a Memory.
type PrivacyLevel string

const (
	PrivacyPrivate PrivacyLevel = "private"
	PrivacyFriends PrivacyLevel = "friends"
	PrivacyPublic  PrivacyLevel = "public"
)

// PrivacyLevels lists the levels in display order.
var PrivacyLevels = []PrivacyLevel{PrivacyPrivate, PrivacyFriends, PrivacyPublic}

func ParsePrivacyLevel(s string) (PrivacyLevel, error) {
	switch p := PrivacyLevel(strings.ToLower(strings.TrimSpace(s))); p {
	case PrivacyPrivate, PrivacyFriends, PrivacyPublic:
		return p, nil
	default:
		return "", fmt.Errorf("invalid privacy level '%s': must be private, friends or public", s)
	}
}

// Label is the Thai display name.
func (p PrivacyLevel) Label() string {
	switch p {
	case PrivacyPrivate:
		return "ส่วนตัว"
	case PrivacyFriends:
		return "เพื่อน"
	case PrivacyPublic:
		return "สาธารณะ"
	default:
		return string(p)
	}
}

// Amount decodes both JSON numbers and numeric strings; the backend sends
// decimals as strings.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", string(b), err)
	}
	*a = Amount(f)
	return nil
}

// Memory is one logged trip.
type Memory struct {
	ID           int          `json:"id"`
	UserID       int          `json:"user_id"`
	ParkName     string       `json:"park_name"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	DurationDays int          `json:"duration_days"`
	LocationLat  *float64     `json:"location_lat,omitempty"`
	LocationLng  *float64     `json:"location_lng,omitempty"`
	Impression   string       `json:"impression,omitempty"`
	Tips         string       `json:"tips,omitempty"`
	PrivacyLevel PrivacyLevel `json:"privacy_level"`
	TotalExpense Amount       `json:"total_expense"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
	Places       []Place      `json:"places,omitempty"`
	Expenses     []Expense    `json:"expenses,omitempty"`
	PhotoCount   int          `json:"photo_count,omitempty"`
	// CoverPhoto is the file name of the first photo.
	CoverPhoto string `json:"cover_photo,omitempty"`
}

// HasLocation reports whether both coordinates are set and non-zero.
func (m Memory) HasLocation() bool {
	return m.LocationLat != nil && m.LocationLng != nil && *m.LocationLat != 0 && *m.LocationLng != 0
}

type Place struct {
	ID        int    `json:"id"`
	PlaceName string `json:"place_name"`
}

type Expense struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Amount   Amount `json:"amount"`
}

type Photo struct {
	ID        int    `json:"id"`
	MemoryID  int    `json:"memory_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	FileSize  int64  `json:"file_size"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at"`
}

type Timeline struct {
	ID           int             `json:"id"`
	MemoryID     int             `json:"memory_id"`
	TimeLabel    string          `json:"time_label"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	LocationName string          `json:"location_name,omitempty"`
	LocationLat  *float64        `json:"location_lat,omitempty"`
	LocationLng  *float64        `json:"location_lng,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
	Photos       []TimelinePhoto `json:"photos,omitempty"`
}

type TimelinePhoto struct {
	ID         int    `json:"id"`
	TimelineID int    `json:"timeline_id"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	FileSize   int64  `json:"file_size"`
	SortOrder  int    `json:"sort_order"`
	CreatedAt  string `json:"created_at"`
}

// ExpenseInput is an expense as sent on create/update.
type ExpenseInput struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CreateMemoryData is the create payload. Places and Expenses must already be
// sanitized; empty collections are omitted.
type CreateMemoryData struct {
	ParkName     string         `json:"park_name"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	DurationDays int            `json:"duration_days"`
	LocationLat  *float64       `json:"location_lat,omitempty"`
	LocationLng  *float64       `json:"location_lng,omitempty"`
	Impression   string         `json:"impression,omitempty"`
	Tips         string         `json:"tips,omitempty"`
	PrivacyLevel PrivacyLevel   `json:"privacy_level"`
	Places       []string       `json:"places,omitempty"`
	Expenses     []ExpenseInput `json:"expenses,omitempty"`
}

// UpdateMemoryData is a full or partial update; nil fields are not sent.
type UpdateMemoryData struct {
	ParkName     *string         `json:"park_name,omitempty"`
	StartDate    *string         `json:"start_date,omitempty"`
	EndDate      *string         `json:"end_date,omitempty"`
	DurationDays *int            `json:"duration_days,omitempty"`
	LocationLat  *float64        `json:"location_lat,omitempty"`
	LocationLng  *float64        `json:"location_lng,omitempty"`
	Impression   *string         `json:"impression,omitempty"`
	Tips         *string         `json:"tips,omitempty"`
	PrivacyLevel *PrivacyLevel   `json:"privacy_level,omitempty"`
	Places       *[]string       `json:"places,omitempty"`
	Expenses     *[]ExpenseInput `json:"expenses,omitempty"`

	// ClearLocation sends explicit nulls for both coordinates, removing a
	// pin the trip already has. LocationLat and LocationLng are ignored.
	ClearLocation bool `json:"-"`
}

func (d UpdateMemoryData) MarshalJSON() ([]byte, error) {
	type plain UpdateMemoryData
	if !d.ClearLocation {
		return json.Marshal(plain(d))
	}
	return json.Marshal(struct {
		plain
		LocationLat *float64 `json:"location_lat"`
		LocationLng *float64 `json:"location_lng"`
	}{plain: plain(d)})
}

// TimelineData is the create payload for a timeline entry, and the update payload
// when sent through UpdateTimeline.
type TimelineData struct {
	TimeLabel    string   `json:"time_label"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	LocationName string   `json:"location_name,omitempty"`
	LocationLat  *float64 `json:"location_lat,omitempty"`
	LocationLng  *float64 `json:"location_lng,omitempty"`
}

// TimelineUpdate is a partial timeline update.
type TimelineUpdate struct {
	TimeLabel    *string  `json:"time_label,omitempty"`
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	LocationName *string  `json:"location_name,omitempty"`
	LocationLat  *float64 `json:"location_lat,omitempty"`
	LocationLng  *float64 `json:"location_lng,omitempty"`
}

// ListOptions filter the list endpoints. Zero values are not sent.
type ListOptions struct {
	Limit        int
	Offset       int
	PrivacyLevel PrivacyLevel
	// ParkName applies to ListPublicMemories only.
	ParkName string
}

// MemoryList is a page of memories.
type MemoryList struct {
	Memories []Memory `json:"memories"`
	Count    int      `json:"count"`
}

var _ json.Unmarshaler = (*Amount)(nil)
