package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/profile"
	"github.com/mynaturejourney/journey/pkg/session"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func printUser(u session.User) {
	fmt.Println("User Details:")
	fmt.Printf("ID:         %d\n", u.ID)
	fmt.Printf("Name:       %s\n", u.Name)
	fmt.Printf("Email:      %s\n", u.Email)
	fmt.Printf("Created At: %s\n", orDash(u.CreatedAt))
}

func printUserTable(users []session.User) {
	fmt.Println("ID | Name | Email | Created At")
	fmt.Println("------------------------------------------------------------")
	for _, u := range users {
		fmt.Printf("%d | %s | %s | %s\n", u.ID, u.Name, u.Email, orDash(u.CreatedAt))
	}
}

func printTripTable(trips []memories.Memory) {
	fmt.Println("ID | Park | Dates | Days | Privacy | Expense")
	fmt.Println("------------------------------------------------------------")
	for _, t := range trips {
		fmt.Printf("%d | %s | %s | %d | %s | ฿%.2f\n",
			t.ID, t.ParkName, memories.FormatTripDate(t.StartDate, t.EndDate), t.DurationDays, t.PrivacyLevel.Label(), float64(t.TotalExpense))
	}
	fmt.Printf("\n%d trips, total expense ฿%.2f\n", len(trips), memories.TotalExpense(trips))
}

func printTrip(t memories.Memory) {
	fmt.Println("Trip Details:")
	fmt.Printf("ID:          %d\n", t.ID)
	fmt.Printf("Park:        %s\n", t.ParkName)
	fmt.Printf("Dates:       %s (%s - %s)\n", memories.FormatTripDate(t.StartDate, t.EndDate),
		memories.FormatShortDate(t.StartDate), memories.FormatShortDate(t.EndDate))
	fmt.Printf("Duration:    %d days\n", t.DurationDays)
	if t.HasLocation() {
		fmt.Printf("Location:    %.6f, %.6f\n", *t.LocationLat, *t.LocationLng)
	}
	fmt.Printf("Privacy:     %s\n", t.PrivacyLevel.Label())
	fmt.Printf("Impression:  %s\n", orDash(t.Impression))
	fmt.Printf("Tips:        %s\n", orDash(t.Tips))

	var places []string
	for _, p := range t.Places {
		places = append(places, p.PlaceName)
	}
	fmt.Printf("Places:      %s\n", orDash(strings.Join(places, ", ")))
	for _, e := range t.Expenses {
		fmt.Printf("Expense:     %s ฿%.2f\n", e.Category, float64(e.Amount))
	}
	fmt.Printf("Total:       ฿%.2f\n", float64(t.TotalExpense))
	if t.PhotoCount > 0 {
		fmt.Printf("Photos:      %d\n", t.PhotoCount)
	}
}

func printVisited(locations []memories.VisitedLocation) {
	if len(locations) == 0 {
		fmt.Println("No trips with coordinates.")
		return
	}
	fmt.Println("Park | Lat | Lng | Trips")
	fmt.Println("------------------------------------------------------------")
	for _, l := range locations {
		fmt.Printf("%s | %.6f | %.6f | %d\n", l.Name, l.Lat, l.Lng, l.Trips)
	}
}

func printPhotoTable(photos []memories.Photo) {
	fmt.Println("ID | File | Type | Size | Order | Created At")
	fmt.Println("------------------------------------------------------------")
	for _, p := range photos {
		fmt.Printf("%d | %s | %s | %d | %d | %s\n", p.ID, p.FileName, p.MimeType, p.FileSize, p.SortOrder, p.CreatedAt)
	}
}

func printTimelineTable(timelines []memories.Timeline) {
	fmt.Println("ID | Time | Title | Location | Photos")
	fmt.Println("------------------------------------------------------------")
	for _, tl := range timelines {
		fmt.Printf("%d | %s | %s | %s | %d\n", tl.ID, tl.TimeLabel, tl.Title, orDash(tl.LocationName), len(tl.Photos))
	}
}

func printTimeline(tl memories.Timeline) {
	fmt.Println("Timeline Details:")
	fmt.Printf("ID:          %d\n", tl.ID)
	fmt.Printf("Trip:        %d\n", tl.MemoryID)
	fmt.Printf("Time:        %s\n", tl.TimeLabel)
	fmt.Printf("Title:       %s\n", tl.Title)
	fmt.Printf("Description: %s\n", orDash(tl.Description))
	fmt.Printf("Location:    %s\n", orDash(tl.LocationName))
}

func printProfile(p profile.Profile) {
	fmt.Println("Profile Details:")
	fmt.Printf("User ID:   %d\n", p.UserID)
	fmt.Printf("Name:      %s\n", p.Name)
	fmt.Printf("Bio:       %s\n", orDash(p.Bio))
	fmt.Printf("Location:  %s\n", orDash(p.Location))
	fmt.Printf("Website:   %s\n", orDash(p.Website))
	fmt.Printf("Avatar:    %t\n", p.HasAvatar())
	fmt.Printf("Cover:     %t\n", p.HasCover())
}

func printStats(s profile.Stats) {
	fmt.Println("Stats:")
	fmt.Printf("Trips:          %d\n", s.TotalTrips)
	fmt.Printf("Parks visited:  %d\n", s.ParksVisited)
	fmt.Printf("Provinces:      %d\n", s.Provinces)
	fmt.Printf("Total expense:  ฿%.2f\n", s.TotalExpense)
}
