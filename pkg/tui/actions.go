package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/session"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

type tripsLoadedMsg struct {
	trips  []memories.Memory
	covers map[int]int
}

// List the user's trips and their cover photos and return tea data
func listTrips(ctx context.Context, c *api.Client) tea.Cmd {
	return func() tea.Msg {
		list, err := memories.ListMyMemories(ctx, c, memories.ListOptions{})
		if err != nil {
			return err
		}
		return tripsLoadedMsg{trips: list.Memories, covers: memories.CoverPhotos(ctx, c, list.Memories)}
	}
}

type tripDetailsMsg struct {
	trip      memories.Memory
	timelines []memories.Timeline
}

// Get a combined message with the trip and its timeline
func getTripDetails(ctx context.Context, c *api.Client, memoryID int) tea.Cmd {
	return func() tea.Msg {
		trip, err := memories.GetMemory(ctx, c, memoryID)
		if err != nil {
			return err
		}
		timelines, err := memories.ListTimelines(ctx, c, memoryID)
		if err != nil {
			return err
		}
		return tripDetailsMsg{trip: trip, timelines: timelines}
	}
}

type tripDeletedMsg struct {
	memoryID int
	err      error
}

func deleteTrip(ctx context.Context, c *api.Client, memoryID int) tea.Cmd {
	return func() tea.Msg {
		err := memories.DeleteMemory(ctx, c, memoryID)
		return tripDeletedMsg{memoryID: memoryID, err: err}
	}
}

type geocodeMsg struct {
	lat, lng float64
	found    bool
	err      error
}

// Look the park name up without touching the wizard; Update applies the result
func geocodePark(ctx context.Context, g wizard.Geocoder, name string) tea.Cmd {
	return func() tea.Msg {
		coords, found, err := g.Search(ctx, name)
		return geocodeMsg{lat: coords.Lat, lng: coords.Lng, found: found, err: err}
	}
}

type submitMsg struct {
	result wizard.Result
	err    error
}

// Submit the wizard. The model must not read the wizard until submitMsg arrives.
// Canceling ctx aborts the submission.
func submitWizard(ctx context.Context, w *wizard.Wizard, svc wizard.Service) tea.Cmd {
	return func() tea.Msg {
		res, err := w.Submit(ctx, svc)
		return submitMsg{result: res, err: err}
	}
}

type signedOutMsg struct{}

// Wait for the session to be invalidated, here or in another process.
// A nil channel never fires.
func waitSignedOut(events <-chan session.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		for ev := range events {
			if ev.Type == session.EventInvalidated {
				return signedOutMsg{}
			}
		}
		return nil
	}
}

// MsgSignedOut is shown when the session ends while a page is open.
const MsgSignedOut = "ออกจากระบบแล้ว กรุณาเข้าสู่ระบบใหม่ (journey auth login)"
