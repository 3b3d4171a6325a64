package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/profile"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

// RegisterAllTools registers every trip tool on s.
func RegisterAllTools(s *server.MCPServer, deps Deps) {
	RegisterPingTool(s)
	RegisterListTripsTool(s, deps)
	RegisterGetTripTool(s, deps)
	RegisterCreateTripTool(s, deps)
	RegisterDeleteTripTool(s, deps)
	RegisterListTimelinesTool(s, deps)
	RegisterGetStatsTool(s, deps)
	RegisterGeocodeParkTool(s, deps)
}

// toolError turns a service error into a tool error result.
func toolError(action string, err error) *mcp.CallToolResult {
	if msg := api.UserMessage(err, ""); msg != "" {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %s", action, msg))
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}

// MsgSignedOut is returned by every backend tool once the session has ended.
const MsgSignedOut = "Signed out. Run 'journey auth login' and restart the MCP server."

// signedOut returns an error result when the session no longer holds a token,
// for instance after a logout in another process.
func signedOut(deps Deps) *mcp.CallToolResult {
	if deps.Session != nil && deps.Session.Token() == "" {
		return mcp.NewToolResultError(MsgSignedOut)
	}
	return nil
}

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the MyNatureJourney MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_journey"), nil
}

func RegisterListTripsTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("list_trips",
		mcp.WithDescription("Lists the signed-in user's trips, optionally filtered."),
		mcp.WithString("month", mcp.Description("Thai month abbreviation of the start date, e.g. 'ก.พ.'.")),
		mcp.WithString("location", mcp.Description("Exact park name.")),
		mcp.WithString("privacy", mcp.Description("One of private, friends, public.")),
	)
	s.AddTool(tool, listTripsHandler(deps))
}

func listTripsHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := signedOut(deps); res != nil {
			return res, nil
		}
		opts := memories.ListOptions{}
		if p := stringArg(request, "privacy"); p != "" {
			level, err := memories.ParsePrivacyLevel(p)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			opts.PrivacyLevel = level
		}

		list, err := memories.ListMyMemories(ctx, deps.Client, opts)
		if err != nil {
			return toolError("list trips", err), nil
		}
		trips := memories.FilterTrips(list.Memories, memories.TripFilter{
			Month:    stringArg(request, "month"),
			Location: stringArg(request, "location"),
		})
		if len(trips) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(trips, "trips"), nil
	}
}

func RegisterGetTripTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("get_trip",
		mcp.WithDescription("Retrieves one trip with its places and expenses."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Trip id.")),
	)
	s.AddTool(tool, getTripHandler(deps))
}

func getTripHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := signedOut(deps); res != nil {
			return res, nil
		}
		id, ok := intArg(request, "id")
		if !ok || id <= 0 {
			return mcp.NewToolResultError("'id' parameter is required and must be a positive integer."), nil
		}
		trip, err := memories.GetMemory(ctx, deps.Client, id)
		if err != nil {
			if api.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("Trip %d not found.", id)), nil
			}
			return toolError("get trip", err), nil
		}
		return jsonResult(trip, "trip"), nil
	}
}

func RegisterCreateTripTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("create_trip",
		mcp.WithDescription("Logs a new trip. Photos are not supported here."),
		mcp.WithString("park_name", mcp.Required(), mcp.Description("Name of the national park.")),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("Start date, YYYY-MM-DD.")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("End date, YYYY-MM-DD.")),
		mcp.WithNumber("latitude", mcp.Description("Optional latitude.")),
		mcp.WithNumber("longitude", mcp.Description("Optional longitude.")),
		mcp.WithBoolean("geocode", mcp.Description("Look the coordinates up from the park name when none are given.")),
		mcp.WithString("impression", mcp.Description("Optional impression.")),
		mcp.WithString("tips", mcp.Description("Optional tips.")),
		mcp.WithString("places", mcp.Description("Optional comma-separated list of visited places.")),
		mcp.WithString("expenses", mcp.Description("Optional comma-separated category=amount pairs, e.g. 'อาหาร=350,ที่พัก=1200'.")),
		mcp.WithString("privacy", mcp.Description("One of private, friends (default), public.")),
	)
	s.AddTool(tool, createTripHandler(deps))
}

func createTripHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := signedOut(deps); res != nil {
			return res, nil
		}
		w := wizard.New(deps.Options...)
		defer w.Close()

		w.SetParkName(stringArg(request, "park_name"))
		if err := w.SetDates(stringArg(request, "start_date"), stringArg(request, "end_date")); err != nil {
			if errors.Is(err, wizard.ErrEndBeforeStart) {
				return mcp.NewToolResultError(wizard.MsgEndBeforeStart), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Invalid date: %v", err)), nil
		}

		lat, hasLat := floatArg(request, "latitude")
		lng, hasLng := floatArg(request, "longitude")
		if hasLat || hasLng {
			w.SetCoordinates(lat, lng)
		} else if doGeocode, _ := request.Params.Arguments["geocode"].(bool); doGeocode && deps.Geocoder != nil {
			if _, err := w.Geocode(ctx, deps.Geocoder); err != nil {
				return toolError("look up coordinates", err), nil
			}
		}

		w.SetImpression(stringArg(request, "impression"))
		w.SetTips(stringArg(request, "tips"))
		for i, p := range splitList(stringArg(request, "places")) {
			if i > 0 {
				w.AddPlace()
			}
			w.UpdatePlace(i, p)
		}
		for _, pair := range splitList(stringArg(request, "expenses")) {
			category, amount, ok := strings.Cut(pair, "=")
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid expense '%s': expected category=amount.", pair)), nil
			}
			if err := w.SetExpense(strings.TrimSpace(category), strings.TrimSpace(amount)); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("%v. Categories: %s", err, strings.Join(wizard.ExpenseCategories, ", "))), nil
			}
		}
		if p := stringArg(request, "privacy"); p != "" {
			level, err := memories.ParsePrivacyLevel(p)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			w.SetPrivacy(level)
		}

		res, err := w.Submit(ctx, deps.Service)
		if err != nil {
			var ve *wizard.ValidationError
			if errors.As(err, &ve) {
				return mcp.NewToolResultError(ve.Message), nil
			}
			return mcp.NewToolResultError(api.UserMessage(err, wizard.MsgSubmitFailed)), nil
		}
		return jsonResult(res.Memory, "trip"), nil
	}
}

func RegisterDeleteTripTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("delete_trip",
		mcp.WithDescription("Deletes a trip and everything attached to it."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Trip id.")),
	)
	s.AddTool(tool, deleteTripHandler(deps))
}

func deleteTripHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := signedOut(deps); res != nil {
			return res, nil
		}
		id, ok := intArg(request, "id")
		if !ok || id <= 0 {
			return mcp.NewToolResultError("'id' parameter is required and must be a positive integer."), nil
		}
		if err := memories.DeleteMemory(ctx, deps.Client, id); err != nil {
			return toolError("delete trip", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Trip %d deleted.", id)), nil
	}
}

func RegisterListTimelinesTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("list_timelines",
		mcp.WithDescription("Lists the timeline entries of a trip."),
		mcp.WithNumber("trip_id", mcp.Required(), mcp.Description("Trip id.")),
	)
	s.AddTool(tool, listTimelinesHandler(deps))
}

func listTimelinesHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := signedOut(deps); res != nil {
			return res, nil
		}
		id, ok := intArg(request, "trip_id")
		if !ok || id <= 0 {
			return mcp.NewToolResultError("'trip_id' parameter is required and must be a positive integer."), nil
		}
		timelines, err := memories.ListTimelines(ctx, deps.Client, id)
		if err != nil {
			return toolError("list timelines", err), nil
		}
		if len(timelines) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(timelines, "timelines"), nil
	}
}

func RegisterGetStatsTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("get_stats",
		mcp.WithDescription("Returns the signed-in user's trip statistics."),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := signedOut(deps); res != nil {
			return res, nil
		}
		stats, err := profile.GetStats(ctx, deps.Client)
		if err != nil {
			return toolError("get stats", err), nil
		}
		return jsonResult(stats, "stats"), nil
	})
}

func RegisterGeocodeParkTool(s *server.MCPServer, deps Deps) {
	tool := mcp.NewTool("geocode_park",
		mcp.WithDescription("Looks up the coordinates of a place in Thailand."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Park or place name, at least 3 characters.")),
	)
	s.AddTool(tool, geocodeParkHandler(deps))
}

func geocodeParkHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := stringArg(request, "name")
		if name == "" {
			return mcp.NewToolResultError("'name' parameter is required and must be a non-empty string."), nil
		}
		if deps.Geocoder == nil {
			return mcp.NewToolResultError("Geocoding is not configured."), nil
		}
		coords, found, err := deps.Geocoder.Search(ctx, name)
		if err != nil {
			return toolError("look up coordinates", err), nil
		}
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("No coordinates found for '%s'.", name)), nil
		}
		return jsonResult(coords, "coordinates"), nil
	}
}
