package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

var tripsCmd = &cobra.Command{
	Use:     "trips",
	Aliases: []string{"memories"},
	Short:   "Log, list, edit and delete trips",
}

func parseID(raw, what string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, raw)
	}
	return id, nil
}

var listTripsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your trips",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		location, _ := cmd.Flags().GetString("location")
		privacy, _ := cmd.Flags().GetString("privacy")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		visited, _ := cmd.Flags().GetBool("visited")

		opts := memories.ListOptions{Limit: limit, Offset: offset}
		if privacy != "" {
			level, err := memories.ParsePrivacyLevel(privacy)
			if err != nil {
				return err
			}
			opts.PrivacyLevel = level
		}

		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			list, err := memories.ListMyMemories(ctx, a.client, opts)
			if err != nil {
				return fmt.Errorf("failed to list trips: %w", err)
			}
			trips := memories.FilterTrips(list.Memories, memories.TripFilter{Month: month, Location: location})

			if visited {
				locations := memories.VisitedLocations(trips)
				if jsonOutput {
					return printJSON(locations)
				}
				printVisited(locations)
				return nil
			}
			if jsonOutput {
				return printJSON(trips)
			}
			if len(trips) == 0 {
				fmt.Println("No trips found.")
				return nil
			}
			printTripTable(trips)
			return nil
		})
	},
}

var publicTripsCmd = &cobra.Command{
	Use:   "public",
	Short: "List public trips from everyone",
	RunE: func(cmd *cobra.Command, args []string) error {
		park, _ := cmd.Flags().GetString("park")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			list, err := memories.ListPublicMemories(ctx, a.client, memories.ListOptions{Limit: limit, Offset: offset, ParkName: park})
			if err != nil {
				return fmt.Errorf("failed to list public trips: %w", err)
			}
			if jsonOutput {
				return printJSON(list.Memories)
			}
			if len(list.Memories) == 0 {
				fmt.Println("No trips found.")
				return nil
			}
			printTripTable(list.Memories)
			return nil
		})
	},
}

var getTripCmd = &cobra.Command{
	Use:   "get [trip-id]",
	Short: "Show one trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			trip, err := memories.GetMemory(ctx, a.client, id)
			if api.IsNotFound(err) {
				return fmt.Errorf("trip not found: %d", id)
			}
			if err != nil {
				return fmt.Errorf("failed to get trip: %w", err)
			}
			if jsonOutput {
				return printJSON(trip)
			}
			printTrip(trip)
			return nil
		})
	},
}

// setPlaces replaces every place row of w.
func setPlaces(w *wizard.Wizard, places []string) {
	for len(w.Places()) > 1 {
		w.RemovePlace(len(w.Places()) - 1)
	}
	w.UpdatePlace(0, "")
	for i, p := range places {
		if i > 0 {
			w.AddPlace()
		}
		w.UpdatePlace(i, p)
	}
}

// applyTripFlags copies the trip flags that were set onto w.
func applyTripFlags(cmd *cobra.Command, w *wizard.Wizard) error {
	flags := cmd.Flags()

	if flags.Changed("park") {
		park, _ := flags.GetString("park")
		w.SetParkName(park)
	}
	if flags.Changed("start") || flags.Changed("end") {
		start, end := w.Dates()
		if flags.Changed("start") {
			start, _ = flags.GetString("start")
		}
		if flags.Changed("end") {
			end, _ = flags.GetString("end")
		}
		if err := w.SetDates(start, end); err != nil {
			if errors.Is(err, wizard.ErrEndBeforeStart) {
				return &wizard.ValidationError{Step: wizard.StepLocation, Message: wizard.MsgEndBeforeStart}
			}
			return fmt.Errorf("invalid date: %w", err)
		}
	}
	if flags.Changed("lat") || flags.Changed("lng") {
		lat, lng := w.Coordinates()
		var err error
		if flags.Changed("lat") {
			raw, _ := flags.GetString("lat")
			if lat, err = wizard.ParseCoordinate(raw); err != nil {
				return err
			}
		}
		if flags.Changed("lng") {
			raw, _ := flags.GetString("lng")
			if lng, err = wizard.ParseCoordinate(raw); err != nil {
				return err
			}
		}
		w.SetCoordinates(lat, lng)
	}
	if flags.Changed("impression") {
		v, _ := flags.GetString("impression")
		w.SetImpression(v)
	}
	if flags.Changed("tips") {
		v, _ := flags.GetString("tips")
		w.SetTips(v)
	}
	if flags.Changed("place") {
		places, _ := flags.GetStringArray("place")
		setPlaces(w, places)
	}
	if flags.Changed("expense") {
		pairs, _ := flags.GetStringArray("expense")
		for _, pair := range pairs {
			category, amount, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid expense '%s': expected category=amount", pair)
			}
			if err := w.SetExpense(strings.TrimSpace(category), strings.TrimSpace(amount)); err != nil {
				return fmt.Errorf("%w (categories: %s)", err, strings.Join(wizard.ExpenseCategories, ", "))
			}
		}
	}
	if flags.Changed("privacy") {
		raw, _ := flags.GetString("privacy")
		level, err := memories.ParsePrivacyLevel(raw)
		if err != nil {
			return err
		}
		w.SetPrivacy(level)
	}
	return nil
}

func addTripFlags(cmd *cobra.Command) {
	cmd.Flags().String("park", "", "National park name")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().String("lat", "", "Latitude")
	cmd.Flags().String("lng", "", "Longitude")
	cmd.Flags().String("impression", "", "Impression of the trip")
	cmd.Flags().String("tips", "", "Tips for other travellers")
	cmd.Flags().StringArray("place", nil, "Visited place (repeatable)")
	cmd.Flags().StringArray("expense", nil, "Expense as category=amount (repeatable)")
	cmd.Flags().String("privacy", "", "Privacy level: private, friends or public")
}

var createTripCmd = &cobra.Command{
	Use:   "create",
	Short: "Log a new trip",
	Long: `Log a new trip from flags. Staged photos (--photo) are uploaded after the
trip is created, with their sort order following the flag order.

Expense categories: ค่าเข้าอุทยาน, ที่พัก, อาหาร, เดินทาง.

Example:
  journey trips create --park เขาใหญ่ --start 2024-02-01 --end 2024-02-03 \
    --place "น้ำตกเหวสุวัต" --expense อาหาร=350 --photo a.jpg --geocode`,
	RunE: func(cmd *cobra.Command, args []string) error {
		photos, _ := cmd.Flags().GetStringArray("photo")
		doGeocode, _ := cmd.Flags().GetBool("geocode")

		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			opts, err := a.wizardOptions()
			if err != nil {
				return err
			}
			w := wizard.New(opts...)
			defer w.Close()

			if err := applyTripFlags(cmd, w); err != nil {
				return err
			}
			if lat, lng := w.Coordinates(); doGeocode && lat == nil && lng == nil {
				found, err := w.Geocode(ctx, a.geocoder())
				if err != nil {
					cmd.PrintErrln("Warning: coordinate lookup failed:", err)
				} else if !found {
					cmd.PrintErrln("Warning: no coordinates found for", w.ParkName())
				}
			}
			for _, p := range photos {
				u, err := memories.FileUpload(p)
				if err != nil {
					return err
				}
				if err := w.AddFiles(u); err != nil {
					return err
				}
			}

			res, err := w.Submit(ctx, wizard.NewService(a.client))
			if err != nil {
				var ve *wizard.ValidationError
				if errors.As(err, &ve) {
					return err
				}
				return fmt.Errorf("%s: %w", api.UserMessage(err, wizard.MsgSubmitFailed), err)
			}
			for _, u := range res.Failed() {
				cmd.PrintErrf("Warning: failed to upload %s: %v\n", u.Name, u.Err)
			}
			if jsonOutput {
				return printJSON(res.Memory)
			}
			fmt.Println("บันทึกทริปสำเร็จ")
			printTrip(res.Memory)
			return nil
		})
	},
}

var updateTripCmd = &cobra.Command{
	Use:   "update [trip-id]",
	Short: "Edit a trip",
	Long: `Edit a trip. Only the flags given are changed. --add-photo uploads right away and
--remove-photo deletes right away; the other fields are saved in one update.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		addPhotos, _ := cmd.Flags().GetStringArray("add-photo")
		removePhotos, _ := cmd.Flags().GetIntSlice("remove-photo")

		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			trip, err := memories.GetMemory(ctx, a.client, id)
			if api.IsNotFound(err) {
				return fmt.Errorf("trip not found: %d", id)
			}
			if err != nil {
				return fmt.Errorf("failed to get trip: %w", err)
			}
			photos, err := memories.ListPhotos(ctx, a.client, id)
			if err != nil {
				return fmt.Errorf("failed to list photos: %w", err)
			}
			opts, err := a.wizardOptions()
			if err != nil {
				return err
			}

			edit := wizard.NewEditSession(trip, photos, wizard.NewService(a.client), opts...)
			defer edit.Close()

			for _, photoID := range removePhotos {
				if err := edit.RemovePhoto(ctx, photoID); err != nil {
					return fmt.Errorf("failed to delete photo %d: %w", photoID, err)
				}
			}
			if len(addPhotos) > 0 {
				var uploads []memories.Upload
				for _, p := range addPhotos {
					u, err := memories.FileUpload(p)
					if err != nil {
						return err
					}
					uploads = append(uploads, u)
				}
				if _, err := edit.AddPhotos(ctx, uploads...); err != nil {
					cmd.PrintErrln("Warning: some photos failed to upload:", err)
				}
			}

			if err := applyTripFlags(cmd, edit.Wizard); err != nil {
				return err
			}
			updated, err := edit.Save(ctx)
			if err != nil {
				var ve *wizard.ValidationError
				if errors.As(err, &ve) {
					return err
				}
				return fmt.Errorf("%s: %w", api.UserMessage(err, wizard.MsgSaveFailed), err)
			}
			if jsonOutput {
				return printJSON(updated)
			}
			fmt.Println("แก้ไขทริปสำเร็จ")
			printTrip(updated)
			return nil
		})
	},
}

var deleteTripCmd = &cobra.Command{
	Use:   "delete [trip-id]",
	Short: "Delete a trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			if err := memories.DeleteMemory(ctx, a.client, id); err != nil {
				return fmt.Errorf("failed to delete trip: %w", err)
			}
			fmt.Printf("Trip %d deleted.\n", id)
			return nil
		})
	},
}

func initTripsCmd() {
	listTripsCmd.Flags().String("month", "", "Thai month abbreviation of the start date, e.g. ก.พ.")
	listTripsCmd.Flags().String("location", "", "Exact park name")
	listTripsCmd.Flags().String("privacy", "", "Only trips with this privacy level")
	listTripsCmd.Flags().Int("limit", 0, "Page size")
	listTripsCmd.Flags().Int("offset", 0, "Page offset")
	listTripsCmd.Flags().Bool("visited", false, "Group trips with coordinates by park")

	publicTripsCmd.Flags().String("park", "", "Only trips to this park")
	publicTripsCmd.Flags().Int("limit", 0, "Page size")
	publicTripsCmd.Flags().Int("offset", 0, "Page offset")

	addTripFlags(createTripCmd)
	createTripCmd.Flags().StringArray("photo", nil, "Photo file to upload (repeatable)")
	createTripCmd.Flags().Bool("geocode", false, "Look the coordinates up from the park name when --lat/--lng are not given")

	addTripFlags(updateTripCmd)
	updateTripCmd.Flags().StringArray("add-photo", nil, "Photo file to upload now (repeatable)")
	updateTripCmd.Flags().IntSlice("remove-photo", nil, "Photo ID to delete now (repeatable)")

	tripsCmd.AddCommand(listTripsCmd, publicTripsCmd, getTripCmd, createTripCmd, updateTripCmd, deleteTripCmd)
}
