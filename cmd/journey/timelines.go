package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

var timelinesCmd = &cobra.Command{
	Use:   "timelines",
	Short: "Manage the timeline of a trip",
}

var listTimelinesCmd = &cobra.Command{
	Use:   "list [trip-id]",
	Short: "List the timeline entries of a trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			timelines, err := memories.ListTimelines(ctx, a.client, tripID)
			if err != nil {
				return fmt.Errorf("failed to list timelines: %w", err)
			}
			if jsonOutput {
				return printJSON(timelines)
			}
			if len(timelines) == 0 {
				fmt.Println("No timeline entries for this trip.")
				return nil
			}
			printTimelineTable(timelines)
			return nil
		})
	},
}

func coordinateFlags(cmd *cobra.Command) (lat, lng *float64, err error) {
	if cmd.Flags().Changed("lat") {
		raw, _ := cmd.Flags().GetString("lat")
		if lat, err = wizard.ParseCoordinate(raw); err != nil {
			return nil, nil, err
		}
	}
	if cmd.Flags().Changed("lng") {
		raw, _ := cmd.Flags().GetString("lng")
		if lng, err = wizard.ParseCoordinate(raw); err != nil {
			return nil, nil, err
		}
	}
	return lat, lng, nil
}

var createTimelineCmd = &cobra.Command{
	Use:   "create [trip-id]",
	Short: "Add a timeline entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		lat, lng, err := coordinateFlags(cmd)
		if err != nil {
			return err
		}
		data := memories.TimelineData{LocationLat: lat, LocationLng: lng}
		data.TimeLabel, _ = cmd.Flags().GetString("time")
		data.Title, _ = cmd.Flags().GetString("title")
		data.Description, _ = cmd.Flags().GetString("description")
		data.LocationName, _ = cmd.Flags().GetString("location")
		if data.TimeLabel == "" || data.Title == "" {
			return fmt.Errorf("--time and --title are required")
		}

		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			tl, err := memories.CreateTimeline(ctx, a.client, tripID, data)
			if err != nil {
				return fmt.Errorf("failed to create timeline entry: %w", err)
			}
			if jsonOutput {
				return printJSON(tl)
			}
			printTimeline(tl)
			return nil
		})
	},
}

// changedString returns a pointer to the flag value when the flag was set.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

var updateTimelineCmd = &cobra.Command{
	Use:   "update [trip-id] [timeline-id]",
	Short: "Edit a timeline entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		timelineID, err := parseID(args[1], "timeline")
		if err != nil {
			return err
		}
		lat, lng, err := coordinateFlags(cmd)
		if err != nil {
			return err
		}
		data := memories.TimelineUpdate{
			TimeLabel:    changedString(cmd, "time"),
			Title:        changedString(cmd, "title"),
			Description:  changedString(cmd, "description"),
			LocationName: changedString(cmd, "location"),
			LocationLat:  lat,
			LocationLng:  lng,
		}

		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			tl, err := memories.UpdateTimeline(ctx, a.client, tripID, timelineID, data)
			if err != nil {
				return fmt.Errorf("failed to update timeline entry: %w", err)
			}
			if jsonOutput {
				return printJSON(tl)
			}
			printTimeline(tl)
			return nil
		})
	},
}

var deleteTimelineCmd = &cobra.Command{
	Use:   "delete [trip-id] [timeline-id]",
	Short: "Delete a timeline entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		timelineID, err := parseID(args[1], "timeline")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			if err := memories.DeleteTimeline(ctx, a.client, tripID, timelineID); err != nil {
				return fmt.Errorf("failed to delete timeline entry: %w", err)
			}
			fmt.Printf("Timeline entry %d deleted.\n", timelineID)
			return nil
		})
	},
}

var timelinePhotosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Manage the photos of a timeline entry",
}

var listTimelinePhotosCmd = &cobra.Command{
	Use:   "list [trip-id] [timeline-id]",
	Short: "List the photos of a timeline entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		timelineID, err := parseID(args[1], "timeline")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			photos, err := memories.ListTimelinePhotos(ctx, a.client, tripID, timelineID)
			if err != nil {
				return fmt.Errorf("failed to list timeline photos: %w", err)
			}
			if jsonOutput {
				return printJSON(photos)
			}
			if len(photos) == 0 {
				fmt.Println("No photos for this timeline entry.")
				return nil
			}
			fmt.Println("ID | File | Type | Order | URL")
			fmt.Println("------------------------------------------------------------")
			for _, p := range photos {
				fmt.Printf("%d | %s | %s | %d | %s\n", p.ID, p.FileName, p.MimeType, p.SortOrder,
					memories.TimelinePhotoURL(a.client, tripID, timelineID, p.ID))
			}
			return nil
		})
	},
}

var uploadTimelinePhotoCmd = &cobra.Command{
	Use:   "upload [trip-id] [timeline-id] [file]",
	Short: "Upload a photo to a timeline entry",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		timelineID, err := parseID(args[1], "timeline")
		if err != nil {
			return err
		}
		u, err := memories.FileUpload(args[2])
		if err != nil {
			return err
		}
		var sortOrder *int
		if cmd.Flags().Changed("order") {
			order, _ := cmd.Flags().GetInt("order")
			sortOrder = &order
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			p, err := memories.UploadTimelinePhoto(ctx, a.client, tripID, timelineID, u, sortOrder)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", u.Name, err)
			}
			fmt.Printf("Uploaded %s as photo %d\n", u.Name, p.ID)
			return nil
		})
	},
}

var deleteTimelinePhotoCmd = &cobra.Command{
	Use:   "delete [trip-id] [timeline-id] [photo-id]",
	Short: "Delete a timeline photo",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		timelineID, err := parseID(args[1], "timeline")
		if err != nil {
			return err
		}
		photoID, err := parseID(args[2], "photo")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			if err := memories.DeleteTimelinePhoto(ctx, a.client, tripID, timelineID, photoID); err != nil {
				return fmt.Errorf("failed to delete timeline photo: %w", err)
			}
			fmt.Printf("Photo %d deleted.\n", photoID)
			return nil
		})
	},
}

func addTimelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("time", "", "Time label, e.g. 08:00 or วันที่ 1")
	cmd.Flags().String("title", "", "Title")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().String("location", "", "Location name")
	cmd.Flags().String("lat", "", "Latitude")
	cmd.Flags().String("lng", "", "Longitude")
}

func initTimelinesCmd() {
	addTimelineFlags(createTimelineCmd)
	addTimelineFlags(updateTimelineCmd)
	uploadTimelinePhotoCmd.Flags().Int("order", 0, "Sort order")

	timelinePhotosCmd.AddCommand(listTimelinePhotosCmd, uploadTimelinePhotoCmd, deleteTimelinePhotoCmd)
	timelinesCmd.AddCommand(listTimelinesCmd, createTimelineCmd, updateTimelineCmd, deleteTimelineCmd, timelinePhotosCmd)
}
