package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/memories"
)

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Manage trip photos",
}

// tripAndPhotoIDs parses "[trip-id] [photo-id]".
func tripAndPhotoIDs(args []string) (int, int, error) {
	tripID, err := parseID(args[0], "trip")
	if err != nil {
		return 0, 0, err
	}
	photoID, err := parseID(args[1], "photo")
	if err != nil {
		return 0, 0, err
	}
	return tripID, photoID, nil
}

var listPhotosCmd = &cobra.Command{
	Use:   "list [trip-id]",
	Short: "List the photos of a trip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			photos, err := memories.ListPhotos(ctx, a.client, tripID)
			if err != nil {
				return fmt.Errorf("failed to list photos: %w", err)
			}
			if jsonOutput {
				return printJSON(photos)
			}
			if len(photos) == 0 {
				fmt.Println("No photos for this trip.")
				return nil
			}
			printPhotoTable(photos)
			return nil
		})
	},
}

var uploadPhotoCmd = &cobra.Command{
	Use:   "upload [trip-id] [file...]",
	Short: "Upload photos to a trip",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID(args[0], "trip")
		if err != nil {
			return err
		}
		var sortOrder *int
		if cmd.Flags().Changed("order") {
			order, _ := cmd.Flags().GetInt("order")
			sortOrder = &order
		}

		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			var errs []error
			for i, path := range args[1:] {
				u, err := memories.FileUpload(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				order := sortOrder
				if order != nil && i > 0 {
					next := *sortOrder + i
					order = &next
				}
				p, err := memories.UploadPhoto(ctx, a.client, tripID, u, order)
				if err != nil {
					errs = append(errs, fmt.Errorf("failed to upload %s: %w", u.Name, err))
					continue
				}
				fmt.Printf("Uploaded %s as photo %d\n", u.Name, p.ID)
			}
			return errors.Join(errs...)
		})
	},
}

var deletePhotoCmd = &cobra.Command{
	Use:   "delete [trip-id] [photo-id]",
	Short: "Delete a photo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, photoID, err := tripAndPhotoIDs(args)
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			if err := memories.DeletePhoto(ctx, a.client, tripID, photoID); err != nil {
				return fmt.Errorf("failed to delete photo: %w", err)
			}
			fmt.Printf("Photo %d deleted.\n", photoID)
			return nil
		})
	},
}

var orderPhotoCmd = &cobra.Command{
	Use:   "order [trip-id] [photo-id] [sort-order]",
	Short: "Change the sort order of a photo",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, photoID, err := tripAndPhotoIDs(args)
		if err != nil {
			return err
		}
		order, err := parseSortOrder(args[2])
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			p, err := memories.UpdatePhotoOrder(ctx, a.client, tripID, photoID, order)
			if err != nil {
				return fmt.Errorf("failed to update photo order: %w", err)
			}
			fmt.Printf("Photo %d now has sort order %d\n", p.ID, p.SortOrder)
			return nil
		})
	},
}

func parseSortOrder(raw string) (int, error) {
	order, err := strconv.Atoi(raw)
	if err != nil || order < 0 {
		return 0, fmt.Errorf("invalid sort order: %s", raw)
	}
	return order, nil
}

var photoURLCmd = &cobra.Command{
	Use:   "url [trip-id] [photo-id]",
	Short: "Print the authenticated URL of a photo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, photoID, err := tripAndPhotoIDs(args)
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			fmt.Println(memories.PhotoURL(a.client, tripID, photoID))
			return nil
		})
	},
}

var downloadPhotoCmd = &cobra.Command{
	Use:   "download [trip-id] [photo-id]",
	Short: "Download a photo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, photoID, err := tripAndPhotoIDs(args)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("photo-%d-%d", tripID, photoID)
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			data, contentType, err := memories.FetchPhoto(ctx, a.client, tripID, photoID)
			if err != nil {
				return fmt.Errorf("failed to download photo: %w", err)
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("failed to write '%s': %w", out, err)
			}
			fmt.Printf("Saved %s (%s, %d bytes)\n", out, contentType, len(data))
			return nil
		})
	},
}

func initPhotosCmd() {
	uploadPhotoCmd.Flags().Int("order", 0, "Sort order of the first file; later files follow")
	downloadPhotoCmd.Flags().StringP("output", "o", "", "Output file")

	photosCmd.AddCommand(listPhotosCmd, uploadPhotoCmd, deletePhotoCmd, orderPhotoCmd, photoURLCmd, downloadPhotoCmd)
}
