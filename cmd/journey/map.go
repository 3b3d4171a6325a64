package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/tripmap"
)

// readWishlist loads a JSON array of locations; an empty path means none.
func readWishlist(path string) ([]tripmap.Location, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wishlist: %w", err)
	}
	var out []tripmap.Location
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse wishlist %s: %w", path, err)
	}
	return out, nil
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Write an HTML map of the parks you visited",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		wishlistPath, _ := cmd.Flags().GetString("wishlist")
		wishlist, err := readWishlist(wishlistPath)
		if err != nil {
			return err
		}

		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			list, err := memories.ListMyMemories(ctx, a.client, memories.ListOptions{})
			if err != nil {
				return fmt.Errorf("failed to list trips: %w", err)
			}
			visited := tripmap.FromVisited(memories.VisitedLocations(list.Memories))

			widget := tripmap.NewHTMLWidget("แผนที่การเดินทางของฉัน")
			adapter := tripmap.NewAdapter(widget)
			defer adapter.Close()
			adapter.Render(visited, wishlist)

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := widget.WriteHTML(f); err != nil {
				f.Close()
				return fmt.Errorf("failed to write map: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("Map with %d visited and %d wishlist locations written to %s\n", len(visited), len(wishlist), out)
			return nil
		})
	},
}

func initMapCmd() {
	mapCmd.Flags().StringP("output", "o", "journey-map.html", "Output HTML file")
	mapCmd.Flags().String("wishlist", "", "JSON file with wishlist locations ([{name, province, lat, lng}])")
}
