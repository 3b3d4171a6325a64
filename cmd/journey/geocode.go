package main

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/geocode"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode [name]",
	Short: "Look up the coordinates of a park or place in Thailand",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if utf8.RuneCountInString(name) < geocode.MinQueryRunes {
			return fmt.Errorf("name must be at least %d characters", geocode.MinQueryRunes)
		}
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			coords, found, err := a.geocoder().Search(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to look up coordinates: %w", err)
			}
			if !found {
				fmt.Printf("No coordinates found for '%s'.\n", name)
				return nil
			}
			if jsonOutput {
				return printJSON(coords)
			}
			fmt.Printf("%s: %.6f, %.6f\n", name, coords.Lat, coords.Lng)
			return nil
		})
	},
}
