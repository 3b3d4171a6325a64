package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/memories"
	"github.com/mynaturejourney/journey/pkg/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your public profile",
}

var getProfileCmd = &cobra.Command{
	Use:   "get",
	Short: "Show your profile, or another user's with --user",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetInt("user")
		return withApp(cmd, userID == 0, func(ctx context.Context, a *app) error {
			var (
				p   profile.Profile
				err error
			)
			if userID > 0 {
				p, err = profile.GetProfileByUser(ctx, a.client, userID)
			} else {
				var exists bool
				defaultName := ""
				if u := a.session.User(); u != nil {
					defaultName = u.Name
				}
				p, exists, err = profile.LoadOrInit(ctx, a.client, defaultName)
				if err == nil && !exists && !jsonOutput {
					fmt.Println("No profile yet. Create one with 'journey profile upsert --name ...'.")
				}
			}
			if err != nil {
				return fmt.Errorf("failed to get profile: %w", err)
			}
			if jsonOutput {
				return printJSON(p)
			}
			printProfile(p)
			if p.UserID > 0 {
				if p.HasAvatar() {
					fmt.Printf("Avatar URL:   %s\n", profile.AvatarURL(a.client, p.UserID))
				}
				if p.HasCover() {
					fmt.Printf("Cover URL:    %s\n", profile.CoverURL(a.client, p.UserID))
				}
			}
			return nil
		})
	},
}

func profileInput(cmd *cobra.Command) profile.Input {
	var in profile.Input
	in.Name, _ = cmd.Flags().GetString("name")
	in.Bio, _ = cmd.Flags().GetString("bio")
	in.Location, _ = cmd.Flags().GetString("location")
	in.Website, _ = cmd.Flags().GetString("website")
	return in
}

var updateProfileCmd = &cobra.Command{
	Use:   "update",
	Short: "Update fields of an existing profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := profileInput(cmd)
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			p, err := profile.UpdateProfile(ctx, a.client, in)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
			if jsonOutput {
				return printJSON(p)
			}
			printProfile(p)
			return nil
		})
	},
}

var upsertProfileCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Create the profile or replace it",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := profileInput(cmd)
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			if in.Name == "" {
				if u := a.session.User(); u != nil {
					in.Name = u.Name
				}
			}
			p, err := profile.UpsertProfile(ctx, a.client, in)
			if err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}
			if jsonOutput {
				return printJSON(p)
			}
			printProfile(p)
			return nil
		})
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			if err := profile.DeleteProfile(ctx, a.client); err != nil {
				return fmt.Errorf("failed to delete profile: %w", err)
			}
			fmt.Println("Profile deleted.")
			return nil
		})
	},
}

// imageCommand builds the avatar and cover subcommands, which differ only in
// the endpoints they call.
func imageCommand(kind string,
	upload func(context.Context, *app, profile.Image) (profile.Profile, error),
	remove func(context.Context, *app) error,
	url func(*app, int) string,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind + " [file]",
		Short: fmt.Sprintf("Upload, delete or show the URL of your %s image", kind),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			del, _ := cmd.Flags().GetBool("delete")
			if del && len(args) > 0 {
				return errors.New("--delete does not take a file")
			}
			return withApp(cmd, true, func(ctx context.Context, a *app) error {
				switch {
				case del:
					if err := remove(ctx, a); err != nil {
						return fmt.Errorf("failed to delete %s: %w", kind, err)
					}
					fmt.Printf("%s deleted.\n", kind)
					return nil
				case len(args) == 1:
					f, err := os.Open(args[0])
					if err != nil {
						return err
					}
					defer f.Close()
					name := filepath.Base(args[0])
					p, err := upload(ctx, a, profile.Image{Name: name, ContentType: memories.ContentTypeFor(name), Reader: f})
					if err != nil {
						return fmt.Errorf("failed to upload %s: %w", kind, err)
					}
					fmt.Printf("Uploaded %s as %s.\n", name, kind)
					fmt.Println(url(a, p.UserID))
					return nil
				default:
					u := a.session.User()
					if u == nil {
						return errNotSignedIn
					}
					fmt.Println(url(a, u.ID))
					return nil
				}
			})
		},
	}
	cmd.Flags().Bool("delete", false, fmt.Sprintf("Delete the %s image", kind))
	return cmd
}

var avatarCmd = imageCommand("avatar",
	func(ctx context.Context, a *app, img profile.Image) (profile.Profile, error) {
		return profile.UploadAvatar(ctx, a.client, img)
	},
	func(ctx context.Context, a *app) error { return profile.DeleteAvatar(ctx, a.client) },
	func(a *app, userID int) string { return profile.AvatarURL(a.client, userID) },
)

var coverCmd = imageCommand("cover",
	func(ctx context.Context, a *app, img profile.Image) (profile.Profile, error) {
		return profile.UploadCover(ctx, a.client, img)
	},
	func(ctx context.Context, a *app) error { return profile.DeleteCover(ctx, a.client) },
	func(a *app, userID int) string { return profile.CoverURL(a.client, userID) },
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your trip statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			stats, err := profile.GetStats(ctx, a.client)
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}
			if jsonOutput {
				return printJSON(stats)
			}
			printStats(stats)
			return nil
		})
	},
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("bio", "", "Short bio")
	cmd.Flags().String("location", "", "Where you live")
	cmd.Flags().String("website", "", "Website URL")
}

func initProfileCmd() {
	getProfileCmd.Flags().Int("user", 0, "Show the profile of this user id")
	addProfileFlags(updateProfileCmd)
	addProfileFlags(upsertProfileCmd)

	profileCmd.AddCommand(getProfileCmd, updateProfileCmd, upsertProfileCmd, deleteProfileCmd, avatarCmd, coverCmd, statsCmd)
}
