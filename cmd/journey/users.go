package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/users"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			list, err := users.List(ctx, a.client)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			if jsonOutput {
				return printJSON(list)
			}
			if len(list) == 0 {
				fmt.Println("No users found.")
				return nil
			}
			printUserTable(list)
			return nil
		})
	},
}

var getUserCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			u, err := users.Get(ctx, a.client, id)
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}
			if jsonOutput {
				return printJSON(u)
			}
			printUser(u)
			return nil
		})
	},
}

var updateUserCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change a user's name or email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		var req users.UpdateRequest
		req.Name, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")
		if req.Name == "" && req.Email == "" {
			return fmt.Errorf("nothing to update: pass --name or --email")
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			u, err := users.Update(ctx, a.client, id, req)
			if err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			// Keep the cached identity in step when editing yourself.
			if cur := a.session.User(); cur != nil && cur.ID == u.ID {
				if err := a.session.SetUser(ctx, u); err != nil {
					cmd.PrintErrln("Warning: failed to refresh the stored user:", err)
				}
			}
			if jsonOutput {
				return printJSON(u)
			}
			printUser(u)
			return nil
		})
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			if err := users.Delete(ctx, a.client, id); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			if cur := a.session.User(); cur != nil && cur.ID == id {
				a.session.Clear(ctx)
			}
			fmt.Printf("User %d deleted.\n", id)
			return nil
		})
	},
}

func initUsersCmd() {
	updateUserCmd.Flags().String("name", "", "New name")
	updateUserCmd.Flags().String("email", "", "New email")

	usersCmd.AddCommand(listUsersCmd, getUserCmd, updateUserCmd, deleteUserCmd)
}
