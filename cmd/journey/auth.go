package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Register, sign in and sign out",
}

// readPassword takes the --password flag, or one line from stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("password is required")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		if name == "" || email == "" {
			return errors.New("--name and --email are required")
		}
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			if _, err := auth.Register(ctx, a.client, auth.RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}
			fmt.Println("สมัครสมาชิกสำเร็จ กรุณาเข้าสู่ระบบ")
			return nil
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return errors.New("--email is required")
		}
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			warn := func(err error) { cmd.PrintErrln("Warning:", err) }
			u, err := auth.SignIn(ctx, a.client, a.session, auth.Credentials{Email: email, Password: password}, warn)
			if err != nil {
				return fmt.Errorf("failed to sign in: %w", err)
			}
			if u == nil {
				fmt.Println("เข้าสู่ระบบสำเร็จ")
				return nil
			}
			fmt.Printf("เข้าสู่ระบบสำเร็จ: %s <%s>\n", u.Name, u.Email)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			if err := auth.Logout(ctx, a.session); err != nil {
				return fmt.Errorf("failed to sign out: %w", err)
			}
			fmt.Println("ออกจากระบบแล้ว")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			u := a.session.User()
			if u == nil || refresh {
				fresh, err := auth.CurrentUser(ctx, a.client)
				if err != nil {
					return fmt.Errorf("failed to fetch user: %w", err)
				}
				if err := a.session.SetUser(ctx, *fresh); err != nil {
					return err
				}
				u = fresh
			}
			printUser(*u)
			return nil
		})
	},
}

func initAuthCmd() {
	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("password", "", "Password (read from stdin when omitted)")

	loginCmd.Flags().String("email", "", "Email address")
	loginCmd.Flags().String("password", "", "Password (read from stdin when omitted)")

	whoamiCmd.Flags().Bool("refresh", false, "Fetch the account from the server instead of the local cache")

	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}
