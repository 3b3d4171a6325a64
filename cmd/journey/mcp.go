package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/mcp"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve trip tools over MCP on stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing trip tools.
Sign in with 'journey auth login' first; the stored session is used for every call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		if err := a.requireSignIn(cmd.Context()); err != nil {
			a.Close()
			return err
		}
		opts, err := a.wizardOptions()
		if err != nil {
			a.Close()
			return err
		}

		srv := mcp.NewJourneyMCPServer(mcp.Deps{
			Client:   a.client,
			Service:  wizard.NewService(a.client),
			Geocoder: a.geocoder(),
			Options:  opts,
			Session:  a.session,
		}, a.db)
		// The server owns the database from here on.
		a.db = nil
		defer func() {
			if err := srv.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close MCP server: %v\n", err)
			}
			a.Close()
		}()

		fmt.Fprintf(os.Stderr, "MyNatureJourney MCP server started (API %s)\n", a.cfg.APIURL)
		return srv.Start()
	},
}
