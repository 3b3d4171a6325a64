package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/tui"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

// tuiDeps wires a page to the app. The returned func stops the sign-out subscription.
func tuiDeps(ctx context.Context, a *app) (tui.Deps, func(), error) {
	opts, err := a.wizardOptions()
	if err != nil {
		return tui.Deps{}, nil, err
	}
	events, unsubscribe := a.session.Subscribe()
	deps := tui.Deps{
		Client:        a.client,
		Service:       wizard.NewService(a.client),
		Geocoder:      a.geocoder(),
		Options:       opts,
		Context:       ctx,
		SessionEvents: events,
	}
	if u := a.session.User(); u != nil {
		deps.User = u.Name
	}
	return deps, unsubscribe, nil
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse your trips in an interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			deps, unsubscribe, err := tuiDeps(ctx, a)
			if err != nil {
				return err
			}
			defer unsubscribe()
			return tui.RunTrips(deps)
		})
	},
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Log a new trip step by step",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			deps, unsubscribe, err := tuiDeps(ctx, a)
			if err != nil {
				return err
			}
			defer unsubscribe()
			res, err := tui.RunWizard(deps)
			if err != nil {
				return err
			}
			if res == nil {
				fmt.Println("Cancelled.")
				return nil
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
