package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/store"
)

var dndOpts struct {
	quiet bool // Suppress output, return exit code only
}

// dndCmd represents the dnd command group.
var dndCmd = &cobra.Command{
	Use:   "dnd",
	Short: "Manage Do Not Disturb mode",
	Long: `Manage Do Not Disturb (DnD) mode.

While DnD is enabled every toasty process drops its toasts before they are
displayed or recorded. The state is shared through a small file in the data
directory, so it applies to running 'toasty pipe' processes immediately.

Use 'toasty dnd status' to check the current state.
Use 'toasty dnd on' to enable DnD mode.
Use 'toasty dnd off' to disable DnD mode.
Use 'toasty dnd toggle' to toggle DnD mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dndStatusRun(cmd, args)
	},
}

var dndOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable Do Not Disturb mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dndUpdate(cmd, func(s *store.SharedState) { s.SetDnD(true, "dnd on", "cli") })
	},
}

var dndOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable Do Not Disturb mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dndUpdate(cmd, func(s *store.SharedState) { s.SetDnD(false, "dnd off", "cli") })
	},
}

var dndToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle Do Not Disturb mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dndUpdate(cmd, func(s *store.SharedState) { s.ToggleDnD("dnd toggle", "cli") })
	},
}

// dndStatusCmd shows DnD status.
var dndStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Do Not Disturb status",
	Long:  `Show whether Do Not Disturb mode is enabled. The exit code is 1 while it is on.`,
	RunE:  dndStatusRun,
}

func init() {
	dndCmd.AddCommand(dndOnCmd)
	dndCmd.AddCommand(dndOffCmd)
	dndCmd.AddCommand(dndToggleCmd)
	dndCmd.AddCommand(dndStatusCmd)

	for _, cmd := range []*cobra.Command{dndCmd, dndOnCmd, dndOffCmd, dndToggleCmd, dndStatusCmd} {
		cmd.Flags().BoolVarP(&dndOpts.quiet, "quiet", "q", false,
			"Suppress output")
	}

	rootCmd.AddCommand(dndCmd)
}

func dndUpdate(cmd *cobra.Command, fn func(s *store.SharedState)) error {
	state, err := store.NewStateFile(config.StatePath()).Update(fn)
	if err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}

	if !dndOpts.quiet {
		printDnDState(cmd.OutOrStdout(), state, false)
	}
	return nil
}

func dndStatusRun(cmd *cobra.Command, args []string) error {
	state, err := store.NewStateFile(config.StatePath()).Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if !dndOpts.quiet {
		printDnDState(cmd.OutOrStdout(), state, true)
	}

	// Exit code: 0=off, 1=on
	if state.DnDEnabled {
		os.Exit(1)
	}
	return nil
}

func printDnDState(w io.Writer, state *store.SharedState, details bool) {
	if state.DnDEnabled {
		fmt.Fprintln(w, "Do Not Disturb: enabled")
	} else {
		fmt.Fprintln(w, "Do Not Disturb: disabled")
	}

	if !details {
		return
	}

	if since := state.EnabledSince(); !since.IsZero() {
		fmt.Fprintf(w, "  Enabled: %s\n", humanize.Time(since))
	}
	if t := state.DnDLastTransition; t != nil {
		fmt.Fprintf(w, "  Last change: %s\n", formatTransitionTime(t.Timestamp))
		if t.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", t.Reason)
		}
		if t.Source != "" {
			fmt.Fprintf(w, "  Source: %s\n", t.Source)
		}
	}
}

// formatTransitionTime formats a unix timestamp as a human-readable relative time.
func formatTransitionTime(timestamp int64) string {
	return humanize.Time(time.Unix(timestamp, 0))
}
