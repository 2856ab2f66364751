package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/platform"
	"github.com/jmylchreest/toasty/internal/style"
)

var showOpts struct {
	delay     time.Duration
	long      bool
	short     bool
	resource  int
	debugOnly bool
	gravity   string
	offsetX   int
	offsetY   int
	style     string
	layout    string
}

var showCmd = &cobra.Command{
	Use:   "show [text...]",
	Short: "Show a toast",
	Long: `Show a single toast and wait until it has been displayed.

The duration is inferred from the text unless --long or --short is given:
texts longer than 20 characters stay up longer.

Examples:
  # Show a toast
  toasty show "Build finished"

  # Show a long toast at the top of the screen after two seconds
  toasty show --long --gravity top-center --delay 2s "Deploy complete"

  # Show resource string 42 from the [strings] config table
  toasty show --resource 42

  # Only show when debug mode is on
  toasty show --debug-only "cache miss"`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().DurationVar(&showOpts.delay, "delay", 0,
		"Wait this long before showing the toast (e.g., 500ms, 2s)")
	showCmd.Flags().BoolVar(&showOpts.long, "long", false,
		"Show the toast for the long duration")
	showCmd.Flags().BoolVar(&showOpts.short, "short", false,
		"Show the toast for the short duration")
	showCmd.Flags().IntVar(&showOpts.resource, "resource", 0,
		"Show the string with this id from the [strings] config table")
	showCmd.Flags().BoolVar(&showOpts.debugOnly, "debug-only", false,
		"Show only when debug mode is on")
	showCmd.Flags().StringVar(&showOpts.gravity, "gravity", "",
		"Anchor position (e.g., top-center, bottom-right; see 'toasty styles')")
	showCmd.Flags().IntVar(&showOpts.offsetX, "offset-x", 0,
		"Horizontal offset from the anchor (with --gravity)")
	showCmd.Flags().IntVar(&showOpts.offsetY, "offset-y", 0,
		"Vertical offset from the anchor (with --gravity)")
	showCmd.Flags().StringVar(&showOpts.style, "style", "",
		"Style name (dark, light)")
	showCmd.Flags().StringVar(&showOpts.layout, "layout", "",
		"Layout template name (see 'toasty styles')")

	showCmd.MarkFlagsMutuallyExclusive("long", "short")
}

func runShow(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" && showOpts.resource == 0 {
		return fmt.Errorf("specify the toast text or --resource")
	}

	if showOpts.style != "" {
		cfg.Style.Name = showOpts.style
	}
	if showOpts.layout != "" {
		cfg.Style.Layout = showOpts.layout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cfg, appOptions{
		Terminal:    cmd.OutOrStdout(),
		HistoryPath: historyPath(),
		StatePath:   config.StatePath(),
		Debuggable:  globalOpts.verbose,
	}, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if showOpts.gravity != "" {
		g, err := style.ParseGravity(showOpts.gravity)
		if err != nil {
			return err
		}
		if err := a.toaster.SetGravityOffset(g, showOpts.offsetX, showOpts.offsetY); err != nil {
			return err
		}
	}

	in := showInput{
		Text:      text,
		Resource:  platform.ResourceID(showOpts.resource),
		Delay:     showOpts.delay,
		DebugOnly: showOpts.debugOnly,
	}
	switch {
	case showOpts.long:
		in.Duration = model.DurationLong
	case showOpts.short:
		in.Duration = model.DurationShort
	}

	before := a.native.Presented()
	req, err := a.show(in)
	if err != nil {
		return fmt.Errorf("failed to show toast: %w", err)
	}
	if req == nil {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	duration := req.Duration
	if duration == model.DurationUnset {
		duration = model.InferDuration(req.Text)
	}
	if err := a.waitShown(ctx, before, req.Delay, duration); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
