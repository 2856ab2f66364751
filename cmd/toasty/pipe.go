package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/adapter/input"
	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/model"
)

var pipeOpts struct {
	noWatch bool
}

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Show one toast per line read from stdin",
	Long: `Read lines from stdin and show each one as a toast.

A line is either plain text or a JSON object:
  {"text": "Deploy complete", "delay_ms": 500, "duration": "long"}

A newer line replaces the toast of the previous one. The config file is
watched while running: style, placement, layout, debug mode and strings
are re-applied when it changes.

Examples:
  # Toast every new line of a log
  tail -f build.log | toasty pipe

  # Toast JSON events
  my-tool --json-events | toasty pipe`,
	RunE: runPipe,
}

func init() {
	rootCmd.AddCommand(pipeCmd)

	pipeCmd.Flags().BoolVar(&pipeOpts.noWatch, "no-watch", false,
		"Do not reload the config file when it changes")
}

func runPipe(cmd *cobra.Command, args []string) error {
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

	if !pipeOpts.noWatch {
		watcher, err := config.NewWatcher(globalOpts.configPath, a.reload, logger)
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			if err := watcher.Start(); err != nil {
				logger.Warn("config hot reload disabled", "error", err)
			}
			defer watcher.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		mu      sync.Mutex
		last    *model.Request
		shownAt int
	)
	handle := func(r *model.Request) error {
		before := a.native.Presented()
		if err := a.toaster.ShowRequest(r); err != nil {
			return fmt.Errorf("failed to show toast: %w", err)
		}
		mu.Lock()
		last, shownAt = r, before
		mu.Unlock()
		return nil
	}

	// Reads block on stdin, so the source runs on its own goroutine and an
	// interrupt does not wait for the next line.
	done := make(chan error, 1)
	go func() {
		done <- input.NewLineSource(cmd.InOrStdin()).Run(ctx, handle)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	mu.Lock()
	final, finalAt := last, shownAt
	mu.Unlock()

	// Let the final toast finish before the display loop shuts down.
	if final != nil && ctx.Err() == nil {
		d := final.Duration
		if d == model.DurationUnset {
			d = model.InferDuration(final.Text)
		}
		if err := a.waitShown(ctx, finalAt, final.Delay, d); err != nil && ctx.Err() == nil {
			logger.Warn("last toast failed", "error", err)
		}
	}
	return nil
}
