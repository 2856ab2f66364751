package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/adapter/output"
	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/core"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/store"
	"github.com/jmylchreest/toasty/internal/tui"
)

var historyOpts struct {
	format      string
	limit       int
	since       string
	filter      string
	search      string
	sort        string
	order       string
	template    string
	field       string
	noIndex     bool
	noTime      bool
	interactive bool
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"get"},
	Short:   "List recorded toasts",
	Long: `List the toasts recorded in the history file.

Output formats:
  plain  - human-readable text (default)
  dmenu  - one line per toast, for dmenu/rofi/fuzzel
  json   - JSON array
  yaml   - YAML sequence
  ids    - one toast ID per line

Filter expressions (comma-separated, ANDed):
  text~deploy        text contains "deploy"
  style=light        exact style name
  duration=long      long toasts only
  delay>=500         delayed by at least 500ms
  timestamp>1h       recorded within the last hour

Examples:
  # Last 10 toasts
  toasty history --limit 10

  # Long toasts from today as JSON
  toasty history --since 24h --filter duration=long --format json

  # Pick a toast with fuzzel and print its text
  toasty history --format dmenu | fuzzel -d

  # Browse, search, re-show and delete toasts interactively
  toasty history --interactive`,
	RunE: runHistory,
}

var historyPruneOpts struct {
	olderThan string
	keep      int
	dryRun    bool
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old toasts from history",
	Long: `Remove old toasts from the history file.

Examples:
  # Remove toasts older than 7 days
  toasty history prune --older-than 7d

  # Keep only the 100 most recent toasts
  toasty history prune --keep 100`,
	RunE: runHistoryPrune,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all toasts from history",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHistory()
		if err != nil {
			return err
		}
		defer h.Close()

		if err := h.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)

	f := historyCmd.Flags()
	f.StringVarP(&historyOpts.format, "format", "f", "plain",
		"Output format: plain, dmenu, json, yaml, ids")
	f.IntVarP(&historyOpts.limit, "limit", "n", 0,
		"Maximum number of toasts (0=unlimited)")
	f.StringVar(&historyOpts.since, "since", "",
		"Only toasts newer than this (e.g., 1h, 7d, 1w)")
	f.StringVar(&historyOpts.filter, "filter", "",
		"Filter expression (e.g., 'text~deploy,duration=long')")
	f.StringVarP(&historyOpts.search, "search", "s", "",
		"Case-insensitive text search")
	f.StringVar(&historyOpts.sort, "sort", "timestamp",
		"Sort field: timestamp, text, duration, delay")
	f.StringVar(&historyOpts.order, "order", "desc",
		"Sort order: asc, desc")
	f.StringVar(&historyOpts.template, "template", "",
		"Go template for plain/dmenu output (fields: .Index, .Record, .RelativeTime, .Humanized)")
	f.StringVar(&historyOpts.field, "field", "",
		"Print only this field of each toast (id, text, style, duration, gravity, delay, timestamp)")
	f.BoolVar(&historyOpts.noIndex, "no-index", false,
		"Hide the index column")
	f.BoolVar(&historyOpts.noTime, "no-time", false,
		"Hide the relative time")
	f.BoolVarP(&historyOpts.interactive, "interactive", "i", false,
		"Browse history in a terminal UI (--search pre-fills the search)")

	historyPruneCmd.Flags().StringVar(&historyPruneOpts.olderThan, "older-than", "",
		"Remove toasts older than this duration (e.g., 48h, 7d, 1w)")
	historyPruneCmd.Flags().IntVar(&historyPruneOpts.keep, "keep", 0,
		"Keep only the N most recent toasts (0=unlimited)")
	historyPruneCmd.Flags().BoolVar(&historyPruneOpts.dryRun, "dry-run", false,
		"Show what would be removed without removing it")
}

func openHistory() (*store.History, error) {
	h, err := store.OpenHistory(historyPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return h, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(historyOpts.format)
	if err != nil {
		return err
	}
	since, err := core.ParseSince(historyOpts.since)
	if err != nil {
		return err
	}
	expr, err := core.ParseFilter(historyOpts.filter)
	if err != nil {
		return err
	}
	sortField, err := core.ParseSortField(historyOpts.sort)
	if err != nil {
		return err
	}
	sortOrder, err := core.ParseSortOrder(historyOpts.order)
	if err != nil {
		return err
	}

	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()

	if historyOpts.interactive {
		return runHistoryBrowser(cmd, h)
	}

	records, err := h.Load()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	records = core.FilterWithExpr(records, expr)
	records = core.Search(records, historyOpts.search)
	core.Sort(records, core.SortOptions{Field: sortField, Order: sortOrder})
	records = core.Filter(records, core.FilterOptions{Since: since, Limit: historyOpts.limit})

	w := cmd.OutOrStdout()
	if historyOpts.field != "" {
		for i := range records {
			fmt.Fprintln(w, output.FormatField(&records[i], historyOpts.field))
		}
		return nil
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = historyOpts.template
	opts.ShowIndex = !historyOpts.noIndex
	opts.ShowTime = !historyOpts.noTime
	return output.NewFormatter(format, opts).Format(w, records)
}

// runHistoryBrowser opens the terminal UI over h. Re-shown toasts go through
// a full toaster, so they are intercepted and recorded like any other.
func runHistoryBrowser(cmd *cobra.Command, h *store.History) error {
	var show tui.ShowFunc
	a, err := newApp(cfg, appOptions{
		Terminal:    cmd.ErrOrStderr(),
		HistoryPath: historyPath(),
		StatePath:   config.StatePath(),
		Debuggable:  globalOpts.verbose,
	}, logger)
	if err != nil {
		logger.Warn("toasts cannot be re-shown", "error", err)
	} else {
		defer a.Close()
		show = func(rec model.Record) error {
			_, err := a.show(showInput{Text: rec.Text, Duration: rec.Duration})
			return err
		}
	}

	return tui.Run(h, show, historyOpts.search,
		tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if historyPruneOpts.olderThan == "" && historyPruneOpts.keep == 0 {
		return fmt.Errorf("specify --older-than or --keep")
	}

	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()

	records, err := h.Load()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No toasts in history")
		return nil
	}

	kept := records
	if historyPruneOpts.olderThan != "" {
		age, err := core.ParseSince(historyPruneOpts.olderThan)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		kept = pruneOlderThan(kept, time.Now().Add(-age))
	}
	if keep := historyPruneOpts.keep; keep > 0 && len(kept) > keep {
		core.Sort(kept, core.SortOptions{Field: core.SortByTimestamp, Order: core.SortAsc})
		kept = kept[len(kept)-keep:]
	}

	removed := len(records) - len(kept)
	if historyPruneOpts.dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Would remove %d of %d toasts\n", removed, len(records))
		return nil
	}
	if removed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune")
		return nil
	}

	if err := h.Rewrite(kept); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d toasts (%d remaining)\n", removed, len(kept))
	return nil
}

// pruneOlderThan returns the records at or after cutoff.
func pruneOlderThan(records []model.Record, cutoff time.Time) []model.Record {
	kept := make([]model.Record, 0, len(records))
	for _, r := range records {
		if !r.TimestampTime().Before(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}
