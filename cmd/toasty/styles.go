package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/adapter/output"
	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/layout"
	"github.com/jmylchreest/toasty/internal/strategy"
	"github.com/jmylchreest/toasty/internal/style"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List styles, gravities, layouts and backends",
	Long: `List the values accepted by the style-related flags and config keys.

Layouts are read from ~/.config/toasty/layouts/*.xml first, then from the
built-in set.`,
	RunE: runStyles,
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}

func runStyles(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	gravities := make([]string, 0, len(style.ValidGravities()))
	for _, g := range style.ValidGravities() {
		gravities = append(gravities, string(g))
	}
	backends := make([]string, 0, len(strategy.ValidBackends()))
	for _, b := range strategy.ValidBackends() {
		backends = append(backends, string(b))
	}
	formats := make([]string, 0, len(output.ValidFormats()))
	for _, f := range output.ValidFormats() {
		formats = append(formats, string(f))
	}

	fmt.Fprintf(w, "Styles:    %s\n", strings.Join(style.Names(), ", "))
	fmt.Fprintf(w, "Gravities: %s\n", strings.Join(gravities, ", "))
	fmt.Fprintf(w, "Layouts:   %s\n", strings.Join(layout.NewLoader(config.LayoutsDir()).Names(), ", "))
	fmt.Fprintf(w, "Backends:  %s\n", strings.Join(backends, ", "))
	fmt.Fprintf(w, "Formats:   %s\n", strings.Join(formats, ", "))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Current:   style=%s gravity=%s backend=%s\n", cfg.Style.Name, cfg.Gravity(), cfg.Backend())
	return nil
}
