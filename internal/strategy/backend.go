package strategy

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jmylchreest/toasty/internal/layout"
)

// Backend names a presenter.
type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendDBus     Backend = "dbus"
	BackendBeeep    Backend = "beeep"
	BackendWindows  Backend = "windows"
	BackendTerminal Backend = "terminal"
)

// ValidBackends returns all backend names.
func ValidBackends() []Backend {
	return []Backend{BackendAuto, BackendDBus, BackendBeeep, BackendWindows, BackendTerminal}
}

// ParseBackend parses a backend name. Empty is auto.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BackendAuto, nil
	}
	for _, b := range ValidBackends() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("invalid backend %q, must be one of: %v", s, ValidBackends())
}

// PresenterOptions configures NewPresenter.
type PresenterOptions struct {
	Backend  Backend
	Timings  Timings
	Layouts  *layout.Loader
	Terminal io.Writer
	Width    int
	Logger   *slog.Logger
}

// NewPresenter builds the presenter for opts.Backend. Auto picks the platform
// notifier and falls back to beeep when it is unavailable.
func NewPresenter(opts PresenterOptions) (Presenter, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	switch opts.Backend {
	case BackendDBus:
		return NewDBusPresenter(opts.Timings, opts.Logger)
	case BackendBeeep:
		return NewBeeepPresenter(AppName, ""), nil
	case BackendWindows:
		return newWindowsPresenter()
	case BackendTerminal:
		if opts.Terminal == nil {
			return nil, fmt.Errorf("terminal backend needs an output writer")
		}
		return NewTerminalPresenter(opts.Terminal, opts.Layouts, opts.Width, opts.Logger), nil
	case BackendAuto, "":
		p, err := platformPresenter(opts)
		if err != nil {
			opts.Logger.Debug("platform notifier unavailable, using beeep", "error", err)
			return NewBeeepPresenter(AppName, ""), nil
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
