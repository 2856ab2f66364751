package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/audio"
	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/intercept"
	"github.com/jmylchreest/toasty/internal/layout"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/platform"
	"github.com/jmylchreest/toasty/internal/store"
	"github.com/jmylchreest/toasty/internal/strategy"
	"github.com/jmylchreest/toasty/internal/toast"
)

// presentGrace is how long past a toast's delay we wait for the display loop
// to hand it to the presenter.
const presentGrace = 2 * time.Second

// appOptions configures newApp.
type appOptions struct {
	Terminal    io.Writer // Output for the terminal backend
	HistoryPath string
	StatePath   string
	Debuggable  bool
}

// app is a fully wired toaster with its collaborators.
type app struct {
	cfg     *config.Config
	toaster *toast.Toaster
	native  *strategy.Native
	pctx    *platform.Static
	player  *audio.Player
	history *store.History
	state   *store.StateFile
	logger  *slog.Logger

	mu      sync.Mutex // guards cfg and lastErr
	lastErr error
}

// newApp builds a toaster from cfg: presenter (with sound when configured),
// native strategy, interceptor chain, style and resource table.
func newApp(cfg *config.Config, opts appOptions, logger *slog.Logger) (*app, error) {
	if logger == nil {
		logger = slog.Default()
	}

	table, err := cfg.ResourceTable()
	if err != nil {
		return nil, err
	}

	presenter, err := strategy.NewPresenter(strategy.PresenterOptions{
		Backend:  cfg.Backend(),
		Timings:  cfg.Timings(),
		Layouts:  layout.NewLoader(config.LayoutsDir()),
		Terminal: opts.Terminal,
		Width:    cfg.Style.Width,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	var player *audio.Player
	if cfg.Behavior.Sound != "" {
		player = audio.NewPlayer(cfg.Behavior.Volume, logger)
		presenter = strategy.NewSoundPresenter(presenter, player, cfg.Behavior.Sound, logger)
	}

	a := &app{
		cfg:    cfg,
		pctx:   platform.NewStatic(table, opts.Debuggable),
		native: strategy.NewNative(presenter, cfg.Timings(), logger),
		player: player,
		state:  store.NewStateFile(opts.StatePath),
		logger: logger,
	}
	a.native.SetErrorHandler(a.recordError)

	if cfg.Interceptors.History {
		a.history, err = store.OpenHistory(opts.HistoryPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
	}

	a.toaster = toast.New()
	if err := a.toaster.Init(a.pctx,
		toast.WithStrategy(a.native),
		toast.WithStyle(cfg.BaseStyle()),
		toast.WithLogger(logger),
	); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.toaster.SetInterceptor(a.interceptors(cfg))

	if err := a.apply(cfg); err != nil {
		_ = a.Close()
		return nil, err
	}

	logger.Debug("toasty ready",
		"strategy", a.native.Name(),
		"style", a.toaster.Style().Name(),
		"history", cfg.Interceptors.History,
	)
	return a, nil
}

// interceptors builds the chain described by cfg. The history recorder runs
// last so only toasts that are actually shown are recorded.
func (a *app) interceptors(cfg *config.Config) intercept.Interceptor {
	var chain []intercept.Interceptor

	// Blocked text must not reach the log.
	if len(cfg.Interceptors.BlockedWords) > 0 {
		chain = append(chain, intercept.NewKeywordFilter(cfg.Interceptors.BlockedWords, a.logger))
	}
	chain = append(chain, intercept.NewLogInterceptor(a.logger))
	if cfg.Interceptors.DnD {
		chain = append(chain, intercept.NewDnDInterceptor(a.state, a.logger))
	}
	if cfg.Interceptors.RatePerSec > 0 {
		chain = append(chain, intercept.NewRateLimitInterceptor(cfg.Interceptors.RatePerSec, cfg.Interceptors.Burst, a.logger))
	}
	if a.history != nil {
		chain = append(chain, intercept.NewHistoryRecorder(a.history, a.logger))
	}

	return intercept.NewChain(chain...)
}

// apply pushes the style, placement, layout, debug flag and strings of cfg
// onto the running toaster.
func (a *app) apply(cfg *config.Config) error {
	a.toaster.SetStyle(cfg.BaseStyle())

	p := cfg.Placement()
	if err := a.toaster.SetGravityMargin(p.Gravity, p.XOffset, p.YOffset, p.HorizontalMargin, p.VerticalMargin); err != nil {
		return fmt.Errorf("failed to set placement: %w", err)
	}
	if err := a.toaster.SetView(cfg.Style.Layout); err != nil {
		return fmt.Errorf("failed to set layout: %w", err)
	}

	if cfg.Behavior.Debug != nil {
		a.toaster.SetDebugMode(*cfg.Behavior.Debug)
	}

	table, err := cfg.ResourceTable()
	if err != nil {
		return err
	}
	for id, text := range table {
		a.pctx.Put(id, text)
	}

	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	return nil
}

// timings returns the toast lengths of the current config.
func (a *app) timings() strategy.Timings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Timings()
}

// reload applies a freshly loaded config. Backend and interceptor changes
// need a restart; everything else takes effect for the next toast.
func (a *app) reload(cfg *config.Config) {
	if err := a.apply(cfg); err != nil {
		a.logger.Warn("failed to apply reloaded config", "error", err)
		return
	}
	a.logger.Info("config reloaded", "style", a.toaster.Style().Name())
}

func (a *app) recordError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = err
}

// takeError returns and clears the last display error.
func (a *app) takeError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.lastErr
	a.lastErr = nil
	return err
}

// showInput is a single toast as asked for on the command line.
type showInput struct {
	Text      string
	Resource  platform.ResourceID // Replaces Text when non-zero
	Delay     time.Duration
	Duration  model.Duration // DurationUnset infers from the text
	DebugOnly bool
}

// show hands in to the toaster and returns the request it queued, or nil
// when a debug-only toast was skipped.
func (a *app) show(in showInput) (*model.Request, error) {
	text := in.Text
	if in.Resource != 0 {
		text = a.toaster.Resolve(in.Resource)
	}

	req := model.NewRequest(text)
	req.Duration = in.Duration
	req.Delay = in.Delay

	if in.DebugOnly {
		if err := a.toaster.DebugShow(req); err != nil {
			return nil, err
		}
		if !a.toaster.IsDebugMode() {
			a.logger.Debug("debug mode is off, toast skipped")
			return nil, nil
		}
		return req, nil
	}

	var err error
	switch {
	case in.Resource != 0 && in.Duration == model.DurationUnset && in.Delay == 0:
		err = a.toaster.ShowResource(in.Resource)
	default:
		err = a.toaster.DelayedShow(req, in.Delay)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// waitShown blocks until a toast queued after before has been presented and
// its visible time has passed. It returns early when ctx is done or when the
// toast never reaches the presenter (suppressed or superseded).
func (a *app) waitShown(ctx context.Context, before int, delay time.Duration, d model.Duration) error {
	deadline := time.NewTimer(delay + presentGrace)
	defer deadline.Stop()
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	for a.native.Presented() <= before {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return a.takeError()
		case <-tick.C:
		}
	}

	if err := a.takeError(); err != nil {
		return err
	}

	visible := time.NewTimer(a.timings().For(d))
	defer visible.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-visible.C:
		return nil
	}
}

// Close stops the display loop, the sound player and the history file.
func (a *app) Close() error {
	errs := []error{a.native.Close()}
	if a.player != nil {
		errs = append(errs, a.player.Close())
	}
	if a.history != nil {
		errs = append(errs, a.history.Close())
	}
	return errors.Join(errs...)
}
