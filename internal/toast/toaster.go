package toast

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/intercept"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/platform"
	"github.com/jmylchreest/toasty/internal/strategy"
	"github.com/jmylchreest/toasty/internal/style"
)

var (
	// ErrNotInitialized is returned by operations that need Init first.
	ErrNotInitialized = errors.New("toaster is not initialized")
	// ErrNilContext is returned by Init without a context.
	ErrNilContext = errors.New("platform context is nil")
	// ErrNilStrategy is returned when installing a nil strategy.
	ErrNilStrategy = errors.New("strategy is nil")
)

// NullText is shown for a nil value.
const NullText = "null"

type options struct {
	strategy  strategy.Strategy
	style     style.Style
	presenter strategy.Presenter
	timings   strategy.Timings
	logger    *slog.Logger
}

// Option configures Init.
type Option func(*options)

// WithStrategy installs s instead of the native strategy.
func WithStrategy(s strategy.Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithStyle installs s instead of the dark style.
func WithStyle(s style.Style) Option {
	return func(o *options) { o.style = s }
}

// WithPresenter sets the backend of the default native strategy. Ignored
// when WithStrategy is given.
func WithPresenter(p strategy.Presenter) Option {
	return func(o *options) { o.presenter = p }
}

// WithTimings sets the toast lengths of the default native strategy.
func WithTimings(t strategy.Timings) Option {
	return func(o *options) { o.timings = t }
}

// WithLogger sets the logger used by the toaster and its defaults.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Toaster resolves and dispatches toast requests.
type Toaster struct {
	mu          sync.RWMutex
	ctx         platform.Context
	strategy    strategy.Strategy
	style       style.Style
	interceptor intercept.Interceptor
	debug       *bool
	logger      *slog.Logger
}

// New creates an uninitialized toaster.
func New() *Toaster {
	return &Toaster{logger: slog.Default()}
}

// Init binds the toaster to ctx and installs the strategy and style.
// Calling Init again replaces both; a replaced strategy that is an
// io.Closer is closed.
func (t *Toaster) Init(ctx platform.Context, opts ...Option) error {
	if ctx == nil {
		return ErrNilContext
	}

	o := options{timings: strategy.DefaultTimings()}
	for _, opt := range opts {
		opt(&o)
	}

	t.mu.Lock()
	if o.logger != nil {
		t.logger = o.logger
	}
	logger := t.logger
	t.mu.Unlock()

	s := o.strategy
	if s == nil {
		p := o.presenter
		if p == nil {
			var err error
			p, err = strategy.NewPresenter(strategy.PresenterOptions{
				Backend: strategy.BackendAuto,
				Timings: o.timings,
				Logger:  logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create presenter: %w", err)
			}
		}
		s = strategy.NewNative(p, o.timings, logger)
	}

	if err := s.Register(ctx); err != nil {
		return fmt.Errorf("failed to register strategy %s: %w", s.Name(), err)
	}

	st := o.style
	if st == nil {
		st = style.Dark()
	}

	t.mu.Lock()
	old := t.strategy
	t.ctx = ctx
	t.strategy = s
	t.style = st
	t.mu.Unlock()

	if c, ok := old.(io.Closer); ok && old != s {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close replaced strategy", "strategy", old.Name(), "error", err)
		}
	}

	logger.Debug("toaster initialized", "strategy", s.Name(), "style", st.Name())
	return nil
}

// IsInit reports whether context, strategy and style are all set.
func (t *Toaster) IsInit() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ctx != nil && t.strategy != nil && t.style != nil
}

// Close releases the strategy if it holds resources.
func (t *Toaster) Close() error {
	t.mu.RLock()
	s := t.strategy
	t.mu.RUnlock()

	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Show displays v. Strings are shown as-is, resource ids are looked up,
// requests are dispatched directly, nil shows "null" and anything else is
// formatted with fmt.Sprint.
func (t *Toaster) Show(v any) error {
	switch x := v.(type) {
	case *model.Request:
		if x == nil {
			return t.ShowText(NullText)
		}
		return t.ShowRequest(x)
	case platform.ResourceID:
		return t.ShowResource(x)
	default:
		return t.ShowText(t.text(v))
	}
}

// ShowText displays text.
func (t *Toaster) ShowText(text string) error {
	return t.ShowRequest(model.NewRequest(text))
}

// ShowResource displays the resource string for id, or the id itself when
// the context has no such string.
func (t *Toaster) ShowResource(id platform.ResourceID) error {
	if !t.IsInit() {
		return ErrNotInitialized
	}
	return t.ShowText(t.Resolve(id))
}

// Resolve returns the resource string for id, or the id itself when the
// context has no such string.
func (t *Toaster) Resolve(id platform.ResourceID) string {
	t.mu.RLock()
	ctx := t.ctx
	t.mu.RUnlock()

	if ctx != nil {
		if text, ok := ctx.ResolveText(id); ok {
			return text
		}
	}
	return id.String()
}

// ShowValue displays the textual form of v.
func (t *Toaster) ShowValue(v any) error {
	return t.ShowText(valueText(v))
}

// DelayedShow displays v after d. Negative delays are treated as zero.
func (t *Toaster) DelayedShow(v any, d time.Duration) error {
	if r, ok := v.(*model.Request); ok && r != nil {
		if r.Empty() {
			return t.ShowRequest(r)
		}
		r = r.Clone()
		r.Delay = d
		return t.ShowRequest(r)
	}
	if !t.IsInit() {
		return ErrNotInitialized
	}
	r := model.NewRequest(t.text(v))
	r.Delay = d
	return t.ShowRequest(r)
}

// DebugShow displays v only in debug mode. Otherwise nothing happens, not
// even interception.
func (t *Toaster) DebugShow(v any) error {
	if !t.IsInit() {
		return ErrNotInitialized
	}
	if !t.IsDebugMode() {
		return nil
	}
	return t.Show(v)
}

// ShowRequest resolves r against the current defaults and dispatches it.
// The caller's request is not modified. Strategy errors are returned as-is.
func (t *Toaster) ShowRequest(r *model.Request) error {
	if !t.IsInit() {
		return ErrNotInitialized
	}
	if r.Empty() {
		return nil
	}

	req := r.Clone()
	if req.Delay < 0 {
		req.Delay = 0
	}

	t.mu.RLock()
	defaultStrategy, defaultStyle := t.strategy, t.style
	t.mu.RUnlock()

	if req.Strategy == nil {
		req.Strategy = defaultStrategy
	}
	if req.Interceptor == nil {
		req.Interceptor = t.Interceptor()
	}
	if req.Style == nil {
		req.Style = defaultStyle
	}

	if req.Interceptor.Intercept(req) {
		return nil
	}

	if req.Duration == model.DurationUnset {
		req.Duration = model.InferDuration(req.Text)
	}
	return req.Strategy.Show(req)
}

// Cancel dismisses the current toast through the current strategy.
func (t *Toaster) Cancel() error {
	if !t.IsInit() {
		return ErrNotInitialized
	}
	return t.Strategy().Cancel()
}

// SetGravity anchors toasts at g.
func (t *Toaster) SetGravity(g style.Gravity) error {
	return t.SetGravityOffset(g, 0, 0)
}

// SetGravityOffset anchors toasts at g shifted by x and y.
func (t *Toaster) SetGravityOffset(g style.Gravity, x, y int) error {
	return t.SetGravityMargin(g, x, y, 0, 0)
}

// SetGravityMargin anchors toasts at g with offsets and margins. The new
// placement replaces any earlier one; appearance is unchanged.
func (t *Toaster) SetGravityMargin(g style.Gravity, x, y int, horizontal, vertical float64) error {
	if !t.IsInit() {
		return ErrNotInitialized
	}
	g, err := style.ParseGravity(string(g))
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.style = style.WithPlacement(t.style, style.Placement{
		Gravity:          g,
		XOffset:          x,
		YOffset:          y,
		HorizontalMargin: horizontal,
		VerticalMargin:   vertical,
	})
	return nil
}

// SetView switches to a custom layout, keeping the current placement.
// An empty layout is ignored.
func (t *Toaster) SetView(layout string) error {
	if !t.IsInit() {
		return ErrNotInitialized
	}
	if layout == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.style = style.NewCustom(layout, t.style)
	return nil
}

// SetStyle replaces the current style. Nil is ignored.
func (t *Toaster) SetStyle(s style.Style) {
	if s == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.style = s
}

// Style returns the current style.
func (t *Toaster) Style() style.Style {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.style
}

// SetStrategy registers s with the context and makes it current. It
// registers again even if s is already installed.
func (t *Toaster) SetStrategy(s strategy.Strategy) error {
	if s == nil {
		return ErrNilStrategy
	}
	t.mu.RLock()
	ctx := t.ctx
	t.mu.RUnlock()
	if ctx == nil {
		return ErrNotInitialized
	}

	if err := s.Register(ctx); err != nil {
		return fmt.Errorf("failed to register strategy %s: %w", s.Name(), err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.strategy = s
	return nil
}

// Strategy returns the current strategy.
func (t *Toaster) Strategy() strategy.Strategy {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.strategy
}

// SetInterceptor replaces the current interceptor. Nil restores the
// logging default.
func (t *Toaster) SetInterceptor(i intercept.Interceptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interceptor = i
}

// Interceptor returns the current interceptor, creating the logging
// default on first use.
func (t *Toaster) Interceptor() intercept.Interceptor {
	t.mu.RLock()
	i := t.interceptor
	t.mu.RUnlock()
	if i != nil {
		return i
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.interceptor == nil {
		t.interceptor = intercept.NewLogInterceptor(t.logger)
	}
	return t.interceptor
}

// SetDebugMode overrides debug detection.
func (t *Toaster) SetDebugMode(debug bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.debug = &debug
}

// IsDebugMode reports whether debug toasts are shown. Unless overridden the
// context is asked once and the answer is kept.
func (t *Toaster) IsDebugMode() bool {
	t.mu.RLock()
	debug, ctx := t.debug, t.ctx
	t.mu.RUnlock()

	if debug != nil {
		return *debug
	}
	if ctx == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.debug == nil {
		d := ctx.IsDebuggable()
		t.debug = &d
	}
	return *t.debug
}

// text normalizes v, looking up resource ids.
func (t *Toaster) text(v any) string {
	if id, ok := v.(platform.ResourceID); ok {
		return t.Resolve(id)
	}
	return valueText(v)
}

func valueText(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case string:
		return x
	case *model.Request:
		if x == nil {
			return NullText
		}
		return x.Text
	default:
		return fmt.Sprint(v)
	}
}
