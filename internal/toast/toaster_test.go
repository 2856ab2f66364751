package toast

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/intercept"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/platform"
	"github.com/jmylchreest/toasty/internal/strategy"
	"github.com/jmylchreest/toasty/internal/style"
)

// recordingStrategy keeps every request it is shown.
type recordingStrategy struct {
	mu         sync.Mutex
	name       string
	registered []platform.Context
	shown      []*model.Request
	cancels    int
	showErr    error
}

func (s *recordingStrategy) Name() string { return s.name }

func (s *recordingStrategy) Register(ctx platform.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registered = append(s.registered, ctx)
	return nil
}

func (s *recordingStrategy) Show(r *model.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.showErr != nil {
		return s.showErr
	}
	s.shown = append(s.shown, r)
	return nil
}

func (s *recordingStrategy) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
	return nil
}

func (s *recordingStrategy) Shown() []*model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Request(nil), s.shown...)
}

// countingGate counts calls and optionally suppresses everything.
type countingGate struct {
	calls    int
	suppress bool
}

func (g *countingGate) Intercept(*model.Request) bool {
	g.calls++
	return g.suppress
}

func newTestToaster(t *testing.T, table map[platform.ResourceID]string, debuggable bool) (*Toaster, *recordingStrategy, *platform.Static) {
	t.Helper()
	ctx := platform.NewStatic(table, debuggable)
	rec := &recordingStrategy{name: "recording"}
	toaster := New()
	require.NoError(t, toaster.Init(ctx, WithStrategy(rec)))
	return toaster, rec, ctx
}

func TestToaster_NotInitialized(t *testing.T) {
	toaster := New()
	assert.False(t, toaster.IsInit())

	assert.ErrorIs(t, toaster.Show("x"), ErrNotInitialized)
	assert.ErrorIs(t, toaster.ShowText("x"), ErrNotInitialized)
	assert.ErrorIs(t, toaster.ShowResource(1), ErrNotInitialized)
	assert.ErrorIs(t, toaster.DelayedShow("x", time.Second), ErrNotInitialized)
	assert.ErrorIs(t, toaster.DebugShow("x"), ErrNotInitialized)
	assert.ErrorIs(t, toaster.Cancel(), ErrNotInitialized)
	assert.ErrorIs(t, toaster.SetGravity(style.GravityCenter), ErrNotInitialized)
	assert.ErrorIs(t, toaster.SetView("compact"), ErrNotInitialized)
	assert.ErrorIs(t, toaster.SetStrategy(&recordingStrategy{}), ErrNotInitialized)

	assert.False(t, toaster.IsDebugMode())
	assert.Equal(t, "5", toaster.Resolve(5))
	assert.NoError(t, toaster.Close())
}

func TestToaster_Init(t *testing.T) {
	toaster := New()
	assert.ErrorIs(t, toaster.Init(nil), ErrNilContext)

	rec := &recordingStrategy{name: "recording"}
	ctx := platform.NewStatic(nil, false)
	require.NoError(t, toaster.Init(ctx, WithStrategy(rec), WithStyle(style.Light())))

	assert.True(t, toaster.IsInit())
	assert.Same(t, rec, toaster.Strategy())
	assert.Equal(t, "light", toaster.Style().Name())
	require.Len(t, rec.registered, 1)
	assert.Same(t, ctx, rec.registered[0])
}

// closingStrategy records whether it was closed.
type closingStrategy struct {
	recordingStrategy
	closed int
}

func (s *closingStrategy) Close() error {
	s.closed++
	return nil
}

func TestToaster_ReInitClosesReplacedStrategy(t *testing.T) {
	ctx := platform.NewStatic(nil, false)
	first := &closingStrategy{recordingStrategy: recordingStrategy{name: "first"}}
	second := &closingStrategy{recordingStrategy: recordingStrategy{name: "second"}}

	toaster := New()
	require.NoError(t, toaster.Init(ctx, WithStrategy(first)))
	require.NoError(t, toaster.Init(ctx, WithStrategy(first)))
	assert.Zero(t, first.closed, "re-installing the same strategy must not close it")

	require.NoError(t, toaster.Init(ctx, WithStrategy(second)))
	assert.Equal(t, 1, first.closed)
	assert.Zero(t, second.closed)
	assert.Same(t, second, toaster.Strategy())

	require.NoError(t, toaster.Close())
	assert.Equal(t, 1, second.closed)
}

func TestToaster_InitDefaults(t *testing.T) {
	toaster := New()
	require.NoError(t, toaster.Init(platform.NewStatic(nil, false), WithPresenter(strategy.NewBeeepPresenter("", ""))))
	t.Cleanup(func() { _ = toaster.Close() })

	assert.Equal(t, "native/beeep", toaster.Strategy().Name())
	assert.Equal(t, "dark", toaster.Style().Name())
}

func TestToaster_DurationThreshold(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)

	tests := []struct {
		name     string
		text     string
		duration model.Duration
		expected model.Duration
	}{
		{"twenty units", strings.Repeat("a", 20), model.DurationUnset, model.DurationShort},
		{"twenty one units", strings.Repeat("a", 21), model.DurationUnset, model.DurationLong},
		{"explicit short kept", strings.Repeat("a", 40), model.DurationShort, model.DurationShort},
		{"explicit long kept", "hi", model.DurationLong, model.DurationLong},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.NewRequest(tt.text)
			r.Duration = tt.duration
			require.NoError(t, toaster.ShowRequest(r))

			shown := rec.Shown()
			require.Len(t, shown, i+1)
			assert.Equal(t, tt.expected, shown[i].Duration)
		})
	}
}

func TestToaster_EmptyTextIsNoOp(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)
	gate := &countingGate{}
	toaster.SetInterceptor(gate)

	assert.NoError(t, toaster.ShowText(""))
	assert.NoError(t, toaster.ShowRequest(nil))
	assert.NoError(t, toaster.DelayedShow("", time.Second))

	assert.Zero(t, gate.calls)
	assert.Empty(t, rec.Shown())
}

func TestToaster_DebugShowWhenNotDebuggable(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)
	gate := &countingGate{}
	toaster.SetInterceptor(gate)

	assert.NoError(t, toaster.DebugShow("x"))
	assert.Zero(t, gate.calls)
	assert.Empty(t, rec.Shown())
}

func TestToaster_DebugShowWhenDebuggable(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, true)

	require.NoError(t, toaster.DebugShow("x"))
	require.Len(t, rec.Shown(), 1)
	assert.Equal(t, "x", rec.Shown()[0].Text)
}

func TestToaster_ResourceFallback(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, map[platform.ResourceID]string{7: "Saved"}, false)

	require.NoError(t, toaster.ShowResource(7))
	require.NoError(t, toaster.Show(platform.ResourceID(42)))
	require.NoError(t, toaster.DelayedShow(platform.ResourceID(7), time.Second))

	shown := rec.Shown()
	require.Len(t, shown, 3)
	assert.Equal(t, "Saved", shown[0].Text)
	assert.Equal(t, "42", shown[1].Text)
	assert.Equal(t, "Saved", shown[2].Text)
	assert.Equal(t, time.Second, shown[2].Delay)
}

func TestToaster_ShowValues(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)

	require.NoError(t, toaster.Show(nil))
	require.NoError(t, toaster.Show(3.5))
	require.NoError(t, toaster.ShowValue(errors.New("disk full")))
	require.NoError(t, toaster.ShowValue(nil))
	require.NoError(t, toaster.Show(style.GravityTopLeft))
	require.NoError(t, toaster.Show((*model.Request)(nil)))
	require.NoError(t, toaster.DelayedShow((*model.Request)(nil), time.Second))

	var texts []string
	for _, r := range rec.Shown() {
		texts = append(texts, r.Text)
	}
	assert.Equal(t, []string{"null", "3.5", "disk full", "null", "top-left", "null", "null"}, texts)
	assert.Equal(t, time.Second, rec.Shown()[6].Delay)
}

func TestToaster_Resolve(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, map[platform.ResourceID]string{7: "Saved"}, false)

	assert.Equal(t, "Saved", toaster.Resolve(7))
	assert.Equal(t, "42", toaster.Resolve(42))
	assert.Empty(t, rec.Shown())
}

func TestToaster_AlwaysIntercept(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)
	gate := &countingGate{suppress: true}
	toaster.SetInterceptor(gate)

	for _, text := range []string{"a", strings.Repeat("b", 30), "c"} {
		assert.NoError(t, toaster.ShowText(text))
	}
	assert.NoError(t, toaster.DelayedShow("d", time.Second))

	assert.Equal(t, 4, gate.calls)
	assert.Empty(t, rec.Shown())
}

func TestToaster_InterceptorSeesResolvedFields(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)

	var seen *model.Request
	toaster.SetInterceptor(intercept.Func(func(r *model.Request) bool {
		seen = r.Clone()
		return false
	}))

	require.NoError(t, toaster.ShowText("hello"))
	require.NotNil(t, seen)
	assert.Same(t, rec, seen.Strategy)
	assert.Equal(t, "dark", seen.StyleName())
	assert.NotNil(t, seen.Interceptor)
	assert.Equal(t, model.DurationUnset, seen.Duration, "duration is inferred after interception")
}

func TestToaster_RegistersOnEverySetStrategy(t *testing.T) {
	toaster, _, ctx := newTestToaster(t, nil, false)

	s := &recordingStrategy{name: "second"}
	require.NoError(t, toaster.SetStrategy(s))
	require.NoError(t, toaster.SetStrategy(s))

	require.Len(t, s.registered, 2)
	assert.Same(t, ctx, s.registered[0])
	assert.Same(t, ctx, s.registered[1])
	assert.Same(t, s, toaster.Strategy())

	assert.ErrorIs(t, toaster.SetStrategy(nil), ErrNilStrategy)
}

func TestToaster_GravityComposition(t *testing.T) {
	toaster, _, _ := newTestToaster(t, nil, false)
	base := toaster.Style()

	require.NoError(t, toaster.SetGravityOffset(style.GravityTopLeft, 10, 20))
	require.NoError(t, toaster.SetGravityMargin(style.GravityBottomRight, 1, 2, 0.1, 0.2))

	current := toaster.Style()
	assert.Equal(t, style.Placement{
		Gravity:          style.GravityBottomRight,
		XOffset:          1,
		YOffset:          2,
		HorizontalMargin: 0.1,
		VerticalMargin:   0.2,
	}, current.Placement())
	assert.Equal(t, base.Appearance(), current.Appearance())
	assert.Same(t, base, style.Unwrap(current))

	require.NoError(t, toaster.SetGravity(style.GravityCenter))
	assert.Equal(t, style.Placement{Gravity: style.GravityCenter}, toaster.Style().Placement())

	assert.Error(t, toaster.SetGravity("sideways"))
}

func TestToaster_SetView(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)
	require.NoError(t, toaster.SetGravityOffset(style.GravityTopRight, 4, 8))
	placement := toaster.Style().Placement()

	require.NoError(t, toaster.SetView(""))
	assert.Equal(t, "dark", toaster.Style().Name(), "empty layout is ignored")

	require.NoError(t, toaster.SetView("banner"))
	assert.Equal(t, "custom:banner", toaster.Style().Name())
	assert.Equal(t, "banner", toaster.Style().Appearance().Layout)
	assert.Equal(t, placement, toaster.Style().Placement())

	require.NoError(t, toaster.ShowText("x"))
	assert.Equal(t, "custom:banner", rec.Shown()[0].StyleName())
}

func TestToaster_SetStyle(t *testing.T) {
	toaster, _, _ := newTestToaster(t, nil, false)
	toaster.SetStyle(style.Light())
	assert.Equal(t, "light", toaster.Style().Name())

	toaster.SetStyle(nil)
	assert.Equal(t, "light", toaster.Style().Name())
}

func TestToaster_DebugCaching(t *testing.T) {
	toaster, _, ctx := newTestToaster(t, nil, false)

	assert.False(t, toaster.IsDebugMode())
	ctx.SetDebuggable(true)
	assert.False(t, toaster.IsDebugMode(), "first answer is cached")

	toaster.SetDebugMode(true)
	assert.True(t, toaster.IsDebugMode())
	toaster.SetDebugMode(false)
	assert.False(t, toaster.IsDebugMode())
}

func TestToaster_LazyDefaultInterceptor(t *testing.T) {
	toaster, _, _ := newTestToaster(t, nil, false)

	first := toaster.Interceptor()
	require.IsType(t, &intercept.LogInterceptor{}, first)
	assert.Same(t, first, toaster.Interceptor())

	gate := &countingGate{}
	toaster.SetInterceptor(gate)
	assert.Same(t, gate, toaster.Interceptor())

	toaster.SetInterceptor(nil)
	assert.IsType(t, &intercept.LogInterceptor{}, toaster.Interceptor())
}

func TestToaster_RequestOverrides(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)

	other := &recordingStrategy{name: "other"}
	gate := &countingGate{}

	r := model.NewRequest("override")
	r.Strategy = other
	r.Style = style.Light()
	r.Interceptor = gate
	require.NoError(t, toaster.ShowRequest(r))

	assert.Empty(t, rec.Shown())
	require.Len(t, other.Shown(), 1)
	assert.Equal(t, "light", other.Shown()[0].StyleName())
	assert.Equal(t, 1, gate.calls)
}

func TestToaster_CallerRequestUntouched(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)

	r := model.NewRequest("mine")
	r.Delay = -time.Second
	require.NoError(t, toaster.ShowRequest(r))

	assert.Nil(t, r.Strategy)
	assert.Nil(t, r.Style)
	assert.Equal(t, model.DurationUnset, r.Duration)
	assert.Equal(t, -time.Second, r.Delay)

	shown := rec.Shown()[0]
	assert.NotSame(t, r, shown)
	assert.Zero(t, shown.Delay, "negative delay clamped")
	assert.True(t, shown.Resolved())
}

func TestToaster_StrategyErrorReturnedUnmodified(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)
	rec.showErr = errors.New("display unavailable")

	err := toaster.ShowText("x")
	assert.Same(t, rec.showErr, err)
}

func TestToaster_Cancel(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)
	require.NoError(t, toaster.Cancel())
	assert.Equal(t, 1, rec.cancels)
}

func TestToaster_EndToEnd(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)

	require.NoError(t, toaster.Show(strings.Repeat("x", 25)))
	require.NoError(t, toaster.DelayedShow("hello", 500*time.Millisecond))

	shown := rec.Shown()
	require.Len(t, shown, 2)

	assert.Equal(t, model.DurationLong, shown[0].Duration)
	assert.Zero(t, shown[0].Delay)

	assert.Equal(t, model.DurationShort, shown[1].Duration)
	assert.Equal(t, 500*time.Millisecond, shown[1].Delay)
}

// presenterFunc presents by sending the request on a channel.
type presenterFunc chan *model.Request

func (p presenterFunc) Name() string { return "chan" }

func (p presenterFunc) Present(_ context.Context, r *model.Request) (strategy.Handle, error) {
	p <- r
	return 1, nil
}

func (p presenterFunc) Dismiss(context.Context, strategy.Handle) error { return nil }

func TestToaster_NativeEndToEnd(t *testing.T) {
	presented := make(presenterFunc, 4)
	toaster := New()
	require.NoError(t, toaster.Init(platform.NewStatic(nil, false), WithPresenter(presented)))
	t.Cleanup(func() { _ = toaster.Close() })

	require.NoError(t, toaster.SetGravity(style.GravityTopCenter))
	start := time.Now()
	require.NoError(t, toaster.DelayedShow("hello", 50*time.Millisecond))

	select {
	case r := <-presented:
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		assert.Equal(t, "hello", r.Text)
		assert.Equal(t, model.DurationShort, r.Duration)
		assert.Equal(t, style.GravityTopCenter, r.Style.Placement().Gravity)
	case <-time.After(time.Second):
		t.Fatal("toast not presented")
	}
}

func TestToaster_ConcurrentUse(t *testing.T) {
	toaster, rec, _ := newTestToaster(t, nil, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = toaster.ShowText("concurrent")
			}
		}()
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if i%2 == 0 {
					_ = toaster.SetGravity(style.GravityTopLeft)
				} else {
					toaster.SetStyle(style.Light())
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, rec.Shown(), 160)
}
