package strategy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/platform"
	"github.com/jmylchreest/toasty/internal/style"
)

type passGate struct{}

func (passGate) Intercept(*model.Request) bool { return false }

type fakePresenter struct {
	mu        sync.Mutex
	next      Handle
	presented []string
	dismissed []Handle
	err       error
}

func (f *fakePresenter) Name() string { return "fake" }

func (f *fakePresenter) Present(_ context.Context, r *model.Request) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	f.presented = append(f.presented, r.Text)
	return f.next, nil
}

func (f *fakePresenter) Dismiss(_ context.Context, h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed = append(f.dismissed, h)
	return nil
}

func (f *fakePresenter) Presented() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.presented...)
}

func (f *fakePresenter) Dismissed() []Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Handle(nil), f.dismissed...)
}

func resolved(s Strategy, text string, delay time.Duration) *model.Request {
	r := model.NewRequest(text)
	r.Delay = delay
	r.Duration = model.DurationShort
	r.Strategy = s
	r.Style = style.Dark()
	r.Interceptor = passGate{}
	return r
}

func newTestNative(t *testing.T, timings Timings) (*Native, *fakePresenter) {
	t.Helper()
	p := &fakePresenter{}
	n := NewNative(p, timings, nil)
	require.NoError(t, n.Register(platform.NewStatic(nil, false)))
	t.Cleanup(func() { _ = n.Close() })
	return n, p
}

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

func TestNative_RequiresRegister(t *testing.T) {
	n := NewNative(&fakePresenter{}, DefaultTimings(), nil)
	assert.ErrorIs(t, n.Show(resolved(n, "x", 0)), ErrNotRegistered)
	assert.ErrorIs(t, n.Cancel(), ErrNotRegistered)
	assert.NoError(t, n.Close())
}

func TestNative_RejectsUnresolved(t *testing.T) {
	n, _ := newTestNative(t, DefaultTimings())
	assert.ErrorIs(t, n.Show(model.NewRequest("raw")), model.ErrUnresolved)
}

func TestNative_RegisterRebindsContext(t *testing.T) {
	n, _ := newTestNative(t, DefaultTimings())
	ctx := platform.NewStatic(map[platform.ResourceID]string{1: "a"}, true)
	require.NoError(t, n.Register(ctx))
	assert.Same(t, ctx, n.Context())
	assert.Equal(t, "native/fake", n.Name())
}

func TestNative_ShowImmediate(t *testing.T) {
	n, p := newTestNative(t, DefaultTimings())

	require.NoError(t, n.Show(resolved(n, "hello", 0)))
	require.Eventually(t, func() bool { return len(p.Presented()) == 1 }, waitFor, tick)
	assert.Equal(t, []string{"hello"}, p.Presented())
	assert.Equal(t, 1, n.Presented())
}

func TestNative_ShowHonoursDelay(t *testing.T) {
	n, p := newTestNative(t, DefaultTimings())

	start := time.Now()
	require.NoError(t, n.Show(resolved(n, "later", 80*time.Millisecond)))
	assert.Less(t, time.Since(start), 50*time.Millisecond, "Show must not wait")

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, p.Presented())

	require.Eventually(t, func() bool { return len(p.Presented()) == 1 }, waitFor, tick)
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestNative_NewerRequestSupersedesPending(t *testing.T) {
	n, p := newTestNative(t, DefaultTimings())

	require.NoError(t, n.Show(resolved(n, "stale", 50*time.Millisecond)))
	require.NoError(t, n.Show(resolved(n, "fresh", 0)))

	require.Eventually(t, func() bool { return len(p.Presented()) == 1 }, waitFor, tick)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"fresh"}, p.Presented())
}

func TestNative_NewerRequestDismissesVisible(t *testing.T) {
	n, p := newTestNative(t, DefaultTimings())

	require.NoError(t, n.Show(resolved(n, "first", 0)))
	require.Eventually(t, func() bool { return len(p.Presented()) == 1 }, waitFor, tick)

	require.NoError(t, n.Show(resolved(n, "second", 0)))
	require.Eventually(t, func() bool { return len(p.Presented()) == 2 }, waitFor, tick)

	assert.Equal(t, []Handle{1}, p.Dismissed())
}

func TestNative_ExpiredToastIsNotDismissed(t *testing.T) {
	n, p := newTestNative(t, Timings{Short: 20 * time.Millisecond, Long: 40 * time.Millisecond})

	require.NoError(t, n.Show(resolved(n, "first", 0)))
	require.Eventually(t, func() bool { return len(p.Presented()) == 1 }, waitFor, tick)
	time.Sleep(60 * time.Millisecond)

	require.NoError(t, n.Show(resolved(n, "second", 0)))
	require.Eventually(t, func() bool { return len(p.Presented()) == 2 }, waitFor, tick)
	assert.Empty(t, p.Dismissed())
}

func TestNative_CancelDismissesVisible(t *testing.T) {
	n, p := newTestNative(t, DefaultTimings())

	require.NoError(t, n.Show(resolved(n, "x", 0)))
	require.Eventually(t, func() bool { return len(p.Presented()) == 1 }, waitFor, tick)

	require.NoError(t, n.Cancel())
	require.Eventually(t, func() bool { return len(p.Dismissed()) == 1 }, waitFor, tick)
}

func TestNative_CancelDropsPending(t *testing.T) {
	n, p := newTestNative(t, DefaultTimings())

	require.NoError(t, n.Show(resolved(n, "never", 30*time.Millisecond)))
	require.NoError(t, n.Cancel())

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, p.Presented())
}

func TestNative_PresenterErrorReported(t *testing.T) {
	n, p := newTestNative(t, DefaultTimings())
	p.err = errors.New("no notification daemon")

	errs := make(chan error, 1)
	n.SetErrorHandler(func(err error) { errs <- err })

	require.NoError(t, n.Show(resolved(n, "x", 0)))

	select {
	case err := <-errs:
		var de *DisplayError
		require.ErrorAs(t, err, &de)
		assert.ErrorIs(t, err, p.err)
		assert.Contains(t, err.Error(), "failed to present toast")
	case <-time.After(waitFor):
		t.Fatal("error handler not called")
	}
}

func TestNative_CloseDismissesAndRejects(t *testing.T) {
	p := &fakePresenter{}
	n := NewNative(p, DefaultTimings(), nil)
	require.NoError(t, n.Register(platform.NewStatic(nil, false)))

	require.NoError(t, n.Show(resolved(n, "x", 0)))
	require.Eventually(t, func() bool { return len(p.Presented()) == 1 }, waitFor, tick)

	require.NoError(t, n.Close())
	assert.Equal(t, []Handle{1}, p.Dismissed())
	assert.ErrorIs(t, n.Show(resolved(n, "y", 0)), ErrClosed)
	assert.ErrorIs(t, n.Register(platform.NewStatic(nil, false)), ErrClosed)
	assert.NoError(t, n.Close())
}

func TestTimings(t *testing.T) {
	timings := DefaultTimings()
	assert.Equal(t, 2*time.Second, timings.For(model.DurationShort))
	assert.Equal(t, 3500*time.Millisecond, timings.For(model.DurationLong))
	assert.Equal(t, timings.Short, timings.For(model.DurationUnset))

	n := NewNative(&fakePresenter{}, Timings{}, nil)
	assert.Equal(t, DefaultTimings(), n.timings)
}

func TestDisplayError(t *testing.T) {
	cause := errors.New("boom")
	err := &DisplayError{Message: "failed", Cause: cause}
	assert.Equal(t, "failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bare", (&DisplayError{Message: "bare"}).Error())
}
