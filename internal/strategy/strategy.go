package strategy

import (
	"context"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/platform"
)

// Strategy displays finalized requests.
type Strategy interface {
	model.Displayer

	// Register binds the strategy to a process context. It is called every
	// time the strategy is installed on a toaster.
	Register(ctx platform.Context) error

	// Cancel dismisses the visible toast and drops any pending one.
	Cancel() error

	// Name identifies the strategy in logs and the CLI.
	Name() string
}

// Handle identifies a presented toast. Zero means no toast.
type Handle uint32

// Presenter is a display backend used by Native.
type Presenter interface {
	// Present shows r and returns a handle for dismissing it.
	Present(ctx context.Context, r *model.Request) (Handle, error)

	// Dismiss removes a presented toast. Dismissing an expired toast is not
	// an error.
	Dismiss(ctx context.Context, h Handle) error

	// Name identifies the backend.
	Name() string
}

// Timings maps toast durations to wall-clock time.
type Timings struct {
	Short time.Duration
	Long  time.Duration
}

// DefaultTimings returns the usual platform toast lengths.
func DefaultTimings() Timings {
	return Timings{
		Short: 2 * time.Second,
		Long:  3500 * time.Millisecond,
	}
}

// For returns the visible time for d. Unset durations are treated as short.
func (t Timings) For(d model.Duration) time.Duration {
	if d == model.DurationLong {
		return t.Long
	}
	return t.Short
}

// DisplayError is a presenter failure.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
