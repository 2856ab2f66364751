package strategy

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/platform"
)

// ErrNotRegistered is returned when Show or Cancel is called before Register.
var ErrNotRegistered = errors.New("strategy is not registered")

// ErrClosed is returned once the display loop has been stopped.
var ErrClosed = errors.New("strategy is closed")

// presenterTimeout bounds a single call into the presenter.
const presenterTimeout = 5 * time.Second

// ErrorHandler receives presenter failures from the display loop.
type ErrorHandler func(err error)

// command is the single-slot mailbox between callers and the display loop.
// Only the most recent command matters: a newer toast supersedes an older one
// and a cancel drops whatever was waiting.
type command struct {
	req    *model.Request
	cancel bool
}

func (c command) empty() bool {
	return c.req == nil && !c.cancel
}

// Native is the default strategy. One goroutine owns the presenter; Show and
// Cancel only post to it and return immediately.
type Native struct {
	presenter Presenter
	timings   Timings
	logger    *slog.Logger

	mu        sync.Mutex
	ctx       platform.Context
	next      command
	started   bool
	closed    bool
	onError   ErrorHandler
	presented int

	wake     chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewNative creates a strategy that displays through presenter.
func NewNative(presenter Presenter, timings Timings, logger *slog.Logger) *Native {
	if logger == nil {
		logger = slog.Default()
	}
	if timings.Short <= 0 {
		timings.Short = DefaultTimings().Short
	}
	if timings.Long <= 0 {
		timings.Long = DefaultTimings().Long
	}
	return &Native{
		presenter: presenter,
		timings:   timings,
		logger:    logger,
		wake:      make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Name implements Strategy.
func (n *Native) Name() string {
	return "native/" + n.presenter.Name()
}

// Register implements Strategy. The display loop starts on the first call;
// later calls only rebind the context.
func (n *Native) Register(ctx platform.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrClosed
	}
	n.ctx = ctx
	if !n.started {
		n.started = true
		go n.run()
		n.logger.Debug("display loop started", "presenter", n.presenter.Name())
	}
	return nil
}

// Context returns the context the strategy was last registered with.
func (n *Native) Context() platform.Context {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ctx
}

// SetErrorHandler installs a callback for presenter failures.
func (n *Native) SetErrorHandler(h ErrorHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onError = h
}

// Presented returns the number of toasts handed to the presenter.
func (n *Native) Presented() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.presented
}

// Show implements Strategy.
func (n *Native) Show(r *model.Request) error {
	if !r.Resolved() {
		return model.ErrUnresolved
	}
	return n.post(command{req: r})
}

// Cancel implements Strategy.
func (n *Native) Cancel() error {
	return n.post(command{cancel: true})
}

// Close stops the display loop and dismisses the visible toast.
func (n *Native) Close() error {
	n.mu.Lock()
	started := n.started
	n.closed = true
	n.mu.Unlock()

	n.stopOnce.Do(func() { close(n.stopCh) })
	if started {
		<-n.doneCh
	}
	return nil
}

func (n *Native) post(cmd command) error {
	n.mu.Lock()
	switch {
	case n.closed:
		n.mu.Unlock()
		return ErrClosed
	case !n.started:
		n.mu.Unlock()
		return ErrNotRegistered
	}
	n.next = cmd
	n.mu.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
	return nil
}

func (n *Native) take() command {
	n.mu.Lock()
	defer n.mu.Unlock()
	cmd := n.next
	n.next = command{}
	return cmd
}

func (n *Native) run() {
	defer close(n.doneCh)

	var (
		pending *model.Request
		delay   *time.Timer
		delayC  <-chan time.Time
		visible Handle
		expire  *time.Timer
		expireC <-chan time.Time
	)

	stopDelay := func() {
		if delay != nil {
			delay.Stop()
		}
		delayC = nil
		pending = nil
	}
	clearVisible := func() {
		if expire != nil {
			expire.Stop()
		}
		expireC = nil
		n.dismiss(visible)
		visible = 0
	}
	show := func(r *model.Request) {
		clearVisible()
		h, ok := n.present(r)
		if !ok {
			return
		}
		visible = h
		expire = time.NewTimer(n.timings.For(r.Duration))
		expireC = expire.C
	}

	for {
		select {
		case <-n.stopCh:
			stopDelay()
			clearVisible()
			return

		case <-n.wake:
			cmd := n.take()
			if cmd.empty() {
				continue
			}
			stopDelay()
			if cmd.cancel {
				clearVisible()
				continue
			}
			if cmd.req.Delay > 0 {
				pending = cmd.req
				delay = time.NewTimer(cmd.req.Delay)
				delayC = delay.C
				continue
			}
			show(cmd.req)

		case <-delayC:
			r := pending
			delayC = nil
			pending = nil
			show(r)

		case <-expireC:
			// The presenter expires the toast itself.
			expireC = nil
			visible = 0
		}
	}
}

func (n *Native) present(r *model.Request) (Handle, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), presenterTimeout)
	defer cancel()

	h, err := n.presenter.Present(ctx, r)
	if err != nil {
		n.fail(&DisplayError{Message: "failed to present toast", Cause: err}, r.ID)
		return 0, false
	}

	n.mu.Lock()
	n.presented++
	n.mu.Unlock()

	n.logger.Debug("toast presented", "id", r.ID, "handle", h, "duration", r.Duration.String())
	return h, true
}

func (n *Native) dismiss(h Handle) {
	if h == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenterTimeout)
	defer cancel()

	if err := n.presenter.Dismiss(ctx, h); err != nil {
		n.fail(&DisplayError{Message: "failed to dismiss toast", Cause: err}, "")
	}
}

func (n *Native) fail(err *DisplayError, id string) {
	n.logger.Warn("display error", "id", id, "error", err)

	n.mu.Lock()
	h := n.onError
	n.mu.Unlock()
	if h != nil {
		h(err)
	}
}
