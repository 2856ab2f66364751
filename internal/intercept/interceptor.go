package intercept

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/toasty/internal/model"
)

// Interceptor may suppress a request. Returning true stops the toast.
type Interceptor interface {
	Intercept(r *model.Request) bool
}

// Func adapts a function to an Interceptor.
type Func func(r *model.Request) bool

// Intercept calls f.
func (f Func) Intercept(r *model.Request) bool {
	return f(r)
}

// LogInterceptor logs every request and never suppresses.
type LogInterceptor struct {
	logger *slog.Logger
	level  slog.LevelVar
}

// NewLogInterceptor creates the default pass-through interceptor.
func NewLogInterceptor(logger *slog.Logger) *LogInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	i := &LogInterceptor{logger: logger}
	i.level.Set(slog.LevelDebug)
	return i
}

// SetLevel changes the level requests are logged at. It is safe to call
// while toasts are being shown.
func (i *LogInterceptor) SetLevel(level slog.Level) {
	i.level.Set(level)
}

// Intercept implements Interceptor.
func (i *LogInterceptor) Intercept(r *model.Request) bool {
	i.logger.Log(context.Background(), i.level.Level(), "toast",
		"id", r.ID,
		"text", r.Text,
		"delay", r.Delay,
		"style", r.StyleName(),
	)
	return false
}

// Chain runs interceptors in order and stops at the first that suppresses.
type Chain []Interceptor

// NewChain builds a chain, skipping nil entries.
func NewChain(interceptors ...Interceptor) Chain {
	chain := make(Chain, 0, len(interceptors))
	for _, i := range interceptors {
		if i != nil {
			chain = append(chain, i)
		}
	}
	return chain
}

// Intercept implements Interceptor.
func (c Chain) Intercept(r *model.Request) bool {
	for _, i := range c {
		if i.Intercept(r) {
			return true
		}
	}
	return false
}
