package intercept

import (
	"log/slog"

	"github.com/jmylchreest/toasty/internal/model"
)

// DnDSource reports the current Do Not Disturb state.
type DnDSource interface {
	DnDEnabled() (bool, error)
}

// DnDSourceFunc adapts a function to a DnDSource.
type DnDSourceFunc func() (bool, error)

// DnDEnabled calls f.
func (f DnDSourceFunc) DnDEnabled() (bool, error) {
	return f()
}

// DnDInterceptor suppresses all toasts while Do Not Disturb is on.
// If the state cannot be read the toast is shown.
type DnDInterceptor struct {
	source DnDSource
	logger *slog.Logger
}

// NewDnDInterceptor creates an interceptor backed by source.
func NewDnDInterceptor(source DnDSource, logger *slog.Logger) *DnDInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DnDInterceptor{source: source, logger: logger}
}

// Intercept implements Interceptor.
func (i *DnDInterceptor) Intercept(r *model.Request) bool {
	enabled, err := i.source.DnDEnabled()
	if err != nil {
		i.logger.Warn("failed to read DnD state", "error", err)
		return false
	}
	if enabled {
		i.logger.Debug("toast suppressed by DnD", "id", r.ID)
	}
	return enabled
}
