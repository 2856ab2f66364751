package intercept

import (
	"log/slog"

	"github.com/jmylchreest/toasty/internal/model"
)

// Appender persists history records.
type Appender interface {
	Append(rec model.Record) error
}

// HistoryRecorder writes every request it sees to an Appender and never
// suppresses. Place it last in a Chain so only shown toasts are recorded.
type HistoryRecorder struct {
	appender Appender
	logger   *slog.Logger
}

// NewHistoryRecorder creates a recorder.
func NewHistoryRecorder(appender Appender, logger *slog.Logger) *HistoryRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryRecorder{appender: appender, logger: logger}
}

// Intercept implements Interceptor.
func (h *HistoryRecorder) Intercept(r *model.Request) bool {
	if err := h.appender.Append(model.NewRecord(r)); err != nil {
		h.logger.Warn("failed to record toast", "id", r.ID, "error", err)
	}
	return false
}
