package intercept

import (
	"log/slog"
	"strings"

	"github.com/jmylchreest/toasty/internal/model"
)

// KeywordFilter suppresses toasts whose text contains a blocked word.
// Matching is case-insensitive.
type KeywordFilter struct {
	words  []string
	logger *slog.Logger
}

// NewKeywordFilter creates a filter for the given words. Empty words are ignored.
func NewKeywordFilter(words []string, logger *slog.Logger) *KeywordFilter {
	if logger == nil {
		logger = slog.Default()
	}
	f := &KeywordFilter{logger: logger}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			f.words = append(f.words, w)
		}
	}
	return f
}

// Intercept implements Interceptor.
func (f *KeywordFilter) Intercept(r *model.Request) bool {
	text := strings.ToLower(r.Text)
	for _, w := range f.words {
		if strings.Contains(text, w) {
			// Never log the text itself; it matched a sensitive word.
			f.logger.Info("toast suppressed by keyword filter", "id", r.ID)
			return true
		}
	}
	return false
}
