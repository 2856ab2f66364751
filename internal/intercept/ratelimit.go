package intercept

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmylchreest/toasty/internal/model"
)

// RateLimitInterceptor drops toasts that exceed a token-bucket rate.
type RateLimitInterceptor struct {
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewRateLimitInterceptor allows perSecond toasts per second with the given burst.
// A burst below 1 is raised to 1.
func NewRateLimitInterceptor(perSecond float64, burst int, logger *slog.Logger) *RateLimitInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitInterceptor{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
		now:     time.Now,
	}
}

// Intercept implements Interceptor.
func (i *RateLimitInterceptor) Intercept(r *model.Request) bool {
	if i.limiter.AllowN(i.now(), 1) {
		return false
	}
	i.logger.Debug("toast rate-limited", "id", r.ID)
	return true
}
