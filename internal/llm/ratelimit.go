package llm

import (
	"time"

	"golang.org/x/time/rate"
)

// newRateLimiter allows requestsPerMinute requests per minute with a burst of
// the same size. Zero or negative rates fall back to 60.
func newRateLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultConfig().RateLimit
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
}
