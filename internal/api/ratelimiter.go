package api

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// rateLimiter is satisfied by *rate.Limiter.
type rateLimiter interface {
	Allow() bool
}

// newFitLimiter builds the token bucket guarding fit calculations. Catalog
// reads and health checks are never throttled.
func newFitLimiter(ratePerSecond float64, burst int) *rate.Limiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(ratePerSecond), burst)
}

// retryAfterSeconds is the wait until the bucket refills one token, at least 1s.
func retryAfterSeconds(limiter rateLimiter) string {
	tb, ok := limiter.(*rate.Limiter)
	if !ok || tb.Limit() <= 0 || tb.Limit() == rate.Inf {
		return "1"
	}
	return strconv.Itoa(max(1, int(math.Ceil(1/float64(tb.Limit())))))
}

// throttle rejects calls to route with 429 once limiter is exhausted and
// counts each rejection in m.
func throttle(limiter rateLimiter, m *Metrics, route string, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		m.observeRateLimited(route)
		w.Header().Set("Retry-After", retryAfterSeconds(limiter))
		writeError(w, http.StatusTooManyRequests, "Too many calculations", "fit rate limit exceeded", "Wait before recalculating")
	})
}
