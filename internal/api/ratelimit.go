package api

import (
	"time"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/ratelimit"
)

// RateLimiter is the keyed limiter used for per-owner limits.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a new rate limiter.
// rate: number of requests allowed per interval
// interval: time period for rate (e.g., time.Minute)
// burst: maximum burst size
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	// 30 per minute = 30/60 = 0.5 rps
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// allowReview consumes one review submission token for the owner.
func (s *Server) allowReview(ownerID string) error {
	if s.reviewLimiter == nil || s.reviewLimiter.Allow(ownerID) {
		return nil
	}
	s.logger.Warn("review rate limit exceeded", "owner_id", ownerID)
	return httpError(domainerrors.RateLimited("Too many reviews. Please try again later."))
}
