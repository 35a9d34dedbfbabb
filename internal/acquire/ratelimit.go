// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultArchiveInterval is the minimum spacing arXiv asks automated
// clients to keep between requests.
const DefaultArchiveInterval = 3 * time.Second

// RateLimiter spaces requests to one endpoint at least Interval apart over
// the lifetime of the process. The spacing is measured from the moment the
// previous caller was let through, so a caller that had to wait pushes the
// next slot back by a full interval.
type RateLimiter struct {
	limiter  *rate.Limiter
	interval time.Duration
	log      log.FieldLogger
}

// NewRateLimiter returns a limiter with the given interval. A non-positive
// interval falls back to DefaultArchiveInterval.
func NewRateLimiter(interval time.Duration, logger log.FieldLogger) *RateLimiter {
	if interval <= 0 {
		interval = DefaultArchiveInterval
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
		log:      logger,
	}
}

// Interval returns the configured spacing.
func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}

// Wait blocks until the caller may issue the next request. The only error
// is ctx.Err() when the context ends first; the reserved slot is then
// handed back.
func (r *RateLimiter) Wait(ctx context.Context) error {
	res := r.limiter.Reserve()
	delay := res.Delay()
	if delay <= 0 {
		return nil
	}

	r.log.WithField("delay", delay.Round(time.Millisecond)).Info("waiting for arXiv rate limit")
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
