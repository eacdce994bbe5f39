// Package retry bounds re-attempts of idempotent read operations.
// Create/delete calls are fire-once and must not go through here.
package retry

import (
	"context"
	"log"
	"time"

	"setu/internal/apierr"
)

const (
	DefaultMaxAttempts = 4
	DefaultDelay       = 5 * time.Second
)

// Policy controls how a fetch is retried. The delay between attempts is
// fixed, not exponential, so the worst-case user-facing wait stays
// predictable.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultPolicy returns the standard read-retry policy.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultDelay}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Delay < 0 {
		p.Delay = DefaultDelay
	}
	return p
}

// Do runs fn up to MaxAttempts times. Only network failures (no response
// received) are retried; every other error kind fails immediately. The
// attempt counter is local to this call, so independent calls never see
// each other's state. After the last attempt the last error is returned —
// no silent endless retrying.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p = p.normalized()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !apierr.IsNetwork(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		log.Printf("Retry: attempt %d/%d failed (%v), retrying in %v",
			attempt, p.MaxAttempts, lastErr, p.Delay)

		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return apierr.Network(ctx.Err())
		}
	}

	return lastErr
}
