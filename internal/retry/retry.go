// Package retry provides the bounded retry policy applied to upstream calls.
// Only transient failures (timeouts, unavailability) are retried; the policy
// sleeps with doubling backoff between attempts. The sleep function is
// injectable so tests can assert attempt counts without real delays.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// Policy is a bounded retry policy. The zero value is unusable; construct
// with New.
type Policy struct {
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Policy.
type Option func(*Policy)

// WithSleep replaces the sleep function. Tests use this to avoid delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Policy) {
		p.sleep = sleep
	}
}

// New creates a policy running at most attempts tries with a doubling
// backoff starting at base.
func New(attempts int, base time.Duration, opts ...Option) *Policy {
	if attempts < 1 {
		attempts = 1
	}
	p := &Policy{
		attempts: attempts,
		backoff:  base,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attempts returns the maximum number of tries.
func (p *Policy) Attempts() int {
	return p.attempts
}

// Do runs fn until it succeeds, fails non-transiently, or attempts are
// exhausted. Exhaustion wraps the last error in domain.ErrUpstreamFailure;
// the last error stays in the chain so callers can still match its sentinel.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	delay := p.backoff

	for attempt := 1; attempt <= p.attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !domain.Transient(err) {
			return err
		}
		if attempt == p.attempts {
			break
		}
		if serr := p.sleep(ctx, delay); serr != nil {
			return serr
		}
		delay *= 2
	}

	return fmt.Errorf("%w: %d attempts exhausted: %w", domain.ErrUpstreamFailure, p.attempts, err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
