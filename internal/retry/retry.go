// Package retry runs fallible operations with exponential backoff.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/nguyentantai21042004/tubedigest/internal/logger"
)

// maxInterval caps a single wait far above anything a policy asks for, so the
// schedule stays D*B^(n-1).
const maxInterval = 24 * time.Hour

// Policy describes how many times an operation runs and how long to wait
// between runs.
type Policy struct {
	Attempts     int
	InitialDelay time.Duration
	Multiplier   float64

	// Retryable is the allow-list. Errors it rejects propagate immediately.
	// Nil allows every error.
	Retryable func(error) bool
}

// Delay returns the wait after the given failed attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	p = p.normalized()
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if d > float64(maxInterval) {
		return maxInterval
	}
	return time.Duration(d)
}

func (p Policy) normalized() Policy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	return p
}

func (p Policy) allows(err error) bool {
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

// Do invokes op until it succeeds or the policy gives up. The last error is
// returned unmodified. A warning is logged before every retry and an error
// once all attempts are spent.
func Do[T any](ctx context.Context, p Policy, log logger.Logger, name string, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.normalized()

	attempt := 0
	permanent := false

	operation := func() (T, error) {
		attempt++
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil || !p.allows(err) {
			permanent = true
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialDelay
	bo.Multiplier = p.Multiplier
	bo.RandomizationFactor = 0
	bo.MaxInterval = maxInterval

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(p.Attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.Warn(ctx, "%s attempt %d/%d failed: %v. Retrying in %s...", name, attempt, p.Attempts, err, wait)
		}),
	)
	if err == nil {
		return res, nil
	}

	if perm, ok := err.(*backoff.PermanentError); ok {
		err = perm.Err
	}
	if !permanent && attempt >= p.Attempts {
		log.Error(ctx, "%s failed after %d attempts: %v", name, attempt, err)
	}
	return res, err
}
