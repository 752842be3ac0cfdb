package transport

import (
	"context"
	"math"
	"time"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

// RetryPolicy bounds retries of server-class failures.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy is 3 attempts starting at 1s and doubling.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second, Multiplier: 2.0}
}

// Delay returns the wait before the attempt following attempt (1-based):
// InitialDelay * Multiplier^(attempt-1).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1)))
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// policy is exhausted, in which case the last error is returned.
func Retry(ctx context.Context, p RetryPolicy, sleep SleepFunc, fn func(attempt int) error) error {
	if sleep == nil {
		sleep = Sleep
	}
	attempts := max(p.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(attempt)
		if err == nil || !fne.IsRetryable(err) || attempt == attempts {
			return err
		}
		if serr := sleep(ctx, p.Delay(attempt)); serr != nil {
			return err
		}
	}
	return err
}
