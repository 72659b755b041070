package api

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior for failed HTTP requests.
type RetryConfig struct {
	// BaseDelay is the delay before the second attempt.
	BaseDelay time.Duration
	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration
	// Jitter is the randomization factor (0.0 to 1.0) added to delays.
	// Zero keeps the backoff deterministic.
	Jitter float64
	// RetryableOn determines if a status code should trigger a retry.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryConfig returns the default retry configuration: exponential
// backoff starting at one second, capped at ten, retrying only on 5xx.
// Network errors are always retryable and never reach RetryableOn.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		BaseDelay: time.Second,
		MaxDelay:  10 * time.Second,
		RetryableOn: func(statusCode int) bool {
			return statusCode >= 500 && statusCode <= 599
		},
	}
}

// Delay returns the backoff before attempt n+1, where n is the 1-based
// number of the attempt that just failed: min(base * 2^(n-1), cap).
func (r *RetryConfig) Delay(n int) time.Duration {
	if n < 1 {
		n = 1
	}

	delay := r.BaseDelay
	for i := 1; i < n; i++ {
		delay *= 2
		if delay >= r.MaxDelay {
			delay = r.MaxDelay
			break
		}
	}
	if delay > r.MaxDelay {
		delay = r.MaxDelay
	}

	if r.Jitter > 0 {
		jitterAmount := float64(delay) * r.Jitter
		delay = time.Duration(float64(delay) - jitterAmount + rand.Float64()*2*jitterAmount)
	}

	return delay
}

// Wait sleeps for the backoff after failed attempt n, honoring ctx.
func (r *RetryConfig) Wait(ctx context.Context, n int) error {
	timer := time.NewTimer(r.Delay(n))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
