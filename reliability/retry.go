package reliability

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/glimte/chainflow/chain"
)

// RetryPolicy defines the interface for retry policies
type RetryPolicy interface {
	// ShouldRetry determines if a retry should be attempted
	ShouldRetry(attempt int, err error) (bool, time.Duration)
	// MaxAttempts returns the maximum number of attempts
	MaxAttempts() int
}

// ExponentialBackoff implements exponential backoff with jitter
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Attempts        int
	Jitter          bool
}

// NewExponentialBackoff creates a new exponential backoff policy
func NewExponentialBackoff(initial, max time.Duration, multiplier float64, maxAttempts int) *ExponentialBackoff {
	return &ExponentialBackoff{
		InitialInterval: initial,
		MaxInterval:     max,
		Multiplier:      multiplier,
		Attempts:        maxAttempts,
		Jitter:          true,
	}
}

// ShouldRetry implements RetryPolicy
func (e *ExponentialBackoff) ShouldRetry(attempt int, err error) (bool, time.Duration) {
	if attempt >= e.Attempts || !isRetryable(err) {
		return false, 0
	}
	return true, e.nextDelay(attempt)
}

// MaxAttempts implements RetryPolicy
func (e *ExponentialBackoff) MaxAttempts() int { return e.Attempts }

func (e *ExponentialBackoff) nextDelay(attempt int) time.Duration {
	delay := float64(e.InitialInterval) * math.Pow(e.Multiplier, float64(attempt))
	if delay > float64(e.MaxInterval) {
		delay = float64(e.MaxInterval)
	}
	if e.Jitter {
		jitter := rand.Float64() * 0.3 * delay // ±15%
		delay = delay + jitter - (0.15 * delay)
	}
	return time.Duration(delay)
}

// LinearBackoff implements a fixed-interval retry policy
type LinearBackoff struct {
	Interval time.Duration
	Attempts int
}

// NewLinearBackoff creates a new linear backoff policy
func NewLinearBackoff(interval time.Duration, maxAttempts int) *LinearBackoff {
	return &LinearBackoff{Interval: interval, Attempts: maxAttempts}
}

// ShouldRetry implements RetryPolicy
func (l *LinearBackoff) ShouldRetry(attempt int, err error) (bool, time.Duration) {
	if attempt >= l.Attempts || !isRetryable(err) {
		return false, 0
	}
	return true, l.Interval
}

// MaxAttempts implements RetryPolicy
func (l *LinearBackoff) MaxAttempts() int { return l.Attempts }

// isRetryable reports whether a fresh attempt can plausibly succeed.
// Cancellation and misuse of the engine never become retries.
func isRetryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, chain.ErrAlreadyStarted):
		return false
	}
	return true
}

// Execute runs fn until it succeeds, the policy gives up, or ctx is done.
// The last attempt's error is returned when retries are exhausted.
func Execute[S any](ctx context.Context, policy RetryPolicy, fn func(context.Context) (S, error)) (S, error) {
	var (
		out S
		err error
	)
	for attempt := 0; ; attempt++ {
		out, err = fn(ctx)
		if err == nil {
			return out, nil
		}

		retry, delay := policy.ShouldRetry(attempt+1, err)
		if !retry {
			return out, err
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			var zero S
			return zero, ctx.Err()
		}
	}
}

// ExecutePipeline retries a pipeline with a fresh executor per attempt. The
// scope is shared across attempts; pass nil for a fresh one per call site.
func ExecutePipeline[S any](ctx context.Context, p *chain.Pipeline[S], scope *chain.Scope, initial S, policy RetryPolicy) (S, error) {
	return Execute(ctx, policy, func(ctx context.Context) (S, error) {
		return p.Executor(scope).Execute(ctx, initial)
	})
}
