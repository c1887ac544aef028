package transport

import "time"

// Retryer decides the delay before the next reconnection attempt.
// attempt is 0-based. The second return value reports whether to keep trying.
type Retryer interface {
	NextDelay(attempt int, lastErr error) (time.Duration, bool)

	// Reset is called on a successful connection.
	Reset()
}

// FixedDelayRetryer retries a fixed number of times with a fixed delay.
// This is the default policy: a small bounded budget avoids unbounded
// background churn when the server stays unreachable.
type FixedDelayRetryer struct {
	// Delay is the fixed delay between retries.
	Delay time.Duration

	// MaxRetries caps the retry attempts before the connection settles into
	// its terminal failed state. Zero retries forever: an explicit opt-in for
	// long-lived processes that would rather keep probing an unreachable
	// server than spend the rest of the session in local-only mode.
	MaxRetries int
}

func NewFixedDelayRetryer(delay time.Duration, maxRetries int) *FixedDelayRetryer {
	return &FixedDelayRetryer{
		Delay:      delay,
		MaxRetries: maxRetries,
	}
}

func (r *FixedDelayRetryer) NextDelay(attempt int, lastErr error) (time.Duration, bool) {
	if r.MaxRetries > 0 && attempt >= r.MaxRetries {
		return 0, false
	}
	return r.Delay, true
}

func (r *FixedDelayRetryer) Reset() {}
