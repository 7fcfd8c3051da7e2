package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a remote backend failure that may succeed on retry.
var ErrNetwork = errors.New("cache: network error")

// Backoff is a retry policy for remote backends. Only errors wrapping
// ErrNetwork are retried.
type Backoff struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// DefaultBackoff tries three times, waiting 100ms then 200ms.
var DefaultBackoff = Backoff{Attempts: 3, Base: 100 * time.Millisecond, Max: time.Second}

// Retry calls fn until it succeeds, fails with an error that is not
// ErrNetwork, or runs out of attempts. The last error is returned.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Base
	var err error
	for i := 0; i < max(b.Attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			if delay *= 2; b.Max > 0 && delay > b.Max {
				delay = b.Max
			}
		}
		if err = fn(); err == nil || !errors.Is(err, ErrNetwork) {
			return err
		}
	}
	return err
}
