package catalog

import (
	"context"
	"time"

	"storesync/internal/metrics"
)

const (
	DefaultRetries   = 3
	DefaultBaseDelay = time.Second
)

// Retrier describes a fixed-attempt, linear backoff policy. Every error is
// retried the same way; there is no classification of failures.
type Retrier struct {
	Retries   int
	BaseDelay time.Duration

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetrier() Retrier {
	return Retrier{Retries: DefaultRetries, BaseDelay: DefaultBaseDelay}
}

// Retry runs op up to r.Retries times. Between attempts it waits
// BaseDelay*attempt; no wait follows the last attempt. When every attempt
// fails the last error is returned as is.
func Retry[T any](ctx context.Context, r Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := r.Retries
	if attempts < 1 {
		attempts = 1
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt == attempts {
			break
		}
		metrics.CatalogRetries.Inc()
		if serr := sleep(ctx, r.BaseDelay*time.Duration(attempt)); serr != nil {
			return result, err
		}
	}
	return result, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
