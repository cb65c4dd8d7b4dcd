// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package operations

import (
	"context"
	"time"
)

// RetryPolicy defines a bounded retry with a fixed delay between
// attempts.
type RetryPolicy struct {
	// Attempts is the total number of attempts, including the first.
	// Values less than 1 are treated as 1.
	Attempts int
	// Delay is the fixed delay between attempts.
	Delay time.Duration
	// Retryable reports whether an error should be retried, if nil
	// all errors are retried.
	Retryable func(error) bool
	// OnRetry, if set, is called before waiting for the next attempt.
	OnRetry func(ctx context.Context, attempt int, err error)
}

// DefaultRetryPolicy returns a policy of 3 attempts, 2 seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: 2 * time.Second}
}

// Retry calls fn until it succeeds, returns an error that is not
// retryable or the attempts are exhausted. It returns the number of
// attempts made and the error from the last attempt. If the context is
// canceled while waiting between attempts the context's error is
// returned.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context, attempt int) error) (int, error) {
	attempts := max(p.Attempts, 1)
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx, attempt); err == nil {
			return attempt, nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return attempt, err
		}
		if attempt >= attempts {
			return attempt, err
		}
		if p.OnRetry != nil {
			p.OnRetry(ctx, attempt, err)
		}
		if werr := Sleep(ctx, p.Delay); werr != nil {
			return attempt, werr
		}
	}
}

// Sleep waits for the specified duration or until the context is
// canceled.
func Sleep(ctx context.Context, d time.Duration) error {
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
