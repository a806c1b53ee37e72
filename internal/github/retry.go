// SPDX-License-Identifier: MPL-2.0

package github

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// retryWithBackoff retries op up to maxAttempts times with exponential backoff.
// The wait between attempts is interrupted by context cancellation.
//
// op returns (shouldRetry bool, err error). If shouldRetry is false, err is
// returned immediately (nil on success, non-nil on permanent failure).
// On retry exhaustion, the last error is returned.
func retryWithBackoff(
	ctx context.Context,
	maxAttempts int,
	baseBackoff time.Duration,
	op func(attempt int) (retry bool, err error),
) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			timer := time.NewTimer(backoffDelay(baseBackoff, attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-timer.C:
			}
		}

		retry, err := op(attempt)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// backoffDelay doubles base for every attempt after the first, capped at 30s.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	const maxDelay = 30 * time.Second
	d := base * time.Duration(1<<(attempt-1))
	if d > maxDelay || d <= 0 {
		return maxDelay
	}
	return d
}

// isRetryableStatus reports whether an HTTP status is worth another attempt.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
