// SPDX-License-Identifier: MPL-2.0

package github

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	errTransient := errors.New("transient")
	errPermanent := errors.New("permanent")

	tests := []struct {
		name      string
		attempts  int
		results   []error
		retryable bool
		wantErr   error
		wantCalls int
	}{
		{name: "success first try", attempts: 3, results: []error{nil}, wantCalls: 1},
		{name: "success after retries", attempts: 3, results: []error{errTransient, errTransient, nil}, retryable: true, wantCalls: 3},
		{name: "exhausted", attempts: 2, results: []error{errTransient, errTransient}, retryable: true, wantErr: errTransient, wantCalls: 2},
		{name: "permanent failure", attempts: 3, results: []error{errPermanent}, wantErr: errPermanent, wantCalls: 1},
		{name: "zero attempts runs once", attempts: 0, results: []error{nil}, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			err := retryWithBackoff(context.Background(), tt.attempts, time.Millisecond, func(attempt int) (bool, error) {
				res := tt.results[attempt]
				calls++
				return tt.retryable, res
			})

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoff_ContextCanceledBetweenAttempts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := retryWithBackoff(ctx, 5, time.Hour, func(int) (bool, error) {
		calls++
		cancel()
		return true, errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBackoffDelay(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	if got := backoffDelay(base, 1); got != base {
		t.Errorf("attempt 1: got %v, want %v", got, base)
	}
	if got := backoffDelay(base, 3); got != 4*base {
		t.Errorf("attempt 3: got %v, want %v", got, 4*base)
	}
	if got := backoffDelay(base, 20); got != 30*time.Second {
		t.Errorf("attempt 20: got %v, want cap 30s", got)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	retryable := []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout}
	for _, code := range retryable {
		if !isRetryableStatus(code) {
			t.Errorf("isRetryableStatus(%d) = false, want true", code)
		}
	}

	permanent := []int{http.StatusOK, http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError}
	for _, code := range permanent {
		if isRetryableStatus(code) {
			t.Errorf("isRetryableStatus(%d) = true, want false", code)
		}
	}
}
