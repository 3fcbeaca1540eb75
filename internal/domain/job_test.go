package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetryDelay(t *testing.T) {
	base := 5 * time.Second

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{4, 40 * time.Second},
		{0, 5 * time.Second}, // clamped
	}

	for _, tt := range tests {
		if got := RetryDelay(base, tt.attempt); got != tt.want {
			t.Errorf("RetryDelay(%v, %d) = %v, want %v", base, tt.attempt, got, tt.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	nonRetryable := []error{
		ErrDuplicatePayment,
		ErrDefaultAccountNotFound,
		ErrInvalidPayload,
		ErrInvalidEntry,
		ErrInvalidPeriod,
		fmt.Errorf("wrapped: %w", ErrDuplicatePayment),
	}

	for _, err := range nonRetryable {
		if IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = true, want false", err)
		}
	}

	retryable := []error{
		errors.New("connection refused"),
		ErrRevenueRecordCreation,
		fmt.Errorf("tx: %w", errors.New("deadlock detected")),
	}

	for _, err := range retryable {
		if !IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = false, want true", err)
		}
	}
}
