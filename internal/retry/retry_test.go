package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestWithBackoff_SingleAttemptByDefault(t *testing.T) {
	attempts := 0
	sentinel := &StatusError{Code: http.StatusBadGateway}

	err := WithBackoff(context.Background(), DefaultConfig(), func(ctx context.Context) error {
		attempts++
		return sentinel
	})

	if attempts != 1 {
		t.Fatalf("Expected 1 attempt, got %d", attempts)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("Expected the operation error unchanged, got: %v", err)
	}
}

func TestWithBackoff_Success(t *testing.T) {
	config := Config{MaxRetries: 3, BaseDelay: 1 * time.Millisecond}
	attempts := 0

	err := WithBackoff(context.Background(), config, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &StatusError{Code: http.StatusServiceUnavailable}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("Expected 3 attempts, got %d", attempts)
	}
}

func TestWithBackoff_FailureAfterMaxRetries(t *testing.T) {
	config := Config{MaxRetries: 2, BaseDelay: 1 * time.Millisecond}
	attempts := 0

	err := WithBackoff(context.Background(), config, func(ctx context.Context) error {
		attempts++
		return &StatusError{Code: http.StatusTooManyRequests}
	})
	if err == nil {
		t.Fatal("Expected failure, got success")
	}
	if attempts != 3 {
		t.Fatalf("Expected 3 attempts, got %d", attempts)
	}
	if !strings.HasPrefix(err.Error(), "operation failed after 3 attempts") {
		t.Fatalf("Expected retry failure error, got: %v", err)
	}
}

func TestWithBackoff_NonRetryableError(t *testing.T) {
	config := Config{MaxRetries: 3, BaseDelay: 1 * time.Millisecond}
	attempts := 0

	err := WithBackoff(context.Background(), config, func(ctx context.Context) error {
		attempts++
		return fmt.Errorf("send: %w", &StatusError{Code: http.StatusBadRequest})
	})
	if attempts != 1 {
		t.Fatalf("Expected 1 attempt for non-retryable error, got %d", attempts)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "non-retryable error") {
		t.Fatalf("Expected non-retryable error, got: %v", err)
	}
}

func TestWithBackoff_ContextCancellation(t *testing.T) {
	config := Config{MaxRetries: 5, BaseDelay: 100 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := WithBackoff(ctx, config, func(ctx context.Context) error {
		return &StatusError{Code: http.StatusInternalServerError}
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected context error, got: %v", err)
	}
	if time.Since(start) > 200*time.Millisecond {
		t.Fatalf("Expected quick abort, took %v", time.Since(start))
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"500", &StatusError{Code: 500}, true},
		{"wrapped 502", fmt.Errorf("discord: %w", &StatusError{Code: 502}), true},
		{"429", &StatusError{Code: 429}, true},
		{"400", &StatusError{Code: 400}, false},
		{"404", &StatusError{Code: 404}, false},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"canceled", context.Canceled, false},
		{"plain error", errors.New("marshal payload"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.expected {
				t.Errorf("Retryable(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestCheckStatus(t *testing.T) {
	if err := CheckStatus(http.StatusNoContent); err != nil {
		t.Errorf("Expected nil for 204, got %v", err)
	}
	err := CheckStatus(http.StatusUnauthorized)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Errorf("Expected StatusError 401, got %v", err)
	}
	if err.Error() != "unexpected status 401" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestHTTPStatusRetryable(t *testing.T) {
	tests := []struct {
		status   int
		expected bool
	}{
		{200, false},
		{400, false},
		{403, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			if got := HTTPStatusRetryable(tt.status); got != tt.expected {
				t.Errorf("HTTPStatusRetryable(%d) = %v, expected %v", tt.status, got, tt.expected)
			}
		})
	}
}
