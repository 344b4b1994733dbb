package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateQuestion(t *testing.T) {
	if err := ValidateQuestion("what is thrashing?"); err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}
	if err := ValidateQuestion(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty question: err = %v, want ErrInvalidInput", err)
	}
	long := strings.Repeat("q", MaxQuestionLen+1)
	if err := ValidateQuestion(long); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("oversized question: err = %v, want ErrInvalidInput", err)
	}
}

func TestRateLimitErrorUnwrap(t *testing.T) {
	err := WrapOp("query", &RateLimitError{Message: "Too many requests", Limit: 5})
	if !errors.Is(err, ErrRateLimit) {
		t.Errorf("errors.Is(err, ErrRateLimit) = false for %v", err)
	}
	var rle *RateLimitError
	if !errors.As(err, &rle) || rle.Limit != 5 {
		t.Errorf("errors.As failed or limit lost: %v", err)
	}
}

func TestBackendErrorUnwrap(t *testing.T) {
	if !errors.Is(&BackendError{Status: 500}, ErrBackend) {
		t.Error("500 should unwrap to ErrBackend")
	}
	if !errors.Is(&BackendError{Status: 404}, ErrNotFound) {
		t.Error("404 should unwrap to ErrNotFound")
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := []error{
		WrapOp("query", ErrConnection),
		&RateLimitError{Limit: 5},
		&BackendError{Status: 502},
		WrapOp("load document", ErrDocumentLoad),
	}
	for _, err := range retryable {
		if !IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = false, want true", err)
		}
	}

	permanent := []error{
		&BackendError{Status: 404},
		WrapOp("validate", ErrInvalidInput),
	}
	for _, err := range permanent {
		if IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = true, want false", err)
		}
	}
}

func TestNewMessageID(t *testing.T) {
	id := NewMessageID(time.Now())
	if len(id) != 26 {
		t.Errorf("ID should be a 26-char ULID, got %q (%d chars)", id, len(id))
	}
}
