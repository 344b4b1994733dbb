package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the client's failure taxonomy. Typed wrappers below
// carry detail; errors.Is against these sentinels is the dispatch mechanism.
var (
	// ErrInvalidInput rejects a request before it is sent (empty or
	// oversized question, out-of-range parameters).
	ErrInvalidInput = fmt.Errorf("invalid input")

	// ErrRateLimit marks the distinguished 429 backend response.
	ErrRateLimit = fmt.Errorf("rate limit exceeded")

	// ErrBackend covers any other non-2xx backend response.
	ErrBackend = fmt.Errorf("backend error")

	// ErrConnection marks a transport failure (no response at all).
	ErrConnection = fmt.Errorf("connection error")

	// ErrNotFound maps 404 responses (missing chunk, lecture, or PDF).
	ErrNotFound = fmt.Errorf("not found")

	// ErrDocumentLoad is local to the document viewer and recoverable
	// via explicit retry.
	ErrDocumentLoad = fmt.Errorf("document load failed")
)

// RateLimitError is the distinguished rate-limit failure. Limit is the
// backend's configured daily query allowance.
type RateLimitError struct {
	Message string
	Limit   int
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrRateLimit.Error()
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimit }

// BackendError wraps a non-2xx backend response with its status code.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

func (e *BackendError) Unwrap() error {
	if e.Status == 404 {
		return ErrNotFound
	}
	return ErrBackend
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ValidateQuestion enforces the query contract: trimmed length 1–2000.
// The caller is expected to pass an already-trimmed question.
func ValidateQuestion(q string) error {
	if q == "" {
		return WrapOp("validate question", fmt.Errorf("%w: question is empty", ErrInvalidInput))
	}
	if len(q) > MaxQuestionLen {
		return WrapOp("validate question", fmt.Errorf("%w: question exceeds %d characters", ErrInvalidInput, MaxQuestionLen))
	}
	return nil
}

// Contract bounds shared by the client and the gateway.
const (
	MaxQuestionLen = 2000
	MinTopK        = 1
	MaxTopK        = 10
	DefaultTopK    = 5
	MinLectureNum  = 1
	MaxLectureNum  = 30
	MinContextSize = 1
	MaxContextSize = 5
	DefaultContext = 2
)

// IsRetryable reports whether the failure may succeed on a later attempt
// without user changes: transport hiccups, rate limits, transient backend
// failures, and document loads. Missing resources and rejected input are
// not retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnection) ||
		errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrBackend) ||
		errors.Is(err, ErrDocumentLoad)
}
