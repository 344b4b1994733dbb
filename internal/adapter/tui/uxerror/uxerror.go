// Package uxerror translates raw errors into user-friendly messages with
// recovery hints for the TUI.
package uxerror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lectern/internal/adapter/tui/theme"
	"lectern/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Backend Unreachable"
	Message string   // one-liner explanation
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug)
}

// Render formats the FriendlyError for display in the TUI message list.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(fe.Message)
	}
	if len(fe.Hints) > 0 {
		sb.WriteString("\n  Suggestions:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n    %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	// Domain sentinel errors (checked first so errors.Is works through wrapping).
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrRateLimit) },
		produce: func(err error) FriendlyError {
			fe := FriendlyError{
				Title:   "Daily Question Limit Reached",
				Message: "The backend declined the question because today's quota is used up.",
				Hints:   []string{"Try again tomorrow", "Ask your course staff to raise the limit"},
				Raw:     err.Error(),
			}
			var rl *domain.RateLimitError
			if errors.As(err, &rl) && rl.Limit > 0 {
				fe.Message = fmt.Sprintf("The backend allows %d questions per day and the quota is used up.", rl.Limit)
			}
			return fe
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrInvalidInput) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Question Rejected",
				Message: "The question is empty or too long for the backend to accept.",
				Hints:   []string{fmt.Sprintf("Keep questions under %d characters", domain.MaxQuestionLen)},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrNotFound) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Not Found",
				Message: "The requested lecture, chunk, or document does not exist on the backend.",
				Hints:   []string{"The course material may have been re-indexed; try /clear and ask again"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrDocumentLoad) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Document Failed to Load",
				Message: "The lecture document could not be prepared for viewing.",
				Hints:   []string{"Press r to retry", "The chunk may have no page mapping"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrConnection) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Backend Unreachable",
				Message: "Could not reach the question-answering backend.",
				Hints:   []string{"Check that the backend is running", "Verify backend.base_url in config", "Run 'lectern health' to probe it"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrBackend) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Backend Error",
				Message: "The backend accepted the request but failed to answer it.",
				Hints:   []string{"Try again in a moment", "Check the backend logs"},
				Raw:     err.Error(),
			}
		},
	},

	// Cancellation: the user aborted, nothing actually failed.
	{
		match:   func(err error) bool { return errors.Is(err, context.Canceled) },
		produce: constantError("Cancelled", "The request was cancelled.", nil),
	},

	// Network / connectivity patterns (string matching for wrapped externals).
	{
		match:   containsAny("connection refused", "dial tcp", "no such host"),
		produce: constantError("Connection Failed", "Could not reach the backend service.", []string{"Check your network connection", "Verify the backend URL in config"}),
	},
	{
		match:   containsAny("deadline exceeded", "timeout", "context deadline"),
		produce: constantError("Request Timed Out", "The backend took too long to answer.", []string{"Try again", "Increase backend.timeout in config"}),
	},
}

// Humanize converts a raw error into a FriendlyError with recovery hints.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}

	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}

	return FriendlyError{
		Title:   "Unexpected Error",
		Message: err.Error(),
		Hints:   []string{"Try again", "Run with LECTERN_LOG_LEVEL=debug for more details"},
		Raw:     err.Error(),
	}
}

// containsAny returns a match func that checks if the error string contains
// any of the given substrings (case-insensitive).
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// constantError returns a produce func that always returns the same FriendlyError.
func constantError(title, message string, hints []string) func(error) FriendlyError {
	return func(err error) FriendlyError {
		return FriendlyError{
			Title:   title,
			Message: message,
			Hints:   hints,
			Raw:     err.Error(),
		}
	}
}
