// Package usecase holds the client-side interaction state machines: the
// conversation session and the evidence selection coordinator. Both are
// owned by the UI event loop; methods are not safe for concurrent use and
// are documented as update-loop-only.
package usecase

import (
	"context"
	"strings"
	"time"

	"lectern/internal/domain"
)

// Session owns the ordered conversation transcript and enforces the
// single-flight query discipline: at most one request is in flight, and a
// newer Send supersedes any prior one. Supersession is implemented with a
// generation counter plus a single-slot cancel func — the token is
// invalidated (cancel + bump) before a replacement is issued, so there is
// never a window with two "current" requests.
type Session struct {
	transcript []domain.Message
	inFlight   bool
	lastError  string

	gen    uint64
	cancel context.CancelFunc

	topK int
	now  func() time.Time
}

// NewSession creates an empty session. topK is the per-query source count
// requested from the backend.
func NewSession(topK int) *Session {
	return &Session{topK: topK, now: time.Now}
}

// Attempt describes one admitted send: the request to issue, the context it
// must be issued under, and the generation identifying its result.
type Attempt struct {
	Gen     uint64
	Ctx     context.Context
	Request domain.QueryRequest
}

// Send admits a new question. It returns false (and does nothing) when a
// request is already in flight or the trimmed question is empty. Otherwise
// it appends the user message optimistically, marks the session in flight,
// clears the last error, and returns the attempt the caller must execute.
// The caller resolves the attempt via Resolve or Fail with the same Gen.
func (s *Session) Send(question string) (Attempt, bool) {
	question = strings.TrimSpace(question)
	if question == "" || s.inFlight {
		return Attempt{}, false
	}

	// Invalidate before replacing: a cancelled predecessor must never
	// share a generation with the new request.
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.inFlight = true
	s.lastError = ""

	now := s.now()
	s.transcript = append(s.transcript, domain.Message{
		ID:        domain.NewMessageID(now),
		Role:      domain.RoleUser,
		Content:   question,
		Timestamp: now,
	})

	return Attempt{
		Gen:     s.gen,
		Ctx:     ctx,
		Request: domain.QueryRequest{Question: question, TopK: s.topK},
	}, true
}

// Resolve applies a successful result. Stale generations are observed but
// not acted upon; the transcript only ever reflects the newest request.
func (s *Session) Resolve(gen uint64, res *domain.QueryResult) bool {
	if gen != s.gen || !s.inFlight {
		return false
	}
	s.inFlight = false
	s.cancel = nil

	now := s.now()
	s.transcript = append(s.transcript, domain.Message{
		ID:         domain.NewMessageID(now),
		Role:       domain.RoleAssistant,
		Content:    res.Answer,
		Sources:    res.Sources,
		Confidence: res.Confidence,
		Stats: &domain.AnswerStats{
			RetrievalTimeMs:  res.RetrievalStats.RetrievalTimeMs,
			GenerationTimeMs: res.Metadata.GenerationTimeMs,
			AvgScore:         res.RetrievalStats.AvgScore,
		},
		Timestamp: now,
	})
	return true
}

// Fail applies a failed result. The raw error text is retained in lastError;
// display is what the synthetic assistant message shows (the caller's
// user-facing rendering, falling back to the raw text), so the transcript
// remains a complete audit log of what the user saw. Stale generations are
// dropped.
func (s *Session) Fail(gen uint64, err error, display string) bool {
	if gen != s.gen || !s.inFlight {
		return false
	}
	s.inFlight = false
	s.cancel = nil
	s.lastError = err.Error()

	if display == "" {
		display = err.Error()
	}
	now := s.now()
	s.transcript = append(s.transcript, domain.Message{
		ID:        domain.NewMessageID(now),
		Role:      domain.RoleAssistant,
		Content:   display,
		IsError:   true,
		Timestamp: now,
	})
	return true
}

// Cancel aborts any in-flight request without touching the transcript. No
// error message is appended — the user chose to abort, nothing failed.
func (s *Session) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++ // stale resolutions must not apply
	s.inFlight = false
}

// Clear empties the transcript, clears the error, and cancels any
// in-flight request.
func (s *Session) Clear() {
	s.Cancel()
	s.transcript = nil
	s.lastError = ""
}

// Transcript returns the ordered message history. Callers must not mutate
// the returned slice.
func (s *Session) Transcript() []domain.Message { return s.transcript }

// InFlight reports whether a query is outstanding.
func (s *Session) InFlight() bool { return s.inFlight }

// LastError returns the retained error text of the most recent failure,
// empty after Clear or a successful send.
func (s *Session) LastError() string { return s.lastError }

// LatestSources scans the transcript newest-to-oldest and returns the first
// assistant message's evidence list, or nil when no answer carries sources.
// This is the evidence set behind "view all sources".
func (s *Session) LatestSources() []domain.Evidence {
	for i := len(s.transcript) - 1; i >= 0; i-- {
		m := s.transcript[i]
		if m.Role == domain.RoleAssistant && len(m.Sources) > 0 {
			return m.Sources
		}
	}
	return nil
}

// LatestStats returns the stats of the same message LatestSources reads,
// or nil.
func (s *Session) LatestStats() *domain.AnswerStats {
	for i := len(s.transcript) - 1; i >= 0; i-- {
		m := s.transcript[i]
		if m.Role == domain.RoleAssistant && len(m.Sources) > 0 {
			return m.Stats
		}
	}
	return nil
}
