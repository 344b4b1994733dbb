// Package domain holds the core types shared across the client: conversation
// messages, retrieved evidence, and the error taxonomy.
package domain

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role constants for message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Confidence levels reported by the backend for an answer.
const (
	ConfidenceHigh      = "high"
	ConfidenceMedium    = "medium"
	ConfidenceLow       = "low"
	ConfidenceNoContext = "no_context"
)

// AnswerStats carries timing and scoring metadata for an assistant answer.
type AnswerStats struct {
	RetrievalTimeMs  int     `json:"retrieval_time_ms"`
	GenerationTimeMs int     `json:"generation_time_ms"`
	AvgScore         float64 `json:"avg_score"`
}

// Message is one entry in the conversation transcript. Messages are
// immutable once appended; the transcript is append-only.
type Message struct {
	ID         string       `json:"id"`
	Role       string       `json:"role"`
	Content    string       `json:"content"`
	Sources    []Evidence   `json:"sources,omitempty"`
	Confidence string       `json:"confidence,omitempty"`
	Stats      *AnswerStats `json:"stats,omitempty"`
	IsError    bool         `json:"is_error,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// NewMessageID generates a transcript message ID. ULIDs encode creation time
// plus a random suffix; collisions are accepted risk, not guarded against.
func NewMessageID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// QueryRequest is the outbound query contract.
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// QueryMeta is generation metadata attached to a query result.
type QueryMeta struct {
	GenerationTimeMs int    `json:"generation_time_ms"`
	ModelUsed        string `json:"model_used"`
	NumSources       int    `json:"num_sources,omitempty"`
}

// RetrievalStats reports retrieval-side timing and scoring.
type RetrievalStats struct {
	RetrievalTimeMs int     `json:"retrieval_time_ms"`
	AvgScore        float64 `json:"avg_score"`
}

// QueryResult is the backend's answer to one query.
type QueryResult struct {
	Query          string         `json:"query"`
	Answer         string         `json:"answer"`
	Confidence     string         `json:"confidence"`
	Sources        []Evidence     `json:"sources"`
	RetrievalStats RetrievalStats `json:"retrieval_stats"`
	Metadata       QueryMeta      `json:"metadata"`
}

// HealthStatus is the backend health probe response.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether the probe came back healthy.
func (h HealthStatus) Healthy() bool { return h.Status == "healthy" }
