// Package chat implements the Bubble Tea chat interface: the conversation
// transcript, the source panel, and the document viewer, composed by the
// origin layout rule.
package chat

import (
	"lectern/internal/adapter/backend"
	"lectern/internal/adapter/pages"
	"lectern/internal/domain"
)

// QueryResultMsg carries a resolved query. Gen identifies the request
// generation so stale responses can be discarded.
type QueryResultMsg struct {
	Result *domain.QueryResult
	Gen    uint64
}

// QueryErrMsg carries a failed query, tagged with its generation.
type QueryErrMsg struct {
	Err error
	Gen uint64
}

// DocReadyMsg injects the rendering capability for a loaded document.
// DocKey identifies the document so a late load for a superseded open is
// dropped.
type DocReadyMsg struct {
	DocKey   string
	Renderer pages.Renderer
}

// DocErrorMsg signals a document load failure.
type DocErrorMsg struct {
	DocKey string
	Err    error
}

// ScrollSettleMsg fires shortly after a document becomes ready, once the
// layout has settled, to apply the deferred initial-page scroll.
type ScrollSettleMsg struct {
	DocKey string
}

// SelectionClearMsg fires after the viewer-close delay to null the active
// evidence. Gen guards against a reopen during the delay window.
type SelectionClearMsg struct {
	Gen uint64
}

// ContextMsg carries the expanded context window for a chunk.
type ContextMsg struct {
	ChunkID string
	Context *domain.EvidenceContext
	Err     error
}

// HealthMsg carries a backend health probe result.
type HealthMsg struct {
	Status domain.HealthStatus
	Err    error
}

// DocSavedMsg reports the outcome of a /save download.
type DocSavedMsg struct {
	Path string
	Err  error
}

// CatalogMsg carries the lecture navigation index with the set of lectures
// that have a viewable PDF.
type CatalogMsg struct {
	Index *backend.LectureIndex
	Docs  *backend.DocumentListing
	Err   error
}

// InfoMsg carries the backend's corpus metadata.
type InfoMsg struct {
	Info *backend.SystemInfo
	Err  error
}

// QuitMsg signals the program to exit.
type QuitMsg struct{}
