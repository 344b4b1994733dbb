package usecase

import "lectern/internal/domain"

// Origin is the UI context a document-viewing action was triggered from.
// It determines how the viewer and the source panel compose on screen.
type Origin int

const (
	OriginChat Origin = iota
	OriginSourcesPanel
)

func (o Origin) String() string {
	if o == OriginSourcesPanel {
		return "sources-panel"
	}
	return "chat"
}

// Selection coordinates which evidence is active for document viewing.
//
// Closing the viewer does not clear the active evidence immediately: the
// exit transition still needs to render the outgoing value, so the clear is
// deferred. The deferral is generation-tagged rather than a bare timer — a
// reopen during the delay window bumps the generation, and the late
// ApplyClear for the old generation is dropped instead of racing the reopen.
type Selection struct {
	active     *domain.Evidence
	viewerOpen bool
	origin     Origin
	clearGen   uint64
}

// OpenViewer activates ev for viewing with the given origin and opens the
// viewer. Any pending deferred clear is superseded.
func (s *Selection) OpenViewer(ev *domain.Evidence, origin Origin) {
	s.clearGen++
	s.active = ev
	s.origin = origin
	s.viewerOpen = true
}

// Swap replaces the active evidence without touching viewer_open or origin.
// Used to view a second document without a close/open transition.
func (s *Selection) Swap(ev *domain.Evidence) {
	s.active = ev
}

// CloseViewer marks the viewer closed and returns the generation the caller
// must pass to ApplyClear after the exit-transition delay.
func (s *Selection) CloseViewer() uint64 {
	s.viewerOpen = false
	s.clearGen++
	return s.clearGen
}

// ApplyClear performs the deferred clear. It is a no-op (returning false)
// when a newer OpenViewer or CloseViewer superseded the given generation,
// or when the viewer was reopened during the delay window.
func (s *Selection) ApplyClear(gen uint64) bool {
	if gen != s.clearGen || s.viewerOpen {
		return false
	}
	s.active = nil
	s.origin = OriginChat
	return true
}

// Active returns the evidence currently shown in the viewer. It stays
// non-nil for the clear-delay window after CloseViewer so an exit
// transition can read the outgoing value.
func (s *Selection) Active() *domain.Evidence { return s.active }

// ViewerOpen reports whether the document viewer is open.
func (s *Selection) ViewerOpen() bool { return s.viewerOpen }

// Origin reports which context the viewer was opened from.
func (s *Selection) Origin() Origin { return s.origin }
