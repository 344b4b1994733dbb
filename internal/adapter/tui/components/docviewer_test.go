package components

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/domain"
)

// fakeRenderer emits predictable fixed-height pages.
type fakeRenderer struct {
	pages     int
	pageLines int
}

func (f fakeRenderer) Title() string  { return "Lecture 3" }
func (f fakeRenderer) PageCount() int { return f.pages }
func (f fakeRenderer) RenderPage(page, width int) (string, error) {
	return strings.TrimSuffix(strings.Repeat("line\n", f.pageLines), "\n"), nil
}

func readyViewer(t *testing.T, pageCount int) DocViewerModel {
	t.Helper()
	v := NewDocViewer()
	v.SetSize(60, 20)
	v.Open("lec03.pdf", "Lecture 3", 1)
	v.SetRenderer(fakeRenderer{pages: pageCount, pageLines: 30})
	if v.State() != ViewerReady {
		t.Fatalf("state = %v, want ready", v.State())
	}
	return v
}

func TestViewerLifecycle(t *testing.T) {
	v := NewDocViewer()
	if v.State() != ViewerClosed {
		t.Fatalf("initial state = %v, want closed", v.State())
	}

	v.SetSize(60, 20)
	v.Open("lec03.pdf", "Lecture 3", 4)
	if v.State() != ViewerLoading {
		t.Fatalf("state after Open = %v, want loading", v.State())
	}

	v.SetError(&domain.BackendError{Status: 500, Message: "boom"})
	if v.State() != ViewerError {
		t.Fatalf("state after SetError = %v, want error", v.State())
	}

	if !v.Retry() {
		t.Fatal("Retry from a transient error should succeed")
	}
	if v.State() != ViewerLoading {
		t.Fatalf("state after Retry = %v, want loading", v.State())
	}

	v.SetRenderer(fakeRenderer{pages: 6, pageLines: 10})
	if v.State() != ViewerReady || v.PageCount() != 6 {
		t.Fatalf("state=%v pages=%d, want ready/6", v.State(), v.PageCount())
	}

	v.Close()
	if v.State() != ViewerClosed || v.DocKey() != "" {
		t.Error("Close should discard the document")
	}
}

func TestViewerRetryOnlyFromError(t *testing.T) {
	v := readyViewer(t, 3)
	if v.Retry() {
		t.Error("Retry while ready should be a no-op")
	}
	if v.State() != ViewerReady {
		t.Errorf("state = %v, want ready", v.State())
	}
}

func TestViewerRetryNotOfferedForMissingDocument(t *testing.T) {
	v := NewDocViewer()
	v.SetSize(60, 20)
	v.Open("lec07.pdf", "Lecture 7", 1)
	v.SetError(&domain.BackendError{Status: 404, Message: "no PDF for lecture 7"})

	if v.Retry() {
		t.Fatal("a missing document cannot succeed on retry")
	}
	if v.State() != ViewerError {
		t.Errorf("state = %v, want error retained", v.State())
	}
	if strings.Contains(v.View(), "retry") {
		t.Error("error view must not offer retry for a missing document")
	}
}

func TestViewerReopenReloadsDirectly(t *testing.T) {
	v := readyViewer(t, 3)

	v.Open("lec07.pdf", "Lecture 7", 2)
	if v.State() != ViewerLoading {
		t.Fatalf("state = %v, want loading", v.State())
	}
	if v.DocKey() != "lec07.pdf" {
		t.Errorf("doc key = %q", v.DocKey())
	}
	if v.Zoom() != 1.0 {
		t.Errorf("zoom should reset on open, got %.2f", v.Zoom())
	}
}

func TestViewerStaleRendererIgnored(t *testing.T) {
	v := readyViewer(t, 3)

	// A renderer arriving while not loading (e.g. for a superseded open)
	// must not disturb the current document.
	v.SetRenderer(fakeRenderer{pages: 99, pageLines: 1})
	if v.PageCount() != 3 {
		t.Errorf("page count = %d, want 3", v.PageCount())
	}
	v.SetError(errors.New("late failure"))
	if v.State() != ViewerReady {
		t.Errorf("state = %v, want ready", v.State())
	}
}

func TestZoomClampedUnderRepeatedSteps(t *testing.T) {
	v := readyViewer(t, 2)

	for i := 0; i < 50; i++ {
		v.ZoomIn()
	}
	if v.Zoom() != ZoomMax {
		t.Errorf("zoom = %.2f, want clamp at %.2f", v.Zoom(), ZoomMax)
	}

	for i := 0; i < 50; i++ {
		v.ZoomOut()
	}
	if v.Zoom() != ZoomMin {
		t.Errorf("zoom = %.2f, want clamp at %.2f", v.Zoom(), ZoomMin)
	}
}

func TestCtrlWheelZoomsAndIsConsumed(t *testing.T) {
	v := readyViewer(t, 2)
	before := v.Viewport.YOffset

	v2, _ := v.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Ctrl: true})
	if got := v2.Zoom(); got != 1.0+ZoomWheel {
		t.Errorf("zoom = %.2f, want %.2f", got, 1.0+ZoomWheel)
	}
	if v2.Viewport.YOffset != before {
		t.Error("ctrl+wheel must not scroll the viewport")
	}

	v3, _ := v2.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Ctrl: true})
	if got := v3.Zoom(); got != 1.0 {
		t.Errorf("zoom = %.2f, want 1.0", got)
	}
}

func TestGoToPageClamps(t *testing.T) {
	v := readyViewer(t, 5)
	v.ApplyPendingScroll()

	v.GoToPage(99)
	if v.CurrentPage() != 5 {
		t.Errorf("current page = %d, want clamp to 5", v.CurrentPage())
	}
	v.GoToPage(-3)
	if v.CurrentPage() != 1 {
		t.Errorf("current page = %d, want clamp to 1", v.CurrentPage())
	}
}

func TestGoToPageBeforeReadyIsNoOp(t *testing.T) {
	v := NewDocViewer()
	v.SetSize(60, 20)
	v.Open("lec03.pdf", "Lecture 3", 1)

	v.GoToPage(4) // page count unknown
	if v.CurrentPage() != 0 {
		t.Errorf("current page = %d, want 0", v.CurrentPage())
	}
}

func TestPageAtReferencePicksNearestCenter(t *testing.T) {
	blocks := []blockGeometry{
		{top: 0, height: 10},  // center 5
		{top: 10, height: 10}, // center 15
		{top: 20, height: 10}, // center 25
	}

	cases := []struct {
		ref  int
		want int
	}{
		{0, 1},
		{5, 1},
		{12, 2},
		{24, 3},
		{1000, 3},
	}
	for _, tc := range cases {
		if got := pageAtReference(blocks, tc.ref); got != tc.want {
			t.Errorf("pageAtReference(ref=%d) = %d, want %d", tc.ref, got, tc.want)
		}
	}
}

func TestPendingScrollAppliesOnce(t *testing.T) {
	v := NewDocViewer()
	v.SetSize(60, 12)
	v.Open("lec03.pdf", "Lecture 3", 4)
	v.SetRenderer(fakeRenderer{pages: 6, pageLines: 20})

	v.ApplyPendingScroll()
	if v.CurrentPage() != 4 {
		t.Fatalf("current page = %d, want 4", v.CurrentPage())
	}

	v.GoToPage(2)
	v.ApplyPendingScroll() // target already consumed
	if v.CurrentPage() != 2 {
		t.Errorf("current page = %d, stale pending scroll re-applied", v.CurrentPage())
	}
}

func TestSourcePanelNavigationAndOpen(t *testing.T) {
	p := NewSourcePanel()
	p.SetSize(44, 20)
	p.Open([]domain.Evidence{
		{ChunkID: "a", Location: domain.Location{ShortBreadcrumb: "L1 > Intro"}},
		{ChunkID: "b", Location: domain.Location{ShortBreadcrumb: "L1 > Paging"}},
	}, 0.7)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if p.Selected().ChunkID != "b" {
		t.Errorf("cursor did not move down, selected %q", p.Selected().ChunkID)
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if p.Selected().ChunkID != "b" {
		t.Error("cursor must stop at the last source")
	}

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	msg, ok := cmd().(SourceOpenMsg)
	if !ok || msg.Evidence.ChunkID != "b" {
		t.Errorf("enter produced %#v, want SourceOpenMsg for b", cmd())
	}
}
