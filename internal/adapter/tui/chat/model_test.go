package chat

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/adapter/backend"
	"lectern/internal/adapter/tui/components"
	"lectern/internal/domain"
	"lectern/internal/infra/config"
	"lectern/internal/usecase"
)

// fakeBackend satisfies Backend without a network.
type fakeBackend struct {
	result  *domain.QueryResult
	listing *backend.LectureListing
	index   *backend.LectureIndex
	docs    *backend.DocumentListing
	err     error
}

func (f *fakeBackend) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResult, error) {
	return f.result, f.err
}
func (f *fakeBackend) ChunkContext(ctx context.Context, chunkID string, size int) (*domain.EvidenceContext, error) {
	return nil, f.err
}
func (f *fakeBackend) LectureChunks(ctx context.Context, lectureNum int) (*backend.LectureListing, error) {
	return f.listing, f.err
}
func (f *fakeBackend) Lectures(ctx context.Context) (*backend.LectureIndex, error) {
	return f.index, f.err
}
func (f *fakeBackend) AvailableDocuments(ctx context.Context) (*backend.DocumentListing, error) {
	return f.docs, f.err
}
func (f *fakeBackend) Document(ctx context.Context, lectureNum int) (io.ReadCloser, error) {
	return nil, f.err
}
func (f *fakeBackend) Info(ctx context.Context) (*backend.SystemInfo, error) {
	return nil, f.err
}
func (f *fakeBackend) Health(ctx context.Context) (*domain.HealthStatus, error) {
	return &domain.HealthStatus{Status: "healthy"}, nil
}

func newTestModel() Model {
	m := New(Deps{
		Backend: &fakeBackend{},
		TUI: config.TUIConfig{
			ViewerWidth: 60, PanelWidth: 40,
			ClearDelay: 300 * time.Millisecond, MaxTranscript: 100,
		},
		TopK:   5,
		Logger: slog.New(slog.DiscardHandler),
	})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return mm.(Model)
}

func docEvidence(id string, lecture int) domain.Evidence {
	return domain.Evidence{
		ChunkID:  id,
		Lecture:  domain.Lecture{Num: lecture, Title: "Virtual Memory"},
		Location: domain.Location{Breadcrumb: "L" + id},
		Document: domain.DocumentRef{File: "lec.pdf", PageRange: []int{3, 4}},
	}
}

func bareEvidence(id string, score float64) domain.Evidence {
	return domain.Evidence{
		ChunkID:        id,
		RelevanceScore: score,
		Location:       domain.Location{Breadcrumb: "crumb-" + id},
	}
}

// resolveAnswer pushes one question/answer pair through the session.
func resolveAnswer(t *testing.T, m Model, sources []domain.Evidence) Model {
	t.Helper()
	att, ok := m.session.Send("q")
	if !ok {
		t.Fatal("send not admitted")
	}
	res := &domain.QueryResult{Answer: "a", Confidence: domain.ConfidenceHigh, Sources: sources}
	mm, _ := m.Update(QueryResultMsg{Result: res, Gen: att.Gen})
	return mm.(Model)
}

func TestOpenEvidenceWithDocumentOpensViewer(t *testing.T) {
	m := newTestModel()

	mm, cmd := m.openEvidence(docEvidence("c1", 3), usecase.OriginChat)
	m = mm.(Model)

	if !m.selection.ViewerOpen() {
		t.Fatal("viewer should be open")
	}
	if m.selection.Origin() != usecase.OriginChat {
		t.Errorf("origin = %v, want chat", m.selection.Origin())
	}
	if m.viewer.State() != components.ViewerLoading {
		t.Errorf("viewer state = %v, want loading", m.viewer.State())
	}
	if cmd == nil {
		t.Error("opening should issue a document load command")
	}
}

func TestOpenSecondDocumentSwapsWithoutToggle(t *testing.T) {
	m := newTestModel()
	mm, _ := m.openEvidence(docEvidence("c1", 3), usecase.OriginSourcesPanel)
	m = mm.(Model)

	mm, _ = m.openEvidence(docEvidence("c2", 7), usecase.OriginChat)
	m = mm.(Model)

	if !m.selection.ViewerOpen() {
		t.Fatal("swap must not close the viewer")
	}
	// Origin is set by the first open; a swap must not rewrite it.
	if m.selection.Origin() != usecase.OriginSourcesPanel {
		t.Errorf("origin = %v, want the original sources-panel tag", m.selection.Origin())
	}
	if m.selection.Active().ChunkID != "c2" {
		t.Errorf("active = %q, want c2", m.selection.Active().ChunkID)
	}
	if m.viewerLecture != 7 {
		t.Errorf("viewer lecture = %d, want 7", m.viewerLecture)
	}
}

func TestOpenEvidenceWithoutDocumentShowsSingleItem(t *testing.T) {
	m := newTestModel()
	m = resolveAnswer(t, m, []domain.Evidence{bareEvidence("a", 0.9), bareEvidence("b", 0.8)})

	// The clicked item is not part of the latest answer's set.
	stray := bareEvidence("z", 0.4)
	mm, _ := m.openEvidence(stray, usecase.OriginChat)
	m = mm.(Model)

	if !m.panel.Visible {
		t.Fatal("panel should open")
	}
	if m.panel.Len() != 1 {
		t.Errorf("panel shows %d sources, want just the clicked item", m.panel.Len())
	}
	if m.selection.ViewerOpen() {
		t.Error("viewer must stay closed for evidence without a document")
	}
}

func TestOpenEvidenceInLatestContextShowsFullSet(t *testing.T) {
	m := newTestModel()
	latest := []domain.Evidence{
		bareEvidence("a", 0.9),
		bareEvidence("b", 0.8),
		bareEvidence("c", 0.7),
	}
	m = resolveAnswer(t, m, latest)

	mm, _ := m.openEvidence(latest[1], usecase.OriginChat)
	m = mm.(Model)

	if m.panel.Len() != 3 {
		t.Errorf("panel shows %d sources, want the full latest set", m.panel.Len())
	}
}

func TestViewAllSourcesScansNewestFirst(t *testing.T) {
	m := newTestModel()
	m = resolveAnswer(t, m, []domain.Evidence{bareEvidence("old", 0.9)})
	m = resolveAnswer(t, m, []domain.Evidence{bareEvidence("new1", 0.9), bareEvidence("new2", 0.6)})
	m = resolveAnswer(t, m, nil) // sourceless answer must be skipped

	mm, _ := m.viewAllSources()
	m = mm.(Model)

	if !m.panel.Visible || m.panel.Len() != 2 {
		t.Fatalf("panel visible=%v len=%d, want newest sourced answer's set", m.panel.Visible, m.panel.Len())
	}
	if m.panel.Selected().ChunkID != "new1" {
		t.Errorf("first source = %q, want new1", m.panel.Selected().ChunkID)
	}
}

func TestViewAllSourcesHiddenWithoutAnswers(t *testing.T) {
	m := newTestModel()

	mm, _ := m.viewAllSources()
	m = mm.(Model)

	if m.panel.Visible {
		t.Error("panel must not open when no answer carries sources")
	}
}

func TestStaleQueryResultDiscarded(t *testing.T) {
	m := newTestModel()
	first, _ := m.session.Send("first")
	m.session.Cancel()
	second, _ := m.session.Send("second")

	mm, _ := m.Update(QueryResultMsg{
		Result: &domain.QueryResult{Answer: "stale"},
		Gen:    first.Gen,
	})
	m = mm.(Model)
	if got := len(m.session.Transcript()); got != 2 {
		t.Fatalf("transcript len = %d, stale result was applied", got)
	}

	mm, _ = m.Update(QueryResultMsg{
		Result: &domain.QueryResult{Answer: "fresh"},
		Gen:    second.Gen,
	})
	m = mm.(Model)
	last := m.session.Transcript()[len(m.session.Transcript())-1]
	if last.Content != "fresh" {
		t.Errorf("last message %q, want the fresh answer", last.Content)
	}
}

func TestQueryFailureShowsRecoveryHints(t *testing.T) {
	m := newTestModel()
	att, ok := m.session.Send("q")
	if !ok {
		t.Fatal("send not admitted")
	}

	err := &domain.RateLimitError{Message: "Too many requests", Limit: 5}
	mm, _ := m.Update(QueryErrMsg{Err: err, Gen: att.Gen})
	m = mm.(Model)

	last := m.session.Transcript()[len(m.session.Transcript())-1]
	if !last.IsError {
		t.Fatal("failure should surface as an error message")
	}
	if !strings.Contains(last.Content, "5 questions per day") {
		t.Errorf("content %q should explain the daily limit", last.Content)
	}
	if !strings.Contains(last.Content, "Try again tomorrow") {
		t.Errorf("content %q should carry the recovery hint", last.Content)
	}
}

func TestStaleDocReadyDropped(t *testing.T) {
	m := newTestModel()
	mm, _ := m.openEvidence(docEvidence("c1", 3), usecase.OriginChat)
	m = mm.(Model)

	mm, _ = m.Update(DocReadyMsg{DocKey: "other.pdf", Renderer: fakePages{}})
	m = mm.(Model)
	if m.viewer.State() != components.ViewerLoading {
		t.Errorf("viewer state = %v, stale renderer was injected", m.viewer.State())
	}

	mm, _ = m.Update(DocReadyMsg{DocKey: "lec.pdf", Renderer: fakePages{}})
	m = mm.(Model)
	if m.viewer.State() != components.ViewerReady {
		t.Errorf("viewer state = %v, want ready", m.viewer.State())
	}
}

func TestStaleSelectionClearIgnoredAfterReopen(t *testing.T) {
	m := newTestModel()
	mm, _ := m.openEvidence(docEvidence("c1", 3), usecase.OriginChat)
	m = mm.(Model)

	mm, _ = m.closeViewer()
	m = mm.(Model)

	// Reopen before the scheduled clear fires.
	mm, _ = m.openEvidence(docEvidence("c2", 5), usecase.OriginChat)
	m = mm.(Model)

	mm, _ = m.Update(SelectionClearMsg{Gen: 1})
	m = mm.(Model)
	if m.selection.Active() == nil {
		t.Error("stale deferred clear wiped a reopened selection")
	}
}

func TestDocErrorThenRetry(t *testing.T) {
	m := newTestModel()
	mm, _ := m.openEvidence(docEvidence("c1", 3), usecase.OriginChat)
	m = mm.(Model)

	mm, _ = m.Update(DocErrorMsg{DocKey: "lec.pdf", Err: &domain.BackendError{Status: 500, Message: "load failed"}})
	m = mm.(Model)
	if m.viewer.State() != components.ViewerError {
		t.Fatalf("viewer state = %v, want error", m.viewer.State())
	}

	mm, cmd := m.handleViewerKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mm.(Model)
	if m.viewer.State() != components.ViewerLoading {
		t.Errorf("viewer state = %v, want loading after retry", m.viewer.State())
	}
	if cmd == nil {
		t.Error("retry should re-issue the load command")
	}
}

func TestLecturesCommandOpensCatalog(t *testing.T) {
	m := newTestModel()

	mm, cmd := m.handleSlashCommand("/lectures", nil)
	m = mm.(Model)
	if cmd == nil {
		t.Fatal("/lectures should issue a fetch command")
	}

	mm, _ = m.Update(CatalogMsg{
		Index: &backend.LectureIndex{
			Lectures: []backend.LectureOutline{
				{LectureNum: 5, LectureTitle: "Processes", TotalChunks: 12},
			},
			TotalLectures: 1,
		},
		Docs: &backend.DocumentListing{
			Available: []backend.DocumentEntry{{LectureNum: 5, Filename: "L05.pdf"}},
			Count:     1,
		},
	})
	m = mm.(Model)

	if !m.modal.Visible || m.modal.Title != "Lectures" {
		t.Errorf("modal visible=%v title=%q, want the lecture catalog", m.modal.Visible, m.modal.Title)
	}
}

// fakePages is a minimal pages.Renderer.
type fakePages struct{}

func (fakePages) Title() string  { return "Lecture" }
func (fakePages) PageCount() int { return 4 }
func (fakePages) RenderPage(page, width int) (string, error) {
	return "text", nil
}
