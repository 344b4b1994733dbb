package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lectern/internal/adapter/backend"
	"lectern/internal/adapter/tui/components"
	"lectern/internal/adapter/tui/theme"
	"lectern/internal/adapter/tui/uxerror"
	"lectern/internal/domain"
	"lectern/internal/infra/config"
	"lectern/internal/usecase"
)

// Backend is the slice of the backend client the chat model uses. Narrowed
// to an interface so tests can substitute a fake.
type Backend interface {
	Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResult, error)
	ChunkContext(ctx context.Context, chunkID string, size int) (*domain.EvidenceContext, error)
	LectureChunks(ctx context.Context, lectureNum int) (*backend.LectureListing, error)
	Lectures(ctx context.Context) (*backend.LectureIndex, error)
	AvailableDocuments(ctx context.Context) (*backend.DocumentListing, error)
	Document(ctx context.Context, lectureNum int) (io.ReadCloser, error)
	Info(ctx context.Context) (*backend.SystemInfo, error)
	Health(ctx context.Context) (*domain.HealthStatus, error)
}

// Deps are dependencies injected into the chat model.
type Deps struct {
	Backend     Backend
	TUI         config.TUIConfig
	TopK        int
	BackendHost string // shown in the status bar
	Logger      *slog.Logger
}

// focusArea tracks which surface receives keyboard input.
type focusArea int

const (
	focusInput focusArea = iota
	focusBrowse
	focusPanel
	focusViewer
)

// Model is the root Bubble Tea model. It composes the conversation session,
// the selection coordinator, and the three UI surfaces, and owns all routing
// between them.
type Model struct {
	deps Deps

	session   *usecase.Session
	selection usecase.Selection

	chatView  components.ChatViewModel
	panel     components.SourcePanelModel
	viewer    components.DocViewerModel
	input     components.InputAreaModel
	statusBar components.StatusBarModel
	modal     components.ModalModel
	spinner   spinner.Model

	viewerLecture int // lecture behind the open document, for retry and /save

	focus    focusArea
	width    int
	height   int
	quitting bool
}

// New creates the root chat model.
func New(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	sb := components.NewStatusBar()
	sb.Backend = deps.BackendHost
	sb.Hints = inputHints()

	chatView := components.NewChatView()
	chatView.SetMaxMessages(deps.TUI.MaxTranscript)

	return Model{
		deps:      deps,
		session:   usecase.NewSession(deps.TopK),
		chatView:  chatView,
		panel:     components.NewSourcePanel(),
		viewer:    components.NewDocViewer(),
		input:     components.NewInputArea(),
		statusBar: sb,
		modal:     components.NewModal(),
		spinner:   s,
	}
}

// Init starts the spinner and the first health probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, probeHealthCmd(m.deps.Backend))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if m.modal.Visible {
			m.modal.SetSize(m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.InputSubmitMsg:
		return m.handleSubmit(msg.Value)

	case QueryResultMsg:
		if !m.session.Resolve(msg.Gen, msg.Result) {
			return m, nil // superseded request; resolution observed, not applied
		}
		m.chatView.Sync(m.session.Transcript())
		m.finishQuery()
		return m, nil

	case QueryErrMsg:
		// The transcript carries the friendly rendering, hints included;
		// the raw error stays in the session's lastError and the log.
		if !m.session.Fail(msg.Gen, msg.Err, uxerror.Humanize(msg.Err).Render()) {
			return m, nil
		}
		m.deps.Logger.Warn("query failed", "error", msg.Err)
		m.chatView.Sync(m.session.Transcript())
		m.finishQuery()
		return m, nil

	case DocReadyMsg:
		if msg.DocKey != m.viewer.DocKey() {
			return m, nil // load finished for a document no longer open
		}
		m.viewer.SetRenderer(msg.Renderer)
		return m, scrollSettleCmd(msg.DocKey)

	case ScrollSettleMsg:
		if msg.DocKey == m.viewer.DocKey() {
			m.viewer.ApplyPendingScroll()
		}
		return m, nil

	case DocErrorMsg:
		if msg.DocKey == m.viewer.DocKey() {
			m.deps.Logger.Warn("document load failed", "doc", msg.DocKey, "error", msg.Err)
			m.viewer.SetError(msg.Err)
		}
		return m, nil

	case SelectionClearMsg:
		m.selection.ApplyClear(msg.Gen)
		return m, nil

	case components.SourceOpenMsg:
		return m.openEvidence(msg.Evidence, usecase.OriginSourcesPanel)

	case components.SourceContextMsg:
		m.statusBar.Extra = "Fetching context" + theme.SymbolEllipsis
		return m, loadContextCmd(m.deps.Backend, msg.ChunkID)

	case ContextMsg:
		m.statusBar.Extra = ""
		if msg.Err != nil {
			m.statusBar.Extra = theme.TextError.Render(uxerror.Humanize(msg.Err).Title)
			return m, nil
		}
		m.modal.SetSize(m.width, m.height)
		m.modal.Open("Context: "+msg.Context.Chunk.Label(), renderContext(msg.Context, m.width-6))
		return m, nil

	case CatalogMsg:
		m.statusBar.Extra = ""
		if msg.Err != nil {
			m.statusBar.Extra = theme.TextError.Render(uxerror.Humanize(msg.Err).Title)
			return m, nil
		}
		m.modal.SetSize(m.width, m.height)
		m.modal.Open("Lectures", renderCatalog(msg.Index, msg.Docs))
		return m, nil

	case InfoMsg:
		m.statusBar.Extra = ""
		if msg.Err != nil {
			m.statusBar.Extra = theme.TextError.Render(uxerror.Humanize(msg.Err).Title)
			return m, nil
		}
		m.modal.SetSize(m.width, m.height)
		m.modal.Open("Backend Info", renderInfo(msg.Info))
		return m, nil

	case HealthMsg:
		m.statusBar.Probed = true
		m.statusBar.Healthy = msg.Err == nil && msg.Status.Healthy()
		return m, nil

	case DocSavedMsg:
		if msg.Err != nil {
			m.statusBar.Extra = theme.TextError.Render("Save failed: " + uxerror.Humanize(msg.Err).Title)
		} else {
			m.statusBar.Extra = theme.SymbolSuccess + " Saved " + msg.Path
		}
		return m, nil

	case QuitMsg:
		return m.quit()

	case spinner.TickMsg:
		if m.session.InFlight() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Route remaining messages (mouse, etc.) to the focused surface.
	var cmd tea.Cmd
	switch m.focus {
	case focusViewer:
		m.viewer, cmd = m.viewer.Update(msg)
	case focusPanel:
		m.panel, cmd = m.panel.Update(msg)
	default:
		if _, isMouse := msg.(tea.MouseMsg); !isMouse && !m.session.InFlight() {
			m.input, cmd = m.input.Update(msg)
		} else {
			m.chatView, cmd = m.chatView.Update(msg)
		}
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey routes keyboard input by focus area.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal.Visible {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	if msg.Type == tea.KeyCtrlC {
		if m.session.InFlight() {
			m.cancelQuery()
			return m, nil
		}
		return m.quit()
	}

	switch m.focus {
	case focusViewer:
		return m.handleViewerKey(msg)
	case focusPanel:
		return m.handlePanelKey(msg)
	case focusBrowse:
		return m.handleBrowseKey(msg)
	}

	// Input focus.
	switch msg.Type {
	case tea.KeyEsc:
		if !m.session.InFlight() {
			m.setFocus(focusBrowse)
		}
		return m, nil
	case tea.KeyCtrlL:
		return m.handleSlashCommand("/clear", nil)
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleBrowseKey handles transcript navigation and citation hotkeys.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "i", "esc":
		m.setFocus(focusInput)
		return m, nil
	case "j", "down":
		m.chatView.Viewport.LineDown(3)
		return m, nil
	case "k", "up":
		m.chatView.Viewport.LineUp(3)
		return m, nil
	case "g":
		m.chatView.Viewport.GotoTop()
		return m, nil
	case "G":
		m.chatView.Viewport.GotoBottom()
		return m, nil
	case "s":
		return m.viewAllSources()
	case "q":
		return m.quit()
	}

	// Digits open the numbered citation from the latest sourced answer.
	if n, err := strconv.Atoi(key); err == nil && n >= 1 {
		sources := m.session.LatestSources()
		if n <= len(sources) {
			return m.openEvidence(sources[n-1], usecase.OriginChat)
		}
		return m, nil
	}
	return m, nil
}

// handlePanelKey handles the source panel's focus-level keys and defers the
// rest to the panel.
func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.panel.Close()
		if m.selection.ViewerOpen() {
			m.setFocus(focusViewer)
		} else {
			m.setFocus(focusInput)
		}
		m.layout()
		return m, nil
	case "tab":
		if m.selection.ViewerOpen() {
			m.setFocus(focusViewer)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.panel, cmd = m.panel.Update(msg)
	return m, cmd
}

// handleViewerKey handles viewer close/retry and defers scroll and zoom to
// the viewer.
func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeViewer()
	case "r":
		if m.viewer.Retry() {
			return m, loadDocumentCmd(m.deps.Backend, m.viewer.DocKey(), m.viewerLecture)
		}
		return m, nil
	case "tab":
		if m.panel.Visible {
			m.setFocus(focusPanel)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.Update(msg)
	return m, cmd
}

// handleSubmit processes user input: slash command or question.
func (m Model) handleSubmit(value string) (tea.Model, tea.Cmd) {
	if cmd, args, ok := components.ParseSlashCommand(value); ok {
		return m.handleSlashCommand(cmd, args)
	}

	att, ok := m.session.Send(value)
	if !ok {
		return m, nil
	}
	m.chatView.Sync(m.session.Transcript())
	m.input.SetEnabled(false)
	m.statusBar.Extra = "Thinking" + theme.SymbolEllipsis
	m.statusBar.Hints = waitingHints()

	return m, tea.Batch(sendQueryCmd(m.deps.Backend, att), m.spinner.Tick)
}

// openEvidence is the routing rule for activating a piece of evidence,
// wherever the activation happened. Evidence with a document reference goes
// to the viewer (open or swap); evidence without one goes to the source
// panel, with the full latest evidence set when the click happened in that
// context.
func (m Model) openEvidence(ev domain.Evidence, origin usecase.Origin) (tea.Model, tea.Cmd) {
	if ev.Document.HasDocument() {
		docKey := ev.Document.File
		page := ev.Document.StartPage()

		if m.selection.ViewerOpen() && m.viewer.DocKey() == docKey && m.viewer.State() == components.ViewerReady {
			// Same document: swap selection and jump, no close/open transition.
			m.selection.Swap(&ev)
			m.viewer.GoToPage(page)
			m.setFocus(focusViewer)
			return m, nil
		}

		var cmd tea.Cmd
		if m.selection.ViewerOpen() {
			m.selection.Swap(&ev) // different document, viewer stays open
		} else {
			m.selection.OpenViewer(&ev, origin)
		}
		m.viewer.Open(docKey, fmt.Sprintf("L%d: %s", ev.Lecture.Num, ev.Lecture.Title), page)
		m.viewerLecture = ev.Lecture.Num
		cmd = loadDocumentCmd(m.deps.Backend, docKey, ev.Lecture.Num)
		m.setFocus(focusViewer)
		m.layout()
		return m, cmd
	}

	// No document: show the panel. A click in the context of the latest
	// answer gets that answer's full deduped set; otherwise just the item.
	sources := []domain.Evidence{ev}
	latest := m.session.LatestSources()
	if origin == usecase.OriginChat && containsChunk(latest, ev.ChunkID) {
		sources = domain.DedupeEvidence(latest)
	}
	m.panel.Open(sources, m.aggregateScore(sources))
	m.setFocus(focusPanel)
	m.layout()
	return m, nil
}

// viewAllSources opens the panel with the most recent answer's deduped
// evidence set. The control is absent when no answer carries sources.
func (m Model) viewAllSources() (tea.Model, tea.Cmd) {
	latest := m.session.LatestSources()
	if len(latest) == 0 {
		return m, nil
	}
	sources := domain.DedupeEvidence(latest)
	m.panel.Open(sources, m.aggregateScore(sources))
	m.setFocus(focusPanel)
	m.layout()
	return m, nil
}

// aggregateScore prefers the backend-reported average; falls back to the
// mean over the listed set.
func (m Model) aggregateScore(sources []domain.Evidence) float64 {
	if stats := m.session.LatestStats(); stats != nil && stats.AvgScore > 0 {
		return stats.AvgScore
	}
	return domain.AggregateScore(sources)
}

// closeViewer closes the viewer and schedules the deferred selection clear.
func (m Model) closeViewer() (tea.Model, tea.Cmd) {
	m.viewer.Close()
	gen := m.selection.CloseViewer()
	if m.panel.Visible {
		m.setFocus(focusPanel)
	} else {
		m.setFocus(focusInput)
	}
	m.layout()
	return m, clearSelectionCmd(m.deps.TUI.ClearDelay, gen)
}

func (m *Model) cancelQuery() {
	m.session.Cancel()
	m.finishQuery()
	m.statusBar.Extra = "Cancelled."
}

func (m *Model) finishQuery() {
	m.input.SetEnabled(true)
	m.statusBar.Extra = ""
	m.statusBar.Hints = inputHints()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.session.Cancel() // outstanding request must not outlive the view
	m.quitting = true
	return m, tea.Quit
}

// handleSlashCommand processes a slash command.
func (m Model) handleSlashCommand(cmd string, args []string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "/help":
		m.modal.SetSize(m.width, m.height)
		m.modal.Open("Help", helpText())
		return m, nil

	case "/quit", "/exit":
		return m.quit()

	case "/clear":
		m.session.Clear()
		m.chatView.Clear()
		m.panel.Close()
		m.viewer.Close()
		gen := m.selection.CloseViewer()
		m.selection.ApplyClear(gen) // no exit transition on a full clear
		m.setFocus(focusInput)
		m.finishQuery()
		m.statusBar.Extra = theme.SymbolSuccess + " Session cleared."
		m.layout()
		return m, nil

	case "/cancel":
		if m.session.InFlight() {
			m.cancelQuery()
		} else {
			m.statusBar.Extra = "No active request to cancel."
		}
		return m, nil

	case "/sources":
		return m.viewAllSources()

	case "/lectures":
		m.statusBar.Extra = "Fetching lecture index" + theme.SymbolEllipsis
		return m, loadCatalogCmd(m.deps.Backend)

	case "/info":
		m.statusBar.Extra = "Fetching backend info" + theme.SymbolEllipsis
		return m, loadInfoCmd(m.deps.Backend)

	case "/save":
		n := m.viewerLecture
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil {
				n = v
			}
		}
		if n < domain.MinLectureNum || n > domain.MaxLectureNum {
			m.statusBar.Extra = "Usage: /save <lecture 1-30>"
			return m, nil
		}
		m.statusBar.Extra = fmt.Sprintf("Downloading lecture %d%s", n, theme.SymbolEllipsis)
		return m, saveDocumentCmd(m.deps.Backend, n, m.deps.TUI.DownloadDir)

	case "/health":
		m.statusBar.Extra = "Probing backend" + theme.SymbolEllipsis
		return m, probeHealthCmd(m.deps.Backend)

	default:
		m.statusBar.Extra = fmt.Sprintf("Unknown command: %s (try /help)", cmd)
		return m, nil
	}
}

// View renders the UI: the three columns per the origin layout rule, then
// input and status bar.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return "  Initializing..."
	}
	if m.modal.Visible {
		return m.modal.View()
	}

	l := m.currentLayout()
	var columns []string
	if l.chat > 0 {
		columns = append(columns, m.borderFor(focusInput == m.focus || focusBrowse == m.focus).Width(l.chat-2).Render(m.chatView.View()))
	}
	if l.panel > 0 {
		columns = append(columns, m.borderFor(m.focus == focusPanel).Width(l.panel-2).Render(m.panel.View()))
	}
	if l.viewer > 0 {
		columns = append(columns, m.borderFor(m.focus == focusViewer).Width(l.viewer-2).Render(m.viewer.View()))
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	inputView := m.input.View()
	if m.session.InFlight() {
		inputView = m.spinner.View() + " " + theme.TextMuted.Render("Waiting for answer... (ctrl+c to cancel)")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		main,
		components.Divider(m.width),
		inputView,
		m.statusBar.View(),
	)
}

func (m Model) borderFor(focused bool) lipgloss.Style {
	if focused {
		return theme.FocusBorder
	}
	return theme.UnfocusedBorder
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	switch f {
	case focusInput:
		m.input.SetEnabled(true)
		m.statusBar.Hints = inputHints()
	case focusBrowse:
		m.input.SetEnabled(false)
		m.statusBar.Hints = browseHints()
	case focusPanel:
		m.input.SetEnabled(false)
		m.statusBar.Hints = panelHints()
	case focusViewer:
		m.input.SetEnabled(false)
		m.statusBar.Hints = viewerHints()
	}
}

func (m Model) currentLayout() columnLayout {
	return computeLayout(m.width,
		m.selection.ViewerOpen(), m.selection.Origin(), m.panel.Visible,
		m.deps.TUI.PanelWidth, m.deps.TUI.ViewerWidth)
}

// layout recalculates sizes for all sub-models.
func (m *Model) layout() {
	inputH := 3
	statusH := 1
	dividerH := 1
	contentH := m.height - inputH - statusH - dividerH
	if contentH < 5 {
		contentH = 5
	}

	l := m.currentLayout()
	if l.chat > 0 {
		m.chatView.SetSize(l.chat-2, contentH-2)
	}
	if l.panel > 0 {
		m.panel.SetSize(l.panel-2, contentH-2)
	}
	if l.viewer > 0 {
		m.viewer.SetSize(l.viewer-2, contentH-2)
	}
	m.input.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
}

// renderContext lays out the expanded context window: preceding chunks, the
// central chunk highlighted, following chunks.
func renderContext(ec *domain.EvidenceContext, width int) string {
	if width < 30 {
		width = 30
	}
	var sb strings.Builder
	for _, ch := range ec.Before {
		sb.WriteString(theme.Dim.Render(ch.TextFull))
		sb.WriteString("\n\n")
	}
	sb.WriteString(theme.PanelTitle.Render(ec.Chunk.Location.Breadcrumb))
	sb.WriteString("\n")
	sb.WriteString(ec.Chunk.TextFull)
	sb.WriteString("\n")
	for _, ch := range ec.After {
		sb.WriteString("\n")
		sb.WriteString(theme.Dim.Render(ch.TextFull))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderCatalog lays out the lecture navigation index, marking lectures
// that have a viewable document.
func renderCatalog(index *backend.LectureIndex, docs *backend.DocumentListing) string {
	if index == nil || len(index.Lectures) == 0 {
		return theme.TextMuted.Render("  No lectures indexed.")
	}

	hasDoc := map[int]bool{}
	if docs != nil {
		for _, d := range docs.Available {
			hasDoc[d.LectureNum] = true
		}
	}

	var sb strings.Builder
	for _, lec := range index.Lectures {
		line := fmt.Sprintf("L%d: %s", lec.LectureNum, lec.LectureTitle)
		if hasDoc[lec.LectureNum] {
			line += " " + theme.SourceScore.Render("[pdf]")
		}
		sb.WriteString(theme.PanelTitle.Render(line))
		sb.WriteString(theme.TextMuted.Render(fmt.Sprintf("  (%d chunks)", lec.TotalChunks)))
		sb.WriteString("\n")
		for _, sec := range lec.Sections {
			sb.WriteString("  " + theme.SymbolBullet + " " + sec.SectionTitle)
			if n := len(sec.Subsections); n > 0 {
				sb.WriteString(theme.Dim.Render(fmt.Sprintf(" (%d subsections)", n)))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(theme.TextMuted.Render(fmt.Sprintf("%d lectures indexed", index.TotalLectures)))
	return sb.String()
}

// renderInfo lays out the backend's corpus metadata.
func renderInfo(info *backend.SystemInfo) string {
	if info == nil {
		return theme.TextMuted.Render("  No info available.")
	}
	rows := []struct{ k, v string }{
		{"Lectures indexed", fmt.Sprintf("%d", info.NumLectures)},
		{"Total chunks", fmt.Sprintf("%d", info.TotalChunks)},
		{"Index size", fmt.Sprintf("%d", info.IndexSize)},
		{"Embedding model", info.EmbeddingModel},
		{"LLM", info.LLMModel},
	}
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s %s\n", theme.PanelTitle.Render(r.k+":"), r.v))
	}
	return sb.String()
}

func containsChunk(sources []domain.Evidence, chunkID string) bool {
	for _, s := range sources {
		if s.ChunkID == chunkID {
			return true
		}
	}
	return false
}

func helpText() string {
	return `Commands:
  /help            Show this help
  /clear           Clear the conversation
  /cancel          Cancel the in-flight question
  /sources         Show the latest answer's sources
  /lectures        Browse the lecture index
  /save [n]        Download lecture n's PDF
  /info            Show backend corpus info
  /health          Probe the backend
  /quit            Exit

Keys:
  Enter            Send question
  Esc              Browse mode (j/k scroll, 1-9 open citation, s sources)
  Ctrl+L           Clear conversation
  Ctrl+C           Cancel / quit

Source panel:      j/k move, Enter open document, x expand context
Document viewer:   j/k scroll, n/p page, g/G ends, +/- zoom,
                   ctrl+wheel fine zoom, r retry, Esc close`
}

func inputHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Enter", Desc: "Send"},
		{Key: "Esc", Desc: "Browse"},
		{Key: "/help", Desc: "Help"},
		{Key: "Ctrl+C", Desc: "Quit"},
	}
}

func waitingHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Ctrl+C", Desc: "Cancel"},
	}
}

func browseHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "j/k", Desc: "Scroll"},
		{Key: "1-9", Desc: "Open citation"},
		{Key: "s", Desc: "Sources"},
		{Key: "i", Desc: "Input"},
	}
}

func panelHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "j/k", Desc: "Move"},
		{Key: "Enter", Desc: "Open"},
		{Key: "x", Desc: "Context"},
		{Key: "Esc", Desc: "Close"},
	}
}

func viewerHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "n/p", Desc: "Page"},
		{Key: "+/-", Desc: "Zoom"},
		{Key: "r", Desc: "Retry"},
		{Key: "Esc", Desc: "Close"},
	}
}
