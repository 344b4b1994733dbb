package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/adapter/pages"
	"lectern/internal/adapter/tui/theme"
	"lectern/internal/adapter/tui/uxerror"
	"lectern/internal/domain"
)

// ViewerState is the document viewer lifecycle state.
type ViewerState int

const (
	ViewerClosed ViewerState = iota
	ViewerLoading
	ViewerReady
	ViewerError
)

func (s ViewerState) String() string {
	switch s {
	case ViewerLoading:
		return "loading"
	case ViewerReady:
		return "ready"
	case ViewerError:
		return "error"
	default:
		return "closed"
	}
}

// Zoom bounds and step sizes. Zoom narrows the wrap column: scale 2.0 wraps
// text at half the width, which is as close to magnification as a character
// grid gets.
const (
	ZoomMin   = 0.5
	ZoomMax   = 3.0
	ZoomStep  = 0.25
	ZoomWheel = 0.1
)

// blockGeometry is one page block's extent in content lines.
type blockGeometry struct {
	top    int // first line of the block
	height int // lines including the page marker
}

// DocViewerModel shows one open document as a vertical sequence of page
// blocks in a scrollable region, tracking which page is current as the user
// scrolls. Rendering is an injected capability (pages.Renderer); until it
// arrives the viewer is in the loading state, and a failed load is a
// recoverable error with a retry affordance.
type DocViewerModel struct {
	state    ViewerState
	docKey   string // identifies the open document; re-open of a new key reloads
	title    string
	renderer pages.Renderer
	loadErr  error

	zoom        float64
	currentPage int
	pendingPage int // scroll target applied once layout has settled
	pageCount   int

	width  int
	height int

	Viewport viewport.Model
	blocks   []blockGeometry
	vpReady  bool
}

// NewDocViewer creates a closed viewer.
func NewDocViewer() DocViewerModel {
	return DocViewerModel{zoom: 1.0}
}

// State reports the lifecycle state.
func (m *DocViewerModel) State() ViewerState { return m.state }

// DocKey identifies the currently open (or loading) document.
func (m *DocViewerModel) DocKey() string { return m.docKey }

// CurrentPage is the page nearest the reference line, 0 when not ready.
func (m *DocViewerModel) CurrentPage() int { return m.currentPage }

// PageCount is the total page count, 0 until the document is ready.
func (m *DocViewerModel) PageCount() int { return m.pageCount }

// Zoom reports the current scale factor.
func (m *DocViewerModel) Zoom() float64 { return m.zoom }

// Open starts loading a document: zoom resets to the default scale, any
// error is cleared, and initialPage is recorded as the pending scroll
// target. Opening a different document while ready re-enters loading.
func (m *DocViewerModel) Open(docKey, title string, initialPage int) {
	m.state = ViewerLoading
	m.docKey = docKey
	m.title = title
	m.renderer = nil
	m.loadErr = nil
	m.zoom = 1.0
	m.currentPage = 0
	m.pageCount = 0
	if initialPage < 1 {
		initialPage = 1
	}
	m.pendingPage = initialPage
	m.blocks = nil
}

// SetRenderer injects the rendering capability: the document is ready. The
// caller must follow up with ApplyPendingScroll after the next layout pass
// so the initial page target lands on settled geometry.
func (m *DocViewerModel) SetRenderer(r pages.Renderer) {
	if m.state != ViewerLoading {
		return
	}
	m.renderer = r
	m.pageCount = r.PageCount()
	m.state = ViewerReady
	m.rebuild()
}

// SetError records a recoverable load failure.
func (m *DocViewerModel) SetError(err error) {
	if m.state != ViewerLoading {
		return
	}
	m.state = ViewerError
	m.loadErr = err
}

// Retry re-enters loading after an error. Returns false when there is no
// error to retry, or when the failure cannot succeed on another attempt
// (missing document, chunk without a page mapping).
func (m *DocViewerModel) Retry() bool {
	if m.state != ViewerError || !domain.IsRetryable(m.loadErr) {
		return false
	}
	m.state = ViewerLoading
	m.loadErr = nil
	return true
}

// Close discards the open document.
func (m *DocViewerModel) Close() {
	m.state = ViewerClosed
	m.docKey = ""
	m.renderer = nil
	m.loadErr = nil
	m.blocks = nil
	m.currentPage = 0
	m.pageCount = 0
}

// SetSize updates dimensions and re-renders page blocks at the new width.
func (m *DocViewerModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	inner := h - 2 // title and footer lines
	if inner < 1 {
		inner = 1
	}
	if !m.vpReady {
		m.Viewport = viewport.New(w, inner)
		m.Viewport.MouseWheelEnabled = true
		m.vpReady = true
	} else {
		m.Viewport.Width = w
		m.Viewport.Height = inner
	}
	m.rebuild()
}

// GoToPage scrolls so that page p sits at the reference line. Out-of-range
// pages clamp to the nearest bound; before the page count is known this is
// a no-op.
func (m *DocViewerModel) GoToPage(p int) {
	if m.state != ViewerReady || m.pageCount < 1 || len(m.blocks) == 0 {
		return
	}
	p = theme.Clamp(p, 1, m.pageCount)
	m.Viewport.SetYOffset(m.blocks[p-1].top)
	m.trackCurrentPage()
}

// ApplyPendingScroll performs the one-time deferred scroll to the page
// recorded by Open. No-op unless the document is ready.
func (m *DocViewerModel) ApplyPendingScroll() {
	if m.state != ViewerReady || m.pendingPage == 0 {
		return
	}
	m.GoToPage(m.pendingPage)
	m.pendingPage = 0
}

// ZoomIn steps the scale up by the fixed increment.
func (m *DocViewerModel) ZoomIn() { m.setZoom(m.zoom + ZoomStep) }

// ZoomOut steps the scale down by the fixed increment.
func (m *DocViewerModel) ZoomOut() { m.setZoom(m.zoom - ZoomStep) }

func (m *DocViewerModel) setZoom(z float64) {
	z = theme.ClampFloat(z, ZoomMin, ZoomMax)
	if z == m.zoom {
		return
	}
	page := m.currentPage
	m.zoom = z
	m.rebuild()
	if page > 0 {
		m.GoToPage(page) // keep the reader's place across reflow
	}
}

// Update handles viewer keys and scrolling. Ctrl+wheel is the gesture zoom
// path: it adjusts scale by a small increment and is consumed here so the
// viewport never sees it as a scroll.
func (m DocViewerModel) Update(msg tea.Msg) (DocViewerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Ctrl {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.setZoom(m.zoom + ZoomWheel)
				return m, nil
			case tea.MouseButtonWheelDown:
				m.setZoom(m.zoom - ZoomWheel)
				return m, nil
			}
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "+", "=":
			m.ZoomIn()
			return m, nil
		case "-", "_":
			m.ZoomOut()
			return m, nil
		case "n":
			m.GoToPage(m.currentPage + 1)
			return m, nil
		case "p":
			m.GoToPage(m.currentPage - 1)
			return m, nil
		case "g":
			m.GoToPage(1)
			return m, nil
		case "G":
			m.GoToPage(m.pageCount)
			return m, nil
		}
	}

	if m.state != ViewerReady || !m.vpReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	m.trackCurrentPage()
	return m, cmd
}

// View renders the viewer column.
func (m DocViewerModel) View() string {
	title := theme.ViewerTitle.Render(truncate(m.title, m.width-14))

	switch m.state {
	case ViewerClosed:
		return ""
	case ViewerLoading:
		body := theme.TextMuted.Render("  Loading document" + theme.SymbolEllipsis)
		return title + "\n" + body
	case ViewerError:
		fe := uxerror.Humanize(m.loadErr)
		keys := theme.StatusKey.Render("esc") + ": close"
		if domain.IsRetryable(m.loadErr) {
			keys = theme.StatusKey.Render("r") + ": retry  " + keys
		}
		body := theme.TextError.Render("  "+theme.SymbolError+" "+fe.Title) +
			"\n  " + fe.Message +
			"\n\n  " + keys
		return title + "\n" + body
	}

	footer := theme.PageMarker.Render(fmt.Sprintf("p. %d/%d  %s  zoom %.2fx",
		m.currentPage, m.pageCount, theme.SymbolBullet, m.zoom))
	return title + "\n" + m.Viewport.View() + "\n" + footer
}

// rebuild re-renders all page blocks at the current width and zoom and
// records their geometry for current-page tracking.
func (m *DocViewerModel) rebuild() {
	if m.state != ViewerReady || m.renderer == nil || !m.vpReady {
		return
	}

	wrapCol := int(float64(m.width-2) / m.zoom)
	if wrapCol < 20 {
		wrapCol = 20
	}

	var sb strings.Builder
	m.blocks = m.blocks[:0]
	top := 0
	for p := 1; p <= m.pageCount; p++ {
		text, err := m.renderer.RenderPage(p, wrapCol)
		if err != nil {
			text = theme.TextMuted.Render("(page unavailable)")
		}
		marker := theme.PageMarker.Render(fmt.Sprintf("%s page %d %s", theme.SymbolBullet, p, theme.SymbolBullet))
		block := marker + "\n" + text + "\n"
		lines := strings.Count(block, "\n") + 1
		m.blocks = append(m.blocks, blockGeometry{top: top, height: lines})
		sb.WriteString(block)
		sb.WriteString("\n")
		top += lines
	}
	m.Viewport.SetContent(sb.String())
	m.trackCurrentPage()
}

func (m *DocViewerModel) trackCurrentPage() {
	if len(m.blocks) == 0 {
		return
	}
	ref := m.Viewport.YOffset + m.Viewport.Height/3
	m.currentPage = pageAtReference(m.blocks, ref)
}

// pageAtReference returns the 1-based page whose block center is nearest the
// reference line. The reference sits a third of the way down the viewport
// rather than at the midpoint, so a page becomes current slightly before it
// reaches screen-center, matching natural reading flow. Pure; fed synthetic
// geometry in tests.
func pageAtReference(blocks []blockGeometry, refLine int) int {
	best := 1
	bestDist := -1
	for i, b := range blocks {
		center := b.top + b.height/2
		dist := center - refLine
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = i + 1
		}
	}
	return best
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + theme.SymbolEllipsis
}
