package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lectern/internal/adapter/tui/theme"
)

// ModalModel is a full-screen overlay for long read-only content: the
// expanded-context window, the lecture catalog, and the help screen.
type ModalModel struct {
	Viewport viewport.Model
	Title    string
	Visible  bool
	width    int
	height   int
	vpReady  bool
}

// NewModal creates a hidden modal.
func NewModal() ModalModel {
	return ModalModel{}
}

// Open shows the modal with the given content, scrolled to the top.
func (m *ModalModel) Open(title, content string) {
	m.Title = title
	m.Visible = true
	if !m.vpReady {
		m.Viewport = viewport.New(80, 24)
		m.Viewport.MouseWheelEnabled = true
		m.vpReady = true
	}
	m.resize()
	m.Viewport.SetContent(content)
	m.Viewport.GotoTop()
}

// Close hides the modal.
func (m *ModalModel) Close() {
	m.Visible = false
}

// SetSize updates the modal dimensions.
func (m *ModalModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.vpReady {
		m.resize()
	}
}

func (m *ModalModel) resize() {
	if m.width > 0 {
		m.Viewport.Width = m.width - 4
		m.Viewport.Height = m.height - 4
	}
}

// Update handles modal keys: Esc/q close, j/k line scroll, d/u half page,
// g/G ends.
func (m ModalModel) Update(msg tea.Msg) (ModalModel, tea.Cmd) {
	if !m.Visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			m.Close()
			return m, nil
		case "j", "down":
			m.Viewport.LineDown(3)
			return m, nil
		case "k", "up":
			m.Viewport.LineUp(3)
			return m, nil
		case "d":
			m.Viewport.HalfViewDown()
			return m, nil
		case "u":
			m.Viewport.HalfViewUp()
			return m, nil
		case "g":
			m.Viewport.GotoTop()
			return m, nil
		case "G":
			m.Viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View renders the modal overlay: title bar with scroll position on the
// right, content, key footer.
func (m ModalModel) View() string {
	if !m.Visible {
		return ""
	}

	title := theme.Bold.Render(" " + m.Title)
	pos := theme.TextMuted.Render(fmt.Sprintf("%.0f%% ", m.Viewport.ScrollPercent()*100))
	gap := m.width - 4 - lipgloss.Width(title) - lipgloss.Width(pos)
	if gap < 1 {
		gap = 1
	}
	titleBar := title + lipgloss.NewStyle().Width(gap).Render("") + pos

	footer := theme.Dim.Render(" esc close " + theme.SymbolBullet +
		" j/k scroll " + theme.SymbolBullet +
		" d/u half page " + theme.SymbolBullet + " g/G ends")

	inner := lipgloss.JoinVertical(lipgloss.Left, titleBar, m.Viewport.View(), footer)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorderActive).
		Padding(0, 1).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(inner)
}
