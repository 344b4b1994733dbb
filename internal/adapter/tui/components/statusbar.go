package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lectern/internal/adapter/tui/theme"
)

// KeyHint represents a single keybinding hint shown in the status bar.
type KeyHint struct {
	Key  string // e.g. "Enter"
	Desc string // e.g. "Send"
}

// StatusBarModel renders a bottom status bar with keybinding hints, backend
// health, and transient status text.
type StatusBarModel struct {
	Hints   []KeyHint // show 4-5 most important hints
	Backend string    // backend host, shown on the right
	Healthy bool
	Probed  bool   // false until the first health probe completes
	Extra   string // additional status text (e.g. "Thinking...")
	width   int
}

// NewStatusBar creates a status bar with default hints.
func NewStatusBar() StatusBarModel {
	return StatusBarModel{}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line.
func (m StatusBarModel) View() string {
	// Left side: keybinding hints.
	var hints []string
	for _, h := range m.Hints {
		key := theme.StatusKey.Render(h.Key)
		hints = append(hints, key+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	// Right side: backend health.
	var right string
	if m.Backend != "" {
		health := theme.TextMuted.Render("?")
		if m.Probed {
			if m.Healthy {
				health = theme.TextSuccess.Render(theme.SymbolSuccess)
			} else {
				health = theme.TextError.Render(theme.SymbolError)
			}
		}
		right = theme.TextMuted.Render(m.Backend) + " " + health
	}

	if m.Extra != "" {
		if right != "" {
			right += "  "
		}
		right = theme.TextInfo.Render(m.Extra) + "  " + right
	}

	// Join left and right, padding the gap.
	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := m.width - leftW - rightW
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	return theme.StatusBar.Width(m.width).Render(bar)
}
