package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/adapter/tui/theme"
	"lectern/internal/domain"
)

// SourceOpenMsg is sent when the user activates a source in the panel.
type SourceOpenMsg struct {
	Evidence domain.Evidence
}

// SourceContextMsg asks for the expanded context view of a source.
type SourceContextMsg struct {
	ChunkID string
}

// SourcePanelModel lists the evidence behind an answer. The list arrives
// already deduplicated; the panel only displays and navigates it.
type SourcePanelModel struct {
	Visible bool
	sources []domain.Evidence
	agg     float64
	cursor  int
	width   int
	height  int
}

// NewSourcePanel creates a hidden panel.
func NewSourcePanel() SourcePanelModel {
	return SourcePanelModel{}
}

// Open populates and shows the panel. The cursor resets to the top.
func (m *SourcePanelModel) Open(sources []domain.Evidence, aggregate float64) {
	m.sources = sources
	m.agg = aggregate
	m.cursor = 0
	m.Visible = true
}

// Close hides the panel. The sources stay so a reopen shows the same set.
func (m *SourcePanelModel) Close() {
	m.Visible = false
}

// SetSize updates the panel dimensions.
func (m *SourcePanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Selected returns the evidence under the cursor, nil when empty.
func (m *SourcePanelModel) Selected() *domain.Evidence {
	if len(m.sources) == 0 {
		return nil
	}
	return &m.sources[m.cursor]
}

// Len reports the number of listed sources.
func (m *SourcePanelModel) Len() int { return len(m.sources) }

// Update handles panel navigation: j/k move, enter opens, x expands context.
func (m SourcePanelModel) Update(msg tea.Msg) (SourcePanelModel, tea.Cmd) {
	if !m.Visible {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.sources)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if sel := m.Selected(); sel != nil {
			ev := *sel
			return m, func() tea.Msg { return SourceOpenMsg{Evidence: ev} }
		}
	case "x":
		if sel := m.Selected(); sel != nil {
			id := sel.ChunkID
			return m, func() tea.Msg { return SourceContextMsg{ChunkID: id} }
		}
	}
	return m, nil
}

// View renders the panel column: header with count and aggregate score, the
// navigable list, and a preview of the selected source.
func (m SourcePanelModel) View() string {
	if !m.Visible {
		return ""
	}

	var sb strings.Builder
	header := fmt.Sprintf("Sources (%d)", len(m.sources))
	if m.agg > 0 {
		header += theme.SourceScore.Render(fmt.Sprintf("  avg %.2f", m.agg))
	}
	sb.WriteString(theme.PanelTitle.Render(header))
	sb.WriteString("\n")

	if len(m.sources) == 0 {
		sb.WriteString(theme.TextMuted.Render("  no sources"))
		return sb.String()
	}

	labelW := m.width - 10
	if labelW < 12 {
		labelW = 12
	}
	for i, src := range m.sources {
		line := fmt.Sprintf("%s %.2f%s", truncate(src.Label(), labelW), src.RelevanceScore, featureMarks(src.Features))
		if i == m.cursor {
			sb.WriteString(theme.SourceSelected.Render(theme.SymbolArrowR + " " + line))
		} else {
			sb.WriteString("  " + line)
		}
		if src.Document.HasDocument() {
			sb.WriteString(" " + theme.TextInfo.Render("pdf"))
		}
		sb.WriteString("\n")
	}

	if sel := m.Selected(); sel != nil && sel.TextPreview != "" {
		sb.WriteString("\n")
		sb.WriteString(theme.Dim.Render(wrapText(sel.TextPreview, m.width-4)))
	}

	sb.WriteString("\n\n")
	sb.WriteString(theme.Dim.Render("enter: open  x: context  esc: close"))
	return sb.String()
}

// featureMarks renders compact content hints for a source line.
func featureMarks(f domain.Features) string {
	var marks []string
	if f.HasCode {
		marks = append(marks, "code")
	}
	if f.HasMath {
		marks = append(marks, "math")
	}
	if len(f.ImageRefs) > 0 {
		marks = append(marks, "img")
	}
	if len(marks) == 0 {
		return ""
	}
	return theme.TextMuted.Render(" [" + strings.Join(marks, ",") + "]")
}
