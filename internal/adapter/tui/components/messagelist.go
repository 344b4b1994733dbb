package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"lectern/internal/adapter/tui/theme"
	"lectern/internal/domain"
)

// entry pairs a transcript message with its cached glamour render.
type entry struct {
	msg      domain.Message
	rendered string // empty means not yet rendered
}

// MessageListModel renders the ordered conversation transcript. It keeps a
// per-message render cache keyed to the current width; the transcript itself
// is owned by the session, this model only mirrors it for display.
type MessageListModel struct {
	entries     []entry
	MaxMessages int // 0 = unlimited; positive = ring buffer cap
	trimCount   int
	width       int
	mdRenderer  *glamour.TermRenderer
}

// NewMessageList creates an empty message list.
func NewMessageList() MessageListModel {
	return MessageListModel{}
}

// SetWidth updates the rendering width and clears cached renders.
func (m *MessageListModel) SetWidth(w int) {
	if w == m.width {
		return
	}
	m.width = w
	m.mdRenderer = nil // force re-creation with new width
	for i := range m.entries {
		m.entries[i].rendered = ""
	}
}

// SetMaxMessages sets the ring buffer capacity. 0 means unlimited.
func (m *MessageListModel) SetMaxMessages(max int) {
	m.MaxMessages = max
}

// Sync replaces the displayed transcript, preserving render caches for
// messages that survived (matched by ID).
func (m *MessageListModel) Sync(transcript []domain.Message) {
	cache := make(map[string]string, len(m.entries))
	for _, e := range m.entries {
		if e.rendered != "" {
			cache[e.msg.ID] = e.rendered
		}
	}

	m.entries = m.entries[:0]
	for _, msg := range transcript {
		m.entries = append(m.entries, entry{msg: msg, rendered: cache[msg.ID]})
	}
	if m.MaxMessages > 0 && len(m.entries) > m.MaxMessages {
		excess := len(m.entries) - m.MaxMessages
		m.entries = m.entries[excess:]
		m.trimCount = excess
	} else {
		m.trimCount = 0
	}
}

// Len reports the number of displayed messages.
func (m *MessageListModel) Len() int { return len(m.entries) }

// TrimmedIndicator returns a notice when older messages were trimmed.
func (m *MessageListModel) TrimmedIndicator() string {
	if m.trimCount == 0 {
		return ""
	}
	return fmt.Sprintf("(%d older messages trimmed)", m.trimCount)
}

// View renders all messages as a single string.
func (m *MessageListModel) View() string {
	if len(m.entries) == 0 {
		return theme.TextMuted.Render("  Ask a question about the lecture notes to get started.")
	}

	contentWidth := ContentWidth(m.width)

	var sb strings.Builder
	if indicator := m.TrimmedIndicator(); indicator != "" {
		sb.WriteString(theme.TextMuted.Render("  "+indicator) + "\n\n")
	}
	for i := range m.entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(&m.entries[i], contentWidth))
	}
	return sb.String()
}

func (m *MessageListModel) renderMessage(e *entry, width int) string {
	msg := &e.msg
	header := m.roleLabel(msg.Role)
	if badge := ConfidenceBadge(msg.Confidence); badge != "" {
		header += " " + badge
	}
	header += " " + theme.Timestamp.Render(RelativeTime(msg.Timestamp))
	headerWidth := lipgloss.Width(header)

	var body string
	switch {
	case msg.IsError:
		// Friendly-error text is pre-formatted (title, message, hint
		// bullets); glamour would re-flow it into one paragraph.
		body = renderErrorBody(msg.Content, width)
	case msg.Role == domain.RoleAssistant:
		if e.rendered == "" {
			e.rendered = m.renderMarkdown(msg.Content, width)
		}
		body = strings.TrimSpace(e.rendered)
	default:
		inlineW := width - headerWidth - 2
		if inlineW < 20 {
			inlineW = width - 2
		}
		body = wrapText(msg.Content, inlineW)
	}

	footer := renderCitations(msg.Sources, width)
	if stats := renderStats(msg.Stats); stats != "" {
		footer += "\n  " + stats
	}

	var result string
	switch {
	case body == "":
		result = header
	case msg.Role == domain.RoleAssistant || width-headerWidth-2 < 20:
		result = header + "\n" + body
	default:
		lines := strings.SplitN(body, "\n", 2)
		result = header + "  " + strings.TrimSpace(lines[0])
		if len(lines) > 1 {
			result += "\n" + lines[1]
		}
	}
	if footer != "" {
		result += "\n" + strings.TrimPrefix(footer, "\n")
	}
	return result
}

// renderCitations lists an answer's sources as numbered one-liners. The
// numbers double as hotkeys: pressing the digit opens that source's document.
func renderCitations(sources []domain.Evidence, width int) string {
	if len(sources) == 0 {
		return ""
	}
	maxLabel := width - 12
	if maxLabel < 16 {
		maxLabel = 16
	}

	var sb strings.Builder
	for i, src := range sources {
		label := src.Label()
		if len(label) > maxLabel {
			label = label[:maxLabel-1] + theme.SymbolEllipsis
		}
		key := theme.CitationKey.Render(fmt.Sprintf("[%d]", i+1))
		score := theme.SourceScore.Render(fmt.Sprintf("%.2f", src.RelevanceScore))
		sb.WriteString("  " + key + " " + label + " " + score)
		if i < len(sources)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderErrorBody styles a pre-formatted friendly error: the first line is
// the heading, the remainder (explanation, hint bullets) stays as written.
func renderErrorBody(content string, width int) string {
	lines := strings.Split(content, "\n")
	lines[0] = theme.TextError.Render(lines[0])
	for i := 1; i < len(lines); i++ {
		lines[i] = wrapText(lines[i], width-4)
	}
	return strings.Join(lines, "\n")
}

func renderStats(stats *domain.AnswerStats) string {
	if stats == nil {
		return ""
	}
	return theme.TextMuted.Render(fmt.Sprintf("retrieval %dms %s generation %dms %s avg score %.2f",
		stats.RetrievalTimeMs, theme.SymbolBullet, stats.GenerationTimeMs, theme.SymbolBullet, stats.AvgScore))
}

// ConfidenceBadge renders the answer-confidence marker, empty for user
// messages and answers without a confidence level.
func ConfidenceBadge(c string) string {
	switch c {
	case domain.ConfidenceHigh:
		return theme.BadgeHigh.Render(theme.SymbolSuccess + " high")
	case domain.ConfidenceMedium:
		return theme.BadgeMedium.Render(theme.SymbolInfo + " medium")
	case domain.ConfidenceLow:
		return theme.BadgeLow.Render(theme.SymbolWarning + " low")
	case domain.ConfidenceNoContext:
		return theme.BadgeNone.Render("no context")
	default:
		return ""
	}
}

func (m *MessageListModel) roleLabel(role string) string {
	switch role {
	case domain.RoleUser:
		return theme.UserLabel.Render(theme.SymbolUser)
	case domain.RoleAssistant:
		return theme.BotLabel.Render(theme.SymbolBot)
	default:
		return theme.TextMuted.Render(role)
	}
}

func (m *MessageListModel) renderMarkdown(content string, width int) string {
	if m.mdRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "  " + content
		}
		m.mdRenderer = r
	}
	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		return "  " + content
	}
	return rendered
}

// RelativeTime returns a human-readable relative time string.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}

// wrapText wraps text to the given width with a 2-space indent on continuation lines.
// Uses rune-based indexing to safely handle multibyte UTF-8.
func wrapText(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	var lines []string
	for len(runes) > width {
		idx := -1
		for i := width - 1; i > 0; i-- {
			if runes[i] == ' ' {
				idx = i
				break
			}
		}
		if idx <= 0 {
			idx = width
		}
		lines = append(lines, string(runes[:idx]))
		runes = runes[idx:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return strings.Join(lines, "\n  ")
}

// ContentWidth calculates the content width respecting MaxContentWidth.
func ContentWidth(termWidth int) int {
	w := termWidth - 4
	if w > theme.MaxContentWidth {
		w = theme.MaxContentWidth
	}
	if w < 40 {
		w = 40
	}
	return w
}

// Divider renders a horizontal line at the given width.
func Divider(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorBorder).
		Render(strings.Repeat("─", width))
}
