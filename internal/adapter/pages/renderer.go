// Package pages turns a lecture's chunk listing into renderable page text
// for the document viewer. The viewer treats rendering as an injected
// capability: render page N at a width, report total page count, report
// load failure. This implementation reconstructs pages from the chunks'
// PDF page ranges.
package pages

import (
	"fmt"
	"sort"
	"strings"

	"lectern/internal/domain"
)

// Renderer is the document-rendering capability injected into the viewer
// once a document has loaded.
type Renderer interface {
	Title() string
	PageCount() int
	RenderPage(page, width int) (string, error)
}

// chunkRenderer maps page numbers to the chunks that start on them.
type chunkRenderer struct {
	title     string
	pageCount int
	byPage    map[int][]domain.Evidence
}

// New builds a Renderer from a lecture title and its chunks in reading
// order. Chunks are assigned to the first page of their page range; chunks
// without a page mapping are dropped. Returns ErrDocumentLoad when nothing
// in the listing maps to a page.
func New(title string, chunks []domain.Evidence) (Renderer, error) {
	byPage := make(map[int][]domain.Evidence)
	pageCount := 0

	for _, ch := range chunks {
		if !ch.Document.HasDocument() {
			continue
		}
		start := ch.Document.PageRange[0]
		end := ch.Document.PageRange[1]
		if start < 1 || end < start {
			continue
		}
		byPage[start] = append(byPage[start], ch)
		if end > pageCount {
			pageCount = end
		}
	}

	if pageCount == 0 {
		return nil, domain.WrapOp("build pages",
			fmt.Errorf("%w: no chunks with page mappings", domain.ErrDocumentLoad))
	}

	return &chunkRenderer{title: title, pageCount: pageCount, byPage: byPage}, nil
}

func (r *chunkRenderer) Title() string  { return r.title }
func (r *chunkRenderer) PageCount() int { return r.pageCount }

// RenderPage renders one page's chunks as wrapped text with section
// headings. Pages with no starting chunk render a continuation marker —
// their content belongs to a chunk that started earlier.
func (r *chunkRenderer) RenderPage(page, width int) (string, error) {
	if page < 1 || page > r.pageCount {
		return "", fmt.Errorf("page %d out of range [1, %d]", page, r.pageCount)
	}
	if width < 20 {
		width = 20
	}

	chunks := r.byPage[page]
	if len(chunks) == 0 {
		return "(continued)", nil
	}

	// Stable reading order within a page.
	sorted := make([]domain.Evidence, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position.InLecture < sorted[j].Position.InLecture
	})

	var sb strings.Builder
	lastSection := ""
	for i, ch := range sorted {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if ch.Location.Section != lastSection {
			sb.WriteString(ch.Location.Section)
			if ch.Location.Subsection != "" {
				sb.WriteString(" / " + ch.Location.Subsection)
			}
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat("-", min(width, len(ch.Location.Section))))
			sb.WriteString("\n")
			lastSection = ch.Location.Section
		}
		sb.WriteString(wrap(ch.TextFull, width))
	}
	return sb.String(), nil
}

// wrap breaks s into lines no longer than width, on spaces where possible.
func wrap(s string, width int) string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		runes := []rune(strings.TrimRight(para, " "))
		for len(runes) > width {
			cut := -1
			for i := width; i > 0; i-- {
				if runes[i-1] == ' ' {
					cut = i - 1
					break
				}
			}
			if cut <= 0 {
				cut = width
			}
			out = append(out, strings.TrimRight(string(runes[:cut]), " "))
			runes = runes[cut:]
			for len(runes) > 0 && runes[0] == ' ' {
				runes = runes[1:]
			}
		}
		out = append(out, string(runes))
	}
	return strings.Join(out, "\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
