package domain

import "fmt"

// Lecture identifies the lecture an evidence chunk belongs to.
type Lecture struct {
	Num   int    `json:"num"`
	Title string `json:"title"`
}

// Location places a chunk inside the lecture's section hierarchy. Breadcrumb
// is the full human-readable path and doubles as the dedupe key.
type Location struct {
	Section         string `json:"section"`
	Subsection      string `json:"subsection,omitempty"`
	Breadcrumb      string `json:"breadcrumb"`
	ShortBreadcrumb string `json:"short_breadcrumb"`
}

// DocumentRef links a chunk to the compiled lecture PDF. PageRange is
// [start, end], 1-based; nil when the chunk has no page mapping.
type DocumentRef struct {
	File      string `json:"pdf_file,omitempty"`
	PageRange []int  `json:"pdf_pages,omitempty"`
}

// HasDocument reports whether the ref points at a viewable document.
func (r DocumentRef) HasDocument() bool {
	return r.File != "" && len(r.PageRange) == 2
}

// StartPage returns the first page of the range, or 1 when unset.
func (r DocumentRef) StartPage() int {
	if len(r.PageRange) > 0 && r.PageRange[0] > 0 {
		return r.PageRange[0]
	}
	return 1
}

// Features are semantic hints about chunk content, used for UI badges.
type Features struct {
	HasCode   bool     `json:"has_code"`
	HasMath   bool     `json:"has_math"`
	ImageRefs []string `json:"has_images,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Position locates the chunk within its section and lecture.
type Position struct {
	InSection string `json:"in_section,omitempty"`
	InLecture int    `json:"in_lecture"`
}

// Evidence is one retrieved excerpt with provenance and relevance score.
// The JSON shape mirrors the backend's frontend-response contract. Evidence
// is immutable and owned by the Message that carries it; panels hold
// references, never copies they mutate.
type Evidence struct {
	ChunkID        string      `json:"chunk_id"`
	RelevanceScore float64     `json:"relevance_score"`
	Lecture        Lecture     `json:"lecture"`
	Location       Location    `json:"location"`
	Document       DocumentRef `json:"source"`
	TextPreview    string      `json:"text_preview"`
	TextFull       string      `json:"text_full"`
	WordCount      int         `json:"word_count,omitempty"`
	Features       Features    `json:"features"`
	Position       Position    `json:"position,omitempty"`
}

// Label is a compact one-line identification for lists and the status bar.
func (e Evidence) Label() string {
	if e.Location.ShortBreadcrumb != "" {
		return e.Location.ShortBreadcrumb
	}
	return fmt.Sprintf("L%d > %s", e.Lecture.Num, e.Location.Section)
}

// EvidenceContext is a chunk together with its surrounding chunks, used for
// the expanded context view.
type EvidenceContext struct {
	Chunk  Evidence   `json:"chunk"`
	Before []Evidence `json:"before"`
	After  []Evidence `json:"after"`
}
