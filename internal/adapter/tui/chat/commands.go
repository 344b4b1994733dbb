package chat

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/adapter/pages"
	"lectern/internal/domain"
	"lectern/internal/usecase"
)

// sendQueryCmd issues the query in a background goroutine. gen tags the
// result so a superseded request's resolution is discarded by Update.
func sendQueryCmd(backend Backend, att usecase.Attempt) tea.Cmd {
	return func() tea.Msg {
		res, err := backend.Query(att.Ctx, att.Request)
		if err != nil {
			return QueryErrMsg{Err: err, Gen: att.Gen}
		}
		return QueryResultMsg{Result: res, Gen: att.Gen}
	}
}

// loadDocumentCmd fetches a lecture's chunk listing and builds the page
// renderer from it. docKey identifies the document so a stale load for a
// superseded open is dropped.
func loadDocumentCmd(backend Backend, docKey string, lectureNum int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		listing, err := backend.LectureChunks(ctx, lectureNum)
		if err != nil {
			return DocErrorMsg{DocKey: docKey, Err: err}
		}
		r, err := pages.New(listing.LectureTitle, listing.Chunks)
		if err != nil {
			return DocErrorMsg{DocKey: docKey, Err: err}
		}
		return DocReadyMsg{DocKey: docKey, Renderer: r}
	}
}

// scrollSettleCmd fires once, shortly after a document becomes ready, so
// the initial-page scroll lands on settled layout.
func scrollSettleCmd(docKey string) tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(_ time.Time) tea.Msg {
		return ScrollSettleMsg{DocKey: docKey}
	})
}

// clearSelectionCmd schedules the deferred selection clear after viewer
// close. gen lets a reopen during the delay window supersede the clear.
func clearSelectionCmd(delay time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return SelectionClearMsg{Gen: gen}
	})
}

// loadContextCmd fetches the expanded context window for a chunk.
func loadContextCmd(backend Backend, chunkID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ec, err := backend.ChunkContext(ctx, chunkID, domain.DefaultContext)
		return ContextMsg{ChunkID: chunkID, Context: ec, Err: err}
	}
}

// loadCatalogCmd fetches the lecture navigation index plus the PDF listing,
// so the catalog can mark which lectures are viewable.
func loadCatalogCmd(backend Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		index, err := backend.Lectures(ctx)
		if err != nil {
			return CatalogMsg{Err: err}
		}
		// The listing is decoration; a failure here degrades to no marks.
		docs, _ := backend.AvailableDocuments(ctx)
		return CatalogMsg{Index: index, Docs: docs}
	}
}

// loadInfoCmd fetches corpus metadata for the /info view.
func loadInfoCmd(backend Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		info, err := backend.Info(ctx)
		return InfoMsg{Info: info, Err: err}
	}
}

// probeHealthCmd runs one backend health probe for the status bar.
func probeHealthCmd(backend Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status, err := backend.Health(ctx)
		if err != nil {
			return HealthMsg{Err: err}
		}
		return HealthMsg{Status: *status}
	}
}

// saveDocumentCmd streams the lecture PDF to the download directory.
func saveDocumentCmd(backend Backend, lectureNum int, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		body, err := backend.Document(ctx, lectureNum)
		if err != nil {
			return DocSavedMsg{Err: err}
		}
		defer body.Close()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return DocSavedMsg{Err: fmt.Errorf("create download dir: %w", err)}
		}
		path := filepath.Join(dir, fmt.Sprintf("lecture%02d.pdf", lectureNum))
		f, err := os.Create(path)
		if err != nil {
			return DocSavedMsg{Err: err}
		}
		defer f.Close()

		if _, err := io.Copy(f, body); err != nil {
			return DocSavedMsg{Err: err}
		}
		return DocSavedMsg{Path: path}
	}
}
