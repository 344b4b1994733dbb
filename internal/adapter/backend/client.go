// Package backend implements the HTTP client for the retrieval/generation
// backend. It is the only component that speaks the wire contract; everything
// above it sees domain types and the domain error taxonomy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"lectern/internal/domain"
	"lectern/internal/infra/config"
	"lectern/internal/infra/tracer"
)

// Client talks to the retrieval backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*domain.QueryResult]
	logger  *slog.Logger
	topK    int
}

// New creates a backend client. Query calls are wrapped in a circuit breaker
// so a down backend fails fast instead of stacking up timeouts.
func New(cfg config.BackendConfig, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker[*domain.QueryResult](gobreaker.Settings{
		Name:        "backend:query",
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		// Rate limits and input rejections are not backend outages.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrRateLimit) ||
				errors.Is(err, domain.ErrInvalidInput) ||
				errors.Is(err, domain.ErrNotFound)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: cb,
		logger:  logger,
		topK:    cfg.TopK,
	}
}

// Query sends one question and returns the backend's answer with sources.
func (c *Client) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResult, error) {
	req.Question = strings.TrimSpace(req.Question)
	if err := domain.ValidateQuestion(req.Question); err != nil {
		return nil, err
	}
	if req.TopK < domain.MinTopK || req.TopK > domain.MaxTopK {
		req.TopK = c.topK
	}

	ctx, span := tracer.Tracer().Start(ctx, "backend.query")
	span.SetAttributes(attribute.Int("query.top_k", req.TopK))
	defer span.End()

	res, err := c.breaker.Execute(func() (*domain.QueryResult, error) {
		var out domain.QueryResult
		if err := c.do(ctx, http.MethodPost, "/api/query", req, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.WrapOp("query", fmt.Errorf("%w: backend unavailable (circuit open)", domain.ErrConnection))
		}
		return nil, domain.WrapOp("query", err)
	}

	span.SetAttributes(
		attribute.Int("query.num_sources", len(res.Sources)),
		attribute.String("query.confidence", res.Confidence),
	)
	return res, nil
}

// Chunk retrieves a single evidence chunk by ID.
func (c *Client) Chunk(ctx context.Context, chunkID string) (*domain.Evidence, error) {
	if chunkID == "" {
		return nil, domain.WrapOp("chunk", fmt.Errorf("%w: chunk id is empty", domain.ErrInvalidInput))
	}
	var out domain.Evidence
	if err := c.do(ctx, http.MethodGet, "/api/chunks/"+chunkID, nil, &out); err != nil {
		return nil, domain.WrapOp("chunk", err)
	}
	return &out, nil
}

// contextEnvelope is the backend's flat surrounding-chunks response.
type contextEnvelope struct {
	CentralChunkID string            `json:"central_chunk_id"`
	ContextSize    int               `json:"context_size"`
	Chunks         []domain.Evidence `json:"chunks"`
}

// ChunkContext fetches size chunks before and after the given chunk. The
// backend returns one flat window; it is split around the central chunk here.
func (c *Client) ChunkContext(ctx context.Context, chunkID string, size int) (*domain.EvidenceContext, error) {
	if chunkID == "" {
		return nil, domain.WrapOp("chunk context", fmt.Errorf("%w: chunk id is empty", domain.ErrInvalidInput))
	}
	if size < domain.MinContextSize || size > domain.MaxContextSize {
		size = domain.DefaultContext
	}

	var env contextEnvelope
	path := fmt.Sprintf("/api/chunks/%s/context?size=%d", chunkID, size)
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, domain.WrapOp("chunk context", err)
	}

	ec := &domain.EvidenceContext{}
	central := -1
	for i, ch := range env.Chunks {
		if ch.ChunkID == env.CentralChunkID {
			central = i
			break
		}
	}
	if central < 0 {
		return nil, domain.WrapOp("chunk context",
			fmt.Errorf("%w: central chunk %s missing from window", domain.ErrBackend, env.CentralChunkID))
	}
	ec.Chunk = env.Chunks[central]
	ec.Before = env.Chunks[:central]
	ec.After = env.Chunks[central+1:]
	return ec, nil
}

// LectureListing is the full chunk listing for one lecture, the input to the
// page renderer.
type LectureListing struct {
	LectureNum   int               `json:"lecture_num"`
	LectureTitle string            `json:"lecture_title"`
	TotalChunks  int               `json:"total_chunks"`
	Chunks       []domain.Evidence `json:"chunks"`
}

// LectureChunks fetches every chunk of a lecture in reading order.
func (c *Client) LectureChunks(ctx context.Context, lectureNum int) (*LectureListing, error) {
	if lectureNum < domain.MinLectureNum || lectureNum > domain.MaxLectureNum {
		return nil, domain.WrapOp("lecture chunks",
			fmt.Errorf("%w: lecture number %d out of range", domain.ErrInvalidInput, lectureNum))
	}
	var out LectureListing
	path := fmt.Sprintf("/api/chunks/lecture/%d", lectureNum)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, domain.WrapOp("lecture chunks", err)
	}
	return &out, nil
}

// Document streams the compiled lecture PDF. The caller owns the reader.
func (c *Client) Document(ctx context.Context, lectureNum int) (io.ReadCloser, error) {
	if lectureNum < domain.MinLectureNum || lectureNum > domain.MaxLectureNum {
		return nil, domain.WrapOp("document",
			fmt.Errorf("%w: lecture number %d out of range", domain.ErrInvalidInput, lectureNum))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/pdfs/%d", c.baseURL, lectureNum), nil)
	if err != nil {
		return nil, domain.WrapOp("document", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.WrapOp("document", fmt.Errorf("%w: %v", domain.ErrConnection, err))
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, domain.WrapOp("document", decodeError(resp))
	}
	return resp.Body, nil
}

// SectionOutline is one section of a lecture in the navigation index.
type SectionOutline struct {
	SectionID    string   `json:"section_id"`
	SectionTitle string   `json:"section_title"`
	Subsections  []string `json:"subsections"`
	ChunkCount   int      `json:"chunk_count"`
}

// LectureOutline is one lecture's entry in the navigation index.
type LectureOutline struct {
	LectureNum   int              `json:"lecture_num"`
	LectureTitle string           `json:"lecture_title"`
	Sections     []SectionOutline `json:"sections"`
	TotalChunks  int              `json:"total_chunks"`
}

// LectureIndex is the full per-lecture section breakdown, for browsing.
type LectureIndex struct {
	Lectures      []LectureOutline `json:"lectures"`
	TotalLectures int              `json:"total_lectures"`
}

// Lectures fetches the navigation index of all indexed lectures.
func (c *Client) Lectures(ctx context.Context) (*LectureIndex, error) {
	var out LectureIndex
	if err := c.do(ctx, http.MethodGet, "/api/search/lectures", nil, &out); err != nil {
		return nil, domain.WrapOp("lectures", err)
	}
	return &out, nil
}

// DocumentEntry is one available lecture PDF.
type DocumentEntry struct {
	LectureNum int    `json:"lecture_num"`
	Filename   string `json:"filename"`
	URL        string `json:"url"`
}

// DocumentListing enumerates the lecture PDFs the backend can serve.
type DocumentListing struct {
	Available []DocumentEntry `json:"available"`
	Count     int             `json:"count"`
}

// AvailableDocuments lists the lectures that have a compiled PDF.
func (c *Client) AvailableDocuments(ctx context.Context) (*DocumentListing, error) {
	var out DocumentListing
	if err := c.do(ctx, http.MethodGet, "/api/pdfs", nil, &out); err != nil {
		return nil, domain.WrapOp("documents", err)
	}
	return &out, nil
}

// SystemInfo is the backend's corpus metadata.
type SystemInfo struct {
	TotalChunks     int    `json:"total_chunks"`
	LecturesIndexed []int  `json:"lectures_indexed"`
	NumLectures     int    `json:"num_lectures"`
	EmbeddingModel  string `json:"embedding_model"`
	LLMModel        string `json:"llm_model"`
	IndexSize       int    `json:"index_size"`
}

// Info fetches corpus metadata: chunk and lecture counts, model names.
func (c *Client) Info(ctx context.Context) (*SystemInfo, error) {
	var out SystemInfo
	if err := c.do(ctx, http.MethodGet, "/api/info", nil, &out); err != nil {
		return nil, domain.WrapOp("info", err)
	}
	return &out, nil
}

// Health probes the backend.
func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	var out domain.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, domain.WrapOp("health", err)
	}
	return &out, nil
}

// do performs one JSON round trip and maps failures onto the domain taxonomy:
// transport errors become ErrConnection, 429 becomes RateLimitError, any
// other non-2xx becomes BackendError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrBackend, err)
	}
	return nil
}

// errorBody is the backend's error envelope. 429 responses additionally
// carry the daily limit.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Limit   int    `json:"limit"`
}

func decodeError(resp *http.Response) error {
	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &eb)

	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &domain.RateLimitError{Message: msg, Limit: eb.Limit}
	}
	return &domain.BackendError{Status: resp.StatusCode, Message: msg}
}
