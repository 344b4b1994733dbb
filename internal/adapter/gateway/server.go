// Package gateway is the thin validating proxy in front of the retrieval
// backend. Its only job is input-range checking, per-IP rate limiting, and
// status-code translation; no retrieval logic lives here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"lectern/internal/domain"
	"lectern/internal/infra/config"
)

// errorBody is the JSON error shape clients see. Limit is only set on 429.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Limit   int    `json:"limit,omitempty"`
}

// Server proxies validated requests to the upstream backend.
type Server struct {
	cfg      config.GatewayConfig
	logger   *slog.Logger
	client   *http.Client
	limiters sync.Map // ip -> *rate.Limiter
	echo     *echo.Echo
}

// New builds the gateway server and registers its routes.
func New(cfg config.GatewayConfig, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 90 * time.Second},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
	}))
	e.HTTPErrorHandler = s.errorHandler

	api := e.Group("/api")
	api.POST("/query", s.handleQuery, s.rateLimit)
	api.GET("/chunks/:id", s.handleChunk)
	api.GET("/chunks/:id/context", s.handleChunkContext)
	api.GET("/chunks/lecture/:num", s.handleLectureChunks)
	api.GET("/pdfs", s.handleDocumentList)
	api.GET("/pdfs/:num", s.handlePDF)
	api.GET("/search/lectures", s.handleLectureIndex)
	api.GET("/info", s.handleInfo)
	api.GET("/health", s.handleHealth)

	s.echo = e
	return s
}

// Start blocks serving HTTP until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.cfg.Addr)
	}()
	s.logger.Info("gateway listening", "addr", s.cfg.Addr, "upstream", s.cfg.Upstream)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutCtx)
	}
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "internal error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	s.logger.Warn("request failed",
		"status", code, "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
	if !c.Response().Committed {
		_ = c.JSON(code, errorBody{Error: http.StatusText(code), Message: msg})
	}
}

// rateLimit enforces the per-IP query quota. The 429 body carries the
// configured daily limit so clients can show it.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.cfg.RateLimit.Enabled {
			return next(c)
		}
		lim := s.limiterFor(c.RealIP())
		if !lim.Allow() {
			s.logger.Info("rate limited", "ip", c.RealIP())
			return c.JSON(http.StatusTooManyRequests, errorBody{
				Error:   "rate_limited",
				Message: "Too many requests",
				Limit:   s.cfg.RateLimit.DailyLimit,
			})
		}
		return next(c)
	}
}

func (s *Server) limiterFor(ip string) *rate.Limiter {
	if v, ok := s.limiters.Load(ip); ok {
		return v.(*rate.Limiter)
	}
	// DailyLimit queries per day, refilled evenly across the day.
	perDay := rate.Limit(float64(s.cfg.RateLimit.DailyLimit) / (24 * 60 * 60))
	burst := s.cfg.RateLimit.Burst
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(perDay, burst)
	actual, _ := s.limiters.LoadOrStore(ip, lim)
	return actual.(*rate.Limiter)
}

func (s *Server) handleQuery(c echo.Context) error {
	var req domain.QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	req.Question = strings.TrimSpace(req.Question)
	if err := domain.ValidateQuestion(req.Question); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TopK != 0 && (req.TopK < domain.MinTopK || req.TopK > domain.MaxTopK) {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("top_k must be in [%d, %d]", domain.MinTopK, domain.MaxTopK))
	}
	return s.forwardJSON(c, http.MethodPost, "/api/query", req)
}

func (s *Server) handleChunk(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chunk id is required")
	}
	return s.forwardJSON(c, http.MethodGet, "/api/chunks/"+id, nil)
}

func (s *Server) handleChunkContext(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chunk id is required")
	}
	size := domain.DefaultContext
	if v := c.QueryParam("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < domain.MinContextSize || n > domain.MaxContextSize {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("size must be in [%d, %d]", domain.MinContextSize, domain.MaxContextSize))
		}
		size = n
	}
	return s.forwardJSON(c, http.MethodGet, fmt.Sprintf("/api/chunks/%s/context?size=%d", id, size), nil)
}

func (s *Server) handleLectureChunks(c echo.Context) error {
	num, err := lectureNum(c)
	if err != nil {
		return err
	}
	return s.forwardJSON(c, http.MethodGet, fmt.Sprintf("/api/chunks/lecture/%d", num), nil)
}

func (s *Server) handlePDF(c echo.Context) error {
	num, err := lectureNum(c)
	if err != nil {
		return err
	}

	resp, err := s.upstream(c, http.MethodGet, fmt.Sprintf("/api/pdfs/%d", num), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no document for lecture %d", num))
	}
	if resp.StatusCode != http.StatusOK {
		return echo.NewHTTPError(http.StatusBadGateway, "backend failed to produce the document")
	}
	return c.Stream(http.StatusOK, "application/pdf", resp.Body)
}

// Metadata endpoints carry nothing to validate; they relay as-is.

func (s *Server) handleDocumentList(c echo.Context) error {
	return s.forwardJSON(c, http.MethodGet, "/api/pdfs", nil)
}

func (s *Server) handleLectureIndex(c echo.Context) error {
	return s.forwardJSON(c, http.MethodGet, "/api/search/lectures", nil)
}

func (s *Server) handleInfo(c echo.Context) error {
	return s.forwardJSON(c, http.MethodGet, "/api/info", nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	resp, err := s.upstream(c, http.MethodGet, "/api/health", nil)
	if err != nil {
		// The gateway is up even when the backend is not; report that
		// distinctly rather than erroring.
		return c.JSON(http.StatusServiceUnavailable,
			domain.HealthStatus{Status: "unhealthy", Message: "backend unreachable"})
	}
	defer resp.Body.Close()
	return s.relay(c, resp)
}

func lectureNum(c echo.Context) (int, error) {
	num, err := strconv.Atoi(c.Param("num"))
	if err != nil || num < domain.MinLectureNum || num > domain.MaxLectureNum {
		return 0, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("lecture number must be in [%d, %d]", domain.MinLectureNum, domain.MaxLectureNum))
	}
	return num, nil
}

// forwardJSON proxies the request upstream and relays the JSON response,
// translating transport failure to 503.
func (s *Server) forwardJSON(c echo.Context, method, path string, body any) error {
	resp, err := s.upstream(c, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return s.relay(c, resp)
}

func (s *Server) upstream(c echo.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "encode upstream request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(c.Request().Context(), method, s.cfg.Upstream+path, reader)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("upstream unreachable", "error", err)
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "backend unreachable")
	}
	return resp, nil
}

// relay copies the upstream response through verbatim. Non-2xx upstream
// statuses pass through so the client sees the backend's own error shape;
// 5xx collapses to 502.
func (s *Server) relay(c echo.Context, resp *http.Response) error {
	status := resp.StatusCode
	if status >= 500 {
		return echo.NewHTTPError(http.StatusBadGateway, "backend error")
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Stream(status, contentType, resp.Body)
}
