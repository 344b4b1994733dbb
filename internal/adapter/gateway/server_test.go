package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectern/internal/infra/config"
)

func testServer(t *testing.T, upstream string, rl config.RateLimitConfig) *Server {
	t.Helper()
	return New(config.GatewayConfig{
		Addr:       ":0",
		Upstream:   upstream,
		RateLimit:  rl,
		CORSOrigin: "http://localhost:3000",
	}, slog.New(slog.DiscardHandler))
}

func TestQueryForwardsValidRequest(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"paging is fine"}`))
	}))
	defer upstream.Close()

	s := testServer(t, upstream.URL, config.RateLimitConfig{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query",
		strings.NewReader(`{"question":"What is thrashing?","top_k":5}`))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/api/query", gotPath)
	assert.Contains(t, rec.Body.String(), "paging is fine")
}

func TestQueryRejectsInvalidInputBeforeForwarding(t *testing.T) {
	called := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer upstream.Close()

	s := testServer(t, upstream.URL, config.RateLimitConfig{})

	cases := []string{
		`{"question":""}`,
		`{"question":"   "}`,
		`{"question":"` + strings.Repeat("x", 2001) + `"}`,
		`{"question":"ok","top_k":11}`,
		`{"question":"ok","top_k":-1}`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	assert.False(t, called, "invalid input must never reach the backend")
}

func TestQueryRateLimited(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	s := testServer(t, upstream.URL, config.RateLimitConfig{Enabled: true, DailyLimit: 5, Burst: 1})

	send := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"question":"q"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.1:4000"
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send().Code)

	rec := send()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Too many requests", body.Message)
	assert.Equal(t, 5, body.Limit)
}

func TestUpstreamUnreachableIs503(t *testing.T) {
	s := testServer(t, "http://127.0.0.1:1", config.RateLimitConfig{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"question":"q"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUpstreamServerErrorIs502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	s := testServer(t, upstream.URL, config.RateLimitConfig{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chunks/c1", nil)
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUpstreamClientErrorsPassThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found","message":"no such chunk"}`))
	}))
	defer upstream.Close()

	s := testServer(t, upstream.URL, config.RateLimitConfig{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chunks/missing", nil)
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no such chunk")
}

func TestLectureNumValidated(t *testing.T) {
	called := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer upstream.Close()

	s := testServer(t, upstream.URL, config.RateLimitConfig{})
	for _, path := range []string{"/api/chunks/lecture/0", "/api/chunks/lecture/31", "/api/pdfs/abc"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path: %s", path)
	}
	assert.False(t, called)
}

func TestContextSizeValidated(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "size=3", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	s := testServer(t, upstream.URL, config.RateLimitConfig{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chunks/c1/context?size=3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chunks/c1/context?size=9", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetadataEndpointsRelay(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/search/lectures":
			_, _ = w.Write([]byte(`{"lectures":[{"lecture_num":5}],"total_lectures":1}`))
		case "/api/pdfs":
			_, _ = w.Write([]byte(`{"available":[{"lecture_num":5,"filename":"L05.pdf"}],"count":1}`))
		case "/api/info":
			_, _ = w.Write([]byte(`{"total_chunks":812,"num_lectures":24}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	s := testServer(t, upstream.URL, config.RateLimitConfig{})
	for path, want := range map[string]string{
		"/api/search/lectures": "total_lectures",
		"/api/pdfs":            "L05.pdf",
		"/api/info":            "total_chunks",
	} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, "path: %s", path)
		assert.Contains(t, rec.Body.String(), want, "path: %s", path)
	}
}

func TestHealthReportsBackendDown(t *testing.T) {
	s := testServer(t, "http://127.0.0.1:1", config.RateLimitConfig{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")
}
