package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeychilson/paperoutline/arxiv"
	"github.com/joeychilson/paperoutline/client"
)

// stubOutliner returns a fixed result or error for every call.
type stubOutliner struct {
	result *client.Result
	err    error
}

func (s *stubOutliner) Outline(ctx context.Context, url string) (*client.Result, error) {
	return s.result, s.err
}

func newTestServer(o Outliner) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(o, log, nil)
}

func postOutline(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/outline", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

// TestHandleOutline verifies the happy path returns the extraction result.
func TestHandleOutline(t *testing.T) {
	s := newTestServer(&stubOutliner{result: &client.Result{
		ArxivID:  "2301.00001",
		Title:    "Some Paper",
		Source:   client.SourceHeuristic,
		Markdown: "# 1 Introduction\n# 2 Methods\n",
	}})

	rec := postOutline(t, s, `{"url": "https://arxiv.org/abs/2301.00001"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got client.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2301.00001", got.ArxivID)
	assert.Equal(t, client.SourceHeuristic, got.Source)
	assert.Contains(t, got.Markdown, "# 1 Introduction")
}

// TestHandleOutlineInvalidJSON verifies malformed bodies get a 400.
func TestHandleOutlineInvalidJSON(t *testing.T) {
	s := newTestServer(&stubOutliner{})

	rec := postOutline(t, s, `{"url": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON")
}

// TestHandleOutlineBadURL verifies non-arXiv URLs get a 400 before any work.
func TestHandleOutlineBadURL(t *testing.T) {
	s := newTestServer(&stubOutliner{err: errors.New("should not be reached")})

	rec := postOutline(t, s, `{"url": "https://example.com/paper.pdf"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestHandleOutlineNotFound verifies an unknown paper maps to a 404.
func TestHandleOutlineNotFound(t *testing.T) {
	s := newTestServer(&stubOutliner{err: arxiv.ErrNotFound})

	rec := postOutline(t, s, `{"url": "https://arxiv.org/abs/9999.99999"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestHandleOutlinePipelineError verifies other failures map to a 500.
func TestHandleOutlinePipelineError(t *testing.T) {
	s := newTestServer(&stubOutliner{err: errors.New("pdf parse failed")})

	rec := postOutline(t, s, `{"url": "https://arxiv.org/abs/2301.00001"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// TestHandleDownload verifies the markdown attachment response.
func TestHandleDownload(t *testing.T) {
	const markdown = "# 1 Introduction\n# 6 Conclusion\n# A Proofs\n"
	s := newTestServer(&stubOutliner{result: &client.Result{Markdown: markdown}})

	req := httptest.NewRequest(http.MethodGet, "/v1/outline/download?url=https://arxiv.org/abs/2301.00001", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="OUTLINE.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, markdown, rec.Body.String())
}

// TestHandleDownloadMissingURL verifies an absent url parameter gets a 400.
func TestHandleDownloadMissingURL(t *testing.T) {
	s := newTestServer(&stubOutliner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/outline/download", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestHandleHealth verifies the health endpoint.
func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubOutliner{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

// TestRateLimit verifies the per-IP limiter returns 429 past the limit.
func TestRateLimit(t *testing.T) {
	s := New(&stubOutliner{}, slog.New(slog.NewTextHandler(io.Discard, nil)), &Config{
		RateLimitRequests: 2,
		RateLimitWindow:   0,
	})

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
