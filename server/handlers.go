package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joeychilson/paperoutline/arxiv"
)

// OutlineRequest is a request to extract a paper's outline.
type OutlineRequest struct {
	URL string `json:"url"`
}

// ErrorResponse represents an error.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

// handleOutline handles POST /v1/outline requests.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OutlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if _, err := arxiv.IDFromURL(req.URL); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.outliner.Outline(ctx, req.URL)
	if err != nil {
		s.sendOutlineError(w, req.URL, err)
		return
	}

	s.sendJSON(w, result, http.StatusOK)
}

// handleDownload handles GET /v1/outline/download?url= requests, serving the
// numbered outline verbatim as a markdown file.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if _, err := arxiv.IDFromURL(rawURL); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.outliner.Outline(r.Context(), rawURL)
	if err != nil {
		s.sendOutlineError(w, rawURL, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="OUTLINE.md"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result.Markdown))
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// sendOutlineError maps pipeline errors onto HTTP status codes.
func (s *Server) sendOutlineError(w http.ResponseWriter, url string, err error) {
	s.logger.Error("outline extraction failed", "url", url, "error", err)

	if errors.Is(err, arxiv.ErrNotFound) {
		s.sendError(w, fmt.Sprintf("no arXiv paper found for %s", url), http.StatusNotFound)
		return
	}
	s.sendError(w, fmt.Sprintf("failed to extract outline for %s: %v", url, err), http.StatusInternalServerError)
}

func (s *Server) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	s.sendJSON(w, ErrorResponse{Error: message, StatusCode: statusCode}, statusCode)
}
