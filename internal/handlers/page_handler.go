package handlers

import (
	"embed"
	"net/http"

	"github.com/ternarybob/arbor"
)

//go:embed static
var staticFiles embed.FS

// PageHandler serves the embedded web UI
type PageHandler struct {
	logger arbor.ILogger
}

// NewPageHandler creates a new page handler
func NewPageHandler(logger arbor.ILogger) *PageHandler {
	return &PageHandler{logger: logger}
}

// IndexHandler serves the single-page UI at /
func (h *PageHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read embedded index page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}
