package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/services/status"
)

// DocumentsHandler reports per-document ingestion outcomes
type DocumentsHandler struct {
	statusService *status.Service
	logger        arbor.ILogger
}

// NewDocumentsHandler creates a new documents handler
func NewDocumentsHandler(statusService *status.Service, logger arbor.ILogger) *DocumentsHandler {
	return &DocumentsHandler{
		statusService: statusService,
		logger:        logger,
	}
}

// ListHandler handles GET /api/documents requests
func (h *DocumentsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := h.statusService.Report()

	docs := make([]map[string]interface{}, 0, len(report.Documents))
	for _, doc := range report.Documents {
		entry := map[string]interface{}{
			"name":     doc.Name,
			"language": doc.Language,
			"chunks":   doc.Chunks,
			"embedded": doc.Embedded,
			"omitted":  doc.Omitted,
			"loaded":   doc.Error == "",
		}
		if doc.Error != "" {
			entry["error"] = doc.Error
		}
		docs = append(docs, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"documents": docs,
		"state":     report.State,
	})
}
