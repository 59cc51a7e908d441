package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/common"
	"github.com/ternarybob/iuris/internal/services/status"
)

// APIHandler handles system-level API requests
type APIHandler struct {
	statusService *status.Service
	logger        arbor.ILogger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(statusService *status.Service, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		statusService: statusService,
		logger:        logger,
	}
}

// VersionHandler handles GET /api/version requests
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// HealthHandler handles GET /api/health requests. The process is healthy
// as soon as it serves HTTP; corpus readiness is reported separately.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"healthy": true,
		"state":   h.statusService.State(),
	})
}
