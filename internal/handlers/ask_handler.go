package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/interfaces"
	"github.com/ternarybob/iuris/internal/services/qa"
)

// AskHandler handles question answering HTTP requests
type AskHandler struct {
	qaService interfaces.QAService
	logger    arbor.ILogger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(qaService interfaces.QAService, logger arbor.ILogger) *AskHandler {
	return &AskHandler{
		qaService: qaService,
		logger:    logger,
	}
}

// AskRequest is the POST /api/ask request body
type AskRequest struct {
	Question string `json:"question"`
}

// AskHandler handles POST /api/ask requests
func (h *AskHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode ask request")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	answer, err := h.qaService.Ask(r.Context(), req.Question)
	if err != nil {
		h.writeAskError(w, err)
		return
	}

	sources := make([]map[string]interface{}, 0, len(answer.Sources))
	for _, source := range answer.Sources {
		sources = append(sources, map[string]interface{}{
			"document": source.Document,
			"page":     source.Page,
			"snippet":  source.Snippet,
			"score":    source.Score,
		})
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"answer":  answer.Text,
		"model":   answer.Model,
		"sources": sources,
	})
}

// writeAskError maps QA errors to HTTP responses. Blank questions and a
// not-ready corpus are expected conditions, not server faults.
func (h *AskHandler) writeAskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, qa.ErrEmptyQuestion):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   qa.EmptyQuestionMessage,
		})
	case errors.Is(err, qa.ErrNotReady):
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Documents are still being processed, try again shortly",
		})
	default:
		h.logger.Error().Err(err).Msg("Failed to answer question")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Failed to answer question: " + err.Error(),
		})
	}
}
