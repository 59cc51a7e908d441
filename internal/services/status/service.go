// -----------------------------------------------------------------------
// Status Service - Tracks ingestion pipeline state and per-document stats
// -----------------------------------------------------------------------

package status

import (
	"sync"
	"time"

	"github.com/ternarybob/iuris/internal/models"
)

// State is the coarse ingestion pipeline state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateDownloading   State = "downloading"
	StateParsing       State = "parsing"
	StateChunking      State = "chunking"
	StateEmbedding     State = "embedding"
	// StateReady means every configured document ingested successfully.
	StateReady State = "ready"
	// StateDegraded means at least one document failed but at least one
	// succeeded; queries run against the partial corpus.
	StateDegraded State = "degraded"
	// StateFailed means no document survived ingestion.
	StateFailed State = "failed"
)

// Terminal reports whether the state is an end state of the pipeline.
func (s State) Terminal() bool {
	return s == StateReady || s == StateDegraded || s == StateFailed
}

// Queryable reports whether questions can be answered in this state.
func (s State) Queryable() bool {
	return s == StateReady || s == StateDegraded
}

// Report is a point-in-time snapshot of the pipeline.
type Report struct {
	State         State                   `json:"state"`
	Message       string                  `json:"message"`
	Documents     []models.DocumentReport `json:"documents"`
	TotalChunks   int                     `json:"total_chunks"`
	TotalEmbedded int                     `json:"total_embedded"`
	TotalOmitted  int                     `json:"total_omitted"`
	StartedAt     time.Time               `json:"started_at,omitempty"`
	CompletedAt   time.Time               `json:"completed_at,omitempty"`
}

// Service tracks pipeline progress. Writers are the ingestion goroutine;
// readers are HTTP handlers and the QA path.
type Service struct {
	mu          sync.RWMutex
	state       State
	message     string
	documents   []models.DocumentReport
	startedAt   time.Time
	completedAt time.Time
}

// NewService creates a status service in the uninitialized state.
func NewService() *Service {
	return &Service{
		state: StateUninitialized,
	}
}

// SetState advances the pipeline state. Terminal states are sticky; once
// reached, further transitions are ignored.
func (s *Service) SetState(state State, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return
	}

	if s.state == StateUninitialized && !state.Terminal() {
		s.startedAt = time.Now()
	}
	if state.Terminal() {
		s.completedAt = time.Now()
	}

	s.state = state
	s.message = message
}

// State returns the current pipeline state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Queryable reports whether the corpus can currently serve questions.
func (s *Service) Queryable() bool {
	return s.State().Queryable()
}

// RecordDocument appends a per-document ingestion result.
func (s *Service) RecordDocument(report models.DocumentReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, report)
}

// Report returns a snapshot of the pipeline. Document slices are copied
// so callers can hold them across state changes.
func (s *Service) Report() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]models.DocumentReport, len(s.documents))
	copy(docs, s.documents)

	report := Report{
		State:       s.state,
		Message:     s.message,
		Documents:   docs,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
	}
	for _, doc := range docs {
		report.TotalChunks += doc.Chunks
		report.TotalEmbedded += doc.Embedded
		report.TotalOmitted += doc.Omitted
	}
	return report
}
