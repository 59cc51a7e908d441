// -----------------------------------------------------------------------
// QA Service - Question answering over the ingested corpus
// -----------------------------------------------------------------------

package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/common"
	"github.com/ternarybob/iuris/internal/interfaces"
	"github.com/ternarybob/iuris/internal/models"
	"github.com/ternarybob/iuris/internal/services/answer"
	"github.com/ternarybob/iuris/internal/services/ranking"
	"github.com/ternarybob/iuris/internal/services/status"
)

// EmptyQuestionMessage is the user-facing response to a blank question.
const EmptyQuestionMessage = "Please enter a question."

var (
	// ErrNotReady means the corpus has not finished ingesting, or failed.
	ErrNotReady = errors.New("corpus is not ready for questions")
	// ErrEmptyQuestion means the question was blank. Rejected before any
	// remote call is made.
	ErrEmptyQuestion = errors.New("empty question")
)

// Service answers questions by embedding them, retrieving the closest
// chunks and generating a grounded answer.
type Service struct {
	embedding interfaces.EmbeddingService
	generator *answer.Generator
	status    *status.Service
	topK      int
	snippet   int
	logger    arbor.ILogger

	mu    sync.RWMutex
	store *ranking.Store
}

// Compile-time interface assertion
var _ interfaces.QAService = (*Service)(nil)

// NewService creates a QA service. The store arrives later via SetStore,
// once ingestion completes.
func NewService(
	embedding interfaces.EmbeddingService,
	generator *answer.Generator,
	statusService *status.Service,
	cfg common.RetrievalConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		embedding: embedding,
		generator: generator,
		status:    statusService,
		topK:      cfg.TopK,
		snippet:   cfg.SnippetLength,
		logger:    logger,
	}
}

// SetStore installs the searchable corpus. Called once by the ingestion
// goroutine when the pipeline reaches a queryable state.
func (s *Service) SetStore(store *ranking.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
}

func (s *Service) getStore() *ranking.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Ask answers a question against the corpus.
func (s *Service) Ask(ctx context.Context, question string) (*models.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	store := s.getStore()
	if !s.status.Queryable() || store == nil {
		return nil, ErrNotReady
	}

	queryVector, err := s.embedding.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("could not embed question: %w", err)
	}

	retrieved := ranking.TopK(store, queryVector, s.topK)
	if len(retrieved) == 0 {
		return nil, fmt.Errorf("could not retrieve relevant context")
	}

	result, err := s.generator.Generate(ctx, question, retrieved)
	if err != nil {
		return nil, err
	}

	result.Sources = s.buildSources(retrieved)

	s.logger.Info().
		Str("model", result.Model).
		Int("sources", len(result.Sources)).
		Msg("Question answered")

	return result, nil
}

// buildSources converts retrieved chunks into provenance entries with
// truncated text snippets.
func (s *Service) buildSources(retrieved []models.ScoredChunk) []models.Source {
	sources := make([]models.Source, 0, len(retrieved))
	for _, scored := range retrieved {
		sources = append(sources, models.Source{
			Document: scored.Document,
			Page:     scored.Page,
			Snippet:  truncateSnippet(scored.Text, s.snippet),
			Score:    scored.Score,
		})
	}
	return sources
}

// truncateSnippet cuts text to max runes, appending an ellipsis when
// anything was dropped.
func truncateSnippet(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
