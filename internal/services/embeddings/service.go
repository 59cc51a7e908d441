// -----------------------------------------------------------------------
// Embedding Service - Batched embedding generation with request pacing
// -----------------------------------------------------------------------

package embeddings

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/interfaces"
	"github.com/ternarybob/iuris/internal/models"
	"golang.org/x/time/rate"
)

// Service batches texts and paces remote embedding calls. A failed batch
// is logged and skipped, never retried; its texts come back as nil vectors
// so callers can count omissions.
type Service struct {
	embedder  interfaces.Embedder
	batchSize int
	limiter   *rate.Limiter
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates an embedding service with the given batch size and
// pacing interval between remote calls.
func NewService(embedder interfaces.Embedder, batchSize int, limiter *rate.Limiter, logger arbor.ILogger) *Service {
	if batchSize <= 0 {
		batchSize = 10
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Service{
		embedder:  embedder,
		batchSize: batchSize,
		limiter:   limiter,
		logger:    logger,
	}
}

// EmbedTexts embeds texts in input order. The returned slice always has
// len(texts) entries; entries belonging to a failed batch are nil and the
// second return value counts them.
func (s *Service) EmbedTexts(ctx context.Context, texts []string) ([][]float32, int, error) {
	vectors := make([][]float32, len(texts))
	omitted := 0

	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("embedding pacing interrupted: %w", err)
		}

		batchVectors, err := s.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			// Batch failures are not retried; the texts are dropped and
			// the omission surfaces in the ingestion report.
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			s.logger.Warn().
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Err(err).
				Msg("Embedding batch failed, omitting texts")
			omitted += len(batch)
			continue
		}

		copy(vectors[start:end], batchVectors)
	}

	return vectors, omitted, nil
}

// EmbedChunks populates Embedding on each chunk, skipping chunks whose
// batch failed. Returns the embedded and omitted counts.
func (s *Service) EmbedChunks(ctx context.Context, chunks []*models.Chunk) (int, int, error) {
	if len(chunks) == 0 {
		return 0, 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, omitted, err := s.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, 0, err
	}

	embedded := 0
	for i, vector := range vectors {
		if vector == nil {
			continue
		}
		chunks[i].Embedding = vector
		embedded++
	}

	s.logger.Info().
		Int("chunks", len(chunks)).
		Int("embedded", embedded).
		Int("omitted", omitted).
		Str("model", s.embedder.ModelName()).
		Msg("Chunk embedding pass complete")

	return embedded, omitted, nil
}

// EmbedQuery generates an embedding for a single query string. Unlike
// chunk embedding, a failure here is an error: a query without a vector
// cannot be answered.
func (s *Service) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding pacing interrupted: %w", err)
	}

	vectors, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}
	if len(vectors) != 1 || vectors[0] == nil {
		return nil, fmt.Errorf("query embedding returned no vector")
	}

	return vectors[0], nil
}

// ModelName returns the underlying embedding model identifier.
func (s *Service) ModelName() string {
	return s.embedder.ModelName()
}

// Dimension returns the embedding vector length.
func (s *Service) Dimension() int {
	return s.embedder.Dimension()
}
