package interfaces

import (
	"context"

	"github.com/ternarybob/iuris/internal/models"
)

// EmbeddingService generates vector embeddings with batching and pacing
// applied on top of a raw Embedder.
type EmbeddingService interface {
	// EmbedTexts embeds texts in input order. The returned slice always has
	// len(texts) entries; entries belonging to a failed batch are nil and the
	// second return value counts them. A batch failure is not retried and is
	// not fatal to the run.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, int, error)

	// EmbedChunks populates Embedding on each chunk, skipping chunks whose
	// batch failed. Returns (embedded, omitted).
	EmbedChunks(ctx context.Context, chunks []*models.Chunk) (int, int, error)

	// EmbedQuery generates an embedding for a search query.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Model information
	ModelName() string
	Dimension() int
}
