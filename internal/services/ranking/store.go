// -----------------------------------------------------------------------
// Chunk Store - In-memory vector store for retrieval
// -----------------------------------------------------------------------

package ranking

import (
	"github.com/ternarybob/iuris/internal/models"
)

// Store holds the embedded chunks for a corpus. It is built once after
// ingestion and never mutated afterwards, so concurrent readers need no
// locking.
type Store struct {
	chunks    []models.Chunk
	dimension int
}

// NewStore builds a store from the given chunks, keeping only those that
// carry an embedding. Relative order of the kept chunks is preserved.
func NewStore(chunks []models.Chunk, dimension int) *Store {
	kept := make([]models.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Embedded() {
			kept = append(kept, chunk)
		}
	}
	return &Store{
		chunks:    kept,
		dimension: dimension,
	}
}

// Len returns the number of searchable chunks.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Dimension returns the embedding dimension the store was built with.
func (s *Store) Dimension() int {
	return s.dimension
}

// Chunks returns the stored chunks in insertion order. The slice is
// shared; callers must not modify it.
func (s *Store) Chunks() []models.Chunk {
	return s.chunks
}
