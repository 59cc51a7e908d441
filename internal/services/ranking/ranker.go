package ranking

import (
	"math"
	"sort"

	"github.com/ternarybob/iuris/internal/models"
)

// TopK scores every chunk in the store against the query vector and
// returns the min(k, store.Len()) best matches by cosine similarity.
// Ties keep insertion order.
func TopK(store *Store, query []float32, k int) []models.ScoredChunk {
	if store == nil || k <= 0 {
		return nil
	}

	chunks := store.Chunks()
	scored := make([]models.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		scored = append(scored, models.ScoredChunk{
			Chunk: chunk,
			Score: CosineSimilarity(query, chunk.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Mismatched lengths or a zero-norm vector score 0, which ranks such
// chunks behind every positively scored one.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
