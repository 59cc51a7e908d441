package interfaces

import (
	"context"

	"github.com/ternarybob/iuris/internal/models"
)

// QAService answers user questions over the ingested document set.
type QAService interface {
	// Ask embeds the question, retrieves the top-k most similar chunks and
	// forwards them as context to the generation chain. Returns ErrNotReady
	// before ingestion completes and ErrEmptyQuestion for blank input.
	Ask(ctx context.Context, question string) (*models.Answer, error)
}
