package documents

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/iuris/internal/common"
	"github.com/ternarybob/iuris/internal/models"
)

// Chunker splits document pages into overlapping character windows.
// Window and stride are derived from token budgets using a fixed
// chars-per-token ratio, so the chunks approximate a token window
// without pulling in a tokenizer.
type Chunker struct {
	windowChars int
	strideChars int
}

// NewChunker creates a chunker from the ingest configuration.
func NewChunker(cfg common.IngestConfig) *Chunker {
	return &Chunker{
		windowChars: cfg.WindowChars(),
		strideChars: cfg.StrideChars(),
	}
}

// ChunkDocument produces chunks for every page of the document.
// Chunk indexes are sequential across the whole document, blank
// windows are dropped, and the final partial window is kept.
func (c *Chunker) ChunkDocument(doc *models.Document) []models.Chunk {
	chunks := make([]models.Chunk, 0)
	index := 0

	for _, page := range doc.Pages {
		for _, text := range c.splitPage(page.Text) {
			chunks = append(chunks, models.Chunk{
				ID:       uuid.New().String(),
				Document: doc.Name,
				Page:     page.Number,
				Index:    index,
				Text:     text,
			})
			index++
		}
	}

	return chunks
}

// splitPage slides the window across a single page. Windows are cut on
// rune boundaries so multi-byte characters never get split.
func (c *Chunker) splitPage(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	windows := make([]string, 0)
	for start := 0; start < len(runes); start += c.strideChars {
		end := start + c.windowChars
		if end > len(runes) {
			end = len(runes)
		}

		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			windows = append(windows, window)
		}

		if end == len(runes) {
			break
		}
	}

	return windows
}
