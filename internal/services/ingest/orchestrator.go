// -----------------------------------------------------------------------
// Ingestion Orchestrator - Download, parse, chunk and embed the corpus
// -----------------------------------------------------------------------

package ingest

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/common"
	"github.com/ternarybob/iuris/internal/interfaces"
	"github.com/ternarybob/iuris/internal/models"
	"github.com/ternarybob/iuris/internal/services/documents"
	"github.com/ternarybob/iuris/internal/services/ranking"
	"github.com/ternarybob/iuris/internal/services/status"
)

// Orchestrator runs the startup ingestion pipeline. A document that fails
// to download or parse is dropped from the corpus; the run only fails as
// a whole when no document survives.
type Orchestrator struct {
	documents []common.DocumentConfig
	fetcher   interfaces.Fetcher
	extractor interfaces.PDFExtractor
	chunker   *documents.Chunker
	embedding interfaces.EmbeddingService
	status    *status.Service
	logger    arbor.ILogger
}

// NewOrchestrator wires the ingestion pipeline.
func NewOrchestrator(
	docs []common.DocumentConfig,
	fetcher interfaces.Fetcher,
	extractor interfaces.PDFExtractor,
	chunker *documents.Chunker,
	embedding interfaces.EmbeddingService,
	statusService *status.Service,
	logger arbor.ILogger,
) *Orchestrator {
	return &Orchestrator{
		documents: docs,
		fetcher:   fetcher,
		extractor: extractor,
		chunker:   chunker,
		embedding: embedding,
		status:    statusService,
		logger:    logger,
	}
}

// docResult carries one document's chunks through the embedding pass.
type docResult struct {
	report models.DocumentReport
	chunks []models.Chunk
	failed bool
}

// Run executes the full pipeline and returns the searchable store.
// The returned error is non-nil only when the corpus is empty afterwards.
func (o *Orchestrator) Run(ctx context.Context) (*ranking.Store, error) {
	results := make([]*docResult, 0, len(o.documents))
	allChunks := make([]models.Chunk, 0)

	for _, docCfg := range o.documents {
		result := o.ingestDocument(ctx, docCfg)
		results = append(results, result)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !result.failed {
			allChunks = append(allChunks, result.chunks...)
		}
	}

	o.status.SetState(status.StateEmbedding, fmt.Sprintf("Embedding %d chunks", len(allChunks)))

	chunkPtrs := make([]*models.Chunk, len(allChunks))
	for i := range allChunks {
		chunkPtrs[i] = &allChunks[i]
	}

	if _, _, err := o.embedding.EmbedChunks(ctx, chunkPtrs); err != nil {
		return nil, err
	}

	// Fold embedding outcomes back into the per-document reports
	embeddedByDoc := make(map[string]int)
	omittedByDoc := make(map[string]int)
	for _, chunk := range allChunks {
		if chunk.Embedded() {
			embeddedByDoc[chunk.Document]++
		} else {
			omittedByDoc[chunk.Document]++
		}
	}

	succeeded := 0
	failed := 0
	for _, result := range results {
		if result.failed {
			failed++
		} else {
			result.report.Embedded = embeddedByDoc[result.report.Name]
			result.report.Omitted = omittedByDoc[result.report.Name]
			succeeded++
		}
		o.status.RecordDocument(result.report)
	}

	store := ranking.NewStore(allChunks, o.embedding.Dimension())

	switch {
	case succeeded == 0 || store.Len() == 0:
		o.status.SetState(status.StateFailed, "No documents could be ingested")
		return nil, fmt.Errorf("ingestion failed: no searchable chunks from %d configured documents", len(o.documents))
	case failed > 0:
		o.status.SetState(status.StateDegraded, fmt.Sprintf("%d of %d documents failed", failed, len(o.documents)))
	default:
		o.status.SetState(status.StateReady, fmt.Sprintf("%d documents ingested", succeeded))
	}

	o.logger.Info().
		Int("documents", succeeded).
		Int("failed", failed).
		Int("chunks", store.Len()).
		Msg("Ingestion complete")

	return store, nil
}

// ingestDocument downloads, parses and chunks one document.
func (o *Orchestrator) ingestDocument(ctx context.Context, docCfg common.DocumentConfig) *docResult {
	result := &docResult{
		report: models.DocumentReport{Name: docCfg.Name, Language: docCfg.Language},
	}

	o.status.SetState(status.StateDownloading, fmt.Sprintf("Downloading %s", docCfg.Name))
	raw, err := o.fetcher.Fetch(ctx, docCfg.URL)
	if err != nil {
		o.logger.Warn().Str("document", docCfg.Name).Err(err).Msg("Document download failed")
		result.report.Error = fmt.Sprintf("download failed: %v", err)
		result.failed = true
		return result
	}

	o.status.SetState(status.StateParsing, fmt.Sprintf("Parsing %s", docCfg.Name))
	pages, err := o.extractor.ExtractPages(ctx, raw)
	if err != nil {
		o.logger.Warn().Str("document", docCfg.Name).Err(err).Msg("Document parse failed")
		result.report.Error = fmt.Sprintf("parse failed: %v", err)
		result.failed = true
		return result
	}

	doc := &models.Document{
		Name:     docCfg.Name,
		Language: docCfg.Language,
		URL:      docCfg.URL,
		Raw:      raw,
	}
	for _, page := range pages {
		doc.Pages = append(doc.Pages, models.Page{Number: page.PageNumber, Text: page.Text})
	}

	o.status.SetState(status.StateChunking, fmt.Sprintf("Chunking %s", docCfg.Name))
	result.chunks = o.chunker.ChunkDocument(doc)
	result.report.Chunks = len(result.chunks)

	if len(result.chunks) == 0 {
		o.logger.Warn().Str("document", docCfg.Name).Msg("Document produced no chunks")
		result.report.Error = "no text content extracted"
		result.failed = true
		return result
	}

	o.logger.Info().
		Str("document", docCfg.Name).
		Int("pages", len(pages)).
		Int("chunks", len(result.chunks)).
		Msg("Document chunked")

	return result
}
