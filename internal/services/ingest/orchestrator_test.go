package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/common"
	"github.com/ternarybob/iuris/internal/interfaces"
	"github.com/ternarybob/iuris/internal/models"
	"github.com/ternarybob/iuris/internal/services/documents"
	"github.com/ternarybob/iuris/internal/services/status"
)

type fakeFetcher struct {
	failURLs map[string]bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.failURLs[url] {
		return nil, fmt.Errorf("connection refused")
	}
	return []byte("pdf-bytes-for-" + url), nil
}

type fakeExtractor struct {
	failDocs map[string]bool
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, content []byte) ([]interfaces.PDFPageContent, error) {
	if f.failDocs[string(content)] {
		return nil, fmt.Errorf("corrupt PDF")
	}
	return []interfaces.PDFPageContent{
		{PageNumber: 1, Text: strings.Repeat("Art. 1 Inhalt. ", 10)},
		{PageNumber: 2, Text: strings.Repeat("Art. 2 Inhalt. ", 10)},
	}, nil
}

func (f *fakeExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	pages, err := f.ExtractPages(ctx, content)
	if err != nil {
		return "", err
	}
	return pages[0].Text + pages[1].Text, nil
}

type fakeEmbeddingService struct {
	dimension int
	omitAll   bool
}

func (f *fakeEmbeddingService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, int, error) {
	vectors := make([][]float32, len(texts))
	if f.omitAll {
		return vectors, len(texts), nil
	}
	for i := range texts {
		vectors[i] = make([]float32, f.dimension)
		vectors[i][0] = 1
	}
	return vectors, 0, nil
}

func (f *fakeEmbeddingService) EmbedChunks(ctx context.Context, chunks []*models.Chunk) (int, int, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, omitted, err := f.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, 0, err
	}
	embedded := 0
	for i, v := range vectors {
		if v != nil {
			chunks[i].Embedding = v
			embedded++
		}
	}
	return embedded, omitted, nil
}

func (f *fakeEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vec := make([]float32, f.dimension)
	vec[0] = 1
	return vec, nil
}

func (f *fakeEmbeddingService) ModelName() string { return "fake-embedding-001" }
func (f *fakeEmbeddingService) Dimension() int    { return f.dimension }

func testDocuments() []common.DocumentConfig {
	return []common.DocumentConfig{
		{Name: "Doc A", Language: "de", URL: "https://example.org/a.pdf"},
		{Name: "Doc B", Language: "fr", URL: "https://example.org/b.pdf"},
	}
}

func newOrchestrator(fetcher *fakeFetcher, extractor *fakeExtractor, embedding *fakeEmbeddingService, statusService *status.Service) *Orchestrator {
	chunker := documents.NewChunker(common.IngestConfig{
		ChunkSizeTokens:    20,
		ChunkOverlapTokens: 5,
		CharsPerToken:      4,
	})
	return NewOrchestrator(testDocuments(), fetcher, extractor, chunker, embedding, statusService, arbor.NewLogger())
}

func TestRunAllDocumentsReady(t *testing.T) {
	statusService := status.NewService()
	orchestrator := newOrchestrator(
		&fakeFetcher{},
		&fakeExtractor{},
		&fakeEmbeddingService{dimension: 4},
		statusService,
	)

	store, err := orchestrator.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, store)

	assert.Greater(t, store.Len(), 0)
	assert.Equal(t, status.StateReady, statusService.State())

	report := statusService.Report()
	require.Len(t, report.Documents, 2)
	assert.Equal(t, report.TotalChunks, report.TotalEmbedded)
	assert.Zero(t, report.TotalOmitted)
}

func TestRunOneDocumentFailsDegraded(t *testing.T) {
	statusService := status.NewService()
	orchestrator := newOrchestrator(
		&fakeFetcher{failURLs: map[string]bool{"https://example.org/b.pdf": true}},
		&fakeExtractor{},
		&fakeEmbeddingService{dimension: 4},
		statusService,
	)

	store, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, status.StateDegraded, statusService.State())
	assert.Greater(t, store.Len(), 0)

	report := statusService.Report()
	require.Len(t, report.Documents, 2)
	assert.Empty(t, report.Documents[0].Error)
	assert.Contains(t, report.Documents[1].Error, "download failed")
	assert.Zero(t, report.Documents[1].Chunks)
}

func TestRunParseFailureDegraded(t *testing.T) {
	statusService := status.NewService()
	orchestrator := newOrchestrator(
		&fakeFetcher{},
		&fakeExtractor{failDocs: map[string]bool{"pdf-bytes-for-https://example.org/a.pdf": true}},
		&fakeEmbeddingService{dimension: 4},
		statusService,
	)

	_, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, status.StateDegraded, statusService.State())
	report := statusService.Report()
	assert.Contains(t, report.Documents[0].Error, "parse failed")
}

func TestRunAllDocumentsFail(t *testing.T) {
	statusService := status.NewService()
	orchestrator := newOrchestrator(
		&fakeFetcher{failURLs: map[string]bool{
			"https://example.org/a.pdf": true,
			"https://example.org/b.pdf": true,
		}},
		&fakeExtractor{},
		&fakeEmbeddingService{dimension: 4},
		statusService,
	)

	store, err := orchestrator.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Equal(t, status.StateFailed, statusService.State())
}

func TestRunAllEmbeddingsOmittedFails(t *testing.T) {
	statusService := status.NewService()
	orchestrator := newOrchestrator(
		&fakeFetcher{},
		&fakeExtractor{},
		&fakeEmbeddingService{dimension: 4, omitAll: true},
		statusService,
	)

	store, err := orchestrator.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Equal(t, status.StateFailed, statusService.State())

	report := statusService.Report()
	assert.Equal(t, report.TotalChunks, report.TotalOmitted)
}

func TestRunCancelledContext(t *testing.T) {
	statusService := status.NewService()
	orchestrator := newOrchestrator(
		&fakeFetcher{},
		&fakeExtractor{},
		&fakeEmbeddingService{dimension: 4},
		statusService,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orchestrator.Run(ctx)
	assert.Error(t, err)
}
