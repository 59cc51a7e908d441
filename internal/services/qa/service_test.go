package qa

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
	"github.com/ternarybob/iuris/internal/services/answer"
	"github.com/ternarybob/iuris/internal/services/ranking"
	"github.com/ternarybob/iuris/internal/services/status"
)

type fakeEmbeddingService struct {
	queryVector []float32
	queryCalls  int
	failQuery   bool
}

func (f *fakeEmbeddingService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, int, error) {
	return make([][]float32, len(texts)), 0, nil
}

func (f *fakeEmbeddingService) EmbedChunks(ctx context.Context, chunks []*models.Chunk) (int, int, error) {
	return 0, 0, nil
}

func (f *fakeEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	f.queryCalls++
	if f.failQuery {
		return nil, fmt.Errorf("embedding API unavailable")
	}
	return f.queryVector, nil
}

func (f *fakeEmbeddingService) ModelName() string { return "fake-embedding-001" }
func (f *fakeEmbeddingService) Dimension() int    { return 2 }

type fakeTextGenerator struct {
	calls int
}

func (f *fakeTextGenerator) GenerateContent(ctx context.Context, request *interfaces.GenerateRequest) (*interfaces.GenerateResponse, error) {
	f.calls++
	return &interfaces.GenerateResponse{Text: "Antwort.", Provider: "fake", Model: request.Model}, nil
}

func (f *fakeTextGenerator) CanServe(model string) bool { return true }
func (f *fakeTextGenerator) Close() error               { return nil }

func readyService(t *testing.T, embedding *fakeEmbeddingService, textGen interfaces.TextGenerator) *Service {
	t.Helper()

	logger := arbor.NewLogger()
	generator := answer.NewGenerator(textGen, common.LLMConfig{
		Candidates: []string{"gemini-2.0-flash"},
		MaxTokens:  512,
	}, logger)

	statusService := status.NewService()
	statusService.SetState(status.StateReady, "")

	service := NewService(embedding, generator, statusService, common.RetrievalConfig{
		TopK:          2,
		SnippetLength: 10,
	}, logger)

	service.SetStore(ranking.NewStore([]models.Chunk{
		{ID: "1", Document: "Doc A", Page: 1, Text: "erster relevanter Abschnitt", Embedding: []float32{1, 0}},
		{ID: "2", Document: "Doc B", Page: 2, Text: "zweiter Abschnitt", Embedding: []float32{0, 1}},
		{ID: "3", Document: "Doc A", Page: 3, Text: "dritter Abschnitt", Embedding: []float32{1, 1}},
	}, 2))

	return service
}

func TestAskEmptyQuestionRejectedBeforeRemoteCalls(t *testing.T) {
	embedding := &fakeEmbeddingService{queryVector: []float32{1, 0}}
	textGen := &fakeTextGenerator{}
	service := readyService(t, embedding, textGen)

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := service.Ask(context.Background(), question)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	}
	assert.Zero(t, embedding.queryCalls)
	assert.Zero(t, textGen.calls)
}

func TestAskNotReady(t *testing.T) {
	embedding := &fakeEmbeddingService{queryVector: []float32{1, 0}}
	logger := arbor.NewLogger()
	generator := answer.NewGenerator(&fakeTextGenerator{}, common.LLMConfig{Candidates: []string{"gemini-2.0-flash"}}, logger)

	statusService := status.NewService()
	statusService.SetState(status.StateEmbedding, "still embedding")

	service := NewService(embedding, generator, statusService, common.RetrievalConfig{TopK: 2, SnippetLength: 300}, logger)

	_, err := service.Ask(context.Background(), "Frage?")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Zero(t, embedding.queryCalls)
}

func TestAskReturnsAnswerWithSources(t *testing.T) {
	embedding := &fakeEmbeddingService{queryVector: []float32{1, 0}}
	service := readyService(t, embedding, &fakeTextGenerator{})

	result, err := service.Ask(context.Background(), "Was steht in Doc A?")
	require.NoError(t, err)

	assert.Equal(t, "Antwort.", result.Text)
	assert.Equal(t, "gemini-2.0-flash", result.Model)
	// top_k of 2 over a 3-chunk store
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "Doc A", result.Sources[0].Document)
	assert.Greater(t, result.Sources[0].Score, result.Sources[1].Score)
}

func TestAskSnippetsAreTruncated(t *testing.T) {
	embedding := &fakeEmbeddingService{queryVector: []float32{1, 0}}
	service := readyService(t, embedding, &fakeTextGenerator{})

	result, err := service.Ask(context.Background(), "Frage?")
	require.NoError(t, err)

	for _, source := range result.Sources {
		assert.LessOrEqual(t, len([]rune(strings.TrimSuffix(source.Snippet, "..."))), 10)
	}
	assert.True(t, strings.HasSuffix(result.Sources[0].Snippet, "..."))
}

func TestAskEmbeddingFailureSurfaces(t *testing.T) {
	embedding := &fakeEmbeddingService{failQuery: true}
	service := readyService(t, embedding, &fakeTextGenerator{})

	_, err := service.Ask(context.Background(), "Frage?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not embed question")
}

func TestTruncateSnippet(t *testing.T) {
	assert.Equal(t, "short", truncateSnippet("short", 10))
	assert.Equal(t, "äöüäö...", truncateSnippet("äöüäöüäöüä", 5))
	assert.Equal(t, "unbounded", truncateSnippet("unbounded", 0))
}
