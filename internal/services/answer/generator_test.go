package answer

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
)

// fakeTextGenerator fails configured models and records the models tried.
type fakeTextGenerator struct {
	failing      map[string]bool
	noCreds      map[string]bool
	modelsCalled []string
	lastRequest  *interfaces.GenerateRequest
}

func (f *fakeTextGenerator) GenerateContent(ctx context.Context, request *interfaces.GenerateRequest) (*interfaces.GenerateResponse, error) {
	f.modelsCalled = append(f.modelsCalled, request.Model)
	f.lastRequest = request
	if f.failing[request.Model] {
		return nil, fmt.Errorf("simulated failure for %s", request.Model)
	}
	return &interfaces.GenerateResponse{
		Text:     "Die Antwort steht in Artikel 1.",
		Provider: "fake",
		Model:    request.Model,
	}, nil
}

func (f *fakeTextGenerator) CanServe(model string) bool {
	return !f.noCreds[model]
}

func (f *fakeTextGenerator) Close() error { return nil }

func testConfig() common.LLMConfig {
	return common.LLMConfig{
		Candidates:  []string{"gemini-2.0-flash", "claude-haiku-3-5-20241022"},
		MaxTokens:   512,
		Temperature: 0.1,
	}
}

func retrievedChunks() []models.ScoredChunk {
	return []models.ScoredChunk{
		{Chunk: models.Chunk{Document: "Bundesverfassung (DE)", Page: 3, Text: "Art. 1 ..."}, Score: 0.9},
		{Chunk: models.Chunk{Document: "Datenschutzgesetz nDSG (DE)", Page: 7, Text: "Art. 5 ..."}, Score: 0.7},
	}
}

func TestGenerateFirstCandidateWins(t *testing.T) {
	fake := &fakeTextGenerator{}
	generator := NewGenerator(fake, testConfig(), arbor.NewLogger())

	answer, err := generator.Generate(context.Background(), "Was ist Art. 1?", retrievedChunks())
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", answer.Model)
	assert.Equal(t, []string{"gemini-2.0-flash"}, fake.modelsCalled)
	assert.NotEmpty(t, answer.Text)
}

func TestGenerateFallsBackOnFailure(t *testing.T) {
	fake := &fakeTextGenerator{failing: map[string]bool{"gemini-2.0-flash": true}}
	generator := NewGenerator(fake, testConfig(), arbor.NewLogger())

	answer, err := generator.Generate(context.Background(), "Frage?", retrievedChunks())
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-3-5-20241022", answer.Model)
	assert.Equal(t, []string{"gemini-2.0-flash", "claude-haiku-3-5-20241022"}, fake.modelsCalled)
}

func TestGenerateAllCandidatesFail(t *testing.T) {
	fake := &fakeTextGenerator{failing: map[string]bool{
		"gemini-2.0-flash":          true,
		"claude-haiku-3-5-20241022": true,
	}}
	generator := NewGenerator(fake, testConfig(), arbor.NewLogger())

	_, err := generator.Generate(context.Background(), "Frage?", retrievedChunks())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all candidate models failed")
}

func TestGenerateSkipsCandidateWithoutCredentials(t *testing.T) {
	fake := &fakeTextGenerator{noCreds: map[string]bool{"gemini-2.0-flash": true}}
	generator := NewGenerator(fake, testConfig(), arbor.NewLogger())

	answer, err := generator.Generate(context.Background(), "Frage?", retrievedChunks())
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-3-5-20241022", answer.Model)
	assert.Equal(t, []string{"claude-haiku-3-5-20241022"}, fake.modelsCalled)
}

func TestGenerateRequiresContext(t *testing.T) {
	fake := &fakeTextGenerator{}
	generator := NewGenerator(fake, testConfig(), arbor.NewLogger())

	_, err := generator.Generate(context.Background(), "Frage?", nil)
	assert.Error(t, err)
	assert.Empty(t, fake.modelsCalled)
}

func TestPromptContainsNumberedContext(t *testing.T) {
	fake := &fakeTextGenerator{}
	generator := NewGenerator(fake, testConfig(), arbor.NewLogger())

	_, err := generator.Generate(context.Background(), "Was ist Art. 1?", retrievedChunks())
	require.NoError(t, err)
	require.NotNil(t, fake.lastRequest)

	require.Len(t, fake.lastRequest.Messages, 2)
	assert.Equal(t, "system", fake.lastRequest.Messages[0].Role)

	userPrompt := fake.lastRequest.Messages[1].Content
	assert.Contains(t, userPrompt, "[1] Bundesverfassung (DE) (Seite/Page 3):")
	assert.Contains(t, userPrompt, "[2] Datenschutzgesetz nDSG (DE) (Seite/Page 7):")
	assert.Contains(t, userPrompt, "Frage: Was ist Art. 1?")
	assert.True(t, strings.HasPrefix(userPrompt, "Kontext aus Schweizer Dokumenten:"))
}
