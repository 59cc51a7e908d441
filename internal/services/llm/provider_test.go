package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/iuris/internal/interfaces"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		model    string
		expected ProviderType
	}{
		{"claude-haiku-3-5-20241022", ProviderClaude},
		{"claude/claude-haiku-3-5-20241022", ProviderClaude},
		{"anthropic/claude-sonnet-4-20250514", ProviderClaude},
		{"gemini-2.0-flash", ProviderGemini},
		{"gemini/gemini-2.0-flash", ProviderGemini},
		{"google/gemini-2.0-flash", ProviderGemini},
		{"CLAUDE-haiku-3-5-20241022", ProviderClaude},
		{"unknown-model", ProviderGemini},
		{"", ProviderGemini},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectProvider(tt.model))
		})
	}
}

func TestNormalizeModel(t *testing.T) {
	tests := []struct {
		model    string
		expected string
	}{
		{"claude/claude-haiku-3-5-20241022", "claude-haiku-3-5-20241022"},
		{"gemini/gemini-2.0-flash", "gemini-2.0-flash"},
		{"anthropic/claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
		{"claude-haiku-3-5-20241022", "claude-haiku-3-5-20241022"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeModel(tt.model))
		})
	}
}

func TestConvertMessagesToGemini(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "You are a legal assistant."},
		{Role: "user", Content: "Was ist die Bundesverfassung?"},
	}

	contents, system, err := convertMessagesToGemini(messages)
	require.NoError(t, err)
	assert.Equal(t, "You are a legal assistant.", system)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
}

func TestConvertMessagesToGeminiRequiresUserMessage(t *testing.T) {
	_, _, err := convertMessagesToGemini([]interfaces.Message{
		{Role: "system", Content: "only system"},
	})
	assert.Error(t, err)

	_, _, err = convertMessagesToGemini(nil)
	assert.Error(t, err)
}

func TestConvertMessagesToClaude(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "system prompt"},
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "answer"},
		{Role: "user", Content: "follow-up"},
	}

	claudeMessages, system, err := convertMessagesToClaude(messages)
	require.NoError(t, err)
	assert.Equal(t, "system prompt", system)
	assert.Len(t, claudeMessages, 3)
}
