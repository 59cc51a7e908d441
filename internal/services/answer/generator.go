// -----------------------------------------------------------------------
// Answer Generator - Grounded generation with candidate model fallback
// -----------------------------------------------------------------------

package answer

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/common"
	"github.com/ternarybob/iuris/internal/interfaces"
	"github.com/ternarybob/iuris/internal/models"
)

// Generator produces answers from retrieved context. Candidate models are
// tried in configured order; the first success wins, and only when every
// candidate fails does the caller get an error.
type Generator struct {
	generator   interfaces.TextGenerator
	candidates  []string
	maxTokens   int
	temperature float32
	logger      arbor.ILogger
}

// NewGenerator creates an answer generator from the LLM configuration.
func NewGenerator(textGenerator interfaces.TextGenerator, cfg common.LLMConfig, logger arbor.ILogger) *Generator {
	return &Generator{
		generator:   textGenerator,
		candidates:  cfg.Candidates,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Generate answers the question from the retrieved chunks. The returned
// Answer records which model produced the text.
func (g *Generator) Generate(ctx context.Context, question string, retrieved []models.ScoredChunk) (*models.Answer, error) {
	if len(retrieved) == 0 {
		return nil, fmt.Errorf("no context retrieved for question")
	}

	request := &interfaces.GenerateRequest{
		Messages: []interfaces.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(question, retrieved)},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}

	var lastErr error
	for _, candidate := range g.candidates {
		if !g.generator.CanServe(candidate) {
			g.logger.Warn().
				Str("model", candidate).
				Msg("Skipping candidate model, no credentials for its provider")
			continue
		}

		request.Model = candidate
		response, err := g.generator.GenerateContent(ctx, request)
		if err != nil {
			lastErr = err
			g.logger.Warn().
				Str("model", candidate).
				Err(err).
				Msg("Candidate model failed, trying next")
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		g.logger.Info().
			Str("model", response.Model).
			Str("provider", response.Provider).
			Msg("Answer generated")

		return &models.Answer{
			Text:  response.Text,
			Model: response.Model,
		}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all candidate models failed: %w", lastErr)
	}
	return nil, fmt.Errorf("no usable candidate models configured")
}
