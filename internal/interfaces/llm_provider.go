package interfaces

import (
	"context"
)

// Message represents a single message in a generation conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// GenerateRequest is a provider-agnostic content generation request
type GenerateRequest struct {
	Messages          []Message
	Model             string
	Temperature       float32
	MaxTokens         int
	SystemInstruction string
}

// GenerateResponse is a provider-agnostic content generation response
type GenerateResponse struct {
	Text     string
	Provider string
	Model    string
}

// TextGenerator defines the interface for AI content generation.
// The provider is selected from the model name in the request.
type TextGenerator interface {
	GenerateContent(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error)

	// CanServe reports whether credentials exist for the provider
	// the given model belongs to.
	CanServe(model string) bool

	Close() error
}

// Embedder converts texts into fixed-length embedding vectors.
// One remote call per invocation; the result maps 1:1 in input order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
	Dimension() int
}
