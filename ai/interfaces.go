package ai

import "context"

// Embedder generates vector embeddings from text for semantic search.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in one call.
	// The returned slice preserves input order and length.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Describer analyzes an image with a multimodal model and returns the raw
// model response for the given prompt. Callers own response parsing.
type Describer interface {
	DescribeImage(ctx context.Context, imageData []byte, mimeType, prompt string) (string, error)
}

// Provider aggregates the model services for convenient initialization
// and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Describer returns the multimodal image description service.
	Describer() Describer

	// Close releases resources held by the provider and its services.
	Close() error
}
