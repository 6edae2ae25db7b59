package domain

import "context"

// EmbeddingResult carries the vector plus token usage from the provider.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Extractor asks the provider's language-model capability to turn a prompt
// into raw text. Callers own the structural parsing of the reply.
type Extractor interface {
	Extract(ctx context.Context, system, prompt string) (string, error)
}

// HealthChecker is implemented by providers that can probe their backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
