package domain

import "context"

// EmbeddingResult is a vector plus the provider-reported token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder converts text into a fixed-dimension vector. Dimensionality is
// provider- and model-dependent and must be probed once before a
// collection is created; all vectors of one collection share it.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Generator produces a crash analysis answer from a question and
// retrieved log context, ordered by descending relevance. One blocking
// call, no streaming, no retry.
type Generator interface {
	Generate(ctx context.Context, question string, matches []RetrievedMatch) (string, error)
}

// HealthChecker is implemented by providers that can verify their own
// availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
