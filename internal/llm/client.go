package llm

import (
	"context"
)

// LLMClient is the single-prompt completion surface the extraction, dedupe
// and summary steps run on. Providers are interchangeable behind it.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderClient turns text into a vector for entity name embeddings. A nil
// embedder means embeddings are skipped, not an error.
type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RerankerClient reorders search hits by relevance to the query; the result
// is a permutation of document indices.
type RerankerClient interface {
	Rank(ctx context.Context, query string, documents []string) ([]int, error)
}
