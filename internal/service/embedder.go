package service

import "context"

// EmbeddingClient maps text to fixed-dimension dense vectors in a shared
// semantic space. Embed(text) must produce the same vector as
// EmbedBatch([text])[0]: batching is a performance concern, never a
// semantic one.
//
// Implementations are stateless after construction and safe for
// concurrent use.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
