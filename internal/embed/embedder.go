// Package embed converts unit text into fixed-length vectors through an
// OpenAI-compatible embeddings endpoint. The core pipeline only sees the
// Embedder interface; any local or remote backend that speaks the same API
// can be adapted.
package embed

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder maps texts to fixed-length vectors. Implementations own their
// transport; retries, if any, happen behind this interface.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// Dimension returns the vector length this embedder produces, or 0 when
	// it is determined by the model on first use.
	Dimension() int
}

// Client is the minimal surface needed from an OpenAI-compatible backend.
// It mirrors the CreateEmbeddings method of *openai.Client so stubs and
// local servers can stand in during tests.
type Client interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}
