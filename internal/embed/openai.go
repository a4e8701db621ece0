package embed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/gocorpus/internal/cache"
)

const defaultBatchSize = 64

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint in batches.
// When a cache is configured, texts already embedded under the same model
// are served from disk and only the misses hit the backend.
type OpenAIEmbedder struct {
	Client    Client
	Model     string
	Dim       int
	BatchSize int
	Cache     *cache.EmbedCache
}

// NewOpenAI builds an embedder against baseURL using the given model.
// baseURL may be empty for the default OpenAI endpoint; local servers such
// as LM Studio or llama.cpp expose the same API.
func NewOpenAI(baseURL, apiKey, model string, dim int) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		Client: openai.NewClientWithConfig(cfg),
		Model:  model,
		Dim:    dim,
	}
}

func (e *OpenAIEmbedder) Dimension() int { return e.Dim }

// Embed returns one vector per text, preserving input order. Counts are
// validated against the response so a silently short answer surfaces as an
// error rather than as misaligned vectors.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))

	// Resolve cache hits first; misses keep their original index.
	missIdx := make([]int, 0, len(texts))
	for i, t := range texts {
		if e.Cache != nil {
			if vec, ok := e.Cache.Get(ctx, cache.KeyFrom(e.Model, t)); ok {
				out[i] = vec
				continue
			}
		}
		missIdx = append(missIdx, i)
	}
	if len(missIdx) < len(texts) {
		log.Debug().Int("hits", len(texts)-len(missIdx)).Int("misses", len(missIdx)).Msg("embedding cache")
	}

	batch := e.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	for lo := 0; lo < len(missIdx); lo += batch {
		hi := lo + batch
		if hi > len(missIdx) {
			hi = len(missIdx)
		}
		input := make([]string, 0, hi-lo)
		for _, idx := range missIdx[lo:hi] {
			input = append(input, texts[idx])
		}
		resp, err := e.Client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: input,
			Model: openai.EmbeddingModel(e.Model),
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings: %w", err)
		}
		if len(resp.Data) != len(input) {
			return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(input))
		}
		for k, d := range resp.Data {
			vec := make([]float64, len(d.Embedding))
			for j, v := range d.Embedding {
				vec[j] = float64(v)
			}
			idx := missIdx[lo+k]
			out[idx] = vec
			if e.Dim == 0 {
				e.Dim = len(vec)
			}
			if e.Cache != nil {
				if err := e.Cache.Save(ctx, cache.KeyFrom(e.Model, texts[idx]), vec); err != nil {
					log.Warn().Err(err).Msg("embedding cache save failed")
				}
			}
		}
	}
	return out, nil
}
