// Package embedding turns text into vectors for semantic retrieval.
package embedding

import (
	"context"
	"errors"
	"os"
)

// Embedder converts text into fixed-dimension vectors. Implementations
// must preserve input order in EmbedBatch and must not retry internally;
// callers decide how to handle transient failures.
type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order. Inputs
	// larger than the provider's batch limit are split into sequential
	// requests. A failure in any sub-batch fails the whole call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the vector width this embedder produces.
	Dimensions() int
}

// ErrEmbeddingUnavailable reports that the embedding backend could not
// be reached or refused the request.
var ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")

// maxBatchSize is the largest number of inputs sent in one API request.
const maxBatchSize = 100

// Unavailable is an Embedder with no backend. Every call fails with
// ErrEmbeddingUnavailable, which pushes retrieval onto its fallback
// path.
type Unavailable struct{}

func (Unavailable) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrEmbeddingUnavailable
}

func (Unavailable) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, ErrEmbeddingUnavailable
}

func (Unavailable) Dimensions() int { return 0 }

// Config holds embedder settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ConfigFromEnv reads embedder settings from the environment.
// CAPLEARN_EMBEDDING_MODEL overrides the default model.
func ConfigFromEnv() Config {
	return Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("CAPLEARN_EMBEDDING_MODEL"),
	}
}
