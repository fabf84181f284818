// ABOUTME: OpenAI-backed embedding provider with retry logic
// ABOUTME: Uses text-embedding-3-small truncated to 384 dimensions
package embed

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mnemo-ai/mnemo/internal/util"
)

const (
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// ModelDimensions is the vector size requested from the embedding model
	ModelDimensions = 384
)

// OpenAIConfig holds configuration for the OpenAI provider
type OpenAIConfig struct {
	APIKey     string
	Model      openai.EmbeddingModel
	MaxRetries int
	RetryDelay time.Duration
}

// OpenAIProvider generates embeddings via the OpenAI API.
// Requires a valid API key before use; arbitrary latency applies.
type OpenAIProvider struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIProvider creates a provider with the given configuration
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}

	return &OpenAIProvider{
		client:     openai.NewClient(cfg.APIKey),
		model:      model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// Embed generates an embedding with exponential-backoff retries
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(p.retryDelay, attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input:      []string{text},
			Model:      p.model,
			Dimensions: ModelDimensions,
		})
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		return resp.Data[0].Embedding, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", p.maxRetries+1, lastErr)
}

// Dimensions returns the embedding size
func (p *OpenAIProvider) Dimensions() int {
	return ModelDimensions
}
