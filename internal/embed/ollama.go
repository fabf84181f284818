// ABOUTME: Ollama-backed embedding provider for local models
// ABOUTME: Talks to a local Ollama server via its API client
package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"
)

const (
	// DefaultOllamaModel is a commonly available local embedding model
	DefaultOllamaModel = "nomic-embed-text"
	// OllamaDimensions matches the default model's output size
	OllamaDimensions = 768
)

// OllamaProvider generates embeddings via a local Ollama server
type OllamaProvider struct {
	client     *ollama.Client
	model      string
	dimensions int
}

// NewOllamaProvider creates a provider talking to the given host.
// An empty host defaults to the standard local Ollama address.
func NewOllamaProvider(host, model string, dimensions int) (*OllamaProvider, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if dimensions <= 0 {
		dimensions = OllamaDimensions
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &OllamaProvider{
		client:     ollama.NewClient(u, httpClient),
		model:      model,
		dimensions: dimensions,
	}, nil
}

// Embed generates an embedding for a single text
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := p.client.Embed(ctx, &ollama.EmbedRequest{
		Model: p.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if res == nil || len(res.Embeddings) == 0 || len(res.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama embed: empty response")
	}

	vec := res.Embeddings[0]
	if len(vec) != p.dimensions {
		return nil, fmt.Errorf("ollama embed: model returned %d dims, expected %d", len(vec), p.dimensions)
	}
	return vec, nil
}

// Dimensions returns the embedding size
func (p *OllamaProvider) Dimensions() int {
	return p.dimensions
}
