// ABOUTME: Embedding provider selection from configuration
// ABOUTME: Falls back to the deterministic hash provider when a model is unavailable
package embed

import (
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mnemo-ai/mnemo/internal/config"
)

// SelectProvider builds the configured embedding provider. It never
// fails: when a model-backed provider cannot be constructed it logs a
// warning and falls back to the hash provider, which satisfies the
// same contract deterministically.
func SelectProvider(cfg *config.Config) Provider {
	switch cfg.EmbedProvider {
	case config.ProviderOpenAI:
		provider, err := NewOpenAIProvider(OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			Model:      openai.EmbeddingModel(cfg.EmbeddingModel),
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		})
		if err != nil {
			log.Printf("Warning: OpenAI embedder unavailable (%v), falling back to hash provider", err)
			return NewHashProvider()
		}
		return provider

	case config.ProviderOllama:
		provider, err := NewOllamaProvider(cfg.OllamaHost, cfg.OllamaModel, 0)
		if err != nil {
			log.Printf("Warning: Ollama embedder unavailable (%v), falling back to hash provider", err)
			return NewHashProvider()
		}
		return provider

	default:
		return NewHashProvider()
	}
}
