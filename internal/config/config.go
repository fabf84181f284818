// ABOUTME: Centralized configuration for the memory subsystem
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Embedding provider kinds
const (
	ProviderHash   = "hash"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds all configuration for the memory subsystem
type Config struct {
	// Storage
	DataDir   string
	SaveDelay time.Duration

	// Embedding
	EmbedProvider  string
	OpenAIKey      string
	EmbeddingModel string
	OllamaHost     string
	OllamaModel    string
	EmbedTimeout   time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Memory policy
	WorkingMemorySize     int
	PromotionThreshold    float64
	MinRelevance          float64
	ConsolidationInterval time.Duration // 0 runs consolidation inline per store
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:               getEnv("MNEMO_DATA_DIR", defaultDataDir()),
		SaveDelay:             getEnvDuration("MNEMO_SAVE_DELAY", 2*time.Second),
		EmbedProvider:         getEnv("MNEMO_EMBED_PROVIDER", ProviderHash),
		OpenAIKey:             os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:        getEnv("MNEMO_EMBEDDING_MODEL", "text-embedding-3-small"),
		OllamaHost:            getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:           getEnv("MNEMO_OLLAMA_MODEL", "nomic-embed-text"),
		EmbedTimeout:          getEnvDuration("MNEMO_EMBED_TIMEOUT", 30*time.Second),
		MaxRetries:            getEnvInt("MNEMO_MAX_RETRIES", 3),
		RetryDelay:            getEnvDuration("MNEMO_RETRY_DELAY", 2*time.Second),
		WorkingMemorySize:     getEnvInt("MNEMO_WORKING_MEMORY_SIZE", 7),
		PromotionThreshold:    getEnvFloat("MNEMO_PROMOTION_THRESHOLD", 0.7),
		MinRelevance:          getEnvFloat("MNEMO_MIN_RELEVANCE", 0),
		ConsolidationInterval: getEnvDuration("MNEMO_CONSOLIDATION_INTERVAL", 0),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	switch c.EmbedProvider {
	case ProviderHash, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("MNEMO_EMBED_PROVIDER must be one of hash|openai|ollama, got %q", c.EmbedProvider)
	}
	if c.WorkingMemorySize <= 0 {
		return fmt.Errorf("MNEMO_WORKING_MEMORY_SIZE must be positive, got %d", c.WorkingMemorySize)
	}
	if c.PromotionThreshold < 0 || c.PromotionThreshold > 1 {
		return fmt.Errorf("MNEMO_PROMOTION_THRESHOLD must be 0-1, got %f", c.PromotionThreshold)
	}
	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		return fmt.Errorf("MNEMO_MIN_RELEVANCE must be 0-1, got %f", c.MinRelevance)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("MNEMO_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// IndexPath is the directory backing the vector index
func (c *Config) IndexPath() string {
	return filepath.Join(c.DataDir, "index")
}

// StorePath is the persistent store's JSON file
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "memory.json")
}

// defaultDataDir resolves the XDG data directory, respecting
// XDG_DATA_HOME overrides for testing
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "mnemo")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
