// ABOUTME: Main entry point for the memory MCP server with stdio transport
// ABOUTME: Wires config, embedder, vector index, and memory system
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mnemo-ai/mnemo/internal/config"
	"github.com/mnemo-ai/mnemo/internal/core"
	"github.com/mnemo-ai/mnemo/internal/embed"
	"github.com/mnemo-ai/mnemo/internal/index"
	"github.com/mnemo-ai/mnemo/internal/mcp"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.EmbedProvider == config.ProviderOpenAI && cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - falling back to the hash embedder")
	}

	embedder := embed.NewServiceWithTimeout(embed.SelectProvider(cfg), cfg.EmbedTimeout)

	idx, err := index.NewChromemIndex(cfg.IndexPath())
	if err != nil {
		log.Fatalf("Failed to open vector index: %v", err)
	}

	system := core.NewMemorySystem(core.SystemOptions{
		Embedder:           embedder,
		Index:              idx,
		WorkingCapacity:    cfg.WorkingMemorySize,
		PromotionThreshold: cfg.PromotionThreshold,
		SweepInterval:      cfg.ConsolidationInterval,
		MinRelevance:       cfg.MinRelevance,
	})
	if err := system.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize memory system: %v", err)
	}
	defer system.Close()

	server := mcpserver.NewMCPServer(
		"Mnemo Memory System",
		"0.1.0",
	)
	mcp.RegisterTools(server, system)

	log.Println("Mnemo MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
