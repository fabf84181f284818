// ABOUTME: MCP tool definitions and registration for the memory server
// ABOUTME: Defines JSON schemas for the seven stable consumer seams
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mnemo-ai/mnemo/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, system *core.MemorySystem) *Handlers {
	handlers := &Handlers{system: system}

	// 1. remember - Store content as a new memory
	server.AddTool(mcp.Tool{
		Name:        "remember",
		Description: "Store content as a new memory. The memory is embedded, indexed for semantic search, and tracked in working memory.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Content to remember",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Memory type: code, decision, style, architecture, conversation, episodic, semantic, procedural (default: semantic)",
				},
				"importance": map[string]interface{}{
					"type":        "number",
					"description": "Importance 0-1 influencing promotion and forgetting (default: 0.5)",
				},
				"file": map[string]interface{}{
					"type":        "string",
					"description": "Optional source file used to bias the embedding",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Optional programming language used to bias the embedding",
				},
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Optional project identifier for filtered recall",
				},
			},
			Required: []string{"content"},
		},
	}, handlers.Remember)

	// 2. recall - Retrieve relevant memories
	server.AddTool(mcp.Tool{
		Name:        "recall",
		Description: "Retrieve memories relevant to a query, ranked by decreasing relevance.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 5)",
					"default":     5,
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to one memory type",
				},
				"min_relevance": map[string]interface{}{
					"type":        "number",
					"description": "Discard results below this relevance 0-1 (default: 0)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.Recall)

	// 3. forget - Remove memories by ID
	server.AddTool(mcp.Tool{
		Name:        "forget",
		Description: "Permanently remove memories by ID from the index and all tiers.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Memory IDs to remove",
				},
			},
			Required: []string{"ids"},
		},
	}, handlers.Forget)

	// 4. get_relevant_context - Recall partitioned by memory type
	server.AddTool(mcp.Tool{
		Name:        "get_relevant_context",
		Description: "Retrieve memories relevant to a task, partitioned into code, decisions, styles, architecture, and conversations buckets.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"task": map[string]interface{}{
					"type":        "string",
					"description": "Task description to gather context for",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum total results before partitioning (default: 10)",
					"default":     10,
				},
			},
			Required: []string{"task"},
		},
	}, handlers.GetRelevantContext)

	// 5. find_similar_code - Search code memories by snippet
	server.AddTool(mcp.Tool{
		Name:        "find_similar_code",
		Description: "Find remembered code similar to a snippet.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"snippet": map[string]interface{}{
					"type":        "string",
					"description": "Code snippet to match against",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"snippet"},
		},
	}, handlers.FindSimilarCode)

	// 6. remember_decision - Record a design decision
	server.AddTool(mcp.Tool{
		Name:        "remember_decision",
		Description: "Record an architectural or design decision with its rationale at elevated importance.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"decision": map[string]interface{}{
					"type":        "string",
					"description": "The decision that was made",
				},
				"rationale": map[string]interface{}{
					"type":        "string",
					"description": "Why the decision was made",
				},
			},
			Required: []string{"decision"},
		},
	}, handlers.RememberDecision)

	// 7. search_decisions - Search past decisions
	server.AddTool(mcp.Tool{
		Name:        "search_decisions",
		Description: "Search past design decisions relevant to a query.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchDecisions)

	return handlers
}
