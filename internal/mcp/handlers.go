// ABOUTME: MCP tool handler implementations for the memory server
// ABOUTME: Thin adapters from tool arguments to the memory system facade
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mnemo-ai/mnemo/internal/core"
	"github.com/mnemo-ai/mnemo/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	system *core.MemorySystem
}

// Remember handles the remember tool
func (h *Handlers) Remember(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	metadata := map[string]string{}
	if file := request.GetString("file", ""); file != "" {
		metadata["file"] = file
	}
	if language := request.GetString("language", ""); language != "" {
		metadata["language"] = language
	}
	if project := request.GetString("project", ""); project != "" {
		metadata["project"] = project
	}
	if importance := request.GetFloat("importance", 0); importance > 0 {
		metadata["importance"] = strconv.FormatFloat(importance, 'f', -1, 64)
	}

	memType := models.MemoryType(request.GetString("type", string(models.TypeSemantic)))

	id, err := h.system.Remember(ctx, content, memType, metadata)
	if err != nil {
		return toolError("remember failed", err), nil
	}

	return jsonResult(map[string]interface{}{"id": id})
}

// Recall handles the recall tool
func (h *Handlers) Recall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	limit := request.GetInt("limit", 5)
	opts := core.RecallOptions{
		Type:         models.MemoryType(request.GetString("type", "")),
		MinRelevance: request.GetFloat("min_relevance", 0),
	}

	memories, err := h.system.Recall(ctx, query, limit, opts)
	if err != nil {
		return toolError("recall failed", err), nil
	}

	return jsonResult(map[string]interface{}{"memories": memories})
}

// Forget handles the forget tool
func (h *Handlers) Forget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetStringSlice("ids", nil)
	if len(raw) == 0 {
		return mcp.NewToolResultError("ids argument is required and must be a non-empty array of strings"), nil
	}

	if err := h.system.Forget(ctx, raw); err != nil {
		return toolError("forget failed", err), nil
	}

	return jsonResult(map[string]interface{}{"forgotten": len(raw)})
}

// GetRelevantContext handles the get_relevant_context tool
func (h *Handlers) GetRelevantContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError("task argument is required and must be a string"), nil
	}

	limit := request.GetInt("limit", 10)

	bundle, err := h.system.RelevantContext(ctx, task, limit)
	if err != nil {
		return toolError("context retrieval failed", err), nil
	}

	return jsonResult(bundle)
}

// FindSimilarCode handles the find_similar_code tool
func (h *Handlers) FindSimilarCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snippet, err := request.RequireString("snippet")
	if err != nil {
		return mcp.NewToolResultError("snippet argument is required and must be a string"), nil
	}

	limit := request.GetInt("limit", 5)

	memories, err := h.system.FindSimilarCode(ctx, snippet, limit)
	if err != nil {
		return toolError("code search failed", err), nil
	}

	return jsonResult(map[string]interface{}{"memories": memories})
}

// RememberDecision handles the remember_decision tool
func (h *Handlers) RememberDecision(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decision, err := request.RequireString("decision")
	if err != nil {
		return mcp.NewToolResultError("decision argument is required and must be a string"), nil
	}

	rationale := request.GetString("rationale", "")

	id, err := h.system.RememberDecision(ctx, decision, rationale)
	if err != nil {
		return toolError("failed to record decision", err), nil
	}

	return jsonResult(map[string]interface{}{"id": id})
}

// SearchDecisions handles the search_decisions tool
func (h *Handlers) SearchDecisions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	limit := request.GetInt("limit", 5)

	memories, err := h.system.SearchDecisions(ctx, query, limit)
	if err != nil {
		return toolError("decision search failed", err), nil
	}

	return jsonResult(map[string]interface{}{"decisions": memories})
}

// toolError wraps a failure, keeping the not-initialized case distinct
// so callers can tell "not ready" from "no memories"
func toolError(prefix string, err error) *mcp.CallToolResult {
	if errors.Is(err, core.ErrNotInitialized) {
		return mcp.NewToolResultError("memory system not initialized")
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}

// jsonResult marshals a response payload into a text result
func jsonResult(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
