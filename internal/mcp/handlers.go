// ABOUTME: MCP tool handler implementations for the Dalta chat server
// ABOUTME: Orchestrates the pipeline, stores, and index behind the tool surface
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/dalta-ai/dalta/internal/core"
	"github.com/dalta-ai/dalta/internal/models"
	"github.com/dalta-ai/dalta/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	conversations *storage.ConversationStore
	index         *storage.SimilarityIndex
	pipeline      *core.Pipeline
	searcher      *core.Searcher
	embedder      core.Embedder
}

// SendMessage handles the send_message tool
func (h *Handlers) SendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	userID := request.GetString("user_id", "demo-user")
	conversationID := request.GetString("conversation_id", "")

	var conv models.Conversation
	if conversationID == "" {
		conv = h.conversations.CreateConversation(userID, "New Chat")
	} else {
		conv, err = h.conversations.GetConversation(conversationID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("conversation not found: %s", conversationID)), nil
		}
	}

	history := h.conversations.Messages(conv.ID)

	result, err := h.pipeline.RunTurn(ctx, message, core.PipelineContext{
		Conversation: conv,
		Messages:     history,
		UserID:       userID,
	})
	if err != nil {
		// Internal cause already logged by the pipeline
		return mcp.NewToolResultError("failed to process message"), nil
	}

	if err := h.conversations.AppendMessage(result.UserMessage); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store user message: %v", err)), nil
	}
	if err := h.conversations.AppendMessage(result.AssistantMessage); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store assistant message: %v", err)), nil
	}

	if result.Title != "" {
		if err := h.conversations.SetTitle(conv.ID, result.Title); err != nil {
			log.Printf("[Server] failed to update conversation title: %v", err)
		}
	}

	// Store embeddings for both turns, best-effort: a failure here must
	// not fail an already-generated response.
	h.storeEmbedding(ctx, result.UserMessage)
	h.storeEmbedding(ctx, result.AssistantMessage)

	response := map[string]interface{}{
		"conversation_id": conv.ID,
		"turn":            result,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// storeEmbedding embeds a message and records it in the similarity index
func (h *Handlers) storeEmbedding(ctx context.Context, msg models.Message) {
	embedding, err := h.embedder.Embed(ctx, msg.Content)
	if err != nil {
		log.Printf("[Server] skipping embedding for message %s: %v", msg.ID, err)
		return
	}
	h.index.Store(msg.ConversationID, msg.ID, msg.Content, embedding)
}

// SemanticSearch handles the semantic_search tool
func (h *Handlers) SemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	limit := request.GetInt("limit", 10)

	results, err := h.searcher.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"results": results,
		"count":   len(results),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListConversations handles the list_conversations tool
func (h *Handlers) ListConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversations := h.conversations.ListConversations()

	response := map[string]interface{}{
		"conversations": conversations,
		"count":         len(conversations),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// DeleteConversation handles the delete_conversation tool
func (h *Handlers) DeleteConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}

	h.conversations.DeleteConversation(conversationID)
	h.index.DeleteConversation(conversationID)

	responseJSON, err := json.Marshal(map[string]interface{}{
		"deleted": conversationID,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// IndexStats handles the index_stats tool
func (h *Handlers) IndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := h.index.Stats()

	responseJSON, err := json.Marshal(stats)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
