// ABOUTME: MCP tool definitions and registration for the Dalta chat server
// ABOUTME: Defines JSON schemas for the chat, search, and index tools
package mcp

import (
	"github.com/dalta-ai/dalta/internal/core"
	"github.com/dalta-ai/dalta/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, conversations *storage.ConversationStore, index *storage.SimilarityIndex, pipeline *core.Pipeline, searcher *core.Searcher, embedder core.Embedder) *Handlers {
	handlers := &Handlers{
		conversations: conversations,
		index:         index,
		pipeline:      pipeline,
		searcher:      searcher,
		embedder:      embedder,
	}

	// 1. send_message - Run a conversation turn
	server.AddTool(mcp.Tool{
		Name:        "send_message",
		Description: "Send a chat message and get the assistant's response. Creates a new conversation when no conversation_id is given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "User message to send",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to continue; omit to start a new one",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User identifier (default: demo-user)",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.SendMessage)

	// 2. semantic_search - Search stored messages across conversations
	server.AddTool(mcp.Tool{
		Name:        "semantic_search",
		Description: "Search messages across all conversations by semantic similarity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 10)",
					"default":     10,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SemanticSearch)

	// 3. list_conversations - List conversations, most recent first
	server.AddTool(mcp.Tool{
		Name:        "list_conversations",
		Description: "List all conversations with their titles, most recently updated first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListConversations)

	// 4. delete_conversation - Remove a conversation and its embeddings
	server.AddTool(mcp.Tool{
		Name:        "delete_conversation",
		Description: "Delete a conversation, its messages, and its stored embeddings.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to delete",
				},
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.DeleteConversation)

	// 5. index_stats - Similarity index statistics
	server.AddTool(mcp.Tool{
		Name:        "index_stats",
		Description: "Get similarity index statistics: total embeddings and distinct conversations.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.IndexStats)

	return handlers
}
