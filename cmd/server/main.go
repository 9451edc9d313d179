// ABOUTME: Main entry point for the Dalta chat MCP server with stdio transport
// ABOUTME: Wires the similarity index, conversation store, and pipeline into MCP tools
package main

import (
	"log"
	"os"

	"github.com/dalta-ai/dalta/internal/config"
	"github.com/dalta-ai/dalta/internal/core"
	"github.com/dalta-ai/dalta/internal/llm"
	"github.com/dalta-ai/dalta/internal/mcp"
	"github.com/dalta-ai/dalta/internal/storage"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
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

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings use the local fallback and generation will fail")
	}

	client := llm.NewClientWithConfig(llm.ConfigFrom(cfg))

	index := storage.NewSimilarityIndex()
	conversations := storage.NewConversationStore()

	retriever := core.NewRetriever(client, cfg.EmbedWorkers)
	pipeline := core.NewPipeline(retriever, client, cfg.ContextTopK)
	searcher := core.NewSearcher(client, index, cfg.SearchMinScore)

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Dalta Chat",
		"0.1.0",
	)

	mcp.RegisterTools(server, conversations, index, pipeline, searcher, client)

	// Start server with stdio transport
	log.Println("Dalta chat MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
