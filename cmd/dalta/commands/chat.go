// ABOUTME: CLI command to run a single chat turn
// ABOUTME: Sends one message through the full pipeline and prints the response
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dalta-ai/dalta/internal/config"
	"github.com/dalta-ai/dalta/internal/core"
	"github.com/dalta-ai/dalta/internal/llm"
	"github.com/dalta-ai/dalta/internal/models"
	"github.com/joho/godotenv"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a chat message",
		Long: `Send a single message through the conversation pipeline.

Starts a fresh conversation, generates a response and a title, and
prints both. Requires OPENAI_API_KEY for generation.

Examples:
  dalta chat "explain goroutines"
  dalta chat --format json "what is a channel?"`,
		Args: cobra.ExactArgs(1),
		RunE: runChat,
	}

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	client := llm.NewClientWithConfig(llm.ConfigFrom(cfg))
	retriever := core.NewRetriever(client, cfg.EmbedWorkers)
	pipeline := core.NewPipeline(retriever, client, cfg.ContextTopK)

	conv := models.Conversation{
		ID:        "cli",
		Title:     "New Chat",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	result, err := pipeline.RunTurn(context.Background(), args[0], core.PipelineContext{
		Conversation: conv,
	})
	if err != nil {
		return fmt.Errorf("running chat turn: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.AssistantMessage.Content)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTitle: %s (%dms)\n", result.Title, result.ProcessingTimeMs)
	}
	return nil
}
