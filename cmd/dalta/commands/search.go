// ABOUTME: CLI command for semantic search over a message transcript
// ABOUTME: Embeds transcript messages into a fresh index and ranks them against the query
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dalta-ai/dalta/internal/config"
	"github.com/dalta-ai/dalta/internal/core"
	"github.com/dalta-ai/dalta/internal/llm"
	"github.com/dalta-ai/dalta/internal/storage"
	"github.com/joho/godotenv"
)

var (
	searchLimit      int
	searchTranscript string
)

// transcriptMessage is one entry in a transcript file
type transcriptMessage struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Content        string `json:"content"`
}

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a transcript semantically",
		Long: `Search messages by semantic similarity.

Loads a JSON transcript of messages, embeds each into an in-memory
similarity index, and ranks them against the query. Without an OpenAI
key the deterministic fallback embedding is used for both sides, so the
command works offline.

The transcript is a JSON array of objects with conversation_id,
message_id, and content fields.

Examples:
  dalta search --transcript chat.json "database migrations"
  dalta search --transcript chat.json --limit 3 --format json "deploys"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results to return")
	cmd.Flags().StringVar(&searchTranscript, "transcript", "", "Path to JSON transcript file (required)")
	_ = cmd.MarkFlagRequired("transcript")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	messages, err := loadTranscript(searchTranscript)
	if err != nil {
		return fmt.Errorf("loading transcript: %w", err)
	}

	client := llm.NewClientWithConfig(llm.ConfigFrom(cfg))
	index := storage.NewSimilarityIndex()

	ctx := context.Background()
	for _, msg := range messages {
		embedding, err := client.Embed(ctx, msg.Content)
		if err != nil {
			return fmt.Errorf("embedding transcript message %s: %w", msg.MessageID, err)
		}
		index.Store(msg.ConversationID, msg.MessageID, msg.Content, embedding)
	}

	searcher := core.NewSearcher(client, index, cfg.SearchMinScore)
	results, err := searcher.Search(ctx, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("searching transcript: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No messages found for query: %s\n", args[0])
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tCONVERSATION\tMESSAGE\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t------------\t-------\t-------\n")
	for _, result := range results {
		fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\n",
			result.Similarity,
			result.ConversationID,
			result.MessageID,
			truncate(result.Content, 60))
	}
	return w.Flush()
}

// loadTranscript reads and parses a transcript file
func loadTranscript(path string) ([]transcriptMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var messages []transcriptMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return messages, nil
}
