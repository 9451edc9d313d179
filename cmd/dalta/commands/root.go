// ABOUTME: Root CLI command with global flags for the Dalta chat CLI
// ABOUTME: Registers chat, search, and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dalta",
		Short: "Dalta AI chat with semantic retrieval",
		Long: `Dalta is a chat assistant with semantic memory.

Messages are embedded and indexed so past context can be retrieved by
meaning, not keywords. Without an OpenAI key the deterministic local
fallback embedding is used, so search still works offline.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table or json)")

	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}
