// ABOUTME: System prompt assembly for the conversation pipeline
// ABOUTME: Combines the assistant persona, conversation title, and relevant history
package core

import (
	"fmt"
	"strings"

	"github.com/dalta-ai/dalta/internal/models"
)

// buildSystemPrompt renders the assistant persona with the conversation
// title and the retrieved relevant history as alternating speaker lines.
func buildSystemPrompt(title string, relevantHistory []models.Message) string {
	var lines []string
	for _, msg := range relevantHistory {
		speaker := "Assistant"
		if msg.Role == models.RoleUser {
			speaker = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, msg.Content))
	}

	history := strings.Join(lines, "\n")
	if history == "" {
		history = "No previous messages in this conversation."
	}

	return fmt.Sprintf(`You are Dalta AI, an intelligent and helpful chat assistant. You have access to the conversation history and should use it to provide contextual, coherent responses.

Conversation Title: %s

Relevant Conversation History:
%s

Guidelines:
- Be helpful, harmless, and honest
- Provide clear and concise responses
- Use the conversation history to maintain context
- Ask clarifying questions if needed
- Acknowledge when you don't know something`, title, history)
}
