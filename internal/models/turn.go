// ABOUTME: Result types produced by the conversation pipeline
// ABOUTME: Defines TurnResult and ConversationAnalysis structures
package models

// TurnResult is the outcome of a single processed conversation turn.
// Topics is nil unless the conversation was long enough to trigger
// topic extraction.
type TurnResult struct {
	UserMessage      Message  `json:"user_message"`
	AssistantMessage Message  `json:"assistant_message"`
	Topics           []string `json:"topics,omitempty"`
	Title            string   `json:"title,omitempty"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

// ConversationAnalysis summarizes a full conversation for batch analysis
type ConversationAnalysis struct {
	Topics       []string `json:"topics"`
	Summary      string   `json:"summary"`
	MessageCount int      `json:"message_count"`
}
