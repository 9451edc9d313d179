// ABOUTME: Conversation pipeline orchestrating a single chat turn
// ABOUTME: Retrieves context, generates the reply, and handles topics and titling
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dalta-ai/dalta/internal/models"
	"github.com/google/uuid"
)

// ErrPipeline is the single error kind callers see for any turn failure.
// The underlying cause is logged, never surfaced, so provider error
// payloads stay internal.
var ErrPipeline = errors.New("failed to process conversation")

// Generation parameters for the main chat completion
const (
	responseMaxTokens   = 1000
	responseTemperature = 0.7
	titleMaxTokens      = 20
	topicsMaxTokens     = 100

	// historyWindow is how many raw messages accompany the system prompt
	historyWindow = 10

	// topicThreshold is the pre-turn message count above which topics
	// are extracted
	topicThreshold = 5
)

// Generator produces text completions from an external model
type Generator interface {
	Complete(ctx context.Context, systemPrompt string, history []models.Message, maxTokens int, temperature float32) (string, error)
	CompletePrompt(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// PipelineContext carries the conversation state for one turn.
// Messages is the pre-turn history in chronological order.
type PipelineContext struct {
	Conversation models.Conversation
	Messages     []models.Message
	UserID       string
}

// Pipeline runs a complete conversation turn against the retriever and
// the generation capability. It does not persist: the caller stores the
// returned messages and their embeddings.
type Pipeline struct {
	retriever   *Retriever
	generator   Generator
	contextTopK int
}

// NewPipeline creates a conversation pipeline
func NewPipeline(retriever *Retriever, generator Generator, contextTopK int) *Pipeline {
	if contextTopK <= 0 {
		contextTopK = 5
	}
	return &Pipeline{
		retriever:   retriever,
		generator:   generator,
		contextTopK: contextTopK,
	}
}

// RunTurn processes a user message through the full pipeline. Any
// internal failure is collapsed into ErrPipeline with the cause logged.
func (p *Pipeline) RunTurn(ctx context.Context, userText string, pctx PipelineContext) (*models.TurnResult, error) {
	start := time.Now()

	result, err := p.runTurn(ctx, userText, pctx)
	if err != nil {
		log.Printf("[Pipeline] turn failed: %v", err)
		return nil, ErrPipeline
	}

	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

func (p *Pipeline) runTurn(ctx context.Context, userText string, pctx PipelineContext) (*models.TurnResult, error) {
	userMessage := models.Message{
		ID:             uuid.New().String(),
		ConversationID: pctx.Conversation.ID,
		Role:           models.RoleUser,
		Content:        userText,
		Timestamp:      time.Now(),
	}

	relevant := p.retriever.FindRelevantContext(ctx, userText, pctx.Messages, p.contextTopK)
	systemPrompt := buildSystemPrompt(pctx.Conversation.Title, relevant)

	history := recentMessages(pctx.Messages, historyWindow)
	history = append(history, userMessage)

	content, err := p.generator.Complete(ctx, systemPrompt, history, responseMaxTokens, responseTemperature)
	if err != nil {
		return nil, fmt.Errorf("generating response: %w", err)
	}

	assistantMessage := models.Message{
		ID:             uuid.New().String(),
		ConversationID: pctx.Conversation.ID,
		Role:           models.RoleAssistant,
		Content:        content,
		Timestamp:      time.Now(),
	}

	result := &models.TurnResult{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
	}

	if len(pctx.Messages) > topicThreshold {
		all := make([]models.Message, 0, len(pctx.Messages)+2)
		all = append(all, pctx.Messages...)
		all = append(all, userMessage, assistantMessage)
		result.Topics = p.ExtractTopics(ctx, all)
	}

	if len(pctx.Messages) == 0 {
		result.Title = p.GenerateTitle(ctx, userText)
	}

	return result, nil
}

// GenerateTitle produces a short conversation title from the first user
// message. On any failure it falls back to a timestamp-based default.
func (p *Pipeline) GenerateTitle(ctx context.Context, firstMessage string) string {
	prompt := fmt.Sprintf("Generate a short, concise title (max 5 words) for a conversation that starts with: %q\n\nRespond with only the title, no quotes or explanation.", firstMessage)

	text, err := p.generator.CompletePrompt(ctx, prompt, titleMaxTokens)
	if err != nil {
		log.Printf("[Pipeline] title generation failed: %v", err)
		return defaultTitle(time.Now())
	}

	title := strings.TrimSpace(text)
	if title == "" {
		return defaultTitle(time.Now())
	}
	return title
}

// defaultTitle is the fallback conversation title
func defaultTitle(now time.Time) string {
	return "Chat " + now.Format("1/2/2006")
}

// ExtractTopics pulls key topics from a conversation as a comma-separated
// list. Extraction is best-effort: failures yield an empty list.
func (p *Pipeline) ExtractTopics(ctx context.Context, msgs []models.Message) []string {
	if len(msgs) == 0 {
		return []string{}
	}

	contents := make([]string, len(msgs))
	for i, msg := range msgs {
		contents[i] = msg.Content
	}

	prompt := fmt.Sprintf("Extract 3-5 key topics or themes from this conversation:\n\n%s\n\nRespond with a comma-separated list of topics only.", strings.Join(contents, " "))

	text, err := p.generator.CompletePrompt(ctx, prompt, topicsMaxTokens)
	if err != nil {
		log.Printf("[Pipeline] topic extraction failed: %v", err)
		return []string{}
	}

	topics := []string{}
	for _, topic := range strings.Split(text, ",") {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}

// AnalyzeConversation produces topics and a summary for a whole
// conversation, for batch analysis outside the turn path.
func (p *Pipeline) AnalyzeConversation(ctx context.Context, msgs []models.Message) models.ConversationAnalysis {
	var userCount, assistantCount int
	for _, msg := range msgs {
		switch msg.Role {
		case models.RoleUser:
			userCount++
		case models.RoleAssistant:
			assistantCount++
		}
	}

	return models.ConversationAnalysis{
		Topics:       p.ExtractTopics(ctx, msgs),
		Summary:      fmt.Sprintf("Conversation with %d user messages and %d assistant responses.", userCount, assistantCount),
		MessageCount: len(msgs),
	}
}
