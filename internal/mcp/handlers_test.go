// ABOUTME: Tests for MCP tool handlers
// ABOUTME: Exercises the chat turn, search, delete, and stats tools with fake models
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dalta-ai/dalta/internal/core"
	"github.com/dalta-ai/dalta/internal/models"
	"github.com/dalta-ai/dalta/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	// Tiny deterministic vector so search ranking is observable
	v := make([]float64, 4)
	for i, r := range text {
		v[i%4] += float64(r)
	}
	return v, nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Complete(ctx context.Context, systemPrompt string, history []models.Message, maxTokens int, temperature float32) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) CompletePrompt(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(prompt, "title") {
		return "Test Title", nil
	}
	return "topic one, topic two", nil
}

func newTestHandlers(gen core.Generator) *Handlers {
	emb := fakeEmbedder{}
	index := storage.NewSimilarityIndex()
	conversations := storage.NewConversationStore()
	retriever := core.NewRetriever(emb, 2)
	pipeline := core.NewPipeline(retriever, gen, 5)
	searcher := core.NewSearcher(emb, index, -1)

	return &Handlers{
		conversations: conversations,
		index:         index,
		pipeline:      pipeline,
		searcher:      searcher,
		embedder:      emb,
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textPayload(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("expected tool result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("parsing payload: %v", err)
	}
	return payload
}

func TestSendMessage_NewConversation(t *testing.T) {
	h := newTestHandlers(&fakeGenerator{reply: "hello there"})

	result, err := h.SendMessage(context.Background(), callRequest(map[string]interface{}{
		"message": "hi",
	}))
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result)
	}

	payload := textPayload(t, result)
	convID, _ := payload["conversation_id"].(string)
	if convID == "" {
		t.Fatal("expected a conversation_id in the response")
	}

	// Both turn messages were persisted
	msgs := h.conversations.Messages(convID)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[1].Role != models.RoleAssistant {
		t.Error("messages stored in wrong order or with wrong roles")
	}

	// First turn sets the generated title
	conv, err := h.conversations.GetConversation(convID)
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if conv.Title != "Test Title" {
		t.Errorf("title = %q, want %q", conv.Title, "Test Title")
	}

	// Both embeddings landed in the index
	stats := h.index.Stats()
	if stats.TotalEmbeddings != 2 {
		t.Errorf("TotalEmbeddings = %d, want 2", stats.TotalEmbeddings)
	}
	if stats.ConversationCount != 1 {
		t.Errorf("ConversationCount = %d, want 1", stats.ConversationCount)
	}
}

func TestSendMessage_MissingArgument(t *testing.T) {
	h := newTestHandlers(&fakeGenerator{reply: "x"})

	result, err := h.SendMessage(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("SendMessage returned transport error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for missing message argument")
	}
}

func TestSendMessage_UnknownConversation(t *testing.T) {
	h := newTestHandlers(&fakeGenerator{reply: "x"})

	result, err := h.SendMessage(context.Background(), callRequest(map[string]interface{}{
		"message":         "hi",
		"conversation_id": "missing",
	}))
	if err != nil {
		t.Fatalf("SendMessage returned transport error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for unknown conversation")
	}
}

func TestSendMessage_PipelineFailureIsGeneric(t *testing.T) {
	h := newTestHandlers(&fakeGenerator{err: errors.New("provider exploded: secret detail")})

	result, err := h.SendMessage(context.Background(), callRequest(map[string]interface{}{
		"message": "hi",
	}))
	if err != nil {
		t.Fatalf("SendMessage returned transport error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error when generation fails")
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	if strings.Contains(text.Text, "secret detail") {
		t.Error("provider error detail must not leak to the tool caller")
	}
}

func TestSemanticSearch_FindsStoredMessages(t *testing.T) {
	h := newTestHandlers(&fakeGenerator{reply: "the answer"})

	sendResult, err := h.SendMessage(context.Background(), callRequest(map[string]interface{}{
		"message": "what about goroutines",
	}))
	if err != nil || sendResult.IsError {
		t.Fatalf("seeding turn failed: %v %+v", err, sendResult)
	}

	result, err := h.SemanticSearch(context.Background(), callRequest(map[string]interface{}{
		"query": "what about goroutines",
	}))
	if err != nil {
		t.Fatalf("SemanticSearch failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result)
	}

	payload := textPayload(t, result)
	if count, _ := payload["count"].(float64); count < 1 {
		t.Errorf("expected at least one search hit, got %v", payload["count"])
	}
}

func TestDeleteConversation_RemovesMessagesAndEmbeddings(t *testing.T) {
	h := newTestHandlers(&fakeGenerator{reply: "bye"})

	sendResult, err := h.SendMessage(context.Background(), callRequest(map[string]interface{}{
		"message": "hello",
	}))
	if err != nil || sendResult.IsError {
		t.Fatalf("seeding turn failed: %v %+v", err, sendResult)
	}
	convID := textPayload(t, sendResult)["conversation_id"].(string)

	result, err := h.DeleteConversation(context.Background(), callRequest(map[string]interface{}{
		"conversation_id": convID,
	}))
	if err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result)
	}

	if stats := h.index.Stats(); stats.TotalEmbeddings != 0 {
		t.Errorf("expected empty index after delete, got %d embeddings", stats.TotalEmbeddings)
	}
	if _, err := h.conversations.GetConversation(convID); err == nil {
		t.Error("expected conversation removed")
	}
}

func TestIndexStats_EmptyIndex(t *testing.T) {
	h := newTestHandlers(&fakeGenerator{reply: "x"})

	result, err := h.IndexStats(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("IndexStats failed: %v", err)
	}

	payload := textPayload(t, result)
	if payload["total_embeddings"].(float64) != 0 {
		t.Errorf("total_embeddings = %v, want 0", payload["total_embeddings"])
	}
	if payload["conversation_count"].(float64) != 0 {
		t.Errorf("conversation_count = %v, want 0", payload["conversation_count"])
	}
}

func TestListConversations(t *testing.T) {
	h := newTestHandlers(&fakeGenerator{reply: "x"})

	for _, msg := range []string{"first chat", "second chat"} {
		result, err := h.SendMessage(context.Background(), callRequest(map[string]interface{}{
			"message": msg,
		}))
		if err != nil || result.IsError {
			t.Fatalf("seeding turn failed: %v %+v", err, result)
		}
	}

	result, err := h.ListConversations(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}

	payload := textPayload(t, result)
	if count, _ := payload["count"].(float64); count != 2 {
		t.Errorf("count = %v, want 2", payload["count"])
	}
}
