// ABOUTME: In-memory conversation and message store backing the chat surface
// ABOUTME: Demo-grade volatile storage, mutex-guarded for concurrent requests
package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dalta-ai/dalta/internal/models"
	"github.com/google/uuid"
)

// ConversationStore holds conversations and their messages in memory.
// Like the similarity index, contents are volatile and process-scoped.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]models.Conversation
	messages      map[string][]models.Message
}

// NewConversationStore creates an empty store
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]models.Conversation),
		messages:      make(map[string][]models.Message),
	}
}

// CreateConversation creates a new conversation for a user
func (cs *ConversationStore) CreateConversation(userID, title string) models.Conversation {
	now := time.Now()
	conv := models.Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.conversations[conv.ID] = conv
	cs.messages[conv.ID] = []models.Message{}
	return conv
}

// GetConversation looks up a conversation by ID
func (cs *ConversationStore) GetConversation(conversationID string) (models.Conversation, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	conv, ok := cs.conversations[conversationID]
	if !ok {
		return models.Conversation{}, fmt.Errorf("conversation not found: %s", conversationID)
	}
	return conv, nil
}

// ListConversations returns all conversations, most recently updated first
func (cs *ConversationStore) ListConversations() []models.Conversation {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	results := make([]models.Conversation, 0, len(cs.conversations))
	for _, conv := range cs.conversations {
		results = append(results, conv)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].UpdatedAt.After(results[j].UpdatedAt)
	})
	return results
}

// SetTitle updates a conversation's title
func (cs *ConversationStore) SetTitle(conversationID, title string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	conv, ok := cs.conversations[conversationID]
	if !ok {
		return fmt.Errorf("conversation not found: %s", conversationID)
	}
	conv.Title = title
	conv.UpdatedAt = time.Now()
	cs.conversations[conversationID] = conv
	return nil
}

// AppendMessage adds a message to its conversation and bumps the
// conversation timestamp
func (cs *ConversationStore) AppendMessage(msg models.Message) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	conv, ok := cs.conversations[msg.ConversationID]
	if !ok {
		return fmt.Errorf("conversation not found: %s", msg.ConversationID)
	}

	cs.messages[msg.ConversationID] = append(cs.messages[msg.ConversationID], msg)
	conv.UpdatedAt = time.Now()
	cs.conversations[msg.ConversationID] = conv
	return nil
}

// Messages returns a conversation's messages in chronological order.
// The returned slice is a copy; callers may not mutate stored messages.
func (cs *ConversationStore) Messages(conversationID string) []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	msgs := cs.messages[conversationID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}

// DeleteConversation removes a conversation and its messages. Idempotent.
func (cs *ConversationStore) DeleteConversation(conversationID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.conversations, conversationID)
	delete(cs.messages, conversationID)
}
