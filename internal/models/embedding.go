// ABOUTME: Embedding models for the similarity index and semantic search
// ABOUTME: Defines StoredEmbedding, RankedEmbedding, and SearchResult structures
package models

import "time"

// StoredEmbedding represents an embedding vector stored for a message.
// Records are immutable after creation and owned by the similarity index.
type StoredEmbedding struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	Content        string    `json:"content"`
	Embedding      []float64 `json:"embedding"`
	CreatedAt      time.Time `json:"created_at"`
}

// RankedEmbedding pairs a stored record with its similarity to a query vector
type RankedEmbedding struct {
	StoredEmbedding
	Similarity float64 `json:"similarity"`
}

// SearchResult represents a semantic search hit returned to callers
type SearchResult struct {
	Content        string    `json:"content"`
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	Similarity     float64   `json:"similarity"`
	CreatedAt      time.Time `json:"created_at"`
}

// IndexStats summarizes the contents of the similarity index
type IndexStats struct {
	TotalEmbeddings   int `json:"total_embeddings"`
	ConversationCount int `json:"conversation_count"`
}
