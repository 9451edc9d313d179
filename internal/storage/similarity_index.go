// ABOUTME: In-memory similarity index with brute-force cosine similarity search
// ABOUTME: Volatile process-lifetime store, keyed by (conversation, message)
package storage

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/dalta-ai/dalta/internal/models"
)

// SimilarityIndex stores message embeddings and serves similarity queries.
// The index is volatile: contents live for the process lifetime only.
// All operations are safe for concurrent use; a search that overlaps a
// store may or may not observe the new record.
//
// Dimensionality is not validated at insert time. Records whose vectors
// do not match the query's length simply score zero and never rank, so a
// mixed index of real and fallback embeddings stays well-defined.
type SimilarityIndex struct {
	mu         sync.RWMutex
	embeddings map[string]models.StoredEmbedding
}

// NewSimilarityIndex creates an empty index
func NewSimilarityIndex() *SimilarityIndex {
	return &SimilarityIndex{
		embeddings: make(map[string]models.StoredEmbedding),
	}
}

// embeddingKey builds the composite record key
func embeddingKey(conversationID, messageID string) string {
	return conversationID + ":" + messageID
}

// Store inserts an embedding record, overwriting any existing record for
// the same (conversationID, messageID) pair.
func (ix *SimilarityIndex) Store(conversationID, messageID, content string, embedding []float64) {
	key := embeddingKey(conversationID, messageID)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.embeddings[key] = models.StoredEmbedding{
		ID:             key,
		ConversationID: conversationID,
		MessageID:      messageID,
		Content:        content,
		Embedding:      embedding,
		CreatedAt:      time.Now(),
	}
}

// ConversationEmbeddings returns all records for a conversation, in no
// particular order. Returns an empty slice when none match.
func (ix *SimilarityIndex) ConversationEmbeddings(conversationID string) []models.StoredEmbedding {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	results := []models.StoredEmbedding{}
	for _, emb := range ix.embeddings {
		if emb.ConversationID == conversationID {
			results = append(results, emb)
		}
	}
	return results
}

// Search computes cosine similarity between the query and every stored
// record, and returns the topK highest-scoring records in descending
// order. Fewer than topK records are returned when the index is small.
func (ix *SimilarityIndex) Search(queryEmbedding []float64, topK int) []models.RankedEmbedding {
	ix.mu.RLock()

	results := make([]models.RankedEmbedding, 0, len(ix.embeddings))
	for _, emb := range ix.embeddings {
		results = append(results, models.RankedEmbedding{
			StoredEmbedding: emb,
			Similarity:      CosineSimilarity(queryEmbedding, emb.Embedding),
		})
	}
	ix.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

// DeleteConversation removes all records for a conversation. Deleting a
// conversation with no stored embeddings is a no-op.
func (ix *SimilarityIndex) DeleteConversation(conversationID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for key, emb := range ix.embeddings {
		if emb.ConversationID == conversationID {
			delete(ix.embeddings, key)
		}
	}
}

// Stats returns record and distinct-conversation counts
func (ix *SimilarityIndex) Stats() models.IndexStats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	conversations := make(map[string]struct{})
	for _, emb := range ix.embeddings {
		conversations[emb.ConversationID] = struct{}{}
	}

	return models.IndexStats{
		TotalEmbeddings:   len(ix.embeddings),
		ConversationCount: len(conversations),
	}
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched lengths and zero-norm vectors score 0, never NaN.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
