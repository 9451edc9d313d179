// ABOUTME: Retriever finds semantically relevant messages for a query
// ABOUTME: Embeds candidates concurrently and ranks them by cosine similarity
package core

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/dalta-ai/dalta/internal/models"
	"github.com/dalta-ai/dalta/internal/storage"
)

// Embedder generates an embedding vector for a text string
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Retriever ranks candidate messages against a query by embedding
// similarity. Candidate embeddings are computed per call with bounded
// parallelism; there is no caching at this layer.
type Retriever struct {
	embedder Embedder
	workers  int
}

// NewRetriever creates a Retriever with the given embedding worker count
func NewRetriever(embedder Embedder, workers int) *Retriever {
	if workers <= 0 {
		workers = 4
	}
	return &Retriever{
		embedder: embedder,
		workers:  workers,
	}
}

type scoredMessage struct {
	message    models.Message
	similarity float64
}

// FindRelevantContext returns the topK candidate messages most similar to
// the query, most relevant first. An empty candidate list returns
// immediately without any embedding calls. If embedding fails, the most
// recent topK messages are returned in chronological order instead, so
// retrieval never blocks the pipeline.
func (r *Retriever) FindRelevantContext(ctx context.Context, query string, candidates []models.Message, topK int) []models.Message {
	if len(candidates) == 0 {
		return []models.Message{}
	}

	scored, err := r.rank(ctx, query, candidates)
	if err != nil {
		log.Printf("[Retriever] ranking failed, falling back to recent messages: %v", err)
		return recentMessages(candidates, topK)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	results := make([]models.Message, len(scored))
	for i, s := range scored {
		results[i] = s.message
	}
	return results
}

// rank embeds the query once and every candidate concurrently, bounded by
// the worker count to avoid overwhelming the embedding service.
func (r *Retriever) rank(ctx context.Context, query string, candidates []models.Message) ([]scoredMessage, error) {
	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredMessage, len(candidates))
	sem := make(chan struct{}, r.workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, msg := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, msg models.Message) {
			defer wg.Done()
			defer func() { <-sem }()

			embedding, err := r.embedder.Embed(ctx, msg.Content)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			scored[i] = scoredMessage{
				message:    msg,
				similarity: storage.CosineSimilarity(queryEmbedding, embedding),
			}
		}(i, msg)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return scored, nil
}

// recentMessages returns the last topK messages in chronological order
func recentMessages(msgs []models.Message, topK int) []models.Message {
	if len(msgs) <= topK {
		out := make([]models.Message, len(msgs))
		copy(out, msgs)
		return out
	}
	out := make([]models.Message, topK)
	copy(out, msgs[len(msgs)-topK:])
	return out
}
