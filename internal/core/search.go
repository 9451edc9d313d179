// ABOUTME: Cross-conversation semantic search over the similarity index
// ABOUTME: Applies the minimum-similarity display threshold on top of raw index results
package core

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/dalta-ai/dalta/internal/models"
	"github.com/dalta-ai/dalta/internal/storage"
)

// Searcher answers semantic search queries against the similarity index.
// The index returns raw top-K regardless of score; the minimum-similarity
// cutoff is display policy and lives here.
type Searcher struct {
	embedder Embedder
	index    *storage.SimilarityIndex
	minScore float64
}

// NewSearcher creates a Searcher with the given similarity cutoff
func NewSearcher(embedder Embedder, index *storage.SimilarityIndex, minScore float64) *Searcher {
	return &Searcher{
		embedder: embedder,
		index:    index,
		minScore: minScore,
	}
}

// Search embeds the query and returns up to limit results above the
// similarity cutoff, best match first. Scores are rounded to two
// decimals for display.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query required")
	}
	if limit <= 0 {
		limit = 10
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	// Rank the full index first so the threshold filter never starves
	// the result list below limit.
	ranked := s.index.Search(queryEmbedding, -1)

	results := []models.SearchResult{}
	for _, r := range ranked {
		if r.Similarity <= s.minScore {
			continue
		}
		results = append(results, models.SearchResult{
			Content:        r.Content,
			ConversationID: r.ConversationID,
			MessageID:      r.MessageID,
			Similarity:     math.Round(r.Similarity*100) / 100,
			CreatedAt:      r.CreatedAt,
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}
