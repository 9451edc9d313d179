// ABOUTME: Deterministic local fallback embedding used when the OpenAI API is unreachable
// ABOUTME: Non-semantic hash-based vector, reproducible for any input text
package llm

// FallbackDimension is the dimensionality of locally computed fallback
// embeddings. Real model embeddings are typically 1536-dimensional, so
// fallback vectors never cross-compare against them (mismatched lengths
// score zero similarity in the index).
const FallbackDimension = 384

// FallbackEmbedding computes a deterministic hash-based embedding.
// Each character's code point is accumulated into a fixed-size vector,
// then normalized by text length. Empty text yields the zero vector.
func FallbackEmbedding(text string) []float64 {
	embedding := make([]float64, FallbackDimension)

	runes := []rune(text)
	if len(runes) == 0 {
		return embedding
	}

	for i, r := range runes {
		embedding[i%FallbackDimension] += float64(r) / 256
	}
	for i := range embedding {
		embedding[i] /= float64(len(runes))
	}

	return embedding
}
