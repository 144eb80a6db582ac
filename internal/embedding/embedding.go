// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embedding wraps the embedding service used for similarity search.
// Queries and documents use asymmetric retrieval task types.
package embedding

import (
	"context"
	"fmt"
	"math"
)

// Engine produces embedding vectors. Implementations must be deterministic
// enough for stable similarity ranking within a session.
type Engine interface {
	// EmbedQuery embeds a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments embeds a batch of passages for indexing.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// CosineSimilarity returns the cosine similarity of two vectors in [-1, 1].
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("empty vectors")
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
