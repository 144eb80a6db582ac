// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/arxivhub/internal/embedding"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// SearchRequest describes one similarity query. UserID is mandatory: the
// tenant filter is part of the SQL predicate on every query, which is what
// keeps one user's passages invisible to another.
type SearchRequest struct {
	// UserID scopes the search to one user's library.
	UserID string

	// PaperIDs, when non-empty, restricts results to those papers.
	PaperIDs []string

	// Vector is the embedded query.
	Vector []float32

	// TopK caps the number of results.
	TopK int

	// ScoreThreshold excludes results scoring below it.
	ScoreThreshold float64
}

// Search runs a flat top-K similarity search and returns passages ranked
// by cosine similarity, all scoring at or above the threshold.
func (s *Store) Search(ctx context.Context, req SearchRequest) ([]types.ScoredDocument, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	candidates, err := s.scanCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	sortByScore(candidates)
	if req.TopK > 0 && len(candidates) > req.TopK {
		candidates = candidates[:req.TopK]
	}
	return candidates, nil
}

// GroupedSearch ranks passages per paper and returns up to groupSize
// passages from each paper in req.PaperIDs. This guarantees every scoped
// paper is represented instead of letting one dominant paper crowd out
// the rest. Groups are flattened in descending score order.
func (s *Store) GroupedSearch(ctx context.Context, req SearchRequest, groupSize int) ([]types.ScoredDocument, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if len(req.PaperIDs) == 0 {
		return nil, fmt.Errorf("grouped search requires paper IDs")
	}
	if groupSize <= 0 {
		groupSize = 3
	}

	candidates, err := s.scanCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]types.ScoredDocument)
	for _, c := range candidates {
		groups[c.PaperID] = append(groups[c.PaperID], c)
	}

	var results []types.ScoredDocument
	for _, docs := range groups {
		sortByScore(docs)
		if len(docs) > groupSize {
			docs = docs[:groupSize]
		}
		results = append(results, docs...)
	}

	sortByScore(results)
	return results, nil
}

// scanCandidates fetches the filtered rows, scores them against the query
// vector, and drops those below the threshold.
func (s *Store) scanCandidates(ctx context.Context, req SearchRequest) ([]types.ScoredDocument, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT paper_id, title, content, embedding FROM chunks WHERE user_id = ?`)
	args = append(args, req.UserID)

	if len(req.PaperIDs) > 0 {
		qb.WriteString(` AND paper_id IN (?` + strings.Repeat(",?", len(req.PaperIDs)-1) + `)`)
		for _, id := range req.PaperIDs {
			args = append(args, id)
		}
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var candidates []types.ScoredDocument
	for rows.Next() {
		var (
			doc     types.Document
			title   sql.NullString
			embJSON string
		)
		if err := rows.Scan(&doc.PaperID, &title, &doc.Content, &embJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}
		if title.Valid {
			doc.Title = title.String
		}

		var vec []float32
		if err := json.Unmarshal([]byte(embJSON), &vec); err != nil {
			continue
		}

		score, err := embedding.CosineSimilarity(req.Vector, vec)
		if err != nil {
			continue
		}
		if score < req.ScoreThreshold {
			continue
		}

		candidates = append(candidates, types.ScoredDocument{Document: doc, Score: score})
	}

	return candidates, rows.Err()
}

// sortByScore orders documents by descending score, breaking ties by
// paper ID then content for deterministic output.
func sortByScore(docs []types.ScoredDocument) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		if docs[i].PaperID != docs[j].PaperID {
			return docs[i].PaperID < docs[j].PaperID
		}
		return docs[i].Content < docs[j].Content
	})
}
