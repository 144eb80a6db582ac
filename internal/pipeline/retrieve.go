// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"github.com/pdiddy/arxivhub/internal/vectorstore"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// scopedGroupSize is the per-paper result cap when retrieval is scoped to
// more than one paper.
const scopedGroupSize = 3

// retrieve embeds the question and pulls the best-matching chunks from the
// user's library. Scoped retrieval searches only the papers chosen by the
// scoping stage, falling back to the whole library when it comes up empty.
func (p *Pipeline) retrieve(ctx context.Context, st *State, req TurnRequest) error {
	settings := p.rt.Config.Retrieval
	if req.Retrieval != nil {
		settings = req.Retrieval.Normalize()
	}
	query := st.question()
	if len(query) < 2 {
		st.RetrievedDocs = nil
		st.ConfidenceScores = nil
		return nil
	}

	vector, err := p.rt.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	search := vectorstore.SearchRequest{
		UserID:         req.UserID,
		Vector:         vector,
		TopK:           settings.TopK,
		ScoreThreshold: settings.ScoreThreshold,
	}

	var scored []types.ScoredDocument
	if len(st.ArxivIDs) > 0 {
		scopedReq := search
		scopedReq.PaperIDs = st.ArxivIDs
		if len(st.ArxivIDs) > 1 {
			scored, err = p.rt.Store.GroupedSearch(ctx, scopedReq, scopedGroupSize)
		} else {
			scored, err = p.rt.Store.Search(ctx, scopedReq)
		}
		if err != nil {
			return fmt.Errorf("scoped retrieval: %w", err)
		}
	}
	if len(scored) == 0 {
		scored, err = p.rt.Store.Search(ctx, search)
		if err != nil {
			return fmt.Errorf("retrieval: %w", err)
		}
	}

	st.RetrievedDocs = make([]types.Document, 0, len(scored))
	st.ConfidenceScores = make([]float64, 0, len(scored))
	for _, s := range scored {
		st.RetrievedDocs = append(st.RetrievedDocs, s.Document)
		st.ConfidenceScores = append(st.ConfidenceScores, s.Score)
	}
	return nil
}
