// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/arxivhub/pkg/types"
)

// webFallback searches the web for the unanswered aspect of the question
// and appends the results to the retrieved documents. Provider failures
// are swallowed: the turn proceeds with whatever the library produced.
func (p *Pipeline) webFallback(ctx context.Context, st *State, log *zap.Logger) {
	if st.Unanswered == "" {
		return
	}

	results, err := p.rt.Web.Search(ctx, st.Unanswered, p.rt.Config.WebSearch)
	if err != nil {
		log.Warn("web search failed, continuing with library documents",
			zap.String("query", st.Unanswered), zap.Error(err))
		return
	}

	for _, r := range results {
		st.RetrievedDocs = append(st.RetrievedDocs, types.Document{
			Content: r.Content,
			PaperID: types.WebSearchPaperID,
			Title:   r.Title,
			Source:  r.URL,
		})
	}
}
