// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"github.com/pdiddy/arxivhub/internal/scope"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// scopePapers narrows retrieval to the papers that best match the query's
// metadata hints. No hints or no matches leaves ArxivIDs empty, which
// means the whole library is searched.
func (p *Pipeline) scopePapers(st *State, inventory map[string]types.PaperRecord) {
	if !st.MetadataHintPresent || len(inventory) == 0 {
		st.ArxivIDs = nil
		return
	}
	st.ArxivIDs = scope.Match(st.MetadataHints, inventory, st.PaperScope)
}
