// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/arxivhub/internal/llm"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// analyze runs the structured query-analysis completion and applies its
// verdict to the state: intent, clarity, rewritten question, paper scope,
// and metadata hints. An unclear question puts the clarification text in
// FinalAnswer and stops the research path.
func (p *Pipeline) analyze(ctx context.Context, st *State) error {
	input := fmt.Sprintf("Conversation summary:\n%s\n\nUser question:\n%s",
		st.ConversationSummary, st.OriginalQuestion)

	var analysis QueryAnalysis
	err := p.rt.LLM.CompleteStructured(ctx, llm.Request{
		System:      analysisPrompt,
		User:        input,
		Temperature: llm.Temp(0.1),
	}, queryAnalysisSchema, &analysis)
	if err != nil {
		return fmt.Errorf("analyzing query: %w", err)
	}

	if !analysis.IsClear {
		st.QuestionIsClear = false
		st.FinalAnswer = strings.TrimSpace(analysis.ClarificationNeeded)
		if st.FinalAnswer == "" {
			st.FinalAnswer = "Could you rephrase your question? I could not work out what you are asking."
		}
		return nil
	}

	st.QuestionIsClear = true
	if analysis.Intent == string(types.IntentCasual) {
		st.Intent = types.IntentCasual
	} else {
		st.Intent = types.IntentResearch
	}
	if analysis.PaperScope == string(types.ScopeSingle) {
		st.PaperScope = types.ScopeSingle
	} else {
		st.PaperScope = types.ScopeMultiple
	}

	st.RewrittenQuestion = strings.TrimSpace(analysis.RewrittenQuestion)
	if st.RewrittenQuestion == "" {
		st.RewrittenQuestion = st.OriginalQuestion
	}
	st.MetadataHints = analysis.MetadataHints
	st.MetadataHintPresent = analysis.MetadataHints.Present()
	return nil
}
