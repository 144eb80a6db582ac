// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/arxivhub/internal/llm"
)

// casual answers small talk with the assistant persona, no retrieval.
func (p *Pipeline) casual(ctx context.Context, st *State) error {
	system, err := renderTemplate(casualPromptTmpl, struct{ Summary string }{Summary: st.ConversationSummary})
	if err != nil {
		return err
	}

	response, err := p.rt.LLM.Complete(ctx, llm.Request{
		System: system,
		User:   st.OriginalQuestion,
	})
	if err != nil {
		return fmt.Errorf("generating casual reply: %w", err)
	}
	st.FinalAnswer = strings.TrimSpace(response)
	return nil
}
