// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/arxivhub/internal/llm"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// summaryWindow is the number of most recent prior turns fed to the
// summarizer.
const summaryWindow = 6

// summarize condenses prior conversation turns into State.ConversationSummary.
// Short threads skip summarization with an empty summary.
func (p *Pipeline) summarize(ctx context.Context, st *State) error {
	if len(st.Messages) < 4 {
		st.ConversationSummary = ""
		return nil
	}

	// Exclude the current user message.
	prior := st.Messages[:len(st.Messages)-1]
	var relevant []types.Message
	for _, m := range prior {
		if m.Role == types.RoleUser || m.Role == types.RoleAssistant {
			relevant = append(relevant, m)
		}
	}
	if len(relevant) == 0 {
		st.ConversationSummary = ""
		return nil
	}
	if len(relevant) > summaryWindow {
		relevant = relevant[len(relevant)-summaryWindow:]
	}

	var b strings.Builder
	b.WriteString("Conversation history:\n")
	for _, m := range relevant {
		label := "User"
		if m.Role == types.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, m.Content)
	}

	summary, err := p.rt.LLM.Complete(ctx, llm.Request{
		System: summaryPrompt,
		User:   b.String(),
	})
	if err != nil {
		return fmt.Errorf("summarizing conversation: %w", err)
	}
	st.ConversationSummary = strings.TrimSpace(summary)
	return nil
}
