// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/arxivhub/internal/llm"
)

// audit checks whether the surviving documents collectively answer every
// aspect of the question. An empty document set fails the audit outright
// with the whole question as the gap; otherwise one structured completion
// decides, and a passing audit clears the gap.
func (p *Pipeline) audit(ctx context.Context, st *State) error {
	question := st.question()
	if len(st.RetrievedDocs) == 0 {
		st.RelevancePassed = false
		st.Unanswered = question
		return nil
	}

	var blocks []string
	for _, d := range st.RetrievedDocs {
		blocks = append(blocks, "Doc: "+d.Content)
	}
	prompt, err := renderTemplate(auditPromptTmpl, struct {
		Question string
		Context  string
	}{Question: question, Context: strings.Join(blocks, "\n\n")})
	if err != nil {
		return err
	}

	var report CollectiveAudit
	err = p.rt.LLM.CompleteStructured(ctx, llm.Request{User: prompt}, collectiveAuditSchema, &report)
	if err != nil {
		return fmt.Errorf("auditing knowledge: %w", err)
	}

	st.RelevancePassed = report.RelevancePassed
	if report.RelevancePassed {
		st.Unanswered = ""
	} else {
		st.Unanswered = strings.TrimSpace(report.UnansweredAspect)
	}
	return nil
}
