// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/arxivhub/internal/llm"
	"github.com/pdiddy/arxivhub/pkg/types"
)

var (
	answerCloseTag  = regexp.MustCompile(`(?i)</answer>`)
	thinkingPattern = regexp.MustCompile(`(?is)<thinking>.*?</thinking>`)
)

// generate produces the grounded final answer from the retrieved documents
// and puts it in State.FinalAnswer.
func (p *Pipeline) generate(ctx context.Context, st *State) error {
	system, err := renderTemplate(generationPromptTmpl, struct {
		Context string
		Summary string
	}{Context: contextBlocks(st.RetrievedDocs), Summary: st.ConversationSummary})
	if err != nil {
		return err
	}

	response, err := p.rt.LLM.Complete(ctx, llm.Request{
		System: system,
		User:   st.question(),
		Model:  p.rt.Config.AI.ResearchModel,
	})
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}

	st.FinalAnswer = extractCleanAnswer(response)
	return nil
}

// contextBlocks renders documents as indexed XML-ish blocks. Library
// documents are labeled "arxivID: title"; web documents use their URL so
// citations point at the page.
func contextBlocks(docs []types.Document) string {
	var b strings.Builder
	for i, d := range docs {
		source := d.Source
		if !d.IsWeb() {
			source = fmt.Sprintf("%s: %s", d.PaperID, d.Title)
		} else if source == "" {
			source = "Web Search"
		}
		fmt.Fprintf(&b, "<document index=\"%d\">\n<source>%s</source>\n<content>%s</content>\n</document>\n",
			i+1, source, d.Content)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// extractCleanAnswer isolates the answer block of a structured response.
// Without an answer tag it strips any thinking block instead, and when
// that leaves nothing it returns the raw response rather than discarding
// the model's output.
func extractCleanAnswer(content string) string {
	lower := strings.ToLower(content)
	if idx := strings.Index(lower, "<answer>"); idx != -1 {
		result := content[idx+len("<answer>"):]
		result = answerCloseTag.ReplaceAllString(result, "")
		if trimmed := strings.TrimSpace(result); trimmed != "" {
			return trimmed
		}
	}
	if stripped := strings.TrimSpace(thinkingPattern.ReplaceAllString(content, "")); stripped != "" {
		return stripped
	}
	return strings.TrimSpace(content)
}
