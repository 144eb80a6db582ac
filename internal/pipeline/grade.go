// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/arxivhub/internal/llm"
	"github.com/pdiddy/arxivhub/pkg/types"
)

const (
	// gradeBypassScore is the retrieval confidence above which a document
	// is accepted without a grading call.
	gradeBypassScore = 0.8

	// gradeConcurrency bounds the parallel grading completions.
	gradeConcurrency = 4
)

// grade filters the retrieved documents down to those relevant to the
// question. High-confidence documents bypass the judgment call; the rest
// are graded in parallel and only documents judged completely irrelevant
// are dropped. Document order is preserved. A document whose grading call
// fails is retained.
func (p *Pipeline) grade(ctx context.Context, st *State) error {
	docs := st.RetrievedDocs
	scores := st.ConfidenceScores
	st.ConfidenceScores = nil
	if len(docs) == 0 {
		return nil
	}

	question := st.question()
	keep := make([]bool, len(docs))
	callErrs := make([]error, len(docs))
	calls := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(gradeConcurrency)
	for i := range docs {
		if i < len(scores) && scores[i] >= gradeBypassScore {
			keep[i] = true
			continue
		}
		calls++
		g.Go(func() error {
			var verdict DocRelevance
			err := p.rt.LLM.CompleteStructured(gctx, llm.Request{
				System: "Grade how well the document answers the question.",
				User:   fmt.Sprintf("Question: %s\n\nDocument: %s", question, docs[i].Content),
			}, docRelevanceSchema, &verdict)
			if err != nil {
				callErrs[i] = err
				keep[i] = true
				return nil
			}
			keep[i] = verdict.Grade != gradeIrrelevant
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("grading documents: %w", err)
	}

	failed := 0
	for i, e := range callErrs {
		if e != nil {
			failed++
			p.rt.Logger.Warn("document grading call failed, retaining document",
				zap.String("paper_id", docs[i].PaperID), zap.Error(e))
		}
	}
	if calls > 0 && failed == calls {
		return fmt.Errorf("grading documents: all %d grading calls failed: %w", calls, firstErr(callErrs))
	}

	filtered := make([]types.Document, 0, len(docs))
	for i, d := range docs {
		if keep[i] {
			filtered = append(filtered, d)
		}
	}
	st.RetrievedDocs = filtered
	return nil
}

func firstErr(errs []error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
