// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"github.com/pdiddy/arxivhub/internal/llm"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// QueryAnalysis is the structured output of the query-analysis stage.
type QueryAnalysis struct {
	Intent              string              `json:"intent"`
	IsClear             bool                `json:"is_clear"`
	RewrittenQuestion   string              `json:"rewrittenQuestion"`
	PaperScope          string              `json:"paperScope"`
	ClarificationNeeded string              `json:"clarification_needed"`
	MetadataHints       types.MetadataHints `json:"metadataHints"`
}

// gradeIrrelevant is the only grade that drops a document.
const gradeIrrelevant = "completely irrelevant"

// DocRelevance grades a single document's relevance to the question.
type DocRelevance struct {
	Grade     string `json:"grade"`
	Reasoning string `json:"reasoning"`
}

// CollectiveAudit reports whether the assembled context answers every
// aspect of the question.
type CollectiveAudit struct {
	RelevancePassed  bool   `json:"relevance_passed"`
	UnansweredAspect string `json:"unanswered_aspect"`
}

// queryAnalysisSchema constrains the analyzer's structured completion.
var queryAnalysisSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"intent": {
			Type:        llm.TypeString,
			Enum:        []string{"research", "casual"},
			Description: "Choose 'research' for questions about papers or science and 'casual' for greetings, thanks, and random chat.",
		},
		"is_clear": {
			Type:        llm.TypeBoolean,
			Description: "Indicates if the user's question is clear and answerable.",
		},
		"rewrittenQuestion": {
			Type:        llm.TypeString,
			Description: "Rewritten, self-contained version of the user's question preserving intent.",
		},
		"paperScope": {
			Type:        llm.TypeString,
			Enum:        []string{"single", "multiple"},
			Description: "Whether the question refers to one specific paper or multiple papers.",
		},
		"clarification_needed": {
			Type:        llm.TypeString,
			Description: "Explanation if the question is unclear.",
		},
		"metadataHints": {
			Type:        llm.TypeObject,
			Description: "Metadata (titles, authors, topics, publication years, arXiv IDs) mentioned in the user query.",
			Properties: map[string]*llm.Schema{
				"titles": {
					Type:        llm.TypeArray,
					Items:       &llm.Schema{Type: llm.TypeString},
					Description: "Paper titles or partial titles explicitly mentioned or strongly implied in the user query.",
				},
				"authors": {
					Type:        llm.TypeArray,
					Items:       &llm.Schema{Type: llm.TypeString},
					Description: "Author names or institutional authors (e.g., Google, OpenAI, Meta) mentioned in the user query.",
				},
				"topics": {
					Type:        llm.TypeArray,
					Items:       &llm.Schema{Type: llm.TypeString},
					Description: "Specific research topics, methods, or domains mentioned in the user query.",
				},
				"publicationYears": {
					Type:        llm.TypeArray,
					Items:       &llm.Schema{Type: llm.TypeString},
					Description: "Publication years referenced or implied in the user query (e.g., '2020', 'recent', 'last year').",
				},
				"arxivIDs": {
					Type:        llm.TypeArray,
					Items:       &llm.Schema{Type: llm.TypeString},
					Description: "Arxiv IDs referenced in the user query (e.g., '1706.03762').",
				},
			},
			Required: []string{"titles", "authors", "topics", "publicationYears", "arxivIDs"},
		},
	},
	Required: []string{"intent", "is_clear", "rewrittenQuestion", "paperScope", "clarification_needed", "metadataHints"},
}

// docRelevanceSchema constrains the per-document grading completion.
var docRelevanceSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"grade": {
			Type: llm.TypeString,
			Enum: []string{"relevant", "fully answers the question", "partially answers the question", gradeIrrelevant},
		},
		"reasoning": {
			Type:        llm.TypeString,
			Description: "Briefly explain why this grade was given.",
		},
	},
	Required: []string{"grade", "reasoning"},
}

// collectiveAuditSchema constrains the knowledge-audit completion.
var collectiveAuditSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"relevance_passed": {
			Type:        llm.TypeBoolean,
			Description: "True if ALL aspects of the question are answered.",
		},
		"unanswered_aspect": {
			Type:        llm.TypeString,
			Description: "A concise question focusing on the missing info.",
		},
	},
	Required: []string{"relevance_passed", "unanswered_aspect"},
}
