// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline implements the conversational turn resolution flow:
// summarize, analyze, scope, retrieve, grade, audit, optionally search the
// web, and generate a grounded answer over a user's paper library.
package pipeline

import (
	"github.com/pdiddy/arxivhub/pkg/types"
)

// State carries one conversation turn through the pipeline stages. A stage
// mutates the state fully before the next stage observes it.
type State struct {
	// Messages is the thread history including the current user message.
	Messages []types.Message

	ConversationSummary string
	OriginalQuestion    string
	Intent              types.Intent
	QuestionIsClear     bool
	RewrittenQuestion   string
	PaperScope          types.PaperScope
	MetadataHints       types.MetadataHints
	MetadataHintPresent bool

	// ArxivIDs narrows retrieval to specific papers. Empty means the whole
	// library.
	ArxivIDs []string

	RetrievedDocs []types.Document

	// ConfidenceScores is index-aligned with RetrievedDocs only between
	// retrieval and grading; grading consumes and invalidates it.
	ConfidenceScores []float64

	RelevancePassed bool
	Unanswered      string
	FinalAnswer     string
}

// question returns the rewritten question, falling back to the original.
func (s *State) question() string {
	if s.RewrittenQuestion != "" {
		return s.RewrittenQuestion
	}
	return s.OriginalQuestion
}

// TurnRequest describes one user turn to resolve.
type TurnRequest struct {
	// UserID scopes retrieval to one user's library. Mandatory.
	UserID string

	// ThreadID identifies the conversation; turns on the same thread are
	// serialized and share message history.
	ThreadID string

	// Message is the user's new message.
	Message string

	// Inventory is the user's paper metadata keyed by arXiv ID, used for
	// fuzzy scoping.
	Inventory map[string]types.PaperRecord

	// Retrieval overrides the runtime retrieval settings for this turn when
	// non-nil.
	Retrieval *types.RetrievalConfig
}
