// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Role tags a conversation turn as user- or assistant-authored.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged conversation turn.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Intent classifies a user turn.
type Intent string

const (
	IntentResearch Intent = "research"
	IntentCasual   Intent = "casual"
)

// PaperScope hints how many candidate papers a question refers to.
type PaperScope string

const (
	ScopeSingle   PaperScope = "single"
	ScopeMultiple PaperScope = "multiple"
)

// MetadataHints are the structured signals the query analyzer extracts from
// a user turn. Empty lists mean "no signal"; the extraction is strictly
// extractive, never fabricated.
type MetadataHints struct {
	Titles           []string `json:"titles" yaml:"titles"`
	Authors          []string `json:"authors" yaml:"authors"`
	Topics           []string `json:"topics" yaml:"topics"`
	PublicationYears []string `json:"publicationYears" yaml:"publication_years"`
	ArxivIDs         []string `json:"arxivIDs" yaml:"arxiv_ids"`
}

// Present reports whether any hint field carries a signal.
func (h MetadataHints) Present() bool {
	return len(h.Titles) > 0 || len(h.Authors) > 0 || len(h.Topics) > 0 ||
		len(h.PublicationYears) > 0 || len(h.ArxivIDs) > 0
}

// WebSearchPaperID is the sentinel paper identifier for passages that came
// from the web fallback rather than the library. The generator cites these
// by URL instead of arXiv ID.
const WebSearchPaperID = "web_search"

// Document is a retrieved passage with its source metadata.
type Document struct {
	// Content is the passage text.
	Content string `json:"content" yaml:"content"`

	// PaperID is the source arXiv ID, or WebSearchPaperID for web passages.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Title is the source paper or page title.
	Title string `json:"title" yaml:"title"`

	// Source is the citation target: empty for library passages (the arXiv ID
	// serves), the result URL for web passages.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// IsWeb reports whether the document came from the web fallback.
func (d Document) IsWeb() bool {
	return d.PaperID == WebSearchPaperID
}

// ScoredDocument pairs a retrieved passage with its similarity score.
type ScoredDocument struct {
	Document
	Score float64 `json:"score" yaml:"score"`
}

// WebResult is one hit from the external web search provider.
type WebResult struct {
	Title   string  `json:"title" yaml:"title"`
	URL     string  `json:"url" yaml:"url"`
	Content string  `json:"content" yaml:"content"`
	Score   float64 `json:"score" yaml:"score"`
}
