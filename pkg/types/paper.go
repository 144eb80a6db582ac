// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PaperRecord holds inventory metadata for one ingested arXiv paper.
// The query pipeline treats the inventory as a read-only lookup table
// keyed by arXiv ID; only ingestion writes it.
type PaperRecord struct {
	// ID is the arXiv identifier (e.g. "1706.03762").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as reported by the arXiv API.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the publication year (0 if unknown).
	Published int `json:"published" yaml:"published"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	// PDFURL is the arXiv PDF location the paper was fetched from.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Notes holds free-text user notes attached to the paper.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// TotalChunks is the number of passages stored for this paper.
	TotalChunks int `json:"total_chunks" yaml:"total_chunks"`

	// IngestedAt records when the paper entered the library.
	IngestedAt time.Time `json:"ingested_at" yaml:"ingested_at"`
}
