// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"regexp"
	"strings"
)

// Default chunking parameters, applied when the config leaves them zero.
const (
	defaultChunkSize      = 1500
	defaultChunkOverlap   = 200
	defaultMinChunkLength = 300
)

// separators are tried in order when splitting text, from coarse
// (paragraph breaks) to fine (single spaces).
var separators = []string{"\n\n", "\n", ".", ";", ",", " "}

// referencesPattern matches a standalone bibliography heading.
var referencesPattern = regexp.MustCompile(`(?mi)^\s*(?:references|bibliography)\s*$`)

// StripReferences truncates a paper body at its bibliography heading.
// The heading must sit in the second half of the text so that a stray
// early mention of "References" does not discard the whole paper.
func StripReferences(text string) string {
	locs := referencesPattern.FindAllStringIndex(text, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		if locs[i][0] > len(text)/2 {
			return strings.TrimSpace(text[:locs[i][0]])
		}
	}
	return text
}

// Splitter breaks long text into overlapping chunks suitable for
// embedding. It recursively descends through separators, preferring
// paragraph boundaries and falling back to finer splits only when a
// piece exceeds the chunk size.
type Splitter struct {
	ChunkSize      int
	ChunkOverlap   int
	MinChunkLength int
}

// NewSplitter builds a Splitter from ingestion config, filling in
// defaults for zero values.
func NewSplitter(size, overlap, minLength int) Splitter {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap <= 0 {
		overlap = defaultChunkOverlap
	}
	if minLength <= 0 {
		minLength = defaultMinChunkLength
	}
	return Splitter{ChunkSize: size, ChunkOverlap: overlap, MinChunkLength: minLength}
}

// Split chunks text and drops fragments shorter than MinChunkLength.
func (s Splitter) Split(text string) []string {
	var chunks []string
	for _, c := range s.split(strings.TrimSpace(text), separators) {
		c = strings.TrimSpace(c)
		if len(c) >= s.MinChunkLength {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

// split is the recursive worker. It picks the first separator present in
// the text, splits on it, merges small pieces back up to ChunkSize, and
// recurses with finer separators on pieces that are still too large.
func (s Splitter) split(text string, seps []string) []string {
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	sep := ""
	var rest []string
	for i, candidate := range seps {
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}
	if sep == "" {
		// No separator left; hard-cut at chunk boundaries.
		var out []string
		for start := 0; start < len(text); start += s.ChunkSize - s.ChunkOverlap {
			end := start + s.ChunkSize
			if end > len(text) {
				end = len(text)
			}
			out = append(out, text[start:end])
			if end == len(text) {
				break
			}
		}
		return out
	}

	pieces := splitKeepSep(text, sep)

	var out []string
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			out = append(out, s.merge(pending)...)
			pending = nil
		}
	}
	for _, p := range pieces {
		if len(p) > s.ChunkSize {
			flush()
			out = append(out, s.split(p, rest)...)
			continue
		}
		pending = append(pending, p)
	}
	flush()
	return out
}

// merge joins consecutive small pieces into chunks of at most ChunkSize,
// carrying ChunkOverlap bytes of trailing pieces into the next chunk.
func (s Splitter) merge(pieces []string) []string {
	var out []string
	var window []string
	total := 0

	for _, p := range pieces {
		if total+len(p) > s.ChunkSize && total > 0 {
			out = append(out, strings.Join(window, ""))
			for total > s.ChunkOverlap && len(window) > 1 {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += len(p)
	}
	if total > 0 {
		out = append(out, strings.Join(window, ""))
	}
	return out
}

// splitKeepSep splits text on sep, keeping the separator attached to the
// preceding piece so that joins reconstruct the original text.
func splitKeepSep(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			p += sep
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
