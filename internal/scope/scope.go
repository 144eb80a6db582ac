// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scope narrows retrieval to candidate papers by fuzzy-matching
// query metadata hints against the user's paper inventory.
package scope

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/arxivhub/pkg/types"
)

// Field weights for the blended match score. Title and topic signal decide
// whether a paper qualifies at all; author and year signal only re-rank
// within the qualified pool.
const (
	weightTitle  = 5.0
	weightTopic  = 3.0
	weightAuthor = 1.5
	weightYear   = 1.0

	// minPrimaryScore gates the candidate pool on the raw weighted
	// title/topic score, not a normalized one.
	minPrimaryScore = 0.1

	// recentWindow is how many calendar years "recent" or "last year"
	// expands to, counting the current year.
	recentWindow = 3

	maxAuthorHints = 3
)

// timeNow is swapped by tests to pin the "recent" year window.
var timeNow = time.Now

var yearPattern = regexp.MustCompile(`\b\d{4}\b`)

// idPattern matches hinted arXiv IDs, tolerating the "arXiv:" prefix and a
// version suffix.
var idPattern = regexp.MustCompile(`(?i)^(?:arxiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// TopN returns how many candidate papers to retain for a paper scope.
func TopN(paperScope types.PaperScope) int {
	if paperScope == types.ScopeSingle {
		return 2
	}
	return 4
}

// Match selects up to TopN(paperScope) paper IDs from the inventory,
// ranked by fuzzy similarity to the hints. It returns an empty list when
// no hints are present or no paper qualifies, which signals an unscoped
// global search to the retriever. Output is deterministic for a given
// hints/inventory pair.
func Match(hints types.MetadataHints, inventory map[string]types.PaperRecord, paperScope types.PaperScope) []string {
	if !hints.Present() {
		return nil
	}

	// An arXiv ID named outright in the query beats any fuzzy signal:
	// hinted IDs found in the inventory become the scope directly. IDs
	// not in the library fall through to fuzzy matching on the other
	// hint fields.
	if ids := matchExplicitIDs(hints.ArxivIDs, inventory); len(ids) > 0 {
		return ids
	}

	topN := TopN(paperScope)

	qTitles := normalizeHints(hints.Titles, 0)
	qTopics := normalizeHints(hints.Topics, 0)
	qAuthors := normalizeHints(hints.Authors, maxAuthorHints)
	qYears := normalizeYears(normalizeHints(hints.PublicationYears, 0))

	primaryScores := make(map[string]float64)
	totalScores := make(map[string]float64)

	for paperID, paper := range inventory {
		primary := 0.0

		if len(qTitles) > 0 {
			paperTitle := strings.ToLower(paper.Title)
			if paperTitle != "" {
				best := 0.0
				for _, qt := range qTitles {
					if s := partialRatio(qt, paperTitle); s > best {
						best = s
					}
				}
				primary += weightTitle * best
			}
		}

		if len(qTopics) > 0 {
			paperText := strings.TrimSpace(strings.ToLower(paper.Title) + " " + strings.ToLower(paper.Summary))
			if paperText != "" {
				sum := 0.0
				for _, qt := range qTopics {
					sum += partialRatio(qt, paperText)
				}
				primary += weightTopic * sum / float64(len(qTopics))
			}
		}

		// Title/topic signal is the entry ticket: author and year matches
		// cannot rescue a paper that fails the primary gate.
		if primary < minPrimaryScore {
			continue
		}

		total := primary

		if len(qAuthors) > 0 {
			paperAuthors := normalizeHints(paper.Authors, maxAuthorHints)
			if len(paperAuthors) > 0 {
				sum := 0.0
				for _, qa := range qAuthors {
					best := 0.0
					for _, pa := range paperAuthors {
						if s := ratio(qa, pa); s > best {
							best = s
						}
					}
					sum += best
				}
				total += weightAuthor * sum / float64(len(qAuthors))
			}
		}

		if len(qYears) > 0 {
			if _, ok := qYears[paper.Published]; ok {
				total += weightYear
			}
		}

		primaryScores[paperID] = primary
		totalScores[paperID] = total
	}

	if len(primaryScores) == 0 {
		return nil
	}

	// Narrow by primary score first, then re-order the narrowed pool by
	// total score. Ties break by paper ID to keep the ranking stable.
	preselected := rankedIDs(primaryScores)
	if len(preselected) > topN {
		preselected = preselected[:topN]
	}

	sort.SliceStable(preselected, func(i, j int) bool {
		si, sj := totalScores[preselected[i]], totalScores[preselected[j]]
		if si != sj {
			return si > sj
		}
		return preselected[i] < preselected[j]
	})

	return preselected
}

// matchExplicitIDs resolves hinted arXiv IDs against the inventory keys,
// preserving hint order and dropping duplicates and unknown IDs. A hinted
// "arXiv:1706.03762v2" matches an inventory entry keyed "1706.03762".
func matchExplicitIDs(hints []string, inventory map[string]types.PaperRecord) []string {
	if len(hints) == 0 {
		return nil
	}

	canonical := make(map[string]string, len(inventory))
	for id := range inventory {
		if m := idPattern.FindStringSubmatch(id); m != nil {
			canonical[m[1]] = id
		}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, h := range hints {
		m := idPattern.FindStringSubmatch(strings.TrimSpace(h))
		if m == nil {
			continue
		}
		id, ok := canonical[m[1]]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// normalizeHints lowercases and trims hint strings, dropping empties.
// A positive cap limits how many survive.
func normalizeHints(hints []string, cap int) []string {
	var out []string
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		out = append(out, h)
		if cap > 0 && len(out) == cap {
			break
		}
	}
	return out
}

// normalizeYears resolves year hints to a set of calendar years. Explicit
// 4-digit years parse directly; phrases containing "recent" or "last"
// expand to the current year and the two preceding ones.
func normalizeYears(hints []string) map[int]struct{} {
	years := make(map[int]struct{})
	currentYear := timeNow().Year()

	for _, h := range hints {
		for _, m := range yearPattern.FindAllString(h, -1) {
			y := 0
			for _, r := range m {
				y = y*10 + int(r-'0')
			}
			years[y] = struct{}{}
		}
		if strings.Contains(h, "recent") || strings.Contains(h, "last") {
			for y := currentYear - recentWindow + 1; y <= currentYear; y++ {
				years[y] = struct{}{}
			}
		}
	}
	return years
}

// rankedIDs returns the IDs ordered by descending score, ties by ID.
func rankedIDs(scores map[string]float64) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}
