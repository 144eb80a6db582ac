// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/arxivhub/internal/httputil"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// Base URLs for the arXiv API and PDF mirror. Declared as vars so tests can
// substitute httptest servers.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// NormalizeID validates an arXiv identifier and strips the optional
// "arXiv:" prefix. It returns an error for anything that does not look
// like a modern arXiv ID.
func NormalizeID(identifier string) (string, error) {
	m := arxivPattern.FindStringSubmatch(strings.TrimSpace(identifier))
	if m == nil {
		return "", fmt.Errorf("unrecognized arXiv identifier: %q", identifier)
	}
	return m[1], nil
}

// PDFURL returns the download URL for an arXiv paper.
func PDFURL(arxivID string) string {
	return arxivPDFBase + arxivID
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// FetchMetadata retrieves paper metadata for a single arXiv ID from the
// export API and returns a partially filled record. PDFURL, chunk counts,
// and notes are filled in later by the ingestion flow.
func FetchMetadata(ctx context.Context, client *http.Client, arxivID string, cfg types.HTTPConfig) (types.PaperRecord, error) {
	var rec types.PaperRecord

	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, url.QueryEscape(arxivID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return rec, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return rec, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rec, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return rec, fmt.Errorf("parsing arXiv response: %w", err)
	}

	if len(feed.Entries) == 0 || strings.TrimSpace(feed.Entries[0].Title) == "" {
		return rec, fmt.Errorf("no entries found for arXiv ID %s", arxivID)
	}

	entry := feed.Entries[0]
	rec.ID = arxivID
	rec.Title = collapseWhitespace(entry.Title)
	rec.Summary = collapseWhitespace(entry.Summary)
	rec.PDFURL = PDFURL(arxivID)

	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}

	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		rec.Published = t.Year()
	}
	return rec, nil
}

// collapseWhitespace folds the newline-wrapped fields of Atom entries
// into single-line strings.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
