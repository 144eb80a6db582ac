// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest downloads arXiv papers, extracts and chunks their text,
// and writes embedded chunks into the vector store.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/arxivhub/internal/embedding"
	"github.com/pdiddy/arxivhub/internal/httputil"
	"github.com/pdiddy/arxivhub/internal/vectorstore"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// rawDir is the subdirectory under the data dir for downloaded PDFs.
const rawDir = "raw"

// Store is the subset of the vector store the ingestor needs.
type Store interface {
	HasPaper(ctx context.Context, userID, paperID string) (bool, error)
	AddPaper(ctx context.Context, userID string, rec types.PaperRecord, chunks []vectorstore.Chunk) error
}

// Ingestor wires together metadata fetch, PDF download, text extraction,
// chunking, and embedding for a user's paper library.
type Ingestor struct {
	Client    *http.Client
	Converter Converter
	Embedder  embedding.Engine
	Store     Store
	Config    types.IngestionConfig
}

// BatchResult holds the outcome of a batch ingestion run.
type BatchResult struct {
	Ingested int
	Skipped  int
	Failed   int
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Ingested + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed ingestion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// IngestBatch processes multiple arXiv identifiers for one user, printing
// per-item status to w and returning a summary. It continues after
// individual failures and applies a delay between consecutive downloads.
func (ing *Ingestor) IngestBatch(ctx context.Context, userID string, identifiers []string, force bool, w io.Writer) BatchResult {
	var result BatchResult
	for i, id := range identifiers {
		if i > 0 && ing.Config.DownloadDelay > 0 {
			time.Sleep(ing.Config.DownloadDelay)
		}
		skipped, err := ing.IngestPaper(ctx, userID, id, force, w)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
		case skipped:
			result.Skipped++
		default:
			result.Ingested++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d ingested, %d skipped, %d failed (total: %d)\n",
		result.Ingested, result.Skipped, result.Failed, result.Total())
	return result
}

// IngestPaper ingests a single arXiv paper into the user's library. When
// the paper is already present and force is false, it is skipped. The
// skipped return value indicates whether ingestion was skipped.
func (ing *Ingestor) IngestPaper(ctx context.Context, userID, identifier string, force bool, w io.Writer) (skipped bool, err error) {
	arxivID, err := NormalizeID(identifier)
	if err != nil {
		return false, err
	}

	if !force {
		exists, err := ing.Store.HasPaper(ctx, userID, arxivID)
		if err != nil {
			return false, fmt.Errorf("checking library for %s: %w", arxivID, err)
		}
		if exists {
			fmt.Fprintf(w, "skipped: %s (already in library)\n", arxivID)
			return true, nil
		}
	}

	fmt.Fprintf(w, "fetching metadata: %s\n", arxivID)
	rec, err := FetchMetadata(ctx, ing.Client, arxivID, ing.Config.HTTPConfig)
	if err != nil {
		return false, fmt.Errorf("fetching metadata for %s: %w", arxivID, err)
	}

	text, err := ing.paperText(ctx, rec, w)
	if err != nil {
		return false, err
	}

	splitter := NewSplitter(ing.Config.ChunkSize, ing.Config.ChunkOverlap, ing.Config.MinChunkLength)
	pieces := splitter.Split(StripReferences(text))
	if len(pieces) == 0 {
		return false, fmt.Errorf("no usable text chunks for %s", arxivID)
	}

	fmt.Fprintf(w, "embedding: %s (%d chunks)\n", arxivID, len(pieces))
	vectors, err := ing.Embedder.EmbedDocuments(ctx, pieces)
	if err != nil {
		return false, fmt.Errorf("embedding %s: %w", arxivID, err)
	}
	if len(vectors) != len(pieces) {
		return false, fmt.Errorf("embedding %s: got %d vectors for %d chunks", arxivID, len(vectors), len(pieces))
	}

	chunks := make([]vectorstore.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = vectorstore.Chunk{Content: p, Embedding: vectors[i]}
	}

	rec.TotalChunks = len(chunks)
	rec.IngestedAt = time.Now().UTC()
	if err := ing.Store.AddPaper(ctx, userID, rec, chunks); err != nil {
		return false, fmt.Errorf("storing %s: %w", arxivID, err)
	}

	fmt.Fprintf(w, "ingested: %s (%s)\n", arxivID, rec.Title)
	return false, nil
}

// paperText downloads and extracts the full text of a paper. When the PDF
// cannot be fetched or converted, it falls back to the abstract so the
// paper is still searchable.
func (ing *Ingestor) paperText(ctx context.Context, rec types.PaperRecord, w io.Writer) (string, error) {
	pdfPath, err := ing.downloadPDF(ctx, rec, w)
	if err != nil {
		fmt.Fprintf(w, "  warning: PDF download failed, using abstract only: %v\n", err)
		return rec.Summary, nil
	}

	text, err := ing.Converter.Convert(ctx, pdfPath)
	if err != nil {
		fmt.Fprintf(w, "  warning: text extraction failed, using abstract only: %v\n", err)
		return rec.Summary, nil
	}
	return text, nil
}

// downloadPDF fetches the paper PDF into the data dir, reusing an existing
// file when present. Downloads go to a temp file first and are renamed on
// success.
func (ing *Ingestor) downloadPDF(ctx context.Context, rec types.PaperRecord, w io.Writer) (string, error) {
	dir := filepath.Join(ing.Config.DataDir, rawDir)
	pdfPath := filepath.Join(dir, rec.ID+".pdf")

	if _, err := os.Stat(pdfPath); err == nil {
		return pdfPath, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", rec.ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rec.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", ing.Config.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, ing.Client, req, 0)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, rec.PDFURL)
	}

	tmpFile, err := os.CreateTemp(dir, ".ingest-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, pdfPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return pdfPath, nil
}
