// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/arxivhub/internal/vectorstore"
	"github.com/pdiddy/arxivhub/pkg/types"
)

// --- identifier tests ---

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2301.07041", want: "2301.07041"},
		{in: "arXiv:2301.07041", want: "2301.07041"},
		{in: "2301.07041v2", want: "2301.07041v2"},
		{in: " 2301.07041 ", want: "2301.07041"},
		{in: "10.1145/1234567", wantErr: true},
		{in: "not-an-id", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeID(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeID(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- metadata tests ---

const sampleAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Attention Is
     All You Need</title>
    <summary>  The dominant sequence transduction models are based on
     complex recurrent networks.  </summary>
    <published>2023-01-17T14:00:00Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

func TestFetchMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_list"); got != "2301.07041" {
			t.Errorf("id_list = %q", got)
		}
		fmt.Fprint(w, sampleAtom)
	}))
	defer ts.Close()

	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = orig }()

	rec, err := FetchMetadata(context.Background(), ts.Client(), "2301.07041", types.HTTPConfig{UserAgent: "test"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Title != "Attention Is All You Need" {
		t.Errorf("title = %q (whitespace not collapsed?)", rec.Title)
	}
	if rec.Published != 2023 {
		t.Errorf("published = %d", rec.Published)
	}
	if len(rec.Authors) != 2 || rec.Authors[0] != "Ashish Vaswani" {
		t.Errorf("authors = %v", rec.Authors)
	}
	if rec.PDFURL == "" {
		t.Error("PDF URL not set")
	}
}

func TestFetchMetadataNoEntries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	}))
	defer ts.Close()

	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = orig }()

	if _, err := FetchMetadata(context.Background(), ts.Client(), "9999.99999", types.HTTPConfig{}); err == nil {
		t.Error("expected error for empty feed")
	}
}

// --- ingestion flow ---

type fakeConverter struct {
	text string
	err  error
}

func (f fakeConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	return f.text, f.err
}

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type fakeStore struct {
	papers map[string]types.PaperRecord
	chunks map[string][]vectorstore.Chunk
}

func newFakeStore() *fakeStore {
	return &fakeStore{papers: map[string]types.PaperRecord{}, chunks: map[string][]vectorstore.Chunk{}}
}

func (f *fakeStore) HasPaper(ctx context.Context, userID, paperID string) (bool, error) {
	_, ok := f.papers[userID+"/"+paperID]
	return ok, nil
}

func (f *fakeStore) AddPaper(ctx context.Context, userID string, rec types.PaperRecord, chunks []vectorstore.Chunk) error {
	f.papers[userID+"/"+rec.ID] = rec
	f.chunks[userID+"/"+rec.ID] = chunks
	return nil
}

// testIngestor wires an Ingestor against a local arXiv stand-in serving
// both the metadata API and the PDF download.
func testIngestor(t *testing.T, conv Converter) (*Ingestor, *fakeStore) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleAtom)
	})
	mux.HandleFunc("/pdf/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "%PDF-1.4 fake pdf bytes")
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	origAPI, origPDF := arxivAPIBase, arxivPDFBase
	arxivAPIBase = ts.URL + "/api/query"
	arxivPDFBase = ts.URL + "/pdf/"
	t.Cleanup(func() { arxivAPIBase, arxivPDFBase = origAPI, origPDF })

	store := newFakeStore()
	ing := &Ingestor{
		Client:    ts.Client(),
		Converter: conv,
		Embedder:  fakeEmbedder{},
		Store:     store,
		Config: types.IngestionConfig{
			DataDir:        t.TempDir(),
			ChunkSize:      200,
			ChunkOverlap:   40,
			MinChunkLength: 20,
		},
	}
	return ing, store
}

func TestIngestPaper(t *testing.T) {
	fullText := strings.Repeat("The transformer architecture relies entirely on attention. ", 30)
	ing, store := testIngestor(t, fakeConverter{text: fullText})

	var buf strings.Builder
	skipped, err := ing.IngestPaper(context.Background(), "alice", "2301.07041", false, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if skipped {
		t.Error("fresh paper reported as skipped")
	}

	rec, ok := store.papers["alice/2301.07041"]
	if !ok {
		t.Fatal("paper not stored")
	}
	if rec.TotalChunks == 0 || rec.TotalChunks != len(store.chunks["alice/2301.07041"]) {
		t.Errorf("chunk bookkeeping wrong: total=%d stored=%d", rec.TotalChunks, len(store.chunks["alice/2301.07041"]))
	}
	if rec.IngestedAt.IsZero() {
		t.Error("ingested timestamp not set")
	}
}

func TestIngestPaperSkipsExisting(t *testing.T) {
	ing, store := testIngestor(t, fakeConverter{text: "text"})
	store.papers["alice/2301.07041"] = types.PaperRecord{ID: "2301.07041"}

	var buf strings.Builder
	skipped, err := ing.IngestPaper(context.Background(), "alice", "2301.07041", false, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if !skipped {
		t.Error("existing paper not skipped")
	}
}

func TestIngestPaperForceReingests(t *testing.T) {
	fullText := strings.Repeat("Attention mechanisms replace recurrence entirely here. ", 30)
	ing, store := testIngestor(t, fakeConverter{text: fullText})
	store.papers["alice/2301.07041"] = types.PaperRecord{ID: "2301.07041"}

	var buf strings.Builder
	skipped, err := ing.IngestPaper(context.Background(), "alice", "2301.07041", true, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if skipped {
		t.Error("force ingest was skipped")
	}
	if len(store.chunks["alice/2301.07041"]) == 0 {
		t.Error("paper not re-ingested")
	}
}

func TestIngestPaperConversionFallback(t *testing.T) {
	// When text extraction fails, the abstract still gets ingested so the
	// paper is searchable.
	ing, store := testIngestor(t, fakeConverter{err: fmt.Errorf("pdftotext not found")})
	ing.Config.MinChunkLength = 10

	var buf strings.Builder
	if _, err := ing.IngestPaper(context.Background(), "alice", "2301.07041", false, &buf); err != nil {
		t.Fatal(err)
	}
	chunks := store.chunks["alice/2301.07041"]
	if len(chunks) == 0 {
		t.Fatal("no chunks stored from abstract fallback")
	}
	if !strings.Contains(chunks[0].Content, "sequence transduction") {
		t.Errorf("fallback chunk is not the abstract: %q", chunks[0].Content)
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Error("no warning printed for extraction failure")
	}
}

func TestIngestBatchContinuesAfterFailure(t *testing.T) {
	ing, _ := testIngestor(t, fakeConverter{text: strings.Repeat("Contentful sentence about attention models. ", 20)})

	var buf strings.Builder
	result := ing.IngestBatch(context.Background(), "alice", []string{"bogus-id", "2301.07041"}, false, &buf)
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if result.Ingested != 1 {
		t.Errorf("ingested = %d, want 1", result.Ingested)
	}
	if !strings.Contains(buf.String(), "Batch summary: 1 ingested, 0 skipped, 1 failed") {
		t.Errorf("summary missing:\n%s", buf.String())
	}
}
