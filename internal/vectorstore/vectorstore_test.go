// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/arxivhub/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func samplePaper(id, title string) types.PaperRecord {
	return types.PaperRecord{
		ID:         id,
		Title:      title,
		Authors:    []string{"Smith, J.", "Doe, A."},
		Published:  2023,
		Summary:    "We study efficient attention mechanisms for long sequences.",
		PDFURL:     "https://arxiv.org/pdf/" + id,
		IngestedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

// unitVec returns a vector with a 1.0 at position idx, so cosine scores
// between test vectors are exactly 0 or 1.
func unitVec(idx int) []float32 {
	v := make([]float32, 4)
	v[idx] = 1.0
	return v
}

// blendVec returns a vector between axes a and b; its cosine similarity
// against unitVec(a) is weight/|v|.
func blendVec(a, b int, weight float32) []float32 {
	v := make([]float32, 4)
	v[a] = weight
	v[b] = 1.0
	return v
}

func addPaper(t *testing.T, store *Store, userID, paperID string, chunks []Chunk) {
	t.Helper()
	rec := samplePaper(paperID, "Paper "+paperID)
	rec.TotalChunks = len(chunks)
	if err := store.AddPaper(context.Background(), userID, rec, chunks); err != nil {
		t.Fatal(err)
	}
}

// --- schema tests ---

func TestOpenCreatesSchema(t *testing.T) {
	store := testStore(t)

	for _, table := range []string{"papers", "chunks"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

// --- inventory tests ---

func TestAddPaperAndInventory(t *testing.T) {
	store := testStore(t)
	addPaper(t, store, "alice", "2301.07041", []Chunk{
		{Content: "chunk one", Embedding: unitVec(0)},
		{Content: "chunk two", Embedding: unitVec(1)},
	})

	inv, err := store.Inventory(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := inv["2301.07041"]
	if !ok {
		t.Fatalf("paper missing from inventory: %v", inv)
	}
	if rec.Title != "Paper 2301.07041" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.TotalChunks != 2 {
		t.Errorf("total chunks = %d, want 2", rec.TotalChunks)
	}
	if len(rec.Authors) != 2 {
		t.Errorf("authors = %v", rec.Authors)
	}
}

func TestAddPaperReplacesExisting(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	addPaper(t, store, "alice", "2301.07041", []Chunk{
		{Content: "old chunk a", Embedding: unitVec(0)},
		{Content: "old chunk b", Embedding: unitVec(1)},
		{Content: "old chunk c", Embedding: unitVec(2)},
	})
	addPaper(t, store, "alice", "2301.07041", []Chunk{
		{Content: "new chunk", Embedding: unitVec(0)},
	})

	n, err := store.CountChunks(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("chunk count after re-ingest = %d, want 1", n)
	}
}

func TestDeletePaper(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	addPaper(t, store, "alice", "2301.07041", []Chunk{{Content: "c", Embedding: unitVec(0)}})

	if err := store.DeletePaper(ctx, "alice", "2301.07041"); err != nil {
		t.Fatal(err)
	}

	has, err := store.HasPaper(ctx, "alice", "2301.07041")
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("paper still present after delete")
	}
	n, _ := store.CountChunks(ctx, "alice")
	if n != 0 {
		t.Errorf("chunks remain after delete: %d", n)
	}
}

func TestDeletePaperMissing(t *testing.T) {
	store := testStore(t)
	if err := store.DeletePaper(context.Background(), "alice", "9999.00000"); err == nil {
		t.Error("expected error deleting a paper not in the library")
	}
}

func TestSaveNotes(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	addPaper(t, store, "alice", "2301.07041", []Chunk{{Content: "c", Embedding: unitVec(0)}})

	if err := store.SaveNotes(ctx, "alice", "2301.07041", "read for seminar"); err != nil {
		t.Fatal(err)
	}
	inv, err := store.Inventory(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if inv["2301.07041"].Notes != "read for seminar" {
		t.Errorf("notes = %q", inv["2301.07041"].Notes)
	}
}

// --- search tests ---

func TestSearchUserIsolation(t *testing.T) {
	store := testStore(t)
	addPaper(t, store, "alice", "2301.07041", []Chunk{{Content: "alice chunk", Embedding: unitVec(0)}})
	addPaper(t, store, "bob", "2302.00001", []Chunk{{Content: "bob chunk", Embedding: unitVec(0)}})

	docs, err := store.Search(context.Background(), SearchRequest{
		UserID: "alice",
		Vector: unitVec(0),
		TopK:   10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1", len(docs))
	}
	if docs[0].Content != "alice chunk" {
		t.Errorf("leaked another user's chunk: %q", docs[0].Content)
	}
}

func TestSearchRequiresUserID(t *testing.T) {
	store := testStore(t)
	if _, err := store.Search(context.Background(), SearchRequest{Vector: unitVec(0)}); err == nil {
		t.Error("expected error for missing user ID")
	}
}

func TestSearchScoreThreshold(t *testing.T) {
	store := testStore(t)
	addPaper(t, store, "alice", "2301.07041", []Chunk{
		{Content: "on-topic", Embedding: unitVec(0)},
		{Content: "off-topic", Embedding: unitVec(1)},
	})

	docs, err := store.Search(context.Background(), SearchRequest{
		UserID:         "alice",
		Vector:         unitVec(0),
		TopK:           10,
		ScoreThreshold: 0.45,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1 (threshold should drop orthogonal chunk)", len(docs))
	}
	if docs[0].Content != "on-topic" {
		t.Errorf("kept wrong chunk: %q", docs[0].Content)
	}
}

func TestSearchTopKAndOrdering(t *testing.T) {
	store := testStore(t)
	addPaper(t, store, "alice", "2301.07041", []Chunk{
		{Content: "exact match", Embedding: unitVec(0)},
		{Content: "close match", Embedding: blendVec(0, 1, 2.0)},
		{Content: "weak match", Embedding: blendVec(0, 1, 0.9)},
	})

	docs, err := store.Search(context.Background(), SearchRequest{
		UserID: "alice",
		Vector: unitVec(0),
		TopK:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}
	if docs[0].Content != "exact match" || docs[1].Content != "close match" {
		t.Errorf("wrong ranking: %q, %q", docs[0].Content, docs[1].Content)
	}
	if docs[0].Score < docs[1].Score {
		t.Errorf("scores not descending: %f < %f", docs[0].Score, docs[1].Score)
	}
}

func TestSearchPaperFilter(t *testing.T) {
	store := testStore(t)
	addPaper(t, store, "alice", "2301.07041", []Chunk{{Content: "in scope", Embedding: unitVec(0)}})
	addPaper(t, store, "alice", "2302.00001", []Chunk{{Content: "out of scope", Embedding: unitVec(0)}})

	docs, err := store.Search(context.Background(), SearchRequest{
		UserID:   "alice",
		PaperIDs: []string{"2301.07041"},
		Vector:   unitVec(0),
		TopK:     10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].PaperID != "2301.07041" {
		t.Fatalf("paper filter not applied: %+v", docs)
	}
}

func TestGroupedSearch(t *testing.T) {
	store := testStore(t)
	// Paper A has four strong chunks, paper B one weaker chunk. A flat
	// search would fill top-K with paper A only.
	addPaper(t, store, "alice", "2301.07041", []Chunk{
		{Content: "a1", Embedding: unitVec(0)},
		{Content: "a2", Embedding: unitVec(0)},
		{Content: "a3", Embedding: unitVec(0)},
		{Content: "a4", Embedding: unitVec(0)},
	})
	addPaper(t, store, "alice", "2302.00001", []Chunk{
		{Content: "b1", Embedding: blendVec(0, 1, 2.0)},
	})

	docs, err := store.GroupedSearch(context.Background(), SearchRequest{
		UserID:   "alice",
		PaperIDs: []string{"2301.07041", "2302.00001"},
		Vector:   unitVec(0),
		TopK:     10,
	}, 3)
	if err != nil {
		t.Fatal(err)
	}

	perPaper := map[string]int{}
	for _, d := range docs {
		perPaper[d.PaperID]++
	}
	if perPaper["2301.07041"] != 3 {
		t.Errorf("paper A contributed %d chunks, want group size 3", perPaper["2301.07041"])
	}
	if perPaper["2302.00001"] != 1 {
		t.Errorf("paper B missing from grouped results: %v", perPaper)
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	addPaper(t, store, "alice", "2301.07041", []Chunk{{Content: "c", Embedding: unitVec(0)}})

	var buf strings.Builder
	if err := store.ExportYAML(context.Background(), "alice", &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "2301.07041") || !strings.Contains(out, "Paper 2301.07041") {
		t.Errorf("export missing paper data:\n%s", out)
	}
}
