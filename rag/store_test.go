package rag

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("failed to create in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []Chunk{
		{ID: "doc.txt_0", Source: "doc.txt", Text: "first", Embedding: []float32{1, 0}},
		{ID: "doc.txt_1", Source: "doc.txt", Text: "second", Embedding: []float32{0, 1}},
	}
	if err := store.Upsert(ctx, chunks); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 chunks, got %d", count)
	}
}

func TestUpsertReplacesExistingIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, []Chunk{
		{ID: "doc.txt_0", Source: "doc.txt", Text: "old text", Embedding: []float32{1, 0}},
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, []Chunk{
		{ID: "doc.txt_0", Source: "doc.txt", Text: "new text", Embedding: []float32{0, 1}},
	}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 chunk after replace, got %d", count)
	}

	results, err := store.Search(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results[0].Text != "new text" {
		t.Errorf("expected replaced text, got %q", results[0].Text)
	}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, []Chunk{
		{ID: "a_0", Source: "a", Text: "aligned", Embedding: []float32{1, 0, 0}},
		{ID: "b_0", Source: "b", Text: "orthogonal", Embedding: []float32{0, 1, 0}},
		{ID: "c_0", Source: "c", Text: "close", Embedding: []float32{0.9, 0.1, 0}},
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Text != "aligned" {
		t.Errorf("expected nearest chunk first, got %q", results[0].Text)
	}
	if results[1].Text != "close" {
		t.Errorf("expected second nearest, got %q", results[1].Text)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not ordered by descending score")
	}
}

func TestSearchClampsK(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, []Chunk{
		{ID: "a_0", Source: "a", Text: "only", Embedding: []float32{1, 0}},
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.125, 0}
	blob, err := encodeVector(vec)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := decodeVector(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != len(vec) {
		t.Fatalf("length mismatch: %d vs %d", len(decoded), len(vec))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("element %d: %v != %v", i, decoded[i], vec[i])
		}
	}
}

func TestDecodeVectorRejectsBadLength(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for blob length not divisible by 4")
	}
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("mismatched dimensions should score 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero vector should score 0, got %v", got)
	}
	got := cosineSimilarity([]float32{2, 0}, []float32{5, 0})
	if got < 0.999 || got > 1.001 {
		t.Errorf("parallel vectors should score 1, got %v", got)
	}
}
