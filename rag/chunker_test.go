package rag

import (
	"strings"
	"testing"
)

// repeatingText builds a deterministic non-whitespace string of n chars
// so chunk contents can be checked by offset.
func repeatingText(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(alphabet)
	}
	return b.String()[:n]
}

func TestChunkEmptyText(t *testing.T) {
	c := DefaultChunker()
	if chunks := c.Chunk(""); chunks != nil {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
	if chunks := c.Chunk("   \n\t  "); chunks != nil {
		t.Errorf("expected no chunks for blank text, got %d", len(chunks))
	}
}

func TestChunkShortText(t *testing.T) {
	c := DefaultChunker()
	chunks := c.Chunk("a short document")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "a short document" {
		t.Errorf("unexpected chunk: %q", chunks[0])
	}
}

func TestChunkWindowOffsets(t *testing.T) {
	text := repeatingText(2000)
	c := DefaultChunker()

	chunks := c.Chunk(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 2000 chars, got %d", len(chunks))
	}
	if chunks[0] != text[0:800] {
		t.Errorf("chunk 0 does not cover [0,800)")
	}
	if chunks[1] != text[700:1500] {
		t.Errorf("chunk 1 does not cover [700,1500)")
	}
	if chunks[2] != text[1400:2000] {
		t.Errorf("chunk 2 does not cover [1400,2000)")
	}
}

func TestChunkOverlapBetweenNeighbors(t *testing.T) {
	text := repeatingText(1600)
	c := DefaultChunker()

	chunks := c.Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	tail := chunks[0][len(chunks[0])-100:]
	head := chunks[1][:100]
	if tail != head {
		t.Error("adjacent chunks do not share the 100-char overlap")
	}
}

func TestChunkDeterministic(t *testing.T) {
	text := repeatingText(3000)
	c := DefaultChunker()

	first := c.Chunk(text)
	second := c.Chunk(text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestChunkDropsBlankWindows(t *testing.T) {
	// A window of pure whitespace inside the text must be dropped.
	text := repeatingText(700) + strings.Repeat(" ", 800) + repeatingText(700)
	c := DefaultChunker()

	for i, chunk := range c.Chunk(text) {
		if strings.TrimSpace(chunk) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestNewChunkerValidation(t *testing.T) {
	if _, err := NewChunker(0, 0); err == nil {
		t.Error("zero size must be rejected")
	}
	if _, err := NewChunker(100, -1); err == nil {
		t.Error("negative overlap must be rejected")
	}
	if _, err := NewChunker(100, 100); err == nil {
		t.Error("overlap equal to size must be rejected")
	}
	if _, err := NewChunker(800, 100); err != nil {
		t.Errorf("valid parameters rejected: %v", err)
	}
}
