// Package rag provides document chunking, embedding, and vector
// retrieval for the knowledge base.
//
// Information Hiding:
// - Chunk boundary arithmetic encapsulated in Chunker
// - Embedding provider APIs hidden behind the Embedder interface
// - Vector storage and similarity search hidden in Store
package rag

import (
	"fmt"
	"strings"
)

// Default chunking parameters, tuned for embedding model context and
// retrieval granularity.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

// Chunker splits text into overlapping fixed-size windows by character
// count. The same text always yields the same chunks.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker creates a chunker, validating that the overlap is smaller
// than the window so each step advances.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, size)
	}
	return &Chunker{Size: size, Overlap: overlap}, nil
}

// DefaultChunker returns a chunker with the default window parameters.
func DefaultChunker() *Chunker {
	return &Chunker{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap}
}

// Chunk splits the text into overlapping windows. Each window starts
// Size-Overlap characters after the previous one; windows are trimmed
// and windows that are entirely whitespace are dropped. Blank input
// yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	step := c.Size - c.Overlap
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + c.Size
		if end > len(text) {
			end = len(text)
		}
		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
