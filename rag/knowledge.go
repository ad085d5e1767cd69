// Knowledge base: indexing and retrieval over the chunk store.
//
// Information Hiding:
// - Chunking, embedding, and storage composed behind one type
// - Chunk id scheme internalized

package rag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nmoreau/scholar/multimodal"
)

// ErrEmptyStore is returned by Retrieve when nothing has been indexed.
var ErrEmptyStore = errors.New("knowledge base is empty")

// Passage is one retrieved piece of context.
type Passage struct {
	Text   string
	Source string
	Score  float64
}

// KnowledgeBase indexes documents and retrieves relevant passages.
type KnowledgeBase struct {
	store    *Store
	embedder Embedder
	chunker  *Chunker
}

// NewKnowledgeBase assembles a knowledge base from its parts. A nil
// chunker selects the default window parameters.
func NewKnowledgeBase(store *Store, embedder Embedder, chunker *Chunker) *KnowledgeBase {
	if chunker == nil {
		chunker = DefaultChunker()
	}
	return &KnowledgeBase{
		store:    store,
		embedder: embedder,
		chunker:  chunker,
	}
}

// Close releases the underlying store.
func (kb *KnowledgeBase) Close() error {
	return kb.store.Close()
}

// IndexDocument extracts, chunks, embeds, and stores one document.
// Returns the number of chunks written. Chunk ids are derived from the
// file name, so re-indexing a file replaces its chunks in place. If a
// document shrinks between indexings, trailing chunks from the earlier
// run remain; re-create the database to fully reset a source.
func (kb *KnowledgeBase) IndexDocument(ctx context.Context, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("file not found: %s", path)
	}
	if multimodal.IsImage(path) {
		return 0, fmt.Errorf("images cannot be indexed for text retrieval, use PDF or text files")
	}

	var text string
	var err error
	if multimodal.IsPDF(path) {
		text, err = multimodal.ExtractPDFText(path)
	} else {
		text, err = multimodal.ReadTextFile(path)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("no text extracted from %s", path)
	}

	pieces := kb.chunker.Chunk(text)
	if len(pieces) == 0 {
		return 0, fmt.Errorf("no chunks from %s", path)
	}

	name := filepath.Base(path)
	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		vec, err := kb.embedder.Embed(ctx, piece)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d of %s: %w", i, name, err)
		}
		chunks = append(chunks, Chunk{
			ID:        fmt.Sprintf("%s_%d", name, i),
			Source:    path,
			Text:      piece,
			Embedding: vec,
		})
	}

	if err := kb.store.Upsert(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// IndexDirectory indexes all PDF, .txt, and .md files directly in the
// directory (non-recursive). Returns the number of files indexed and
// any per-file errors; one bad file does not stop the rest.
func (kb *KnowledgeBase) IndexDirectory(ctx context.Context, dir string) (int, []error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return 0, []error{fmt.Errorf("not a directory: %s", dir)}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, []error{fmt.Errorf("failed to read directory: %w", err)}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt", ".md":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	count := 0
	var errs []error
	for _, name := range names {
		if _, err := kb.IndexDocument(ctx, filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		count++
	}
	return count, errs
}

// Retrieve returns up to k passages relevant to the query, nearest
// first. Returns ErrEmptyStore when nothing has been indexed.
func (kb *KnowledgeBase) Retrieve(ctx context.Context, query string, k int) ([]Passage, error) {
	total, err := kb.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrEmptyStore
	}
	if k > total {
		k = total
	}

	vec, err := kb.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := kb.store.Search(ctx, vec, k)
	if err != nil {
		return nil, err
	}

	passages := make([]Passage, 0, len(scored))
	for _, s := range scored {
		passages = append(passages, Passage{
			Text:   s.Text,
			Source: s.Source,
			Score:  s.Score,
		})
	}
	return passages, nil
}
