// SQLite-backed vector store for document chunks.
//
// Information Hiding:
// - Schema and vector encoding encapsulated
// - Similarity ranking hidden behind Search
// - Thread-safe via sql.DB's built-in connection pooling

package rag

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"
)

// Chunk is one stored piece of an indexed document.
type Chunk struct {
	ID        string
	Source    string
	Text      string
	Embedding []float32
}

// ScoredChunk is a chunk with its similarity to a query vector.
type ScoredChunk struct {
	Chunk
	Score float64
}

// Store persists chunks and their embeddings in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates a chunk database at the given path.
// Creates parent directories if they don't exist.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// NewStoreInMemory creates an in-memory store (useful for testing).
func NewStoreInMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			text TEXT NOT NULL,
			embedding BLOB NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chunks_source
		ON chunks(source);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Upsert inserts chunks, replacing any existing rows with the same id.
// Re-indexing a document therefore overwrites its previous chunks.
func (s *Store) Upsert(ctx context.Context, chunks []Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// defer tx.Rollback() is safe even after Commit() - it becomes a no-op
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO chunks (id, source, text, embedding) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		blob, err := encodeVector(c.Embedding)
		if err != nil {
			return fmt.Errorf("failed to encode embedding for %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Source, c.Text, blob); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// Search returns the k chunks most similar to the query vector by
// cosine similarity, nearest first. k larger than the store is clamped.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, source, text, embedding FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var scored []ScoredChunk
	for rows.Next() {
		var c Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.Source, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		c.Embedding, err = decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedding for %s: %w", c.ID, err)
		}
		scored = append(scored, ScoredChunk{
			Chunk: c,
			Score: cosineSimilarity(query, c.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunks: %w", err)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// encodeVector packs a float32 vector into a little-endian BLOB.
func encodeVector(vec []float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, vec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeVector unpacks a little-endian BLOB into a float32 vector.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, &vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched dimensions or zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
