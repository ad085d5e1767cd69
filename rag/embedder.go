// Embedding providers for the knowledge base.
//
// Information Hiding:
// - Per-provider embedding APIs (OpenAI, Ollama) internalized
// - Retry and truncation policy hidden behind the Embedder interface

package rag

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	openai "github.com/sashabaranov/go-openai"
)

// Embedder turns text into a vector. Implementations must be
// deterministic for identical input within one model version.
type Embedder interface {
	// Embed returns the embedding vector for the text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model returns the embedding model identifier.
	Model() string
}

// DefaultOpenAIEmbeddingModel is the embedding model used when none is
// configured.
const DefaultOpenAIEmbeddingModel = string(openai.SmallEmbedding3)

// OpenAIEmbedder embeds text with the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEmbedder creates an embedder for the given API key and
// model. An empty model selects the default; an empty baseURL uses the
// public endpoint.
func NewOpenAIEmbedder(apiKey, baseURL, model string) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIEmbeddingModel
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(model),
	}
}

// Embed returns the embedding for the text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}
	return resp.Data[0].Embedding, nil
}

// Model returns the embedding model identifier.
func (e *OpenAIEmbedder) Model() string {
	return string(e.model)
}

// Ollama embedding limits. Large chunks degrade embedding quality and
// the server rejects very long prompts, so input is truncated.
const (
	ollamaMaxInput      = 2048
	ollamaEmbedRetries  = 3
	ollamaEmbedBaseWait = time.Second
)

// OllamaEmbedder embeds text with a local Ollama server.
type OllamaEmbedder struct {
	client *api.Client
	model  string
}

// NewOllamaEmbedder creates an embedder against the given host URL
// (empty means http://localhost:11434) and model.
func NewOllamaEmbedder(host, model string) (*OllamaEmbedder, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host URL: %w", err)
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &OllamaEmbedder{
		client: api.NewClient(base, httpClient),
		model:  model,
	}, nil
}

// Embed returns the embedding for the text, retrying transient
// failures with exponential backoff.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > ollamaMaxInput {
		text = text[:ollamaMaxInput]
	}

	req := &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	}

	var lastErr error
	wait := ollamaEmbedBaseWait
	for attempt := 0; attempt < ollamaEmbedRetries; attempt++ {
		resp, err := e.client.Embeddings(ctx, req)
		if err == nil {
			vec := make([]float32, len(resp.Embedding))
			for i, v := range resp.Embedding {
				vec[i] = float32(v)
			}
			return vec, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return nil, fmt.Errorf("embedding failed after %d attempts: %w", ollamaEmbedRetries, lastErr)
}

// Model returns the embedding model identifier.
func (e *OllamaEmbedder) Model() string {
	return e.model
}
