// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing
// a consistent interface for chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Chat sends a plain chat completion request.
	Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error)

	// ChatWithTools sends a chat completion request with tool definitions
	// and automatic tool choice. The LLM may respond with tool calls in
	// LLMResponse.ToolCalls, in the order it emitted them.
	ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error)
}
