// Package llm provides shared data models for LLM providers.
package llm

import "encoding/json"

// PartType identifies the kind of a message content part.
type PartType string

const (
	// PartText is a plain text content part.
	PartText PartType = "text"
	// PartImage is an inline base64-encoded image content part.
	PartImage PartType = "image"
)

// ContentPart is one element of a multi-modal message body.
// Order within a message is preserved and meaningful.
type ContentPart struct {
	Type      PartType `json:"type"`
	Text      string   `json:"text,omitempty"`
	ImageB64  string   `json:"image_b64,omitempty"`
	MediaType string   `json:"media_type,omitempty"`
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart creates an inline image content part from base64 data.
func ImagePart(b64, mediaType string) ContentPart {
	return ContentPart{Type: PartImage, ImageB64: b64, MediaType: mediaType}
}

// ChatMessage represents a chat message with role and content.
// When Parts is non-empty it carries the message body and Content is
// ignored by providers; plain-text messages use Content alone.
type ChatMessage struct {
	Role       string        `json:"role"`
	Content    string        `json:"content"`
	Parts      []ContentPart `json:"parts,omitempty"`
	ToolCalls  []ToolCall    `json:"tool_calls,omitempty"`   // For assistant messages with tool calls
	ToolCallID string        `json:"tool_call_id,omitempty"` // For tool result messages
	ToolName   string        `json:"name,omitempty"`         // Tool result messages: name of the called tool
}

// ToolCall represents a tool call requested by the LLM.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition defines a tool that the LLM can call.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema
}

// SystemMessage creates a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "system",
		Content: content,
	}
}

// UserMessage creates a plain-text user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "user",
		Content: content,
	}
}

// UserMessageParts creates a multi-modal user message.
func UserMessageParts(parts []ContentPart) ChatMessage {
	return ChatMessage{
		Role:  "user",
		Parts: parts,
	}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "assistant",
		Content: content,
	}
}

// ToolResultMessage creates a tool-role message answering one tool call.
func ToolResultMessage(callID, toolName, content string) ChatMessage {
	return ChatMessage{
		Role:       "tool",
		Content:    content,
		ToolCallID: callID,
		ToolName:   toolName,
	}
}

// LLMResponse represents a response from an LLM provider.
type LLMResponse struct {
	Content   string
	ToolCalls []ToolCall // Tool calls requested by the LLM, in emitted order
	Usage     *TokenUsage
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}
