// OpenAI Provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for OpenAI Chat Completions API
// - Multi-modal content encoding (inline images as data URLs)

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI and
// OpenAI-compatible endpoints.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIProvider creates a new OpenAI provider. baseURL may be empty,
// in which case the default OpenAI endpoint is used.
func NewOpenAIProvider(apiKey, baseURL, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the current model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Chat sends a chat completion request.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return LLMResponse{Content: content, Usage: usage}, nil
}

// ChatWithTools sends a chat completion request with tool definitions
// and automatic tool choice.
func (p *OpenAIProvider) ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Tools:       convertToOpenAITools(tools),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	content := ""
	var toolCalls []ToolCall
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		// Convert OpenAI tool calls to our format, preserving order
		for _, tc := range resp.Choices[0].Message.ToolCalls {
			toolCalls = append(toolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: []byte(tc.Function.Arguments),
			})
		}
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return LLMResponse{Content: content, ToolCalls: toolCalls, Usage: usage}, nil
}

// convertToOpenAIMessages converts our ChatMessage to openai.ChatCompletionMessage,
// handling multi-modal parts, tool calls and tool responses.
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}

		// Multi-modal body: MultiContent and Content are mutually exclusive
		if len(msg.Parts) > 0 {
			oaiMsg.Content = ""
			oaiMsg.MultiContent = convertToOpenAIParts(msg.Parts)
		}

		// Handle tool calls from assistant
		if len(msg.ToolCalls) > 0 {
			for _, tc := range msg.ToolCalls {
				oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(tc.Arguments),
					},
				})
			}
		}

		// Handle tool response
		if msg.ToolCallID != "" {
			oaiMsg.ToolCallID = msg.ToolCallID
		}

		result[i] = oaiMsg
	}
	return result
}

// convertToOpenAIParts converts content parts to OpenAI message parts.
// Inline images travel as base64 data URLs.
func convertToOpenAIParts(parts []ContentPart) []openai.ChatMessagePart {
	result := make([]openai.ChatMessagePart, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case PartImage:
			result = append(result, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", part.MediaType, part.ImageB64),
				},
			})
		default:
			result = append(result, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: part.Text,
			})
		}
	}
	return result
}

// convertToOpenAITools converts tool definitions to OpenAI format.
func convertToOpenAITools(tools []ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return result
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
