// DeepSeek Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses OpenAI-compatible API with different base URL
// - Supports deepseek-chat and deepseek-reasoner models

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// DeepSeekProvider implements the Provider interface for DeepSeek.
// DeepSeek models are text-only; multi-modal parts are flattened to text.
type DeepSeekProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(apiKey, model string, maxTokens uint32, temperature float32) *DeepSeekProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = deepseekBaseURL

	return &DeepSeekProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

// Model returns the current model.
func (p *DeepSeekProvider) Model() string {
	return p.model
}

// Chat sends a chat completion request.
func (p *DeepSeekProvider) Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            convertToOpenAIMessages(flattenParts(messages)),
		MaxCompletionTokens: p.maxTokens,
		Temperature:         p.temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	// DeepSeek returns token usage in the standard OpenAI format
	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return LLMResponse{Content: content, Usage: usage}, nil
}

// ChatWithTools sends a chat completion request with tool definitions.
func (p *DeepSeekProvider) ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            convertToOpenAIMessages(flattenParts(messages)),
		MaxCompletionTokens: p.maxTokens,
		Temperature:         p.temperature,
		Tools:               convertToOpenAITools(tools),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	content := ""
	var toolCalls []ToolCall
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
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

// flattenParts collapses multi-modal parts into plain text for providers
// without vision support. Image parts become a short placeholder note.
func flattenParts(messages []ChatMessage) []ChatMessage {
	result := make([]ChatMessage, len(messages))
	for i, msg := range messages {
		if len(msg.Parts) == 0 {
			result[i] = msg
			continue
		}
		flat := msg
		flat.Parts = nil
		content := ""
		for _, part := range msg.Parts {
			if content != "" {
				content += "\n\n"
			}
			switch part.Type {
			case PartImage:
				content += fmt.Sprintf("[Attached image (%s) omitted: this model has no vision support.]", part.MediaType)
			default:
				content += part.Text
			}
		}
		flat.Content = content
		result[i] = flat
	}
	return result
}

// Verify DeepSeekProvider implements Provider
var _ Provider = (*DeepSeekProvider)(nil)
