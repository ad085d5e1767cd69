// LLM Provider Factory - Ergonomic builder-first API for creating LLM providers.
//
// Quick Start:
//
//	// Simplest: use defaults, read API key from environment
//	openai, err := llm.ProviderOpenAI.FromEnv()
//	claude, err := llm.ProviderAnthropic.FromEnv()
//
//	// With custom model
//	mini, err := llm.ProviderOpenAI.Model(llm.ModelOpenAIGPT4oMini).FromEnv()
//
//	// Full configuration
//	custom, err := llm.ProviderOpenAI.
//	    Model(llm.ModelOpenAIGPT4o).
//	    BaseURL("http://localhost:8080/v1").
//	    MaxTokens(8192).
//	    Temperature(0.3).
//	    FromEnv()
//
//	// With explicit API key
//	provider, err := llm.ProviderOpenAI.Model(llm.ModelOpenAIGPT4o).APIKey("sk-...")

package llm

import (
	"fmt"
	"os"
	"strings"
)

// ProviderType represents supported LLM providers.
type ProviderType int

const (
	// ProviderOpenAI is the OpenAI provider (GPT models).
	ProviderOpenAI ProviderType = iota
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic
	// ProviderDeepSeek is the DeepSeek provider.
	ProviderDeepSeek
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderDeepSeek:
		return "deepseek"
	case ProviderGemini:
		return "gemini"
	default:
		return "unknown"
	}
}

// EnvVar returns the environment variable name for this provider's API key.
func (p ProviderType) EnvVar() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// DefaultModel returns the default model for this provider.
func (p ProviderType) DefaultModel() string {
	switch p {
	case ProviderOpenAI:
		return ModelOpenAIGPT4o
	case ProviderAnthropic:
		return ModelAnthropicClaudeSonnet4
	case ProviderDeepSeek:
		return ModelDeepSeekChat
	case ProviderGemini:
		return ModelGeminiFlash2
	default:
		return ""
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(s) {
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "deepseek":
		return ProviderDeepSeek, nil
	case "gemini", "google":
		return ProviderGemini, nil
	default:
		return 0, fmt.Errorf("unknown provider: %s", s)
	}
}

// FromEnv creates a provider with defaults, reading API key from environment.
func (p ProviderType) FromEnv() (Provider, error) {
	return NewProviderBuilder(p).FromEnv()
}

// Model starts configuring this provider with a specific model.
func (p ProviderType) Model(model string) *ProviderBuilder {
	return NewProviderBuilder(p).Model(model)
}

// APIKey creates a provider with an explicit API key (uses defaults for everything else).
func (p ProviderType) APIKey(key string) (Provider, error) {
	return NewProviderBuilder(p).APIKey(key)
}

// ProviderBuilder is a builder for configuring LLM providers.
type ProviderBuilder struct {
	providerType ProviderType
	model        string
	baseURL      string
	maxTokens    uint32
	temperature  *float32
}

// NewProviderBuilder creates a new builder for the given provider.
func NewProviderBuilder(providerType ProviderType) *ProviderBuilder {
	return &ProviderBuilder{
		providerType: providerType,
	}
}

// Model sets the model to use.
func (b *ProviderBuilder) Model(model string) *ProviderBuilder {
	b.model = model
	return b
}

// BaseURL sets a custom endpoint base URL (OpenAI-compatible hosts only).
func (b *ProviderBuilder) BaseURL(url string) *ProviderBuilder {
	b.baseURL = url
	return b
}

// MaxTokens sets maximum tokens for responses.
func (b *ProviderBuilder) MaxTokens(tokens uint32) *ProviderBuilder {
	b.maxTokens = tokens
	return b
}

// Temperature sets temperature (0.0 = deterministic, 1.0 = creative).
func (b *ProviderBuilder) Temperature(temp float32) *ProviderBuilder {
	b.temperature = &temp
	return b
}

// FromEnv builds the provider, reading API key from environment.
func (b *ProviderBuilder) FromEnv() (Provider, error) {
	envVar := b.providerType.EnvVar()
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %s environment variable not set", b.providerType, envVar)
	}
	return b.build(apiKey)
}

// APIKey builds the provider with an explicit API key.
func (b *ProviderBuilder) APIKey(key string) (Provider, error) {
	return b.build(key)
}

func (b *ProviderBuilder) build(apiKey string) (Provider, error) {
	model := b.model
	if model == "" {
		model = b.providerType.DefaultModel()
	}

	maxTokens := b.maxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	temperature := float32(0.7) // default
	if b.temperature != nil {
		temperature = *b.temperature
	}

	switch b.providerType {
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, b.baseURL, model, maxTokens, temperature), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, model, maxTokens, temperature), nil
	case ProviderDeepSeek:
		return NewDeepSeekProvider(apiKey, model, maxTokens, temperature), nil
	case ProviderGemini:
		return NewGeminiProvider(apiKey, model, maxTokens, temperature), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", b.providerType)
	}
}

// Model identifier constants for all supported providers.

// OpenAI model identifiers
const (
	// ModelOpenAIGPT4o is GPT-4o: multi-modal flagship, vision capable.
	ModelOpenAIGPT4o = "gpt-4o"
	// ModelOpenAIGPT4oMini is GPT-4o-mini: cheaper, vision capable.
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
	// ModelOpenAIO3Mini is O3-mini: efficient reasoning model, no vision.
	ModelOpenAIO3Mini = "o3-mini"
)

// Anthropic model identifiers
const (
	// ModelAnthropicClaudeSonnet4 is Claude Sonnet 4: balanced performance, vision capable.
	ModelAnthropicClaudeSonnet4 = "claude-sonnet-4-20250514"
	// ModelAnthropicClaudeHaiku4 is Claude Haiku 4: fast and efficient.
	ModelAnthropicClaudeHaiku4 = "claude-haiku-4-20250514"
)

// DeepSeek model identifiers
const (
	// ModelDeepSeekChat is the general chat model (text only).
	ModelDeepSeekChat = "deepseek-chat"
	// ModelDeepSeekReasoner is the reasoning model with chain-of-thought.
	ModelDeepSeekReasoner = "deepseek-reasoner"
)

// Gemini model identifiers
const (
	// ModelGeminiFlash2 is Gemini 2.0 Flash: speed optimized, vision capable.
	ModelGeminiFlash2 = "gemini-2.0-flash"
	// ModelGeminiPro2 is Gemini 2.0 Pro: stronger reasoning.
	ModelGeminiPro2 = "gemini-2.0-pro"
)
