// Research agent loop: the model reasons, requests tools, and reads
// their results until it produces a final answer or runs out of steps.
//
// Information Hiding:
// - Conversation assembly and message ordering hidden
// - Tool dispatch coordination hidden
// - Multi-modal input rendering hidden

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nmoreau/scholar/llm"
	"github.com/nmoreau/scholar/multimodal"
)

// stepLimitFallback is returned when the step budget runs out and the
// conversation holds no usable content.
const stepLimitFallback = "Max steps reached."

// Agent drives the tool-augmented reasoning loop.
type Agent struct {
	config  Config
	client  *llm.Client
	verbose bool
	onEvent func(Event)
}

// Event reports loop progress for interactive display.
type Event struct {
	// Step is the 1-based model call number.
	Step int
	// Tool is the name of the tool being called, empty for model calls.
	Tool string
}

// New creates an agent with the given configuration and provider.
func New(config Config, provider llm.Provider) *Agent {
	return &Agent{
		config: config,
		client: llm.NewClient(provider),
	}
}

// Verbose enables progress output hooks.
func (a *Agent) Verbose(enabled bool) *Agent {
	a.verbose = enabled
	return a
}

// OnEvent registers a callback invoked before each model call and each
// tool dispatch.
func (a *Agent) OnEvent(fn func(Event)) *Agent {
	a.onEvent = fn
	return a
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.config.Name
}

// Run executes one research query with optional attached files and
// returns the final answer. Attached images reach vision-capable
// models as inline image parts; documents arrive as labeled text.
func (a *Agent) Run(ctx context.Context, query string, files []string) Response {
	startTime := time.Now()
	maxSteps := a.config.maxSteps()
	defs := a.config.Registry.Definitions()

	var meta Metadata
	finish := func() Metadata {
		meta.ExecutionTimeMs = uint64(time.Since(startTime).Milliseconds())
		return meta
	}

	conversation := []llm.ChatMessage{
		llm.SystemMessage(a.config.systemPrompt()),
		llm.UserMessageParts(renderBlocks(multimodal.Build(query, files))),
	}

	for step := 0; step < maxSteps; step++ {
		if ctx.Err() != nil {
			return NewFailureResponse(
				fmt.Sprintf("run cancelled: %v", ctx.Err()), finish())
		}

		a.emit(Event{Step: step + 1})

		response, err := a.client.ChatWithTools(ctx, conversation, defs)
		if err != nil {
			return NewFailureResponse(
				fmt.Sprintf("model call failed: %v", err), finish())
		}
		meta.LLMCalls++
		if response.Usage != nil {
			meta.TokenUsage.PromptTokens += response.Usage.PromptTokens
			meta.TokenUsage.CompletionTokens += response.Usage.CompletionTokens
			meta.TokenUsage.TotalTokens += response.Usage.TotalTokens
		}

		// The assistant turn goes into the conversation with its tool
		// calls intact so every later tool message has its anchor.
		assistant := llm.AssistantMessage(response.Content)
		assistant.ToolCalls = response.ToolCalls
		conversation = append(conversation, assistant)

		if len(response.ToolCalls) == 0 {
			return NewSuccessResponse(strings.TrimSpace(response.Content), finish())
		}

		for _, call := range response.ToolCalls {
			a.emit(Event{Step: step + 1, Tool: call.Name})

			args := call.Arguments
			if !json.Valid(args) || len(args) == 0 {
				args = json.RawMessage("{}")
			}
			output := a.config.Registry.Dispatch(ctx, call.Name, args)
			meta.ToolCalls++

			conversation = append(conversation,
				llm.ToolResultMessage(call.ID, call.Name, output))
		}
	}

	last := conversation[len(conversation)-1].Content
	result := strings.TrimSpace(last)
	if result == "" {
		result = stepLimitFallback
	}
	return NewStepLimitResponse(result, finish())
}

func (a *Agent) emit(ev Event) {
	if a.verbose && a.onEvent != nil {
		a.onEvent(ev)
	}
}

// renderBlocks converts multimodal blocks into provider content parts.
// Document blocks become labeled text so text-only context survives.
func renderBlocks(blocks []multimodal.Block) []llm.ContentPart {
	parts := make([]llm.ContentPart, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case multimodal.BlockImage:
			parts = append(parts, llm.ImagePart(b.ImageB64, b.MediaType))
		case multimodal.BlockDocument:
			label := "File"
			if multimodal.IsPDF(b.Source) {
				label = "PDF"
			}
			parts = append(parts, llm.TextPart(
				fmt.Sprintf("[%s: %s]\n\n%s", label, b.Source, b.Text)))
		default:
			parts = append(parts, llm.TextPart(b.Text))
		}
	}
	return parts
}
