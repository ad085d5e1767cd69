package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nmoreau/scholar/llm"
	"github.com/nmoreau/scholar/tools"
)

// scriptedProvider returns queued responses and records what it saw.
type scriptedProvider struct {
	responses     []llm.LLMResponse
	calls         int
	conversations [][]llm.ChatMessage
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-model" }

func (p *scriptedProvider) Chat(ctx context.Context, messages []llm.ChatMessage) (llm.LLMResponse, error) {
	return p.ChatWithTools(ctx, messages, nil)
}

func (p *scriptedProvider) ChatWithTools(ctx context.Context, messages []llm.ChatMessage, defs []llm.ToolDefinition) (llm.LLMResponse, error) {
	snapshot := make([]llm.ChatMessage, len(messages))
	copy(snapshot, messages)
	p.conversations = append(p.conversations, snapshot)

	idx := p.calls
	p.calls++
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

// echoTool reports back its arguments.
type echoTool struct{}

func (echoTool) Metadata() tools.ToolMetadata {
	return tools.ToolMetadata{
		Name:        "echo",
		Description: "echoes input",
		Parameters: []tools.ToolParameter{
			{Name: "text", ParamType: "string", Description: "text to echo", Required: true},
		},
	}
}

func (echoTool) Execute(ctx context.Context, args json.RawMessage) (tools.ToolResult, error) {
	var a struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return tools.FailureResultf("bad args"), nil
	}
	return tools.SuccessResult("echo: " + a.Text), nil
}

// brokenTool always fails.
type brokenTool struct{}

func (brokenTool) Metadata() tools.ToolMetadata {
	return tools.ToolMetadata{Name: "broken", Description: "always fails"}
}

func (brokenTool) Execute(ctx context.Context, args json.RawMessage) (tools.ToolResult, error) {
	return tools.FailureResultf("backend unavailable"), nil
}

func newTestAgent(t *testing.T, provider llm.Provider, maxSteps int) *Agent {
	t.Helper()
	registry := tools.NewRegistry()
	if err := registry.Register(echoTool{}); err != nil {
		t.Fatalf("register echo: %v", err)
	}
	if err := registry.Register(brokenTool{}); err != nil {
		t.Fatalf("register broken: %v", err)
	}
	cfg := DefaultConfig()
	cfg.MaxSteps = maxSteps
	cfg.Registry = registry
	return New(cfg, provider)
}

func TestRunDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.LLMResponse{
		{Content: "  The answer is 42.  "},
	}}
	a := newTestAgent(t, provider, 5)

	resp := a.Run(context.Background(), "what is the answer?", nil)
	if !resp.IsSuccess() {
		t.Fatalf("expected success, got %v (%s)", resp.Type, resp.Error)
	}
	if resp.Result != "The answer is 42." {
		t.Errorf("expected trimmed answer, got %q", resp.Result)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 model call, got %d", provider.calls)
	}

	// system + user, nothing else sent on the first call
	first := provider.conversations[0]
	if len(first) != 2 {
		t.Fatalf("expected 2 messages on first call, got %d", len(first))
	}
	if first[0].Role != "system" || first[1].Role != "user" {
		t.Errorf("unexpected roles: %s, %s", first[0].Role, first[1].Role)
	}
}

func TestRunToolCallThenAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.LLMResponse{
		{ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "echo", Arguments: json.RawMessage(`{"text":"hello"}`)},
		}},
		{Content: "Done."},
	}}
	a := newTestAgent(t, provider, 5)

	resp := a.Run(context.Background(), "use the echo tool", nil)
	if !resp.IsSuccess() {
		t.Fatalf("expected success, got %v", resp.Type)
	}
	if resp.Metadata.ToolCalls != 1 {
		t.Errorf("expected 1 tool call, got %d", resp.Metadata.ToolCalls)
	}

	// Second model call sees assistant turn plus the tool result.
	second := provider.conversations[1]
	if len(second) != 4 {
		t.Fatalf("expected 4 messages on second call, got %d", len(second))
	}
	assistant := second[2]
	if assistant.Role != "assistant" || len(assistant.ToolCalls) != 1 {
		t.Errorf("assistant turn must preserve its tool calls: %+v", assistant)
	}
	result := second[3]
	if result.Role != "tool" || result.ToolCallID != "call_1" {
		t.Errorf("tool result must reference its call id: %+v", result)
	}
	if result.Content != "echo: hello" {
		t.Errorf("unexpected tool output: %q", result.Content)
	}
}

func TestRunMultipleToolCallsPairedInOrder(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.LLMResponse{
		{ToolCalls: []llm.ToolCall{
			{ID: "call_a", Name: "broken", Arguments: json.RawMessage(`{}`)},
			{ID: "call_b", Name: "echo", Arguments: json.RawMessage(`{"text":"second"}`)},
		}},
		{Content: "Recovered."},
	}}
	a := newTestAgent(t, provider, 5)

	resp := a.Run(context.Background(), "run both", nil)
	if !resp.IsSuccess() {
		t.Fatalf("expected success despite failing tool, got %v", resp.Type)
	}

	second := provider.conversations[1]
	if len(second) != 5 {
		t.Fatalf("expected 5 messages on second call, got %d", len(second))
	}
	first, next := second[3], second[4]
	if first.ToolCallID != "call_a" || next.ToolCallID != "call_b" {
		t.Errorf("tool results out of order: %s, %s", first.ToolCallID, next.ToolCallID)
	}
	if !strings.Contains(first.Content, "tool error:") {
		t.Errorf("failing tool must surface as diagnostic text, got %q", first.Content)
	}
	if next.Content != "echo: second" {
		t.Errorf("second tool result wrong: %q", next.Content)
	}
}

func TestRunUnknownToolContinues(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.LLMResponse{
		{ToolCalls: []llm.ToolCall{
			{ID: "call_x", Name: "imaginary", Arguments: json.RawMessage(`{}`)},
		}},
		{Content: "Adjusted."},
	}}
	a := newTestAgent(t, provider, 5)

	resp := a.Run(context.Background(), "try it", nil)
	if !resp.IsSuccess() {
		t.Fatalf("expected success, got %v", resp.Type)
	}

	second := provider.conversations[1]
	diag := second[len(second)-1].Content
	if !strings.Contains(diag, "Unknown tool: imaginary") {
		t.Errorf("expected unknown-tool diagnostic, got %q", diag)
	}
}

func TestRunMalformedArgumentsBecomeEmptyObject(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.LLMResponse{
		{ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "echo", Arguments: json.RawMessage(`{not json`)},
		}},
		{Content: "Fine."},
	}}
	a := newTestAgent(t, provider, 5)

	resp := a.Run(context.Background(), "go", nil)
	if !resp.IsSuccess() {
		t.Fatalf("expected success, got %v", resp.Type)
	}

	second := provider.conversations[1]
	out := second[len(second)-1].Content
	// echo with empty args echoes nothing but must not error
	if out != "echo: " {
		t.Errorf("expected empty-argument echo, got %q", out)
	}
}

func TestRunStepLimit(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.LLMResponse{
		{ToolCalls: []llm.ToolCall{
			{ID: "call_loop", Name: "echo", Arguments: json.RawMessage(`{"text":"again"}`)},
		}},
	}}
	a := newTestAgent(t, provider, 3)

	resp := a.Run(context.Background(), "never finishes", nil)
	if resp.Type != ResponseStepLimit {
		t.Fatalf("expected step limit, got %v", resp.Type)
	}
	if provider.calls != 3 {
		t.Errorf("expected exactly 3 model calls, got %d", provider.calls)
	}
	if resp.Result == "" {
		t.Error("step limit response must carry a non-empty result")
	}
	if resp.Result != "echo: again" {
		t.Errorf("expected last tool output as result, got %q", resp.Result)
	}
}

func TestRunCancelledContext(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.LLMResponse{
		{Content: "never"},
	}}
	a := newTestAgent(t, provider, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := a.Run(ctx, "query", nil)
	if resp.Type != ResponseFailure {
		t.Fatalf("expected failure for cancelled context, got %v", resp.Type)
	}
	if provider.calls != 0 {
		t.Errorf("no model calls expected after cancellation, got %d", provider.calls)
	}
}

func TestRunEmptyQueryGetsPlaceholder(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.LLMResponse{
		{Content: "ok"},
	}}
	a := newTestAgent(t, provider, 5)

	a.Run(context.Background(), "", nil)

	user := provider.conversations[0][1]
	if len(user.Parts) != 1 || user.Parts[0].Text != "No input provided." {
		t.Errorf("expected placeholder part, got %+v", user.Parts)
	}
}
