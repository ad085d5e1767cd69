package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nmoreau/scholar/llm"
)

// scriptedProvider returns canned responses for summarization tests.
type scriptedProvider struct {
	response string
	calls    int
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-model" }

func (p *scriptedProvider) Chat(ctx context.Context, messages []llm.ChatMessage) (llm.LLMResponse, error) {
	p.calls++
	return llm.LLMResponse{Content: p.response}, nil
}

func (p *scriptedProvider) ChatWithTools(ctx context.Context, messages []llm.ChatMessage, tools []llm.ToolDefinition) (llm.LLMResponse, error) {
	return p.Chat(ctx, messages)
}

func TestLoadDocumentMissingFile(t *testing.T) {
	tool := NewLoadDocumentTool()

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"path":"/nonexistent/doc.txt"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success() {
		t.Fatalf("missing file should be reported as output, not failure")
	}
	if !strings.Contains(result.Output, "File not found") {
		t.Errorf("expected file-not-found message, got %q", result.Output)
	}
}

func TestLoadDocumentTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("the findings"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	tool := NewLoadDocumentTool()
	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Output != "the findings" {
		t.Errorf("unexpected output: %q", result.Output)
	}
}

func TestLoadDocumentImagePlaceholder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "figure.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50}, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	tool := NewLoadDocumentTool()
	args, _ := json.Marshal(map[string]string{"path": path})
	result, _ := tool.Execute(context.Background(), args)
	if !strings.Contains(result.Output, "Image file: figure.png") {
		t.Errorf("expected image placeholder, got %q", result.Output)
	}
}

func TestSummarizeShortTextReturnedVerbatim(t *testing.T) {
	provider := &scriptedProvider{response: "should not be used"}
	tool := NewSummarizeDocumentTool(llm.NewClient(provider))

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"text":"short note"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Output != "short note" {
		t.Errorf("short text must be returned verbatim, got %q", result.Output)
	}
	if provider.calls != 0 {
		t.Errorf("model should not be called for short text, got %d calls", provider.calls)
	}
}

func TestSummarizeLongTextUsesModel(t *testing.T) {
	provider := &scriptedProvider{response: "a concise summary"}
	tool := NewSummarizeDocumentTool(llm.NewClient(provider))

	long := strings.Repeat("research paragraph. ", 50)
	args, _ := json.Marshal(map[string]interface{}{"text": long})
	result, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Output != "a concise summary" {
		t.Errorf("unexpected summary: %q", result.Output)
	}
	if provider.calls != 1 {
		t.Errorf("expected one model call, got %d", provider.calls)
	}
}

func TestTitleKeyDeduplication(t *testing.T) {
	long := strings.Repeat("attention is all you need ", 4)
	a := titleKey(long + "VARIANT ONE")
	b := titleKey(long + "variant two")
	if a != b {
		t.Errorf("long titles should collide on the 60-char prefix: %q vs %q", a, b)
	}
	if titleKey("Paper A") == titleKey("Paper B") {
		t.Error("distinct short titles must not collide")
	}
}

func TestTopicTitle(t *testing.T) {
	if got := topicTitle("Go (language) - A compiled language."); got != "Go (language)" {
		t.Errorf("unexpected title: %q", got)
	}
	long := strings.Repeat("x", 100)
	if got := topicTitle(long); len(got) != 60 {
		t.Errorf("expected 60-char truncation, got %d chars", len(got))
	}
}

func TestKnowledgeSearchWithoutKnowledgeBase(t *testing.T) {
	tool := NewKnowledgeSearchTool(nil)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query":"anything"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success() {
		t.Fatal("unavailability must be reported as output, not failure")
	}
	if !strings.Contains(result.Output, "not available") {
		t.Errorf("expected unavailability message, got %q", result.Output)
	}
}

func TestWebSearchEmptyQuery(t *testing.T) {
	tool := NewWebSearchTool(5)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query":"  "}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success() {
		t.Error("empty query should produce a failure result")
	}
}

func TestPaperSearchEmptyQuery(t *testing.T) {
	tool := NewPaperSearchTool(5)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query":""}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Output, "provide a search query") {
		t.Errorf("expected guidance message, got %q", result.Output)
	}
}
