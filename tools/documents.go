// Document loading and summarization tools.
//
// Information Hiding:
// - File format detection delegated to the multimodal package
// - Summarization model and prompting internalized

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nmoreau/scholar/llm"
	"github.com/nmoreau/scholar/multimodal"
)

// summarizeInputLimit caps how much document text is sent to the model
// in one summarization request.
const summarizeInputLimit = 12000

// defaultSummaryLength is the target summary size in characters when
// the caller does not specify one.
const defaultSummaryLength = 1500

// LoadDocumentTool reads a document from disk and returns its text.
type LoadDocumentTool struct{}

// NewLoadDocumentTool creates the document loading tool.
func NewLoadDocumentTool() *LoadDocumentTool {
	return &LoadDocumentTool{}
}

// Metadata returns the tool metadata.
func (t *LoadDocumentTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "load_document",
		Description: "Load a document from a file path. Supports PDF, text, and image files. Returns extracted text; for images returns a placeholder (use vision in the conversation for analysis).",
		Parameters: []ToolParameter{
			{Name: "path", ParamType: "string", Description: "Path to the file to load", Required: true},
		},
	}
}

// Execute loads the file. Problems are reported as output text rather
// than failures so the model can read them and recover.
func (t *LoadDocumentTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if a.Path == "" {
		return FailureResultf("path cannot be empty"), nil
	}

	if _, err := os.Stat(a.Path); err != nil {
		return SuccessResult(fmt.Sprintf("Error: File not found: %s", a.Path)), nil
	}

	name := filepath.Base(a.Path)

	switch {
	case multimodal.IsPDF(a.Path):
		text, err := multimodal.ExtractPDFText(a.Path)
		if err != nil {
			return SuccessResult(fmt.Sprintf("Error reading file: %v", err)), nil
		}
		return SuccessResult(text), nil

	case multimodal.IsImage(a.Path):
		return SuccessResult(fmt.Sprintf(
			"[Image file: %s. Use the assistant's vision capability to analyze this image.]", name)), nil

	default:
		text, err := multimodal.ReadTextFile(a.Path)
		if err != nil {
			return SuccessResult(fmt.Sprintf("Error reading file: %v", err)), nil
		}
		return SuccessResult(text), nil
	}
}

// SummarizeDocumentTool condenses long document text with the LLM.
type SummarizeDocumentTool struct {
	client *llm.Client
}

// NewSummarizeDocumentTool creates the summarization tool backed by the
// given chat client.
func NewSummarizeDocumentTool(client *llm.Client) *SummarizeDocumentTool {
	return &SummarizeDocumentTool{client: client}
}

// Metadata returns the tool metadata.
func (t *SummarizeDocumentTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "summarize_document",
		Description: "Summarize long document text into a concise summary, preserving key facts and conclusions.",
		Parameters: []ToolParameter{
			{Name: "text", ParamType: "string", Description: "The document text to summarize", Required: true},
			{Name: "max_length", ParamType: "integer", Description: "Target maximum summary length in characters", Required: false, Default: defaultSummaryLength},
		},
	}
}

// Execute summarizes the text. Short inputs are returned verbatim
// since summarizing them would lose information.
func (t *SummarizeDocumentTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a struct {
		Text      string `json:"text"`
		MaxLength int    `json:"max_length"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	if len(strings.TrimSpace(a.Text)) < 100 {
		return SuccessResult(a.Text), nil
	}

	maxLength := a.MaxLength
	if maxLength <= 0 {
		maxLength = defaultSummaryLength
	}

	input := a.Text
	if len(input) > summarizeInputLimit {
		input = input[:summarizeInputLimit]
	}

	prompt := fmt.Sprintf(
		"Summarize the following document concisely, preserving key facts and conclusions. Keep the summary under %d characters.\n\n---\n\n%s",
		maxLength, input)

	summary, err := t.client.Chat(ctx, []llm.ChatMessage{llm.UserMessage(prompt)})
	if err != nil {
		return FailureResult(fmt.Errorf("summarization failed: %w", err)), nil
	}
	return SuccessResult(summary), nil
}
