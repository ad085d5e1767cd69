// Knowledge base retrieval tool.
//
// Information Hiding:
// - Vector search details delegated to the rag package
// - Missing knowledge base handled as readable output, not an error

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nmoreau/scholar/rag"
)

const defaultRetrieveResults = 5

// KnowledgeSearchTool retrieves passages from the indexed knowledge base.
// A nil knowledge base is valid and reports unavailability to the model.
type KnowledgeSearchTool struct {
	kb *rag.KnowledgeBase
}

// NewKnowledgeSearchTool creates the retrieval tool. kb may be nil when
// no embedding provider is configured.
func NewKnowledgeSearchTool(kb *rag.KnowledgeBase) *KnowledgeSearchTool {
	return &KnowledgeSearchTool{kb: kb}
}

// Metadata returns the tool metadata.
func (t *KnowledgeSearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "retrieve_from_knowledge_base",
		Description: "Search the pre-indexed knowledge base for passages relevant to the query. Use when the user has added documents to the knowledge base and you need to find relevant context.",
		Parameters: []ToolParameter{
			{Name: "query", ParamType: "string", Description: "What to look for in the indexed documents", Required: true},
			{Name: "n_results", ParamType: "integer", Description: "Maximum number of passages to return", Required: false, Default: defaultRetrieveResults},
		},
	}
}

// Execute searches the knowledge base and formats matching passages.
func (t *KnowledgeSearchTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	if t.kb == nil {
		return SuccessResult("The knowledge base is not available. Configure an embedding provider to enable retrieval."), nil
	}

	var a struct {
		Query    string `json:"query"`
		NResults int    `json:"n_results"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return FailureResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	if strings.TrimSpace(a.Query) == "" {
		return FailureResultf("query cannot be empty"), nil
	}

	n := a.NResults
	if n <= 0 {
		n = defaultRetrieveResults
	}

	passages, err := t.kb.Retrieve(ctx, a.Query, n)
	if errors.Is(err, rag.ErrEmptyStore) {
		return SuccessResult("The knowledge base is empty. Index documents first with: scholar index <path_or_dir>"), nil
	}
	if err != nil {
		return SuccessResult(fmt.Sprintf("Retrieval error: %v", err)), nil
	}
	if len(passages) == 0 {
		return SuccessResult("No relevant passages found in the knowledge base."), nil
	}

	sections := make([]string, 0, len(passages))
	for i, p := range passages {
		sections = append(sections, fmt.Sprintf("[%d] (from %s)\n%s", i+1, p.Source, p.Text))
	}
	return SuccessResult(strings.Join(sections, "\n\n---\n\n")), nil
}
