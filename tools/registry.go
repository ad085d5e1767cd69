// Tool registration and dispatch.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Dispatch failure handling internalized: callers get strings, never errors
// - Registration and discovery mechanisms abstracted

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nmoreau/scholar/llm"
)

// dispatchTimeout caps a single tool execution. Web and paper searches
// are the slowest tools and finish well under this.
const dispatchTimeout = 120 * time.Second

// Registry manages available tools with dynamic registration.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a new tool to the registry.
// Returns error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Metadata().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// Has checks if a tool exists in the registry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.tools[name]
	return exists
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for all registered tools in name order.
func (r *Registry) List() []ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata := make([]ToolMetadata, 0, len(r.tools))
	for _, tool := range r.tools {
		metadata = append(metadata, tool.Metadata())
	}
	sort.Slice(metadata, func(i, j int) bool {
		return metadata[i].Name < metadata[j].Name
	})
	return metadata
}

// Definitions returns tool definitions in the wire shape the chat
// providers consume, in name order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	metadata := r.List()

	defs := make([]llm.ToolDefinition, 0, len(metadata))
	for _, m := range metadata {
		defs = append(defs, llm.ToolDefinition{
			Name:        m.Name,
			Description: m.Description,
			Parameters:  m.Schema(),
		})
	}
	return defs
}

// Dispatch runs a named tool and always produces a string for the
// model. It never returns an error: unknown tools, tool failures, and
// panics all become diagnostic text the model can read and react to.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (output string) {
	tool, exists := r.Get(name)
	if !exists {
		return fmt.Sprintf("Unknown tool: %s. Available tools: %s",
			name, strings.Join(r.Names(), ", "))
	}

	defer func() {
		if rec := recover(); rec != nil {
			output = fmt.Sprintf("tool error: %v", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	result, err := tool.Execute(ctx, args)
	if err != nil {
		return fmt.Sprintf("tool error: %v", err)
	}
	if result.Error != nil {
		return fmt.Sprintf("tool error: %v", result.Error)
	}
	return result.Output
}
