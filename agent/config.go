// Agent configuration types.
//
// Information Hiding:
// - Default values hidden

package agent

import (
	"github.com/nmoreau/scholar/tools"
)

// DefaultMaxSteps bounds the reasoning loop when no limit is configured.
const DefaultMaxSteps = 10

// DefaultSystemPrompt is the research assistant prompt used when none
// is configured.
const DefaultSystemPrompt = `You are a multi-modal research assistant. You can:
- Answer questions using your knowledge.
- Load and analyze documents (PDF, text, images) when the user provides file paths or asks about files.
- Summarize long documents.
- Search the web for current information when needed.
- Search for academic papers on Semantic Scholar and arXiv.
- Retrieve passages from the user's indexed knowledge base.

Use tools when they would improve your answer. Cite sources when you use web_search, paper search, or document content. If the user attaches images or PDFs, analyze them and respond accordingly. Be concise but thorough.`

// Config holds agent configuration.
type Config struct {
	// Name identifies the agent in logs and CLI output.
	Name string

	// SystemPrompt guides the agent's behavior.
	SystemPrompt string

	// MaxSteps bounds the number of model calls per run.
	MaxSteps int

	// Registry holds the tools the model may call.
	Registry *tools.Registry
}

// DefaultConfig returns the research assistant configuration.
func DefaultConfig() Config {
	return Config{
		Name:         "scholar",
		SystemPrompt: DefaultSystemPrompt,
		MaxSteps:     DefaultMaxSteps,
		Registry:     tools.NewRegistry(),
	}
}

// maxSteps returns the configured step limit, falling back to the default.
func (c *Config) maxSteps() int {
	if c.MaxSteps <= 0 {
		return DefaultMaxSteps
	}
	return c.MaxSteps
}

// systemPrompt returns the configured prompt, falling back to the default.
func (c *Config) systemPrompt() string {
	if c.SystemPrompt == "" {
		return DefaultSystemPrompt
	}
	return c.SystemPrompt
}
