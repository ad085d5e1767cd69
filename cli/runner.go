// Command execution for CLI commands.
//
// Information Hiding:
// - Provider, knowledge base, and tool wiring hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/nmoreau/scholar/agent"
	"github.com/nmoreau/scholar/config"
	"github.com/nmoreau/scholar/llm"
	"github.com/nmoreau/scholar/rag"
	"github.com/nmoreau/scholar/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	MaxSteps int
	Verbose  bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		MaxSteps: agent.DefaultMaxSteps,
	}
}

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	agentColor  = color.New(color.FgGreen)
	infoColor   = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed)
)

// Ask runs a single research query with optional attached files.
func Ask(ctx context.Context, query string, files []string, opts Options) error {
	a, kb, err := buildAgent(opts)
	if err != nil {
		return err
	}
	if kb != nil {
		defer kb.Close()
	}

	infoColor.Println("Thinking...")
	fmt.Println()

	response := a.Run(ctx, query, files)
	return printResponse(response)
}

// Chat starts an interactive research session. Each turn prompts for a
// query and optional comma-separated file paths.
func Chat(ctx context.Context, opts Options) error {
	a, kb, err := buildAgent(opts)
	if err != nil {
		return err
	}
	if kb != nil {
		defer kb.Close()
	}

	sessionID := uuid.NewString()
	fmt.Printf("Research session %s. Type 'quit' or 'exit' to stop.\n\n", sessionID[:8])

	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Print("You: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		switch strings.ToLower(query) {
		case "quit", "exit", "q":
			return scanner.Err()
		}

		promptColor.Print("Files (comma-separated paths, or Enter to skip): ")
		if !scanner.Scan() {
			break
		}
		var files []string
		for _, p := range strings.Split(scanner.Text(), ",") {
			if p = strings.TrimSpace(p); p != "" {
				files = append(files, p)
			}
		}

		infoColor.Println("\nThinking...")
		fmt.Println()

		response := a.Run(ctx, query, files)
		if response.Type == agent.ResponseFailure {
			errColor.Fprintf(os.Stderr, "Error: %s\n\n", response.Error)
			continue
		}
		agentColor.Print("Agent: ")
		fmt.Printf("%s\n\n", response.ResultText())
	}
	return scanner.Err()
}

// Index adds a document or directory to the knowledge base without
// involving the agent.
func Index(ctx context.Context, path string, opts Options) error {
	settings, err := config.New(defaultProvider(opts.Provider))
	if err != nil {
		return err
	}

	kb, err := buildKnowledgeBase(settings)
	if err != nil {
		return fmt.Errorf("knowledge base unavailable: %w", err)
	}
	defer kb.Close()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot index %s: %w", path, err)
	}

	if info.IsDir() {
		count, errs := kb.IndexDirectory(ctx, path)
		fmt.Printf("Indexed %d file(s) from %s.\n", count, path)
		for _, e := range errs {
			errColor.Fprintf(os.Stderr, "  %v\n", e)
		}
		return nil
	}

	n, err := kb.IndexDocument(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d chunks from %s.\n", n, path)
	return nil
}

// ListTools prints the research tools the agent can use.
func ListTools(verbose bool) error {
	registry, err := buildRegistry(nil, nil)
	if err != nil {
		return err
	}

	fmt.Println("Available tools:")
	fmt.Println()
	for _, meta := range registry.List() {
		fmt.Printf("  %s\n", meta.Name)
		fmt.Printf("    %s\n", meta.Description)
		if verbose && len(meta.Parameters) > 0 {
			fmt.Println("    Parameters:")
			for _, param := range meta.Parameters {
				req := ""
				if param.Required {
					req = "*"
				}
				fmt.Printf("      %s%s: %s - %s\n", param.Name, req, param.ParamType, param.Description)
			}
		}
		fmt.Println()
	}
	return nil
}

// buildAgent wires settings, provider, knowledge base, and tools into
// a ready-to-run agent. The knowledge base may be nil when no
// embedding backend is configured; retrieval then reports itself
// unavailable instead of failing the whole CLI.
func buildAgent(opts Options) (*agent.Agent, *rag.KnowledgeBase, error) {
	providerName := defaultProvider(opts.Provider)

	settings, err := config.New(providerName)
	if err != nil {
		return nil, nil, err
	}

	provider, err := createProvider(providerName, settings)
	if err != nil {
		return nil, nil, err
	}

	kb, kbErr := buildKnowledgeBase(settings)
	if kbErr != nil && opts.Verbose {
		infoColor.Fprintf(os.Stderr, "Knowledge base disabled: %v\n", kbErr)
	}

	registry, err := buildRegistry(llm.NewClient(provider), kb)
	if err != nil {
		return nil, nil, err
	}

	cfg := agent.DefaultConfig()
	cfg.Registry = registry
	cfg.MaxSteps = settings.Agent.MaxSteps
	if opts.MaxSteps > 0 {
		cfg.MaxSteps = opts.MaxSteps
	}

	a := agent.New(cfg, provider)
	if opts.Verbose {
		a = a.Verbose(true).OnEvent(func(ev agent.Event) {
			if ev.Tool != "" {
				infoColor.Printf("[step %d] calling %s\n", ev.Step, ev.Tool)
			} else {
				infoColor.Printf("[step %d] reasoning...\n", ev.Step)
			}
		})
	}
	return a, kb, nil
}

// buildRegistry registers the research tools. The summarization tool
// is skipped when no chat client is available (tool listing mode).
func buildRegistry(client *llm.Client, kb *rag.KnowledgeBase) (*tools.Registry, error) {
	registry := tools.NewRegistry()

	set := []tools.Tool{
		tools.NewLoadDocumentTool(),
		tools.NewWebSearchTool(defaultToolTimeout),
		tools.NewPaperSearchTool(defaultToolTimeout),
		tools.NewKnowledgeSearchTool(kb),
	}
	if client != nil {
		set = append(set, tools.NewSummarizeDocumentTool(client))
	}

	for _, t := range set {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register tools: %w", err)
		}
	}
	return registry, nil
}

// buildKnowledgeBase opens the vector store and embedding backend.
func buildKnowledgeBase(settings config.Settings) (*rag.KnowledgeBase, error) {
	var embedder rag.Embedder
	switch settings.Knowledge.EmbeddingProvider {
	case "openai":
		apiKey, err := config.APIKeyFor("openai")
		if err != nil {
			return nil, err
		}
		embedder = rag.NewOpenAIEmbedder(apiKey, settings.LLM.BaseURL, settings.Knowledge.EmbeddingModel)
	case "ollama":
		e, err := rag.NewOllamaEmbedder(settings.Knowledge.OllamaHost, settings.Knowledge.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		embedder = e
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", settings.Knowledge.EmbeddingProvider)
	}

	store, err := rag.OpenStore(settings.Knowledge.DBPath)
	if err != nil {
		return nil, err
	}

	chunker, err := rag.NewChunker(settings.Knowledge.ChunkSize, settings.Knowledge.ChunkOverlap)
	if err != nil {
		store.Close()
		return nil, err
	}
	return rag.NewKnowledgeBase(store, embedder, chunker), nil
}

func createProvider(providerName string, settings config.Settings) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(providerName)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyFor(providerName)
	if err != nil {
		return nil, err
	}

	return providerType.
		Model(settings.LLM.Model).
		BaseURL(settings.LLM.BaseURL).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
}

// defaultProvider falls back to OpenAI when no provider flag is given.
func defaultProvider(name string) string {
	if name == "" {
		return "openai"
	}
	return name
}

func printResponse(response agent.Response) error {
	switch response.Type {
	case agent.ResponseSuccess:
		fmt.Printf("%s\n", response.Result)
		return nil
	case agent.ResponseStepLimit:
		infoColor.Println("Step limit reached. Last output:")
		fmt.Printf("%s\n", response.Result)
		return nil
	case agent.ResponseFailure:
		errColor.Fprintf(os.Stderr, "Error: %s\n", response.Error)
		return fmt.Errorf("research failed: %s", response.Error)
	default:
		return fmt.Errorf("unknown response type: %v", response.Type)
	}
}

// defaultToolTimeout bounds each network tool's HTTP client.
const defaultToolTimeout = 30 // seconds
