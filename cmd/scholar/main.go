// Command scholar is a multi-modal research assistant.
//
// It answers research questions with an LLM that can load documents,
// search the web and academic indexes, and retrieve from a local
// knowledge base built with `scholar index`.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nmoreau/scholar/cli"
)

var opts = cli.DefaultOptions()

func main() {
	// Missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	root := &cobra.Command{
		Use:           "scholar",
		Short:         "Multi-modal research assistant with web, paper, and knowledge base search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.Provider, "provider", "p", "openai",
		"LLM provider (openai, anthropic, deepseek, gemini)")
	root.PersistentFlags().IntVarP(&opts.MaxSteps, "max-steps", "m", opts.MaxSteps,
		"maximum reasoning steps per query")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"show reasoning and tool progress")

	root.AddCommand(askCmd(), chatCmd(), indexCmd(), toolsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single research question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(context.Background(), args[0], files, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&files, "files", "f", nil,
		"files to attach (images, PDFs, or text)")
	return cmd
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive research session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), opts)
		},
	}
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <path_or_dir>",
		Short: "Index a document or directory into the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Index(context.Background(), args[0], opts)
		},
	}
}

func toolsCmd() *cobra.Command {
	var showParams bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools available to the agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListTools(showParams)
		},
	}
	cmd.Flags().BoolVarP(&showParams, "params", "V", false, "show tool parameters")
	return cmd
}
