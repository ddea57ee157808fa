// Package main provides the pacemate CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbruckner/pacemate/cli"
)

var (
	// Global flags
	provider string
	model    string
	dataDir  string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "pacemate",
		Short: "Agentic fitness coach in your terminal",
		Long: `Pacemate is a conversational fitness coach built on a tool-calling
agent loop. The model reads your athlete profile, logs activities,
tracks beliefs about your training, and answers as a coach would.

Sessions persist as JSONL transcripts and can be resumed later.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (gemini, openai, anthropic, deepseek)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "Model name override")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory (default: PACEMATE_DATA_DIR or ./data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options(resume string) cli.Options {
	return cli.Options{
		Provider: provider,
		Model:    model,
		DataDir:  dataDir,
		Resume:   resume,
		Verbose:  verbose,
	}
}

func chatCmd() *cobra.Command {
	var resume string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive coaching session",
		Long: `Start an interactive coaching session.

Every turn is persisted to a JSONL transcript under the data directory.
Use --resume with a session ID to continue an earlier conversation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), options(resume))
		},
	}

	cmd.Flags().StringVar(&resume, "resume", "", "Session ID to resume")

	return cmd
}

func askCmd() *cobra.Command {
	var resume string

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the coach a single question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(context.Background(), args[0], options(resume))
		},
	}

	cmd.Flags().StringVar(&resume, "resume", "", "Session ID to resume")

	return cmd
}

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved coaching sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Sessions(options(""))
		},
	}
}

func toolsCmd() *cobra.Command {
	var verboseTools bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List available coaching tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListTools(verboseTools)
		},
	}

	cmd.Flags().BoolVarP(&verboseTools, "verbose", "V", false, "Show tool parameters")

	return cmd
}
