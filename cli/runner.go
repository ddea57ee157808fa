// Command execution for CLI commands.
//
// Information Hiding:
// - Coach assembly (backend, store, tools, loop) hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tbruckner/pacemate/agent"
	"github.com/tbruckner/pacemate/athlete"
	"github.com/tbruckner/pacemate/config"
	"github.com/tbruckner/pacemate/llm"
	"github.com/tbruckner/pacemate/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	Model    string
	DataDir  string
	Resume   string
	Verbose  bool
}

// coach bundles everything a command needs to talk to the athlete.
type coach struct {
	loop  *agent.Loop
	model *athlete.Model
	store *athlete.Store
}

func (c *coach) close() {
	if c.store != nil {
		c.store.Close()
	}
}

// buildCoach assembles the backend, athlete store, tool registry, and
// agent loop from settings plus CLI options.
func buildCoach(opts Options) (*coach, error) {
	providerName := opts.Provider
	if providerName == "" {
		providerName = "gemini"
	}

	settings, err := config.New(providerName)
	if err != nil {
		return nil, err
	}
	if opts.DataDir != "" {
		settings.DataDir = opts.DataDir
	}

	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	modelName := settings.LLM.Model
	if opts.Model != "" {
		modelName = opts.Model
	}

	backend, err := providerType.Model(modelName).
		MaxTokens(settings.LLM.MaxTokens).
		FromEnv()
	if err != nil {
		return nil, err
	}

	store, err := athlete.OpenStore(filepath.Join(settings.DataDir, "athlete.db"))
	if err != nil {
		return nil, err
	}

	athleteModel, err := athlete.NewModel(store)
	if err != nil {
		store.Close()
		return nil, err
	}

	logger := zap.NewNop()
	if opts.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}

	registry := tools.NewRegistry(logger)
	athlete.RegisterTools(registry, athleteModel)

	loop := agent.NewLoop(agent.Config{
		Backend: backend,
		Tools:   registry,
		Athlete: athleteModel,
		SystemPrompt: func() string {
			return athlete.SystemPrompt(athleteModel, "")
		},
		DataDir:               settings.DataDir,
		OnProgress:            printProgress,
		Logger:                logger,
		MaxToolRounds:         settings.Agent.MaxToolRounds,
		MaxConsecutiveErrors:  settings.Agent.MaxConsecutiveErrors,
		Temperature:           float32(settings.LLM.Temperature),
		CompressionThreshold:  settings.Agent.CompressionThreshold,
		CompressionKeepRounds: settings.Agent.CompressionKeepRounds,
	})

	return &coach{loop: loop, model: athleteModel, store: store}, nil
}

// printProgress renders loop events as single status lines.
func printProgress(event, detail string) {
	switch event {
	case agent.EventToolCall:
		fmt.Printf("  [tool] %s\n", detail)
	case agent.EventToolResult:
		fmt.Printf("  [ok]   %s\n", detail)
	case agent.EventToolError:
		fmt.Printf("  [err]  %s\n", detail)
	}
}

// Chat starts an interactive coaching session.
func Chat(ctx context.Context, opts Options) error {
	c, err := buildCoach(opts)
	if err != nil {
		return err
	}
	defer c.close()

	sessionID, err := c.loop.StartSession(opts.Resume)
	if err != nil {
		return err
	}

	if opts.Resume != "" {
		fmt.Printf("Resumed session %s (%d messages)\n", sessionID, c.loop.HistoryLen())
	} else {
		fmt.Printf("Session %s\n", sessionID)
	}

	name := c.model.ProfileName()
	if name != "" {
		fmt.Printf("Coaching %s. Type 'exit' to quit.\n\n", name)
	} else {
		fmt.Print("Type 'exit' to quit.\n\n")
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		result, err := c.loop.ProcessMessage(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		fmt.Printf("\n%s\n", result.ReplyText)
		if opts.Verbose {
			fmt.Printf("\n(%d tool calls, %dms)\n",
				result.ToolCallsMade, result.TotalDuration.Milliseconds())
		}
		if result.OnboardingJustCompleted {
			fmt.Print("\n[Onboarding complete. Your profile is ready.]\n")
		}
		fmt.Println()
	}

	fmt.Printf("\nSession saved as %s\n", sessionID)
	return scanner.Err()
}

// Ask processes a single message and prints the reply.
func Ask(ctx context.Context, message string, opts Options) error {
	c, err := buildCoach(opts)
	if err != nil {
		return err
	}
	defer c.close()

	if _, err := c.loop.StartSession(opts.Resume); err != nil {
		return err
	}

	result, err := c.loop.ProcessMessage(ctx, message)
	if err != nil {
		return err
	}

	fmt.Println(result.ReplyText)
	if opts.Verbose {
		fmt.Printf("\n(%d tool calls, %dms)\n",
			result.ToolCallsMade, result.TotalDuration.Milliseconds())
	}
	return nil
}

// Sessions lists persisted session IDs.
func Sessions(opts Options) error {
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = os.Getenv("PACEMATE_DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
	}

	ids, err := agent.ListSessions(dataDir)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

// ListTools prints the registered tools, optionally with parameters.
func ListTools(verbose bool) error {
	store, err := athlete.OpenStoreInMemory()
	if err != nil {
		return err
	}
	defer store.Close()

	athleteModel, err := athlete.NewModel(store)
	if err != nil {
		return err
	}

	registry := tools.NewRegistry(zap.NewNop())
	athlete.RegisterTools(registry, athleteModel)

	for _, tool := range registry.List() {
		fmt.Printf("%-22s %s\n", tool.Name, tool.Description)
		if verbose && tool.Parameters != nil {
			for name, prop := range tool.Parameters.Properties {
				required := ""
				for _, r := range tool.Parameters.Required {
					if r == name {
						required = " (required)"
						break
					}
				}
				fmt.Printf("    %-18s %s%s\n", name, prop.Description, required)
			}
		}
	}
	return nil
}
