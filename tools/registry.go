// Tool registry - manages all tools available to the agent.
//
// Each tool is both a declaration (schema for the model) and a handler
// (the implementation). Registration is last-write-wins so externally
// loaded tools can shadow native ones of the same name.

package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tbruckner/pacemate/llm"
)

// Registry manages the set of callable capabilities.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger *zap.Logger
}

// NewRegistry creates a new empty tool registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// Register inserts a tool, overwriting any existing tool of the same name.
// No uniqueness enforcement beyond last-write-wins: externally loaded
// tools deliberately shadow native ones.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tool.Source == "" {
		tool.Source = SourceNative
	}
	r.tools[tool.Name] = tool
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

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		list = append(list, tool)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Declarations produces the schema representation the model needs to
// decide when and how to call each tool, sorted by name for stable
// ordering across calls.
func (r *Registry) Declarations() []llm.ToolDeclaration {
	tools := r.List()

	declarations := make([]llm.ToolDeclaration, 0, len(tools))
	for _, t := range tools {
		declarations = append(declarations, llm.ToolDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return declarations
}

// Execute looks up and runs a tool. It is total: every outcome, success
// or failure, comes back as a Result with a JSON-serializable payload.
// Failures are normalized into three classes - unknown tool, invalid
// arguments, handler failure - and never propagate to the caller.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) Result {
	tool, exists := r.Get(name)
	if !exists {
		return fail(FailureUnknownTool, fmt.Sprintf("Unknown tool: %s", name))
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	r.logger.Info("dispatching tool",
		zap.String("tool", name),
		zap.String("source", tool.Source),
		zap.Int("args", len(args)),
	)

	if err := ValidateArgs(tool.Parameters, args); err != nil {
		return fail(FailureInvalidArgs, fmt.Sprintf("Invalid arguments for %s: %v", name, err))
	}

	payload, err := r.invoke(ctx, tool, args)
	if err != nil {
		return fail(FailureExecution, fmt.Sprintf("Tool %s failed: %v", name, err))
	}
	return succeed(payload)
}

// invoke runs the handler, converting a panic into an error so a broken
// tool cannot crash the loop.
func (r *Registry) invoke(ctx context.Context, tool Tool, args map[string]interface{}) (payload map[string]interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return tool.Handler(ctx, args)
}
