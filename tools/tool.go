// Package tools provides the tool system for the agent.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Argument validation internalized in dispatch
// - Failure normalization hidden from callers
package tools

import (
	"context"

	"github.com/tbruckner/pacemate/model"
)

// Handler is the side-effecting operation behind a tool. Args have been
// validated against the tool's Parameters schema before the handler runs.
// A returned error is normalized into a structured failure; it never
// reaches the agent loop as a fault.
type Handler func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Tool source values.
const (
	SourceNative   = "native"
	SourceExternal = "external"
)

// Tool is a named capability the model can invoke through a declared
// argument schema.
type Tool struct {
	// Name is the unique key the model calls the tool by.
	Name string

	// Description is the natural-language contract the model consumes
	// when deciding whether and how to call the tool.
	Description string

	// Parameters describes the accepted arguments. Nil means the tool
	// takes no arguments.
	Parameters *model.Schema

	// Handler executes the tool.
	Handler Handler

	// Category groups tools for listing (data, memory, planning, ...).
	Category string

	// Source records where the tool came from (native or external).
	Source string
}

// FailureKind enumerates the normalized failure classes of a dispatch.
type FailureKind int

const (
	// FailureNone means the call succeeded.
	FailureNone FailureKind = iota
	// FailureUnknownTool means no tool with the requested name exists.
	FailureUnknownTool
	// FailureInvalidArgs means the arguments did not match the tool's
	// declared schema.
	FailureInvalidArgs
	// FailureExecution means the handler itself failed.
	FailureExecution
)

// Result is the outcome of one dispatch. Payload is always a
// JSON-serializable mapping, suitable for feeding straight back to the
// model as a tool result; it carries an "error" key iff the call failed.
type Result struct {
	Payload map[string]interface{}
	Kind    FailureKind
}

// Failed reports whether the dispatch failed.
func (r Result) Failed() bool {
	return r.Kind != FailureNone
}

func succeed(payload map[string]interface{}) Result {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return Result{Payload: payload}
}

func fail(kind FailureKind, message string) Result {
	return Result{
		Payload: map[string]interface{}{"error": message},
		Kind:    kind,
	}
}
