package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tbruckner/pacemate/model"
)

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echoes its input",
		Parameters: model.Object(map[string]*model.Schema{
			"value": model.String("value to echo"),
		}, "value"),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"value": args["value"]}, nil
		},
	}
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool("echo"))

	tool, ok := r.Get("echo")
	if !ok {
		t.Fatal("expected tool to be registered")
	}
	if tool.Name != "echo" {
		t.Errorf("expected name 'echo', got %q", tool.Name)
	}
	if tool.Source != SourceNative {
		t.Errorf("expected default source native, got %q", tool.Source)
	}
}

func TestRegisterLastWriteWins(t *testing.T) {
	r := NewRegistry(nil)
	first := echoTool("echo")
	first.Description = "first"
	second := echoTool("echo")
	second.Description = "second"

	r.Register(first)
	r.Register(second)

	tool, _ := r.Get("echo")
	if tool.Description != "second" {
		t.Errorf("expected last registration to win, got %q", tool.Description)
	}
	if len(r.Names()) != 1 {
		t.Errorf("expected 1 tool, got %d", len(r.Names()))
	}
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool("zeta"))
	r.Register(echoTool("alpha"))
	r.Register(echoTool("mid"))

	names := r.Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %d", len(names))
	}
	if names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestDeclarations(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool("echo"))

	decls := r.Declarations()
	if len(decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(decls))
	}
	if decls[0].Name != "echo" {
		t.Errorf("expected declaration name 'echo', got %q", decls[0].Name)
	}
	if decls[0].Parameters == nil {
		t.Error("expected declaration to carry parameters")
	}
}

func TestExecuteSuccess(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool("echo"))

	res := r.Execute(context.Background(), "echo", map[string]interface{}{"value": "hi"})
	if res.Failed() {
		t.Fatalf("unexpected failure: %v", res.Payload)
	}
	if res.Payload["value"] != "hi" {
		t.Errorf("expected echoed value, got %v", res.Payload)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r := NewRegistry(nil)

	res := r.Execute(context.Background(), "no_such_tool", nil)
	if !res.Failed() {
		t.Fatal("expected failure for unknown tool")
	}
	if res.Kind != FailureUnknownTool {
		t.Errorf("expected FailureUnknownTool, got %v", res.Kind)
	}
	msg, _ := res.Payload["error"].(string)
	if !strings.Contains(msg, "no_such_tool") {
		t.Errorf("expected error to name the tool, got %q", msg)
	}
}

func TestExecuteInvalidArgs(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(echoTool("echo"))

	res := r.Execute(context.Background(), "echo", map[string]interface{}{"bogus": 1})
	if !res.Failed() {
		t.Fatal("expected failure for invalid args")
	}
	if res.Kind != FailureInvalidArgs {
		t.Errorf("expected FailureInvalidArgs, got %v", res.Kind)
	}
	msg, _ := res.Payload["error"].(string)
	if !strings.Contains(msg, "echo") {
		t.Errorf("expected error to name the tool, got %q", msg)
	}
}

func TestExecuteHandlerError(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(Tool{
		Name:        "broken",
		Description: "always fails",
		Parameters:  model.Object(nil),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			return nil, errors.New("database is on fire")
		},
	})

	res := r.Execute(context.Background(), "broken", nil)
	if !res.Failed() {
		t.Fatal("expected failure from handler error")
	}
	if res.Kind != FailureExecution {
		t.Errorf("expected FailureExecution, got %v", res.Kind)
	}
	msg, _ := res.Payload["error"].(string)
	if !strings.Contains(msg, "database is on fire") {
		t.Errorf("expected handler error in payload, got %q", msg)
	}
}

func TestExecuteHandlerPanic(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(Tool{
		Name:        "panicky",
		Description: "panics",
		Parameters:  model.Object(nil),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			panic("boom")
		},
	})

	res := r.Execute(context.Background(), "panicky", nil)
	if !res.Failed() {
		t.Fatal("expected panic to surface as failure")
	}
	if res.Kind != FailureExecution {
		t.Errorf("expected FailureExecution, got %v", res.Kind)
	}
}

func TestExecuteNilArgs(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(Tool{
		Name:        "noargs",
		Description: "takes nothing",
		Parameters:  model.Object(nil),
		Handler: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			if args == nil {
				return nil, errors.New("args should never be nil")
			}
			return map[string]interface{}{"ok": true}, nil
		},
	})

	res := r.Execute(context.Background(), "noargs", nil)
	if res.Failed() {
		t.Fatalf("unexpected failure: %v", res.Payload)
	}
}
