// Package llm provides shared data models for LLM backends.
package llm

import (
	"strings"

	"github.com/tbruckner/pacemate/model"
)

// Role identifies who authored a Message.
type Role string

const (
	// RoleUser marks messages delivered to the model on the user side of
	// the conversation, including synthetic tool-result bundles.
	RoleUser Role = "user"
	// RoleModel marks messages produced by the model.
	RoleModel Role = "model"
)

// Kind tags what a Message actually is. Role alone is ambiguous: tool
// results travel under the user role for delivery purposes but are not
// conversational turns, so round-boundary detection keys on Kind rather
// than inspecting message shape.
type Kind int

const (
	// KindUserText is an actual user-authored text turn.
	KindUserText Kind = iota
	// KindModelText is model output (text and/or tool invocation requests).
	KindModelText
	// KindToolResult is a synthetic bundle of tool results carried under
	// the user role.
	KindToolResult
)

// FunctionCall is a tool invocation requested by the model.
type FunctionCall struct {
	Name string
	Args map[string]interface{}
}

// FunctionResponse carries one tool's result back to the model.
type FunctionResponse struct {
	Name     string
	Response map[string]interface{}
}

// Part is one element of a Message: plain text, a tool invocation request,
// or a tool result. Exactly one field is set.
type Part struct {
	Text   string
	Call   *FunctionCall
	Result *FunctionResponse
}

// Message is the unit exchanged with the model backend. Ordering of parts
// and of messages is load-bearing: it reconstructs verbatim what the model
// saw and produced.
type Message struct {
	Role  Role
	Kind  Kind
	Parts []Part
}

// UserText creates a user-authored text message.
func UserText(text string) Message {
	return Message{Role: RoleUser, Kind: KindUserText, Parts: []Part{{Text: text}}}
}

// ModelText creates a model text message.
func ModelText(text string) Message {
	return Message{Role: RoleModel, Kind: KindModelText, Parts: []Part{{Text: text}}}
}

// ToolResults bundles tool results into a single user-role message, in the
// order given. The loop appends exactly one of these per tool round so the
// pairing of invocation requests and results is never broken.
func ToolResults(parts []Part) Message {
	return Message{Role: RoleUser, Kind: KindToolResult, Parts: parts}
}

// Text concatenates the message's text parts with newlines.
func (m Message) Text() string {
	var texts []string
	for _, p := range m.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// ToolDeclaration describes one callable tool to the model.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  *model.Schema
}

// Request is one generate call against a backend.
type Request struct {
	Messages     []Message
	SystemPrompt string
	Temperature  float32
	// Tools are the declarations the model may call. Empty means the
	// model must answer in plain text.
	Tools []ToolDeclaration
}

// Response is what a backend returned: zero or more parts, each either
// text or a tool invocation request.
type Response struct {
	Parts []Part
	Usage *TokenUsage
}

// Empty reports whether the response carried no content parts at all.
func (r Response) Empty() bool {
	for _, p := range r.Parts {
		if p.Text != "" || p.Call != nil {
			return false
		}
	}
	return true
}

// FunctionCalls returns the tool invocations in the response, in order.
func (r Response) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range r.Parts {
		if p.Call != nil {
			calls = append(calls, *p.Call)
		}
	}
	return calls
}

// Text concatenates the response's text parts with newlines.
func (r Response) Text() string {
	var texts []string
	for _, p := range r.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}
