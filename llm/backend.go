// Package llm provides LLM backend abstractions.
//
// Backend is the abstract interface for model services. Each implementation
// hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling

package llm

import (
	"context"
)

// Backend defines the abstract interface for model services. The agent
// loop treats it as an opaque request/response service: messages plus tool
// declarations in, content parts out.
type Backend interface {
	// Name returns the backend name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Generate sends one request and returns the model's response. A
	// response may legitimately carry zero parts; callers handle that
	// case rather than the backend.
	Generate(ctx context.Context, req Request) (Response, error)
}
