// LLM backend factory - builder-first API for creating model backends.
//
// Quick Start:
//
//	// Simplest: use defaults, read API key from environment
//	gemini, err := llm.ProviderGemini.FromEnv()
//
//	// With custom model
//	gpt, err := llm.ProviderOpenAI.Model(llm.ModelOpenAIGPT4o).FromEnv()
//
//	// Full configuration
//	custom, err := llm.ProviderAnthropic.
//	    Model(llm.ModelAnthropicClaudeSonnet4).
//	    MaxTokens(8192).
//	    FromEnv()

package llm

import (
	"fmt"
	"os"
	"strings"
)

// ProviderType represents supported model providers.
type ProviderType int

const (
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini ProviderType = iota
	// ProviderOpenAI is the OpenAI provider (GPT models).
	ProviderOpenAI
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic
	// ProviderDeepSeek is the DeepSeek provider.
	ProviderDeepSeek
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderGemini:
		return "gemini"
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderDeepSeek:
		return "deepseek"
	default:
		return "unknown"
	}
}

// EnvVar returns the environment variable name for this provider's API key.
func (p ProviderType) EnvVar() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	default:
		return ""
	}
}

// DefaultModel returns the default model for this provider.
func (p ProviderType) DefaultModel() string {
	switch p {
	case ProviderGemini:
		return ModelGeminiFlash25
	case ProviderOpenAI:
		return ModelOpenAIGPT4o
	case ProviderAnthropic:
		return ModelAnthropicClaudeSonnet4
	case ProviderDeepSeek:
		return ModelDeepSeekChat
	default:
		return ""
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(s) {
	case "gemini", "google":
		return ProviderGemini, nil
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "deepseek":
		return ProviderDeepSeek, nil
	default:
		return 0, fmt.Errorf("unknown provider: %s", s)
	}
}

// FromEnv creates a backend with defaults, reading the API key from the
// environment.
func (p ProviderType) FromEnv() (Backend, error) {
	return NewBackendBuilder(p).FromEnv()
}

// Model starts configuring this provider with a specific model.
func (p ProviderType) Model(model string) *BackendBuilder {
	return NewBackendBuilder(p).Model(model)
}

// APIKey creates a backend with an explicit API key.
func (p ProviderType) APIKey(key string) (Backend, error) {
	return NewBackendBuilder(p).APIKey(key)
}

// BackendBuilder is a builder for configuring model backends.
type BackendBuilder struct {
	providerType ProviderType
	model        string
	maxTokens    uint32
}

// NewBackendBuilder creates a new builder for the given provider.
func NewBackendBuilder(providerType ProviderType) *BackendBuilder {
	return &BackendBuilder{providerType: providerType}
}

// Model sets the model to use.
func (b *BackendBuilder) Model(model string) *BackendBuilder {
	b.model = model
	return b
}

// MaxTokens sets maximum tokens for responses.
func (b *BackendBuilder) MaxTokens(tokens uint32) *BackendBuilder {
	b.maxTokens = tokens
	return b
}

// FromEnv builds the backend, reading the API key from the environment.
func (b *BackendBuilder) FromEnv() (Backend, error) {
	envVar := b.providerType.EnvVar()
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %s environment variable not set", b.providerType, envVar)
	}
	return b.build(apiKey)
}

// APIKey builds the backend with an explicit API key.
func (b *BackendBuilder) APIKey(key string) (Backend, error) {
	return b.build(key)
}

func (b *BackendBuilder) build(apiKey string) (Backend, error) {
	model := b.model
	if model == "" {
		model = b.providerType.DefaultModel()
	}

	maxTokens := b.maxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	switch b.providerType {
	case ProviderGemini:
		return NewGeminiBackend(apiKey, model, maxTokens), nil
	case ProviderOpenAI:
		return NewOpenAIBackend(apiKey, model, maxTokens), nil
	case ProviderAnthropic:
		return NewAnthropicBackend(apiKey, model, maxTokens), nil
	case ProviderDeepSeek:
		return NewDeepSeekBackend(apiKey, model, maxTokens), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", b.providerType)
	}
}

// Model identifier constants for all supported providers.

// Gemini model identifiers
const (
	// ModelGeminiFlash25 is Gemini 2.5 Flash: fast, supports function calling.
	ModelGeminiFlash25 = "gemini-2.5-flash"
	// ModelGeminiPro25 is Gemini 2.5 Pro: stronger reasoning.
	ModelGeminiPro25 = "gemini-2.5-pro"
)

// OpenAI model identifiers
const (
	// ModelOpenAIGPT4o is GPT-4o: flagship multimodal model.
	ModelOpenAIGPT4o = "gpt-4o"
	// ModelOpenAIGPT4oMini is GPT-4o-mini: fast and inexpensive.
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
)

// Anthropic model identifiers
const (
	// ModelAnthropicClaudeSonnet4 is Claude Sonnet 4: balanced performance.
	ModelAnthropicClaudeSonnet4 = "claude-sonnet-4-20250514"
	// ModelAnthropicClaudeHaiku35 is Claude Haiku 3.5: fast and efficient.
	ModelAnthropicClaudeHaiku35 = "claude-3-5-haiku-20241022"
)

// DeepSeek model identifiers
const (
	// ModelDeepSeekChat is the general chat model.
	ModelDeepSeekChat = "deepseek-chat"
	// ModelDeepSeekReasoner is the chain-of-thought reasoning model.
	ModelDeepSeekReasoner = "deepseek-reasoner"
)
