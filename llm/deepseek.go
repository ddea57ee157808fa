// DeepSeek backend implementation using the go-openai library.
//
// Information Hiding:
// - Uses the OpenAI-compatible API with a different base URL
// - Supports deepseek-chat and deepseek-reasoner models

package llm

const deepseekBaseURL = "https://api.deepseek.com/v1"

// NewDeepSeekBackend creates a new DeepSeek backend. DeepSeek speaks the
// OpenAI wire protocol, so this reuses the OpenAI backend against the
// DeepSeek endpoint.
func NewDeepSeekBackend(apiKey, modelName string, maxTokens uint32) *OpenAIBackend {
	return newOpenAICompatible("deepseek", apiKey, deepseekBaseURL, modelName, maxTokens)
}
