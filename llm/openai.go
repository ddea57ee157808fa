// OpenAI backend implementation using the go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for the Chat Completions API
// - Tool-call id bookkeeping (our parts carry names, not ids)

package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend implements the Backend interface for OpenAI.
type OpenAIBackend struct {
	client    *openai.Client
	name      string
	model     string
	maxTokens int
}

// NewOpenAIBackend creates a new OpenAI backend.
func NewOpenAIBackend(apiKey, modelName string, maxTokens uint32) *OpenAIBackend {
	return &OpenAIBackend{
		client:    openai.NewClient(apiKey),
		name:      "openai",
		model:     modelName,
		maxTokens: int(maxTokens),
	}
}

// newOpenAICompatible creates a backend against an OpenAI-compatible API
// at a custom base URL. Used by the DeepSeek backend.
func newOpenAICompatible(name, apiKey, baseURL, modelName string, maxTokens uint32) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIBackend{
		client:    openai.NewClientWithConfig(cfg),
		name:      name,
		model:     modelName,
		maxTokens: int(maxTokens),
	}
}

// Name returns the backend name.
func (b *OpenAIBackend) Name() string {
	return b.name
}

// Model returns the current model.
func (b *OpenAIBackend) Model() string {
	return b.model
}

// Generate sends one chat completion request.
func (b *OpenAIBackend) Generate(ctx context.Context, req Request) (Response, error) {
	oaiReq := openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    convertToOpenAIMessages(req),
		MaxTokens:   b.maxTokens,
		Temperature: req.Temperature,
	}
	if len(req.Tools) > 0 {
		oaiReq.Tools = convertToOpenAITools(req.Tools)
	}

	resp, err := b.client.CreateChatCompletion(ctx, oaiReq)
	if err != nil {
		return Response{}, fmt.Errorf("chat completion failed: %w", err)
	}

	var parts []Part
	if len(resp.Choices) > 0 {
		msg := resp.Choices[0].Message
		if msg.Content != "" {
			parts = append(parts, Part{Text: msg.Content})
		}
		for _, tc := range msg.ToolCalls {
			var args map[string]interface{}
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				args = map[string]interface{}{}
			}
			parts = append(parts, Part{Call: &FunctionCall{
				Name: tc.Function.Name,
				Args: args,
			}})
		}
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return Response{Parts: parts, Usage: usage}, nil
}

// convertToOpenAIMessages converts the request into OpenAI chat messages.
// OpenAI pairs tool calls with results by id; our parts carry names, so the
// tool name doubles as the id on both sides of the pairing.
func convertToOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	var result []openai.ChatCompletionMessage

	if req.SystemPrompt != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, msg := range req.Messages {
		if msg.Kind == KindToolResult {
			// Each result becomes its own tool-role message.
			for _, p := range msg.Parts {
				if p.Result == nil {
					continue
				}
				payload, err := json.Marshal(p.Result.Response)
				if err != nil {
					payload = []byte("{}")
				}
				result = append(result, openai.ChatCompletionMessage{
					Role:       openai.ChatMessageRoleTool,
					ToolCallID: p.Result.Name,
					Content:    string(payload),
				})
			}
			continue
		}

		role := openai.ChatMessageRoleUser
		if msg.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}

		oaiMsg := openai.ChatCompletionMessage{Role: role, Content: msg.Text()}
		for _, p := range msg.Parts {
			if p.Call == nil {
				continue
			}
			args, err := json.Marshal(p.Call.Args)
			if err != nil {
				args = []byte("{}")
			}
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   p.Call.Name,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      p.Call.Name,
					Arguments: string(args),
				},
			})
		}
		result = append(result, oaiMsg)
	}

	return result
}

// convertToOpenAITools converts tool declarations to OpenAI format.
func convertToOpenAITools(tools []ToolDeclaration) []openai.Tool {
	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters.JSONMap(),
			},
		}
	}
	return result
}

// Verify OpenAIBackend implements Backend
var _ Backend = (*OpenAIBackend)(nil)
