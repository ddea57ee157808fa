// Anthropic backend implementation using the official anthropic-sdk-go.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for the Anthropic Messages API
// - tool_use / tool_result block mapping

package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend implements the Backend interface for Anthropic Claude.
type AnthropicBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicBackend creates a new Anthropic backend.
func NewAnthropicBackend(apiKey, modelName string, maxTokens uint32) *AnthropicBackend {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &AnthropicBackend{
		client:    client,
		model:     modelName,
		maxTokens: int64(maxTokens),
	}
}

// Name returns the backend name.
func (b *AnthropicBackend) Name() string {
	return "anthropic"
}

// Model returns the current model.
func (b *AnthropicBackend) Model() string {
	return b.model
}

// Generate sends one request to the Messages API.
func (b *AnthropicBackend) Generate(ctx context.Context, req Request) (Response, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(b.model),
		MaxTokens:   b.maxTokens,
		Messages:    convertToAnthropicMessages(req.Messages),
		Temperature: anthropic.Float(float64(req.Temperature)),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		}
	}
	if len(req.Tools) > 0 {
		params.Tools = convertToAnthropicTools(req.Tools)
	}

	message, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("message request failed: %w", err)
	}

	var parts []Part
	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			parts = append(parts, Part{Text: variant.Text})
		case anthropic.ToolUseBlock:
			var args map[string]interface{}
			inputJSON, _ := json.Marshal(variant.Input)
			if err := json.Unmarshal(inputJSON, &args); err != nil || args == nil {
				args = map[string]interface{}{}
			}
			parts = append(parts, Part{Call: &FunctionCall{
				Name: variant.Name,
				Args: args,
			}})
		}
	}

	var usage *TokenUsage
	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		usage = &TokenUsage{
			PromptTokens:     uint32(message.Usage.InputTokens),
			CompletionTokens: uint32(message.Usage.OutputTokens),
			TotalTokens:      uint32(message.Usage.InputTokens + message.Usage.OutputTokens),
		}
	}

	return Response{Parts: parts, Usage: usage}, nil
}

// convertToAnthropicMessages converts our Messages to Anthropic format.
// Tool names double as tool_use ids since our parts carry names, not ids.
func convertToAnthropicMessages(messages []Message) []anthropic.MessageParam {
	var result []anthropic.MessageParam

	for _, msg := range messages {
		if msg.Kind == KindToolResult {
			param := anthropic.MessageParam{Role: anthropic.MessageParamRoleUser}
			for _, p := range msg.Parts {
				if p.Result == nil {
					continue
				}
				payload, err := json.Marshal(p.Result.Response)
				if err != nil {
					payload = []byte("{}")
				}
				param.Content = append(param.Content,
					anthropic.NewToolResultBlock(p.Result.Name, string(payload), false))
			}
			result = append(result, param)
			continue
		}

		role := anthropic.MessageParamRoleUser
		if msg.Role == RoleModel {
			role = anthropic.MessageParamRoleAssistant
		}

		param := anthropic.MessageParam{Role: role}
		for _, p := range msg.Parts {
			switch {
			case p.Call != nil:
				param.Content = append(param.Content, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    p.Call.Name,
						Name:  p.Call.Name,
						Input: p.Call.Args,
					},
				})
			case p.Text != "":
				param.Content = append(param.Content, anthropic.NewTextBlock(p.Text))
			}
		}
		result = append(result, param)
	}

	return result
}

// convertToAnthropicTools converts tool declarations to Anthropic format.
func convertToAnthropicTools(tools []ToolDeclaration) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		schema := t.Parameters.JSONMap()
		properties, _ := schema["properties"].(map[string]interface{})
		required, _ := schema["required"].([]string)

		toolParam := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: properties,
				Required:   required,
			},
		}
		result[i] = anthropic.ToolUnionParam{OfTool: &toolParam}
	}
	return result
}

// Verify AnthropicBackend implements Backend
var _ Backend = (*AnthropicBackend)(nil)
