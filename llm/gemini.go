// Google Gemini backend implementation using the official
// google.golang.org/genai SDK.
//
// Information Hiding:
// - API authentication and client creation
// - Request/response format for the Gemini API
// - System instruction handling via config
// - Schema translation to Gemini's declaration format

package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/tbruckner/pacemate/model"
)

// GeminiBackend implements the Backend interface for Google Gemini.
type GeminiBackend struct {
	client    *genai.Client
	model     string
	maxTokens int32
	initErr   error // client initialization error, reported on first use
}

// NewGeminiBackend creates a new Gemini backend. If client initialization
// fails, the error is stored and returned on first use.
func NewGeminiBackend(apiKey, modelName string, maxTokens uint32) *GeminiBackend {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return &GeminiBackend{
			model:     modelName,
			maxTokens: int32(maxTokens),
			initErr:   fmt.Errorf("failed to initialize Gemini client: %w", err),
		}
	}

	return &GeminiBackend{
		client:    client,
		model:     modelName,
		maxTokens: int32(maxTokens),
	}
}

// Name returns the backend name.
func (b *GeminiBackend) Name() string {
	return "gemini"
}

// Model returns the current model.
func (b *GeminiBackend) Model() string {
	return b.model
}

// Generate sends one request to Gemini and maps the candidate's content
// parts back into our Part representation.
func (b *GeminiBackend) Generate(ctx context.Context, req Request) (Response, error) {
	if b.initErr != nil {
		return Response{}, b.initErr
	}
	if b.client == nil {
		return Response{}, fmt.Errorf("gemini client not initialized")
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: b.maxTokens,
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		config.Tools = convertToGeminiTools(req.Tools)
	}

	contents := convertToGeminiContents(req.Messages)

	response, err := b.client.Models.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return Response{}, fmt.Errorf("generate content failed: %w", err)
	}

	var parts []Part
	if len(response.Candidates) > 0 && response.Candidates[0].Content != nil {
		for _, part := range response.Candidates[0].Content.Parts {
			if part.Text != "" {
				parts = append(parts, Part{Text: part.Text})
			}
			if part.FunctionCall != nil {
				parts = append(parts, Part{Call: &FunctionCall{
					Name: part.FunctionCall.Name,
					Args: part.FunctionCall.Args,
				}})
			}
		}
	}

	var usage *TokenUsage
	if response.UsageMetadata != nil {
		usage = &TokenUsage{
			PromptTokens:     uint32(response.UsageMetadata.PromptTokenCount),
			CompletionTokens: uint32(response.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      uint32(response.UsageMetadata.TotalTokenCount),
		}
	}

	return Response{Parts: parts, Usage: usage}, nil
}

// convertToGeminiContents converts our Messages to Gemini's Content
// format. Part ordering within a message is preserved verbatim.
func convertToGeminiContents(messages []Message) []*genai.Content {
	var contents []*genai.Content

	for _, msg := range messages {
		role := genai.RoleUser
		if msg.Role == RoleModel {
			role = genai.RoleModel
		}

		content := &genai.Content{Role: role}
		for _, p := range msg.Parts {
			switch {
			case p.Call != nil:
				content.Parts = append(content.Parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						Name: p.Call.Name,
						Args: p.Call.Args,
					},
				})
			case p.Result != nil:
				content.Parts = append(content.Parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						Name:     p.Result.Name,
						Response: p.Result.Response,
					},
				})
			case p.Text != "":
				content.Parts = append(content.Parts, &genai.Part{Text: p.Text})
			}
		}
		contents = append(contents, content)
	}

	return contents
}

// convertToGeminiTools converts tool declarations to Gemini format.
func convertToGeminiTools(tools []ToolDeclaration) []*genai.Tool {
	var declarations []*genai.FunctionDeclaration
	for _, t := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertToGeminiSchema(t.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// convertToGeminiSchema recursively converts a Schema tree to Gemini's
// schema type. Gemini requires 'items' on arrays, so arrays without an
// item schema default to string items.
func convertToGeminiSchema(s *model.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	schema := &genai.Schema{
		Type:        mapToGeminiType(s.Type),
		Description: s.Description,
	}
	if len(s.Enum) > 0 {
		schema.Enum = s.Enum
	}
	if s.Nullable {
		schema.Nullable = genai.Ptr(true)
	}
	if len(s.Required) > 0 {
		schema.Required = s.Required
	}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = convertToGeminiSchema(prop)
		}
	}
	if s.Type == model.TypeArray {
		if s.Items != nil {
			schema.Items = convertToGeminiSchema(s.Items)
		} else {
			schema.Items = &genai.Schema{Type: genai.TypeString}
		}
	}

	return schema
}

// mapToGeminiType maps a schema type to the Gemini type enum.
func mapToGeminiType(t model.SchemaType) genai.Type {
	switch t {
	case model.TypeString:
		return genai.TypeString
	case model.TypeInteger:
		return genai.TypeInteger
	case model.TypeNumber:
		return genai.TypeNumber
	case model.TypeBoolean:
		return genai.TypeBoolean
	case model.TypeArray:
		return genai.TypeArray
	case model.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// Verify GeminiBackend implements Backend
var _ Backend = (*GeminiBackend)(nil)
