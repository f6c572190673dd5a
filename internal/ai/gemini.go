package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const (
	// DefaultGeminiModel is used when no model name is configured.
	DefaultGeminiModel = "gemini-2.0-flash"

	geminiRoleUser  = "user"
	geminiRoleModel = "model"

	// continuePrompt is sent when the history ends on a model turn, since the
	// chat API always needs a user-side message to answer.
	continuePrompt = "Continue."
)

// GeminiProvider implements LLMProvider using Google's Gemini models with
// function calling.
type GeminiProvider struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, opts ...option.ClientOption) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{
		client:      client,
		modelName:   modelName,
		temperature: 0.2,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Invoke runs one chat round. System messages become the system instruction,
// the remaining messages become the chat history, and tools (when given) are
// bound as function declarations.
func (p *GeminiProvider) Invoke(ctx context.Context, messages []Message, tools []ToolSchema) (Message, error) {
	model := p.client.GenerativeModel(p.modelName)
	model.SetTemperature(p.temperature)

	system, contents := toGeminiContents(messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toFunctionDeclarations(tools)}}
	}

	var last *genai.Content
	if n := len(contents); n > 0 && contents[n-1].Role == geminiRoleUser {
		last = contents[n-1]
		contents = contents[:n-1]
	} else {
		last = &genai.Content{Role: geminiRoleUser, Parts: []genai.Part{genai.Text(continuePrompt)}}
	}

	session := model.StartChat()
	session.History = contents

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return Message{}, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Message{}, ErrEmptyResponse
	}
	return fromGeminiContent(resp.Candidates[0].Content), nil
}

// toGeminiContents converts the log into Gemini chat contents. Consecutive
// entries with the same Gemini role are folded into one content block.
func toGeminiContents(messages []Message) (string, []*genai.Content) {
	var system []string
	var contents []*genai.Content

	push := func(role string, parts ...genai.Part) {
		if len(parts) == 0 {
			return
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, parts...)
			return
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if m.Content != "" {
				system = append(system, m.Content)
			}
		case RoleUser:
			if m.Content != "" {
				push(geminiRoleUser, genai.Text(m.Content))
			}
		case RoleAssistant:
			var parts []genai.Part
			if m.Content != "" {
				parts = append(parts, genai.Text(m.Content))
			}
			for _, call := range m.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: call.Name, Args: call.Args})
			}
			push(geminiRoleModel, parts...)
		case RoleTool:
			push(geminiRoleUser, genai.FunctionResponse{
				Name:     m.ToolName,
				Response: map[string]any{"content": m.Content},
			})
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func fromGeminiContent(content *genai.Content) Message {
	msg := Message{Role: RoleAssistant}
	var text strings.Builder
	for _, part := range content.Parts {
		switch v := part.(type) {
		case genai.Text:
			text.WriteString(string(v))
		case genai.FunctionCall:
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{
				ID:   uuid.NewString(),
				Name: v.Name,
				Args: v.Args,
			})
		}
	}
	msg.Content = strings.TrimSpace(text.String())
	return msg
}

func toFunctionDeclarations(tools []ToolSchema) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toObjectSchema(t.Params),
		})
	}
	return decls
}

func toObjectSchema(params []Param) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(params)),
	}
	for _, p := range params {
		schema.Properties[p.Name] = toSchema(p)
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

func toSchema(p Param) *genai.Schema {
	if p.Type == TypeObject {
		s := toObjectSchema(p.Properties)
		s.Description = p.Description
		s.Nullable = !p.Required
		return s
	}
	s := &genai.Schema{Description: p.Description, Nullable: !p.Required}
	switch p.Type {
	case TypeInteger:
		s.Type = genai.TypeInteger
	case TypeNumber:
		s.Type = genai.TypeNumber
	case TypeBoolean:
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
	}
	if len(p.Enum) > 0 {
		s.Format = "enum"
		s.Enum = p.Enum
	}
	return s
}
