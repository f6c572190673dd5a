package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model produced neither text nor a tool call.
var ErrEmptyResponse = errors.New("llm returned an empty response")

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// Invoke sends the ordered conversation to the model. When tools is empty the
	// model is called with no tool binding at all and can only answer in text.
	Invoke(ctx context.Context, messages []Message, tools []ToolSchema) (Message, error)
}
