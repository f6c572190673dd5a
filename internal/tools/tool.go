// README: Tool adapter contract. Every adapter turns structured LLM arguments into descriptive text.
package tools

import (
	"context"
	"errors"

	"wayfarer/internal/ai"
)

var (
	ErrNotConfigured = errors.New("provider not configured")
	ErrUpstream      = errors.New("upstream provider error")
	ErrNoResults     = errors.New("no results")
	ErrInvalidArgs   = errors.New("invalid tool arguments")
	ErrUnknownTool   = errors.New("unknown tool")
)

// Outcome is the result of one tool execution. Text is always set and is what
// the model sees; Err is the typed failure used by the planner.
type Outcome struct {
	Text string
	Err  error
}

// Failed reports whether the adapter could not produce a usable result.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

func success(text string) Outcome {
	return Outcome{Text: text}
}

func failure(err error, text string) Outcome {
	return Outcome{Text: text, Err: err}
}

// Adapter wraps one external provider behind the tool contract.
// Execute never panics and never returns a bare error.
type Adapter interface {
	Kind() Kind
	Schema() ai.ToolSchema
	Execute(ctx context.Context, args map[string]any) Outcome
}
