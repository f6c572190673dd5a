package tools

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"wayfarer/internal/ai"
)

// Registry holds the adapters bound to the model, in presentation order.
type Registry struct {
	adapters map[Kind]Adapter
	order    []Kind
	logger   *log.Logger
}

// NewRegistry registers adapters in the given order. A later adapter of the
// same kind replaces an earlier one.
func NewRegistry(logger *log.Logger, adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[Kind]Adapter, len(adapters)), logger: logger}
	for _, a := range adapters {
		if _, exists := r.adapters[a.Kind()]; !exists {
			r.order = append(r.order, a.Kind())
		}
		r.adapters[a.Kind()] = a
	}
	return r
}

// Schemas returns the tool schemas to bind to the model.
func (r *Registry) Schemas() []ai.ToolSchema {
	out := make([]ai.ToolSchema, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.adapters[k].Schema())
	}
	return out
}

// Has reports whether an adapter of the given kind is registered.
func (r *Registry) Has(k Kind) bool {
	_, ok := r.adapters[k]
	return ok
}

// Execute runs the adapter matching the call name.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (Kind, Outcome) {
	kind := ParseKind(call.Name)
	adapter, ok := r.adapters[kind]
	if !ok {
		return kind, failure(ErrUnknownTool, fmt.Sprintf("Error: %s is not a valid tool.", call.Name))
	}

	out := adapter.Execute(ctx, call.Args)
	if out.Failed() && r.logger != nil {
		r.logger.Warn("tool failed", "tool", call.Name, "err", out.Err)
	}
	return kind, out
}
