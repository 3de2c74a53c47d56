// Package tools exposes the retrieval capabilities the agent can invoke
// while handling a query. Capabilities are registered once at wiring
// time into an immutable lookup table.
package tools

import (
	"context"

	"github.com/fluakademi/coursebot/internal"
	"github.com/fluakademi/coursebot/pkg/models"
)

var log = internal.GetLogger()

// Capability identifies a retrieval tool the agent can invoke.
type Capability string

const (
	SearchTranscript Capability = "search_transcript"
	SearchBook       Capability = "search_book"
)

// Tool is one registered retrieval capability.
type Tool struct {
	Name        Capability
	Description string
	Invoke      func(ctx context.Context, query string) models.RetrievalResult
}

// Registry is an immutable capability lookup table. Build one with
// NewRegistry at startup; it is read-only afterwards and safe for
// concurrent use.
type Registry struct {
	tools map[Capability]Tool
	order []Capability
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[Capability]Tool, len(tools))}
	for _, tool := range tools {
		if _, exists := r.tools[tool.Name]; exists {
			continue
		}
		r.tools[tool.Name] = tool
		r.order = append(r.order, tool.Name)
		log.Infof("registered retrieval tool: %s", tool.Name)
	}
	return r
}

// List returns the registered tools in registration order.
func (r *Registry) List() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Invoke runs the named capability. An unregistered capability yields an
// empty result so the caller never needs to special-case missing tools.
func (r *Registry) Invoke(ctx context.Context, name Capability, query string) models.RetrievalResult {
	tool, ok := r.tools[name]
	if !ok {
		log.Debugf("retrieval tool %s not registered", name)
		return models.RetrievalResult{Documents: []string{}, Source: string(name)}
	}
	return tool.Invoke(ctx, query)
}
