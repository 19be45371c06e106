// internal/mcp/registry.go
// Registry of advertised tools, computed once from the catalog.

package mcp

import (
	"fmt"
)

// Registry holds the active tool set. It is immutable after NewRegistry.
type Registry struct {
	readOnly bool
	tools    []ToolDescriptor
}

// NewRegistry loads the catalog and drops mutating tools when readOnly is set.
func NewRegistry(readOnly bool) (*Registry, error) {
	defs, err := LoadToolDefs()
	if err != nil {
		return nil, fmt.Errorf("mcp: load tool catalog: %w", err)
	}

	r := &Registry{
		readOnly: readOnly,
		tools:    make([]ToolDescriptor, 0, len(defs)),
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if seen[d.Name] {
			return nil, fmt.Errorf("mcp: duplicate tool in catalog: %s", d.Name)
		}
		seen[d.Name] = true
		if readOnly && d.Mutating {
			continue
		}
		r.tools = append(r.tools, d.Descriptor())
	}
	return r, nil
}

// Tools returns the advertised tool set in catalog order.
func (r *Registry) Tools() []ToolDescriptor {
	out := make([]ToolDescriptor, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names mengembalikan nama semua tool yang diiklankan.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, t := range r.tools {
		names = append(names, t.Name)
	}
	return names
}

func (r *Registry) ReadOnly() bool { return r.readOnly }
