// internal/mcp/tools_def.go
package mcp

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// tool catalog, embedded from this package
//
//go:embed mcp-tools.json
var toolsJSON []byte

// ToolDef is one catalog entry. Mutating tools are hidden in read-only mode.
type ToolDef struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Mutating    bool               `json:"mutating"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// ToolDescriptor is the advertised form of a tool.
type ToolDescriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema,omitempty"`
}

type ToolCatalog struct {
	Tools []ToolDef `json:"tools"`
}

var (
	toolDefs     []ToolDef
	toolDefsOnce sync.Once
	toolDefsErr  error
)

// LoadToolDefs parses the embedded catalog once per process.
func LoadToolDefs() ([]ToolDef, error) {
	toolDefsOnce.Do(func() {
		var cat ToolCatalog
		if err := json.Unmarshal(toolsJSON, &cat); err != nil {
			toolDefsErr = err
			return
		}
		toolDefs = cat.Tools
	})
	return toolDefs, toolDefsErr
}

func (d ToolDef) Descriptor() ToolDescriptor {
	return ToolDescriptor{Name: d.Name, Description: d.Description, InputSchema: d.InputSchema}
}
