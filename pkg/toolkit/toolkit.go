// Package toolkit composes independently defined tool groups into one
// immutable, dispatchable registry and normalizes every outcome into either a
// result envelope or a single structured error.
package toolkit

import (
	"context"
	"fmt"

	"github.com/toolhost/toolhost/pkg/mcp"
)

// ToolParameter defines a parameter for a tool
type ToolParameter struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
}

// Handler is the function signature for tool execution. A handler returns the
// ordered content items of a success envelope, or an error. Handlers classify
// their own failures by returning a *CallError; anything else is wrapped as an
// internal error by the router so no raw fault crosses the boundary.
type Handler func(ctx context.Context, params map[string]interface{}) ([]mcp.Content, error)

// ToolDefinition defines a tool's metadata and handler
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
	Handler     Handler         `json:"-"`
}

// Group is a self-contained set of named operations. Groups are merged into
// one registry at construction time.
type Group interface {
	Tools() []ToolDefinition
}

// validateToolDefinition validates a tool definition before registration.
func validateToolDefinition(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}

	validTypes := map[string]bool{
		"string": true, "number": true, "boolean": true,
		"object": true, "array": true, "integer": true,
	}
	for _, param := range def.Parameters {
		if param.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if !validTypes[param.Type] {
			return fmt.Errorf("invalid parameter type %s for %s", param.Type, param.Name)
		}
	}

	return nil
}

// schemaMap builds the JSON Schema document for a tool's parameters. The same
// document is compiled for validation and served verbatim on introspection.
func schemaMap(def ToolDefinition) map[string]interface{} {
	properties := make(map[string]interface{})
	required := []string{}

	for _, param := range def.Parameters {
		paramSchema := map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Default != nil {
			paramSchema["default"] = param.Default
		}
		properties[param.Name] = paramSchema

		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}
