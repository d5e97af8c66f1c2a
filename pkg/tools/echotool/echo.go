// Package echotool exposes the echo tool group, a pass-through probe for the
// dispatch pipeline.
package echotool

import (
	"context"

	"github.com/toolhost/toolhost/pkg/mcp"
	"github.com/toolhost/toolhost/pkg/toolkit"
)

// Group is the echo tool group.
type Group struct{}

// New creates the echo tool group.
func New() *Group {
	return &Group{}
}

// Tools returns the group's tool definitions.
func (g *Group) Tools() []toolkit.ToolDefinition {
	return []toolkit.ToolDefinition{
		{
			Name:        "echo",
			Description: "Echo the provided message back unchanged",
			Parameters: []toolkit.ToolParameter{
				{Name: "message", Type: "string", Description: "The message to echo", Required: true},
			},
			Handler: func(ctx context.Context, params map[string]interface{}) ([]mcp.Content, error) {
				message, _ := params["message"].(string)
				return []mcp.Content{mcp.TextContent(message)}, nil
			},
		},
	}
}
