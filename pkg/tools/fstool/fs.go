// Package fstool exposes the filesystem tool group: five stateless operations
// against the host filesystem with no path confinement beyond what the OS
// enforces. Success always yields exactly one text content item; every
// failure is classified as an internal error carrying the originating verb.
package fstool

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/toolhost/toolhost/pkg/mcp"
	"github.com/toolhost/toolhost/pkg/toolkit"
)

// Group is the filesystem tool group.
type Group struct{}

// New creates the filesystem tool group.
func New() *Group {
	return &Group{}
}

// Tools returns the group's tool definitions.
func (g *Group) Tools() []toolkit.ToolDefinition {
	return []toolkit.ToolDefinition{
		readFileTool(),
		writeFileTool(),
		listDirectoryTool(),
		createDirectoryTool(),
		deleteFileTool(),
	}
}

func readFileTool() toolkit.ToolDefinition {
	return toolkit.ToolDefinition{
		Name:        "read_file",
		Description: "Read file content from the specified path",
		Parameters: []toolkit.ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to read", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) ([]mcp.Content, error) {
			path, _ := params["path"].(string)

			isBinary, err := isBinaryFile(path)
			if err != nil {
				return nil, toolkit.Internalf("Failed to check file type: %v", err)
			}

			if isBinary {
				data, err := os.ReadFile(path)
				if err != nil {
					return nil, toolkit.Internalf("Failed to read binary file: %v", err)
				}
				encoded := base64.StdEncoding.EncodeToString(data)
				return []mcp.Content{mcp.TextContent(binaryMarker + encoded)}, nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return nil, toolkit.Internalf("Failed to read file: %v", err)
			}
			if !utf8.Valid(data) {
				return nil, toolkit.Internalf("Failed to read file: %s is not valid UTF-8", path)
			}
			return []mcp.Content{mcp.TextContent(string(data))}, nil
		},
	}
}

func writeFileTool() toolkit.ToolDefinition {
	return toolkit.ToolDefinition{
		Name:        "write_file",
		Description: "Write content to a file at the specified path",
		Parameters: []toolkit.ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to write", Required: true},
			{Name: "content", Type: "string", Description: "The content to write to the file", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) ([]mcp.Content, error) {
			path, _ := params["path"].(string)
			content, _ := params["content"].(string)

			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return nil, toolkit.Internalf("Failed to write file: %v", err)
			}
			return []mcp.Content{mcp.TextContent(fmt.Sprintf("Successfully wrote to %s", path))}, nil
		},
	}
}

func listDirectoryTool() toolkit.ToolDefinition {
	return toolkit.ToolDefinition{
		Name:        "list_directory",
		Description: "List all files and directories in the specified path",
		Parameters: []toolkit.ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the directory to list", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) ([]mcp.Content, error) {
			path, _ := params["path"].(string)

			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, toolkit.Internalf("Failed to list directory: %v", err)
			}

			// Best-effort listing: entries whose name is not valid text or
			// whose metadata lookup fails are skipped, not reported.
			items := make([]string, 0, len(entries))
			for _, entry := range entries {
				name := entry.Name()
				if !utf8.ValidString(name) {
					continue
				}
				info, err := os.Stat(filepath.Join(path, name))
				if err != nil {
					continue
				}
				kind := "file"
				if info.IsDir() {
					kind = "directory"
				}
				items = append(items, fmt.Sprintf("%s (%s)", name, kind))
			}

			return []mcp.Content{mcp.TextContent(strings.Join(items, "\n"))}, nil
		},
	}
}

func createDirectoryTool() toolkit.ToolDefinition {
	return toolkit.ToolDefinition{
		Name:        "create_directory",
		Description: "Create a new directory at the specified path",
		Parameters: []toolkit.ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the directory to create", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) ([]mcp.Content, error) {
			path, _ := params["path"].(string)

			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, toolkit.Internalf("Failed to create directory: %v", err)
			}
			return []mcp.Content{mcp.TextContent(fmt.Sprintf("Successfully created directory: %s", path))}, nil
		},
	}
}

func deleteFileTool() toolkit.ToolDefinition {
	return toolkit.ToolDefinition{
		Name:        "delete_file",
		Description: "Delete a file at the specified path",
		Parameters: []toolkit.ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to delete", Required: true},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) ([]mcp.Content, error) {
			path, _ := params["path"].(string)

			// os.Remove would happily remove an empty directory; this tool
			// deletes exactly one file.
			info, err := os.Lstat(path)
			if err != nil {
				return nil, toolkit.Internalf("Failed to delete file: %v", err)
			}
			if info.IsDir() {
				return nil, toolkit.Internalf("Failed to delete file: %s is a directory", path)
			}
			if err := os.Remove(path); err != nil {
				return nil, toolkit.Internalf("Failed to delete file: %v", err)
			}
			return []mcp.Content{mcp.TextContent(fmt.Sprintf("Successfully deleted file: %s", path))}, nil
		},
	}
}
