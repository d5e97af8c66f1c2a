// Package fetchtool exposes the HTTP fetch tool group. All invocations share
// one long-lived HTTP client injected at construction; the client holds only
// connection-pooling state and is safe for concurrent reuse.
package fetchtool

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/toolhost/toolhost/pkg/mcp"
	"github.com/toolhost/toolhost/pkg/toolkit"
)

// maxBodyBytes bounds how large a response body may be. Bodies past the
// bound fail the call rather than being truncated to a plausible prefix.
const maxBodyBytes = 10 << 20

// sniffLen mirrors the file-read policy: a null byte in the leading sample
// switches the body to base64 transport.
const sniffLen = 8192

// binaryMarker prefixes base64-encoded binary response bodies. Kept identical
// to the file-read marker so callers need one decoding rule.
const binaryMarker = "[Binary file encoded as base64]\n"

// Group is the fetch tool group.
type Group struct {
	client *http.Client
}

// New creates the fetch tool group around the shared HTTP client.
func New(client *http.Client) *Group {
	if client == nil {
		client = http.DefaultClient
	}
	return &Group{client: client}
}

// Tools returns the group's tool definitions.
func (g *Group) Tools() []toolkit.ToolDefinition {
	return []toolkit.ToolDefinition{
		{
			Name:        "fetch",
			Description: "Fetch content from a URL over HTTP",
			Parameters: []toolkit.ToolParameter{
				{Name: "url", Type: "string", Description: "The URL to fetch", Required: true},
				{Name: "method", Type: "string", Description: "HTTP method (default GET)", Required: false, Default: "GET"},
				{Name: "headers", Type: "object", Description: "Additional request headers", Required: false},
			},
			Handler: g.fetch,
		},
	}
}

// fetch performs the request and returns the body as one content item.
// A completed exchange with a non-2xx status is surfaced as an internal
// error rather than passed through; this is the group's documented policy.
func (g *Group) fetch(ctx context.Context, params map[string]interface{}) ([]mcp.Content, error) {
	url, _ := params["url"].(string)
	method, _ := params["method"].(string)
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, toolkit.Internalf("Failed to fetch: %v", err)
	}
	for key, value := range headerMap(params["headers"]) {
		req.Header.Set(key, value)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, toolkit.Internalf("Failed to fetch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, toolkit.Internalf("Failed to fetch: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, toolkit.Internalf("Failed to read response body: %v", err)
	}
	if len(body) > maxBodyBytes {
		return nil, toolkit.Internalf("Failed to fetch: response body exceeds %d bytes", maxBodyBytes)
	}

	if looksBinary(body) {
		encoded := base64.StdEncoding.EncodeToString(body)
		return []mcp.Content{mcp.TextContent(binaryMarker + encoded)}, nil
	}

	return []mcp.Content{mcp.TextContent(string(body))}, nil
}

// looksBinary reports whether the leading sample of the body contains a null
// byte, mirroring the file-read classification policy.
func looksBinary(body []byte) bool {
	sample := body
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	return bytes.IndexByte(sample, 0) >= 0
}

func headerMap(value interface{}) map[string]string {
	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
