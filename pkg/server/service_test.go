package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolhost/toolhost/pkg/mcp"
	"github.com/toolhost/toolhost/pkg/toolkit"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(Config{
		Name:    "toolhost-test",
		Version: "0.0.0",
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return svc
}

func TestService_ListTools(t *testing.T) {
	svc := newTestService(t)

	result := svc.ListTools()
	names := []string{}
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.NotNil(t, tool.InputSchema)
	}

	assert.Equal(t, []string{
		"echo",
		"fetch",
		"read_file",
		"write_file",
		"list_directory",
		"create_directory",
		"delete_file",
	}, names)
}

func TestService_Initialize(t *testing.T) {
	svc := newTestService(t)

	result := svc.Initialize(&mcp.InitializeParams{
		ProtocolVersion: mcp.ProtocolVersion,
		ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0"},
	})

	assert.Equal(t, mcp.ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, "toolhost-test", result.ServerInfo.Name)
	assert.Equal(t, "default local tool server", result.Instructions)
	require.NotNil(t, result.Capabilities.Tools)
	assert.True(t, result.Capabilities.Tools.ListChanged)
}

func TestService_CallTool_Echo(t *testing.T) {
	svc := newTestService(t)

	result, callErr := svc.CallTool(context.Background(), "echo", map[string]interface{}{
		"message": "round trip",
	})
	require.Nil(t, callErr)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "round trip", result.Content[0].Text)
	assert.False(t, result.IsError)
}

func TestService_CallTool_UnknownTool(t *testing.T) {
	svc := newTestService(t)

	_, callErr := svc.CallTool(context.Background(), "nope", nil)
	require.NotNil(t, callErr)
	assert.Equal(t, toolkit.KindToolNotFound, callErr.Kind)
}

func TestHandleRequest_Lifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("initialize", func(t *testing.T) {
		resp := svc.HandleRequest(ctx, &mcp.Request{
			JSONRPC: "2.0",
			ID:      json.RawMessage("1"),
			Method:  "initialize",
			Params:  json.RawMessage(`{"protocolVersion":"2024-11-05","clientInfo":{"name":"c","version":"1"}}`),
		})
		require.NotNil(t, resp)
		require.Nil(t, resp.Error)
		result, ok := resp.Result.(*mcp.InitializeResult)
		require.True(t, ok)
		assert.Equal(t, "toolhost-test", result.ServerInfo.Name)
	})

	t.Run("initialized notification has no response", func(t *testing.T) {
		resp := svc.HandleRequest(ctx, &mcp.Request{
			JSONRPC: "2.0",
			Method:  "notifications/initialized",
		})
		assert.Nil(t, resp)
	})

	t.Run("ping", func(t *testing.T) {
		resp := svc.HandleRequest(ctx, &mcp.Request{
			JSONRPC: "2.0",
			ID:      json.RawMessage("2"),
			Method:  "ping",
		})
		require.NotNil(t, resp)
		assert.Nil(t, resp.Error)
	})

	t.Run("tools list", func(t *testing.T) {
		resp := svc.HandleRequest(ctx, &mcp.Request{
			JSONRPC: "2.0",
			ID:      json.RawMessage("3"),
			Method:  "tools/list",
		})
		require.NotNil(t, resp)
		result, ok := resp.Result.(*mcp.ListToolsResult)
		require.True(t, ok)
		assert.Len(t, result.Tools, 7)
	})

	t.Run("notification-form requests get no response", func(t *testing.T) {
		for _, method := range []string{"ping", "tools/list", "initialize", "resources/list"} {
			resp := svc.HandleRequest(ctx, &mcp.Request{
				JSONRPC: "2.0",
				Method:  method,
			})
			assert.Nil(t, resp, "method %s", method)
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		resp := svc.HandleRequest(ctx, &mcp.Request{
			JSONRPC: "2.0",
			ID:      json.RawMessage("4"),
			Method:  "resources/list",
		})
		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, mcp.MethodNotFound, resp.Error.Code)
	})
}

func TestHandleRequest_ToolErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		params   string
		wantCode int
	}{
		{
			name:     "unknown tool with invalid payload stays tool-not-found",
			params:   `{"name":"mystery","arguments":{"path":42}}`,
			wantCode: mcp.MethodNotFound,
		},
		{
			name:     "invalid parameters",
			params:   `{"name":"echo","arguments":{}}`,
			wantCode: mcp.InvalidParams,
		},
		{
			name:     "execution failure",
			params:   `{"name":"read_file","arguments":{"path":"/nonexistent/zzz"}}`,
			wantCode: mcp.InternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.HandleRequest(ctx, &mcp.Request{
				JSONRPC: "2.0",
				ID:      json.RawMessage("9"),
				Method:  "tools/call",
				Params:  json.RawMessage(tt.params),
			})
			require.NotNil(t, resp)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
