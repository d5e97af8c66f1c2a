// Package server holds the service façade exposed to the RPC layer plus the
// stdio and WebSocket transports that feed it.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/toolhost/toolhost/pkg/mcp"
	"github.com/toolhost/toolhost/pkg/toolkit"
	"github.com/toolhost/toolhost/pkg/tools/echotool"
	"github.com/toolhost/toolhost/pkg/tools/fetchtool"
	"github.com/toolhost/toolhost/pkg/tools/fstool"
)

// instructions is the fixed self-description reported on initialize.
const instructions = "default local tool server"

// Service composes the tool router with the shared resources it needs and
// answers the JSON-RPC surface: initialize, ping, tools/list and tools/call.
type Service struct {
	router     *toolkit.Router
	httpClient *http.Client
	info       mcp.Implementation
	logger     zerolog.Logger
}

// Config holds service construction parameters.
type Config struct {
	Name         string
	Version      string
	FetchTimeout time.Duration
	Logger       zerolog.Logger
}

// New builds the service: one shared HTTP client and a router composed from
// the echo, fetch and filesystem groups. A duplicate tool name across groups
// fails construction.
func New(cfg Config) (*Service, error) {
	if cfg.Name == "" {
		cfg.Name = "toolhost"
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	client := &http.Client{Timeout: cfg.FetchTimeout}

	router, err := toolkit.NewRouter(
		echotool.New(),
		fetchtool.New(client),
		fstool.New(),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		router:     router,
		httpClient: client,
		info:       mcp.Implementation{Name: cfg.Name, Version: cfg.Version},
		logger:     cfg.Logger,
	}, nil
}

// Router exposes the composed registry for introspection.
func (s *Service) Router() *toolkit.Router {
	return s.router
}

// Initialize answers the transport handshake.
func (s *Service) Initialize(params *mcp.InitializeParams) *mcp.InitializeResult {
	return &mcp.InitializeResult{
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities: mcp.ServerCapabilities{
			Tools: &mcp.ToolsCapability{ListChanged: true},
		},
		ServerInfo:   s.info,
		Instructions: instructions,
	}
}

// ListTools answers tools/list with the registered descriptors. No side
// effects, no failure modes.
func (s *Service) ListTools() *mcp.ListToolsResult {
	return &mcp.ListToolsResult{Tools: s.router.Tools()}
}

// CallTool dispatches one invocation and returns either a success envelope or
// exactly one structured error.
func (s *Service) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, *toolkit.CallError) {
	invocationID := uuid.NewString()
	start := time.Now()

	content, callErr := s.router.Dispatch(ctx, name, args)
	if callErr != nil {
		s.logger.Warn().
			Str("invocation_id", invocationID).
			Str("tool", name).
			Str("kind", callErr.Kind.String()).
			Dur("duration", time.Since(start)).
			Msg("Tool call failed")
		return nil, callErr
	}

	s.logger.Debug().
		Str("invocation_id", invocationID).
		Str("tool", name).
		Dur("duration", time.Since(start)).
		Msg("Tool call completed")

	return &mcp.CallToolResult{Content: content}, nil
}

// HandleRequest routes one JSON-RPC request to the matching service method
// and builds the response. Notifications return nil.
func (s *Service) HandleRequest(ctx context.Context, req *mcp.Request) *mcp.Response {
	switch req.Method {
	case "notifications/initialized", "initialized":
		return nil
	}

	// Notifications never get a response, whatever method they name.
	if req.IsNotification() {
		return nil
	}

	switch req.Method {
	case "initialize":
		var params mcp.InitializeParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return mcp.NewErrorResponse(req.ID, mcp.Errorf(mcp.InvalidParams, "invalid initialize params: %v", err))
			}
		}
		return mcp.NewResponse(req.ID, s.Initialize(&params))

	case "ping":
		return mcp.NewResponse(req.ID, struct{}{})

	case "tools/list":
		return mcp.NewResponse(req.ID, s.ListTools())

	case "tools/call":
		var params mcp.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return mcp.NewErrorResponse(req.ID, mcp.Errorf(mcp.InvalidParams, "invalid tools/call params: %v", err))
		}
		result, callErr := s.CallTool(ctx, params.Name, params.Arguments)
		if callErr != nil {
			return mcp.NewErrorResponse(req.ID, callErr.RPCError())
		}
		return mcp.NewResponse(req.ID, result)

	default:
		return mcp.NewErrorResponse(req.ID, mcp.Errorf(mcp.MethodNotFound, "Method not found: %s", req.Method))
	}
}
