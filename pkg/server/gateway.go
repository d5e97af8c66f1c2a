package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/toolhost/toolhost/pkg/mcp"
)

// Gateway serves the same dispatch surface over WebSocket for clients that
// prefer a socket to a stdio pipe. One connection carries many independent
// invocations; each message is handled in its own goroutine.
type Gateway struct {
	svc      *Service
	addr     string
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	server   *http.Server
}

// NewGateway creates a WebSocket gateway listening on addr.
func NewGateway(svc *Service, addr string, logger zerolog.Logger) *Gateway {
	return &Gateway{
		svc:    svc,
		addr:   addr,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Local tool server, no origin policy.
				return true
			},
		},
	}
}

// Start serves until the context is cancelled.
func (g *Gateway) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWebSocket)

	g.server = &http.Server{
		Addr:    g.addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info().Str("addr", g.addr).Msg("Gateway listening")
		if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return g.server.Shutdown(shutdownCtx)
	}
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	connID, err := gonanoid.New()
	if err != nil {
		connID = fmt.Sprintf("conn-%d", time.Now().UnixNano())
	}

	g.logger.Info().Str("conn_id", connID).Str("remote", r.RemoteAddr).Msg("Client connected")
	g.serveConn(r.Context(), connID, conn)
	g.logger.Info().Str("conn_id", connID).Msg("Client disconnected")
}

func (g *Gateway) serveConn(ctx context.Context, connID string, conn *websocket.Conn) {
	defer conn.Close()

	var writeMu sync.Mutex
	var inflight sync.WaitGroup
	defer inflight.Wait()

	writeResponse := func(resp *mcp.Response) {
		data, err := json.Marshal(resp)
		if err != nil {
			g.logger.Error().Str("conn_id", connID).Err(err).Msg("Failed to marshal response")
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			g.logger.Error().Str("conn_id", connID).Err(err).Msg("Failed to write response")
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Warn().Str("conn_id", connID).Err(err).Msg("Unexpected close")
			}
			return
		}

		req, rpcErr := mcp.ParseRequest(data)
		if rpcErr != nil {
			writeResponse(mcp.NewErrorResponse(nil, rpcErr))
			continue
		}

		inflight.Add(1)
		go func() {
			defer inflight.Done()
			if resp := g.svc.HandleRequest(ctx, req); resp != nil {
				writeResponse(resp)
			}
		}()
	}
}
