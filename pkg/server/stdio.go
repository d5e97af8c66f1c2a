package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/toolhost/toolhost/pkg/mcp"
)

// maxFrameBytes bounds a single newline-delimited JSON-RPC frame.
const maxFrameBytes = 16 << 20

// StdioServer pumps newline-delimited JSON-RPC frames between an io.Reader /
// io.Writer pair and the service. Each request is handled in its own
// goroutine so a slow filesystem or network call does not block unrelated
// invocations; responses are serialized through a write mutex.
type StdioServer struct {
	svc     *Service
	reader  io.Reader
	writer  io.Writer
	logger  zerolog.Logger
	writeMu sync.Mutex
}

// NewStdioServer creates a stdio server around the given streams.
func NewStdioServer(svc *Service, reader io.Reader, writer io.Writer, logger zerolog.Logger) *StdioServer {
	return &StdioServer{
		svc:    svc,
		reader: reader,
		writer: writer,
		logger: logger,
	}
}

// Run reads frames until EOF or context cancellation. In-flight requests are
// awaited before returning.
func (s *StdioServer) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 64*1024), maxFrameBytes)

	var inflight sync.WaitGroup
	defer inflight.Wait()

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		frame := make([]byte, len(line))
		copy(frame, line)

		inflight.Add(1)
		go func() {
			defer inflight.Done()
			s.handleFrame(ctx, frame)
		}()
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

func (s *StdioServer) handleFrame(ctx context.Context, frame []byte) {
	req, rpcErr := mcp.ParseRequest(frame)
	if rpcErr != nil {
		s.logger.Warn().Str("error", rpcErr.Message).Msg("Rejected malformed frame")
		s.writeResponse(mcp.NewErrorResponse(nil, rpcErr))
		return
	}

	resp := s.svc.HandleRequest(ctx, req)
	if resp == nil {
		// Notification, nothing to send back.
		return
	}
	s.writeResponse(resp)
}

func (s *StdioServer) writeResponse(resp *mcp.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal response")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.writer.Write(append(data, '\n')); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}
