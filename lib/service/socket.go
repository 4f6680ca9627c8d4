// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fanctl/fanctl/lib/netutil"
)

// DefaultSocketPath is where the daemon listens unless told otherwise.
const DefaultSocketPath = "/run/fanctl/.fanctl.commands.sock"

// Handler produces the response bytes for one request line. The line
// has surrounding whitespace trimmed and invalid UTF-8 replaced.
type Handler interface {
	ServeRequest(ctx context.Context, request string) []byte
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, request string) []byte

func (f HandlerFunc) ServeRequest(ctx context.Context, request string) []byte {
	return f(ctx, request)
}

// SocketServer serves one-request-per-connection text requests on a
// Unix socket.
type SocketServer struct {
	socketPath string
	handler    Handler
	logger     *slog.Logger

	// ready is closed once the socket is listening.
	ready     chan struct{}
	readyOnce sync.Once

	// activeConnections tracks in-flight handlers so Serve can wait
	// for them on shutdown.
	activeConnections sync.WaitGroup
}

// NewSocketServer creates a server for socketPath that dispatches every
// request to handler.
func NewSocketServer(socketPath string, handler Handler, logger *slog.Logger) *SocketServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SocketServer{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Ready is closed once Serve is accepting connections.
func (s *SocketServer) Ready() <-chan struct{} {
	return s.ready
}

// socketMode lets unprivileged users talk to the daemon.
const socketMode = 0o777

// Serve listens on the socket and handles connections until ctx is
// cancelled, then stops accepting, waits for active handlers and
// removes the socket file. Setup failures are returned as
// *ChannelError with Op "bind".
func (s *SocketServer) Serve(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o755); err != nil {
		return &ChannelError{Op: "bind", Err: err}
	}
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return &ChannelError{Op: "bind", Err: err}
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return &ChannelError{Op: "bind", Err: err}
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()

	if err := os.Chmod(s.socketPath, socketMode); err != nil {
		return &ChannelError{Op: "bind", Err: err}
	}

	// Unblock Accept when the context is cancelled.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("socket server listening", "path", s.socketPath)
	s.readyOnce.Do(func() { close(s.ready) })

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	s.logger.Info("socket server stopped", "path", s.socketPath)
	return nil
}

// readTimeout bounds how long a client may take to send its request.
const readTimeout = 5 * time.Second

// writeTimeout bounds writing the response.
const writeTimeout = 5 * time.Second

// handleTimeout bounds how long an accepted request may wait for and
// run its handler. The handler context survives server shutdown so an
// accepted command still completes while Serve drains connections.
const handleTimeout = 5 * time.Second

// maxRequestSize caps one request. Requests are a verb and at most one
// argument.
const maxRequestSize = 4096

// handleConnection processes one request-response cycle.
func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	reader := bufio.NewReaderSize(io.LimitReader(conn, maxRequestSize), maxRequestSize)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Debug("reading request failed", "error", &ChannelError{Op: "receive", Err: err})
		return
	}
	if line == "" {
		// Client connected but sent nothing.
		return
	}

	request := strings.TrimSpace(strings.ToValidUTF8(line, "\uFFFD"))
	s.logger.Debug("received request", "command", request)

	handleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
	response := s.handler.ServeRequest(handleCtx, request)
	cancel()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(response); err != nil {
		if netutil.IsExpectedCloseError(err) {
			s.logger.Debug("client closed before response", "command", request)
			return
		}
		s.logger.Warn("writing response failed", "command", request, "error", &ChannelError{Op: "send", Err: err})
	}
}
