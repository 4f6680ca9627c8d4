// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"io"
	"net"
	"time"
)

// dialTimeout covers only the connect phase.
const dialTimeout = 5 * time.Second

// responseReadTimeout is how long the client waits for the response
// after sending the request.
const responseReadTimeout = 15 * time.Second

// maxResponseSize caps a response. "print all" with a large
// configuration is the biggest.
const maxResponseSize = 1024 * 1024

// Client sends requests to a fanctl socket. Each Call opens a new
// connection, matching the server's one-request-per-connection model.
type Client struct {
	socketPath string
}

// NewClient creates a client for socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// Call sends request and returns the raw response. Every failure is a
// *ChannelError; an in-protocol failure is a successful Call whose
// response carries an error status.
func (c *Client) Call(ctx context.Context, request string) ([]byte, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, &ChannelError{Op: "connect", Err: err}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if _, err := io.WriteString(conn, request+"\n"); err != nil {
		return nil, &ChannelError{Op: "send", Err: err}
	}

	// Half-close so the server sees the end of the request.
	if unixConn, ok := conn.(*net.UnixConn); ok {
		if err := unixConn.CloseWrite(); err != nil {
			return nil, &ChannelError{Op: "send", Err: err}
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	}
	response, err := io.ReadAll(io.LimitReader(conn, maxResponseSize))
	if err != nil {
		return nil, &ChannelError{Op: "receive", Err: err}
	}
	if len(response) == 0 {
		return nil, &ChannelError{Op: "receive", Err: io.ErrUnexpectedEOF}
	}
	return response, nil
}
