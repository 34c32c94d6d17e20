package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
)

// Server hosts one economy per TCP connection.
type Server struct {
	Port    string
	Session SessionConfig
}

// Run listens on Port and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	slog.Info("economy server listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or ln fails.
// It closes ln before returning and waits for open connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.serveConn(ctx, conn)
		}()
	}
}

// serveConn answers newline-delimited requests on one connection.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	remote := conn.RemoteAddr().String()
	sess, err := NewSession(s.Session)
	if err != nil {
		slog.Error("session setup failed", "remote", remote, "error", err)
		return
	}
	slog.Info("client connected", "remote", remote, "economy", sess.Engine().ID)

	if err := ServeSession(conn, conn, sess); err != nil {
		slog.Warn("connection closed", "remote", remote, "error", err)
		return
	}
	slog.Info("client disconnected", "remote", remote)
}

// ServeSession reads ClientMessages from r and writes one ServerMessage per
// request to w until r is exhausted. Malformed lines get an error response.
func ServeSession(r io.Reader, w io.Writer, sess *Session) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp ServerMessage
		var msg ClientMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			resp = ServerMessage{Type: MsgError, Error: fmt.Sprintf("bad request: %v", err)}
		} else {
			resp = sess.Handle(msg)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("send %s: %w", resp.Type, err)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}
