// Package server binds the TCP listener and feeds accepted connections to the
// worker pool, one job per connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/bstardust/threadpool-server/internal/logger"
	"github.com/bstardust/threadpool-server/internal/pool"
	"github.com/bstardust/threadpool-server/pkg/common"
)

const (
	initialAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff     = 1 * time.Second
)

// Server accepts connections and submits their handling to the pool. It does
// not own the pool; the caller constructs it and tears it down after Start
// returns, so every accepted connection is handled before the process exits.
type Server struct {
	addr    string
	pool    *pool.ThreadPool
	handler *Handler

	mu sync.Mutex
	ln net.Listener
}

// New creates a server that listens on addr and hands connections to p.
func New(addr string, p *pool.ThreadPool, h *Handler) *Server {
	return &Server{
		addr:    addr,
		pool:    p,
		handler: h,
	}
}

// Addr returns the bound listener address, or "" before Start has bound it.
// Useful when listening on port 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Start binds the listener and runs the accept loop until ctx is canceled or
// an unrecoverable listener error occurs. Transient accept failures are
// retried with a capped backoff instead of tearing the server down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	logger.Info("Listening on %s with %d workers", ln.Addr(), s.pool.Size())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	backoff := initialAcceptBackoff
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Listener closed, shutting down")
				return nil
			}
			if isTransient(err) {
				logger.Warn("Transient accept failure, backing off %s: %v", backoff, err)
				time.Sleep(backoff)
				backoff *= 2
				if backoff > maxAcceptBackoff {
					backoff = maxAcceptBackoff
				}
				continue
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		backoff = initialAcceptBackoff

		c := conn
		if err := s.pool.Submit(func() { s.handler.Handle(c) }); err != nil {
			// The pool refused the job, so nothing will ever read this
			// connection; close it and stop serving.
			logger.Error("Cannot schedule connection from %s: %v", c.RemoteAddr(), err)
			c.Close()
			return common.NewServerError("worker pool rejected connection")
		}
	}
}

// isTransient reports whether an accept failure is worth retrying.
func isTransient(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection aborted") ||
		strings.Contains(msg, "too many open files")
}
