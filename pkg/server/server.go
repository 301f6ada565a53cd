// Package server runs the accept loop and the per-connection task that
// ties the transport, parser, router and serializer together.
//
// Each accepted connection is owned by one goroutine for its whole life:
// optional TLS handshake, one request, one response, close. Failures on a
// connection are logged and never reach the accept loop or other
// connections. Only a bind failure stops the server.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shapestone/shape-httpd/pkg/router"
	"github.com/shapestone/shape-httpd/pkg/transport"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server serves one request per connection.
type Server struct {
	cfg       Config
	router    *router.Router
	tlsConfig *tls.Config
	log       zerolog.Logger
	sem       chan struct{}

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// New validates cfg and prepares a server for r. TLS material in cfg is
// loaded here so a bad certificate fails before binding.
func New(cfg Config, r *router.Router, opts ...Option) (*Server, error) {
	if r == nil {
		return nil, &ConfigError{Field: "Router", Reason: "must not be nil"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		router: r,
		log:    zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.tlsConfig == nil && cfg.TLS != nil {
		tc, err := transport.LoadKeyPair(cfg.TLS.CertPEM, cfg.TLS.KeyPEM)
		if err != nil {
			return nil, &ConfigError{Field: "TLS", Reason: "cannot load key pair", Err: err}
		}
		s.tlsConfig = tc
	}
	if cfg.MaxConnections > 0 {
		s.sem = make(chan struct{}, cfg.MaxConnections)
	}
	return s, nil
}

// ListenAndServe binds cfg.Addr() and serves until ctx is done or Close is
// called. A listen failure is returned as a *BindError.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or Close is called,
// returning ctx.Err() or ErrServerClosed respectively. The router is frozen
// before the first accept. Serve takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.router.Freeze()
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Bool("tls", s.tlsConfig != nil).
		Int("routes", len(s.router.Routes())).
		Msg("listening")

	var delay time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}

			if delay == 0 {
				delay = minAcceptDelay
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.log.Warn().Err(err).Dur("retry_in", delay).Msg("accept failed")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		delay = 0

		if s.sem != nil {
			select {
			case s.sem <- struct{}{}:
			case <-ctx.Done():
				nc.Close()
				return ctx.Err()
			}
		}
		go s.serveConn(ctx, nc)
	}
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops accepting. Connections already accepted run to completion.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
