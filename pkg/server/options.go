package server

import (
	"crypto/tls"

	"github.com/rs/zerolog"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Per-connection loggers derive from it
// and are handed to handlers through the request context.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithTLSConfig uses cfg instead of building one from Config.TLS.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(s *Server) {
		s.tlsConfig = cfg
	}
}
