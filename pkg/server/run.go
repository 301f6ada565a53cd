package server

import (
	"context"

	"github.com/shapestone/shape-httpd/pkg/router"
)

// Run serves routes on host:port with default timeouts, using TLS when tls
// is non-nil. It returns only on a configuration or bind error, or when ctx
// is done.
func Run(ctx context.Context, host string, port int, routes *router.Router, tls *TLSConfig, opts ...Option) error {
	cfg := DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	cfg.TLS = tls

	s, err := New(cfg, routes, opts...)
	if err != nil {
		return err
	}
	return s.ListenAndServe(ctx)
}
