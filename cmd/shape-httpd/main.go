// Command shape-httpd serves a small set of demo routes.
//
//	shape-httpd -host 0.0.0.0 -port 8443 -cert server.pem -key server.key
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/shapestone/shape-httpd/pkg/router"
	"github.com/shapestone/shape-httpd/pkg/server"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "shape-httpd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	def := server.DefaultConfig()

	fs := flag.NewFlagSet("shape-httpd", flag.ContinueOnError)
	host := fs.String("host", def.Host, "listen host")
	port := fs.Int("port", def.Port, "listen port")
	certFile := fs.String("cert", "", "PEM certificate chain; enables TLS together with -key")
	keyFile := fs.String("key", "", "PEM private key")
	readTimeout := fs.Duration("read-timeout", def.ReadTimeout, "time allowed to read a request")
	writeTimeout := fs.Duration("write-timeout", def.WriteTimeout, "time allowed to write a response")
	handlerTimeout := fs.Duration("handler-timeout", def.HandlerTimeout, "time allowed for a handler")
	maxConns := fs.Int("max-conns", 0, "concurrent connection limit, 0 for none")
	level := fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	pretty := fs.Bool("pretty", false, "human-readable console logs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := newLogger(*level, *pretty)
	if err != nil {
		return err
	}

	cfg := def
	cfg.Host = *host
	cfg.Port = *port
	cfg.ReadTimeout = *readTimeout
	cfg.WriteTimeout = *writeTimeout
	cfg.HandlerTimeout = *handlerTimeout
	cfg.MaxConnections = *maxConns
	if *certFile != "" || *keyFile != "" {
		tlsCfg, err := readTLS(*certFile, *keyFile)
		if err != nil {
			return err
		}
		cfg.TLS = tlsCfg
	}

	r := router.New(router.WithLogger(log))
	if err := registerRoutes(r); err != nil {
		return err
	}

	srv, err := server.New(cfg, r, server.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = srv.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("shutting down")
		return nil
	}
	return err
}

func newLogger(level string, pretty bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("log level: %w", err)
	}
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger(), nil
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger(), nil
}

func readTLS(certFile, keyFile string) (*server.TLSConfig, error) {
	if certFile == "" || keyFile == "" {
		return nil, errors.New("-cert and -key must be given together")
	}
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}
	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	return &server.TLSConfig{CertPEM: certPEM, KeyPEM: keyPEM}, nil
}
