package server

import (
	"net"
	"strconv"
	"time"

	"github.com/shapestone/shape-httpd/pkg/http"
)

// TLSConfig holds PEM-encoded certificate chain and private key.
type TLSConfig struct {
	CertPEM []byte
	KeyPEM  []byte
}

// Config controls a Server. It is copied by New and not read again.
//
// Zero timeouts disable the corresponding deadline. Zero limits fall back
// to the parser defaults.
type Config struct {
	Host string
	Port int // 0 picks an ephemeral port
	TLS  *TLSConfig

	HandshakeTimeout time.Duration // TLS handshake
	ReadTimeout      time.Duration // request line, headers and body
	WriteTimeout     time.Duration // serialized response
	HandlerTimeout   time.Duration // router dispatch; 503 when exceeded

	MaxHeaderBytes   int
	MaxContentLength int64
	MaxConnections   int // concurrent connections; 0 means unlimited
}

// DefaultConfig returns a Config listening on 127.0.0.1:8080 with
// conservative timeouts.
func DefaultConfig() Config {
	return Config{
		Host:             "127.0.0.1",
		Port:             8080,
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		HandlerTimeout:   60 * time.Second,
		MaxHeaderBytes:   http.DefaultMaxHeaderBytes,
		MaxContentLength: http.DefaultMaxContentLength,
	}
}

// Validate reports the first invalid field as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return &ConfigError{Field: "Port", Reason: "must be between 0 and 65535"}
	case c.HandshakeTimeout < 0:
		return &ConfigError{Field: "HandshakeTimeout", Reason: "must not be negative"}
	case c.ReadTimeout < 0:
		return &ConfigError{Field: "ReadTimeout", Reason: "must not be negative"}
	case c.WriteTimeout < 0:
		return &ConfigError{Field: "WriteTimeout", Reason: "must not be negative"}
	case c.HandlerTimeout < 0:
		return &ConfigError{Field: "HandlerTimeout", Reason: "must not be negative"}
	case c.MaxHeaderBytes < 0:
		return &ConfigError{Field: "MaxHeaderBytes", Reason: "must not be negative"}
	case c.MaxContentLength < 0:
		return &ConfigError{Field: "MaxContentLength", Reason: "must not be negative"}
	case c.MaxConnections < 0:
		return &ConfigError{Field: "MaxConnections", Reason: "must not be negative"}
	}
	if c.TLS != nil && (len(c.TLS.CertPEM) == 0 || len(c.TLS.KeyPEM) == 0) {
		return &ConfigError{Field: "TLS", Reason: "certificate and key are both required"}
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) limits() http.Limits {
	return http.Limits{MaxHeaderBytes: c.MaxHeaderBytes, MaxContentLength: c.MaxContentLength}
}
