package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"
)

// LoadKeyPair builds a server TLS config from PEM-encoded certificate chain
// and private key.
func LoadKeyPair(certPEM, keyPEM []byte) (*tls.Config, error) {
	if len(certPEM) == 0 || len(keyPEM) == 0 {
		return nil, errors.New("transport: certificate and key PEM are both required")
	}
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("transport: load key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"http/1.1"},
	}, nil
}

// Handshake performs a TLS server handshake on nc and returns the secured
// Conn. timeout bounds the handshake; zero means only ctx bounds it.
// On failure nc is closed and the error is a HandshakeFailure.
func Handshake(ctx context.Context, nc net.Conn, config *tls.Config, timeout time.Duration) (Conn, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tc := tls.Server(nc, config)
	if err := tc.HandshakeContext(ctx); err != nil {
		nc.Close()
		return nil, &Error{Kind: HandshakeFailure, Err: err}
	}
	return newStream(tc, nc, true), nil
}
