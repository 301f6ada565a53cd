// Package transport unifies plain TCP and TLS connections behind Conn.
//
// Callers read and write without knowing which variant they hold. Writes go
// through a buffered writer and reach the peer on Flush.
package transport

import (
	"bufio"
	"crypto/tls"
	"errors"
	"net"
	"time"
)

const writeBufferSize = 4 << 10

// Conn is a byte stream to one peer.
type Conn interface {
	Read(p []byte) (int, error)
	// Write buffers all of p; it either consumes every byte or fails.
	Write(p []byte) (int, error)
	Flush() error
	// CloseWrite flushes, then shuts down the sending side while reads
	// continue. A TLS stream sends close_notify before the transport
	// half-close.
	CloseWrite() error
	// Close closes the underlying connection without flushing.
	Close() error
	RemoteAddr() net.Addr
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	// Secure reports whether the stream is TLS-protected.
	Secure() bool
}

// stream implements Conn over any net.Conn; for TLS nc is the *tls.Conn
// and raw the socket beneath it.
type stream struct {
	nc     net.Conn
	raw    net.Conn
	bw     *bufio.Writer
	secure bool
}

// NewPlain wraps a plain network connection.
func NewPlain(nc net.Conn) Conn {
	return newStream(nc, nc, false)
}

func newStream(nc, raw net.Conn, secure bool) *stream {
	return &stream{nc: nc, raw: raw, bw: bufio.NewWriterSize(nc, writeBufferSize), secure: secure}
}

func (s *stream) Read(p []byte) (int, error) {
	n, err := s.nc.Read(p)
	return n, classify(ReadFailure, err)
}

func (s *stream) Write(p []byte) (int, error) {
	n, err := s.bw.Write(p)
	return n, classify(WriteFailure, err)
}

func (s *stream) Flush() error {
	return classify(WriteFailure, s.bw.Flush())
}

func (s *stream) CloseWrite() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if tc, ok := s.nc.(*tls.Conn); ok {
		if err := tc.CloseWrite(); err != nil {
			return classify(WriteFailure, err)
		}
	}
	cw, ok := s.raw.(interface{ CloseWrite() error })
	if !ok {
		return &Error{Kind: WriteFailure, Err: errors.ErrUnsupported}
	}
	return classify(WriteFailure, cw.CloseWrite())
}

func (s *stream) Close() error {
	return s.nc.Close()
}

func (s *stream) RemoteAddr() net.Addr { return s.nc.RemoteAddr() }

func (s *stream) SetReadDeadline(t time.Time) error  { return s.nc.SetReadDeadline(t) }
func (s *stream) SetWriteDeadline(t time.Time) error { return s.nc.SetWriteDeadline(t) }

func (s *stream) Secure() bool { return s.secure }
