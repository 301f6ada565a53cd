package server

import (
	"context"
	"errors"
	"io"
	"net"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shapestone/shape-httpd/pkg/http"
	"github.com/shapestone/shape-httpd/pkg/transport"
)

type connIDKey struct{}

// ConnID returns the identifier the server assigned to the connection that
// carried req, or "" for requests that did not come from a Server.
func ConnID(req *http.Request) string {
	v, _ := req.Attachment(connIDKey{})
	id, _ := v.(string)
	return id
}

// serveConn runs one connection: handshake, parse, dispatch, write, close.
func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	id := uuid.NewString()
	remote := nc.RemoteAddr().String()
	log := s.log.With().Str("conn", id).Str("remote", remote).Logger()

	defer func() {
		if v := recover(); v != nil {
			log.Error().
				Interface("panic", v).
				Str("stack", string(debug.Stack())).
				Msg("connection task panicked")
		}
		nc.Close()
		if s.sem != nil {
			<-s.sem
		}
	}()

	log.Debug().Msg("accepted new connection")
	start := time.Now()

	conn, err := s.open(ctx, nc)
	if err != nil {
		log.Warn().Err(err).Msg("tls handshake failed")
		return
	}

	setDeadline(conn.SetReadDeadline, s.cfg.ReadTimeout)
	req, err := http.NewDecoderWithLimits(conn, s.cfg.limits()).DecodeRequest()
	if err != nil {
		s.reject(log, conn, err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	req.RemoteAddr = remote
	req.Attach(connIDKey{}, id)

	hctx := log.WithContext(ctx)
	if s.cfg.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(hctx, s.cfg.HandlerTimeout)
		defer cancel()
	}
	resp := s.router.Dispatch(hctx, req)

	if err := s.write(conn, req.Version, resp); err != nil {
		log.Warn().Err(err).Msg("response not delivered")
		return
	}
	linger(conn)
	log.Info().
		Str("method", string(req.Method)).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Int("bytes", len(resp.Body)).
		Dur("elapsed", time.Since(start)).
		Msg("request served")
}

// open returns the Conn for nc, performing the TLS handshake if configured.
func (s *Server) open(ctx context.Context, nc net.Conn) (transport.Conn, error) {
	if s.tlsConfig == nil {
		return transport.NewPlain(nc), nil
	}
	return transport.Handshake(ctx, nc, s.tlsConfig, s.cfg.HandshakeTimeout)
}

// reject answers a request that could not be read. Parse failures get a
// best-effort error response; a read timeout gets 408. A peer that hung up
// without sending anything, or a broken transport, gets nothing.
func (s *Server) reject(log zerolog.Logger, conn transport.Conn, err error) {
	var status int
	var version string
	var pe *http.ParseError
	switch {
	case errors.As(err, &pe) && pe.Kind == http.UnexpectedEOF && errors.Is(err, io.EOF):
		log.Debug().Msg("connection closed before request")
		return
	case errors.As(err, &pe):
		status = pe.StatusCode()
		version = pe.Version
	case transport.IsTimeout(err):
		status = http.StatusRequestTimeout
	default:
		log.Warn().Err(err).Msg("read failed")
		return
	}

	log.Info().Err(err).Int("status", status).Msg("bad request")
	if werr := s.write(conn, version, http.Text(status, http.StatusText(status))); werr != nil {
		log.Debug().Err(werr).Msg("error response not delivered")
		return
	}
	linger(conn)
}

// write serializes resp onto conn. The response is always HTTP/1.0 or
// HTTP/1.1 framed and always closes the connection.
func (s *Server) write(conn transport.Conn, version string, resp *http.Response) error {
	out := *resp
	out.Headers = resp.Headers.Clone()
	out.Headers.Set("Connection", "close")
	if version == http.Version10 {
		out.Version = http.Version10
	} else {
		out.Version = http.Version11
	}

	setDeadline(conn.SetWriteDeadline, s.cfg.WriteTimeout)
	if err := http.NewEncoder(conn).Encode(&out); err != nil {
		return &WriteError{Status: out.StatusCode, Err: err}
	}
	return nil
}

func setDeadline(set func(time.Time) error, d time.Duration) {
	if d > 0 {
		set(time.Now().Add(d))
	}
}

const (
	lingerTimeout  = 250 * time.Millisecond
	lingerMaxBytes = 256 << 10
)

// linger half-closes conn and discards whatever the peer still sends, so
// unread request bytes do not turn the final close into a reset that
// destroys the response in flight.
func linger(conn transport.Conn) {
	if err := conn.CloseWrite(); err != nil {
		return
	}
	conn.SetReadDeadline(time.Now().Add(lingerTimeout))
	io.CopyN(io.Discard, conn, lingerMaxBytes)
}
