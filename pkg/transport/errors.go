package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	HandshakeFailure ErrorKind = iota + 1
	ReadFailure
	WriteFailure
	ConnectionClosed
)

func (k ErrorKind) String() string {
	switch k {
	case HandshakeFailure:
		return "tls handshake failed"
	case ReadFailure:
		return "read failed"
	case WriteFailure:
		return "write failed"
	case ConnectionClosed:
		return "connection closed"
	default:
		return fmt.Sprintf("transport error kind %d", int(k))
	}
}

// Error is a failure on one connection.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "transport: " + e.Kind.String()
	}
	return "transport: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// IsKind reports whether err is a transport *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}

// IsTimeout reports whether err was caused by a deadline.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classify wraps err from a read or write. Closed connections and peer
// resets become ConnectionClosed; io.EOF passes through untouched so
// readers see a normal end of stream.
func classify(kind ErrorKind, err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return &Error{Kind: ConnectionClosed, Err: err}
	}
	return &Error{Kind: kind, Err: err}
}
