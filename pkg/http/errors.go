package http

import (
	"errors"
	"fmt"
)

// ParseErrorKind classifies request parsing failures.
type ParseErrorKind int

const (
	MalformedRequestLine ParseErrorKind = iota + 1
	InvalidMethod
	UnsupportedVersion
	MalformedHeader
	HeaderTooLarge
	InvalidContentLength
	ContentTooLarge
	UnsupportedTransferEncoding
	UnexpectedEOF
)

func (k ParseErrorKind) String() string {
	switch k {
	case MalformedRequestLine:
		return "malformed request line"
	case InvalidMethod:
		return "invalid method"
	case UnsupportedVersion:
		return "unsupported version"
	case MalformedHeader:
		return "malformed header"
	case HeaderTooLarge:
		return "header too large"
	case InvalidContentLength:
		return "invalid content length"
	case ContentTooLarge:
		return "content too large"
	case UnsupportedTransferEncoding:
		return "unsupported transfer encoding"
	case UnexpectedEOF:
		return "unexpected EOF"
	default:
		return fmt.Sprintf("parse error kind %d", int(k))
	}
}

// ParseError represents an error that occurred during HTTP message parsing.
type ParseError struct {
	Kind    ParseErrorKind
	Message string // human-readable detail
	Line    int    // 1-indexed line number where error occurred (0 if unknown)
	Version string // protocol version of the request line, if it was valid
	Err     error  // underlying cause, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("http: parse error at line %d: %s", e.Line, msg)
	}
	return "http: " + msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches another *ParseError by Kind, so callers can write
// errors.Is(err, &ParseError{Kind: UnexpectedEOF}).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// StatusCode returns the response status the server sends for this failure.
func (e *ParseError) StatusCode() int {
	switch e.Kind {
	case InvalidMethod, UnsupportedTransferEncoding:
		return StatusNotImplemented
	case UnsupportedVersion:
		return StatusHTTPVersionNotSupported
	case HeaderTooLarge:
		return StatusRequestHeaderTooLarge
	case ContentTooLarge:
		return StatusRequestEntityTooLarge
	default:
		return StatusBadRequest
	}
}

// IsParseError reports whether err is a *ParseError of the given kind.
func IsParseError(err error, kind ParseErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}

func newParseError(kind ParseErrorKind, line int, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}
