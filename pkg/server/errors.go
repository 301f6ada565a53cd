package server

import (
	"errors"
	"fmt"
)

// ErrServerClosed is returned by Serve after Close.
var ErrServerClosed = errors.New("server: closed")

// ConfigError reports an invalid Config.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("server: invalid config %s: %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// BindError reports a listen failure. It is fatal for the server.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("server: bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// WriteError reports a failure writing a response. The connection is
// dropped; nothing is retried.
type WriteError struct {
	Status int
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("server: write %d response: %v", e.Status, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
