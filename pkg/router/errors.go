package router

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned by Register once the router has been frozen.
var ErrFrozen = errors.New("router: registration after Freeze")

// PatternError reports a route pattern that cannot be compiled.
type PatternError struct {
	Pattern string
	Offset  int // byte offset of the offending segment, -1 if not applicable
	Reason  string
}

func (e *PatternError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("router: invalid pattern %q at offset %d: %s", e.Pattern, e.Offset, e.Reason)
	}
	return fmt.Sprintf("router: invalid pattern %q: %s", e.Pattern, e.Reason)
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value interface{}
	stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.Value)
}
