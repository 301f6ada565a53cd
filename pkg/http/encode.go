package http

import (
	"io"
)

// Flusher is implemented by writers that buffer output, such as transport.Conn.
type Flusher interface {
	Flush() error
}

// Encoder writes HTTP messages to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the HTTP wire-format encoding of v to the stream and flushes
// it if the writer is a Flusher. v must be a *Request or *Response.
// Write errors are returned unchanged.
func (enc *Encoder) Encode(v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if _, err = enc.w.Write(data); err != nil {
		return err
	}
	if f, ok := enc.w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
