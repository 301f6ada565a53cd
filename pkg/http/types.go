// Package http provides the HTTP/1.x message model, the streaming request
// parser and the response serializer used by shape-httpd.
//
// # Wire support
//
// Requests are read with a Decoder: request line, headers, and a body framed
// by Content-Length. Chunked and other transfer-codings are rejected with a
// ParseError of kind UnsupportedTransferEncoding. Responses are written with
// Marshal or an Encoder, which always emit a Content-Length matching the body.
//
// # Thread Safety
//
// A Decoder or Encoder belongs to one connection. Request and Response values
// are owned by the goroutine serving that connection.
//
// # AST views
//
// RequestToNode and ResponseToNode expose messages as shape-core AST nodes for
// inspection and structured dumps; Render turns such a node back into bytes.
package http

import (
	"strconv"
	"strings"
)

// Method is an HTTP request method token.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH"
)

// ParseMethod returns the Method for a known token. Tokens are case-sensitive.
func ParseMethod(s string) (Method, bool) {
	m, ok := methods[s]
	return m, ok
}

// Supported protocol versions. HTTP/2.0 is accepted on the request line but
// always answered with HTTP/1.1 framing.
const (
	Version10 = "HTTP/1.0"
	Version11 = "HTTP/1.1"
	Version20 = "HTTP/2.0"
)

// Request represents a parsed HTTP request.
type Request struct {
	Method     Method  // GET, POST, ...
	Target     string  // raw request-target "/api/users?q=foo"
	Path       string  // Target without the query "/api/users"
	RawQuery   string  // "q=foo"
	Version    string  // "HTTP/1.1"
	Headers    Headers // ordered, repeatable headers
	Body       []byte  // raw body (nil if none)
	RemoteAddr string  // peer address, set by the server

	attachments map[any]any
}

// Attach stores value under key. Keys should be unexported types owned by the
// attaching package, the same way context keys are used.
func (r *Request) Attach(key, value any) {
	if r.attachments == nil {
		r.attachments = make(map[any]any, 2)
	}
	r.attachments[key] = value
}

// Attachment returns the value stored under key.
func (r *Request) Attachment(key any) (any, bool) {
	v, ok := r.attachments[key]
	return v, ok
}

// Response represents an HTTP response to be written to the wire.
type Response struct {
	Version    string  // "HTTP/1.1" when empty
	StatusCode int     // 200, 404, etc.
	Reason     string  // StatusText(StatusCode) when empty
	Headers    Headers // ordered, repeatable headers
	Body       []byte  // raw body (nil if none)
}

// NewResponse returns a response with the given status and body.
func NewResponse(status int, body []byte) *Response {
	return &Response{StatusCode: status, Body: body}
}

// Text returns a text/plain response.
func Text(status int, body string) *Response {
	return &Response{
		StatusCode: status,
		Headers:    Headers{{Key: "Content-Type", Value: "text/plain; charset=utf-8"}},
		Body:       []byte(body),
	}
}

// Header represents a single HTTP header key-value pair.
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered, repeatable list of HTTP headers.
// Lookups are case-insensitive; the original case is preserved.
type Headers []Header

// Get returns the first header value for the given key (case-insensitive).
// Returns empty string if not found.
func (h Headers) Get(key string) string {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			return hdr.Value
		}
	}
	return ""
}

// Has reports whether a header with the given key is present.
func (h Headers) Has(key string) bool {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			return true
		}
	}
	return false
}

// Values returns all header values for the given key (case-insensitive).
func (h Headers) Values(key string) []string {
	var vals []string
	for _, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			vals = append(vals, hdr.Value)
		}
	}
	return vals
}

// Set replaces the first header with the given key (case-insensitive) or appends if not found.
// Later headers with the same key are removed.
func (h *Headers) Set(key, value string) {
	for i, hdr := range *h {
		if strings.EqualFold(hdr.Key, key) {
			(*h)[i].Value = value
			j := i + 1
			for j < len(*h) {
				if strings.EqualFold((*h)[j].Key, key) {
					*h = append((*h)[:j], (*h)[j+1:]...)
				} else {
					j++
				}
			}
			return
		}
	}
	*h = append(*h, Header{Key: key, Value: value})
}

// Add appends a header without replacing existing ones.
func (h *Headers) Add(key, value string) {
	*h = append(*h, Header{Key: key, Value: value})
}

// Del removes all headers with the given key (case-insensitive).
func (h *Headers) Del(key string) {
	j := 0
	for _, hdr := range *h {
		if !strings.EqualFold(hdr.Key, key) {
			(*h)[j] = hdr
			j++
		}
	}
	*h = (*h)[:j]
}

// Clone returns a deep copy of the headers.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	clone := make(Headers, len(h))
	copy(clone, h)
	return clone
}

// ContentLength returns the Content-Length header value, or -1 if absent or invalid.
func (h Headers) ContentLength() int64 {
	v := h.Get("Content-Length")
	if v == "" {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
