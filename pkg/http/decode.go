package http

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// Default parser limits.
const (
	DefaultMaxHeaderBytes   = 64 << 10
	DefaultMaxContentLength = 8 << 20
)

// Limits bounds how much a Decoder reads for one message.
type Limits struct {
	MaxHeaderBytes   int   // request line plus header section; 0 means DefaultMaxHeaderBytes
	MaxContentLength int64 // largest accepted Content-Length; 0 means DefaultMaxContentLength
}

func (l Limits) withDefaults() Limits {
	if l.MaxHeaderBytes <= 0 {
		l.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if l.MaxContentLength <= 0 {
		l.MaxContentLength = DefaultMaxContentLength
	}
	return l
}

// Decoder reads HTTP messages from an input stream in HTTP/1.x wire format.
// A single Decoder is not safe for concurrent use; create one per connection.
type Decoder struct {
	r       *bufio.Reader
	limits  Limits
	line    int    // lines consumed in the current message
	budget  int    // header bytes left for the current message
	scratch []byte // current line, valid until the next readLine
}

// NewDecoder returns a new decoder that reads from r with default limits.
func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderWithLimits(r, Limits{})
}

// NewDecoderWithLimits returns a new decoder that reads from r.
// If r is already a *bufio.Reader it is used directly.
func NewDecoderWithLimits(r io.Reader, limits Limits) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, limits: limits.withDefaults()}
}

// Decode reads the next HTTP message and stores it in v.
// v must be a *Request or *Response.
func (dec *Decoder) Decode(v interface{}) error {
	switch target := v.(type) {
	case *Request:
		return dec.decodeRequest(target)
	case *Response:
		return dec.decodeResponse(target)
	default:
		return fmt.Errorf("http: Decode unsupported type %T", v)
	}
}

// DecodeRequest reads the next HTTP request from the stream.
//
// Failures are *ParseError values, except for transport read errors other
// than EOF, which are returned wrapped. A stream that ends before the first
// byte yields an UnexpectedEOF ParseError wrapping io.EOF.
func (dec *Decoder) DecodeRequest() (*Request, error) {
	req := &Request{}
	if err := dec.decodeRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// DecodeResponse reads the next HTTP response from the stream.
func (dec *Decoder) DecodeResponse() (*Response, error) {
	resp := &Response{}
	if err := dec.decodeResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (dec *Decoder) reset() {
	dec.line = 0
	dec.budget = dec.limits.MaxHeaderBytes
}

func (dec *Decoder) decodeRequest(req *Request) error {
	dec.reset()

	line, err := dec.readLine()
	if err != nil {
		return dec.readError(err, "request line")
	}

	fields := strings.Fields(string(line))
	if len(fields) != 3 {
		return newParseError(MalformedRequestLine, dec.line, "expected 3 tokens, got %d", len(fields))
	}

	err = dec.decodeRequestFields(req, fields)
	var pe *ParseError
	if err != nil && errors.As(err, &pe) {
		if version, ok := lookupVersion(fields[2]); ok {
			pe.Version = version
		}
	}
	return err
}

// decodeRequestFields validates the request line fields and reads the rest
// of the message into req.
func (dec *Decoder) decodeRequestFields(req *Request, fields []string) error {
	method, ok := ParseMethod(fields[0])
	if !ok {
		return newParseError(InvalidMethod, dec.line, "%q", fields[0])
	}
	path, query, err := splitTarget(fields[1])
	if err != nil {
		return &ParseError{Kind: MalformedRequestLine, Line: dec.line, Message: "invalid request-target", Err: err}
	}
	version, ok := lookupVersion(fields[2])
	if !ok {
		return newParseError(UnsupportedVersion, dec.line, "%q", fields[2])
	}

	headers, err := dec.readHeaders()
	if err != nil {
		return err
	}

	body, err := dec.readRequestBody(headers)
	if err != nil {
		return err
	}

	req.Method = method
	req.Target = fields[1]
	req.Path = path
	req.RawQuery = query
	req.Version = version
	req.Headers = headers
	req.Body = body
	return nil
}

// splitTarget validates a request-target and splits it into path and query.
// The path is kept in its escaped form.
func splitTarget(target string) (path, query string, err error) {
	if target == "*" {
		return target, "", nil
	}
	u, err := url.ParseRequestURI(target)
	if err != nil {
		return "", "", err
	}
	if u.IsAbs() {
		path = u.EscapedPath()
		if path == "" {
			path = "/"
		}
		return path, u.RawQuery, nil
	}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i], target[i+1:], nil
	}
	return target, "", nil
}

func (dec *Decoder) decodeResponse(resp *Response) error {
	dec.reset()

	line, err := dec.readLine()
	if err != nil {
		return dec.readError(err, "status line")
	}

	parts := strings.SplitN(string(line), " ", 3)
	if len(parts) < 2 {
		return fmt.Errorf("http: decode response: malformed status line: %q", line)
	}

	resp.Version = parts[0]
	code, convErr := strconv.Atoi(parts[1])
	if convErr != nil {
		return fmt.Errorf("http: decode response: invalid status code: %q", parts[1])
	}
	resp.StatusCode = code
	if len(parts) >= 3 {
		resp.Reason = parts[2]
	}

	headers, err := dec.readHeaders()
	if err != nil {
		return err
	}
	resp.Headers = headers

	body, err := dec.readResponseBody(headers)
	if err != nil {
		return err
	}
	resp.Body = body
	return nil
}

// readLine reads a line from the buffered reader, stripping CRLF or LF.
// The returned slice is only valid until the next call.
func (dec *Decoder) readLine() ([]byte, error) {
	dec.scratch = dec.scratch[:0]
	for {
		frag, err := dec.r.ReadSlice('\n')
		dec.budget -= len(frag)
		if dec.budget < 0 {
			return nil, newParseError(HeaderTooLarge, dec.line+1, "exceeds %d bytes", dec.limits.MaxHeaderBytes)
		}
		dec.scratch = append(dec.scratch, frag...)
		if err == nil {
			break
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && len(dec.scratch) > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	dec.line++

	line := dec.scratch[:len(dec.scratch)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, nil
}

// readHeaders reads header lines until an empty line.
func (dec *Decoder) readHeaders() (Headers, error) {
	var headers Headers

	for {
		line, err := dec.readLine()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, dec.readError(err, "header section")
		}

		// Empty line = end of headers
		if len(line) == 0 {
			return headers, nil
		}

		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return nil, newParseError(MalformedHeader, dec.line, "no colon in %q", line)
		}
		key := bytes.TrimSpace(line[:colon])
		if len(key) == 0 {
			return nil, newParseError(MalformedHeader, dec.line, "empty header name")
		}
		if i := bytes.IndexFunc(key, func(r rune) bool { return r < 0x80 && isCtl(byte(r)) }); i >= 0 {
			return nil, newParseError(MalformedHeader, dec.line, "control byte in header name %q", key)
		}
		value := string(bytes.TrimSpace(line[colon+1:]))
		headers = append(headers, Header{Key: internHeaderName(key), Value: value})
	}
}

// readRequestBody reads exactly Content-Length bytes. Transfer-codings are
// rejected rather than guessed at.
func (dec *Decoder) readRequestBody(headers Headers) ([]byte, error) {
	if headers.Has("Transfer-Encoding") {
		return nil, newParseError(UnsupportedTransferEncoding, 0, "%q", headers.Get("Transfer-Encoding"))
	}

	n, present, err := contentLength(headers)
	if err != nil || !present || n == 0 {
		return nil, err
	}
	if n > dec.limits.MaxContentLength {
		return nil, newParseError(ContentTooLarge, 0, "%d exceeds limit of %d bytes", n, dec.limits.MaxContentLength)
	}
	return dec.readBody(n)
}

// readResponseBody reads a response body framed by Content-Length, or up to
// EOF when the server did not declare one.
func (dec *Decoder) readResponseBody(headers Headers) ([]byte, error) {
	if headers.Has("Transfer-Encoding") {
		return nil, newParseError(UnsupportedTransferEncoding, 0, "%q", headers.Get("Transfer-Encoding"))
	}

	n, present, err := contentLength(headers)
	if err != nil {
		return nil, err
	}
	if present {
		if n == 0 {
			return nil, nil
		}
		return dec.readBody(n)
	}

	body, err := io.ReadAll(dec.r)
	if err != nil {
		return nil, fmt.Errorf("http: decode body: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

func (dec *Decoder) readBody(n int64) ([]byte, error) {
	body := make([]byte, n)
	read, err := io.ReadFull(dec.r, body)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &ParseError{
				Kind:    UnexpectedEOF,
				Message: fmt.Sprintf("body truncated: expected %d bytes, got %d", n, read),
				Err:     io.ErrUnexpectedEOF,
			}
		}
		return nil, fmt.Errorf("http: decode body: %w", err)
	}
	return body, nil
}

// contentLength returns the declared body length. Repeated headers and
// comma-separated lists must agree on a single value.
func contentLength(headers Headers) (n int64, present bool, err error) {
	n = -1
	for _, h := range headers {
		if !strings.EqualFold(h.Key, "Content-Length") {
			continue
		}
		present = true
		for _, part := range strings.Split(h.Value, ",") {
			v, perr := parseLength(strings.TrimSpace(part))
			if perr != nil {
				return 0, true, perr
			}
			if n >= 0 && v != n {
				return 0, true, newParseError(InvalidContentLength, 0, "conflicting values %d and %d", n, v)
			}
			n = v
		}
	}
	if !present {
		return 0, false, nil
	}
	return n, true, nil
}

// parseLength accepts only a plain run of decimal digits.
func parseLength(s string) (int64, error) {
	if s == "" {
		return 0, newParseError(InvalidContentLength, 0, "empty value")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, newParseError(InvalidContentLength, 0, "%q is not a non-negative integer", s)
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Kind: InvalidContentLength, Message: fmt.Sprintf("%q", s), Err: err}
	}
	return n, nil
}

// readError converts a low-level read failure into the error returned to
// callers. EOF conditions become UnexpectedEOF parse errors.
func (dec *Decoder) readError(err error, where string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{Kind: UnexpectedEOF, Line: dec.line + 1, Message: "reading " + where, Err: err}
	}
	return fmt.Errorf("http: read %s: %w", where, err)
}
