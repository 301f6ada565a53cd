package http

import "strings"

// appendRequest serializes a Request to HTTP/1.1 wire format.
// It appends "METHOD TARGET VERSION\r\n" followed by headers and body.
func appendRequest(buf []byte, req *Request) ([]byte, error) {
	if req.Method == "" {
		return nil, &ParseError{Kind: MalformedRequestLine, Message: "request method is empty"}
	}
	target := req.Target
	if target == "" {
		target = req.Path
		if req.RawQuery != "" {
			target += "?" + req.RawQuery
		}
	}
	if target == "" {
		return nil, &ParseError{Kind: MalformedRequestLine, Message: "request target is empty"}
	}

	version := req.Version
	if version == "" {
		version = Version11
	}

	buf = appendRequestLine(buf, req.Method, target, version)
	for _, h := range req.Headers {
		buf = appendHeader(buf, h.Key, h.Value)
	}

	// Auto-set Content-Length if body present and header absent
	if len(req.Body) > 0 && !req.Headers.Has("Content-Length") {
		buf = appendContentLength(buf, "Content-Length", len(req.Body))
	}

	buf = appendCRLF(buf) // empty line before body
	return append(buf, req.Body...), nil
}

// appendResponse serializes a Response to HTTP/1.1 wire format.
//
// Headers keep their insertion order. The first Content-Length header keeps
// its position and spelling but always carries the body's byte length; later
// duplicates are dropped. When the caller set none, one is appended after the
// other headers, including "Content-Length: 0" for an empty body.
func appendResponse(buf []byte, resp *Response) []byte {
	version := resp.Version
	if version == "" {
		version = Version11
	}
	status := resp.StatusCode
	if status == 0 {
		status = StatusOK
	}
	reason := resp.Reason
	if reason == "" {
		reason = StatusText(status)
	}

	buf = appendStatusLine(buf, version, status, reason)

	wroteLength := false
	for _, h := range resp.Headers {
		if strings.EqualFold(h.Key, "Content-Length") {
			if !wroteLength {
				buf = appendContentLength(buf, h.Key, len(resp.Body))
				wroteLength = true
			}
			continue
		}
		buf = appendHeader(buf, h.Key, h.Value)
	}
	if !wroteLength {
		buf = appendContentLength(buf, "Content-Length", len(resp.Body))
	}

	buf = appendCRLF(buf) // empty line before body
	return append(buf, resp.Body...)
}
