package http

import (
	"testing"
)

func TestUnmarshalRequest_Simple(t *testing.T) {
	data := []byte("GET /api/users HTTP/1.1\r\nHost: example.com\r\nAccept: application/json\r\n\r\n")

	req := &Request{}
	err := Unmarshal(data, req)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if req.Method != MethodGet {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.Path != "/api/users" {
		t.Errorf("Path = %q, want /api/users", req.Path)
	}
	if len(req.Headers) != 2 {
		t.Fatalf("Headers count = %d, want 2", len(req.Headers))
	}
	if req.Headers.Get("host") != "example.com" {
		t.Errorf("Host = %q, want example.com", req.Headers.Get("host"))
	}
	if req.Body != nil {
		t.Errorf("Body = %v, want nil", req.Body)
	}
}

func TestUnmarshalRequest_NoContentLengthIgnoresTrailingBytes(t *testing.T) {
	// Without Content-Length a request has no body; leftover bytes belong to
	// whatever comes next on the stream.
	req, err := UnmarshalRequest([]byte("POST /api HTTP/1.1\r\nHost: example.com\r\n\r\nhello world"))
	if err != nil {
		t.Fatalf("UnmarshalRequest() error = %v", err)
	}
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", req.Body)
	}
}

func TestUnmarshalRequest_ZeroContentLength(t *testing.T) {
	req, err := UnmarshalRequest([]byte("POST /api HTTP/1.1\r\nContent-Length: 0\r\n\r\n"))
	if err != nil {
		t.Fatalf("UnmarshalRequest() error = %v", err)
	}
	if len(req.Body) != 0 {
		t.Errorf("Body = %q, want empty", req.Body)
	}
}

func TestUnmarshalResponse(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantCode   int
		wantReason string
		wantBody   string
	}{
		{"simple", "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\n", 200, "OK", ""},
		{"with body", "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nHello", 200, "OK", "Hello"},
		{"multi-word reason", "HTTP/1.1 404 Not Found\r\nContent-Length: 9\r\n\r\nNot Found", 404, "Not Found", "Not Found"},
		{"no reason phrase", "HTTP/1.1 204\r\n\r\n", 204, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := UnmarshalResponse([]byte(tt.data))
			if err != nil {
				t.Fatalf("UnmarshalResponse() error = %v", err)
			}
			if resp.StatusCode != tt.wantCode {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			if resp.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", resp.Reason, tt.wantReason)
			}
			if string(resp.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", resp.Body, tt.wantBody)
			}
		})
	}
}

func TestUnmarshal_ChunkedRejected(t *testing.T) {
	data := []byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nHello\r\n0\r\n\r\n")
	_, err := UnmarshalResponse(data)
	if !IsParseError(err, UnsupportedTransferEncoding) {
		t.Errorf("UnmarshalResponse() error = %v, want UnsupportedTransferEncoding", err)
	}
}

func TestUnmarshal_HeaderWhitespace(t *testing.T) {
	req, err := UnmarshalRequest([]byte("GET / HTTP/1.1\r\nHost :  \texample.com \t\r\nX-Empty:\r\n\r\n"))
	if err != nil {
		t.Fatalf("UnmarshalRequest() error = %v", err)
	}
	if got := req.Headers.Get("Host"); got != "example.com" {
		t.Errorf("Host = %q, want example.com", got)
	}
	if !req.Headers.Has("X-Empty") || req.Headers.Get("X-Empty") != "" {
		t.Errorf("X-Empty = %q, want present and empty", req.Headers.Get("X-Empty"))
	}
}

func TestUnmarshal_ColonInValue(t *testing.T) {
	req, err := UnmarshalRequest([]byte("GET / HTTP/1.1\r\nHost: example.com:8080\r\n\r\n"))
	if err != nil {
		t.Fatalf("UnmarshalRequest() error = %v", err)
	}
	if got := req.Headers.Get("Host"); got != "example.com:8080" {
		t.Errorf("Host = %q, want example.com:8080", got)
	}
}

func TestUnmarshal_TypeMismatch(t *testing.T) {
	if err := Unmarshal([]byte("HTTP/1.1 200 OK\r\n\r\n"), &Request{}); err == nil {
		t.Error("Unmarshal(response, *Request) expected error")
	}
	if err := Unmarshal([]byte("GET / HTTP/1.1\r\n\r\n"), &Response{}); err == nil {
		t.Error("Unmarshal(request, *Response) expected error")
	}
}

func TestUnmarshal_UnsupportedType(t *testing.T) {
	var s string
	if err := Unmarshal([]byte("GET / HTTP/1.1\r\n\r\n"), &s); err == nil {
		t.Error("Unmarshal(*string) expected error")
	}
	if err := Unmarshal([]byte("GET / HTTP/1.1\r\n\r\n"), nil); err == nil {
		t.Error("Unmarshal(nil) expected error")
	}
}

func TestDetectMessageType(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{"GET / HTTP/1.1\r\n\r\n", "request"},
		{"HTTP/1.1 200 OK\r\n\r\n", "response"},
		{"", "request"},
		{"HTTP", "request"},
	}
	for _, tt := range tests {
		if got := DetectMessageType([]byte(tt.data)); got != tt.want {
			t.Errorf("DetectMessageType(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
