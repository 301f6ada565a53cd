package http

import (
	"bytes"
	"fmt"
)

// Unmarshal parses the HTTP wire-format data and stores the result in v.
//
// v must be a *Request or *Response. Data starting with "HTTP/" is a
// response; anything else is parsed as a request. Parsing follows the same
// rules and default Limits as a Decoder reading from a connection.
//
// Query strings stay in Target and RawQuery:
//
//	// GET /api/users?api_key=abc123 HTTP/1.1  →  req.Path = "/api/users", req.RawQuery = "api_key=abc123"
func Unmarshal(data []byte, v interface{}) error {
	if v == nil {
		return fmt.Errorf("http: Unmarshal(nil)")
	}

	isResp := bytes.HasPrefix(data, []byte("HTTP/"))
	dec := NewDecoder(bytes.NewReader(data))

	switch target := v.(type) {
	case *Request:
		if isResp {
			return fmt.Errorf("http: data appears to be a response but target is *Request")
		}
		return dec.decodeRequest(target)

	case *Response:
		if !isResp {
			return fmt.Errorf("http: data appears to be a request but target is *Response")
		}
		return dec.decodeResponse(target)

	default:
		return fmt.Errorf("http: Unmarshal unsupported type %T (expected *Request or *Response)", v)
	}
}

// UnmarshalRequest parses HTTP wire-format data as a request.
func UnmarshalRequest(data []byte) (*Request, error) {
	req := &Request{}
	if err := Unmarshal(data, req); err != nil {
		return nil, err
	}
	return req, nil
}

// UnmarshalResponse parses HTTP wire-format data as a response.
func UnmarshalResponse(data []byte) (*Response, error) {
	resp := &Response{}
	if err := Unmarshal(data, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DetectMessageType returns "request" or "response" based on the data prefix.
// Data starting with "HTTP/" is detected as a response; everything else as a request.
func DetectMessageType(data []byte) string {
	if bytes.HasPrefix(data, []byte("HTTP/")) {
		return "response"
	}
	return "request"
}
