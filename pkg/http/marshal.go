package http

import (
	"fmt"
	"sync"
)

// bufPool pools []byte slices for the encoder fast path.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// Marshal returns the HTTP/1.1 wire-format encoding of v.
//
// v must be a *Request or *Response. Responses always carry a Content-Length
// equal to the body length; see appendResponse. Requests get one only when a
// body is present and the header is absent.
//
// Marshal uses a sync.Pool buffer internally.
func Marshal(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("http: Marshal(nil)")
	}

	bp := bufPool.Get().(*[]byte)
	buf := (*bp)[:0]
	defer func() {
		*bp = buf[:0]
		bufPool.Put(bp)
	}()

	var err error
	switch msg := v.(type) {
	case *Request:
		if msg == nil {
			return nil, fmt.Errorf("http: Marshal(nil *Request)")
		}
		var out []byte
		out, err = appendRequest(buf, msg)
		if err != nil {
			return nil, err
		}
		buf = out
	case *Response:
		if msg == nil {
			return nil, fmt.Errorf("http: Marshal(nil *Response)")
		}
		buf = appendResponse(buf, msg)
	default:
		return nil, fmt.Errorf("http: Marshal unsupported type %T (expected *Request or *Response)", v)
	}

	result := make([]byte, len(buf))
	copy(result, buf)
	return result, nil
}
