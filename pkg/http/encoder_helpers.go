package http

import (
	"bytes"
	"strconv"
)

// appendCRLF appends \r\n to buf.
func appendCRLF(buf []byte) []byte {
	return append(buf, '\r', '\n')
}

// appendRequestLine appends "METHOD TARGET VERSION\r\n" to buf.
func appendRequestLine(buf []byte, method Method, target, version string) []byte {
	buf = append(buf, string(method)...)
	buf = append(buf, ' ')
	buf = append(buf, target...)
	buf = append(buf, ' ')
	buf = append(buf, version...)
	return appendCRLF(buf)
}

// appendStatusLine appends "VERSION STATUS REASON\r\n" to buf.
func appendStatusLine(buf []byte, version string, statusCode int, reason string) []byte {
	buf = append(buf, version...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(statusCode), 10)
	buf = append(buf, ' ')
	buf = appendSanitized(buf, reason)
	return appendCRLF(buf)
}

// appendHeader appends "Key: Value\r\n" to buf. Key and value are written
// sanitized and trimmed, which is exactly what the decoder reads back.
func appendHeader(buf []byte, key, value string) []byte {
	buf = appendHeaderText(buf, key)
	buf = append(buf, ':', ' ')
	buf = appendHeaderText(buf, value)
	return appendCRLF(buf)
}

// appendHeaderText appends s sanitized, without surrounding whitespace.
func appendHeaderText(buf []byte, s string) []byte {
	start := len(buf)
	buf = appendSanitized(buf, s)
	text := buf[start:]
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == len(text) {
		return buf
	}
	n := copy(text, trimmed)
	return buf[:start+n]
}

// appendContentLength appends a Content-Length header under the given key spelling.
func appendContentLength(buf []byte, key string, n int) []byte {
	buf = appendHeaderText(buf, key)
	buf = append(buf, ':', ' ')
	buf = strconv.AppendInt(buf, int64(n), 10)
	return appendCRLF(buf)
}

// appendSanitized appends s without CR, LF, DEL, or control bytes other than HTAB,
// so header text can never break message framing.
func appendSanitized(buf []byte, s string) []byte {
	clean := true
	for i := 0; i < len(s); i++ {
		if isCtl(s[i]) {
			clean = false
			break
		}
	}
	if clean {
		return append(buf, s...)
	}
	for i := 0; i < len(s); i++ {
		if !isCtl(s[i]) {
			buf = append(buf, s[i])
		}
	}
	return buf
}

func isCtl(c byte) bool {
	return c == 0x7f || (c < 0x20 && c != '\t')
}
