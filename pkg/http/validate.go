package http

import (
	"bytes"
	"io"
)

// Validate checks that input is a complete, acceptable HTTP/1.x message:
// a known method and version, well-formed headers, and a body matching its
// Content-Length. Returns nil if valid, or the *ParseError describing the
// first problem.
func Validate(input string) error {
	return validate([]byte(input))
}

// ValidateReader reads all data from r and validates it as an HTTP message.
// See Validate for the validation semantics.
func ValidateReader(r io.Reader) error {
	data, err := readAll(r)
	if err != nil {
		return err
	}
	return validate(data)
}

func validate(data []byte) error {
	if DetectMessageType(data) == "response" {
		_, err := UnmarshalResponse(data)
		return err
	}
	_, err := UnmarshalRequest(data)
	return err
}

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
