package http

import (
	"fmt"
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Parse parses a complete HTTP message into an AST.
// See RequestToNode and ResponseToNode for the node layout.
func Parse(input string) (ast.SchemaNode, error) {
	return parseBytes([]byte(input))
}

// ParseReader reads all data from r and parses it as an HTTP message into an AST.
func ParseReader(r io.Reader) (ast.SchemaNode, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return parseBytes(data)
}

func parseBytes(data []byte) (ast.SchemaNode, error) {
	if DetectMessageType(data) == "response" {
		resp, err := UnmarshalResponse(data)
		if err != nil {
			return nil, err
		}
		return ResponseToNode(resp), nil
	}
	req, err := UnmarshalRequest(data)
	if err != nil {
		return nil, err
	}
	return RequestToNode(req), nil
}

// Render converts an AST node produced by Parse, RequestToNode, or
// ResponseToNode back to wire format with Marshal.
func Render(node ast.SchemaNode) ([]byte, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("http: Render: expected ObjectNode, got %T", node)
	}

	switch msgType := literalString(obj.Properties()["type"]); msgType {
	case "request":
		req, err := NodeToRequest(node)
		if err != nil {
			return nil, fmt.Errorf("http: Render: %w", err)
		}
		return Marshal(req)
	case "response":
		resp, err := NodeToResponse(node)
		if err != nil {
			return nil, fmt.Errorf("http: Render: %w", err)
		}
		return Marshal(resp)
	default:
		return nil, fmt.Errorf("http: Render: unknown message type %q", msgType)
	}
}
