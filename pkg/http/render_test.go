package http

import (
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "request",
			input: "GET /api HTTP/1.1\r\nHost: example.com\r\n\r\n",
			want:  "GET /api HTTP/1.1\r\nHost: example.com\r\n\r\n",
		},
		{
			name:  "response",
			input: "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nHello",
			want:  "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nHello",
		},
		{
			name:  "response gains length",
			input: "HTTP/1.0 404 Not Found\r\nContent-Type: text/html\r\n\r\n<h1>Not Found</h1>",
			want:  "HTTP/1.0 404 Not Found\r\nContent-Type: text/html\r\nContent-Length: 18\r\n\r\n<h1>Not Found</h1>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			data, err := Render(node)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			if string(data) != tt.want {
				t.Errorf("Render() =\n%q\nwant:\n%q", string(data), tt.want)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render(ast.NewLiteralNode("x", zeroPos)); err == nil {
		t.Error("Render(literal) expected error")
	}
	unknown := ast.NewObjectNode(map[string]ast.SchemaNode{
		"type": ast.NewLiteralNode("datagram", zeroPos),
	}, zeroPos)
	if _, err := Render(unknown); err == nil {
		t.Error("Render(unknown type) expected error")
	}
}
