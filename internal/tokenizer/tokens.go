// Package tokenizer lexes route patterns using Shape's tokenizer framework.
//
// A pattern such as "/users/:id/posts" becomes the token stream
// Slash, Literal("users"), Slash, Param(":id"), Slash, Literal("posts").
// Grammar checks (leading slash, empty segments, duplicate names) belong to
// the router's pattern compiler; the lexer only splits.
package tokenizer

// Token kinds for route patterns.
const (
	TokenSlash   = "Slash"   // segment separator
	TokenParam   = "Param"   // ":name", value includes the colon
	TokenLiteral = "Literal" // any run of bytes up to the next slash
)

// ParamPrefix introduces a parameter segment.
const ParamPrefix = ':'
