package router

import (
	"strings"

	"github.com/shapestone/shape-httpd/internal/tokenizer"
)

type segment struct {
	literal string
	param   string // non-empty for parameter segments
}

// pattern is a compiled route pattern.
type pattern struct {
	raw      string
	segments []segment
	shape    string // pattern with parameter names erased, e.g. "/users/:"
}

// compilePattern validates raw and splits it into segments.
//
//	"/"              → one empty literal segment
//	"/users/:id"     → literal "users", param "id"
//	"/files/"        → literal "files", empty literal (trailing slash is significant)
func compilePattern(raw string) (*pattern, error) {
	tokens, err := tokenizer.Tokenize(raw)
	if err != nil {
		return nil, &PatternError{Pattern: raw, Offset: -1, Reason: err.Error()}
	}
	if len(tokens) == 0 || tokens[0].Kind() != tokenizer.TokenSlash {
		return nil, &PatternError{Pattern: raw, Offset: 0, Reason: "must start with '/'"}
	}

	p := &pattern{raw: raw}
	seen := make(map[string]bool)
	var shape strings.Builder

	offset := 0
	for i := 0; i < len(tokens); {
		// tokens[i] is a slash; gather the segment that follows it.
		shape.WriteByte('/')
		offset += len(tokens[i].ValueString())
		start := offset
		i++

		var parts []string
		var kinds []string
		for i < len(tokens) && tokens[i].Kind() != tokenizer.TokenSlash {
			parts = append(parts, tokens[i].ValueString())
			kinds = append(kinds, tokens[i].Kind())
			offset += len(tokens[i].ValueString())
			i++
		}
		last := i >= len(tokens)

		switch {
		case len(parts) == 0:
			if !last {
				return nil, &PatternError{Pattern: raw, Offset: start, Reason: "empty segment"}
			}
			p.segments = append(p.segments, segment{})

		case len(parts) == 1 && kinds[0] == tokenizer.TokenLiteral:
			p.segments = append(p.segments, segment{literal: parts[0]})
			shape.WriteString(parts[0])

		case len(parts) == 1 && kinds[0] == tokenizer.TokenParam:
			name := parts[0][1:]
			if name == "" {
				return nil, &PatternError{Pattern: raw, Offset: start, Reason: "parameter name is empty"}
			}
			if seen[name] {
				return nil, &PatternError{Pattern: raw, Offset: start, Reason: "duplicate parameter " + name}
			}
			seen[name] = true
			p.segments = append(p.segments, segment{param: name})
			shape.WriteByte(tokenizer.ParamPrefix)

		default:
			return nil, &PatternError{Pattern: raw, Offset: start, Reason: "parameter must span the whole segment"}
		}
	}

	p.shape = shape.String()
	return p, nil
}

// match reports whether path fits the pattern and returns the captured
// parameters in pattern order. Values are taken verbatim from path.
func (p *pattern) match(path string) (Params, bool) {
	if len(path) == 0 || path[0] != '/' {
		return nil, false
	}
	rest := path[1:]

	var params Params
	for i, seg := range p.segments {
		var part string
		if i == len(p.segments)-1 {
			part = rest
			if strings.IndexByte(part, '/') >= 0 {
				return nil, false
			}
		} else {
			j := strings.IndexByte(rest, '/')
			if j < 0 {
				return nil, false
			}
			part, rest = rest[:j], rest[j+1:]
		}

		if seg.param != "" {
			if part == "" {
				return nil, false
			}
			params = append(params, Param{Name: seg.param, Value: part})
			continue
		}
		if part != seg.literal {
			return nil, false
		}
	}
	return params, true
}

func (p *pattern) paramNames() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.param != "" {
			names = append(names, seg.param)
		}
	}
	return names
}
