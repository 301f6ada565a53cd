package tokenizer

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for route patterns.
// Matchers are tried in order:
// 1. Slash (segment separator)
// 2. Param (":" followed by a name)
// 3. Literal (everything else until the next slash)
//
// Whitespace is significant inside literals, so the default skipper is off.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		SlashMatcher(),
		ParamMatcher(),
		LiteralMatcher(),
	)
}

// Tokenize splits pattern into route tokens.
func Tokenize(pattern string) ([]tokenizer.Token, error) {
	tok := NewTokenizer()
	tok.Initialize(pattern)

	tokens, eos := tok.Tokenize()
	if !eos {
		consumed := 0
		for _, t := range tokens {
			consumed += len(t.ValueString())
		}
		return nil, fmt.Errorf("unexpected input at offset %d", consumed)
	}
	return tokens, nil
}

// SlashMatcher matches a single '/'.
func SlashMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '/' {
			return nil
		}
		stream.NextChar()
		return tokenizer.NewToken(TokenSlash, []rune{'/'})
	}
}

// ParamMatcher matches ':' followed by letters, digits and underscores.
// A bare ':' still yields a Param token so the compiler can report the empty name.
func ParamMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != ParamPrefix {
			return nil
		}
		stream.NextChar()
		value := []rune{ParamPrefix}

		for {
			r, ok := stream.PeekChar()
			if !ok || !isNameRune(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		return tokenizer.NewToken(TokenParam, value)
	}
}

// LiteralMatcher matches any run of characters up to '/' or EOS.
// It does not start on ':'; that belongs to ParamMatcher.
func LiteralMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune

		for {
			r, ok := stream.PeekChar()
			if !ok || r == '/' {
				break
			}
			if len(value) == 0 && r == ParamPrefix {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenLiteral, value)
	}
}

func isNameRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
