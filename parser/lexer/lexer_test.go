// Copyright © 2018 The ELPS authors

package lexer

import (
	"strings"
	"testing"

	"github.com/luthersystems/kurt/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []*token.Token
	}{
		{``, []*token.Token{
			testToken(token.EOF, ""),
		}},
		{`abc`, []*token.Token{
			testToken(token.IDENT, "abc"),
			testToken(token.EOF, ""),
		}},
		{`=+()[]{}`, []*token.Token{
			testToken(token.IDENT, "=+"),
			testToken(token.PAREN_L, "("),
			testToken(token.PAREN_R, ")"),
			testToken(token.BRACKET_L, "["),
			testToken(token.BRACKET_R, "]"),
			testToken(token.BRACE_L, "{"),
			testToken(token.BRACE_R, "}"),
			testToken(token.EOF, ""),
		}},
		{`(x y... | :z \w List:len)`, []*token.Token{
			testToken(token.PAREN_L, "("),
			testToken(token.IDENT, "x"),
			testToken(token.IDENT, "y..."),
			testToken(token.PIPE, "|"),
			testToken(token.QUOTE, ":"),
			testToken(token.IDENT, "z"),
			testToken(token.UNQUOTE, `\`),
			testToken(token.IDENT, "w"),
			testToken(token.IDENT, "List:len"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{`10 -5 - 0.1 12e12 12e-12 12.02E+5`, []*token.Token{
			testToken(token.NUMBER, "10"),
			testToken(token.NUMBER, "-5"),
			testToken(token.IDENT, "-"),
			testToken(token.NUMBER, "0.1"),
			testToken(token.NUMBER, "12e12"),
			testToken(token.NUMBER, "12e-12"),
			testToken(token.NUMBER, "12.02E+5"),
			testToken(token.EOF, ""),
		}},
		{`"abc" "" "a\"b\n"`, []*token.Token{
			testToken(token.STRING, `"abc"`),
			testToken(token.STRING, `""`),
			testToken(token.STRING, `"a\"b\n"`),
			testToken(token.EOF, ""),
		}},
		{"#!/usr/bin/env kurt\n(x) ; done", []*token.Token{
			testToken(token.HASH_BANG, "#!/usr/bin/env kurt"),
			testToken(token.PAREN_L, "("),
			testToken(token.IDENT, "x"),
			testToken(token.PAREN_R, ")"),
			testToken(token.COMMENT, "; done"),
			testToken(token.EOF, ""),
		}},
		{`"abc`, []*token.Token{
			testToken(token.ERROR, "unterminated string literal"),
		}},
		{`12ab`, []*token.Token{
			testToken(token.ERROR, "invalid number literal: 12ab"),
		}},
		{`,`, []*token.Token{
			testToken(token.ERROR, "unexpected text starting with ','"),
		}},
	}
	for i, test := range tests {
		lex := New(token.NewScanner("", strings.NewReader(test.input)))
		var tokens []*token.Token
		for n := 0; n < 1000; n++ {
			tok := lex.ReadToken()
			tok.Source = nil
			tokens = append(tokens, tok)
			if tok.Type == token.EOF || tok.Type == token.ERROR {
				break
			}
		}
		assert.Equal(t, test.tokens, tokens, "test %d: %q", i, test.input)
	}
}

func TestLexerLocation(t *testing.T) {
	lex := New(token.NewScanner("test.kurt", strings.NewReader("(def x\n  42)")))
	var locs []string
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF {
			break
		}
		locs = append(locs, tok.Source.String())
	}
	assert.Equal(t, []string{
		"test.kurt:1:1",
		"test.kurt:1:2",
		"test.kurt:1:6",
		"test.kurt:2:3",
		"test.kurt:2:5",
	}, locs)
}

func testToken(typ token.Type, text string) *token.Token {
	return &token.Token{
		Type: typ,
		Text: text,
	}
}
