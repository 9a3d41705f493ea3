// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/luthersystems/kurt/parser/token"
)

type LexFn func(*Lexer) *token.Token

const (
	miscWordSymbols = "_+-*/=<>!&~%?$@^."
	miscWordRunes   = "0123456789:" + miscWordSymbols
)

// Lexer turns the runes of a Scanner into kurt tokens.
type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner: s,
		lex:     (*Lexer).readFirstToken,
	}
}

// ReadToken returns the next token in the stream.  After the end of the input
// ReadToken returns EOF tokens indefinitely.
func (lex *Lexer) ReadToken() *token.Token {
	return lex.lex(lex)
}

func (lex *Lexer) readFirstToken() *token.Token {
	lex.lex = (*Lexer).readToken
	if _, ok := lex.scanner.AcceptString("#!"); ok {
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.scanner.EmitToken(token.HASH_BANG)
	}
	if lex.scanner.Text() != "" {
		// A lone '#' was consumed.
		return lex.errorf("unexpected text starting with %q", '#')
	}
	return lex.readToken()
}

func (lex *Lexer) readToken() *token.Token {
	lex.skipWhitespace()
	if lex.scanner.EOF() {
		if err := lex.scanner.Err(); err != nil {
			return lex.emitError(err)
		}
		return lex.emit(token.EOF, "")
	}
	if err := lex.scanner.ScanRune(); err != nil {
		return lex.emitError(err)
	}
	switch c := lex.scanner.Rune(); c {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case '[':
		return lex.scanner.EmitToken(token.BRACKET_L)
	case ']':
		return lex.scanner.EmitToken(token.BRACKET_R)
	case '{':
		return lex.scanner.EmitToken(token.BRACE_L)
	case '}':
		return lex.scanner.EmitToken(token.BRACE_R)
	case ':':
		return lex.scanner.EmitToken(token.QUOTE)
	case '\\':
		return lex.scanner.EmitToken(token.UNQUOTE)
	case '|':
		return lex.scanner.EmitToken(token.PIPE)
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.scanner.EmitToken(token.COMMENT)
	case '"':
		return lex.readString()
	case '-':
		if isDigit(lex.peekRune()) {
			lex.scanner.AcceptDigit()
			return lex.readNumber()
		}
		return lex.readIdent()
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			return lex.readIdent()
		}
		return lex.errorf("unexpected text starting with %q", c)
	}
}

func (lex *Lexer) readString() *token.Token {
	for {
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '"' && c != '\\' })
		if lex.scanner.AcceptRune('"') {
			return lex.scanner.EmitToken(token.STRING)
		}
		if lex.scanner.AcceptRune('\\') {
			// Escapes are validated by the parser.
			if lex.scanner.Accept(func(rune) bool { return true }) {
				continue
			}
		}
		if err := lex.scanner.Err(); err != nil {
			return lex.emitError(err)
		}
		return lex.errorf("unterminated string literal")
	}
}

func (lex *Lexer) readIdent() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.scanner.EmitToken(token.IDENT)
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeqDigit()
	if lex.scanner.AcceptRune('.') {
		if lex.scanner.AcceptSeqDigit() == 0 {
			return lex.errorf("invalid number literal starting: %v", lex.scanner.Text())
		}
	}
	if lex.scanner.AcceptAny("eE") {
		lex.scanner.AcceptAny("+-")
		if lex.scanner.AcceptSeqDigit() == 0 {
			return lex.errorf("invalid number literal starting: %v", lex.scanner.Text())
		}
	}
	if isWord(lex.peekRune()) {
		lex.scanner.AcceptSeq(isWord)
		return lex.errorf("invalid number literal: %v", lex.scanner.Text())
	}
	return lex.scanner.EmitToken(token.NUMBER)
}

func (lex *Lexer) skipWhitespace() {
	lex.scanner.AcceptSeqSpace()
	lex.scanner.Ignore()
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error) *token.Token {
	if err == io.EOF {
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...))
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordSymbols, c)
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordRunes, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
