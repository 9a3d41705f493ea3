// Copyright © 2018 The ELPS authors

package rdparser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser/token"
)

type reader struct{}

// NewReader returns a kurt.Reader backed by the recursive descent parser.
func NewReader() kurt.Reader {
	return &reader{}
}

// Read implements kurt.Reader.
func (*reader) Read(name string, r io.Reader) ([]kurt.Expr, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// Parser is a recursive descent parser for kurt source.
type Parser struct {
	parsing bool
	src     *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse parses one expression, returning io.EOF if the input holds no more
// expressions.
func (p *Parser) Parse() (kurt.Expr, error) {
	p.ignoreComments()
	if p.src.IsEOF() {
		return kurt.Nil(), io.EOF
	}
	return p.ParseExpression()
}

// ParseProgram parses a series of expressions potentially preceded by a
// hash-bang line.
func (p *Parser) ParseProgram() ([]kurt.Expr, error) {
	var exprs []kurt.Expr
	p.src.AcceptType(token.HASH_BANG)
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present in the input stream.
func (p *Parser) ParseExpression() (kurt.Expr, error) {
	// Flag that an expression is in progress so an Interactive parser can
	// choose a continuation prompt.
	if !p.parsing {
		p.parsing = true
		defer func() { p.parsing = false }()
	}

	p.ignoreComments()
	switch p.PeekType() {
	case token.NUMBER:
		return p.ParseNumber()
	case token.STRING:
		return p.ParseString()
	case token.IDENT:
		return p.ParseIdent()
	case token.QUOTE:
		return p.parseQuoted(token.QUOTE, kurt.NewQuote)
	case token.UNQUOTE:
		return p.parseQuoted(token.UNQUOTE, kurt.NewUnquote)
	case token.PAREN_L:
		return p.ParseParens()
	case token.BRACKET_L:
		return p.ParseList()
	case token.BRACE_L:
		return p.ParseAssoc()
	case token.ERROR, token.INVALID:
		p.ReadToken()
		return kurt.Nil(), p.errorf("%s", p.TokenText())
	case token.EOF:
		p.ReadToken()
		return kurt.Nil(), p.errorf("unexpected EOF")
	default:
		p.ReadToken()
		return kurt.Nil(), p.errorf("unexpected token: %v", p.TokenType())
	}
}

func (p *Parser) ParseNumber() (kurt.Expr, error) {
	if !p.Accept(token.NUMBER) {
		return kurt.Nil(), p.errorf("invalid number literal: %v", p.PeekType())
	}
	x, err := strconv.ParseFloat(p.TokenText(), 64)
	if err != nil {
		return kurt.Nil(), p.errorf("invalid number literal: %v", p.TokenText())
	}
	return kurt.Num(x), nil
}

func (p *Parser) ParseString() (kurt.Expr, error) {
	if !p.Accept(token.STRING) {
		return kurt.Nil(), p.errorf("invalid string literal: %v", p.PeekType())
	}
	s, err := strconv.Unquote(p.TokenText())
	if err != nil {
		return kurt.Nil(), p.errorf("invalid string literal: %v", p.TokenText())
	}
	return kurt.String(s), nil
}

// ParseIdent parses an identifier or one of the keywords true, false and nil.
func (p *Parser) ParseIdent() (kurt.Expr, error) {
	if !p.Accept(token.IDENT) {
		return kurt.Nil(), p.errorf("invalid identifier: %v", p.PeekType())
	}
	return Keyword(p.TokenText()), nil
}

// Keyword returns the literal named by text, or an identifier.
func Keyword(text string) kurt.Expr {
	switch text {
	case "true":
		return kurt.Bool(true)
	case "false":
		return kurt.Bool(false)
	case "nil":
		return kurt.Nil()
	}
	return kurt.ID(text)
}

func (p *Parser) parseQuoted(typ token.Type, fn func(*token.Location, kurt.Expr) kurt.Expr) (kurt.Expr, error) {
	if !p.Accept(typ) {
		return kurt.Nil(), p.errorf("unexpected token: %v", p.PeekType())
	}
	loc := p.Location()
	expr, err := p.ParseExpression()
	if err != nil {
		return kurt.Nil(), err
	}
	return fn(loc, expr), nil
}

// ParseParens parses an application form or, when the parenthesized
// expressions contain a top level '|', a block.
func (p *Parser) ParseParens() (kurt.Expr, error) {
	if !p.Accept(token.PAREN_L) {
		return kurt.Nil(), p.errorf("unexpected token: %v", p.PeekType())
	}
	open := p.Location()
	var exprs []kurt.Expr
	var params []string
	isBlock := false
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			return kurt.Nil(), p.errorAt(open, "unmatched %s", token.PAREN_L)
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		if p.Accept(token.PIPE) {
			if isBlock {
				return kurt.Nil(), p.errorf("block has more than one %s", token.PIPE)
			}
			var err error
			params, err = p.blockParams(exprs)
			if err != nil {
				return kurt.Nil(), err
			}
			exprs = nil
			isBlock = true
			continue
		}
		x, err := p.ParseExpression()
		if err != nil {
			return kurt.Nil(), err
		}
		exprs = append(exprs, x)
	}
	if isBlock {
		return kurt.NewBlock(open, params, kurt.NewApply(open, exprs)), nil
	}
	return kurt.NewApply(open, exprs), nil
}

// blockParams converts the expressions preceding a '|' into parameter names.
func (p *Parser) blockParams(exprs []kurt.Expr) ([]string, error) {
	params := make([]string, 0, len(exprs))
	for _, x := range exprs {
		param, ok := Param(x)
		if !ok {
			return nil, p.errorf("invalid block parameter: %v", x)
		}
		params = append(params, param)
	}
	return params, nil
}

// Param returns the parameter declared by x, an identifier or a quoted
// identifier.
func Param(x kurt.Expr) (string, bool) {
	switch x.Kind {
	case kurt.KID:
		return x.Str, true
	case kurt.KQuote:
		inner := x.Quoted().Expr
		if inner.Kind == kurt.KID {
			return kurt.QuoteMarker + inner.Str, true
		}
	}
	return "", false
}

func (p *Parser) ParseList() (kurt.Expr, error) {
	if !p.Accept(token.BRACKET_L) {
		return kurt.Nil(), p.errorf("unexpected token: %v", p.PeekType())
	}
	open := p.Location()
	exprs, err := p.parseSeq(open, token.BRACKET_R)
	if err != nil {
		return kurt.Nil(), err
	}
	return kurt.NewList(open, exprs), nil
}

func (p *Parser) ParseAssoc() (kurt.Expr, error) {
	if !p.Accept(token.BRACE_L) {
		return kurt.Nil(), p.errorf("unexpected token: %v", p.PeekType())
	}
	open := p.Location()
	exprs, err := p.parseSeq(open, token.BRACE_R)
	if err != nil {
		return kurt.Nil(), err
	}
	if len(exprs)%2 != 0 {
		return kurt.Nil(), p.errorAt(open, "dict literal has a key without a value")
	}
	pairs := make([]kurt.Pair, 0, len(exprs)/2)
	for i := 0; i < len(exprs); i += 2 {
		pairs = append(pairs, kurt.Pair{Key: exprs[i], Value: exprs[i+1]})
	}
	return kurt.NewAssoc(open, pairs), nil
}

func (p *Parser) parseSeq(open *token.Location, end token.Type) ([]kurt.Expr, error) {
	var exprs []kurt.Expr
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			return nil, p.errorAt(open, "unmatched %s", openerOf(end))
		}
		if p.Accept(end) {
			return exprs, nil
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, x)
	}
}

func openerOf(end token.Type) token.Type {
	switch end {
	case token.BRACKET_R:
		return token.BRACKET_L
	case token.BRACE_R:
		return token.BRACE_L
	}
	return token.PAREN_L
}

func (p *Parser) ignoreComments() {
	for p.Accept(token.COMMENT) {
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	if p.src.Token == nil {
		return nil
	}
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) errorf(format string, v ...interface{}) error {
	return p.errorAt(p.Location(), format, v...)
}

func (p *Parser) errorAt(loc *token.Location, format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: loc,
	}
}
