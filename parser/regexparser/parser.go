// Copyright © 2018 The ELPS authors

/*
Package regexparser provides an alternative kurt reader built from goparsec
combinators.

	expr   := <term> | <apply> | <block> | <list> | <assoc> | ':' <expr> | '\' <expr>
	apply  := '(' <expr>* ')'
	block  := '(' <param>* '|' <expr>* ')'
	param  := <ident> | ':' <ident>
	list   := '[' <expr>* ']'
	assoc  := '{' <expr>* '}'
	term   := <string> | <number> | <ident>
	string := /"([^"\\]|\\.)*"/
	number := /-?[0-9]+/ <fraction>? <exponent>?  (no trailing word runes)
	ident  := /[^[:space:]()\[\]{}:\\|;"]+/ (roughly)
*/
package regexparser

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser/rdparser"
	"github.com/luthersystems/kurt/parser/token"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a kurt.Reader.
func NewReader() kurt.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (*parsecReader) Read(name string, r io.Reader) ([]kurt.Expr, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(name, b)
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeApply
	nodeApplyUnmatched
	nodeBlock
	nodeParam
	nodeList
	nodeListUnmatched
	nodeAssoc
	nodeAssocUnmatched
	nodeQuote
	nodeUnquote
)

var nodeTypeStrings = []string{
	nodeInvalid:        "INVALID",
	nodeTerm:           "TERM",
	nodeApply:          "APPLY",
	nodeApplyUnmatched: "APPLYUNMATCHED",
	nodeBlock:          "BLOCK",
	nodeParam:          "PARAM",
	nodeList:           "LIST",
	nodeListUnmatched:  "LISTUNMATCHED",
	nodeAssoc:          "ASSOC",
	nodeAssocUnmatched: "ASSOCUNMATCHED",
	nodeQuote:          "QUOTE",
	nodeUnquote:        "UNQUOTE",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// param is the node produced for a block parameter.
type param string

// Parse parses every expression in text.  Errors are *token.LocationError
// values.
func Parse(name string, text []byte) (exprs []kurt.Expr, err error) {
	b := newBuilder(name, text)
	defer func() {
		// goparsec terminals may index past the end of malformed input.
		if r := recover(); r != nil {
			exprs = nil
			err = &token.LocationError{
				Err:    fmt.Errorf("malformed source: %v", r),
				Source: b.loc(len(text)),
			}
		}
	}()
	s := parsec.NewScanner(text)
	s = s.TrackLineno()
	// A leading hash-bang line is ignored.
	_, s = s.Match(`^#![^\n]*`)
	expr := b.parser()
	root, s := expr(s)
	for root != nil {
		nodes, err := cleanNodes([]parsec.ParsecNode{root})
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			if x, ok := node.(kurt.Expr); ok {
				exprs = append(exprs, x)
			}
		}
		root, s = expr(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		rest, _ := s.Match(`[^\n]{1,16}`)
		if len(rest) > 15 {
			rest = append(rest[:15:15], []byte("...")...)
		}
		return nil, &token.LocationError{
			Err:    fmt.Errorf("unexpected source text starting: %s", rest),
			Source: b.loc(s.GetCursor()),
		}
	}
	return exprs, nil
}

// builder constructs expressions from parsec nodes, translating byte offsets
// into source locations.
type builder struct {
	file  string
	lines []int // byte offset of the start of each line
}

func newBuilder(file string, text []byte) *builder {
	b := &builder{file: file, lines: []int{0}}
	for i, c := range text {
		if c == '\n' {
			b.lines = append(b.lines, i+1)
		}
	}
	return b
}

func (b *builder) loc(pos int) *token.Location {
	line := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > pos })
	return &token.Location{
		File: b.file,
		Pos:  pos,
		Line: line,
		Col:  pos - b.lines[line-1] + 1,
	}
}

func (b *builder) parser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	openC := parsec.Atom("{", "OPENC")
	closeC := parsec.Atom("}", "CLOSEC")
	pipe := parsec.Atom("|", "PIPE")
	quote := parsec.Atom(":", "QUOTE")
	unquote := parsec.Atom(`\`, "UNQUOTE")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	str := parsec.Token(`"(?:[^"\\]|\\[\s\S])*"`, "STRING")
	unterminated := parsec.Token(`"(?:[^"\\]|\\[\s\S])*\\?\z`, "UNTERMINATED")
	// Numbers swallow trailing word runes so that 1.2.3 is one bad literal.
	number := parsec.Token(`-?[0-9](?:\pL|[0-9:_+\-*/=<>!&~%?$@^.])*`, "NUMBER")
	ident := parsec.Token(`(?:\pL|[_+\-*/=<>!&~%?$@^.])(?:\pL|[0-9]|[_+\-*/=<>!&~%?$@^.:])*`, "IDENT")

	term := parsec.OrdChoice(b.node(nodeTerm),
		str,
		unterminated,
		number,
		ident, // ident comes last because it swallows anything
	)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	paramList := parsec.Kleene(nil, parsec.OrdChoice(nil,
		comment,
		parsec.And(b.node(nodeParam), quote, ident),
		parsec.And(b.node(nodeParam), ident),
	))
	block := parsec.And(b.node(nodeBlock), openP, paramList, pipe, exprList, closeP)
	apply := parsec.And(b.node(nodeApply), openP, exprList, closeP)
	list := parsec.And(b.node(nodeList), openB, exprList, closeB)
	assoc := parsec.And(b.node(nodeAssoc), openC, exprList, closeC)
	quoted := parsec.And(b.node(nodeQuote), quote, &expr)
	unquoted := parsec.And(b.node(nodeUnquote), unquote, &expr)
	applyUnmatched := parsec.And(b.node(nodeApplyUnmatched), openP, exprList, parsec.End())
	listUnmatched := parsec.And(b.node(nodeListUnmatched), openB, exprList, parsec.End())
	assocUnmatched := parsec.And(b.node(nodeAssocUnmatched), openC, exprList, parsec.End())
	expr = parsec.OrdChoice(nil,
		comment,
		term,
		block,
		apply,
		list,
		assoc,
		quoted,
		unquoted,
		// Error matching cases come last because they have the lowest
		// precedence.
		applyUnmatched,
		listUnmatched,
		assocUnmatched,
	)
	return expr
}

var numberRegexp = regexp.MustCompile(`^-?[0-9]+(?:[.][0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

func (b *builder) errorf(term *parsec.Terminal, format string, v ...interface{}) error {
	return &token.LocationError{Err: fmt.Errorf(format, v...), Source: b.loc(term.Position)}
}

func (b *builder) node(typ nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return b.build(typ, nodes)
	}
}

func (b *builder) build(typ nodeType, raw []parsec.ParsecNode) parsec.ParsecNode {
	nodes, err := cleanNodes(raw)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}
	switch typ {
	case nodeTerm:
		switch term := nodes[0].(type) {
		case *parsec.Terminal:
			switch term.Name {
			case "STRING":
				str, err := strconv.Unquote(term.Value)
				if err != nil {
					return b.errorf(term, "invalid string literal: %s", term.Value)
				}
				return kurt.String(str)
			case "UNTERMINATED":
				return b.errorf(term, "unterminated string literal")
			case "NUMBER":
				if !numberRegexp.MatchString(term.Value) {
					return b.errorf(term, "invalid number literal: %s", term.Value)
				}
				x, err := strconv.ParseFloat(term.Value, 64)
				if err != nil {
					return b.errorf(term, "invalid number literal: %s", term.Value)
				}
				return kurt.Num(x)
			case "IDENT":
				return rdparser.Keyword(term.Value)
			}
		}
		return fmt.Errorf("unexpected term %v", nodes[0])
	case nodeParam:
		last := nodes[len(nodes)-1].(*parsec.Terminal)
		if len(nodes) == 2 {
			return param(kurt.QuoteMarker + last.Value)
		}
		return param(last.Value)
	case nodeBlock:
		open := b.loc(nodes[0].(*parsec.Terminal).Position)
		var params []string
		var body []kurt.Expr
		seenPipe := false
		for _, node := range nodes[1:] {
			switch node := node.(type) {
			case param:
				params = append(params, string(node))
			case *parsec.Terminal:
				if node.Name == "PIPE" {
					seenPipe = true
				}
			case kurt.Expr:
				if seenPipe {
					body = append(body, node)
				}
			}
		}
		return kurt.NewBlock(open, params, kurt.NewApply(open, body))
	case nodeApply, nodeList, nodeAssoc:
		open := b.loc(nodes[0].(*parsec.Terminal).Position)
		var exprs []kurt.Expr
		for _, node := range nodes {
			if x, ok := node.(kurt.Expr); ok {
				exprs = append(exprs, x)
			}
		}
		switch typ {
		case nodeApply:
			return kurt.NewApply(open, exprs)
		case nodeList:
			return kurt.NewList(open, exprs)
		}
		if len(exprs)%2 != 0 {
			return &token.LocationError{Err: errors.New("dict literal has a key without a value"), Source: open}
		}
		pairs := make([]kurt.Pair, 0, len(exprs)/2)
		for i := 0; i < len(exprs); i += 2 {
			pairs = append(pairs, kurt.Pair{Key: exprs[i], Value: exprs[i+1]})
		}
		return kurt.NewAssoc(open, pairs)
	case nodeApplyUnmatched, nodeListUnmatched, nodeAssocUnmatched:
		open := nodes[0].(*parsec.Terminal)
		return &token.LocationError{
			Err:    fmt.Errorf("unmatched %s", open.Value),
			Source: b.loc(open.Position),
		}
	case nodeQuote, nodeUnquote:
		mark := nodes[0].(*parsec.Terminal)
		x, ok := nodes[len(nodes)-1].(kurt.Expr)
		if len(nodes) != 2 || !ok {
			return &token.LocationError{Err: fmt.Errorf("%s must precede an expression", mark.Value), Source: b.loc(mark.Position)}
		}
		if typ == nodeQuote {
			return kurt.NewQuote(b.loc(mark.Position), x)
		}
		return kurt.NewUnquote(b.loc(mark.Position), x)
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

// cleanNodes flattens nested node lists and drops comments.  The first error
// node found is returned as an error.
func cleanNodes(lis []parsec.ParsecNode) ([]parsec.ParsecNode, error) {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case nil:
			continue
		case *parsec.Terminal:
			if node.Name == "COMMENT" {
				continue
			}
			nodes = append(nodes, node)
		case error:
			return nil, node
		case []parsec.ParsecNode:
			clean, err := cleanNodes(node)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, clean...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}
