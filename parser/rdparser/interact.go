// Copyright © 2018 The ELPS authors

package rdparser

import (
	"sync"

	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser/token"
)

// Interactive implements a parser that parses a single expression at a time
// and defers to a line reading function when it needs more tokens.
type Interactive struct {
	prompt     string
	promptCont string
	Read       func() []*token.Token
	buf        []*token.Token
	mut        sync.RWMutex
	p          *Parser
}

// NewInteractive initializes and returns a new Interactive parser.  Each call
// to read should return the tokens of one line of input, ending with an EOF
// token only when the input is exhausted.
func NewInteractive(read func() []*token.Token) *Interactive {
	p := &Interactive{
		Read: read,
	}
	src := NewTokenStreamSource(TokenGenerator(p.read))
	p.p = NewFromSource(src)
	return p
}

// SetPrompts configures the prompts returned by p.Prompt().  The cont string
// is used when the parser is in the middle of an expression.
func (p *Interactive) SetPrompts(prompt, cont string) {
	p.prompt = prompt
	p.promptCont = cont
}

// Prompt returns the prompt a REPL should display before reading a line.
func (p *Interactive) Prompt() string {
	if p.IsParsing() {
		return p.promptCont
	}
	return p.prompt
}

// IsParsing returns true if p is in the middle of parsing an expression.
// IsParsing can be called at any time, potentially by concurrent goroutines or
// when p is nil.
func (p *Interactive) IsParsing() bool {
	if p == nil {
		return false
	}
	p.mut.RLock()
	defer p.mut.RUnlock()
	return p.p.parsing
}

// read is called with p.mut held.  The lock is released while waiting on
// p.Read so that IsParsing does not block on user input.
func (p *Interactive) read() *token.Token {
	for len(p.buf) == 0 {
		p.mut.Unlock()
		if p.Read == nil {
			panic("nil read func")
		}
		buf := p.Read()
		p.mut.Lock()
		p.buf = buf
	}
	tok := p.buf[0]
	p.buf = p.buf[1:]
	return tok
}

// Parse parses one expression from the interactive token stream.  A REPL
// calls Parse in its main loop.  When a parse error occurs the rest of the
// buffered line is discarded so corrected source can be read.
func (p *Interactive) Parse() (kurt.Expr, error) {
	p.mut.Lock()
	defer p.mut.Unlock()
	expr, err := p.p.Parse()
	if err != nil {
		p.buf = nil
		p.p.src.Reset()
		return kurt.Nil(), err
	}
	return expr, nil
}
