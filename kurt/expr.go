// Copyright © 2018 The ELPS authors

package kurt

import (
	"fmt"

	"github.com/luthersystems/kurt/parser/token"
)

// Kind is the type of an Expr.
type Kind uint8

// Kind constants.  The zero Kind is KNil so the zero Expr is nil.
const (
	KNil Kind = iota
	KBool
	KNum
	KStr
	KID
	KNative
	KList
	KAssoc
	KDict
	KBlock
	KApply
	KQuote
	KUnquote
	numKinds
)

var kindStrings = [numKinds]string{
	KNil:     "Nil",
	KBool:    "Bool",
	KNum:     "Number",
	KStr:     "String",
	KID:      "Id",
	KNative:  "Native",
	KList:    "List",
	KAssoc:   "Assoc",
	KDict:    "Dict",
	KBlock:   "Block",
	KApply:   "Apply",
	KQuote:   "Quote",
	KUnquote: "Unquote",
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindStrings[k]
}

// Expr is a kurt value.  Immediate kinds (nil, booleans, numbers, strings,
// identifiers and native references) are stored inline.  Container kinds
// refer to a shared mutable cell, so copying an Expr never copies the
// container and mutation through one copy is visible through every other.
type Expr struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string // KStr, KID and KNative
	cell cell
}

type cell interface {
	location() *token.Location
}

// List is the cell shared by KList and KApply values.
type List struct {
	Source *token.Location
	Exprs  []Expr
}

// Pair is one key/value entry of an Assoc literal.
type Pair struct {
	Key   Expr
	Value Expr
}

// Assoc is an unevaluated dictionary literal.  Keys are expressions which
// must evaluate to identifiers.
type Assoc struct {
	Source *token.Location
	Pairs  []Pair
}

// Dict is a mutable string keyed map.  Environments and call frames are
// Dicts.  Name is the name of the block whose invocation created the Dict,
// when it is a call frame.
type Dict struct {
	Source *token.Location
	Name   string
	Map    map[string]Expr
}

// Block is a closure: parameter names, a body, the captured environment and
// an optional bound receiver.  A Block whose Env is nil has not been captured
// yet.
type Block struct {
	Source *token.Location
	Name   string
	Params []string
	Body   Expr
	Env    Expr
	Self   Expr
}

// Quote is the cell shared by KQuote and KUnquote values.
type Quote struct {
	Source *token.Location
	Expr   Expr
}

func (c *List) location() *token.Location  { return c.Source }
func (c *Assoc) location() *token.Location { return c.Source }
func (c *Dict) location() *token.Location  { return c.Source }
func (c *Block) location() *token.Location { return c.Source }
func (c *Quote) location() *token.Location { return c.Source }

// Nil returns the nil Expr.
func Nil() Expr {
	return Expr{}
}

// Bool returns a boolean Expr.
func Bool(b bool) Expr {
	return Expr{Kind: KBool, Bool: b}
}

// Num returns a numeric Expr.
func Num(x float64) Expr {
	return Expr{Kind: KNum, Num: x}
}

// String returns a string Expr.
func String(s string) Expr {
	return Expr{Kind: KStr, Str: s}
}

// ID returns an identifier Expr.
func ID(name string) Expr {
	return Expr{Kind: KID, Str: name}
}

// Native returns a reference to the builtin registered as name.
func Native(name string) Expr {
	return Expr{Kind: KNative, Str: name}
}

// NewList returns a List containing exprs.
func NewList(loc *token.Location, exprs []Expr) Expr {
	return Expr{Kind: KList, cell: &List{Source: loc, Exprs: exprs}}
}

// NewApply returns an application form.
func NewApply(loc *token.Location, exprs []Expr) Expr {
	return Expr{Kind: KApply, cell: &List{Source: loc, Exprs: exprs}}
}

// NewAssoc returns an Assoc literal.
func NewAssoc(loc *token.Location, pairs []Pair) Expr {
	return Expr{Kind: KAssoc, cell: &Assoc{Source: loc, Pairs: pairs}}
}

// NewDict returns a Dict backed by m.  A nil m is replaced with an empty map.
func NewDict(loc *token.Location, m map[string]Expr) Expr {
	if m == nil {
		m = make(map[string]Expr)
	}
	return Expr{Kind: KDict, cell: &Dict{Source: loc, Map: m}}
}

// NewBlock returns an uncaptured Block.
func NewBlock(loc *token.Location, params []string, body Expr) Expr {
	return Expr{Kind: KBlock, cell: &Block{Source: loc, Params: params, Body: body}}
}

// NewQuote returns a quoted form.
func NewQuote(loc *token.Location, expr Expr) Expr {
	return Expr{Kind: KQuote, cell: &Quote{Source: loc, Expr: expr}}
}

// NewUnquote returns an unquoted form.
func NewUnquote(loc *token.Location, expr Expr) Expr {
	return Expr{Kind: KUnquote, cell: &Quote{Source: loc, Expr: expr}}
}

// List returns the cell of a KList or KApply value.
func (e Expr) List() *List {
	if e.Kind != KList && e.Kind != KApply {
		return nil
	}
	return e.cell.(*List)
}

// Assoc returns the cell of a KAssoc value.
func (e Expr) Assoc() *Assoc {
	if e.Kind != KAssoc {
		return nil
	}
	return e.cell.(*Assoc)
}

// Dict returns the cell of a KDict value.
func (e Expr) Dict() *Dict {
	if e.Kind != KDict {
		return nil
	}
	return e.cell.(*Dict)
}

// Block returns the cell of a KBlock value.
func (e Expr) Block() *Block {
	if e.Kind != KBlock {
		return nil
	}
	return e.cell.(*Block)
}

// Quoted returns the cell of a KQuote or KUnquote value.
func (e Expr) Quoted() *Quote {
	if e.Kind != KQuote && e.Kind != KUnquote {
		return nil
	}
	return e.cell.(*Quote)
}

// Source returns the location e was read from, if known.
func (e Expr) Source() *token.Location {
	if e.cell == nil {
		return nil
	}
	return e.cell.location()
}

// IsNil returns true if e is nil.
func (e Expr) IsNil() bool {
	return e.Kind == KNil
}

// Same returns true when a and b are the same value: identical immediates or
// the same container cell.
func Same(a, b Expr) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.cell != nil || b.cell != nil {
		return a.cell == b.cell
	}
	return a.Bool == b.Bool && a.Num == b.Num && a.Str == b.Str
}

// withSelf returns a copy of the block in e bound to receiver self.
func (e Expr) withSelf(self Expr) Expr {
	b := *e.Block()
	b.Self = self
	return Expr{Kind: KBlock, cell: &b}
}

// WithName returns a copy of the block in e called name.  Values other than
// blocks are returned unchanged.
func (e Expr) WithName(name string) Expr {
	if e.Kind != KBlock {
		return e
	}
	b := *e.Block()
	b.Name = name
	return Expr{Kind: KBlock, cell: &b}
}

// withEnv returns a copy of the block in e capturing env.
func (e Expr) withEnv(env Expr) Expr {
	b := *e.Block()
	b.Env = env
	return Expr{Kind: KBlock, cell: &b}
}
