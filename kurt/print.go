// Copyright © 2018 The ELPS authors

package kurt

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// String returns the printed form of e.  Strings are written raw.
func (e Expr) String() string {
	var p printer
	p.write(e)
	return p.b.String()
}

// Repr returns the printed form of e with strings quoted.
func (e Expr) Repr() string {
	p := printer{quote: true}
	p.write(e)
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	quote  bool
	active map[cell]bool
}

// enter marks c as being printed.  It returns false if c is already being
// printed further up, which means the value contains itself.
func (p *printer) enter(c cell) bool {
	if p.active == nil {
		p.active = make(map[cell]bool)
	}
	if p.active[c] {
		return false
	}
	p.active[c] = true
	return true
}

func (p *printer) leave(c cell) {
	delete(p.active, c)
}

func (p *printer) write(e Expr) {
	switch e.Kind {
	case KNil:
		p.b.WriteString("nil")
	case KBool:
		p.b.WriteString(strconv.FormatBool(e.Bool))
	case KNum:
		p.b.WriteString(FormatNumber(e.Num))
	case KStr:
		if p.quote {
			p.b.WriteString(strconv.Quote(e.Str))
		} else {
			p.b.WriteString(e.Str)
		}
	case KID:
		p.b.WriteString(e.Str)
	case KNative:
		p.b.WriteString("<native ")
		p.b.WriteString(e.Str)
		p.b.WriteString(">")
	case KQuote:
		p.b.WriteString(":")
		p.write(e.Quoted().Expr)
	case KUnquote:
		p.b.WriteString(`\`)
		p.write(e.Quoted().Expr)
	case KList, KApply:
		lb, rb := "[", "]"
		if e.Kind == KApply {
			lb, rb = "(", ")"
		}
		if !p.enter(e.cell) {
			p.b.WriteString(lb + "..." + rb)
			return
		}
		defer p.leave(e.cell)
		p.b.WriteString(lb)
		for i, item := range e.List().Exprs {
			if i > 0 {
				p.b.WriteString(" ")
			}
			p.write(item)
		}
		p.b.WriteString(rb)
	case KAssoc:
		if !p.enter(e.cell) {
			p.b.WriteString("{...}")
			return
		}
		defer p.leave(e.cell)
		p.b.WriteString("{")
		for i, pair := range e.Assoc().Pairs {
			if i > 0 {
				p.b.WriteString(" ")
			}
			p.write(pair.Key)
			p.b.WriteString(" ")
			p.write(pair.Value)
		}
		p.b.WriteString("}")
	case KDict:
		if !p.enter(e.cell) {
			p.b.WriteString("{...}")
			return
		}
		defer p.leave(e.cell)
		p.writeDict(e.Dict())
	case KBlock:
		b := e.Block()
		p.b.WriteString("(")
		for _, param := range b.Params {
			p.b.WriteString(param)
			p.b.WriteString(" ")
		}
		p.b.WriteString("| ...)")
	default:
		p.b.WriteString("<invalid>")
	}
}

func (p *printer) writeDict(d *Dict) {
	keys := make([]string, 0, len(d.Map))
	for key := range d.Map {
		switch key {
		case ParentKey, SelfKey, CallerKey:
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	p.b.WriteString("{")
	for i, key := range keys {
		if i > 0 {
			p.b.WriteString(" ")
		}
		p.b.WriteString(":")
		p.b.WriteString(key)
		p.b.WriteString(" ")
		p.write(d.Map[key])
	}
	p.b.WriteString("}")
}

// FormatNumber formats x in its shortest form, without a fractional part for
// integral values.
func FormatNumber(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	case math.IsNaN(x):
		return "NaN"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
