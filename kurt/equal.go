// Copyright © 2018 The ELPS authors

package kurt

// Equal reports whether a and b are structurally equal.  Lists, Assocs and
// quoted forms compare element-wise, Dicts compare by key set and values
// regardless of insertion order.  Blocks, native references and application
// forms are never equal to anything, including themselves.
func Equal(a, b Expr) bool {
	var eq equality
	return eq.equal(a, b)
}

type cellPair struct {
	a, b cell
}

type equality struct {
	seen map[cellPair]bool
}

// visit records that the pair (a, b) is being compared.  A pair seen again
// while it is still being compared is assumed equal, which lets cyclic values
// terminate.
func (eq *equality) visit(a, b cell) bool {
	if eq.seen == nil {
		eq.seen = make(map[cellPair]bool)
	}
	pair := cellPair{a, b}
	if eq.seen[pair] {
		return false
	}
	eq.seen[pair] = true
	return true
}

func (eq *equality) equal(a, b Expr) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KNil:
		return true
	case KBool:
		return a.Bool == b.Bool
	case KNum:
		return a.Num == b.Num
	case KStr, KID:
		return a.Str == b.Str
	case KQuote, KUnquote:
		return eq.equal(a.Quoted().Expr, b.Quoted().Expr)
	case KList:
		if !eq.visit(a.cell, b.cell) {
			return true
		}
		x, y := a.List().Exprs, b.List().Exprs
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !eq.equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case KAssoc:
		if !eq.visit(a.cell, b.cell) {
			return true
		}
		x, y := a.Assoc().Pairs, b.Assoc().Pairs
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !eq.equal(x[i].Key, y[i].Key) || !eq.equal(x[i].Value, y[i].Value) {
				return false
			}
		}
		return true
	case KDict:
		if !eq.visit(a.cell, b.cell) {
			return true
		}
		x, y := a.Dict().Map, b.Dict().Map
		if len(x) != len(y) {
			return false
		}
		for key, xv := range x {
			yv, ok := y[key]
			if !ok || !eq.equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		// Blocks, native references and application forms.
		return false
	}
}
