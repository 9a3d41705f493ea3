// Copyright © 2018 The ELPS authors

package kurt

import (
	"fmt"
	"math"
)

// Reserved keys of call frames.
const (
	ParentKey = "^"
	SelfKey   = "@"
	CallerKey = "caller"
)

// maxChainLength bounds walks over parent and caller chains so that a cyclic
// chain built by a program cannot hang the interpreter.
const maxChainLength = 1 << 20

// Define binds name to value directly in scope, shadowing any binding in
// scope's ancestors.
func (k *Interpreter) Define(scope Expr, name string, value Expr) error {
	d := scope.Dict()
	if d == nil {
		return fmt.Errorf("%w: cannot define %q in %v", ErrNotADict, name, scope.Kind)
	}
	d.Map[name] = value
	return nil
}

// Lookup finds name in scope, its chain of parents, or the default table for
// the kind of value the chain ends in.
func (k *Interpreter) Lookup(scope Expr, name string) (Expr, error) {
	d := k.findScope(scope, name)
	if d == nil {
		return Nil(), fmt.Errorf("%w: %s", ErrNameNotFound, name)
	}
	return d.Map[name], nil
}

// Assign rebinds name in the nearest Dict that already binds it.
func (k *Interpreter) Assign(scope Expr, name string, value Expr) error {
	d := k.findScope(scope, name)
	if d == nil {
		return fmt.Errorf("%w: %s", ErrNameNotFound, name)
	}
	d.Map[name] = value
	return nil
}

// Bound returns true if name is visible from scope.
func (k *Interpreter) Bound(scope Expr, name string) bool {
	return k.findScope(scope, name) != nil
}

// findScope returns the Dict holding the binding for name.
func (k *Interpreter) findScope(scope Expr, name string) *Dict {
	cur := scope
	for i := 0; cur.Kind == KDict && i < maxChainLength; i++ {
		d := cur.Dict()
		if _, ok := d.Map[name]; ok {
			return d
		}
		parent, ok := d.Map[ParentKey]
		if !ok {
			break
		}
		cur = parent
	}
	if def := k.Defaults(cur.Kind); def != nil {
		if _, ok := def.Map[name]; ok {
			return def
		}
	}
	return nil
}

// Get reads key from container.  Identifiers are looked up in the container
// and its default table, numbers index lists, and every other key is returned
// unchanged.
func (k *Interpreter) Get(container, key Expr) (Expr, error) {
	switch {
	case key.Kind == KID:
		return k.Lookup(container, key.Str)
	case key.Kind == KNum && container.Kind == KList:
		exprs := container.List().Exprs
		i, ok := listIndex(key.Num, len(exprs))
		if !ok {
			return Nil(), fmt.Errorf("%w: %v (length %d)", ErrIndexOutOfRange, key.Num, len(exprs))
		}
		return exprs[i], nil
	default:
		return key, nil
	}
}

// Set writes value under key in container.  Dict identifiers are assigned as
// by Assign and list numbers replace elements in place.
func (k *Interpreter) Set(container, key, value Expr) error {
	switch {
	case key.Kind == KID && container.Kind == KDict:
		return k.Assign(container, key.Str, value)
	case key.Kind == KNum && container.Kind == KList:
		l := container.List()
		i, ok := listIndex(key.Num, len(l.Exprs))
		if !ok {
			return fmt.Errorf("%w: %v (length %d)", ErrIndexOutOfRange, key.Num, len(l.Exprs))
		}
		l.Exprs[i] = value
		return nil
	case container.Kind != KDict && container.Kind != KList:
		return fmt.Errorf("%w: cannot set %v in %v", ErrNotADict, key, container.Kind)
	default:
		return fmt.Errorf("%w: invalid key %v for %v", ErrTypeMismatch, key, container.Kind)
	}
}

func listIndex(x float64, n int) (int, bool) {
	f := math.Floor(x)
	if math.IsNaN(f) || f < 0 || f >= float64(n) {
		return 0, false
	}
	return int(f), true
}

// Defaults returns the default table consulted for names not found on values
// of kind k, or nil.
func (k *Interpreter) Defaults(kind Kind) *Dict {
	if kind >= numKinds {
		return nil
	}
	return k.defaults[kind].Dict()
}

// SetDefaults installs table as the default table for kind.
func (k *Interpreter) SetDefaults(kind Kind, table Expr) {
	if kind >= numKinds {
		panic(fmt.Sprintf("invalid kind %v", kind))
	}
	k.defaults[kind] = table
}
