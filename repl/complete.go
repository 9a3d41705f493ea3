// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/kurt/kurt"
)

// nameCompleter implements readline.AutoCompleter by enumerating the names
// visible from the REPL scope.
type nameCompleter struct {
	k   *kurt.Interpreter
	env kurt.Expr
}

func (c *nameCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !isWordBoundary(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	names := c.names(prefix)
	if len(names) == 0 {
		return nil, 0
	}
	result := make([][]rune, len(names))
	for i, name := range names {
		result[i] = []rune(name[len(prefix):])
	}
	return result, len(prefix)
}

func isWordBoundary(r rune) bool {
	return strings.ContainsRune(" \t\n()[]{}|:\\", r)
}

// names returns the sorted names starting with prefix bound in the scope
// chain or the dict default table.
func (c *nameCompleter) names(prefix string) []string {
	seen := make(map[string]bool)
	add := func(d *kurt.Dict) {
		if d == nil {
			return
		}
		for name := range d.Map {
			switch name {
			case kurt.ParentKey, kurt.SelfKey, kurt.CallerKey:
				continue
			}
			if strings.HasPrefix(name, prefix) {
				seen[name] = true
			}
		}
	}
	cur := c.env
	for depth := 0; cur.Kind == kurt.KDict && depth < 64; depth++ {
		add(cur.Dict())
		cur = cur.Dict().Map[kurt.ParentKey]
	}
	add(c.k.Defaults(kurt.KDict))
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
