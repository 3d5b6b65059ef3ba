package lang

import (
	"maps"
	"slices"
)

// Func is a pure function callable from expressions. Arguments are always
// concrete values.
type Func func(args []Value) (Value, error)

// Functions resolves function names at build time.
type Functions interface {
	Lookup(name string) (Func, bool)
}

// FuncMap is a [Functions] backed by a map.
type FuncMap map[string]Func

// Lookup implements [Functions].
func (m FuncMap) Lookup(name string) (Func, bool) {
	fn, ok := m[name]

	return fn, ok
}

// Names returns the function names in sorted order.
func (m FuncMap) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

// names returns the names known to fs if it can enumerate them.
func names(fs Functions) []string {
	if n, ok := fs.(interface{ Names() []string }); ok {
		return n.Names()
	}

	return nil
}
