package lang

import (
	"iter"
	"slices"

	"github.com/ardnew/scene/lang/syntax"
)

// Binding is the state of one property.
type Binding struct {
	// Default is the expression given where the property was declared.
	Default Value
	// Value is the expression currently bound, initially Default.
	Value Value
	// Origin names the template the declaration was inherited from, or is
	// empty for a property declared on the element itself.
	Origin string
	// Span locates the declaration or the latest assignment.
	Span syntax.Span
}

// PropertyTable maps property names to bindings, preserving declaration
// order. The zero value is an empty table.
type PropertyTable struct {
	names    []string
	bindings map[string]Binding
}

// Len returns the number of declared properties.
func (t *PropertyTable) Len() int { return len(t.names) }

// Names returns the declared property names in declaration order.
func (t *PropertyTable) Names() []string { return slices.Clone(t.names) }

// Lookup returns the binding of name.
func (t *PropertyTable) Lookup(name string) (Binding, bool) {
	b, ok := t.bindings[name]

	return b, ok
}

// Has reports whether name is declared.
func (t *PropertyTable) Has(name string) bool {
	_, ok := t.bindings[name]

	return ok
}

// All iterates bindings in declaration order.
func (t *PropertyTable) All() iter.Seq2[string, Binding] {
	return func(yield func(string, Binding) bool) {
		for _, name := range t.names {
			if !yield(name, t.bindings[name]) {
				return
			}
		}
	}
}

// define declares name. It reports false if name is already declared.
func (t *PropertyTable) define(name string, b Binding) bool {
	if t.Has(name) {
		return false
	}

	if t.bindings == nil {
		t.bindings = make(map[string]Binding)
	}

	t.names = append(t.names, name)
	t.bindings[name] = b

	return true
}

// assign rebinds a declared property. It reports false if name is not
// declared.
func (t *PropertyTable) assign(name string, v Value, span syntax.Span) bool {
	b, ok := t.bindings[name]
	if !ok {
		return false
	}

	b.Value = v
	b.Span = span
	t.bindings[name] = b

	return true
}

// clone returns an independent copy. Refs are redirected through m and
// every binding without an origin is attributed to origin.
func (t *PropertyTable) clone(m map[Handle]Handle, origin string) PropertyTable {
	c := PropertyTable{
		names:    slices.Clone(t.names),
		bindings: make(map[string]Binding, len(t.bindings)),
	}

	for name, b := range t.bindings {
		b.Default = remap(b.Default, m)
		b.Value = remap(b.Value, m)

		if b.Origin == "" {
			b.Origin = origin
		}

		c.bindings[name] = b
	}

	return c
}
