package lang

import (
	"maps"
	"slices"
)

// registry maps template names to prototype elements. It belongs to a
// single build session.
type registry struct {
	tree   *Tree
	protos map[string]Handle
}

func newRegistry(t *Tree) *registry {
	return &registry{tree: t, protos: make(map[string]Handle)}
}

// register adds a finished prototype.
func (r *registry) register(name string, proto Handle) error {
	if _, ok := r.protos[name]; ok {
		return ErrRedeclaration.About(name).Detail("template already declared")
	}

	r.protos[name] = proto

	return nil
}

func (r *registry) lookup(name string) (Handle, bool) {
	h, ok := r.protos[name]

	return h, ok
}

// instantiate allocates a copy of the named prototype under parent. The
// copy's own properties are attributed to the template.
func (r *registry) instantiate(name string, parent Handle) (Handle, error) {
	proto, ok := r.protos[name]
	if !ok {
		return NoElement, ErrUndefinedTemplate.About(name)
	}

	h := r.tree.newElement(name, parent)
	r.tree.copyInto(h, proto, name)

	return h, nil
}

// Names returns the registered template names in sorted order.
func (r *registry) Names() []string {
	return slices.Sorted(maps.Keys(r.protos))
}
