package lang

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/scene/log"
)

// Handle identifies an element within its [Tree].
type Handle int

// NoElement is the parent of the root and of template prototypes.
const NoElement Handle = -1

type element struct {
	kind     string
	parent   Handle
	children []Handle
	props    PropertyTable
}

// Tree is an arena of elements. Elements refer to each other by [Handle],
// so the ownership graph stays acyclic even when property references form
// cycles.
//
// The arena also holds the template prototypes created while building.
// They are never reachable from [Tree.Root].
//
// A Tree is read-only once [Build] returns and safe for concurrent use.
type Tree struct {
	elems  []element
	root   Handle
	basis  map[string]Basis
	logger log.Logger
}

func newTree(cfg config) *Tree {
	return &Tree{root: NoElement, basis: cfg.basis, logger: cfg.logger}
}

// basisOf returns the percentage basis of a property name.
func (t *Tree) basisOf(name string) Basis {
	if b, ok := t.basis[name]; ok {
		return b
	}

	return propertyBasis[name]
}

// Root returns the scene element.
func (t *Tree) Root() Handle { return t.root }

// Valid reports whether h names an element of t.
func (t *Tree) Valid(h Handle) bool {
	return h >= 0 && int(h) < len(t.elems)
}

// Len returns the number of elements in the arena, including template
// prototypes.
func (t *Tree) Len() int { return len(t.elems) }

// Kind returns the name of the template h was instantiated from.
func (t *Tree) Kind(h Handle) string { return t.elems[h].kind }

// Label returns a short unique description of h, such as "Rectangle#3".
func (t *Tree) Label(h Handle) string {
	if !t.Valid(h) {
		return "#" + strconv.Itoa(int(h))
	}

	return t.elems[h].kind + "#" + strconv.Itoa(int(h))
}

// Parent returns the parent of h, or [NoElement].
func (t *Tree) Parent(h Handle) Handle { return t.elems[h].parent }

// Children returns the children of h in source order.
func (t *Tree) Children(h Handle) []Handle {
	return slices.Clone(t.elems[h].children)
}

// Property returns the binding of name on h.
func (t *Tree) Property(h Handle, name string) (Binding, bool) {
	return t.elems[h].props.Lookup(name)
}

// PropertyNames returns the properties of h in declaration order.
func (t *Tree) PropertyNames(h Handle) []string {
	return t.elems[h].props.Names()
}

// Bindings iterates the properties of h in declaration order.
func (t *Tree) Bindings(h Handle) iter.Seq2[string, Binding] {
	return t.elems[h].props.All()
}

// Elements iterates the elements reachable from the root in depth-first
// preorder.
func (t *Tree) Elements() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		if t.root == NoElement {
			return
		}

		stack := []Handle{t.root}
		for len(stack) > 0 {
			h := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(h) {
				return
			}

			kids := t.elems[h].children
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// Depth returns the number of ancestors of h.
func (t *Tree) Depth(h Handle) int {
	d := 0
	for p := t.elems[h].parent; p != NoElement; p = t.elems[p].parent {
		d++
	}

	return d
}

// Describe formats v with references shown by element label.
func (t *Tree) Describe(v Value) string {
	var sb strings.Builder

	t.describe(&sb, v)

	return sb.String()
}

func (t *Tree) describe(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case Ref:
		sb.WriteString(t.Label(v.Element))
		sb.WriteByte('.')
		sb.WriteString(v.Property)

	case BinaryOp:
		sb.WriteByte('(')
		t.describe(sb, v.LHS)
		sb.WriteString(" " + string(v.Op) + " ")
		t.describe(sb, v.RHS)
		sb.WriteByte(')')

	case UnaryOp:
		sb.WriteString(string(v.Op))
		t.describe(sb, v.Operand)

	case Call:
		sb.WriteString(v.Name)
		sb.WriteByte('(')

		for i, a := range v.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			t.describe(sb, a)
		}

		sb.WriteByte(')')

	case nil:
		sb.WriteString("<nil>")

	default:
		sb.WriteString(v.String())
	}
}

// newElement allocates an element and, unless parent is NoElement, appends
// it to parent's children.
func (t *Tree) newElement(kind string, parent Handle) Handle {
	h := Handle(len(t.elems))
	t.elems = append(t.elems, element{kind: kind, parent: parent})

	if parent != NoElement {
		t.elems[parent].children = append(t.elems[parent].children, h)
	}

	return h
}

// copyInto gives dst a structural copy of src: src's property table and a
// fresh copy of every descendant. Refs that point into the copied subtree
// are redirected to the copy, so an instance never observes or aliases its
// prototype. Properties declared directly on src are attributed to origin.
func (t *Tree) copyInto(dst, src Handle, origin string) {
	m := map[Handle]Handle{src: dst}

	var alloc func(from, to Handle)

	alloc = func(from, to Handle) {
		for _, c := range t.elems[from].children {
			nc := t.newElement(t.elems[c].kind, to)
			m[c] = nc
			alloc(c, nc)
		}
	}

	alloc(src, dst)

	for from, to := range m {
		o := ""
		if from == src {
			o = origin
		}

		t.elems[to].props = t.elems[from].props.clone(m, o)
	}
}
