package syntax

import "strconv"

// Pos is a 1-based line and column in source text.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Before reports whether p precedes q.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

// Span is the source range of a node, inclusive of Start and exclusive of
// End.
type Span struct {
	Start Pos
	End   Pos
}

// IsZero reports whether the span carries no position, as is the case for
// nodes constructed with a [Builder].
func (s Span) IsZero() bool { return s == Span{} }

func (s Span) String() string {
	return s.Start.String() + " to " + s.End.String()
}

// Join returns the smallest span covering s and t.
func (s Span) Join(t Span) Span {
	switch {
	case s.IsZero():
		return t
	case t.IsZero():
		return s
	}

	if t.Start.Before(s.Start) {
		s.Start = t.Start
	}

	if s.End.Before(t.End) {
		s.End = t.End
	}

	return s
}

// Node is a syntax tree node. The set of implementations is closed:
// [*Create], [*Template], [*Define], [*Assign], [*BinOp], [*UnaryOp],
// [*Number], [*String], [*Call], and [*Name].
type Node interface {
	Span() Span
	node()
}

// Op is an arithmetic operator. The same operators serve as unary prefixes
// where that makes sense ("-" and "+").
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"
)

// Create instantiates the template named Kind and appends it to the
// enclosing element. Name is set by "create Kind as Name".
type Create struct {
	Kind     string
	Name     string
	Children []Node
	Loc      Span
}

// Template declares a prototype, optionally copying the structure of the
// template named by Inherit first.
type Template struct {
	Name     string
	Inherit  string
	Children []Node
	Loc      Span
}

// Define declares a property with a default value.
type Define struct {
	Name  string
	Value Node
	Loc   Span
}

// Assign rebinds a declared property.
type Assign struct {
	Name  string
	Value Node
	Loc   Span
}

// BinOp is an infix arithmetic expression.
type BinOp struct {
	Op  Op
	LHS Node
	RHS Node
	Loc Span
}

// UnaryOp is a prefix arithmetic expression.
type UnaryOp struct {
	Op      Op
	Operand Node
	Loc     Span
}

// Number is a numeric literal with an optional unit suffix such as "%",
// "s", or "ms". The unit is carried verbatim; validating it is the
// compiler's job.
type Number struct {
	Value float64
	Unit  string
	Loc   Span
}

// String is a string literal with escapes already resolved.
type String struct {
	Value string
	Loc   Span
}

// Call invokes a named function.
type Call struct {
	Func string
	Args []Node
	Loc  Span
}

// Name refers to a property visible from the enclosing elements.
type Name struct {
	Ident string
	Loc   Span
}

func (n *Create) Span() Span   { return n.Loc }
func (n *Template) Span() Span { return n.Loc }
func (n *Define) Span() Span   { return n.Loc }
func (n *Assign) Span() Span   { return n.Loc }
func (n *BinOp) Span() Span    { return n.Loc }
func (n *UnaryOp) Span() Span  { return n.Loc }
func (n *Number) Span() Span   { return n.Loc }
func (n *String) Span() Span   { return n.Loc }
func (n *Call) Span() Span     { return n.Loc }
func (n *Name) Span() Span     { return n.Loc }

func (*Create) node()   {}
func (*Template) node() {}
func (*Define) node()   {}
func (*Assign) node()   {}
func (*BinOp) node()    {}
func (*UnaryOp) node()  {}
func (*Number) node()   {}
func (*String) node()   {}
func (*Call) node()     {}
func (*Name) node()     {}

// Inspect traverses n depth-first, calling fn for each node before its
// children. If fn returns false the node's children are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *Create:
		for _, c := range n.Children {
			Inspect(c, fn)
		}
	case *Template:
		for _, c := range n.Children {
			Inspect(c, fn)
		}
	case *Define:
		Inspect(n.Value, fn)
	case *Assign:
		Inspect(n.Value, fn)
	case *BinOp:
		Inspect(n.LHS, fn)
		Inspect(n.RHS, fn)
	case *UnaryOp:
		Inspect(n.Operand, fn)
	case *Call:
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	case *Number, *String, *Name:
	}
}
