package syntax

// Builder constructs syntax nodes without parsing source text. Nodes built
// this way carry zero spans.
//
//	var b syntax.Builder
//	root := b.Create("Scene",
//		b.Define("gap", b.Num(8)),
//		b.Create("Rectangle",
//			b.Assign("x", b.Bin(syntax.OpMul, b.Name("gap"), b.Num(2))),
//			b.Assign("width", b.Unit(50, "%")),
//		),
//	)
type Builder struct{}

// Create returns a create statement for kind.
func (Builder) Create(kind string, children ...Node) *Create {
	return &Create{Kind: kind, Children: children}
}

// CreateAs returns a named create statement.
func (Builder) CreateAs(kind, name string, children ...Node) *Create {
	return &Create{Kind: kind, Name: name, Children: children}
}

// Template returns a template declaration without a base.
func (Builder) Template(name string, children ...Node) *Template {
	return &Template{Name: name, Children: children}
}

// Inherit returns a template declaration copying base.
func (Builder) Inherit(name, base string, children ...Node) *Template {
	return &Template{Name: name, Inherit: base, Children: children}
}

// Define returns a property declaration.
func (Builder) Define(name string, value Node) *Define {
	return &Define{Name: name, Value: value}
}

// Assign returns a property assignment.
func (Builder) Assign(name string, value Node) *Assign {
	return &Assign{Name: name, Value: value}
}

// Num returns a unitless number literal.
func (Builder) Num(v float64) *Number {
	return &Number{Value: v}
}

// Unit returns a number literal with a unit suffix.
func (Builder) Unit(v float64, unit string) *Number {
	return &Number{Value: v, Unit: unit}
}

// Str returns a string literal.
func (Builder) Str(s string) *String {
	return &String{Value: s}
}

// Name returns a property reference.
func (Builder) Name(ident string) *Name {
	return &Name{Ident: ident}
}

// Call returns a function call.
func (Builder) Call(fn string, args ...Node) *Call {
	return &Call{Func: fn, Args: args}
}

// Bin returns an infix expression.
func (Builder) Bin(op Op, lhs, rhs Node) *BinOp {
	return &BinOp{Op: op, LHS: lhs, RHS: rhs}
}

// Unary returns a prefix expression.
func (Builder) Unary(op Op, operand Node) *UnaryOp {
	return &UnaryOp{Op: op, Operand: operand}
}

// Neg returns the negation of operand.
func (b Builder) Neg(operand Node) *UnaryOp {
	return b.Unary(OpSub, operand)
}
