package syntax

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Format writes n as canonical source text. Statements are indented with
// tabs; expressions are parenthesized only where precedence requires it.
func Format(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, n, 0)
	_ = bw.WriteByte('\n')

	return bw.Flush()
}

// FormatFile writes every top-level declaration of f, templates first.
func FormatFile(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)

	for i, t := range f.Templates {
		if i > 0 {
			_ = bw.WriteByte('\n')
		}

		writeNode(bw, t, 0)
		_ = bw.WriteByte('\n')
	}

	if f.Scene != nil {
		if len(f.Templates) > 0 {
			_ = bw.WriteByte('\n')
		}

		writeNode(bw, f.Scene, 0)
		_ = bw.WriteByte('\n')
	}

	return bw.Flush()
}

// Sprint returns the canonical source text of n on a single line when n is
// an expression.
func Sprint(n Node) string {
	var sb strings.Builder

	writeExpr(&sb, n, 0)

	return sb.String()
}

type writer interface {
	io.Writer
	io.StringWriter
	io.ByteWriter
}

func writeNode(w writer, n Node, depth int) {
	indent := strings.Repeat("\t", depth)

	_, _ = w.WriteString(indent)

	switch n := n.(type) {
	case *Create:
		_, _ = w.WriteString("create " + n.Kind)
		if n.Name != "" {
			_, _ = w.WriteString(" as " + n.Name)
		}

		writeBlock(w, n.Children, depth)

	case *Template:
		_, _ = w.WriteString("template " + n.Name)
		if n.Inherit != "" {
			_, _ = w.WriteString(" inherit " + n.Inherit)
		}

		writeBlock(w, n.Children, depth)

	case *Define:
		_, _ = w.WriteString("define " + n.Name + " = ")
		writeExpr(w, n.Value, 0)

	case *Assign:
		_, _ = w.WriteString(n.Name + " = ")
		writeExpr(w, n.Value, 0)

	default:
		writeExpr(w, n, 0)
	}
}

func writeBlock(w writer, children []Node, depth int) {
	if len(children) == 0 {
		return
	}

	_, _ = w.WriteString(" {\n")

	for _, c := range children {
		writeNode(w, c, depth+1)
		_ = w.WriteByte('\n')
	}

	_, _ = w.WriteString(strings.Repeat("\t", depth) + "}")
}

// precedence levels, loosest first.
const (
	precSum = iota + 1
	precProduct
	precUnary
	precPrimary
)

func precedence(n Node) int {
	switch n := n.(type) {
	case *BinOp:
		if n.Op == OpAdd || n.Op == OpSub {
			return precSum
		}

		return precProduct
	case *UnaryOp:
		return precUnary
	default:
		return precPrimary
	}
}

// writeExpr writes n, parenthesized if its precedence is below lowest.
func writeExpr(w writer, n Node, lowest int) {
	p := precedence(n)
	if p < lowest {
		_ = w.WriteByte('(')
		defer func() { _ = w.WriteByte(')') }()
	}

	switch n := n.(type) {
	case *BinOp:
		writeExpr(w, n.LHS, p)
		_, _ = w.WriteString(" " + string(n.Op) + " ")
		writeExpr(w, n.RHS, p+1)

	case *UnaryOp:
		_, _ = w.WriteString(string(n.Op))
		writeExpr(w, n.Operand, precUnary)

	case *Number:
		_, _ = w.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64) + n.Unit)

	case *String:
		_, _ = w.WriteString(strconv.Quote(n.Value))

	case *Name:
		_, _ = w.WriteString(n.Ident)

	case *Call:
		_, _ = w.WriteString(n.Func + "(")
		for i, a := range n.Args {
			if i > 0 {
				_, _ = w.WriteString(", ")
			}

			writeExpr(w, a, 0)
		}

		_ = w.WriteByte(')')

	default:
		_, _ = w.WriteString("<statement>")
	}
}
