package lang

import (
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/scene/lang/syntax"
)

// Op is an arithmetic operator.
type Op = syntax.Op

// Value is a property expression or the concrete result of evaluating one.
// The set of implementations is closed. [Number], [Percentage], [Time],
// and [String] are concrete; [BinaryOp], [UnaryOp], [Call], and [Ref] are
// deferred and only produce a concrete value through [Tree.Evaluate].
//
// Values are immutable.
type Value interface {
	String() string
	value()
}

// Number is a dimensionless scalar.
type Number struct {
	X float64
}

// Percentage denotes X/100 of a base supplied at evaluation time.
type Percentage struct {
	X     float64
	Basis Basis
}

// Time is a duration in a fixed unit.
type Time struct {
	X    float64
	Unit TimeUnit
}

// String is opaque text.
type String struct {
	S string
}

// BinaryOp is an unevaluated infix operation.
type BinaryOp struct {
	Op  Op
	LHS Value
	RHS Value
}

// UnaryOp is an unevaluated prefix operation.
type UnaryOp struct {
	Op      Op
	Operand Value
}

// Call is an unevaluated function application.
type Call struct {
	Name string
	Func Func
	Args []Value
}

// Ref names a property of a specific element, resolved at build time.
type Ref struct {
	Element  Handle
	Property string
}

func (Number) value()     {}
func (Percentage) value() {}
func (Time) value()       {}
func (String) value()     {}
func (BinaryOp) value()   {}
func (UnaryOp) value()    {}
func (Call) value()       {}
func (Ref) value()        {}

func (v Number) String() string { return formatFloat(v.X) }

func (v Percentage) String() string { return formatFloat(v.X) + "%" }

func (v Time) String() string { return formatFloat(v.X) + v.Unit.String() }

func (v String) String() string { return strconv.Quote(v.S) }

func (v BinaryOp) String() string {
	return "(" + v.LHS.String() + " " + string(v.Op) + " " + v.RHS.String() + ")"
}

func (v UnaryOp) String() string { return string(v.Op) + v.Operand.String() }

func (v Call) String() string {
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = a.String()
	}

	return v.Name + "(" + strings.Join(args, ", ") + ")"
}

func (v Ref) String() string {
	return "#" + strconv.Itoa(int(v.Element)) + "." + v.Property
}

// Duration converts t to a [time.Duration].
func (v Time) Duration() time.Duration {
	return time.Duration(v.X * float64(v.Unit.Duration()))
}

// Resolve converts p to a Number given the size of its base.
func (v Percentage) Resolve(base float64) Number {
	return Number{X: v.X / 100 * base}
}

// IsConcrete reports whether v is a fully evaluated value.
func IsConcrete(v Value) bool {
	switch v.(type) {
	case Number, Percentage, Time, String:
		return true
	default:
		return false
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// TimeUnit is the unit of a [Time] value.
type TimeUnit int

const (
	Millisecond TimeUnit = iota + 1
	Second
	Minute
)

var timeUnits = map[string]TimeUnit{
	"ms":  Millisecond,
	"s":   Second,
	"min": Minute,
}

// ParseTimeUnit returns the unit named by suffix.
func ParseTimeUnit(suffix string) (TimeUnit, bool) {
	u, ok := timeUnits[suffix]

	return u, ok
}

func (u TimeUnit) String() string {
	switch u {
	case Millisecond:
		return "ms"
	case Second:
		return "s"
	case Minute:
		return "min"
	default:
		return "TimeUnit(" + strconv.Itoa(int(u)) + ")"
	}
}

// Duration returns the length of one u.
func (u TimeUnit) Duration() time.Duration {
	switch u {
	case Millisecond:
		return time.Millisecond
	case Second:
		return time.Second
	case Minute:
		return time.Minute
	default:
		return 0
	}
}

// Basis is the semantic class of a percentage: what it is a percentage of.
type Basis int

const (
	// BasisNone marks a percentage with no geometric meaning. It combines
	// with a percentage of any basis and adopts that basis.
	BasisNone Basis = iota
	BasisWidth
	BasisHeight
)

func (b Basis) String() string {
	switch b {
	case BasisNone:
		return "none"
	case BasisWidth:
		return "width"
	case BasisHeight:
		return "height"
	default:
		return "Basis(" + strconv.Itoa(int(b)) + ")"
	}
}

// propertyBasis is the default basis for percentages bound to a property.
var propertyBasis = map[string]Basis{
	"x":         BasisWidth,
	"width":     BasisWidth,
	"cx":        BasisWidth,
	"rx":        BasisWidth,
	"x1":        BasisWidth,
	"x2":        BasisWidth,
	"y":         BasisHeight,
	"height":    BasisHeight,
	"cy":        BasisHeight,
	"ry":        BasisHeight,
	"y1":        BasisHeight,
	"y2":        BasisHeight,
	"font_size": BasisHeight,
}

// remap returns v with every Ref whose element is a key of m redirected to
// the mapped element. Subtrees without such refs are returned unchanged.
func remap(v Value, m map[Handle]Handle) Value {
	switch v := v.(type) {
	case Ref:
		if h, ok := m[v.Element]; ok {
			v.Element = h
		}

		return v

	case BinaryOp:
		v.LHS = remap(v.LHS, m)
		v.RHS = remap(v.RHS, m)

		return v

	case UnaryOp:
		v.Operand = remap(v.Operand, m)

		return v

	case Call:
		args := make([]Value, len(v.Args))
		for i, a := range v.Args {
			args[i] = remap(a, m)
		}

		v.Args = args

		return v

	default:
		return v
	}
}
