package lang

import (
	"math"

	"github.com/ardnew/scene/lang/syntax"
)

// binary applies op to two concrete values.
//
//	N op N        -> N   (+ - * / %)
//	P +-% P       -> P   bases must agree, BasisNone adopts the other
//	P / P         -> N
//	T +-% T       -> T   units must agree
//	T / T         -> N
//	P*N N*P P/N   -> P   and likewise for T
//	S + S         -> S
//
// Other combinations of kinds fail with [UnitMismatch]. An operator a kind
// does not support fails with [InvalidOperator].
func binary(op Op, lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Number:
		switch r := rhs.(type) {
		case Number:
			x, err := numeric(op, l.X, r.X)
			if err != nil {
				return nil, err
			}

			return Number{X: x}, nil

		case Percentage:
			if op == syntax.OpMul {
				return Percentage{X: l.X * r.X, Basis: r.Basis}, nil
			}

		case Time:
			if op == syntax.OpMul {
				return Time{X: l.X * r.X, Unit: r.Unit}, nil
			}
		}

	case Percentage:
		switch r := rhs.(type) {
		case Number:
			x, err := scale(op, l.X, r.X)
			if err != nil {
				return nil, err
			}

			return Percentage{X: x, Basis: l.Basis}, nil

		case Percentage:
			basis, ok := unify(l.Basis, r.Basis)
			if !ok {
				return nil, mismatch(op, lhs, rhs)
			}

			if op == syntax.OpMul {
				return nil, invalid(op, lhs, rhs)
			}

			x, err := numeric(op, l.X, r.X)
			if err != nil {
				return nil, err
			}

			if op == syntax.OpDiv {
				return Number{X: x}, nil
			}

			return Percentage{X: x, Basis: basis}, nil
		}

	case Time:
		switch r := rhs.(type) {
		case Number:
			x, err := scale(op, l.X, r.X)
			if err != nil {
				return nil, err
			}

			return Time{X: x, Unit: l.Unit}, nil

		case Time:
			if l.Unit != r.Unit {
				return nil, mismatch(op, lhs, rhs)
			}

			if op == syntax.OpMul {
				return nil, invalid(op, lhs, rhs)
			}

			x, err := numeric(op, l.X, r.X)
			if err != nil {
				return nil, err
			}

			if op == syntax.OpDiv {
				return Number{X: x}, nil
			}

			return Time{X: x, Unit: l.Unit}, nil
		}

	case String:
		if r, ok := rhs.(String); ok {
			if op != syntax.OpAdd {
				return nil, invalid(op, lhs, rhs)
			}

			return String{S: l.S + r.S}, nil
		}
	}

	return nil, mismatch(op, lhs, rhs)
}

// unary applies a prefix operator to a concrete value.
func unary(op Op, v Value) (Value, error) {
	sign := 1.0

	switch op {
	case syntax.OpAdd:
	case syntax.OpSub:
		sign = -1
	default:
		return nil, ErrInvalidOperator.About(string(op)).Detail("not a prefix operator")
	}

	switch v := v.(type) {
	case Number:
		return Number{X: sign * v.X}, nil
	case Percentage:
		return Percentage{X: sign * v.X, Basis: v.Basis}, nil
	case Time:
		return Time{X: sign * v.X, Unit: v.Unit}, nil
	default:
		return nil, ErrInvalidOperator.About(string(op)).Detail("operand is " + kindOf(v))
	}
}

func numeric(op Op, x, y float64) (float64, error) {
	switch op {
	case syntax.OpAdd:
		return x + y, nil
	case syntax.OpSub:
		return x - y, nil
	case syntax.OpMul:
		return x * y, nil
	case syntax.OpDiv:
		if y == 0 {
			return 0, ErrDivisionByZero
		}

		return x / y, nil
	case syntax.OpMod:
		if y == 0 {
			return 0, ErrDivisionByZero
		}

		return math.Mod(x, y), nil
	default:
		return 0, ErrInvalidOperator.About(string(op))
	}
}

// scale multiplies or divides a unit-carrying quantity by a plain number.
func scale(op Op, x, y float64) (float64, error) {
	switch op {
	case syntax.OpMul, syntax.OpDiv:
		return numeric(op, x, y)
	case syntax.OpAdd, syntax.OpSub, syntax.OpMod:
		return 0, ErrUnitMismatch.Detail("cannot apply " + string(op) + " to a quantity and a number")
	default:
		return 0, ErrInvalidOperator.About(string(op))
	}
}

// unify returns the common basis of two percentages.
func unify(a, b Basis) (Basis, bool) {
	switch {
	case a == b:
		return a, true
	case a == BasisNone:
		return b, true
	case b == BasisNone:
		return a, true
	default:
		return a, false
	}
}

func mismatch(op Op, lhs, rhs Value) *Error {
	return ErrUnitMismatch.Detail(kindOf(lhs) + " " + string(op) + " " + kindOf(rhs))
}

func invalid(op Op, lhs, rhs Value) *Error {
	return ErrInvalidOperator.About(string(op)).Detail(kindOf(lhs) + " " + string(op) + " " + kindOf(rhs))
}

// kindOf names the kind of a value for diagnostics.
func kindOf(v Value) string {
	switch v := v.(type) {
	case Number:
		return "number"
	case Percentage:
		return "percentage of " + v.Basis.String()
	case Time:
		return "time in " + v.Unit.String()
	case String:
		return "string"
	case nil:
		return "nothing"
	default:
		return "expression"
	}
}
