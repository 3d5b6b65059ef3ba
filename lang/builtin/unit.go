package builtin

import (
	"github.com/ardnew/scene/lang"
)

type kind int

const (
	number kind = iota
	percentage
	duration
)

// quantity is a numeric argument split into magnitude and unit.
type quantity struct {
	x     float64
	kind  kind
	basis lang.Basis
	unit  lang.TimeUnit
}

func quantityOf(v lang.Value) (quantity, bool) {
	switch v := v.(type) {
	case lang.Number:
		return quantity{x: v.X, kind: number}, true
	case lang.Percentage:
		return quantity{x: v.X, kind: percentage, basis: v.Basis}, true
	case lang.Time:
		return quantity{x: v.X, kind: duration, unit: v.Unit}, true
	default:
		return quantity{}, false
	}
}

// with returns a value of q's unit with magnitude x.
func (q quantity) with(x float64) lang.Value {
	switch q.kind {
	case percentage:
		return lang.Percentage{X: x, Basis: q.basis}
	case duration:
		return lang.Time{X: x, Unit: q.unit}
	default:
		return lang.Number{X: x}
	}
}

func (q quantity) suffix() string {
	switch q.kind {
	case percentage:
		return "%"
	case duration:
		return q.unit.String()
	default:
		return ""
	}
}

// join merges the unit of r into q.
func (q quantity) join(r quantity) (quantity, bool) {
	if q.kind != r.kind {
		return q, false
	}

	switch q.kind {
	case percentage:
		switch {
		case q.basis == r.basis, r.basis == lang.BasisNone:
		case q.basis == lang.BasisNone:
			q.basis = r.basis
		default:
			return q, false
		}
	case duration:
		if q.unit != r.unit {
			return q, false
		}
	}

	return q, true
}

// rule checks the arguments of a numeric builtin and returns the unit of
// its result with the argument magnitudes.
type rule func(name string, args []lang.Value) (quantity, []float64, error)

func mismatch(name string, v lang.Value) error {
	return lang.ErrUnitMismatch.Detail(name + " cannot take " + v.String())
}

// preserve accepts any single quantity.
func preserve(name string, args []lang.Value) (quantity, []float64, error) {
	q, ok := quantityOf(args[0])
	if !ok {
		return quantity{}, nil, mismatch(name, args[0])
	}

	return q, []float64{q.x}, nil
}

// plain accepts plain numbers only.
func plain(name string, args []lang.Value) (quantity, []float64, error) {
	xs := make([]float64, len(args))

	for i, a := range args {
		n, ok := a.(lang.Number)
		if !ok {
			return quantity{}, nil, mismatch(name, a)
		}

		xs[i] = n.X
	}

	return quantity{kind: number}, xs, nil
}

// same accepts quantities that share one unit.
func same(name string, args []lang.Value) (quantity, []float64, error) {
	var unit quantity

	xs := make([]float64, len(args))

	for i, a := range args {
		q, ok := quantityOf(a)
		if !ok {
			return quantity{}, nil, mismatch(name, a)
		}

		if i == 0 {
			unit = q
		} else if unit, ok = unit.join(q); !ok {
			return quantity{}, nil, mismatch(name, a)
		}

		xs[i] = q.x
	}

	return unit, xs, nil
}

// scaled accepts quantities that share one unit followed by a plain
// number.
func scaled(name string, args []lang.Value) (quantity, []float64, error) {
	last := len(args) - 1

	unit, xs, err := same(name, args[:last])
	if err != nil {
		return quantity{}, nil, err
	}

	t, ok := args[last].(lang.Number)
	if !ok {
		return quantity{}, nil, mismatch(name, args[last])
	}

	return unit, append(xs, t.X), nil
}
