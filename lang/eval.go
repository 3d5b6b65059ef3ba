package lang

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
)

// Env is the evaluation context of one request.
type Env struct {
	// Bases maps a percentage basis to the size it is relative to. A
	// percentage whose basis has no entry is returned unresolved.
	Bases map[Basis]float64
	// Inputs replaces the bound expression of a property for this request
	// only, e.g. the scene's current time.
	Inputs map[Ref]Value
}

// Base returns the size for basis b.
func (e Env) Base(b Basis) (float64, bool) {
	x, ok := e.Bases[b]

	return x, ok
}

// With returns a copy of e with an input bound to ref. e is not modified.
func (e Env) With(ref Ref, v Value) Env {
	inputs := make(map[Ref]Value, len(e.Inputs)+1)
	maps.Copy(inputs, e.Inputs)
	inputs[ref] = v
	e.Inputs = inputs

	return e
}

// Evaluate computes the concrete value of property prop on element h.
// Every call walks the bound expression from scratch; nothing is cached.
// A Percentage result is resolved to a Number when env has a base for its
// basis.
//
// Evaluate does not modify t and may be called concurrently.
func (t *Tree) Evaluate(
	ctx context.Context,
	h Handle,
	prop string,
	env Env,
) (Value, error) {
	if !t.Valid(h) {
		return nil, ErrElementNotFound.About(t.Label(h))
	}

	t.logger.TraceContext(ctx, "evaluate",
		slog.String("element", t.Label(h)),
		slog.String("property", prop))

	e := &evaluator{
		ctx:      ctx,
		tree:     t,
		env:      env,
		visiting: make(map[Ref]struct{}),
	}

	v, err := e.property(Ref{Element: h, Property: prop})
	if err != nil {
		return nil, err
	}

	if p, ok := v.(Percentage); ok {
		basis := p.Basis
		if basis == BasisNone {
			basis = t.basisOf(prop)
		}

		if base, ok := env.Base(basis); ok {
			return p.Resolve(base), nil
		}
	}

	return v, nil
}

// Result is the outcome of evaluating one property.
type Result struct {
	Property string
	Value    Value
	Err      error
}

// EvaluateAll evaluates every property of h in declaration order. A
// failing property does not stop the others.
func (t *Tree) EvaluateAll(ctx context.Context, h Handle, env Env) []Result {
	if !t.Valid(h) {
		return nil
	}

	names := t.elems[h].props.Names()
	out := make([]Result, len(names))

	for i, name := range names {
		v, err := t.Evaluate(ctx, h, name, env)
		out[i] = Result{Property: name, Value: v, Err: err}
	}

	return out
}

// evaluator is the state of one request. The visiting set and stack hold
// the properties currently being evaluated, so two independent chains
// reaching the same property are not a cycle.
type evaluator struct {
	ctx      context.Context
	tree     *Tree
	env      Env
	visiting map[Ref]struct{}
	stack    []Ref
}

func (e *evaluator) property(r Ref) (Value, error) {
	if _, ok := e.visiting[r]; ok {
		return nil, e.cycle(r)
	}

	if !e.tree.Valid(r.Element) {
		return nil, ErrElementNotFound.About(e.tree.Label(r.Element))
	}

	b, ok := e.tree.Property(r.Element, r.Property)
	if !ok {
		return nil, ErrUndefinedProperty.About(r.Property).
			Detail("not declared on " + e.tree.Label(r.Element))
	}

	expr := b.Value
	if in, ok := e.env.Inputs[r]; ok {
		expr = in
	}

	e.visiting[r] = struct{}{}
	e.stack = append(e.stack, r)

	v, err := e.eval(expr)

	e.stack = e.stack[:len(e.stack)-1]
	delete(e.visiting, r)

	if err != nil {
		var le *Error
		if errors.As(err, &le) && le.span.IsZero() && le.kind != CircularReference {
			err = le.At(b.Span)
		}

		return nil, err
	}

	return v, nil
}

func (e *evaluator) cycle(r Ref) *Error {
	hops := make([]Hop, 0, len(e.stack)+1)
	for _, s := range slices.Concat(e.stack, []Ref{r}) {
		hops = append(hops, Hop{
			Element:  s.Element,
			Label:    e.tree.Label(s.Element),
			Property: s.Property,
		})
	}

	err := ErrCircularReference.About(r.Property).withHops(hops)

	if b, ok := e.tree.Property(r.Element, r.Property); ok {
		err = err.At(b.Span)
	}

	e.tree.logger.DebugContext(e.ctx, "cycle detected", slog.Any("error", err))

	return err
}

func (e *evaluator) eval(v Value) (Value, error) {
	switch v := v.(type) {
	case Number, Percentage, Time, String:
		return v, nil

	case Ref:
		return e.property(v)

	case BinaryOp:
		lhs, err := e.eval(v.LHS)
		if err != nil {
			return nil, err
		}

		rhs, err := e.eval(v.RHS)
		if err != nil {
			return nil, err
		}

		return binary(v.Op, lhs, rhs)

	case UnaryOp:
		x, err := e.eval(v.Operand)
		if err != nil {
			return nil, err
		}

		return unary(v.Op, x)

	case Call:
		return e.call(v)

	case nil:
		return nil, ErrInvalidNode.Detail("missing expression")

	default:
		return nil, ErrInvalidNode.Detail("unexpected value " + v.String())
	}
}

func (e *evaluator) call(c Call) (Value, error) {
	if c.Func == nil {
		return nil, ErrUndefinedFunction.About(c.Name)
	}

	args := make([]Value, len(c.Args))

	for i, a := range c.Args {
		v, err := e.eval(a)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	v, err := c.Func(args)
	if err != nil {
		var le *Error
		if errors.As(err, &le) {
			return nil, le
		}

		return nil, ErrFunctionCall.About(c.Name).Wrap(err)
	}

	if !IsConcrete(v) {
		return nil, ErrFunctionCall.About(c.Name).Detail("function returned no value")
	}

	return v, nil
}
