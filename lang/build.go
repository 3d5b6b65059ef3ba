package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/scene/lang/syntax"
	"github.com/ardnew/scene/log"
)

// RootKind is the kind every scene's root element must have.
const RootKind = "Scene"

// Option configures [Build].
type Option func(*config)

type config struct {
	funcs   Functions
	logger  log.Logger
	basis     map[string]Basis
	templates []*syntax.Template
	prelude   bool
}

func makeConfig(opts ...Option) config {
	c := config{funcs: FuncMap{}, prelude: true}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithFunctions sets the functions callable from expressions.
func WithFunctions(fs Functions) Option {
	return func(c *config) {
		if fs != nil {
			c.funcs = fs
		}
	}
}

// WithLogger sets the logger used while building and evaluating.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBasis sets the basis of percentages bound to the named property.
func WithBasis(property string, basis Basis) Option {
	return func(c *config) {
		if c.basis == nil {
			c.basis = make(map[string]Basis)
		}

		c.basis[property] = basis
	}
}

// WithTemplates declares templates after the prelude and before the root
// is created, outside of any element. Library and file-level templates are
// passed this way; templates in the root's body are built in place.
func WithTemplates(templates ...*syntax.Template) Option {
	return func(c *config) { c.templates = append(c.templates, templates...) }
}

// WithoutPrelude starts the build with an empty template registry.
func WithoutPrelude() Option {
	return func(c *config) { c.prelude = false }
}

// Build compiles a scene into a [Tree]. root must be a create statement of
// kind [RootKind]. Any error aborts the build and no tree is returned.
func Build(ctx context.Context, root syntax.Node, opts ...Option) (*Tree, error) {
	cfg := makeConfig(opts...)

	scene, ok := root.(*syntax.Create)
	if !ok || scene == nil || scene.Kind != RootKind {
		err := ErrInvalidRoot.Detail("expected create " + RootKind)
		if root != nil {
			err = err.At(root.Span())
		}

		return nil, err
	}

	s := newSession(ctx, cfg)

	cfg.logger.TraceContext(ctx, "build started",
		slog.String("root", scene.Kind),
		slog.Bool("prelude", cfg.prelude))

	if err := s.run(scene); err != nil {
		cfg.logger.DebugContext(ctx, "build failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "build complete",
		slog.Int("elements", s.tree.Len()),
		slog.Int("templates", len(s.reg.protos)))

	return s.tree, nil
}

// BuildFile compiles a parsed file: its templates are declared as with
// [WithTemplates] and its create statement becomes the root.
func BuildFile(ctx context.Context, f *syntax.File, opts ...Option) (*Tree, error) {
	root, err := f.Root()
	if err != nil {
		return nil, ErrInvalidRoot.Wrap(err)
	}

	return Build(ctx, root, append(slices.Clip(opts), WithTemplates(f.Templates...))...)
}

type state int

const (
	idle state = iota
	building
)

// session holds the state of one build: the arena under construction, the
// template registry, and the scope stack.
type session struct {
	ctx    context.Context
	cfg    config
	tree   *Tree
	reg    *registry
	scope  []Handle
	decl   *syntax.Template
	proto  Handle
	state  state
	logger log.Logger
}

func newSession(ctx context.Context, cfg config) *session {
	t := newTree(cfg)

	return &session{
		ctx:    ctx,
		cfg:    cfg,
		tree:   t,
		reg:    newRegistry(t),
		proto:  NoElement,
		logger: cfg.logger,
	}
}

func (s *session) run(scene *syntax.Create) error {
	if s.state != idle {
		return ErrInvalidRoot.Detail("build already in progress")
	}

	s.state = building
	defer func() { s.state = idle }()

	if s.cfg.prelude {
		templates, err := prelude()
		if err != nil {
			return err
		}

		for _, t := range templates {
			if err := s.template(t); err != nil {
				return err
			}
		}
	}

	for _, t := range s.cfg.templates {
		if err := s.template(t); err != nil {
			return err
		}
	}

	return s.create(scene)
}

func (s *session) top() Handle {
	if len(s.scope) == 0 {
		return NoElement
	}

	return s.scope[len(s.scope)-1]
}

func (s *session) push(h Handle) { s.scope = append(s.scope, h) }

func (s *session) pop() { s.scope = s.scope[:len(s.scope)-1] }

// statement builds one node of an element or template body.
func (s *session) statement(n syntax.Node) error {
	switch n := n.(type) {
	case *syntax.Create:
		return s.create(n)
	case *syntax.Template:
		return s.template(n)
	case *syntax.Define:
		return s.define(n)
	case *syntax.Assign:
		return s.assign(n)
	case *syntax.BinOp, *syntax.UnaryOp, *syntax.Number, *syntax.String,
		*syntax.Call, *syntax.Name:
		return ErrInvalidNode.Detail("expression used as a statement").At(n.Span())
	default:
		return ErrInvalidNode.Detail("unexpected node")
	}
}

func (s *session) children(nodes []syntax.Node) error {
	for _, n := range nodes {
		if err := s.statement(n); err != nil {
			return err
		}
	}

	return nil
}

// create instantiates n.Kind under the top frame and builds n's body in it.
func (s *session) create(n *syntax.Create) error {
	if n.Name != "" {
		return ErrNamedInstance.About(n.Name).At(n.Loc)
	}

	parent := s.top()

	h, err := s.reg.instantiate(n.Kind, parent)
	if err != nil {
		return suggest(ErrUndefinedTemplate.About(n.Kind), "", n.Kind, s.reg.Names()).
			At(n.Loc)
	}

	if parent == NoElement {
		s.tree.root = h
	}

	s.logger.TraceContext(s.ctx, "element created",
		slog.String("element", s.tree.Label(h)),
		slog.Int("depth", len(s.scope)))

	s.push(h)
	defer s.pop()

	return s.children(n.Children)
}

// template builds a prototype and registers it once its body is complete.
// Templates do not nest: names in an inner body would bind to the outer
// prototype, which is never part of the tree.
func (s *session) template(n *syntax.Template) error {
	if s.decl != nil {
		return ErrInvalidNode.About(n.Name).
			Detail("template declared inside template " + s.decl.Name).
			At(n.Loc)
	}

	if _, ok := s.reg.lookup(n.Name); ok {
		return ErrRedeclaration.About(n.Name).Detail("template already declared").At(n.Loc)
	}

	proto := s.tree.newElement(n.Name, NoElement)

	if n.Inherit != "" {
		base, ok := s.reg.lookup(n.Inherit)
		if !ok {
			return suggest(ErrUndefinedTemplate.About(n.Inherit), "", n.Inherit, s.reg.Names()).
				At(n.Loc)
		}

		s.tree.copyInto(proto, base, n.Inherit)
	}

	s.push(proto)
	s.decl, s.proto = n, proto

	err := s.children(n.Children)

	s.decl, s.proto = nil, NoElement
	s.pop()

	if err != nil {
		return err
	}

	if err := s.reg.register(n.Name, proto); err != nil {
		return err
	}

	s.logger.TraceContext(s.ctx, "template registered",
		slog.String("template", n.Name),
		slog.String("inherit", n.Inherit),
		slog.Int("properties", s.tree.elems[proto].props.Len()))

	return nil
}

func (s *session) define(n *syntax.Define) error {
	h := s.top()
	if h == NoElement {
		return ErrInvalidNode.Detail("define outside of an element").At(n.Loc)
	}

	if b, ok := s.tree.elems[h].props.Lookup(n.Name); ok {
		// Redefining across the inheritance boundary is a redeclaration.
		if b.Origin != "" && s.decl != nil && h == s.proto {
			return ErrRedeclaration.About(n.Name).
				Detail("declared by template " + b.Origin).
				At(n.Loc)
		}

		return ErrPropertyAlreadyDefined.About(n.Name).At(n.Loc)
	}

	v, err := s.compile(n.Value, s.tree.basisOf(n.Name))
	if err != nil {
		return err
	}

	s.tree.elems[h].props.define(n.Name, Binding{Default: v, Value: v, Span: n.Loc})

	return nil
}

func (s *session) assign(n *syntax.Assign) error {
	h := s.top()
	if h == NoElement {
		return ErrInvalidNode.Detail("assignment outside of an element").At(n.Loc)
	}

	if !s.tree.elems[h].props.Has(n.Name) {
		return suggest(ErrUndefinedProperty.About(n.Name),
			"not declared on "+s.tree.Kind(h), n.Name, s.tree.elems[h].props.Names()).
			At(n.Loc)
	}

	v, err := s.compile(n.Value, s.tree.basisOf(n.Name))
	if err != nil {
		return err
	}

	s.tree.elems[h].props.assign(n.Name, v, n.Loc)

	return nil
}

// compile converts an expression node into a Value. Percentage literals
// take basis. Nothing is evaluated.
func (s *session) compile(n syntax.Node, basis Basis) (Value, error) {
	switch n := n.(type) {
	case *syntax.Number:
		return s.number(n, basis)

	case *syntax.String:
		return String{S: n.Value}, nil

	case *syntax.BinOp:
		if !validBinary(n.Op) {
			return nil, ErrInvalidOperator.About(string(n.Op)).At(n.Loc)
		}

		lhs, err := s.compile(n.LHS, basis)
		if err != nil {
			return nil, err
		}

		rhs, err := s.compile(n.RHS, basis)
		if err != nil {
			return nil, err
		}

		return BinaryOp{Op: n.Op, LHS: lhs, RHS: rhs}, nil

	case *syntax.UnaryOp:
		if !validUnary(n.Op) {
			return nil, ErrInvalidOperator.About(string(n.Op)).At(n.Loc)
		}

		operand, err := s.compile(n.Operand, basis)
		if err != nil {
			return nil, err
		}

		return UnaryOp{Op: n.Op, Operand: operand}, nil

	case *syntax.Call:
		fn, ok := s.cfg.funcs.Lookup(n.Func)
		if !ok {
			return nil, suggest(ErrUndefinedFunction.About(n.Func), "", n.Func, names(s.cfg.funcs)).
				At(n.Loc)
		}

		args := make([]Value, len(n.Args))

		for i, a := range n.Args {
			v, err := s.compile(a, basis)
			if err != nil {
				return nil, err
			}

			args[i] = v
		}

		return Call{Name: n.Func, Func: fn, Args: args}, nil

	case *syntax.Name:
		return s.resolve(n)

	case *syntax.Create, *syntax.Template, *syntax.Define, *syntax.Assign:
		return nil, ErrInvalidNode.Detail("statement used as an expression").At(n.Span())

	default:
		return nil, ErrInvalidNode.Detail("unexpected node")
	}
}

func (s *session) number(n *syntax.Number, basis Basis) (Value, error) {
	switch n.Unit {
	case "":
		return Number{X: n.Value}, nil
	case "%":
		return Percentage{X: n.Value, Basis: basis}, nil
	}

	if u, ok := ParseTimeUnit(n.Unit); ok {
		return Time{X: n.Value, Unit: u}, nil
	}

	return nil, ErrUnknownUnit.About(n.Unit).
		With(slog.Float64("value", n.Value)).
		At(n.Loc)
}

// resolve binds a name to the innermost enclosing element that declares
// it.
func (s *session) resolve(n *syntax.Name) (Value, error) {
	for i := len(s.scope) - 1; i >= 0; i-- {
		h := s.scope[i]
		if s.tree.elems[h].props.Has(n.Ident) {
			return Ref{Element: h, Property: n.Ident}, nil
		}
	}

	var visible []string
	for _, h := range s.scope {
		visible = append(visible, s.tree.elems[h].props.Names()...)
	}

	return nil, suggest(ErrUndefinedProperty.About(n.Ident),
		"not visible from "+s.tree.Label(s.top()), n.Ident, visible).
		At(n.Loc)
}

// suggest attaches the closest matches for name among candidates to err,
// both as a log attribute and appended to detail.
func suggest(err *Error, detail, name string, candidates []string) *Error {
	const limit = 3

	var seen []string

	for _, m := range fuzzy.Find(strings.ToLower(name), lower(candidates)) {
		c := candidates[m.Index]
		if slices.Contains(seen, c) {
			continue
		}

		seen = append(seen, c)
		if len(seen) == limit {
			break
		}
	}

	if len(seen) > 0 {
		err = err.With(slog.String("suggestions", strings.Join(seen, ", ")))

		hint := "did you mean " + strings.Join(seen, " or ") + "?"
		if detail == "" {
			detail = hint
		} else {
			detail += "; " + hint
		}
	}

	if detail != "" {
		err = err.Detail(detail)
	}

	return err
}

func lower(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}

	return out
}

func validBinary(op Op) bool {
	switch op {
	case syntax.OpAdd, syntax.OpSub, syntax.OpMul, syntax.OpDiv, syntax.OpMod:
		return true
	default:
		return false
	}
}

func validUnary(op Op) bool {
	return op == syntax.OpAdd || op == syntax.OpSub
}
