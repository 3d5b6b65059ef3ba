package syntax

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ardnew/scene/log"
)

// File is the result of parsing one source file.
type File struct {
	// Name identifies the source in diagnostics. It may be empty.
	Name string
	// Templates holds top-level template declarations in source order.
	Templates []*Template
	// Scene is the single top-level create statement, or nil for a library.
	Scene *Create
}

// Root returns the file's create statement. Top-level templates are not
// part of it; they stay in Templates so a builder can declare them before
// the scene without confusing them with templates written in its body.
func (f *File) Root() (*Create, error) {
	if f.Scene == nil {
		return nil, ErrMissingScene.in(f.Name, "")
	}

	return f.Scene, nil
}

// With returns a shallow copy of f with templates declared ahead of its own.
func (f *File) With(templates ...*Template) *File {
	c := *f
	c.Templates = make([]*Template, 0, len(templates)+len(f.Templates))
	c.Templates = append(c.Templates, templates...)
	c.Templates = append(c.Templates, f.Templates...)

	return &c
}

// Library returns the file's templates. A library may not contain a create
// statement.
func (f *File) Library() ([]*Template, error) {
	if f.Scene != nil {
		return nil, ErrNotLibrary.At(f.Scene.Loc).in(f.Name, "")
	}

	return f.Templates, nil
}

// Option configures parsing.
type Option func(*config)

type config struct {
	name   string
	logger log.Logger
}

// WithName sets the file name reported in diagnostics.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func makeConfig(opts ...Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Parse parses a scene file, which must contain a create statement.
func Parse(ctx context.Context, src string, opts ...Option) (*File, error) {
	f, err := ParseFile(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	if _, err := f.Root(); err != nil {
		return nil, err
	}

	return f, nil
}

// ParseLibrary parses a file containing only template declarations.
func ParseLibrary(
	ctx context.Context,
	src string,
	opts ...Option,
) ([]*Template, error) {
	f, err := ParseFile(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return f.Library()
}

// ParseFile parses src without consulting the cache.
func ParseFile(ctx context.Context, src string, opts ...Option) (*File, error) {
	cfg := makeConfig(opts...)

	f, err := parseFile(src)
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			err = se.in(cfg.name, src)
		}

		cfg.logger.DebugContext(ctx, "parse failed",
			slog.String("file", cfg.name),
			slog.Any("error", err))

		return nil, err
	}

	f.Name = cfg.name

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.String("file", cfg.name),
		slog.Int("templates", len(f.Templates)),
		slog.Bool("scene", f.Scene != nil))

	return f, nil
}

func parseFile(src string) (*File, error) {
	toks, err := newLexer(src).all()
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	return p.parseFile()
}

// parser is a recursive-descent parser over a fully lexed token slice.
type parser struct {
	toks []token
	i    int
}

// parseFile parses: (Create | Template | Sep)* EOF.
func (p *parser) parseFile() (*File, error) {
	f := new(File)

	for {
		p.skipSeps()

		t := p.peek()

		switch {
		case t.kind == tokEOF:
			return f, nil

		case isKeyword(t, "template"):
			tpl, err := p.parseTemplate()
			if err != nil {
				return nil, err
			}

			f.Templates = append(f.Templates, tpl)

		case isKeyword(t, "create"):
			if f.Scene != nil {
				return nil, ErrExtraScene.At(t.span)
			}

			c, err := p.parseCreate()
			if err != nil {
				return nil, err
			}

			f.Scene = c

		default:
			return nil, p.unexpected("create", "template")
		}

		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}
}

// parseStatement parses one statement inside a block.
func (p *parser) parseStatement() (Node, error) {
	t := p.peek()

	switch {
	case t.kind == tokIdent && p.peekAt(1).kind == tokAssign:
		return p.parseAssign()
	case isKeyword(t, "create"):
		return p.parseCreate()
	case isKeyword(t, "template"):
		return p.parseTemplate()
	case isKeyword(t, "define"):
		return p.parseDefine()
	}

	return nil, p.unexpected("statement")
}

// parseCreate parses: 'create' Ident ('as' Ident)? Block?.
func (p *parser) parseCreate() (*Create, error) {
	kw := p.advance()

	kind, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	n := &Create{Kind: kind.text, Loc: kw.span.Join(kind.span)}

	if isKeyword(p.peek(), "as") {
		p.advance()

		name, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}

		n.Name = name.text
		n.Loc = n.Loc.Join(name.span)
	}

	if p.peek().kind == tokLBrace {
		children, end, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		n.Children = children
		n.Loc.End = end
	}

	return n, nil
}

// parseTemplate parses: 'template' Ident ('inherit' Ident)? Block?.
func (p *parser) parseTemplate() (*Template, error) {
	kw := p.advance()

	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	n := &Template{Name: name.text, Loc: kw.span.Join(name.span)}

	if isKeyword(p.peek(), "inherit") {
		p.advance()

		base, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}

		n.Inherit = base.text
		n.Loc = n.Loc.Join(base.span)
	}

	if p.peek().kind == tokLBrace {
		children, end, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		n.Children = children
		n.Loc.End = end
	}

	return n, nil
}

// parseBlock parses: '{' (Stmt | Sep)* '}'.
func (p *parser) parseBlock() ([]Node, Pos, error) {
	p.advance() // '{'

	var children []Node

	for {
		p.skipSeps()

		switch t := p.peek(); t.kind {
		case tokRBrace:
			p.advance()

			return children, t.span.End, nil

		case tokEOF:
			return nil, Pos{}, p.unexpected("'}'")
		}

		n, err := p.parseStatement()
		if err != nil {
			return nil, Pos{}, err
		}

		children = append(children, n)

		if err := p.endStatement(); err != nil {
			return nil, Pos{}, err
		}
	}
}

// parseDefine parses: 'define' Ident '=' Expr.
func (p *parser) parseDefine() (*Define, error) {
	kw := p.advance()

	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokAssign); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Define{
		Name:  name.text,
		Value: value,
		Loc:   kw.span.Join(value.Span()),
	}, nil
}

// parseAssign parses: Ident '=' Expr.
func (p *parser) parseAssign() (*Assign, error) {
	name := p.advance()
	p.advance() // '='

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Assign{
		Name:  name.text,
		Value: value,
		Loc:   name.span.Join(value.Span()),
	}, nil
}

// parseExpr parses: Term (('+'|'-') Term)*.
func (p *parser) parseExpr() (Node, error) {
	return p.parseBinary(p.parseTerm, OpAdd, OpSub)
}

// parseTerm parses: Unary (('*'|'/'|'%') Unary)*.
func (p *parser) parseTerm() (Node, error) {
	return p.parseBinary(p.parseUnary, OpMul, OpDiv, OpMod)
}

// parseBinary parses a left-associative chain of operand separated by any
// of ops. A newline directly after an operator continues the expression.
func (p *parser) parseBinary(operand func() (Node, error), ops ...Op) (Node, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.kind != tokOp || !slices.Contains(ops, Op(t.text)) {
			return lhs, nil
		}

		p.advance()
		p.skipNewlines()

		rhs, err := operand()
		if err != nil {
			return nil, err
		}

		lhs = &BinOp{
			Op:  Op(t.text),
			LHS: lhs,
			RHS: rhs,
			Loc: lhs.Span().Join(rhs.Span()),
		}
	}
}

// parseUnary parses: ('-'|'+') Unary | Primary.
func (p *parser) parseUnary() (Node, error) {
	t := p.peek()
	if t.kind == tokOp && (Op(t.text) == OpSub || Op(t.text) == OpAdd) {
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryOp{
			Op:      Op(t.text),
			Operand: operand,
			Loc:     t.span.Join(operand.Span()),
		}, nil
	}

	return p.parsePrimary()
}

// parsePrimary parses: Number | String | Call | Name | '(' Expr ')'.
func (p *parser) parsePrimary() (Node, error) {
	t := p.peek()

	switch t.kind {
	case tokNumber:
		p.advance()

		return &Number{Value: t.num, Unit: t.unit, Loc: t.span}, nil

	case tokString:
		p.advance()

		return &String{Value: t.text, Loc: t.span}, nil

	case tokIdent:
		p.advance()

		if p.peek().kind == tokLParen {
			return p.parseCall(t)
		}

		return &Name{Ident: t.text, Loc: t.span}, nil

	case tokLParen:
		p.advance()

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}

		return inner, nil
	}

	return nil, p.unexpected("expression")
}

// parseCall parses: '(' (Expr (',' Expr)*)? ')' after the function name.
func (p *parser) parseCall(name token) (*Call, error) {
	p.advance() // '('

	n := &Call{Func: name.text}

	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			n.Args = append(n.Args, arg)

			if p.peek().kind != tokComma {
				break
			}

			p.advance()
		}
	}

	end, err := p.expect(tokRParen)
	if err != nil {
		return nil, err
	}

	n.Loc = name.span.Join(end.span)

	return n, nil
}

// endStatement requires a separator, a closing brace, or end of input.
func (p *parser) endStatement() error {
	switch p.peek().kind {
	case tokSep, tokRBrace, tokEOF:
		return nil
	}

	return p.unexpected("newline", "';'", "'}'")
}

func (p *parser) peek() token { return p.peekAt(0) }

func (p *parser) peekAt(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.i+n]
}

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}

	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.peek().kind != kind {
		return token{}, p.unexpected(kind.String())
	}

	return p.advance(), nil
}

func (p *parser) skipSeps() {
	for p.peek().kind == tokSep {
		p.advance()
	}
}

func (p *parser) skipNewlines() {
	for t := p.peek(); t.kind == tokSep && t.text == "\n"; t = p.peek() {
		p.advance()
	}
}

func (p *parser) unexpected(expected ...string) *Error {
	t := p.peek()

	return ErrSyntax.
		At(t.span).
		Wrap(fmt.Errorf("unexpected %s", t.describe())).
		Expect(expected...)
}

func isKeyword(t token, kw string) bool {
	return t.kind == tokIdent && t.text == kw
}
