package syntax

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var errUnterminated = errors.New("unterminated string")

func unexpectedChar(r rune) error {
	return fmt.Errorf("unexpected character %q", r)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokSep           // newline or ';'
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokComma
	tokAssign
	tokOp
	tokIdent
	tokNumber
	tokString
)

var tokenName = [...]string{
	tokEOF:    "end of input",
	tokSep:    "newline or ';'",
	tokLBrace: "'{'",
	tokRBrace: "'}'",
	tokLParen: "'('",
	tokRParen: "')'",
	tokComma:  "','",
	tokAssign: "'='",
	tokOp:     "operator",
	tokIdent:  "identifier",
	tokNumber: "number",
	tokString: "string",
}

func (k tokenKind) String() string { return tokenName[k] }

type token struct {
	kind tokenKind
	text string  // identifier, operator, or raw literal text
	num  float64 // tokNumber
	unit string  // tokNumber suffix, possibly "%"
	span Span
}

func (t token) describe() string {
	switch t.kind {
	case tokIdent, tokOp:
		return strconv.Quote(t.text)
	case tokSep:
		if t.text == ";" {
			return "';'"
		}

		return "newline"
	default:
		return t.kind.String()
	}
}

// lexer splits source text into tokens. Newlines are significant as
// statement separators except inside parentheses.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
	depth int // open parentheses
}

func newLexer(src string) *lexer {
	return &lexer{input: []byte(src), line: 1, col: 1}
}

// all returns every token through tokEOF.
func (l *lexer) all() ([]token, error) {
	var toks []token

	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, t)

		if t.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipBlanks()

	start := l.position()

	if l.eof() {
		return token{kind: tokEOF, span: Span{start, start}}, nil
	}

	ch := l.peek()

	emit := func(kind tokenKind) (token, error) {
		l.advance()

		return token{kind: kind, text: string(ch), span: Span{start, l.position()}}, nil
	}

	switch {
	case ch == '\n':
		return emit(tokSep)
	case ch == ';':
		return emit(tokSep)
	case ch == '{':
		return emit(tokLBrace)
	case ch == '}':
		return emit(tokRBrace)
	case ch == '(':
		l.depth++

		return emit(tokLParen)
	case ch == ')':
		if l.depth > 0 {
			l.depth--
		}

		return emit(tokRParen)
	case ch == ',':
		return emit(tokComma)
	case ch == '=':
		return emit(tokAssign)
	case ch == '+', ch == '-', ch == '*', ch == '/', ch == '%':
		return emit(tokOp)
	case ch == '"':
		return l.lexString(start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		return l.lexNumber(start)
	case isIdentifierStart(ch):
		return l.lexIdent(start), nil
	}

	l.advance()

	return token{}, ErrSyntax.
		At(Span{start, l.position()}).
		Wrap(unexpectedChar(ch))
}

func (l *lexer) lexIdent(start Pos) token {
	from := l.pos

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}

	return token{
		kind: tokIdent,
		text: string(l.input[from:l.pos]),
		span: Span{start, l.position()},
	}
}

// lexNumber scans digits, an optional fraction and exponent, then any unit
// suffix attached without whitespace ("50%", "250ms").
func (l *lexer) lexNumber(start Pos) (token, error) {
	from := l.pos

	l.digits()

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		l.digits()
	}

	if c := l.peek(); c == 'e' || c == 'E' {
		off := 1
		if s := l.peekAt(1); s == '+' || s == '-' {
			off = 2
		}

		if isDigit(l.peekAt(off)) {
			for range off {
				l.advance()
			}

			l.digits()
		}
	}

	text := string(l.input[from:l.pos])

	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, ErrSyntax.At(Span{start, l.position()}).Wrap(err)
	}

	unitFrom := l.pos

	switch {
	case l.peek() == '%':
		l.advance()
	case isIdentifierStart(l.peek()):
		for !l.eof() && isIdentifierContinue(l.peek()) {
			l.advance()
		}
	}

	return token{
		kind: tokNumber,
		text: string(l.input[from:l.pos]),
		num:  num,
		unit: string(l.input[unitFrom:l.pos]),
		span: Span{start, l.position()},
	}, nil
}

func (l *lexer) lexString(start Pos) (token, error) {
	from := l.pos

	l.advance() // opening quote

	for !l.eof() {
		switch l.peek() {
		case '\\':
			l.advance()

			if !l.eof() {
				l.advance()
			}

			continue

		case '\n':
			return token{}, ErrSyntax.At(Span{start, l.position()}).
				Wrap(errUnterminated)

		case '"':
			l.advance()

			raw := string(l.input[from:l.pos])

			s, err := strconv.Unquote(raw)
			if err != nil {
				return token{}, ErrSyntax.At(Span{start, l.position()}).Wrap(err)
			}

			return token{
				kind: tokString,
				text: s,
				span: Span{start, l.position()},
			}, nil
		}

		l.advance()
	}

	return token{}, ErrSyntax.At(Span{start, l.position()}).Wrap(errUnterminated)
}

// skipBlanks skips spaces, comments, and, inside parentheses, newlines.
func (l *lexer) skipBlanks() {
	for !l.eof() {
		switch ch := l.peek(); {
		case ch == '#':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '\n' && l.depth > 0:
			l.advance()
		case ch != '\n' && unicode.IsSpace(ch):
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) digits() {
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}
}

func (l *lexer) peek() rune { return l.peekAt(0) }

// peekAt returns the rune n runes ahead, or 0 past the end.
func (l *lexer) peekAt(n int) rune {
	pos := l.pos

	for ; n > 0 && pos < len(l.input); n-- {
		_, size := utf8.DecodeRune(l.input[pos:])
		pos += size
	}

	if pos >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) position() Pos { return Pos{Line: l.line, Col: l.col} }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
