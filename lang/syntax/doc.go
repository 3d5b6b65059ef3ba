// Package syntax parses scene source text into a tree of [Node] values.
//
// # Grammar
//
// Informal EBNF:
//
//	File     → (Create | Template | Sep)* EOF
//	Stmt     → Create | Template | Define | Assign
//	Create   → 'create' Ident ('as' Ident)? Block?
//	Template → 'template' Ident ('inherit' Ident)? Block?
//	Define   → 'define' Ident '=' Expr
//	Assign   → Ident '=' Expr
//	Block    → '{' (Stmt | Sep)* '}'
//	Sep      → ';' | newline
//	Expr     → Term (('+' | '-') Term)*
//	Term     → Unary (('*' | '/' | '%') Unary)*
//	Unary    → ('-' | '+') Unary | Primary
//	Primary  → Number Unit? | String | Ident '(' Args? ')' | Ident | '(' Expr ')'
//
// A file holds at most one top-level create statement (the scene) and any
// number of top-level templates. A file with no create statement is a
// library. '#' starts a comment that runs to the end of the line. Newlines
// inside parentheses and directly after a binary operator do not end a
// statement.
//
// A unit suffix must follow its number without whitespace: "50%" is a
// percentage while "50 % 3" is a remainder.
//
// # Example
//
//	template Card inherit Rectangle {
//		define padding = 8
//		create Text { x = padding; y = padding }
//	}
//
//	create Scene {
//		width = 640
//		height = 360
//		create Card { width = 50%; height = 25% }
//	}
package syntax
