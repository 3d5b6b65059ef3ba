// Package lang compiles scene syntax trees into element trees whose
// properties are bound to unevaluated expressions, and evaluates those
// expressions on demand.
//
// # Building
//
// [Build] walks a [syntax.Node] tree depth-first in a single pass, after
// declaring any templates passed with [WithTemplates]; [BuildFile] passes a
// file's top-level templates that way. Every create statement instantiates
// a template by structural copy; template declarations register new
// prototypes, optionally copying a base template first. Property declarations ("define") and assignments bind expressions
// that are compiled into [Value] trees but never evaluated at build time.
// Names in expressions are resolved once, against the chain of enclosing
// elements, and embedded as [Ref] values.
//
//	f, _ := syntax.Parse(ctx, src)
//	tree, err := lang.BuildFile(ctx, f, lang.WithFunctions(funcs))
//
// Each Build call owns a fresh template registry seeded with the prelude
// templates (Scene, Rectangle, Rect, Circle, Ellipse, Line, Text, Group),
// so nothing leaks between builds.
//
// # Evaluating
//
// [Tree.Evaluate] resolves one property to a concrete value under an [Env]
// that supplies percentage bases and input overrides such as the scene
// time. Evaluation is uncached and read-only, so a tree can be evaluated
// concurrently and repeatedly, once per frame. Reference cycles are
// reported as [CircularReference] errors listing every hop.
//
// # Units
//
// Numbers may carry a unit: "%" makes a [Percentage], and "ms", "s", or
// "min" make a [Time]. Percentages are tagged at build time with the
// [Basis] of the property they are bound to, so that width-relative and
// height-relative percentages never mix.
package lang
