// Package builtin provides the standard function library for scene
// expressions.
//
// Every function is an expr-lang program compiled once when the
// [Registry] is created and run against the call's arguments:
//
//	abs ceil floor round   keep the unit of their argument
//	min max clamp          require arguments of one unit and keep it
//	lerp(a, b, t)          a and b share a unit, t is a plain number
//	sqrt sin cos pow       plain numbers only
//	upper lower trim       strings only
//	str(v)                 formats any value as a string
//	rgb(r, g, b)           builds a "#rrggbb" color from 0-255 channels
//
// Further numeric functions can be declared from expr-lang source with
// [WithExpr].
package builtin
