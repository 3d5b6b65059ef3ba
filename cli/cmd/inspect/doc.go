// Package inspect is an interactive browser for a compiled scene.
//
// The element tree is listed in depth-first order. Typing filters the list
// by fuzzy match on element paths; the properties of the selected element
// are shown with their expressions and their values at the current scene
// time.
//
//	Up/Down        select an element
//	PgUp/PgDown    step the scene time by one frame
//	Esc            clear the filter, or quit if it is empty
//	Ctrl+C         quit
package inspect
