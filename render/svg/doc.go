// Package svg renders frames of a compiled scene as SVG documents.
//
// The renderer never caches evaluated values. For every frame it binds the
// scene's time property to the frame time and evaluates each drawable
// element's properties with percentages resolved against the enclosing
// element's size. The shape drawn for an element is chosen by the
// properties it declares, so user templates derived from the builtin
// shapes render like their base.
package svg
