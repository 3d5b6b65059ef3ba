// Package cmd implements the scene subcommands.
//
// Every command compiles one scene source through a [Loader], which splices
// the template libraries named on the command line in front of the scene
// body, and then reads the resulting tree:
//
//	check    compile only and report the element count
//	eval     evaluate one property of one element
//	dump     print the element tree with its expressions and values
//	render   write SVG frames
//	watch    re-render a frame whenever the source changes
//	inspect  browse the tree interactively
//	fmt      print the source in canonical form
//	init     write the current flag values to the configuration file
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
