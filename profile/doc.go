// Package profile provides optional runtime profiling for the scene
// compiler.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// when the binary is built with the "pprof" build tag:
//
//	go build -tags pprof .
//	./scene --pprof-mode cpu render intro.scn
//
// Without the tag, [Profiler.Start] returns a no-op controller and [Modes]
// reports no modes, so callers never need to guard their calls.
//
// Profile files are written to the profiler's Path (by default the pprof
// subdirectory of the user cache directory) with names matching the mode,
// e.g. cpu.pprof or mem.pprof. Analyze them with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/scene/pprof/cpu.pprof
//
// The tagged build also imports [net/http/pprof] so that embedding programs
// that serve HTTP expose /debug/pprof/ endpoints.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
