// Package cli contains the command line interface for scene.
//
// # Usage
//
//	scene [flags] <command> [args]
//
// Commands are implemented in package [cmd]. Every command that compiles a
// scene shares the same library options:
//
//   - --lib, -l: Template library to load before the scene, by name or
//     file path (repeatable)
//   - --lib-path, -L: Directory searched for named libraries (repeatable)
//
// A library name is resolved against each --lib-path directory in order,
// then the directories listed in the SCENE_PATH environment variable, then
// the lib directory under the configuration directory.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the
// configuration directory (~/.config/scene on Linux). The YAML file accepts
// flat or nested keys; see [cmd.Init] for generating one.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o scene .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/scene/pprof)
//
// # Examples
//
//	# Render every frame with a shared library
//	scene --lib shapes render --all --out frames intro.scn
//
//	# Debug logging with CPU profiling
//	scene --log-level=debug --pprof-mode=cpu check intro.scn
package cli
