// Package cli contains the command line interface for acs.
//
// # Usage
//
//	acs [flags] [run] [source ...]
//	acs fmt [-f native|tree|json|yaml] [-i N] [source ...]
//	acs lex [source ...]
//	acs repl [source ...]
//	acs init [--force]
//
// Sources are file names or "-" for stdin, which is the default. Relative
// names not found in the working directory are searched for in each -I
// directory and then in the directories listed by $ACS_PATH.
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory. The init command writes the current flag values
// to that file. Nested keys map onto hyphenated flag names:
//
//	log:
//	  level: debug
//	  format: json
//	max-depth: 500
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn, or error
//   - --log-format: text or json
//   - --log-time-layout: a layout name such as RFC3339 or kitchen, a Go
//     layout, or none
//   - --[no-]log-caller: include the caller's file and line
//   - --[no-]log-pretty: colorized text or indented JSON
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
// It adds --pprof-mode (allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, trace) and --pprof-dir, which defaults to a directory in
// the user cache directory.
package cli
