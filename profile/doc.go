// Package profile provides optional runtime profiling for acs using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof ./
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper], so callers need no conditional code of their own.
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/acs-prof"}
//	defer p.Start().Stop()
//
// Profile files are written to Path with names matching the mode, e.g.
// cpu.pprof or mem.pprof, and are analyzed with go tool pprof:
//
//	go tool pprof -http=: ./acs /tmp/acs-prof/cpu.pprof
//
// Profiling a long evaluation is the typical use: the interpreter is a
// tree-walker and spends most of its time in expression evaluation and scope
// lookups, which show up clearly in CPU and allocation profiles.
//
// When built with the tag, the package also imports [net/http/pprof], which
// registers handlers under /debug/pprof/ on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable profiling.
const Tag = "pprof"
