// Package profile provides optional runtime profiling for dynfmt.
//
// This package integrates [github.com/pkg/profile]. Profiling must be enabled
// at build time using the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Enabled] reports false, [Modes] is empty, and
// [Profiler.Start] returns a no-op [Stopper].
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap memory profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace profiling
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Dir: "/tmp/profiles", Quiet: true}
//	defer p.Start().Stop()
//
// Profiles are written to Dir with names matching the mode (cpu.pprof,
// mem.pprof, ...) and can be inspected with go tool pprof:
//
//	dynfmt --pprof-mode cpu render '{x:>8}' -s x=1
//	go tool pprof -http=: ~/.cache/dynfmt/pprof/cpu.pprof
//
// The pprof build also imports [net/http/pprof], which registers its handlers
// on [net/http.DefaultServeMux].
package profile
