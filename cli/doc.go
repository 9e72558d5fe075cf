// Package cli contains the command line interface for dynfmt.
//
// # Usage
//
// The default command renders a template against named values:
//
//	dynfmt --set name=world 'hello {name:>8}!'
//	dynfmt -f values.yaml -F report.tmpl
//	dynfmt -e 'total=price * qty' -s price=3 -s qty=4 '{total:06}'
//
// Other commands check a template without rendering it, start an
// interactive session, or write the current flags to the configuration file:
//
//	dynfmt check -o json '{a:>5} {b}'
//	dynfmt repl -f values.yaml
//	dynfmt init --print
//
// # Values
//
// Values come from, in increasing precedence: the process environment
// (--env), dotenv files (--dotenv), YAML or JSON values files (--values,
// globs allowed, '-' for stdin), and --set. Nested mappings in values files
// are flattened with '_' separators. Expressions (--expr) are evaluated on
// lookup and shadow every other source.
//
// # Configuration
//
// Flags may be given defaults in config.yaml (or config.json) under the user
// configuration directory. Keys are flag names, with either hyphens or
// underscores.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o dynfmt .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/dynfmt/pprof)
package cli
