// Package cmd implements the dynfmt subcommands: render, check, repl, and
// init. Commands share the value sources configured by [Values].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the YAML configuration file.
	ConfigIdentifier = "config"
)
