// Package cmd implements the acs subcommands: run, fmt, lex, init, and repl.
//
// Commands receive their I/O streams and global settings through an [Env]
// stored in the context by [WithEnv].
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"
)
