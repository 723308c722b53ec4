// Package logging provides leveled logging for envault CLI commands.
//
// Verbosity is controlled by the --verbose and --debug flags. Info output
// appears only in verbose mode, debug output only in debug mode; warnings
// and errors always print, to stderr.
package logging
