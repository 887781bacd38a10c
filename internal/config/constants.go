// Package config holds the toolchain's shared constants.
package config

// SourceFileExt is the canonical source file extension.
const SourceFileExt = ".kite"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".kite"}

// DefaultPrompt is the REPL prompt unless overridden by configuration.
const DefaultPrompt = ">>> "

// ReplExitWord ends the REPL when entered as a whole line.
const ReplExitWord = "exit"

// ConfigFileName is the per-project and per-user configuration file.
const ConfigFileName = "kite.yaml"

// Built-in function names bound in the root module at startup.
const (
	InputFuncName  = "input"
	RandomFuncName = "random"
)
