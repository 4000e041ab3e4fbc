// Package config holds tooling-facing constants: source file naming,
// default simulator parameters, and exit codes shared between cmd/quint
// and the packages it drives, kept in one place the way this codebase's
// own config package centralizes source extensions and built-in names.
package config

// SourceFileExt is the canonical extension for a Quint specification
// file.
const SourceFileExt = ".qnt"

// SourceFileExtensions lists every extension of Quint specification
// source files. cmd/quint does not consult it.
var SourceFileExtensions = []string{".qnt"}

// Default simulator parameters used when a run does not override them.
const (
	DefaultNRuns  = 10000
	DefaultNSteps = 20
)

// Exit codes for cmd/quint, matching spec.md §6's process semantics:
// 0 on a clean run, 1 for a compile/resolve diagnostic, 2 for a
// discovered invariant violation.
const (
	ExitOk = iota
	ExitDiagnostics
	ExitViolation
)
