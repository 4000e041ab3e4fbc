// Package diag implements the two disjoint error taxonomies of
// spec.md §7: compile-time errors (unrecoverable within a run) and
// runtime errors (recoverable — the simulator may drop the offending
// run). Both travel as ordinary values, aggregated in a Bag, rather
// than as Go errors that unwind the call stack: a failed opcode
// evaluation must yield "no value" to its caller, not panic or return
// early out of the whole graph.
package diag

import "fmt"

// NodeRef mirrors ir.NodeID without importing the ir package, to avoid
// a dependency cycle (ir does not need to know about diag, but every
// package that reports diagnostics does).
type NodeRef = int64

// CompileError is raised while lowering IR into a Context: an unknown
// operator, an arity mismatch, an unbound parameter, or a
// malformed lambda.
type CompileError struct {
	Code       string
	Message    string
	References []NodeRef
}

func (e *CompileError) Error() string { return fmt.Sprintf("[%s] %s", e.Code, e.Message) }

// RuntimeError is raised during evaluation: unset register read,
// division by zero, out-of-bounds access, assertion failure, and so on.
// A RuntimeError never aborts evaluation — the computable that raised it
// returns "no value" and the error is appended to a Bag.
type RuntimeError struct {
	Message   string
	Reference NodeRef
}

func (e *RuntimeError) Error() string { return e.Message }

// Bag accumulates diagnostics across a single resolve/compile/simulate
// pass, mirroring this codebase's own pipeline convention of collecting
// every stage's errors instead of aborting at the first one.
type Bag struct {
	Compile []*CompileError
	Runtime []*RuntimeError
}

func NewBag() *Bag { return &Bag{} }

func (b *Bag) AddCompile(code, message string, refs ...NodeRef) *CompileError {
	e := &CompileError{Code: code, Message: message, References: refs}
	b.Compile = append(b.Compile, e)
	return e
}

func (b *Bag) AddRuntime(message string, ref NodeRef) *RuntimeError {
	e := &RuntimeError{Message: message, Reference: ref}
	b.Runtime = append(b.Runtime, e)
	return e
}

func (b *Bag) HasCompileErrors() bool { return len(b.Compile) > 0 }
func (b *Bag) HasRuntimeErrors() bool { return len(b.Runtime) > 0 }
