// Package pipeline threads a Quint module through the frontend stages —
// name resolution, compilation, simulation — the way this codebase's own
// analyzer/evaluator/backend processors thread a shared context through a
// Pipeline: each Stage reads what earlier stages left on the Session and
// appends its own errors, and the Pipeline keeps running the remaining
// stages even after one reports errors, so a caller (an LSP-style tool or
// a CLI) can see diagnostics from every stage in one pass rather than
// stopping at the first.
package pipeline

import (
	"github.com/quint-lang/quint-core/internal/compiler"
	"github.com/quint-lang/quint-core/internal/diag"
	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/resolver"
	"github.com/quint-lang/quint-core/internal/simulator"
	"github.com/quint-lang/quint-core/internal/value"
)

// Session is the shared state threaded through a Pipeline's Stages. Each
// Stage reads the fields earlier stages populated and fills in its own;
// FilePath is set once by the caller and never touched afterward.
type Session struct {
	FilePath string

	Module        *ir.Module
	Consts        map[string]value.Value
	Tables        *ir.DefTables
	Scopes        *ir.ScopeTree
	ResolveErrors []resolver.NameError

	Context *compiler.Context
	Diags   *diag.Bag

	SimConfig *simulator.RunConfig
	SimReport *simulator.Report
}

// NewSession starts a Session for mod, read from filePath, against the
// given constant environment (may be nil if the module declares none).
func NewSession(filePath string, mod *ir.Module, consts map[string]value.Value) *Session {
	if consts == nil {
		consts = map[string]value.Value{}
	}
	return &Session{FilePath: filePath, Module: mod, Consts: consts}
}

// HasErrors reports whether any stage so far has recorded a blocking
// problem: an unresolved name, or a compile error in Diags.
func (s *Session) HasErrors() bool {
	if len(s.ResolveErrors) > 0 {
		return true
	}
	if s.Diags != nil && len(s.Diags.Compile) > 0 {
		return true
	}
	return false
}

// Stage is one step of the pipeline: resolve names, compile, simulate.
type Stage interface {
	Process(s *Session) *Session
}

// Pipeline is a sequence of Stages run in order over one Session.
type Pipeline struct {
	stages []Stage
}

// New builds a Pipeline running stages in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order, continuing past a stage that leaves
// errors on the Session so a caller can collect diagnostics from every
// stage (an LSP-style consumer wants resolver AND compiler errors from
// one pass, not just whichever ran first).
func (p *Pipeline) Run(initial *Session) *Session {
	s := initial
	for _, stage := range p.stages {
		s = stage.Process(s)
	}
	return s
}
