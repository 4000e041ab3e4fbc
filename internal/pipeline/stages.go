package pipeline

import (
	"github.com/quint-lang/quint-core/internal/compiler"
	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/resolver"
	"github.com/quint-lang/quint-core/internal/simulator"
)

// ResolveStage builds the module's scope tree and definition table, then
// runs the name resolver against them. It never aborts the pipeline on
// unresolved names: CompileStage runs regardless, since the compiler
// reports its own E_UNBOUND_NAME/E_UNKNOWN_OPERATOR errors independently
// and a caller wants both diagnostics sets from one pass.
type ResolveStage struct{}

func (ResolveStage) Process(s *Session) *Session {
	if s.Module == nil {
		return s
	}
	s.Tables = ir.BuiltinDefTables()
	mine := ir.Build(s.Module)
	s.Tables.Values = append(s.Tables.Values, mine.Values...)
	s.Tables.Types = append(s.Tables.Types, mine.Types...)
	s.Scopes = ir.BuildFromModule(s.Module)
	s.ResolveErrors = resolver.Resolve(s.Module, s.Tables, s.Scopes)
	return s
}

// CompileStage lowers the module into a compiler.Context, provided the
// module was present (a Session with no Module, e.g. a bare-name-check
// LSP request, is left alone).
type CompileStage struct{}

func (CompileStage) Process(s *Session) *Session {
	if s.Module == nil {
		return s
	}
	ctx, errs := compiler.Compile(s.Module, s.Consts)
	s.Context = ctx
	s.Diags = errs
	return s
}

// SimulateStage drives the randomized simulator over the compiled
// context using SimConfig, when both are present; it is skipped when the
// caller only wants resolve+compile diagnostics (a typecheck-only LSP
// request has no SimConfig).
type SimulateStage struct{}

func (SimulateStage) Process(s *Session) *Session {
	if s.Context == nil || s.SimConfig == nil {
		return s
	}
	if s.Diags != nil && len(s.Diags.Compile) > 0 {
		return s
	}
	report := simulator.Run(s.Context, *s.SimConfig)
	s.SimReport = &report
	return s
}

// Standard returns the default resolve -> compile -> simulate pipeline
// used by cmd/quint; a caller that only wants diagnostics can build a
// shorter Pipeline directly from the Stages above.
func Standard() *Pipeline {
	return New(ResolveStage{}, CompileStage{}, SimulateStage{})
}
