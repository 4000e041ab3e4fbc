package compiler

import (
	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/value"
)

// SimVerdict is the outcome of a simulation run per spec.md §4.5.
type SimVerdict uint8

const (
	VerdictOk SimVerdict = iota
	VerdictErrorFound
)

// SimResult is the outcome of one Simulate call: everything the `_test`
// opcode itself needs to produce its boolean result, plus the detail an
// embedder-facing report wants (failing run/step, the last trace).
type SimResult struct {
	Verdict         SimVerdict
	FailingRunIndex int
	FailingStep     int
	Trace           []value.Record
}

func currentStateRecord(ctx *Context) value.Record {
	fields := make(map[string]value.Value, len(ctx.Vars))
	for _, v := range ctx.Vars {
		if val, ok := v.Get(); ok {
			fields[v.Name] = val
		}
	}
	return value.NewRecord(fields)
}

func evalBool(rt *Runtime, c Computable) bool {
	v, ok := c.Eval(rt)
	if !ok {
		return false
	}
	b, err := value.ToBool(v)
	return err == nil && b
}

// Simulate implements the randomized simulator driver of spec.md §4.5:
// nruns attempts of init + nsteps invocations of step, checking inv
// after every shift, dropping runs whose init/step returns false or
// fails rather than treating that as an invariant violation.
func Simulate(rt *Runtime, ctx *Context, nruns, nsteps int, initName, stepName, invName string) SimResult {
	init, okI := ctx.LookupComputable(initName)
	step, okS := ctx.LookupComputable(stepName)
	inv, okV := ctx.LookupComputable(invName)
	if !okI || !okS || !okV {
		rt.Errors.AddRuntime("_test: init/step/inv name does not resolve in context", 0)
		return SimResult{Verdict: VerdictErrorFound}
	}

	outerVars := Snapshot(ctx.Vars)
	outerNext := Snapshot(ctx.NextVars)

	result := SimResult{Verdict: VerdictOk}
	var lastTrace []value.Record

runs:
	for r := 0; r < nruns; r++ {
		trace := []value.Record{}

		if !evalBool(rt, init) {
			continue // dropped run, not an error
		}

		Shift(ctx.VarPairs)
		trace = append(trace, currentStateRecord(ctx))
		lastTrace = trace

		if !evalBool(rt, inv) {
			result.Verdict = VerdictErrorFound
			result.FailingRunIndex = r
			result.FailingStep = 0
			break runs
		}

		for i := 0; i < nsteps; i++ {
			if !evalBool(rt, step) {
				lastTrace = trace
				continue runs // dropped run, not a deadlock error
			}
			Shift(ctx.VarPairs)
			trace = append(trace, currentStateRecord(ctx))
			lastTrace = trace

			if !evalBool(rt, inv) {
				result.Verdict = VerdictErrorFound
				result.FailingRunIndex = r
				result.FailingStep = i + 1
				break runs
			}
		}
	}

	Restore(ctx.Vars, outerVars)
	Restore(ctx.NextVars, outerNext)

	elems := make([]value.Value, len(lastTrace))
	for i, rec := range lastTrace {
		elems[i] = rec
	}
	traceList := value.NewList(elems...)
	for _, sr := range ctx.ShadowVars {
		if sr.Name == ir.BuiltinLastTrace {
			sr.Set(traceList)
		}
	}

	result.Trace = lastTrace
	return result
}
