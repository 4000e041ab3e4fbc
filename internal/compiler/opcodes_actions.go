package compiler

import (
	"github.com/quint-lang/quint-core/internal/diag"
	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/value"
)

// compileActionOpcode handles the action combinators, the two
// simulator-facing opcodes (oneOf, _test), assert/fail, and falls
// through to compileUserCall for anything left over — a user-defined
// operator invocation.
func compileActionOpcode(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	switch a.Op {
	case "actionAll":
		return compileActionAll(ctx, a, errs, ref)
	case "actionAny":
		return compileActionAny(ctx, a, errs, ref)
	case "then":
		return compileThen(ctx, a, errs, ref)
	case "repeated":
		return compileRepeated(ctx, a, errs, ref)
	case "oneOf":
		return compileOneOf(ctx, a, errs, ref)
	case "assert":
		return compileAssert(ctx, a, errs, ref)
	case "fail":
		return compileFail(ctx, a, errs, ref)
	case "_test":
		return compileTest(ctx, a, errs, ref)
	}
	return compileUserCall(ctx, a, errs, ref)
}

// snapshotAll captures every var's next-state register, since that is
// the only state an action or oneOf may mutate mid-evaluation.
func snapshotAll(ctx *Context) []RegisterState { return Snapshot(ctx.NextVars) }
func restoreAll(ctx *Context, s []RegisterState) { Restore(ctx.NextVars, s) }

// chainSnapshot is the state a then/repeated chain must roll back to on
// a mid-chain failure: both the current-state registers (already
// committed by any Shift the chain has performed) and the next-state
// registers of the in-flight step.
type chainSnapshot struct {
	cur, next []RegisterState
}

func snapshotChain(ctx *Context) chainSnapshot {
	return chainSnapshot{cur: Snapshot(ctx.Vars), next: Snapshot(ctx.NextVars)}
}

func restoreChain(ctx *Context, s chainSnapshot) {
	Restore(ctx.Vars, s.cur)
	Restore(ctx.NextVars, s.next)
}

// compileActionAll evaluates its operands left-to-right, restoring the
// pre-snapshot next-state registers on any false/failure.
func compileActionAll(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	ops := compileArgList(ctx, a.Args, errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		before := snapshotAll(ctx)
		for _, op := range ops {
			v, ok := op.Eval(rt)
			b := false
			if ok {
				bb, err := value.ToBool(v)
				if err == nil {
					b = bb
				}
			}
			if !b {
				restoreAll(ctx, before)
				return value.NewBool(false), true
			}
		}
		return value.NewBool(true), true
	})
}

// compileActionAny evaluates every operand from the same pre-snapshot,
// collects the next-state snapshot of each successful one, and commits
// a uniformly random survivor.
func compileActionAny(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	ops := compileArgList(ctx, a.Args, errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		before := snapshotAll(ctx)
		var survivors [][]RegisterState
		for _, op := range ops {
			restoreAll(ctx, before)
			v, ok := op.Eval(rt)
			b := false
			if ok {
				bb, err := value.ToBool(v)
				if err == nil {
					b = bb
				}
			}
			if b {
				survivors = append(survivors, snapshotAll(ctx))
			}
		}
		if len(survivors) == 0 {
			restoreAll(ctx, before)
			return value.NewBool(false), true
		}
		chosen := survivors[rt.RNG.IntN(len(survivors))]
		restoreAll(ctx, chosen)
		return value.NewBool(true), true
	})
}

// compileThen composes actions in sequence, shifting next-state into
// current-state between each one. Like actionAll, it snapshots before
// the chain starts and restores on any failure, undoing every Shift the
// chain has already committed.
func compileThen(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	ops := compileArgList(ctx, a.Args, errs)
	pairs := ctx.VarPairs
	return Func(func(rt *Runtime) (value.Value, bool) {
		before := snapshotChain(ctx)
		for i, op := range ops {
			v, ok := op.Eval(rt)
			b := false
			if ok {
				bb, err := value.ToBool(v)
				if err == nil {
					b = bb
				}
			}
			if !b {
				restoreChain(ctx, before)
				return value.NewBool(false), true
			}
			if i < len(ops)-1 {
				Shift(pairs)
			}
		}
		return value.NewBool(true), true
	})
}

// compileRepeated evaluates n, then runs A then A ... (n copies) via the
// same then-semantics.
func compileRepeated(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "repeated(A,n) expects two operands", ref)
		return failingComputable(ref, "repeated: malformed arguments")
	}
	action := compileCallableArg(ctx, a.Args[0], errs)
	n := compileExpr(ctx, a.Args[1], errs)
	pairs := ctx.VarPairs
	return Func(func(rt *Runtime) (value.Value, bool) {
		nv, ok := n.Eval(rt)
		if !ok {
			return nil, false
		}
		ni, err := value.ToInt(nv)
		if err != nil {
			return rt.Fail(ref, "repeated: second operand is not an integer")
		}
		count := int(ni.Int64())
		before := snapshotChain(ctx)
		for i := 0; i < count; i++ {
			v, ok := action.Invoke(rt, ref, nil)
			b := false
			if ok {
				bb, err := value.ToBool(v)
				if err == nil {
					b = bb
				}
			}
			if !b {
				restoreChain(ctx, before)
				return value.NewBool(false), true
			}
			if i < count-1 {
				Shift(pairs)
			}
		}
		return value.NewBool(true), true
	})
}

// compileOneOf picks a uniformly random element of a finite set.
func compileOneOf(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 1 {
		errs.AddCompile("E_BAD_ARITY", "oneOf(S) expects one operand", ref)
		return failingComputable(ref, "oneOf: malformed arguments")
	}
	s := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		sv, ok := s.Eval(rt)
		if !ok {
			return nil, false
		}
		ss, err := value.ToSet(sv)
		if err != nil {
			return rt.Fail(ref, "oneOf: operand is not a set")
		}
		v, err := value.Pick(ss, rt.RNG.Float64())
		if err != nil {
			return rt.Fail(ref, "%s", err)
		}
		return v, true
	})
}

func compileAssert(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 1 {
		errs.AddCompile("E_BAD_ARITY", "assert(c) expects one operand", ref)
		return failingComputable(ref, "assert: malformed arguments")
	}
	c := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		cv, ok := c.Eval(rt)
		if !ok {
			return nil, false
		}
		b, err := value.ToBool(cv)
		if err != nil {
			return rt.Fail(ref, "assert: operand is not boolean")
		}
		if !b {
			return rt.Fail(ref, "Assertion failed")
		}
		return cv, true
	})
}

// compileFail inverts the truth value of its operand, for negative
// tests: a failed evaluation is treated as false before inverting, and
// a successful true/false is negated directly.
func compileFail(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 1 {
		errs.AddCompile("E_BAD_ARITY", "fail(A) expects one operand", ref)
		return failingComputable(ref, "fail: malformed arguments")
	}
	inner := compileCallableArg(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		v, ok := inner.Invoke(rt, ref, nil)
		b := false
		if ok {
			bb, err := value.ToBool(v)
			if err == nil {
				b = bb
			}
		}
		return value.NewBool(!b), true
	})
}

// compileTest compiles _test(nruns, nsteps, initName, stepName,
// invName). The three callable-selecting arguments must be literal
// names (either bare identifiers or string literals) resolved against
// context at evaluation time, since they name callables rather than
// produce values.
func compileTest(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 5 {
		errs.AddCompile("E_BAD_ARITY", "_test(nruns,nsteps,init,step,inv) expects five operands", ref)
		return failingComputable(ref, "_test: malformed arguments")
	}
	nruns := compileExpr(ctx, a.Args[0], errs)
	nsteps := compileExpr(ctx, a.Args[1], errs)
	initName, ok1 := calleeNameArg(a.Args[2])
	stepName, ok2 := calleeNameArg(a.Args[3])
	invName, ok3 := calleeNameArg(a.Args[4])
	if !ok1 || !ok2 || !ok3 {
		errs.AddCompile("E_BAD_ARITY", "_test: init/step/inv arguments must name a callable", ref)
		return failingComputable(ref, "_test: malformed callable-name arguments")
	}
	return Func(func(rt *Runtime) (value.Value, bool) {
		nrv, ok := nruns.Eval(rt)
		if !ok {
			return nil, false
		}
		nsv, ok := nsteps.Eval(rt)
		if !ok {
			return nil, false
		}
		nri, err := value.ToInt(nrv)
		if err != nil {
			return rt.Fail(ref, "_test: nruns is not an integer")
		}
		nsi, err := value.ToInt(nsv)
		if err != nil {
			return rt.Fail(ref, "_test: nsteps is not an integer")
		}
		result := Simulate(rt, ctx, int(nri.Int64()), int(nsi.Int64()), initName, stepName, invName)
		return value.NewBool(result.Verdict == VerdictOk), true
	})
}

func calleeNameArg(e ir.Expression) (string, bool) {
	switch n := e.(type) {
	case *ir.Name:
		return n.Ident, true
	case *ir.Literal:
		if n.Kind == ir.LitStr {
			return n.Str, true
		}
	}
	return "", false
}

func compileUserCall(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	callable, ok := ctx.LookupCallable(a.Op)
	if !ok {
		errs.AddCompile("E_UNKNOWN_OPERATOR", "unknown operator '"+a.Op+"'", ref)
		return failingComputable(ref, "unknown operator '%s'", a.Op)
	}
	if len(a.Args) != len(callable.Params) {
		errs.AddCompile("E_BAD_ARITY", "operator '"+a.Op+"' arity mismatch", ref)
		return failingComputable(ref, "operator '%s' expects %d argument(s), got %d", a.Op, len(callable.Params), len(a.Args))
	}
	args := compileArgList(ctx, a.Args, errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		argVals, ok := evalAll(rt, args)
		if !ok {
			return nil, false
		}
		return callable.Invoke(rt, ref, argVals)
	})
}
