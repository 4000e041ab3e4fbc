package compiler_test

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/quint-lang/quint-core/internal/compiler"
	"github.com/quint-lang/quint-core/internal/diag"
	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/value"
)

// buildThenCounter reuses the counter fixture's actions but, unlike
// buildCounter, also compiles the "then" opcode itself:
//
//	Chain     := then(Init, OnPositive, OnPositive, OnDivByThree, OnEven)
//	FailChain := then(OnPositive, OnDivByThree)
func buildThenCounter() *ir.Module {
	const mod = "ThenCounter"
	var id ir.NodeID
	next := func() ir.NodeID { id++; return id }

	n := ir.NewVarDecl(next(), mod, "n", nil)
	nRef := func() ir.Expression { return ir.NewName(next(), mod, "n") }
	lit := func(v int64) ir.Expression { return ir.NewIntLiteral(next(), mod, big.NewInt(v)) }

	initDef := ir.NewOpDef(next(), mod, ir.QualAction, "Init", nil, nil, nil,
		ir.NewApp(next(), mod, "assign", ir.NewName(next(), mod, "n"), lit(1)))

	onEven := ir.NewOpDef(next(), mod, ir.QualAction, "OnEven", nil, nil, nil,
		ir.NewApp(next(), mod, "actionAll",
			ir.NewApp(next(), mod, "eq",
				ir.NewApp(next(), mod, "imod", nRef(), lit(2)), lit(0)),
			ir.NewApp(next(), mod, "assign", ir.NewName(next(), mod, "n"),
				ir.NewApp(next(), mod, "idiv", nRef(), lit(2)))))

	onDivByThree := ir.NewOpDef(next(), mod, ir.QualAction, "OnDivByThree", nil, nil, nil,
		ir.NewApp(next(), mod, "actionAll",
			ir.NewApp(next(), mod, "eq",
				ir.NewApp(next(), mod, "imod", nRef(), lit(3)), lit(0)),
			ir.NewApp(next(), mod, "assign", ir.NewName(next(), mod, "n"),
				ir.NewApp(next(), mod, "imul", nRef(), lit(2)))))

	onPositive := ir.NewOpDef(next(), mod, ir.QualAction, "OnPositive", nil, nil, nil,
		ir.NewApp(next(), mod, "actionAll",
			ir.NewApp(next(), mod, "igt", nRef(), lit(0)),
			ir.NewApp(next(), mod, "assign", ir.NewName(next(), mod, "n"),
				ir.NewApp(next(), mod, "iadd", nRef(), lit(1)))))

	chain := ir.NewOpDef(next(), mod, ir.QualAction, "Chain", nil, nil, nil,
		ir.NewApp(next(), mod, "then",
			ir.NewName(next(), mod, "Init"),
			ir.NewName(next(), mod, "OnPositive"),
			ir.NewName(next(), mod, "OnPositive"),
			ir.NewName(next(), mod, "OnDivByThree"),
			ir.NewName(next(), mod, "OnEven")))

	failChain := ir.NewOpDef(next(), mod, ir.QualAction, "FailChain", nil, nil, nil,
		ir.NewApp(next(), mod, "then",
			ir.NewName(next(), mod, "OnPositive"),
			ir.NewName(next(), mod, "OnDivByThree")))

	return ir.NewModule(next(), mod, []ir.Definition{
		n, initDef, onEven, onDivByThree, onPositive, chain, failChain,
	})
}

// TestThenChainMatchesWorkedTrace compiles and evaluates a real "then"
// opcode App node — Chain := then(Init, OnPositive, OnPositive,
// OnDivByThree, OnEven) — and checks it reaches the same final n as the
// worked example's manually-driven trace [1, 2, 3, 6, 3].
func TestThenChainMatchesWorkedTrace(t *testing.T) {
	mod := buildThenCounter()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}
	rt := compiler.NewRuntime(rand.New(rand.NewPCG(1, 1)), diag.NewBag())

	c, ok := ctx.LookupComputable("Chain")
	if !ok {
		t.Fatalf("Chain did not compile to a computable")
	}
	v, ok := c.Eval(rt)
	if !ok {
		t.Fatalf("Chain failed to evaluate")
	}
	b, err := value.ToBool(v)
	if err != nil || !b {
		t.Fatalf("Chain returned false")
	}
	compiler.Shift(ctx.VarPairs)

	if got := currentN(t, ctx); got != 3 {
		t.Fatalf("n = %d after Chain, want 3", got)
	}
}

// TestThenChainRestoresOnMidChainFailure runs FailChain := then(
// OnPositive, OnDivByThree) from n=3: OnPositive succeeds and shifts n
// to 4, committing that shift to the current-state register, but
// OnDivByThree then fails (4 is not divisible by 3). The whole chain
// must report false and n must be exactly what it was before the chain
// started, not left at the intermediate 4.
func TestThenChainRestoresOnMidChainFailure(t *testing.T) {
	mod := buildThenCounter()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}
	rt := compiler.NewRuntime(rand.New(rand.NewPCG(1, 1)), diag.NewBag())

	initC, ok := ctx.LookupComputable("Init")
	if !ok {
		t.Fatalf("Init did not compile to a computable")
	}
	if _, ok := initC.Eval(rt); !ok {
		t.Fatalf("Init failed to evaluate")
	}
	compiler.Shift(ctx.VarPairs)

	onPositive, ok := ctx.LookupComputable("OnPositive")
	if !ok {
		t.Fatalf("OnPositive did not compile to a computable")
	}
	if _, ok := onPositive.Eval(rt); !ok {
		t.Fatalf("OnPositive failed to evaluate")
	}
	compiler.Shift(ctx.VarPairs)

	if got := currentN(t, ctx); got != 2 {
		t.Fatalf("n = %d before FailChain, want 2", got)
	}

	onPositive2, ok := ctx.LookupComputable("OnPositive")
	if !ok {
		t.Fatalf("OnPositive did not compile to a computable")
	}
	if _, ok := onPositive2.Eval(rt); !ok {
		t.Fatalf("OnPositive failed to evaluate")
	}
	compiler.Shift(ctx.VarPairs)

	before := currentN(t, ctx)
	if before != 3 {
		t.Fatalf("n = %d before FailChain, want 3", before)
	}

	fc, ok := ctx.LookupComputable("FailChain")
	if !ok {
		t.Fatalf("FailChain did not compile to a computable")
	}
	v, ok := fc.Eval(rt)
	if !ok {
		t.Fatalf("FailChain failed to evaluate")
	}
	b, err := value.ToBool(v)
	if err != nil {
		t.Fatalf("FailChain did not return a boolean")
	}
	if b {
		t.Fatalf("FailChain returned true, want false (OnDivByThree should reject n=4)")
	}
	compiler.Shift(ctx.VarPairs)

	if got := currentN(t, ctx); got != before {
		t.Fatalf("n = %d after a failed FailChain, want unchanged %d (OnPositive's mid-chain shift to 4 must be rolled back)", got, before)
	}
}
