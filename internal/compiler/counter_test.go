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

// buildCounter constructs the fixture module:
//
//	var n: int
//	Init := assign(n, 1)
//	OnEven := actionAll(eq(imod(n,2),0), assign(n, idiv(n,2)))
//	OnDivByThree := actionAll(eq(imod(n,3),0), assign(n, imul(n,2)))
//	OnPositive := actionAll(igt(n,0), assign(n, iadd(n,1)))
func buildCounter() *ir.Module {
	const mod = "Counter"
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

	nextDef := ir.NewOpDef(next(), mod, ir.QualAction, "Next", nil, nil, nil,
		ir.NewApp(next(), mod, "actionAny",
			ir.NewName(next(), mod, "OnEven"),
			ir.NewName(next(), mod, "OnDivByThree"),
			ir.NewName(next(), mod, "OnPositive")))

	invDef := ir.NewOpDef(next(), mod, ir.QualVal, "Inv", nil, nil, nil,
		ir.NewBoolLiteral(next(), mod, true))

	return ir.NewModule(next(), mod, []ir.Definition{n, initDef, onEven, onDivByThree, onPositive, nextDef, invDef})
}

func currentN(t *testing.T, ctx *compiler.Context) int64 {
	t.Helper()
	for _, r := range ctx.Vars {
		if r.Name != "n" {
			continue
		}
		v, ok := r.Get()
		if !ok {
			t.Fatalf("n has no current value")
		}
		iv, err := value.ToInt(v)
		if err != nil {
			t.Fatalf("n is not an integer: %v", err)
		}
		return iv.Int64()
	}
	t.Fatalf("var n not found in compiled context")
	return 0
}

// TestCounterScenario runs Init.then(OnPositive).then(OnPositive).
// then(OnDivByThree).then(OnEven) and checks the resulting trace of n
// values matches [1, 2, 3, 6, 3], as in the worked example this
// module's action-combinator semantics are grounded on.
func TestCounterScenario(t *testing.T) {
	mod := buildCounter()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}

	names := []string{"Init", "OnPositive", "OnPositive", "OnDivByThree", "OnEven"}
	rt := compiler.NewRuntime(rand.New(rand.NewPCG(1, 1)), diag.NewBag())

	var trace []int64
	for _, name := range names {
		c, ok := ctx.LookupComputable(name)
		if !ok {
			t.Fatalf("%s did not compile to a computable", name)
		}
		v, ok := c.Eval(rt)
		if !ok {
			t.Fatalf("%s failed to evaluate", name)
		}
		b, err := value.ToBool(v)
		if err != nil || !b {
			t.Fatalf("%s returned false", name)
		}
		compiler.Shift(ctx.VarPairs)
		trace = append(trace, currentN(t, ctx))
	}

	want := []int64{1, 2, 3, 6, 3}
	if len(trace) != len(want) {
		t.Fatalf("trace length = %d, want %d", len(trace), len(want))
	}
	for i, w := range want {
		if trace[i] != w {
			t.Fatalf("trace[%d] = %d, want %d (full trace %v)", i, trace[i], w, trace)
		}
	}
}
