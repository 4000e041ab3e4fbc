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

func newRuntime() *compiler.Runtime {
	return compiler.NewRuntime(rand.New(rand.NewPCG(1, 1)), diag.NewBag())
}

func evalVal(t *testing.T, ctx *compiler.Context, name string) value.Value {
	t.Helper()
	c, ok := ctx.LookupComputable(name)
	if !ok {
		t.Fatalf("%s did not compile to a computable", name)
	}
	v, ok := c.Eval(newRuntime())
	if !ok {
		t.Fatalf("%s failed to evaluate", name)
	}
	return v
}

func intOf(t *testing.T, v value.Value) int64 {
	t.Helper()
	i, err := value.ToInt(v)
	if err != nil {
		t.Fatalf("value %s is not an integer", v.Inspect())
	}
	return i.Int64()
}

// buildFoldModule builds:
//
//	sumFold  := fold(List(1,2,3,4), 0, (a,b) => isub(a,b))
//	sumFoldr := foldr(List(1,2,3,4), 0, (a,b) => isub(a,b))
//
// isub is deliberately non-commutative so fold and foldr must disagree
// unless the two really do apply the accumulator in opposite order.
func buildFoldModule() *ir.Module {
	const mod = "Fold"
	var id ir.NodeID
	next := func() ir.NodeID { id++; return id }
	lit := func(v int64) ir.Expression { return ir.NewIntLiteral(next(), mod, big.NewInt(v)) }
	list := ir.NewApp(next(), mod, "List", lit(1), lit(2), lit(3), lit(4))

	lamBody := ir.NewApp(next(), mod, "isub", ir.NewName(next(), mod, "a"), ir.NewName(next(), mod, "b"))
	lam := ir.NewLambda(next(), mod, []string{"a", "b"}, []ir.NodeID{next(), next()}, lamBody)

	sumFold := ir.NewOpDef(next(), mod, ir.QualVal, "sumFold", nil, nil, nil,
		ir.NewApp(next(), mod, "fold", list, lit(0), lam))
	sumFoldr := ir.NewOpDef(next(), mod, ir.QualVal, "sumFoldr", nil, nil, nil,
		ir.NewApp(next(), mod, "foldr", list, lit(0), lam))

	return ir.NewModule(next(), mod, []ir.Definition{sumFold, sumFoldr})
}

func TestFoldAndFoldrApplyOppositeOrder(t *testing.T) {
	mod := buildFoldModule()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}

	if got := intOf(t, evalVal(t, ctx, "sumFold")); got != -10 {
		t.Fatalf("sumFold = %d, want -10", got)
	}
	if got := intOf(t, evalVal(t, ctx, "sumFoldr")); got != -2 {
		t.Fatalf("sumFoldr = %d, want -2", got)
	}
}

// buildQuantifierModule builds:
//
//	anyNegative := exists(List(1,2,-3,4), x => ilt(x,0))
//	allPositive := forall(List(1,2,-3,4), x => igt(x,0))
//	allSmall    := forall(List(1,2,3), x => ilt(x,10))
func buildQuantifierModule() *ir.Module {
	const mod = "Quant"
	var id ir.NodeID
	next := func() ir.NodeID { id++; return id }
	lit := func(v int64) ir.Expression { return ir.NewIntLiteral(next(), mod, big.NewInt(v)) }

	mixed := ir.NewApp(next(), mod, "List", lit(1), lit(2), lit(-3), lit(4))
	small := ir.NewApp(next(), mod, "List", lit(1), lit(2), lit(3))

	xParamID := next()
	negLam := ir.NewLambda(next(), mod, []string{"x"}, []ir.NodeID{xParamID},
		ir.NewApp(next(), mod, "ilt", ir.NewName(next(), mod, "x"), lit(0)))
	xParamID2 := next()
	posLam := ir.NewLambda(next(), mod, []string{"x"}, []ir.NodeID{xParamID2},
		ir.NewApp(next(), mod, "igt", ir.NewName(next(), mod, "x"), lit(0)))
	xParamID3 := next()
	smallLam := ir.NewLambda(next(), mod, []string{"x"}, []ir.NodeID{xParamID3},
		ir.NewApp(next(), mod, "ilt", ir.NewName(next(), mod, "x"), lit(10)))

	anyNegative := ir.NewOpDef(next(), mod, ir.QualVal, "anyNegative", nil, nil, nil,
		ir.NewApp(next(), mod, "exists", mixed, negLam))
	allPositive := ir.NewOpDef(next(), mod, ir.QualVal, "allPositive", nil, nil, nil,
		ir.NewApp(next(), mod, "forall", mixed, posLam))
	allSmall := ir.NewOpDef(next(), mod, ir.QualVal, "allSmall", nil, nil, nil,
		ir.NewApp(next(), mod, "forall", small, smallLam))

	return ir.NewModule(next(), mod, []ir.Definition{anyNegative, allPositive, allSmall})
}

func TestExistsAndForall(t *testing.T) {
	mod := buildQuantifierModule()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}

	check := func(name string, want bool) {
		b, err := value.ToBool(evalVal(t, ctx, name))
		if err != nil {
			t.Fatalf("%s did not evaluate to a boolean: %v", name, err)
		}
		if b != want {
			t.Fatalf("%s = %v, want %v", name, b, want)
		}
	}
	check("anyNegative", true)
	check("allPositive", false)
	check("allSmall", true)
}

// buildMapFilterModule builds:
//
//	doubled := map(List(1,2,3), x => imul(x,2))
//	evens   := filter(List(1,2,3,4,5), x => eq(imod(x,2),0))
//	squares := mapBy(List(1,2,3), x => imul(x,x))
func buildMapFilterModule() *ir.Module {
	const mod = "MapFilter"
	var id ir.NodeID
	next := func() ir.NodeID { id++; return id }
	lit := func(v int64) ir.Expression { return ir.NewIntLiteral(next(), mod, big.NewInt(v)) }

	list123 := ir.NewApp(next(), mod, "List", lit(1), lit(2), lit(3))
	list12345 := ir.NewApp(next(), mod, "List", lit(1), lit(2), lit(3), lit(4), lit(5))

	doubleParamID := next()
	doubleLam := ir.NewLambda(next(), mod, []string{"x"}, []ir.NodeID{doubleParamID},
		ir.NewApp(next(), mod, "imul", ir.NewName(next(), mod, "x"), lit(2)))
	evenParamID := next()
	evenLam := ir.NewLambda(next(), mod, []string{"x"}, []ir.NodeID{evenParamID},
		ir.NewApp(next(), mod, "eq", ir.NewApp(next(), mod, "imod", ir.NewName(next(), mod, "x"), lit(2)), lit(0)))
	squareParamID := next()
	squareLam := ir.NewLambda(next(), mod, []string{"x"}, []ir.NodeID{squareParamID},
		ir.NewApp(next(), mod, "imul", ir.NewName(next(), mod, "x"), ir.NewName(next(), mod, "x")))

	doubled := ir.NewOpDef(next(), mod, ir.QualVal, "doubled", nil, nil, nil,
		ir.NewApp(next(), mod, "map", list123, doubleLam))
	evens := ir.NewOpDef(next(), mod, ir.QualVal, "evens", nil, nil, nil,
		ir.NewApp(next(), mod, "filter", list12345, evenLam))
	squares := ir.NewOpDef(next(), mod, ir.QualVal, "squares", nil, nil, nil,
		ir.NewApp(next(), mod, "mapBy", list123, squareLam))

	return ir.NewModule(next(), mod, []ir.Definition{doubled, evens, squares})
}

func TestMapFilterMapBy(t *testing.T) {
	mod := buildMapFilterModule()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}

	doubled, err := value.ToList(evalVal(t, ctx, "doubled"))
	if err != nil {
		t.Fatalf("doubled is not a list: %v", err)
	}
	wantDoubled := []int64{2, 4, 6}
	if len(doubled.Elems()) != len(wantDoubled) {
		t.Fatalf("doubled has %d elements, want %d", len(doubled.Elems()), len(wantDoubled))
	}
	for i, e := range doubled.Elems() {
		if got := intOf(t, e); got != wantDoubled[i] {
			t.Fatalf("doubled[%d] = %d, want %d", i, got, wantDoubled[i])
		}
	}

	evens, err := value.ToList(evalVal(t, ctx, "evens"))
	if err != nil {
		t.Fatalf("evens is not a list: %v", err)
	}
	wantEvens := []int64{2, 4}
	if len(evens.Elems()) != len(wantEvens) {
		t.Fatalf("evens has %d elements, want %d", len(evens.Elems()), len(wantEvens))
	}
	for i, e := range evens.Elems() {
		if got := intOf(t, e); got != wantEvens[i] {
			t.Fatalf("evens[%d] = %d, want %d", i, got, wantEvens[i])
		}
	}

	squares, err := value.ToMap(evalVal(t, ctx, "squares"))
	if err != nil {
		t.Fatalf("squares is not a map: %v", err)
	}
	for _, tc := range []struct{ key, want int64 }{{1, 1}, {2, 4}, {3, 9}} {
		v, ok := squares.Get(value.NewIntFromInt64(tc.key))
		if !ok {
			t.Fatalf("squares has no entry for %d", tc.key)
		}
		if got := intOf(t, v); got != tc.want {
			t.Fatalf("squares[%d] = %d, want %d", tc.key, got, tc.want)
		}
	}
}

// buildActionAnyModule builds:
//
//	var n: int
//	Init          := assign(n, 0)
//	NoSurvivors   := actionAny(igt(n, 100))
//	OneSurvivor   := actionAny(igt(n, 100), igt(n, -100))
//	TwoSurvivors  := actionAny(assign(n, 10), assign(n, 20))
func buildActionAnyModule() *ir.Module {
	const mod = "AnyAction"
	var id ir.NodeID
	next := func() ir.NodeID { id++; return id }
	nRef := func() ir.Expression { return ir.NewName(next(), mod, "n") }
	lit := func(v int64) ir.Expression { return ir.NewIntLiteral(next(), mod, big.NewInt(v)) }

	n := ir.NewVarDecl(next(), mod, "n", nil)
	initDef := ir.NewOpDef(next(), mod, ir.QualAction, "Init", nil, nil, nil,
		ir.NewApp(next(), mod, "assign", ir.NewName(next(), mod, "n"), lit(0)))
	noSurvivors := ir.NewOpDef(next(), mod, ir.QualAction, "NoSurvivors", nil, nil, nil,
		ir.NewApp(next(), mod, "actionAny", ir.NewApp(next(), mod, "igt", nRef(), lit(100))))
	oneSurvivor := ir.NewOpDef(next(), mod, ir.QualAction, "OneSurvivor", nil, nil, nil,
		ir.NewApp(next(), mod, "actionAny",
			ir.NewApp(next(), mod, "igt", nRef(), lit(100)),
			ir.NewApp(next(), mod, "igt", nRef(), lit(-100))))
	twoSurvivors := ir.NewOpDef(next(), mod, ir.QualAction, "TwoSurvivors", nil, nil, nil,
		ir.NewApp(next(), mod, "actionAny",
			ir.NewApp(next(), mod, "assign", ir.NewName(next(), mod, "n"), lit(10)),
			ir.NewApp(next(), mod, "assign", ir.NewName(next(), mod, "n"), lit(20))))

	return ir.NewModule(next(), mod, []ir.Definition{n, initDef, noSurvivors, oneSurvivor, twoSurvivors})
}

func runAction(t *testing.T, ctx *compiler.Context, rt *compiler.Runtime, name string) bool {
	t.Helper()
	c, ok := ctx.LookupComputable(name)
	if !ok {
		t.Fatalf("%s did not compile to a computable", name)
	}
	v, ok := c.Eval(rt)
	if !ok {
		t.Fatalf("%s failed to evaluate", name)
	}
	b, err := value.ToBool(v)
	if err != nil {
		t.Fatalf("%s did not return a boolean", name)
	}
	compiler.Shift(ctx.VarPairs)
	return b
}

// TestActionAnyNoSurvivorsRestoresState exercises actionAny's
// restore-on-failure path: every branch is false, so the action itself
// returns false and n is left exactly as Init set it.
func TestActionAnyNoSurvivorsRestoresState(t *testing.T) {
	mod := buildActionAnyModule()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}
	rt := newRuntime()

	if !runAction(t, ctx, rt, "Init") {
		t.Fatalf("Init returned false")
	}
	if runAction(t, ctx, rt, "NoSurvivors") {
		t.Fatalf("NoSurvivors returned true, want false")
	}
	if got := currentN(t, ctx); got != 0 {
		t.Fatalf("n = %d after a failed actionAny, want 0 unchanged", got)
	}
}

// TestActionAnySingleSurvivorIsDeterministic exercises the
// random-selection path with exactly one surviving branch: whatever the
// PRNG returns, IntN(1) is always 0, so the outcome is deterministic.
func TestActionAnySingleSurvivorIsDeterministic(t *testing.T) {
	mod := buildActionAnyModule()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}
	rt := newRuntime()

	if !runAction(t, ctx, rt, "Init") {
		t.Fatalf("Init returned false")
	}
	if !runAction(t, ctx, rt, "OneSurvivor") {
		t.Fatalf("OneSurvivor returned false, want true")
	}
}

// TestActionAnyMultipleSurvivorsPicksOneOfThem exercises actionAny's
// uniform random choice among several surviving branches: the result is
// picked by rt.RNG, so only membership in the candidate set is checked,
// not a specific value.
func TestActionAnyMultipleSurvivorsPicksOneOfThem(t *testing.T) {
	mod := buildActionAnyModule()
	ctx, errs := compiler.Compile(mod, nil)
	if len(errs.Compile) > 0 {
		t.Fatalf("unexpected compile errors: %v", errs.Compile)
	}
	rt := newRuntime()

	if !runAction(t, ctx, rt, "Init") {
		t.Fatalf("Init returned false")
	}
	if !runAction(t, ctx, rt, "TwoSurvivors") {
		t.Fatalf("TwoSurvivors returned false, want true")
	}
	got := currentN(t, ctx)
	if got != 10 && got != 20 {
		t.Fatalf("n = %d after actionAny with two survivors, want 10 or 20", got)
	}
}
