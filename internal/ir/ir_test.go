package ir

import (
	"math/big"
	"testing"
)

// module M { val x = y + 1 } where y is undeclared — resolver-facing
// fixture; here we only check the def table and scope tree it is built
// from carry no entry for y.
func buildUnresolvedNameModule() *Module {
	yRef := NewName(10, "M", "y")
	one := NewIntLiteral(11, "M", big.NewInt(1))
	body := NewApp(12, "M", "iadd", yRef, one)
	x := NewOpDef(1, "M", QualVal, "x", nil, nil, nil, body)
	return NewModule(0, "M", []Definition{x})
}

func TestDefTableHasNoEntryForUndeclaredName(t *testing.T) {
	mod := buildUnresolvedNameModule()
	tables := Build(mod)
	if _, ok := tables.ResolveValue("y", BuildFromModule(mod), 10); ok {
		t.Fatalf("expected no definition for undeclared name y")
	}
	if _, ok := tables.ResolveValue("x", BuildFromModule(mod), 10); !ok {
		t.Fatalf("expected module-global definition for x")
	}
}

func TestLambdaParamScopedToLambda(t *testing.T) {
	// def f(a) = a — lambda body 'a' resolves only inside the lambda.
	paramRef := NewName(20, "M", "a")
	lam := NewLambda(21, "M", []string{"a"}, []NodeID{22}, paramRef)
	f := NewOpDef(23, "M", QualDef, "f", nil, nil, nil, lam)
	mod := NewModule(0, "M", []Definition{f})

	tables := Build(mod)
	scopes := BuildFromModule(mod)

	if _, ok := tables.ResolveValue("a", scopes, 20); !ok {
		t.Fatalf("expected 'a' to resolve inside the lambda body")
	}
	// A hypothetical reference at module scope (id of the module itself)
	// must not see 'a'.
	if _, ok := tables.ResolveValue("a", scopes, mod.ID()); ok {
		t.Fatalf("expected 'a' to be invisible outside the lambda")
	}
}

func TestScopeTreeRecordsModuleAsOutermostScope(t *testing.T) {
	mod := buildUnresolvedNameModule()
	tree := BuildFromModule(mod)
	scopes := tree.ScopesFor(10)
	found := false
	for _, s := range scopes {
		if s == mod.ID() {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected module scope to enclose every reference")
	}
}
