package resolver_test

import (
	"math/big"
	"testing"

	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/resolver"
)

// module M { val x = y + 1 } where y is undeclared.
func buildUnresolvedNameModule() *ir.Module {
	yRef := ir.NewName(10, "M", "y")
	one := ir.NewIntLiteral(11, "M", big.NewInt(1))
	body := ir.NewApp(12, "M", "iadd", yRef, one)
	x := ir.NewOpDef(1, "M", ir.QualVal, "x", nil, nil, nil, body)
	return ir.NewModule(0, "M", []ir.Definition{x})
}

func TestResolveReportsSingleUnresolvedName(t *testing.T) {
	mod := buildUnresolvedNameModule()
	tables := ir.Build(mod)
	scopes := ir.BuildFromModule(mod)

	errs := resolver.Resolve(mod, tables, scopes)

	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly one NameError", errs)
	}
	e := errs[0]
	if e.Kind != resolver.KindValue {
		t.Fatalf("Kind = %v, want KindValue", e.Kind)
	}
	if e.Name != "y" {
		t.Fatalf("Name = %q, want %q", e.Name, "y")
	}
	if e.DefinitionName != "x" {
		t.Fatalf("DefinitionName = %q, want %q", e.DefinitionName, "x")
	}
	if e.ModuleName != "M" {
		t.Fatalf("ModuleName = %q, want %q", e.ModuleName, "M")
	}
	if e.ReferenceID != 10 {
		t.Fatalf("ReferenceID = %d, want 10", e.ReferenceID)
	}
}

// module M { val x = 1 } — every name resolves, so Resolve reports no
// errors at all.
func TestResolveReportsNothingWhenEveryNameResolves(t *testing.T) {
	one := ir.NewIntLiteral(1, "M", big.NewInt(1))
	x := ir.NewOpDef(2, "M", ir.QualVal, "x", nil, nil, nil, one)
	mod := ir.NewModule(0, "M", []ir.Definition{x})

	errs := resolver.Resolve(mod, ir.Build(mod), ir.BuildFromModule(mod))
	if len(errs) != 0 {
		t.Fatalf("errs = %v, want none", errs)
	}
}

// module M { def f(a) = a + b } — 'a' is the lambda's own parameter and
// resolves, but 'b' is free and must be reported, still attributed to
// the enclosing operator definition 'f'.
func TestResolveReportsFreeNameInsideLambdaBody(t *testing.T) {
	aRef := ir.NewName(30, "M", "a")
	bRef := ir.NewName(31, "M", "b")
	body := ir.NewApp(32, "M", "iadd", aRef, bRef)
	lam := ir.NewLambda(33, "M", []string{"a"}, []ir.NodeID{34}, body)
	f := ir.NewOpDef(35, "M", ir.QualDef, "f", nil, nil, nil, lam)
	mod := ir.NewModule(0, "M", []ir.Definition{f})

	errs := resolver.Resolve(mod, ir.Build(mod), ir.BuildFromModule(mod))
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly one NameError", errs)
	}
	if errs[0].Name != "b" {
		t.Fatalf("Name = %q, want %q", errs[0].Name, "b")
	}
	if errs[0].DefinitionName != "f" {
		t.Fatalf("DefinitionName = %q, want %q", errs[0].DefinitionName, "f")
	}
}
