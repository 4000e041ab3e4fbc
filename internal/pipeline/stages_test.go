package pipeline_test

import (
	"math/big"
	"testing"

	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/pipeline"
)

// module M { val x = in(1, Int) } exercises a value reference to a
// built-in name (Int) through the real resolve stage, not just the
// compiler's own independently-seeded prelude.
func buildBuiltinReferenceModule() *ir.Module {
	const mod = "M"
	intRef := ir.NewName(1, mod, "Int")
	one := ir.NewIntLiteral(2, mod, big.NewInt(1))
	body := ir.NewApp(3, mod, "in", one, intRef)
	x := ir.NewOpDef(4, mod, ir.QualVal, "x", nil, nil, nil, body)
	return ir.NewModule(0, mod, []ir.Definition{x})
}

func TestResolveStageSeedsBuiltinDefTables(t *testing.T) {
	mod := buildBuiltinReferenceModule()
	s := pipeline.NewSession("m.qnt", mod, nil)
	s = pipeline.ResolveStage{}.Process(s)

	if len(s.ResolveErrors) != 0 {
		t.Fatalf("ResolveErrors = %v, want none — Int is a built-in name", s.ResolveErrors)
	}
}
