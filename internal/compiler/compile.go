// Package compiler lowers a resolved ir.Module into a lazy computable
// graph: no bytecode is emitted, and no evaluation happens during
// compilation. Every leaf and combinator becomes a Computable closure
// that is only invoked later, by the simulator or an embedder.
package compiler

import (
	"fmt"

	"github.com/quint-lang/quint-core/internal/diag"
	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/value"
)

// Compile lowers mod into a Context. consts supplies the bindings for
// every `const` declaration mod carries; a name absent from consts is
// a compile error; it can never be recovered from within a single run.
func Compile(mod *ir.Module, consts map[string]value.Value) (*Context, *diag.Bag) {
	errs := diag.NewBag()
	ctx := NewContext()

	for _, d := range ir.BuiltinDefs() {
		compileDef(ctx, d, consts, errs)
	}
	lastTrace := NewRegister(RegShadow, ir.BuiltinLastTrace, int64(ir.IDLastTraceDecl))
	ctx.ShadowVars = append(ctx.ShadowVars, lastTrace)
	ctx.DefineComputable(KeyShadow, ir.BuiltinLastTrace, RegisterRead(lastTrace))

	for _, d := range mod.Defs {
		compileDef(ctx, d, consts, errs)
	}
	return ctx, errs
}

func compileDef(ctx *Context, d ir.Definition, consts map[string]value.Value, errs *diag.Bag) {
	switch def := d.(type) {
	case *ir.VarDecl:
		cur := NewRegister(RegVar, def.Name, int64(def.ID()))
		next := NewRegister(RegNextVar, def.Name, int64(def.ID()))
		ctx.Vars = append(ctx.Vars, cur)
		ctx.NextVars = append(ctx.NextVars, next)
		ctx.VarPairs = append(ctx.VarPairs, VarPair{Cur: cur, Next: next})
		ctx.DefineComputable(KeyVar, def.Name, RegisterRead(cur))
		ctx.defineNextVar(def.Name, next)

	case *ir.ConstDecl:
		v, ok := consts[def.Name]
		if !ok {
			errs.AddCompile("E_CONST_UNBOUND",
				fmt.Sprintf("constant '%s' has no binding in the supplied environment", def.Name),
				int64(def.ID()))
			return
		}
		ctx.DefineComputable(KeyVal, def.Name, Const(v))

	case *ir.ShadowDecl:
		reg := NewRegister(RegShadow, def.Name, int64(def.ID()))
		ctx.ShadowVars = append(ctx.ShadowVars, reg)
		ctx.DefineComputable(KeyShadow, def.Name, RegisterRead(reg))

	case *ir.Assume:
		// Assumptions are checked externally against the constant
		// environment; compiling the predicate here only surfaces
		// unbound-name/arity errors early.
		compileExpr(ctx, def.Pred, errs)

	case *ir.TypeDef:
		// Type definitions carry no runtime denotation; the type checker
		// that consumes them lives outside this evaluation core.

	case *ir.Import, *ir.Instance:
		// Multi-module linking is the embedding layer's responsibility:
		// Compile expects mod to already be the flattened, single-module
		// IR of everything it references.

	case *ir.OpDef:
		compileOpDef(ctx, def, errs)
	}
}

func compileOpDef(ctx *Context, d *ir.OpDef, errs *diag.Bag) {
	if d.Qualifier == ir.QualTemporal {
		errs.AddCompile("E_TEMPORAL_UNSUPPORTED",
			fmt.Sprintf("temporal operator '%s' is rejected at compile time", d.Name), int64(d.ID()))
		return
	}
	if len(d.Params) == 0 {
		body := compileExpr(ctx, d.Body, errs)
		ctx.DefineComputable(KeyVal, d.Name, body)
		return
	}

	params := make([]*Register, len(d.Params))
	ctx.Push()
	for i, p := range d.Params {
		declRef := int64(d.ID())
		if i < len(d.ParamIDs) {
			declRef = int64(d.ParamIDs[i])
		}
		reg := NewRegister(RegArg, p, declRef)
		params[i] = reg
		ctx.DefineComputable(KeyArg, p, RegisterRead(reg))
	}
	body := compileExpr(ctx, d.Body, errs)
	ctx.Pop()

	ctx.DefineCallable(d.Name, &Callable{Name: d.Name, Params: params, Body: body, DeclRef: int64(d.ID())})
}

// compileExpr compiles any expression to a Computable. Lambda cannot
// appear here: this evaluation core gives functions no value-domain
// denotation, so a Lambda is only ever legal in the syntactic argument
// position of an opcode expecting a callable (compileCallableArg), never
// as a general subexpression.
func compileExpr(ctx *Context, e ir.Expression, errs *diag.Bag) Computable {
	switch expr := e.(type) {
	case *ir.Literal:
		return compileLiteral(expr)

	case *ir.Name:
		comp, ok := ctx.LookupComputable(expr.Ident)
		if ok {
			return comp
		}
		if _, ok := ctx.LookupCallable(expr.Ident); ok {
			errs.AddCompile("E_BAD_ARITY",
				fmt.Sprintf("'%s' is an operator and must be applied to arguments", expr.Ident), int64(expr.ID()))
			return failingComputable(int64(expr.ID()), "'%s' is an operator and must be applied to arguments", expr.Ident)
		}
		errs.AddCompile("E_UNBOUND_NAME", fmt.Sprintf("name '%s' is not bound", expr.Ident), int64(expr.ID()))
		return failingComputable(int64(expr.ID()), "name '%s' is not bound", expr.Ident)

	case *ir.Lambda:
		errs.AddCompile("E_LAMBDA_POSITION",
			"lambda used outside of a higher-order operator argument position", int64(expr.ID()))
		return failingComputable(int64(expr.ID()), "lambda has no value representation")

	case *ir.Let:
		ctx.Push()
		compileOpDef(ctx, expr.Def, errs)
		body := compileExpr(ctx, expr.Body, errs)
		ctx.Pop()
		return body

	case *ir.App:
		return compileApp(ctx, expr, errs)
	}
	return failingComputable(int64(e.ID()), "unrecognized expression node")
}

func compileLiteral(l *ir.Literal) Computable {
	switch l.Kind {
	case ir.LitBool:
		return Const(value.NewBool(l.Bool))
	case ir.LitInt:
		return Const(value.NewInt(l.Int))
	case ir.LitStr:
		return Const(value.NewStr(l.Str))
	default:
		return Const(value.NewBool(false))
	}
}

// failingComputable is used at compile time when a compile error has
// already been recorded; the returned Computable exists only so
// compilation can continue and produce a well-typed (if useless) graph.
func failingComputable(ref int64, format string, args ...interface{}) Computable {
	return Func(func(rt *Runtime) (value.Value, bool) { return rt.Fail(ref, format, args...) })
}

// compileCallableArg compiles an argument expression that must denote a
// callable: either a fresh Lambda (compiled into a new Callable) or a
// bare Name referring to an existing operator. A name with no `callable`
// entry (such as a zero-parameter action, bound as a Computable) becomes
// a Callable with no parameters that evaluates that Computable.
func compileCallableArg(ctx *Context, e ir.Expression, errs *diag.Bag) *Callable {
	switch expr := e.(type) {
	case *ir.Lambda:
		params := make([]*Register, len(expr.Params))
		ctx.Push()
		for i, p := range expr.Params {
			declRef := int64(expr.ID())
			if i < len(expr.ParamIDs) {
				declRef = int64(expr.ParamIDs[i])
			}
			reg := NewRegister(RegArg, p, declRef)
			params[i] = reg
			ctx.DefineComputable(KeyArg, p, RegisterRead(reg))
		}
		body := compileExpr(ctx, expr.Body, errs)
		ctx.Pop()
		return &Callable{Name: "<lambda>", Params: params, Body: body, DeclRef: int64(expr.ID())}

	case *ir.Name:
		if c, ok := ctx.LookupCallable(expr.Ident); ok {
			return c
		}
		if comp, ok := ctx.LookupComputable(expr.Ident); ok {
			return &Callable{Name: expr.Ident, Body: comp, DeclRef: int64(expr.ID())}
		}
		errs.AddCompile("E_UNBOUND_NAME", fmt.Sprintf("operator '%s' is not bound", expr.Ident), int64(expr.ID()))
	default:
		errs.AddCompile("E_ILL_FORMED_LAMBDA", "expected a lambda or operator name in this position", int64(e.ID()))
	}
	return &Callable{Name: "<error>", Body: failingComputable(int64(e.ID()), "callable argument did not compile")}
}
