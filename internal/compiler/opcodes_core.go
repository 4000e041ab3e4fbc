package compiler

import (
	"math/big"

	"github.com/quint-lang/quint-core/internal/diag"
	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/value"
)

// compileApp dispatches an operator application to its opcode
// implementation, or to compileUserCall for a user-defined operator.
func compileApp(ctx *Context, a *ir.App, errs *diag.Bag) Computable {
	ref := int64(a.ID())

	switch a.Op {
	case "next":
		return compileNext(ctx, a, errs)
	case "assign":
		return compileAssign(ctx, a, errs)
	case "eq", "neq":
		return compileEq(ctx, a, errs)
	case "ite":
		return compileIte(ctx, a, errs)
	case "not":
		return compileNot(ctx, a, errs)
	case "iff":
		return compileIff(ctx, a, errs)
	case "implies":
		return compileImplies(ctx, a, errs)
	case "and":
		return compileAndOr(ctx, a, errs, true)
	case "or":
		return compileAndOr(ctx, a, errs, false)

	case "iuminus":
		return compileIntUnary(ctx, a, errs, func(x *big.Int) (*big.Int, string) {
			return new(big.Int).Neg(x), ""
		})
	case "iadd":
		return compileIntBinary(ctx, a, errs, func(x, y *big.Int) (*big.Int, string) {
			return new(big.Int).Add(x, y), ""
		})
	case "isub":
		return compileIntBinary(ctx, a, errs, func(x, y *big.Int) (*big.Int, string) {
			return new(big.Int).Sub(x, y), ""
		})
	case "imul":
		return compileIntBinary(ctx, a, errs, func(x, y *big.Int) (*big.Int, string) {
			return new(big.Int).Mul(x, y), ""
		})
	case "idiv":
		return compileIntBinary(ctx, a, errs, func(x, y *big.Int) (*big.Int, string) {
			if y.Sign() == 0 {
				return nil, "idiv: division by zero"
			}
			return new(big.Int).Quo(x, y), ""
		})
	case "imod":
		return compileIntBinary(ctx, a, errs, func(x, y *big.Int) (*big.Int, string) {
			if y.Sign() == 0 {
				return nil, "imod: modulo by zero"
			}
			return new(big.Int).Rem(x, y), ""
		})
	case "ipow":
		return compileIntBinary(ctx, a, errs, func(x, y *big.Int) (*big.Int, string) {
			if y.Sign() < 0 {
				return nil, "ipow: negative exponent"
			}
			if x.Sign() == 0 && y.Sign() == 0 {
				return nil, "ipow: 0^0 is undefined"
			}
			return new(big.Int).Exp(x, y, nil), ""
		})
	case "igt":
		return compileIntCompare(ctx, a, errs, func(c int) bool { return c > 0 })
	case "ilt":
		return compileIntCompare(ctx, a, errs, func(c int) bool { return c < 0 })
	case "igte":
		return compileIntCompare(ctx, a, errs, func(c int) bool { return c >= 0 })
	case "ilte":
		return compileIntCompare(ctx, a, errs, func(c int) bool { return c <= 0 })

	case "__infiniteInt":
		return Const(value.IntSetMarker)
	case "__infiniteNat":
		return Const(value.NatSetMarker)
	}

	return compileCollectionOrActionOpcode(ctx, a, errs, ref)
}

func nameArg(a *ir.App, i int) (string, bool) {
	if i >= len(a.Args) {
		return "", false
	}
	n, ok := a.Args[i].(*ir.Name)
	if !ok {
		return "", false
	}
	return n.Ident, true
}

func compileArgList(ctx *Context, args []ir.Expression, errs *diag.Bag) []Computable {
	out := make([]Computable, len(args))
	for i, a := range args {
		out[i] = compileExpr(ctx, a, errs)
	}
	return out
}

func compileNext(ctx *Context, a *ir.App, errs *diag.Bag) Computable {
	ref := int64(a.ID())
	name, ok := nameArg(a, 0)
	if !ok {
		errs.AddCompile("E_BAD_ARITY", "next(x) expects a variable name", ref)
		return failingComputable(ref, "next: malformed argument")
	}
	reg, ok := ctx.LookupNextVar(name)
	if !ok {
		errs.AddCompile("E_UNBOUND_NAME", "next: '"+name+"' is not a declared variable", ref)
		return failingComputable(ref, "next: '%s' is not a declared variable", name)
	}
	return RegisterRead(reg)
}

func compileAssign(ctx *Context, a *ir.App, errs *diag.Bag) Computable {
	ref := int64(a.ID())
	name, ok := nameArg(a, 0)
	if !ok || len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "assign(x, e) expects a variable name and an expression", ref)
		return failingComputable(ref, "assign: malformed arguments")
	}
	reg, ok := ctx.LookupNextVar(name)
	if !ok {
		errs.AddCompile("E_UNBOUND_NAME", "assign: '"+name+"' is not a declared variable", ref)
		return failingComputable(ref, "assign: '%s' is not a declared variable", name)
	}
	rhs := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		v, ok := rhs.Eval(rt)
		if !ok {
			return nil, false
		}
		reg.Set(v)
		return value.NewBool(true), true
	})
}

func compileEq(ctx *Context, a *ir.App, errs *diag.Bag) Computable {
	ref := int64(a.ID())
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects two operands", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	l := compileExpr(ctx, a.Args[0], errs)
	r := compileExpr(ctx, a.Args[1], errs)
	negate := a.Op == "neq"
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		rv, ok := r.Eval(rt)
		if !ok {
			return nil, false
		}
		eq := value.Equals(lv, rv)
		if negate {
			eq = !eq
		}
		return value.NewBool(eq), true
	})
}

// compileIte compiles both branches once, at compile time, but each
// Eval call evaluates only the chosen branch — the "t/e NOT
// pre-evaluated" rule is about evaluation order, not compilation.
func compileIte(ctx *Context, a *ir.App, errs *diag.Bag) Computable {
	ref := int64(a.ID())
	if len(a.Args) < 3 {
		errs.AddCompile("E_BAD_ARITY", "ite(c,t,e) expects three operands", ref)
		return failingComputable(ref, "ite: malformed arguments")
	}
	c := compileExpr(ctx, a.Args[0], errs)
	t := compileExpr(ctx, a.Args[1], errs)
	e := compileExpr(ctx, a.Args[2], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		cv, ok := c.Eval(rt)
		if !ok {
			return nil, false
		}
		b, err := value.ToBool(cv)
		if err != nil {
			return rt.Fail(ref, "ite: condition is not boolean")
		}
		if b {
			return t.Eval(rt)
		}
		return e.Eval(rt)
	})
}

func compileNot(ctx *Context, a *ir.App, errs *diag.Bag) Computable {
	ref := int64(a.ID())
	if len(a.Args) < 1 {
		errs.AddCompile("E_BAD_ARITY", "not(x) expects one operand", ref)
		return failingComputable(ref, "not: malformed arguments")
	}
	x := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		v, ok := x.Eval(rt)
		if !ok {
			return nil, false
		}
		b, err := value.ToBool(v)
		if err != nil {
			return rt.Fail(ref, "not: operand is not boolean")
		}
		return value.NewBool(!b), true
	})
}

func compileIff(ctx *Context, a *ir.App, errs *diag.Bag) Computable {
	ref := int64(a.ID())
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "iff expects two operands", ref)
		return failingComputable(ref, "iff: malformed arguments")
	}
	l := compileExpr(ctx, a.Args[0], errs)
	r := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		rv, ok := r.Eval(rt)
		if !ok {
			return nil, false
		}
		lb, err := value.ToBool(lv)
		if err != nil {
			return rt.Fail(ref, "iff: left operand is not boolean")
		}
		rb, err := value.ToBool(rv)
		if err != nil {
			return rt.Fail(ref, "iff: right operand is not boolean")
		}
		return value.NewBool(lb == rb), true
	})
}

func compileImplies(ctx *Context, a *ir.App, errs *diag.Bag) Computable {
	ref := int64(a.ID())
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "implies expects two operands", ref)
		return failingComputable(ref, "implies: malformed arguments")
	}
	l := compileExpr(ctx, a.Args[0], errs)
	r := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		lb, err := value.ToBool(lv)
		if err != nil {
			return rt.Fail(ref, "implies: left operand is not boolean")
		}
		if !lb {
			return value.NewBool(true), true
		}
		rv, ok := r.Eval(rt)
		if !ok {
			return nil, false
		}
		rb, err := value.ToBool(rv)
		if err != nil {
			return rt.Fail(ref, "implies: right operand is not boolean")
		}
		return value.NewBool(rb), true
	})
}

// compileAndOr implements the brace-list short-circuit boolean
// combinators. Failure of an operand is coerced to the identity element
// of the combinator (false for both `and` and `or`) rather than
// propagated, per spec.md §7's coercion rule.
func compileAndOr(ctx *Context, a *ir.App, errs *diag.Bag, isAnd bool) Computable {
	ops := compileArgList(ctx, a.Args, errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		for _, op := range ops {
			b := false
			if v, ok := op.Eval(rt); ok {
				if bb, err := value.ToBool(v); err == nil {
					b = bb
				}
			}
			if isAnd && !b {
				return value.NewBool(false), true
			}
			if !isAnd && b {
				return value.NewBool(true), true
			}
		}
		return value.NewBool(isAnd), true
	})
}

func compileIntUnary(ctx *Context, a *ir.App, errs *diag.Bag, op func(*big.Int) (*big.Int, string)) Computable {
	ref := int64(a.ID())
	if len(a.Args) < 1 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects one operand", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	x := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		xv, ok := x.Eval(rt)
		if !ok {
			return nil, false
		}
		xi, err := value.ToInt(xv)
		if err != nil {
			return rt.Fail(ref, "%s: operand is not an integer", a.Op)
		}
		res, errMsg := op(xi.V)
		if errMsg != "" {
			return rt.Fail(ref, "%s", errMsg)
		}
		return value.NewInt(res), true
	})
}

func compileIntBinary(ctx *Context, a *ir.App, errs *diag.Bag, op func(x, y *big.Int) (*big.Int, string)) Computable {
	ref := int64(a.ID())
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects two operands", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	l := compileExpr(ctx, a.Args[0], errs)
	r := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		rv, ok := r.Eval(rt)
		if !ok {
			return nil, false
		}
		li, err := value.ToInt(lv)
		if err != nil {
			return rt.Fail(ref, "%s: left operand is not an integer", a.Op)
		}
		ri, err := value.ToInt(rv)
		if err != nil {
			return rt.Fail(ref, "%s: right operand is not an integer", a.Op)
		}
		res, errMsg := op(li.V, ri.V)
		if errMsg != "" {
			return rt.Fail(ref, "%s", errMsg)
		}
		return value.NewInt(res), true
	})
}

func compileIntCompare(ctx *Context, a *ir.App, errs *diag.Bag, ok func(cmp int) bool) Computable {
	ref := int64(a.ID())
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects two operands", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	l := compileExpr(ctx, a.Args[0], errs)
	r := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, valid := l.Eval(rt)
		if !valid {
			return nil, false
		}
		rv, valid := r.Eval(rt)
		if !valid {
			return nil, false
		}
		li, err := value.ToInt(lv)
		if err != nil {
			return rt.Fail(ref, "%s: left operand is not an integer", a.Op)
		}
		ri, err := value.ToInt(rv)
		if err != nil {
			return rt.Fail(ref, "%s: right operand is not an integer", a.Op)
		}
		return value.NewBool(ok(li.Cmp(ri))), true
	})
}
