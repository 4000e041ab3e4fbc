package compiler

import (
	"github.com/quint-lang/quint-core/internal/diag"
	"github.com/quint-lang/quint-core/internal/ir"
	"github.com/quint-lang/quint-core/internal/value"
)

// compileCollectionOrActionOpcode handles every opcode not already
// dispatched in compileApp: tuple/list/record/set/map construction and
// access, the higher-order combinators, and (falling through to
// compileActionOpcode) the action/simulation opcodes and user-defined
// calls.
func compileCollectionOrActionOpcode(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	switch a.Op {
	case "Tup":
		ops := compileArgList(ctx, a.Args, errs)
		return Func(func(rt *Runtime) (value.Value, bool) {
			elems, ok := evalAll(rt, ops)
			if !ok {
				return nil, false
			}
			return value.NewTuple(elems...), true
		})

	case "item":
		return compileTupleItem(ctx, a, errs, ref)

	case "tuples":
		sets := compileArgList(ctx, a.Args, errs)
		return Func(func(rt *Runtime) (value.Value, bool) {
			factors := make([]value.Set, len(sets))
			for i, s := range sets {
				v, ok := s.Eval(rt)
				if !ok {
					return nil, false
				}
				sv, err := value.ToSet(v)
				if err != nil {
					return rt.Fail(ref, "tuples: operand %d is not a set", i)
				}
				factors[i] = sv
			}
			return value.NewProductSet(factors...), true
		})

	case "List":
		ops := compileArgList(ctx, a.Args, errs)
		return Func(func(rt *Runtime) (value.Value, bool) {
			elems, ok := evalAll(rt, ops)
			if !ok {
				return nil, false
			}
			return value.NewList(elems...), true
		})

	case "range":
		return compileRange(ctx, a, errs, ref)
	case "nth":
		return compileNth(ctx, a, errs, ref)
	case "replaceAt":
		return compileReplaceAt(ctx, a, errs, ref)
	case "head":
		return compileHeadTail(ctx, a, errs, ref, true)
	case "tail":
		return compileHeadTail(ctx, a, errs, ref, false)
	case "slice":
		return compileSlice(ctx, a, errs, ref)
	case "length":
		return compileListLength(ctx, a, errs, ref)
	case "append":
		return compileAppend(ctx, a, errs, ref)
	case "concat":
		return compileConcat(ctx, a, errs, ref)
	case "indices":
		return compileIndices(ctx, a, errs, ref)

	case "Rec":
		return compileRec(ctx, a, errs, ref)
	case "field":
		return compileField(ctx, a, errs, ref)
	case "with":
		return compileWith(ctx, a, errs, ref)
	case "fieldNames":
		return compileFieldNames(ctx, a, errs, ref)

	case "Set":
		ops := compileArgList(ctx, a.Args, errs)
		return Func(func(rt *Runtime) (value.Value, bool) {
			elems, ok := evalAll(rt, ops)
			if !ok {
				return nil, false
			}
			return value.NewExplicitSet(elems...), true
		})
	case "powerset":
		return compileSetUnary(ctx, a, errs, ref, func(rt *Runtime, s value.Set) (value.Value, bool) {
			return value.NewPowerSet(s), true
		})
	case "contains", "in":
		return compileSetContains(ctx, a, errs, ref)
	case "subseteq":
		return compileSetPair(ctx, a, errs, ref, func(rt *Runtime, a, b value.Set) (value.Value, bool) {
			ok, err := value.IsSubset(a, b)
			if err != nil {
				return rt.Fail(ref, "subseteq: %s", err)
			}
			return value.NewBool(ok), true
		})
	case "union":
		return compileSetPair(ctx, a, errs, ref, func(rt *Runtime, a, b value.Set) (value.Value, bool) {
			u, err := value.Union(a, b)
			if err != nil {
				return rt.Fail(ref, "union: %s", err)
			}
			return u, true
		})
	case "intersect":
		return compileSetPair(ctx, a, errs, ref, func(rt *Runtime, a, b value.Set) (value.Value, bool) {
			u, err := value.Intersect(a, b)
			if err != nil {
				return rt.Fail(ref, "intersect: %s", err)
			}
			return u, true
		})
	case "exclude":
		return compileSetPair(ctx, a, errs, ref, func(rt *Runtime, a, b value.Set) (value.Value, bool) {
			u, err := value.Subtract(a, b)
			if err != nil {
				return rt.Fail(ref, "exclude: %s", err)
			}
			return u, true
		})
	case "size":
		return compileSetUnary(ctx, a, errs, ref, func(rt *Runtime, s value.Set) (value.Value, bool) {
			n, err := s.Cardinality()
			if err != nil {
				return rt.Fail(ref, "size: %s", err)
			}
			return value.NewIntFromInt64(int64(n)), true
		})
	case "isFinite":
		// Always true for any constructible value in this core.
		x := compileExpr(ctx, a.Args[0], errs)
		return Func(func(rt *Runtime) (value.Value, bool) {
			if _, ok := x.Eval(rt); !ok {
				return nil, false
			}
			return value.NewBool(true), true
		})

	case "to":
		return compileTo(ctx, a, errs, ref)

	case "Map":
		return compileMap(ctx, a, errs, ref)
	case "setToMap":
		return compileSetUnary(ctx, a, errs, ref, func(rt *Runtime, s value.Set) (value.Value, bool) {
			m, err := value.SetToMap(s)
			if err != nil {
				return rt.Fail(ref, "setToMap: %s", err)
			}
			return m, true
		})
	case "setOfMaps":
		return compileSetPair(ctx, a, errs, ref, func(rt *Runtime, d, r value.Set) (value.Value, bool) {
			return value.NewMapSpace(d, r), true
		})
	case "get":
		return compileMapGet(ctx, a, errs, ref)
	case "set":
		return compileMapSet(ctx, a, errs, ref)
	case "setBy":
		return compileMapSetBy(ctx, a, errs, ref)
	case "put":
		return compileMapPut(ctx, a, errs, ref)
	case "keys":
		return compileMapKeys(ctx, a, errs, ref)

	case "fold", "foldl":
		return compileFold(ctx, a, errs, ref, false)
	case "foldr":
		return compileFold(ctx, a, errs, ref, true)
	case "exists":
		return compileExistsForall(ctx, a, errs, ref, true)
	case "forall":
		return compileExistsForall(ctx, a, errs, ref, false)
	case "map":
		return compileMapOp(ctx, a, errs, ref)
	case "filter":
		return compileFilterOp(ctx, a, errs, ref, false)
	case "select":
		return compileFilterOp(ctx, a, errs, ref, true)
	case "mapBy":
		return compileMapByOp(ctx, a, errs, ref)
	}

	return compileActionOpcode(ctx, a, errs, ref)
}

func evalAll(rt *Runtime, ops []Computable) ([]value.Value, bool) {
	out := make([]value.Value, len(ops))
	for i, op := range ops {
		v, ok := op.Eval(rt)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func compileTupleItem(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "item(t,i) expects two operands", ref)
		return failingComputable(ref, "item: malformed arguments")
	}
	t := compileExpr(ctx, a.Args[0], errs)
	i := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		tv, ok := t.Eval(rt)
		if !ok {
			return nil, false
		}
		iv, ok := i.Eval(rt)
		if !ok {
			return nil, false
		}
		tt, err := value.ToTuple(tv)
		if err != nil {
			return rt.Fail(ref, "item: first operand is not a tuple")
		}
		ii, err := value.ToInt(iv)
		if err != nil {
			return rt.Fail(ref, "item: second operand is not an integer")
		}
		v, ok := tt.Item(int(ii.Int64()))
		if !ok {
			return rt.Fail(ref, "item: index %d out of bounds", ii.Int64())
		}
		return v, true
	})
}

func compileRange(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "range(a,b) expects two operands", ref)
		return failingComputable(ref, "range: malformed arguments")
	}
	lo := compileExpr(ctx, a.Args[0], errs)
	hi := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := lo.Eval(rt)
		if !ok {
			return nil, false
		}
		hv, ok := hi.Eval(rt)
		if !ok {
			return nil, false
		}
		li, err := value.ToInt(lv)
		if err != nil {
			return rt.Fail(ref, "range: first operand is not an integer")
		}
		hiI, err := value.ToInt(hv)
		if err != nil {
			return rt.Fail(ref, "range: second operand is not an integer")
		}
		l, err := value.Range(li.Int64(), hiI.Int64())
		if err != nil {
			return rt.Fail(ref, "%s", err)
		}
		return l, true
	})
}

func compileTo(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "to(a,b) expects two operands", ref)
		return failingComputable(ref, "to: malformed arguments")
	}
	lo := compileExpr(ctx, a.Args[0], errs)
	hi := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := lo.Eval(rt)
		if !ok {
			return nil, false
		}
		hv, ok := hi.Eval(rt)
		if !ok {
			return nil, false
		}
		li, err := value.ToInt(lv)
		if err != nil {
			return rt.Fail(ref, "to: first operand is not an integer")
		}
		hiI, err := value.ToInt(hv)
		if err != nil {
			return rt.Fail(ref, "to: second operand is not an integer")
		}
		return value.NewIntervalSet(li.Int64(), hiI.Int64()), true
	})
}

func compileNth(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "nth(l,i) expects two operands", ref)
		return failingComputable(ref, "nth: malformed arguments")
	}
	l := compileExpr(ctx, a.Args[0], errs)
	i := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		iv, ok := i.Eval(rt)
		if !ok {
			return nil, false
		}
		ll, err := value.ToList(lv)
		if err != nil {
			return rt.Fail(ref, "nth: first operand is not a list")
		}
		ii, err := value.ToInt(iv)
		if err != nil {
			return rt.Fail(ref, "nth: second operand is not an integer")
		}
		v, ok := ll.Nth(int(ii.Int64()))
		if !ok {
			return rt.Fail(ref, "nth: index %d out of bounds", ii.Int64())
		}
		return v, true
	})
}

func compileReplaceAt(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 3 {
		errs.AddCompile("E_BAD_ARITY", "replaceAt(l,i,v) expects three operands", ref)
		return failingComputable(ref, "replaceAt: malformed arguments")
	}
	l := compileExpr(ctx, a.Args[0], errs)
	i := compileExpr(ctx, a.Args[1], errs)
	v := compileExpr(ctx, a.Args[2], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		iv, ok := i.Eval(rt)
		if !ok {
			return nil, false
		}
		vv, ok := v.Eval(rt)
		if !ok {
			return nil, false
		}
		ll, err := value.ToList(lv)
		if err != nil {
			return rt.Fail(ref, "replaceAt: first operand is not a list")
		}
		ii, err := value.ToInt(iv)
		if err != nil {
			return rt.Fail(ref, "replaceAt: second operand is not an integer")
		}
		out, err := ll.ReplaceAt(int(ii.Int64()), vv)
		if err != nil {
			return rt.Fail(ref, "%s", err)
		}
		return out, true
	})
}

func compileHeadTail(ctx *Context, a *ir.App, errs *diag.Bag, ref int64, head bool) Computable {
	if len(a.Args) < 1 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects one operand", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	l := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		ll, err := value.ToList(lv)
		if err != nil {
			return rt.Fail(ref, "%s: operand is not a list", a.Op)
		}
		if head {
			v, ok := ll.Head()
			if !ok {
				return rt.Fail(ref, "head: empty list")
			}
			return v, true
		}
		tail, ok := ll.Tail()
		if !ok {
			return rt.Fail(ref, "tail: empty list")
		}
		return tail, true
	})
}

func compileSlice(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 3 {
		errs.AddCompile("E_BAD_ARITY", "slice(l,s,e) expects three operands", ref)
		return failingComputable(ref, "slice: malformed arguments")
	}
	l := compileExpr(ctx, a.Args[0], errs)
	s := compileExpr(ctx, a.Args[1], errs)
	e := compileExpr(ctx, a.Args[2], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		sv, ok := s.Eval(rt)
		if !ok {
			return nil, false
		}
		ev, ok := e.Eval(rt)
		if !ok {
			return nil, false
		}
		ll, err := value.ToList(lv)
		if err != nil {
			return rt.Fail(ref, "slice: first operand is not a list")
		}
		si, err := value.ToInt(sv)
		if err != nil {
			return rt.Fail(ref, "slice: second operand is not an integer")
		}
		ei, err := value.ToInt(ev)
		if err != nil {
			return rt.Fail(ref, "slice: third operand is not an integer")
		}
		out, err := ll.Slice(int(si.Int64()), int(ei.Int64()))
		if err != nil {
			return rt.Fail(ref, "%s", err)
		}
		return out, true
	})
}

func compileListLength(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	l := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		ll, err := value.ToList(lv)
		if err != nil {
			return rt.Fail(ref, "length: operand is not a list")
		}
		return value.NewIntFromInt64(int64(ll.Len())), true
	})
}

func compileAppend(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "append(l,v) expects two operands", ref)
		return failingComputable(ref, "append: malformed arguments")
	}
	l := compileExpr(ctx, a.Args[0], errs)
	v := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		vv, ok := v.Eval(rt)
		if !ok {
			return nil, false
		}
		ll, err := value.ToList(lv)
		if err != nil {
			return rt.Fail(ref, "append: first operand is not a list")
		}
		return ll.Append(vv), true
	})
}

func compileConcat(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "concat(l1,l2) expects two operands", ref)
		return failingComputable(ref, "concat: malformed arguments")
	}
	l1 := compileExpr(ctx, a.Args[0], errs)
	l2 := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		v1, ok := l1.Eval(rt)
		if !ok {
			return nil, false
		}
		v2, ok := l2.Eval(rt)
		if !ok {
			return nil, false
		}
		ll1, err := value.ToList(v1)
		if err != nil {
			return rt.Fail(ref, "concat: first operand is not a list")
		}
		ll2, err := value.ToList(v2)
		if err != nil {
			return rt.Fail(ref, "concat: second operand is not a list")
		}
		return ll1.Concat(ll2), true
	})
}

func compileIndices(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	l := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		lv, ok := l.Eval(rt)
		if !ok {
			return nil, false
		}
		ll, err := value.ToList(lv)
		if err != nil {
			return rt.Fail(ref, "indices: operand is not a list")
		}
		return ll.Indices(), true
	})
}

func compileRec(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args)%2 != 0 {
		errs.AddCompile("E_BAD_ARITY", "Rec(k1,v1,...) expects an even number of arguments", ref)
		return failingComputable(ref, "Rec: malformed arguments")
	}
	ops := compileArgList(ctx, a.Args, errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		fields := make(map[string]value.Value, len(ops)/2)
		for i := 0; i < len(ops); i += 2 {
			kv, ok := ops[i].Eval(rt)
			if !ok {
				return nil, false
			}
			vv, ok := ops[i+1].Eval(rt)
			if !ok {
				return nil, false
			}
			k, err := value.ToStr(kv)
			if err != nil {
				return rt.Fail(ref, "Rec: key is not a string")
			}
			fields[k] = vv
		}
		return value.NewRecord(fields), true
	})
}

func compileField(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "field(r,n) expects two operands", ref)
		return failingComputable(ref, "field: malformed arguments")
	}
	r := compileExpr(ctx, a.Args[0], errs)
	n := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		rv, ok := r.Eval(rt)
		if !ok {
			return nil, false
		}
		nv, ok := n.Eval(rt)
		if !ok {
			return nil, false
		}
		rr, err := value.ToRecord(rv)
		if err != nil {
			return rt.Fail(ref, "field: first operand is not a record")
		}
		fname, err := value.ToStr(nv)
		if err != nil {
			return rt.Fail(ref, "field: second operand is not a string")
		}
		v, ok := rr.Field(fname)
		if !ok {
			return rt.Fail(ref, "field: no field '%s'", fname)
		}
		return v, true
	})
}

func compileWith(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 3 {
		errs.AddCompile("E_BAD_ARITY", "with(r,n,v) expects three operands", ref)
		return failingComputable(ref, "with: malformed arguments")
	}
	r := compileExpr(ctx, a.Args[0], errs)
	n := compileExpr(ctx, a.Args[1], errs)
	v := compileExpr(ctx, a.Args[2], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		rv, ok := r.Eval(rt)
		if !ok {
			return nil, false
		}
		nv, ok := n.Eval(rt)
		if !ok {
			return nil, false
		}
		vv, ok := v.Eval(rt)
		if !ok {
			return nil, false
		}
		rr, err := value.ToRecord(rv)
		if err != nil {
			return rt.Fail(ref, "with: first operand is not a record")
		}
		fname, err := value.ToStr(nv)
		if err != nil {
			return rt.Fail(ref, "with: second operand is not a string")
		}
		if _, ok := rr.Field(fname); !ok {
			return rt.Fail(ref, "with: no field '%s'", fname)
		}
		return rr.With(fname, vv), true
	})
}

func compileFieldNames(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	r := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		rv, ok := r.Eval(rt)
		if !ok {
			return nil, false
		}
		rr, err := value.ToRecord(rv)
		if err != nil {
			return rt.Fail(ref, "fieldNames: operand is not a record")
		}
		return rr.FieldNames(), true
	})
}

func compileSetUnary(ctx *Context, a *ir.App, errs *diag.Bag, ref int64, f func(rt *Runtime, s value.Set) (value.Value, bool)) Computable {
	s := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		sv, ok := s.Eval(rt)
		if !ok {
			return nil, false
		}
		ss, err := value.ToSet(sv)
		if err != nil {
			return rt.Fail(ref, "%s: operand is not a set", a.Op)
		}
		return f(rt, ss)
	})
}

func compileSetPair(ctx *Context, a *ir.App, errs *diag.Bag, ref int64, f func(rt *Runtime, x, y value.Set) (value.Value, bool)) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects two operands", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	x := compileExpr(ctx, a.Args[0], errs)
	y := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		xv, ok := x.Eval(rt)
		if !ok {
			return nil, false
		}
		yv, ok := y.Eval(rt)
		if !ok {
			return nil, false
		}
		xs, err := value.ToSet(xv)
		if err != nil {
			return rt.Fail(ref, "%s: first operand is not a set", a.Op)
		}
		ys, err := value.ToSet(yv)
		if err != nil {
			return rt.Fail(ref, "%s: second operand is not a set", a.Op)
		}
		return f(rt, xs, ys)
	})
}

func compileSetContains(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects two operands", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	// `contains(S, x)` and `in(x, S)` both compile to the same
	// membership test with their operand order swapped.
	setFirst := a.Op == "contains"
	first := compileExpr(ctx, a.Args[0], errs)
	second := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		fv, ok := first.Eval(rt)
		if !ok {
			return nil, false
		}
		sv, ok := second.Eval(rt)
		if !ok {
			return nil, false
		}
		var setVal, elemVal value.Value
		if setFirst {
			setVal, elemVal = fv, sv
		} else {
			setVal, elemVal = sv, fv
		}
		s, err := value.ToSet(setVal)
		if err != nil {
			return rt.Fail(ref, "%s: operand is not a set", a.Op)
		}
		return value.NewBool(s.Contains(elemVal)), true
	})
}

func compileMap(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	ops := compileArgList(ctx, a.Args, errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		pairs := make([][2]value.Value, len(ops))
		for i, op := range ops {
			v, ok := op.Eval(rt)
			if !ok {
				return nil, false
			}
			t, err := value.ToTuple(v)
			if err != nil || len(t.Elems) != 2 {
				return rt.Fail(ref, "Map: entry %d is not a (key, value) pair", i)
			}
			pairs[i] = [2]value.Value{t.Elems[0], t.Elems[1]}
		}
		return value.NewMapFromPairs(pairs), true
	})
}

func compileMapGet(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	m := compileExpr(ctx, a.Args[0], errs)
	k := compileExpr(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		mv, ok := m.Eval(rt)
		if !ok {
			return nil, false
		}
		kv, ok := k.Eval(rt)
		if !ok {
			return nil, false
		}
		mm, err := value.ToMap(mv)
		if err != nil {
			return rt.Fail(ref, "get: first operand is not a map")
		}
		v, ok := mm.Get(kv)
		if !ok {
			return rt.Fail(ref, "get: key %s is not present", kv.Inspect())
		}
		return v, true
	})
}

func compileMapSet(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	m := compileExpr(ctx, a.Args[0], errs)
	k := compileExpr(ctx, a.Args[1], errs)
	v := compileExpr(ctx, a.Args[2], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		mv, ok := m.Eval(rt)
		if !ok {
			return nil, false
		}
		kv, ok := k.Eval(rt)
		if !ok {
			return nil, false
		}
		vv, ok := v.Eval(rt)
		if !ok {
			return nil, false
		}
		mm, err := value.ToMap(mv)
		if err != nil {
			return rt.Fail(ref, "set: first operand is not a map")
		}
		out, err := mm.Set(kv, vv)
		if err != nil {
			return rt.Fail(ref, "%s", err)
		}
		return out, true
	})
}

func compileMapSetBy(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	m := compileExpr(ctx, a.Args[0], errs)
	k := compileExpr(ctx, a.Args[1], errs)
	fn := compileCallableArg(ctx, a.Args[2], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		mv, ok := m.Eval(rt)
		if !ok {
			return nil, false
		}
		kv, ok := k.Eval(rt)
		if !ok {
			return nil, false
		}
		mm, err := value.ToMap(mv)
		if err != nil {
			return rt.Fail(ref, "setBy: first operand is not a map")
		}
		cur, ok := mm.Get(kv)
		if !ok {
			return rt.Fail(ref, "setBy: key %s is not present", kv.Inspect())
		}
		nv, ok := fn.Invoke(rt, ref, []value.Value{cur})
		if !ok {
			return nil, false
		}
		out, err := mm.Set(kv, nv)
		if err != nil {
			return rt.Fail(ref, "%s", err)
		}
		return out, true
	})
}

func compileMapPut(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	m := compileExpr(ctx, a.Args[0], errs)
	k := compileExpr(ctx, a.Args[1], errs)
	v := compileExpr(ctx, a.Args[2], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		mv, ok := m.Eval(rt)
		if !ok {
			return nil, false
		}
		kv, ok := k.Eval(rt)
		if !ok {
			return nil, false
		}
		vv, ok := v.Eval(rt)
		if !ok {
			return nil, false
		}
		mm, err := value.ToMap(mv)
		if err != nil {
			return rt.Fail(ref, "put: first operand is not a map")
		}
		return mm.Put(kv, vv), true
	})
}

func compileMapKeys(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	m := compileExpr(ctx, a.Args[0], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		mv, ok := m.Eval(rt)
		if !ok {
			return nil, false
		}
		mm, err := value.ToMap(mv)
		if err != nil {
			return rt.Fail(ref, "keys: operand is not a map")
		}
		return mm.Keys(), true
	})
}

// enumerableElems evaluates coll and returns its elements in a stable
// order: List elements as-is, Set elements via Enumerate.
func enumerableElems(rt *Runtime, ref int64, coll Computable) ([]value.Value, bool) {
	cv, ok := coll.Eval(rt)
	if !ok {
		return nil, false
	}
	switch c := cv.(type) {
	case value.List:
		return c.Elems(), true
	case value.Set:
		elems, err := c.Enumerate()
		if err != nil {
			rt.Fail(ref, "%s", err)
			return nil, false
		}
		return elems, true
	default:
		rt.Fail(ref, "expected a list or set")
		return nil, false
	}
}

func compileFold(ctx *Context, a *ir.App, errs *diag.Bag, ref int64, reverse bool) Computable {
	if len(a.Args) < 3 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects three operands", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	coll := compileExpr(ctx, a.Args[0], errs)
	init := compileExpr(ctx, a.Args[1], errs)
	fn := compileCallableArg(ctx, a.Args[2], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		elems, ok := enumerableElems(rt, ref, coll)
		if !ok {
			return nil, false
		}
		if reverse {
			rev := make([]value.Value, len(elems))
			for i, e := range elems {
				rev[len(elems)-1-i] = e
			}
			elems = rev
		}
		acc, ok := init.Eval(rt)
		if !ok {
			return nil, false
		}
		for _, e := range elems {
			var args []value.Value
			if reverse {
				args = []value.Value{e, acc}
			} else {
				args = []value.Value{acc, e}
			}
			next, ok := fn.Invoke(rt, ref, args)
			if !ok {
				return nil, false
			}
			acc = next
		}
		return acc, true
	})
}

func compileExistsForall(ctx *Context, a *ir.App, errs *diag.Bag, ref int64, isExists bool) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects two operands", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	coll := compileExpr(ctx, a.Args[0], errs)
	fn := compileCallableArg(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		elems, ok := enumerableElems(rt, ref, coll)
		if !ok {
			return nil, false
		}
		for _, e := range elems {
			v, ok := fn.Invoke(rt, ref, []value.Value{e})
			b := false
			if ok {
				bb, err := value.ToBool(v)
				if err == nil {
					b = bb
				}
			}
			if isExists && b {
				return value.NewBool(true), true
			}
			if !isExists && !b {
				return value.NewBool(false), true
			}
		}
		return value.NewBool(!isExists), true
	})
}

func compileMapOp(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "map(S,f) expects two operands", ref)
		return failingComputable(ref, "map: malformed arguments")
	}
	coll := compileExpr(ctx, a.Args[0], errs)
	fn := compileCallableArg(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		cv, ok := coll.Eval(rt)
		if !ok {
			return nil, false
		}
		switch c := cv.(type) {
		case value.List:
			out := make([]value.Value, c.Len())
			for i, e := range c.Elems() {
				v, ok := fn.Invoke(rt, ref, []value.Value{e})
				if !ok {
					return nil, false
				}
				out[i] = v
			}
			return value.NewList(out...), true
		case value.Set:
			elems, err := c.Enumerate()
			if err != nil {
				return rt.Fail(ref, "%s", err)
			}
			out := make([]value.Value, len(elems))
			for i, e := range elems {
				v, ok := fn.Invoke(rt, ref, []value.Value{e})
				if !ok {
					return nil, false
				}
				out[i] = v
			}
			return value.NewExplicitSet(out...), true
		default:
			return rt.Fail(ref, "map: first operand is not a list or set")
		}
	})
}

func compileFilterOp(ctx *Context, a *ir.App, errs *diag.Bag, ref int64, listVariant bool) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", a.Op+" expects two operands", ref)
		return failingComputable(ref, "%s: malformed arguments", a.Op)
	}
	coll := compileExpr(ctx, a.Args[0], errs)
	fn := compileCallableArg(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		cv, ok := coll.Eval(rt)
		if !ok {
			return nil, false
		}
		switch c := cv.(type) {
		case value.List:
			var out []value.Value
			for _, e := range c.Elems() {
				v, ok := fn.Invoke(rt, ref, []value.Value{e})
				if !ok {
					return nil, false
				}
				b, err := value.ToBool(v)
				if err == nil && b {
					out = append(out, e)
				}
			}
			return value.NewList(out...), true
		case value.Set:
			if listVariant {
				return rt.Fail(ref, "select: operand is not a list")
			}
			elems, err := c.Enumerate()
			if err != nil {
				return rt.Fail(ref, "%s", err)
			}
			var out []value.Value
			for _, e := range elems {
				v, ok := fn.Invoke(rt, ref, []value.Value{e})
				if !ok {
					return nil, false
				}
				b, err := value.ToBool(v)
				if err == nil && b {
					out = append(out, e)
				}
			}
			return value.NewExplicitSet(out...), true
		default:
			return rt.Fail(ref, "%s: unsupported operand", a.Op)
		}
	})
}

func compileMapByOp(ctx *Context, a *ir.App, errs *diag.Bag, ref int64) Computable {
	if len(a.Args) < 2 {
		errs.AddCompile("E_BAD_ARITY", "mapBy(S,f) expects two operands", ref)
		return failingComputable(ref, "mapBy: malformed arguments")
	}
	coll := compileExpr(ctx, a.Args[0], errs)
	fn := compileCallableArg(ctx, a.Args[1], errs)
	return Func(func(rt *Runtime) (value.Value, bool) {
		elems, ok := enumerableElems(rt, ref, coll)
		if !ok {
			return nil, false
		}
		m := value.NewMap()
		for _, e := range elems {
			v, ok := fn.Invoke(rt, ref, []value.Value{e})
			if !ok {
				return nil, false
			}
			m = m.Put(e, v)
		}
		return m, true
	})
}
