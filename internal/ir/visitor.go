package ir

// Walker performs a depth-first, source-order traversal of every
// expression, definition and type node reachable from a module, calling
// Enter/Exit around each node. It keeps no module stack; a caller that
// needs one (the resolver) tracks it in its own hooks.
type Walker struct {
	Enter func(n Node)
	Exit  func(n Node)
}

func (w *Walker) visit(n Node) {
	if n == nil {
		return
	}
	if w.Enter != nil {
		w.Enter(n)
	}
	switch node := n.(type) {
	case *Module:
		for _, d := range node.Defs {
			w.visit(d)
		}
	case *OpDef:
		w.visitType(node.ReturnType)
		w.visit(node.Body)
	case *VarDecl:
		w.visitType(node.VarType)
	case *ConstDecl:
		w.visitType(node.ConstType)
	case *TypeDef:
		w.visitType(node.Def)
	case *Assume:
		w.visit(node.Pred)
	case *Import:
		// leaf
	case *Instance:
		for _, arg := range node.Args {
			w.visit(arg)
		}
	case *Literal, *Name:
		// leaves
	case *App:
		for _, a := range node.Args {
			w.visit(a)
		}
	case *Lambda:
		w.visit(node.Body)
	case *Let:
		w.visit(node.Def)
		w.visit(node.Body)
	}
	if w.Exit != nil {
		w.Exit(n)
	}
}

func (w *Walker) visitType(t Type) {
	if t == nil {
		return
	}
	if w.Enter != nil {
		w.Enter(t)
	}
	switch tt := t.(type) {
	case *FuncType:
		for _, p := range tt.Params {
			w.visitType(p)
		}
		w.visitType(tt.Result)
	case *OperType:
		for _, p := range tt.Params {
			w.visitType(p)
		}
		w.visitType(tt.Result)
	case *SetType:
		w.visitType(tt.Elem)
	case *ListType:
		w.visitType(tt.Elem)
	case *TupleType:
		for _, e := range tt.Elems {
			w.visitType(e)
		}
	case *RecordType:
		for _, f := range tt.Fields {
			w.visitType(f)
		}
	case *UnionOfRecordsType:
		for _, v := range tt.Variants {
			w.visitType(v)
		}
	}
	if w.Exit != nil {
		w.Exit(t)
	}
}

// WalkModule walks every definition and expression in mod, in source
// order.
func WalkModule(mod *Module, enter, exit func(n Node)) {
	w := &Walker{Enter: enter, Exit: exit}
	w.visit(mod)
}
