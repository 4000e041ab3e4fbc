package ir

// ValueDef is one entry of the value-definition table: an identifier,
// an optional enclosing scope (nil means module-global), and the node
// id where it was introduced.
type ValueDef struct {
	Identifier string
	Scope      *NodeID
	Source     NodeID
}

// TypeDefEntry is one entry of the type-definition table. Type
// definitions are always module-global per spec.md §4.3, so Scope is
// always nil, but the field is kept for symmetry with ValueDef.
type TypeDefEntry struct {
	Identifier string
	Scope      *NodeID
	Source     NodeID
}

// DefTables holds a module's value- and type-definition tables.
type DefTables struct {
	Values []ValueDef
	Types  []TypeDefEntry
}

func NewDefTables() *DefTables {
	return &DefTables{}
}

func scopedID(id NodeID) *NodeID {
	v := id
	return &v
}

// ResolveValue returns the ValueDef whose Identifier matches name and
// whose Scope is either absent or contained in scopes, or false if none
// matches. When multiple definitions match, the last one added wins —
// definitions closer to a reference (added later during a depth-first
// build) shadow outer ones with the same name.
func (t *DefTables) ResolveValue(name string, tree *ScopeTree, refID NodeID) (ValueDef, bool) {
	scopes := tree.ScopesFor(refID)
	var found ValueDef
	ok := false
	for _, d := range t.Values {
		if d.Identifier != name {
			continue
		}
		if d.Scope == nil {
			found, ok = d, true
			continue
		}
		for _, s := range scopes {
			if *d.Scope == s {
				found, ok = d, true
				break
			}
		}
	}
	return found, ok
}

// ResolveType looks up name in the type-definition table. Type
// definitions are always module-global, so any entry whose Scope is nil
// (the only kind that can be built) always passes.
func (t *DefTables) ResolveType(name string) (TypeDefEntry, bool) {
	var found TypeDefEntry
	ok := false
	for _, d := range t.Types {
		if d.Identifier == name {
			found, ok = d, true
		}
	}
	return found, ok
}

// Build populates value- and type-definition tables by walking mod.
// Module-level definitions get an absent (module-global) scope;
// operator parameters and let-bound names get a scope equal to the
// enclosing OpDef/Lambda/Let node's id.
func Build(mod *Module) *DefTables {
	t := NewDefTables()
	var walk func(defs []Definition, scope *NodeID)
	var walkExpr func(e Expression, scope *NodeID)

	walkExpr = func(e Expression, scope *NodeID) {
		switch n := e.(type) {
		case *Lambda:
			for i, p := range n.Params {
				pid := n.ID()
				if i < len(n.ParamIDs) {
					pid = n.ParamIDs[i]
				}
				_ = pid
				t.Values = append(t.Values, ValueDef{Identifier: p, Scope: scopedID(n.ID()), Source: n.ID()})
			}
			walkExpr(n.Body, scopedID(n.ID()))
		case *Let:
			walk([]Definition{n.Def}, scopedID(n.ID()))
			walkExpr(n.Body, scopedID(n.ID()))
		case *App:
			for _, a := range n.Args {
				walkExpr(a, scope)
			}
		}
	}

	walk = func(defs []Definition, scope *NodeID) {
		for _, d := range defs {
			switch n := d.(type) {
			case *OpDef:
				t.Values = append(t.Values, ValueDef{Identifier: n.Name, Scope: scope, Source: n.ID()})
				for _, p := range n.Params {
					t.Values = append(t.Values, ValueDef{Identifier: p, Scope: scopedID(n.ID()), Source: n.ID()})
				}
				walkExpr(n.Body, scopedID(n.ID()))
			case *VarDecl:
				t.Values = append(t.Values, ValueDef{Identifier: n.Name, Scope: scope, Source: n.ID()})
			case *ConstDecl:
				t.Values = append(t.Values, ValueDef{Identifier: n.Name, Scope: scope, Source: n.ID()})
			case *Assume:
				walkExpr(n.Pred, scope)
			case *TypeDef:
				t.Types = append(t.Types, TypeDefEntry{Identifier: n.Name, Scope: nil, Source: n.ID()})
			case *Import:
				t.Values = append(t.Values, ValueDef{Identifier: n.Alias, Scope: scope, Source: n.ID()})
			case *Instance:
				t.Values = append(t.Values, ValueDef{Identifier: n.Alias, Scope: scope, Source: n.ID()})
				for _, arg := range n.Args {
					walkExpr(arg, scope)
				}
			}
		}
	}

	walk(mod.Defs, nil)
	return t
}
