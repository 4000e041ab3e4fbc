package ir

// Synthetic node ids for the built-in environment of spec.md §6. They
// are negative so they never collide with ids assigned to real parsed
// nodes (which are always non-negative).
const (
	BuiltinModuleName = "$builtin"

	IDBoolDef        NodeID = -1
	IDBoolTrueLit    NodeID = -2
	IDBoolFalseLit   NodeID = -3
	IDBoolSetApp     NodeID = -4
	IDIntDef         NodeID = -5
	IDNatDef         NodeID = -6
	IDLastTraceDecl  NodeID = -7
)

// BuiltinNames are the identifiers pre-registered in every compiled
// module's context, per spec.md §6.
const (
	BuiltinBool       = "Bool"
	BuiltinInt        = "Int"
	BuiltinNat        = "Nat"
	BuiltinLastTrace  = "_lastTrace"
)

// BuiltinDefs returns the prelude scope's operator definitions — Bool,
// Int and Nat — expressed as ordinary ir.Definition nodes with
// module-global scope, so the resolver and compiler need no
// special-cased handling for them beyond seeding the definition table
// and context with these entries first. The _lastTrace shadow is not
// among them: it comes from BuiltinShadowDecl and BuiltinDefTables.
func BuiltinDefs() []Definition {
	boolSet := NewApp(IDBoolSetApp, BuiltinModuleName, "Set",
		NewBoolLiteral(IDBoolFalseLit, BuiltinModuleName, false),
		NewBoolLiteral(IDBoolTrueLit, BuiltinModuleName, true),
	)
	return []Definition{
		NewOpDef(IDBoolDef, BuiltinModuleName, QualPureVal, BuiltinBool, nil, nil, nil, boolSet),
		NewOpDef(IDIntDef, BuiltinModuleName, QualPureVal, BuiltinInt, nil, nil, nil,
			NewApp(IDIntDef, BuiltinModuleName, "__infiniteInt")),
		NewOpDef(IDNatDef, BuiltinModuleName, QualPureVal, BuiltinNat, nil, nil, nil,
			NewApp(IDNatDef, BuiltinModuleName, "__infiniteNat")),
	}
}

// BuiltinDefTables returns definition-table entries for the prelude,
// ready to be prepended to a module's own Build(mod) result.
func BuiltinDefTables() *DefTables {
	t := NewDefTables()
	for _, d := range BuiltinDefs() {
		if op, ok := d.(*OpDef); ok {
			t.Values = append(t.Values, ValueDef{Identifier: op.Name, Scope: nil, Source: op.ID()})
		}
	}
	t.Values = append(t.Values, ValueDef{Identifier: BuiltinLastTrace, Scope: nil, Source: IDLastTraceDecl})
	return t
}

// BuiltinShadowDecl is the _lastTrace shadow declaration.
func BuiltinShadowDecl() *ShadowDecl {
	return NewShadowDecl(IDLastTraceDecl, BuiltinModuleName, BuiltinLastTrace)
}
