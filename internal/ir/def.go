package ir

// OpDef is an operator definition: val, def, pure val, pure def,
// action, run, or temporal.
type OpDef struct {
	base
	Qualifier  Qualifier
	Name       string
	Params     []string
	ParamIDs   []NodeID
	ReturnType Type
	Body       Expression
}

func NewOpDef(id NodeID, mod string, q Qualifier, name string, params []string, paramIDs []NodeID, ret Type, body Expression) *OpDef {
	return &OpDef{base: base{id, mod}, Qualifier: q, Name: name, Params: params, ParamIDs: paramIDs, ReturnType: ret, Body: body}
}

func (d *OpDef) isDefinition() {}

// VarDecl declares a state variable.
type VarDecl struct {
	base
	Name    string
	VarType Type
}

func NewVarDecl(id NodeID, mod, name string, t Type) *VarDecl {
	return &VarDecl{base: base{id, mod}, Name: name, VarType: t}
}

func (d *VarDecl) isDefinition() {}

// ConstDecl declares a constant resolved against a user-supplied
// environment at compile time.
type ConstDecl struct {
	base
	Name      string
	ConstType Type
}

func NewConstDecl(id NodeID, mod, name string, t Type) *ConstDecl {
	return &ConstDecl{base: base{id, mod}, Name: name, ConstType: t}
}

func (d *ConstDecl) isDefinition() {}

// Assume records a module-level assumption about constants.
type Assume struct {
	base
	Name string
	Pred Expression
}

func NewAssume(id NodeID, mod, name string, pred Expression) *Assume {
	return &Assume{base: base{id, mod}, Name: name, Pred: pred}
}

func (d *Assume) isDefinition() {}

// TypeDef binds a name to a type. Type definitions are always
// module-global, per spec.md §4.3.
type TypeDef struct {
	base
	Name string
	Def  Type
}

func NewTypeDef(id NodeID, mod, name string, def Type) *TypeDef {
	return &TypeDef{base: base{id, mod}, Name: name, Def: def}
}

func (d *TypeDef) isDefinition() {}

// ShadowDecl declares a simulator-bookkeeping register (e.g.
// _lastTrace), kind "shadow" per spec.md §3.
type ShadowDecl struct {
	base
	Name string
}

func NewShadowDecl(id NodeID, mod, name string) *ShadowDecl {
	return &ShadowDecl{base: base{id, mod}, Name: name}
}

func (d *ShadowDecl) isDefinition() {}

// Import brings another module's definitions into scope.
type Import struct {
	base
	ModuleName string
	Alias      string
}

func NewImport(id NodeID, mod, moduleName, alias string) *Import {
	return &Import{base: base{id, mod}, ModuleName: moduleName, Alias: alias}
}

func (d *Import) isDefinition() {}

// Instance instantiates a module with concrete arguments bound to its
// declared constants.
type Instance struct {
	base
	ModuleName string
	Alias      string
	Args       map[string]Expression
}

func NewInstance(id NodeID, mod, moduleName, alias string, args map[string]Expression) *Instance {
	return &Instance{base: base{id, mod}, ModuleName: moduleName, Alias: alias, Args: args}
}

func (d *Instance) isDefinition() {}

// Module is the root IR node: a name and its ordered list of top-level
// definitions.
type Module struct {
	base
	Name string
	Defs []Definition
}

func NewModule(id NodeID, name string, defs []Definition) *Module {
	return &Module{base: base{id, name}, Name: name, Defs: defs}
}
