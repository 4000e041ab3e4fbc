package ir

// Type is the closed interface for the type nodes named in spec.md §6:
// int, str, bool, named, var, function, operator, set, list, tuple,
// record, union-of-records. The type checker itself is out of scope;
// these nodes exist only so the IR and resolver have somewhere to point
// a "type name reference" at.
type Type interface {
	Node
	isType()
}

type IntType struct{ base }

func NewIntType(id NodeID, mod string) *IntType { return &IntType{base{id, mod}} }
func (t *IntType) isType() {}

type StrType struct{ base }

func NewStrType(id NodeID, mod string) *StrType { return &StrType{base{id, mod}} }
func (t *StrType) isType() {}

type BoolType struct{ base }

func NewBoolType(id NodeID, mod string) *BoolType { return &BoolType{base{id, mod}} }
func (t *BoolType) isType() {}

// NamedType references a user- or built-in-defined type by name (e.g. a
// type alias, or Bool/Int/Nat treated as named sets).
type NamedType struct {
	base
	Name string
}

func NewNamedType(id NodeID, mod, name string) *NamedType {
	return &NamedType{base: base{id, mod}, Name: name}
}
func (t *NamedType) isType() {}

// VarType is a type variable.
type VarType struct {
	base
	Name string
}

func NewVarType(id NodeID, mod, name string) *VarType {
	return &VarType{base: base{id, mod}, Name: name}
}
func (t *VarType) isType() {}

// FuncType is a function type: Params -> Result.
type FuncType struct {
	base
	Params []Type
	Result Type
}

func NewFuncType(id NodeID, mod string, params []Type, result Type) *FuncType {
	return &FuncType{base: base{id, mod}, Params: params, Result: result}
}
func (t *FuncType) isType() {}

// OperType is an operator type (parameterised, possibly higher order).
type OperType struct {
	base
	Params []Type
	Result Type
}

func NewOperType(id NodeID, mod string, params []Type, result Type) *OperType {
	return &OperType{base: base{id, mod}, Params: params, Result: result}
}
func (t *OperType) isType() {}

// SetType is the type of a set of Elem.
type SetType struct {
	base
	Elem Type
}

func NewSetType(id NodeID, mod string, elem Type) *SetType {
	return &SetType{base: base{id, mod}, Elem: elem}
}
func (t *SetType) isType() {}

// ListType is the type of a list of Elem.
type ListType struct {
	base
	Elem Type
}

func NewListType(id NodeID, mod string, elem Type) *ListType {
	return &ListType{base: base{id, mod}, Elem: elem}
}
func (t *ListType) isType() {}

// TupleType is the type of a fixed-length, heterogeneous tuple.
type TupleType struct {
	base
	Elems []Type
}

func NewTupleType(id NodeID, mod string, elems []Type) *TupleType {
	return &TupleType{base: base{id, mod}, Elems: elems}
}
func (t *TupleType) isType() {}

// RecordType is the type of a record with named fields.
type RecordType struct {
	base
	Fields map[string]Type
}

func NewRecordType(id NodeID, mod string, fields map[string]Type) *RecordType {
	return &RecordType{base: base{id, mod}, Fields: fields}
}
func (t *RecordType) isType() {}

// UnionOfRecordsType is a tagged union of record variants.
type UnionOfRecordsType struct {
	base
	Tag      string
	Variants map[string]*RecordType
}

func NewUnionOfRecordsType(id NodeID, mod, tag string, variants map[string]*RecordType) *UnionOfRecordsType {
	return &UnionOfRecordsType{base: base{id, mod}, Tag: tag, Variants: variants}
}
func (t *UnionOfRecordsType) isType() {}
