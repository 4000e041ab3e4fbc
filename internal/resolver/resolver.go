// Package resolver implements the name resolver of spec.md §4.3: a
// single visitor pass that verifies every name and operator-application
// reference resolves in some enclosing scope, aggregating every error
// it finds rather than stopping at the first one.
package resolver

import "github.com/quint-lang/quint-core/internal/ir"

// ErrorKind distinguishes a value-name error from a type-name error.
type ErrorKind uint8

const (
	KindValue ErrorKind = iota
	KindType
)

// NameError is one unresolved reference.
type NameError struct {
	Kind           ErrorKind
	Name           string
	DefinitionName string // the enclosing definition's name, for error attribution
	ModuleName     string
	ReferenceID    ir.NodeID
}

// isBuiltinOpcode reports whether op names a built-in opcode rather than
// a user-defined operator, per the opcode table of spec.md §4.4. The
// resolver never flags opcodes as unresolved names — arity/shape checks
// for them belong to the compiler, per spec.md §7.
func isBuiltinOpcode(op string) bool {
	_, ok := opcodes[op]
	return ok
}

// opcodes is the recognized opcode set. Kept here (rather than in the
// compiler) because the resolver must not flag these as undefined
// user-level names.
var opcodes = map[string]bool{
	"next": true, "assign": true, "eq": true, "neq": true, "ite": true,
	"not": true, "iff": true, "implies": true, "and": true, "or": true,
	"actionAll": true, "actionAny": true, "then": true, "repeated": true,
	"iuminus": true, "iadd": true, "isub": true, "imul": true, "idiv": true,
	"imod": true, "ipow": true, "igt": true, "ilt": true, "igte": true, "ilte": true,
	"Tup": true, "item": true, "tuples": true, "List": true, "range": true,
	"nth": true, "replaceAt": true, "head": true, "tail": true, "slice": true,
	"length": true, "append": true, "concat": true, "indices": true,
	"Rec": true, "field": true, "with": true, "fieldNames": true,
	"Set": true, "powerset": true, "contains": true, "in": true, "subseteq": true,
	"union": true, "intersect": true, "exclude": true, "size": true, "isFinite": true,
	"to": true, "Map": true, "setToMap": true, "setOfMaps": true,
	"get": true, "set": true, "setBy": true, "put": true, "keys": true,
	"fold": true, "foldl": true, "foldr": true, "exists": true, "forall": true,
	"map": true, "filter": true, "select": true, "mapBy": true, "oneOf": true,
	"assert": true, "fail": true, "_test": true,
	"__infiniteInt": true, "__infiniteNat": true,
}

// Resolve walks mod and returns every unresolved name/type reference.
// It never stops at the first error: all diagnostics from the pass are
// aggregated and returned together.
func Resolve(mod *ir.Module, tables *ir.DefTables, scopes *ir.ScopeTree) []NameError {
	var errs []NameError
	var defNameStack []string
	var moduleStack []string

	currentDefName := func() string {
		if len(defNameStack) == 0 {
			return ""
		}
		return defNameStack[len(defNameStack)-1]
	}
	currentModule := func() string {
		if len(moduleStack) == 0 {
			return mod.Name
		}
		return moduleStack[len(moduleStack)-1]
	}

	enter := func(n ir.Node) {
		switch node := n.(type) {
		case *ir.OpDef:
			defNameStack = append(defNameStack, node.Name)
		case *ir.VarDecl:
			defNameStack = append(defNameStack, node.Name)
		case *ir.ConstDecl:
			defNameStack = append(defNameStack, node.Name)
		case *ir.Instance:
			moduleStack = append(moduleStack, node.ModuleName)
		case *ir.Name:
			if _, ok := tables.ResolveValue(node.Ident, scopes, node.ID()); !ok {
				errs = append(errs, NameError{
					Kind:           KindValue,
					Name:           node.Ident,
					DefinitionName: currentDefName(),
					ModuleName:     currentModule(),
					ReferenceID:    node.ID(),
				})
			}
		case *ir.App:
			if !isBuiltinOpcode(node.Op) {
				if _, ok := tables.ResolveValue(node.Op, scopes, node.ID()); !ok {
					errs = append(errs, NameError{
						Kind:           KindValue,
						Name:           node.Op,
						DefinitionName: currentDefName(),
						ModuleName:     currentModule(),
						ReferenceID:    node.ID(),
					})
				}
			}
		case *ir.NamedType:
			if _, ok := tables.ResolveType(node.Name); !ok {
				errs = append(errs, NameError{
					Kind:           KindType,
					Name:           node.Name,
					DefinitionName: currentDefName(),
					ModuleName:     currentModule(),
					ReferenceID:    node.ID(),
				})
			}
		}
	}

	exit := func(n ir.Node) {
		switch n.(type) {
		case *ir.OpDef, *ir.VarDecl, *ir.ConstDecl:
			if len(defNameStack) > 0 {
				defNameStack = defNameStack[:len(defNameStack)-1]
			}
		case *ir.Instance:
			if len(moduleStack) > 0 {
				moduleStack = moduleStack[:len(moduleStack)-1]
			}
		}
	}

	ir.WalkModule(mod, enter, exit)
	return errs
}
