// Package ir implements the intermediate representation Quint modules
// are lowered to before name resolution and compilation: expressions,
// definitions, types, a scope tree, and a per-module definition table.
// Parsing is out of scope for this package — it only ever consumes an
// already-built tree.
package ir

// NodeID is a non-negative integer, unique within a single parse. It
// indexes the scope tree and is attached to every diagnostic so an
// embedding layer can map it back to a source location.
type NodeID int64

// Node is the base interface implemented by every IR expression,
// definition, and type node.
type Node interface {
	ID() NodeID
	Module() string
}

// Expression is a Node that produces a value when evaluated.
type Expression interface {
	Node
	isExpression()
}

// Definition is a Node that introduces a name (or records an assumption)
// at module scope or within an enclosing scope.
type Definition interface {
	Node
	isDefinition()
}

// Qualifier is the operator-definition qualifier of spec.md §3.
type Qualifier uint8

const (
	QualVal Qualifier = iota
	QualDef
	QualPureVal
	QualPureDef
	QualAction
	QualRun
	QualTemporal
)

func (q Qualifier) String() string {
	switch q {
	case QualVal:
		return "val"
	case QualDef:
		return "def"
	case QualPureVal:
		return "pure val"
	case QualPureDef:
		return "pure def"
	case QualAction:
		return "action"
	case QualRun:
		return "run"
	case QualTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// StateIndependent reports whether the qualifier promises the operator
// never reads mutable state (the "pure" qualifiers).
func (q Qualifier) StateIndependent() bool {
	return q == QualPureVal || q == QualPureDef
}

// MutatesState reports whether the qualifier may write to next-state
// registers.
func (q Qualifier) MutatesState() bool {
	return q == QualAction || q == QualRun
}

// base carries the fields common to every node.
type base struct {
	id  NodeID
	mod string
}

func (b base) ID() NodeID     { return b.id }
func (b base) Module() string { return b.mod }
