package ir

import "math/big"

// LitKind identifies the shape of a Literal expression.
type LitKind uint8

const (
	LitBool LitKind = iota
	LitInt
	LitStr
)

// Literal is a boolean, integer, or string literal.
type Literal struct {
	base
	Kind    LitKind
	Bool    bool
	Int     *big.Int
	Str     string
}

func NewBoolLiteral(id NodeID, mod string, v bool) *Literal {
	return &Literal{base: base{id, mod}, Kind: LitBool, Bool: v}
}

func NewIntLiteral(id NodeID, mod string, v *big.Int) *Literal {
	return &Literal{base: base{id, mod}, Kind: LitInt, Int: v}
}

func NewStrLiteral(id NodeID, mod string, v string) *Literal {
	return &Literal{base: base{id, mod}, Kind: LitStr, Str: v}
}

func (l *Literal) isExpression() {}

// Name is a reference to a definition by identifier.
type Name struct {
	base
	Ident string
}

func NewName(id NodeID, mod, ident string) *Name { return &Name{base: base{id, mod}, Ident: ident} }

func (n *Name) isExpression() {}

// App is an operator application: opcode or user-defined name, plus its
// argument expressions in source order.
type App struct {
	base
	Op   string
	Args []Expression
}

func NewApp(id NodeID, mod, op string, args ...Expression) *App {
	return &App{base: base{id, mod}, Op: op, Args: args}
}

func (a *App) isExpression() {}

// Lambda introduces one fresh binding per parameter before its body is
// evaluated.
type Lambda struct {
	base
	Params   []string
	ParamIDs []NodeID // synthetic node ids naming each parameter's binding site
	Body     Expression
}

func NewLambda(id NodeID, mod string, params []string, paramIDs []NodeID, body Expression) *Lambda {
	return &Lambda{base: base{id, mod}, Params: params, ParamIDs: paramIDs, Body: body}
}

func (l *Lambda) isExpression() {}

// Let compiles an operator definition then evaluates Body with that
// definition in scope.
type Let struct {
	base
	Def  *OpDef
	Body Expression
}

func NewLet(id NodeID, mod string, def *OpDef, body Expression) *Let {
	return &Let{base: base{id, mod}, Def: def, Body: body}
}

func (l *Let) isExpression() {}
