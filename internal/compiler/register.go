package compiler

import "github.com/quint-lang/quint-core/internal/value"

// RegisterKind is the register kind taxonomy of spec.md §3.
type RegisterKind uint8

const (
	RegVar RegisterKind = iota
	RegNextVar
	RegArg
	RegShadow
)

func (k RegisterKind) String() string {
	switch k {
	case RegVar:
		return "var"
	case RegNextVar:
		return "nextvar"
	case RegArg:
		return "arg"
	case RegShadow:
		return "shadow"
	default:
		return "unknown"
	}
}

// Register is a named mutable slot holding an optional value. Reading
// an unset register is a runtime error attributed to Decl, the node id
// where the register was declared.
type Register struct {
	Kind RegisterKind
	Name string
	Decl int64 // ir.NodeID of the declaration, stored as a plain int64
	val  value.Value
	ok   bool
}

func NewRegister(kind RegisterKind, name string, decl int64) *Register {
	return &Register{Kind: kind, Name: name, Decl: decl}
}

// Get returns the register's current value, or false if unset.
func (r *Register) Get() (value.Value, bool) { return r.val, r.ok }

// Set stores v and marks the register set. Values are persistent, so
// storing a reference is a safe, independent copy: nothing later
// mutates v in place.
func (r *Register) Set(v value.Value) { r.val, r.ok = v, true }

// Unset clears the register, as Shift does to each next-state register
// after copying it into its current-state register. Callable.Invoke does
// not use it: it restores each arg register's saved state instead.
func (r *Register) Unset() { r.val, r.ok = nil, false }

// RegisterState is one register's snapshot: independent of later
// mutation of the live register, since Value is always persistent.
type RegisterState struct {
	Val value.Value
	Ok  bool
}

// Snapshot captures the current state of every register in regs, in
// order. recover(snapshot()) restores exactly this state.
func Snapshot(regs []*Register) []RegisterState {
	out := make([]RegisterState, len(regs))
	for i, r := range regs {
		out[i] = RegisterState{Val: r.val, Ok: r.ok}
	}
	return out
}

// Restore writes state back into regs, in order. len(state) must equal
// len(regs).
func Restore(regs []*Register, state []RegisterState) {
	for i, r := range regs {
		r.val, r.ok = state[i].Val, state[i].Ok
	}
}

// Shift copies every next-state register into its paired current-state
// register, then clears the next-state register. pairs[i] is (var,
// nextvar).
func Shift(pairs []VarPair) {
	for _, p := range pairs {
		if v, ok := p.Next.Get(); ok {
			p.Cur.Set(v)
		}
		p.Next.Unset()
	}
}

// VarPair links a current-state register to its next-state shadow.
type VarPair struct {
	Cur, Next *Register
}
