// Package value implements Quint's runtime value domain: booleans,
// arbitrary-precision integers, strings, tuples, records, lists, sets
// and maps, all with structural equality and persistent (copy-on-write)
// update semantics.
package value

import (
	"fmt"
	"hash/fnv"
	"math/big"
)

// Kind identifies the constructor of a Value.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindStr
	KindTuple
	KindRecord
	KindList
	KindSet
	KindMap
)

// Value is the closed interface implemented by every runtime value.
type Value interface {
	Kind() Kind
	// Equals reports structural equality: same constructor, pairwise
	// equal components, container order irrelevant where the container
	// itself is unordered (Set, Record field order, Map key order).
	Equals(other Value) bool
	// Inspect renders a value for diagnostics and trace output.
	Inspect() string
	// NormalForm returns a canonical string usable as a map key.
	NormalForm() string
	// Hash is a cheap, non-cryptographic hash consistent with Equals:
	// a.Equals(b) implies a.Hash() == b.Hash().
	Hash() uint32
	fmt.Stringer
}

// TypeAssertionError is raised by the To* coercion helpers when the
// underlying value does not have the requested shape. The type checker
// is assumed to have already run, so this signals a programmer error in
// the compiler or an opcode implementation, never a user-facing one.
type TypeAssertionError struct {
	Wanted string
	Got    Kind
}

func (e *TypeAssertionError) Error() string {
	return fmt.Sprintf("value: expected %s, got %s", e.Wanted, e.Got)
}

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

func hashBytes(b []byte) uint32 {
	h := fnv.New32a()
	h.Write(b)
	return h.Sum32()
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// ---- Bool ----

type Bool struct{ V bool }

func NewBool(v bool) Bool { return Bool{V: v} }

func (b Bool) Kind() Kind { return KindBool }
func (b Bool) Equals(other Value) bool {
	o, ok := other.(Bool)
	return ok && o.V == b.V
}
func (b Bool) Inspect() string { return fmt.Sprintf("%t", b.V) }
func (b Bool) String() string  { return b.Inspect() }
func (b Bool) NormalForm() string {
	if b.V {
		return "b:1"
	}
	return "b:0"
}
func (b Bool) Hash() uint32 {
	if b.V {
		return 1
	}
	return 0
}

// ---- Int ----

// Int wraps an arbitrary-precision integer. The zero value is not a
// valid Int; always construct through NewInt/NewIntFromInt64.
type Int struct{ V *big.Int }

func NewInt(v *big.Int) Int         { return Int{V: new(big.Int).Set(v)} }
func NewIntFromInt64(v int64) Int   { return Int{V: big.NewInt(v)} }
func NewIntFromString(s string) Int { n, _ := new(big.Int).SetString(s, 10); return Int{V: n} }

func (i Int) Kind() Kind { return KindInt }
func (i Int) Equals(other Value) bool {
	o, ok := other.(Int)
	return ok && i.V.Cmp(o.V) == 0
}
func (i Int) Inspect() string     { return i.V.String() }
func (i Int) String() string      { return i.Inspect() }
func (i Int) NormalForm() string  { return "i:" + i.V.String() }
func (i Int) Hash() uint32        { return hashString(i.V.String()) }
func (i Int) Int64() int64        { return i.V.Int64() }
func (i Int) Cmp(o Int) int       { return i.V.Cmp(o.V) }
func (i Int) Add(o Int) Int       { return Int{V: new(big.Int).Add(i.V, o.V)} }
func (i Int) Sub(o Int) Int       { return Int{V: new(big.Int).Sub(i.V, o.V)} }
func (i Int) Mul(o Int) Int       { return Int{V: new(big.Int).Mul(i.V, o.V)} }
func (i Int) Neg() Int            { return Int{V: new(big.Int).Neg(i.V)} }
func (i Int) Sign() int           { return i.V.Sign() }

// ---- Str ----

type Str struct{ V string }

func NewStr(v string) Str { return Str{V: v} }

func (s Str) Kind() Kind          { return KindStr }
func (s Str) Equals(o Value) bool { so, ok := o.(Str); return ok && so.V == s.V }
func (s Str) Inspect() string     { return fmt.Sprintf("%q", s.V) }
func (s Str) String() string      { return s.V }
func (s Str) NormalForm() string  { return "s:" + s.V }
func (s Str) Hash() uint32        { return hashString(s.V) }

// ---- Tuple ----

// Tuple is an ordered, fixed-length sequence. Order is significant to
// equality.
type Tuple struct{ Elems []Value }

func NewTuple(elems ...Value) Tuple {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Tuple{Elems: cp}
}

func (t Tuple) Kind() Kind { return KindTuple }
func (t Tuple) Equals(o Value) bool {
	ot, ok := o.(Tuple)
	if !ok || len(ot.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equals(ot.Elems[i]) {
			return false
		}
	}
	return true
}
func (t Tuple) Inspect() string {
	s := "("
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.Inspect()
	}
	return s + ")"
}
func (t Tuple) String() string { return t.Inspect() }
func (t Tuple) NormalForm() string {
	s := "t("
	for i, e := range t.Elems {
		if i > 0 {
			s += ","
		}
		s += e.NormalForm()
	}
	return s + ")"
}
func (t Tuple) Hash() uint32 { return hashString(t.NormalForm()) }

// Item returns the 1-based element at index i (Quint's item(t,i) is
// 1-based per spec.md).
func (t Tuple) Item(i int) (Value, bool) {
	if i < 1 || i > len(t.Elems) {
		return nil, false
	}
	return t.Elems[i-1], true
}
