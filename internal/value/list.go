package value

import "fmt"

// List is an ordered, persistent sequence. Every update returns a new
// List without mutating the receiver's backing array.
type List struct{ elems []Value }

func NewList(elems ...Value) List {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return List{elems: cp}
}

func (l List) Kind() Kind { return KindList }

func (l List) Equals(o Value) bool {
	ol, ok := o.(List)
	if !ok || len(ol.elems) != len(l.elems) {
		return false
	}
	for i := range l.elems {
		if !l.elems[i].Equals(ol.elems[i]) {
			return false
		}
	}
	return true
}

func (l List) Inspect() string {
	s := "["
	for i, e := range l.elems {
		if i > 0 {
			s += ", "
		}
		s += e.Inspect()
	}
	return s + "]"
}

func (l List) String() string { return l.Inspect() }

func (l List) NormalForm() string {
	s := "l["
	for i, e := range l.elems {
		if i > 0 {
			s += ","
		}
		s += e.NormalForm()
	}
	return s + "]"
}

func (l List) Hash() uint32 { return hashString(l.NormalForm()) }

func (l List) Len() int { return len(l.elems) }

func (l List) Elems() []Value {
	cp := make([]Value, len(l.elems))
	copy(cp, l.elems)
	return cp
}

// Nth returns the 0-based element at index i.
func (l List) Nth(i int) (Value, bool) {
	if i < 0 || i >= len(l.elems) {
		return nil, false
	}
	return l.elems[i], true
}

// ReplaceAt returns a persistent copy with index i replaced by v.
func (l List) ReplaceAt(i int, v Value) (List, error) {
	if i < 0 || i >= len(l.elems) {
		return List{}, fmt.Errorf("replaceAt: index %d out of bounds (len %d)", i, len(l.elems))
	}
	cp := make([]Value, len(l.elems))
	copy(cp, l.elems)
	cp[i] = v
	return List{elems: cp}, nil
}

func (l List) Head() (Value, bool) {
	if len(l.elems) == 0 {
		return nil, false
	}
	return l.elems[0], true
}

func (l List) Tail() (List, bool) {
	if len(l.elems) == 0 {
		return List{}, false
	}
	return NewList(l.elems[1:]...), true
}

func (l List) Append(v Value) List {
	cp := make([]Value, len(l.elems)+1)
	copy(cp, l.elems)
	cp[len(l.elems)] = v
	return List{elems: cp}
}

func (l List) Concat(o List) List {
	cp := make([]Value, 0, len(l.elems)+len(o.elems))
	cp = append(cp, l.elems...)
	cp = append(cp, o.elems...)
	return List{elems: cp}
}

// Slice returns elements in [start, end), 0-based.
func (l List) Slice(start, end int) (List, error) {
	if start < 0 || end < start || end > len(l.elems) {
		return List{}, fmt.Errorf("slice: invalid bounds [%d,%d) for length %d", start, end, len(l.elems))
	}
	return NewList(l.elems[start:end]...), nil
}

// Indices returns the set of valid 0-based indices, as Ints.
func (l List) Indices() Set {
	elems := make([]Value, len(l.elems))
	for i := range l.elems {
		elems[i] = NewIntFromInt64(int64(i))
	}
	return NewExplicitSet(elems...)
}

// Range constructs the half-open list [a, b).
func Range(a, b int64) (List, error) {
	if a > b {
		return List{}, fmt.Errorf("range: lower bound %d greater than upper bound %d", a, b)
	}
	elems := make([]Value, 0, b-a)
	for v := a; v < b; v++ {
		elems = append(elems, NewIntFromInt64(v))
	}
	return List{elems: elems}, nil
}
