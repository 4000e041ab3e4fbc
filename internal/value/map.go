package value

import (
	"fmt"
	"sort"
)

// Map is an ordered mapping from value to value; keys are compared and
// looked up by their NormalForm. Insertion order is preserved for
// Inspect but irrelevant to Equals/NormalForm.
type Map struct {
	keys   map[string]Value
	vals   map[string]Value
	order  []string
}

func NewMap() Map {
	return Map{keys: map[string]Value{}, vals: map[string]Value{}}
}

// NewMapFromPairs builds a Map from key/value pairs, later pairs
// overwriting earlier ones with the same key.
func NewMapFromPairs(pairs [][2]Value) Map {
	m := NewMap()
	for _, p := range pairs {
		m = m.Put(p[0], p[1])
	}
	return m
}

func (m Map) Kind() Kind { return KindMap }

func (m Map) Equals(o Value) bool {
	om, ok := o.(Map)
	if !ok || len(om.keys) != len(m.keys) {
		return false
	}
	for nf, k := range m.keys {
		ov, ok := om.vals[nf]
		if !ok || !ov.Equals(m.vals[nf]) {
			return false
		}
		_ = k
	}
	return true
}

func (m Map) Inspect() string {
	s := "Map("
	for i, nf := range m.order {
		if i > 0 {
			s += ", "
		}
		s += m.keys[nf].Inspect() + " -> " + m.vals[nf].Inspect()
	}
	return s + ")"
}

func (m Map) String() string { return m.Inspect() }

func (m Map) NormalForm() string {
	nfs := make([]string, 0, len(m.keys))
	for nf := range m.keys {
		nfs = append(nfs, nf)
	}
	sort.Strings(nfs)
	s := "M{"
	for i, nf := range nfs {
		if i > 0 {
			s += ","
		}
		s += nf + "=>" + m.vals[nf].NormalForm()
	}
	return s + "}"
}

func (m Map) Hash() uint32 { return hashString(m.NormalForm()) }

func (m Map) Len() int { return len(m.keys) }

// Get returns the value bound to k, or false if absent.
func (m Map) Get(k Value) (Value, bool) {
	v, ok := m.vals[k.NormalForm()]
	return v, ok
}

// Put returns a persistent copy with k bound to v, adding the key if
// absent.
func (m Map) Put(k, v Value) Map {
	nf := k.NormalForm()
	keys := make(map[string]Value, len(m.keys)+1)
	vals := make(map[string]Value, len(m.vals)+1)
	for kk, vv := range m.keys {
		keys[kk] = vv
	}
	for kk, vv := range m.vals {
		vals[kk] = vv
	}
	_, existed := keys[nf]
	keys[nf] = k
	vals[nf] = v
	order := m.order
	if !existed {
		order = append(append([]string{}, m.order...), nf)
	}
	return Map{keys: keys, vals: vals, order: order}
}

// Set is the map-update opcode: it fails (returns an error) if the key
// is absent, unlike Put.
func (m Map) Set(k, v Value) (Map, error) {
	if _, ok := m.Get(k); !ok {
		return Map{}, fmt.Errorf("set: key %s is not present in the map", k.Inspect())
	}
	return m.Put(k, v), nil
}

// Keys returns the set of keys.
func (m Map) Keys() Set {
	elems := make([]Value, 0, len(m.keys))
	for _, nf := range m.order {
		elems = append(elems, m.keys[nf])
	}
	return NewExplicitSet(elems...)
}

// AsSet views the map as a set of (key, value) tuples, the "map as set"
// shape named in spec.md's value domain description.
func (m Map) AsSet() Set {
	elems := make([]Value, 0, len(m.keys))
	for _, nf := range m.order {
		elems = append(elems, NewTuple(m.keys[nf], m.vals[nf]))
	}
	return NewExplicitSet(elems...)
}

// SetToMap builds a Map from a finite set of 2-tuples.
func SetToMap(s Set) (Map, error) {
	elems, err := s.Enumerate()
	if err != nil {
		return Map{}, err
	}
	m := NewMap()
	for _, e := range elems {
		t, ok := e.(Tuple)
		if !ok || len(t.Elems) != 2 {
			return Map{}, fmt.Errorf("setToMap: element %s is not a 2-tuple", e.Inspect())
		}
		m = m.Put(t.Elems[0], t.Elems[1])
	}
	return m, nil
}

// MapSpace is the lazily-represented set of all total functions from
// Domain to Range, produced by setOfMaps(D, R). It is not enumerated at
// construction.
type MapSpace struct {
	Domain, Range Set
}

func NewMapSpace(domain, rng Set) MapSpace { return MapSpace{Domain: domain, Range: rng} }

func (s MapSpace) Kind() Kind { return KindSet }
func (s MapSpace) Equals(o Value) bool {
	os, ok := o.(Set)
	return ok && setsEqual(s, os)
}
func (s MapSpace) Inspect() string    { return "setOfMaps(" + s.Domain.Inspect() + ", " + s.Range.Inspect() + ")" }
func (s MapSpace) String() string     { return s.Inspect() }
func (s MapSpace) NormalForm() string { return "SM(" + s.Domain.NormalForm() + "," + s.Range.NormalForm() + ")" }
func (s MapSpace) Hash() uint32       { return hashString(s.NormalForm()) }
func (s MapSpace) IsFinite() bool     { return true }

func (s MapSpace) Contains(v Value) bool {
	m, ok := v.(Map)
	if !ok {
		return false
	}
	dom, err := s.Domain.Enumerate()
	if err != nil || len(dom) != m.Len() {
		return false
	}
	for _, k := range dom {
		val, ok := m.Get(k)
		if !ok || !s.Range.Contains(val) {
			return false
		}
	}
	return true
}

func (s MapSpace) Cardinality() (int, error) {
	dn, err := s.Domain.Cardinality()
	if err != nil {
		return 0, err
	}
	rn, err := s.Range.Cardinality()
	if err != nil {
		return 0, err
	}
	total := 1
	for i := 0; i < dn; i++ {
		total *= rn
	}
	return total, nil
}

func (s MapSpace) Enumerate() ([]Value, error) {
	dom, err := s.Domain.Enumerate()
	if err != nil {
		return nil, err
	}
	rng, err := s.Range.Enumerate()
	if err != nil {
		return nil, err
	}
	var out []Value
	var rec func(i int, acc Map)
	rec = func(i int, acc Map) {
		if i == len(dom) {
			out = append(out, acc)
			return
		}
		for _, r := range rng {
			rec(i+1, acc.Put(dom[i], r))
		}
	}
	rec(0, NewMap())
	return out, nil
}

// ToOrderedMap coerces a finite set of 2-tuples or an existing Map into
// a canonical Map with a stable key order (sorted by key NormalForm).
func ToOrderedMap(v Value) (Map, error) {
	switch t := v.(type) {
	case Map:
		order := append([]string{}, t.order...)
		sort.Strings(order)
		return Map{keys: t.keys, vals: t.vals, order: order}, nil
	case Set:
		return SetToMap(t)
	default:
		return Map{}, &TypeAssertionError{Wanted: "map or set-of-pairs", Got: v.Kind()}
	}
}
