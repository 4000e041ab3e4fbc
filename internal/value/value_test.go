package value

import "testing"

func TestEqualsReflexiveSymmetric(t *testing.T) {
	vals := []Value{
		NewBool(true),
		NewIntFromInt64(42),
		NewStr("hello"),
		NewTuple(NewIntFromInt64(1), NewStr("x")),
		NewList(NewIntFromInt64(1), NewIntFromInt64(2)),
		NewExplicitSet(NewIntFromInt64(1), NewIntFromInt64(2)),
		NewRecord(map[string]Value{"a": NewIntFromInt64(1)}),
	}
	for _, v := range vals {
		if !v.Equals(v) {
			t.Errorf("%s: expected reflexive equality", v.Inspect())
		}
	}
}

func TestSetOrderIndependentEquality(t *testing.T) {
	a := NewExplicitSet(NewIntFromInt64(1), NewIntFromInt64(2), NewIntFromInt64(3))
	b := NewExplicitSet(NewIntFromInt64(3), NewIntFromInt64(2), NewIntFromInt64(1))
	if !a.Equals(b) {
		t.Fatalf("expected sets with same elements in different insertion order to be equal")
	}
}

func TestRecordFieldOrderIrrelevant(t *testing.T) {
	a := NewRecord(map[string]Value{"x": NewIntFromInt64(1), "y": NewIntFromInt64(2)})
	b := NewRecord(map[string]Value{"y": NewIntFromInt64(2), "x": NewIntFromInt64(1)})
	if !a.Equals(b) {
		t.Fatalf("expected records with same fields to be equal regardless of construction order")
	}
}

func TestListReplaceAt(t *testing.T) {
	l := NewList(NewIntFromInt64(1), NewIntFromInt64(2), NewIntFromInt64(3))
	updated, err := l.ReplaceAt(1, NewIntFromInt64(99))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := updated.Nth(1)
	if !got.Equals(NewIntFromInt64(99)) {
		t.Fatalf("expected index 1 to be 99, got %s", got.Inspect())
	}
	orig, _ := l.Nth(1)
	if !orig.Equals(NewIntFromInt64(2)) {
		t.Fatalf("original list must be unmodified, got %s", orig.Inspect())
	}
	for _, i := range []int{0, 2} {
		a, _ := l.Nth(i)
		b, _ := updated.Nth(i)
		if !a.Equals(b) {
			t.Fatalf("index %d should be unaffected by replaceAt", i)
		}
	}
}

func TestListReplaceAtOutOfBounds(t *testing.T) {
	l := NewList(NewIntFromInt64(1))
	if _, err := l.ReplaceAt(5, NewIntFromInt64(0)); err == nil {
		t.Fatalf("expected out-of-bounds replaceAt to fail")
	}
}

func TestRecordWith(t *testing.T) {
	r := NewRecord(map[string]Value{"x": NewIntFromInt64(1), "y": NewIntFromInt64(2)})
	updated := r.With("x", NewIntFromInt64(99))
	x, _ := updated.Field("x")
	if !x.Equals(NewIntFromInt64(99)) {
		t.Fatalf("expected updated field x=99, got %s", x.Inspect())
	}
	y, _ := updated.Field("y")
	origY, _ := r.Field("y")
	if !y.Equals(origY) {
		t.Fatalf("expected field y to be unaffected by with(r, x, ...)")
	}
}

func TestSetCardinalityMatchesEnumeration(t *testing.T) {
	s := NewExplicitSet(NewIntFromInt64(1), NewIntFromInt64(2), NewIntFromInt64(1))
	n, err := s.Cardinality()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elems, _ := s.Enumerate()
	if n != len(elems) {
		t.Fatalf("cardinality %d does not match enumeration length %d", n, len(elems))
	}
	if n != 2 {
		t.Fatalf("expected duplicates to collapse, got cardinality %d", n)
	}
}

func TestIntervalSetContains(t *testing.T) {
	s := NewIntervalSet(1, 5)
	if !s.Contains(NewIntFromInt64(3)) {
		t.Fatalf("expected 3 in [1,5]")
	}
	if s.Contains(NewIntFromInt64(6)) {
		t.Fatalf("expected 6 not in [1,5]")
	}
}

func TestPowerSetCardinality(t *testing.T) {
	base := NewExplicitSet(NewIntFromInt64(1), NewIntFromInt64(2), NewIntFromInt64(3))
	ps := NewPowerSet(base)
	n, err := ps.Cardinality()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 2^3=8, got %d", n)
	}
}

func TestProductSetEnumerate(t *testing.T) {
	a := NewExplicitSet(NewIntFromInt64(1), NewIntFromInt64(2))
	b := NewExplicitSet(NewStr("x"), NewStr("y"))
	prod := NewProductSet(a, b)
	elems, err := prod.Enumerate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elems) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(elems))
	}
	want := NewTuple(NewIntFromInt64(1), NewStr("x"))
	if !prod.Contains(want) {
		t.Fatalf("expected product set to contain (1, \"x\")")
	}
}

func TestInfiniteSetEnumerateFails(t *testing.T) {
	if _, err := IntSetMarker.Enumerate(); err != ErrInfiniteSet {
		t.Fatalf("expected ErrInfiniteSet, got %v", err)
	}
	if _, err := IntSetMarker.Cardinality(); err != ErrInfiniteSet {
		t.Fatalf("expected ErrInfiniteSet, got %v", err)
	}
}

func TestNatSetContainsOnlyNonNegative(t *testing.T) {
	if !NatSetMarker.Contains(NewIntFromInt64(0)) {
		t.Fatalf("expected Nat to contain 0")
	}
	if NatSetMarker.Contains(NewIntFromInt64(-1)) {
		t.Fatalf("expected Nat to not contain -1")
	}
}

func TestPickDeterministic(t *testing.T) {
	s := NewExplicitSet(NewIntFromInt64(10), NewIntFromInt64(20), NewIntFromInt64(30))
	v1, err := Pick(s, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := Pick(s, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v1.Equals(v2) {
		t.Fatalf("expected pick to be deterministic given the same r")
	}
}

func TestPickEmptySetFails(t *testing.T) {
	if _, err := Pick(NewExplicitSet(), 0.0); err == nil {
		t.Fatalf("expected pick on empty set to fail")
	}
}

func TestMapGetSetPut(t *testing.T) {
	m := NewMap().Put(NewStr("a"), NewIntFromInt64(1))
	v, ok := m.Get(NewStr("a"))
	if !ok || !v.Equals(NewIntFromInt64(1)) {
		t.Fatalf("expected a=1")
	}
	updated, err := m.Set(NewStr("a"), NewIntFromInt64(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, _ := updated.Get(NewStr("a"))
	if !v2.Equals(NewIntFromInt64(2)) {
		t.Fatalf("expected a=2 after set")
	}
	orig, _ := m.Get(NewStr("a"))
	if !orig.Equals(NewIntFromInt64(1)) {
		t.Fatalf("expected original map unmodified by persistent set")
	}
	if _, err := m.Set(NewStr("missing"), NewIntFromInt64(0)); err == nil {
		t.Fatalf("expected set on absent key to fail")
	}
}

func TestSetToMapRoundTrip(t *testing.T) {
	pairs := NewExplicitSet(
		NewTuple(NewStr("a"), NewIntFromInt64(1)),
		NewTuple(NewStr("b"), NewIntFromInt64(2)),
	)
	m, err := SetToMap(pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := m.Get(NewStr("b"))
	if !ok || !v.Equals(NewIntFromInt64(2)) {
		t.Fatalf("expected b=2")
	}
}

func TestMapSpaceCardinality(t *testing.T) {
	d := NewExplicitSet(NewStr("a"), NewStr("b"))
	r := NewExplicitSet(NewBool(true), NewBool(false))
	space := NewMapSpace(d, r)
	n, err := space.Cardinality()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 2^2=4, got %d", n)
	}
}
