package value

// The To* helpers assume the type checker has already verified the
// shape of v; a mismatch here is a programmer error in an opcode
// implementation, not a user-facing runtime error, so they return a
// typed error rather than a runtime-error diagnostic.

func ToBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, &TypeAssertionError{Wanted: "bool", Got: v.Kind()}
	}
	return b.V, nil
}

func ToInt(v Value) (Int, error) {
	i, ok := v.(Int)
	if !ok {
		return Int{}, &TypeAssertionError{Wanted: "int", Got: v.Kind()}
	}
	return i, nil
}

func ToStr(v Value) (string, error) {
	s, ok := v.(Str)
	if !ok {
		return "", &TypeAssertionError{Wanted: "str", Got: v.Kind()}
	}
	return s.V, nil
}

func ToList(v Value) (List, error) {
	l, ok := v.(List)
	if !ok {
		return List{}, &TypeAssertionError{Wanted: "list", Got: v.Kind()}
	}
	return l, nil
}

func ToSet(v Value) (Set, error) {
	s, ok := v.(Set)
	if !ok {
		return nil, &TypeAssertionError{Wanted: "set", Got: v.Kind()}
	}
	return s, nil
}

func ToMap(v Value) (Map, error) {
	m, ok := v.(Map)
	if !ok {
		return Map{}, &TypeAssertionError{Wanted: "map", Got: v.Kind()}
	}
	return m, nil
}

func ToTuple(v Value) (Tuple, error) {
	t, ok := v.(Tuple)
	if !ok {
		return Tuple{}, &TypeAssertionError{Wanted: "tuple", Got: v.Kind()}
	}
	return t, nil
}

func ToRecord(v Value) (Record, error) {
	r, ok := v.(Record)
	if !ok {
		return Record{}, &TypeAssertionError{Wanted: "record", Got: v.Kind()}
	}
	return r, nil
}

// Equals is the free-function form of structural equality, used by
// opcodes that only hold a value.Value and not a concrete type.
func Equals(a, b Value) bool { return a.Equals(b) }
