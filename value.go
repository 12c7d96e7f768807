package tagpack

import "bytes"

// Value is the canonical in-memory model of one MessagePack object. The
// concrete types are Nil, Bool, Int, F32, F64, Str, Bin, Array, Map and
// Ext. Every Value knows how to write itself out (see bridge.go), which
// makes it both a dynamic fallback target for unknown shapes and the
// round-trip medium used in tests.
type Value interface {
	Marshaler
	isValue()
}

// Nil is the nil object. It is a real one-byte object on the wire, which
// is why it is a named type rather than Go's untyped nil.
type Nil struct{}

// Bool is the boolean object.
type Bool bool

// F32 is the 32-bit float object. F32 and F64 are distinct wire types
// and never compare equal to each other.
type F32 float32

// F64 is the 64-bit float object.
type F64 float64

// Str is the string object. At the wire level MessagePack strings are
// plain byte arrays and may hold arbitrary, non-UTF-8 bytes; UTF-8
// validity is enforced only when decoding into a Go string.
type Str []byte

// Bin is the binary object.
type Bin []byte

// Array is the array object.
type Array []Value

// MapEntry is one key-value pair of a map object.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is the map object: an ordered list of entries, not a dictionary.
// Duplicate keys are preserved as separate entries in wire order.
type Map []MapEntry

// Ext is the user-extension object.
type Ext struct {
	Type int8
	Data []byte
}

func (Nil) isValue()   {}
func (Bool) isValue()  {}
func (Int) isValue()   {}
func (F32) isValue()   {}
func (F64) isValue()   {}
func (Str) isValue()   {}
func (Bin) isValue()   {}
func (Array) isValue() {}
func (Map) isValue()   {}
func (Ext) isValue()   {}

// Index returns the value for the given key. When the key occurs more
// than once the last occurrence wins. This is a convenience lookup only;
// the codec itself never deduplicates or reorders map entries.
func (m Map) Index(key Value) (Value, bool) {
	for i := len(m) - 1; i >= 0; i-- {
		if ValueEqual(m[i].Key, key) {
			return m[i].Value, true
		}
	}
	return nil, false
}

// Typed accessors. Each reports false when the value is any other kind;
// there is no coercion between kinds, not even F32 to F64.

// IsNil reports whether v is the nil object.
func IsNil(v Value) bool {
	_, ok := v.(Nil)
	return ok
}

// AsBool returns the boolean behind v.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

// AsInt returns the integer behind v.
func AsInt(v Value) (Int, bool) {
	i, ok := v.(Int)
	return i, ok
}

// AsF32 returns the 32-bit float behind v.
func AsF32(v Value) (float32, bool) {
	f, ok := v.(F32)
	return float32(f), ok
}

// AsF64 returns the 64-bit float behind v.
func AsF64(v Value) (float64, bool) {
	f, ok := v.(F64)
	return float64(f), ok
}

// AsStr returns the string bytes behind v.
func AsStr(v Value) ([]byte, bool) {
	s, ok := v.(Str)
	return s, ok
}

// AsBin returns the binary bytes behind v.
func AsBin(v Value) ([]byte, bool) {
	b, ok := v.(Bin)
	return b, ok
}

// AsArray returns the array behind v.
func AsArray(v Value) (Array, bool) {
	a, ok := v.(Array)
	return a, ok
}

// AsMap returns the map behind v.
func AsMap(v Value) (Map, bool) {
	m, ok := v.(Map)
	return m, ok
}

// ValueEqual reports whether two values are structurally equal. Maps are
// compared entry by entry in order, so maps differing only in entry
// order or duplication are not equal.
func ValueEqual(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		v, ok := b.(Bool)
		return ok && a == v
	case Int:
		v, ok := b.(Int)
		return ok && a == v
	case F32:
		v, ok := b.(F32)
		return ok && a == v
	case F64:
		v, ok := b.(F64)
		return ok && a == v
	case Str:
		v, ok := b.(Str)
		return ok && bytes.Equal(a, v)
	case Bin:
		v, ok := b.(Bin)
		return ok && bytes.Equal(a, v)
	case Array:
		v, ok := b.(Array)
		if !ok || len(a) != len(v) {
			return false
		}
		for i := range a {
			if !ValueEqual(a[i], v[i]) {
				return false
			}
		}
		return true
	case Map:
		v, ok := b.(Map)
		if !ok || len(a) != len(v) {
			return false
		}
		for i := range a {
			if !ValueEqual(a[i].Key, v[i].Key) || !ValueEqual(a[i].Value, v[i].Value) {
				return false
			}
		}
		return true
	case Ext:
		v, ok := b.(Ext)
		return ok && a.Type == v.Type && bytes.Equal(a.Data, v.Data)
	}
	return false
}
