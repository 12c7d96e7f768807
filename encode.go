package tagpack

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
)

// Marshaler is the serialize half of the codec contract. MarshalPack
// must emit exactly one well-formed value: one scalar, or one composite
// header followed by exactly its declared number of child values.
type Marshaler interface {
	MarshalPack(w *Writer) error
}

var marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()

// Marshal returns the MessagePack encoding of v.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(NewWriter(&buf), reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(w *Writer, rv reflect.Value) error {
	if !rv.IsValid() {
		return w.WriteNil()
	}
	t := rv.Type()

	if t.Implements(marshalerType) {
		if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
			return w.WriteNil()
		}
		return rv.Interface().(Marshaler).MarshalPack(w)
	}
	if rv.CanAddr() && reflect.PtrTo(t).Implements(marshalerType) {
		return rv.Addr().Interface().(Marshaler).MarshalPack(w)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return w.WriteBool(rv.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.WriteInt(NewInt(rv.Int()))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return w.WriteInt(NewUint(rv.Uint()))

	case reflect.Float32:
		return w.WriteF32(float32(rv.Float()))

	case reflect.Float64:
		return w.WriteF64(rv.Float())

	case reflect.String:
		return w.WriteString(rv.String())

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return w.WriteBin(rv.Bytes())
		}
		return encodeArray(w, rv)

	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return w.WriteBin(b)
		}
		return encodeArray(w, rv)

	case reflect.Map:
		if uint64(rv.Len()) > math.MaxUint32 {
			return ErrTooLarge
		}
		if err := w.WriteMapHeader(uint32(rv.Len())); err != nil {
			return err
		}
		iter := rv.MapRange()
		for iter.Next() {
			if err := encode(w, iter.Key()); err != nil {
				return err
			}
			if err := encode(w, iter.Value()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Interface:
		if rv.IsNil() {
			return w.WriteNil()
		}
		if es := enumOf(t); es != nil {
			return encodeEnum(w, es, rv)
		}
		return encode(w, rv.Elem())

	case reflect.Ptr:
		// pointers are the Option binding: nil is the nil object,
		// otherwise the pointer has no wire footprint of its own
		if rv.IsNil() {
			return w.WriteNil()
		}
		return encode(w, rv.Elem())

	case reflect.Struct:
		ss, err := schemaOf(t)
		if err != nil {
			return err
		}
		return encodeStruct(w, rv, ss)
	}

	return fmt.Errorf("tagpack: unsupported type %s", t)
}

func encodeArray(w *Writer, rv reflect.Value) error {
	n := rv.Len()
	if uint64(n) > math.MaxUint32 {
		return ErrTooLarge
	}
	if err := w.WriteArrayHeader(uint32(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := encode(w, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func encodeStruct(w *Writer, rv reflect.Value, ss *structSchema) error {
	switch {
	case ss.transparent:
		return encode(w, rv.Field(ss.fields[0].index))

	case ss.untagged:
		if err := w.WriteArrayHeader(uint32(len(ss.fields))); err != nil {
			return err
		}
		for _, f := range ss.fields {
			if err := encode(w, rv.Field(f.index)); err != nil {
				return err
			}
		}
		return nil

	default:
		n := countFields(rv, ss)
		if err := w.WriteMapHeader(n); err != nil {
			return err
		}
		return encodeTaggedFields(w, rv, ss)
	}
}

// countFields computes the map length ahead of writing: one entry per
// required field, one per present optional field, and a flatten field
// contributes its inner struct's own count instead of one.
func countFields(rv reflect.Value, ss *structSchema) uint32 {
	n := uint32(len(ss.fields))
	for _, f := range ss.fields {
		switch {
		case f.flatten:
			n += countFields(rv.Field(f.index), f.inner) - 1
		case f.optional && rv.Field(f.index).IsNil():
			n--
		}
	}
	return n
}

func encodeTaggedFields(w *Writer, rv reflect.Value, ss *structSchema) error {
	for _, f := range ss.fields {
		switch {
		case f.flatten:
			if err := encodeTaggedFields(w, rv.Field(f.index), f.inner); err != nil {
				return err
			}
		case f.optional && rv.Field(f.index).IsNil():
			// absent optional fields contribute no entry
		default:
			if err := w.WriteInt(NewUint(uint64(f.tag))); err != nil {
				return err
			}
			if err := encode(w, rv.Field(f.index)); err != nil {
				return err
			}
		}
	}
	return nil
}
