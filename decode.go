package tagpack

import (
	"fmt"
	"reflect"
)

// Unmarshaler is the deserialize half of the codec contract.
// UnmarshalPack must consume exactly one well-formed value, or fail
// without consuming a predictable amount (callers that need rollback
// save Reader.Pos first).
type Unmarshaler interface {
	UnmarshalPack(r *Reader) error
}

var (
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	valueType       = reflect.TypeOf((*Value)(nil)).Elem()
)

// Unmarshal parses the MessagePack encoding of exactly one value from
// the start of data and stores it in the value pointed to by v. A decode
// either fully succeeds or fails with nothing partially visible to the
// caller's invariants: on error the contents of *v are unspecified.
func Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrNotPointer
	}
	return decode(NewReader(data), rv.Elem())
}

func decode(r *Reader, rv reflect.Value) error {
	t := rv.Type()

	if t.Kind() != reflect.Ptr && rv.CanAddr() && reflect.PtrTo(t).Implements(unmarshalerType) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalPack(r)
	}

	switch rv.Kind() {
	case reflect.Bool:
		v, err := r.ReadBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := r.ReadInt()
		if err != nil {
			return err
		}
		v, err := i.Int64()
		if err != nil {
			return err
		}
		if rv.OverflowInt(v) {
			return ErrIntegerOutOfRange
		}
		rv.SetInt(v)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := r.ReadInt()
		if err != nil {
			return err
		}
		v, err := i.Uint64()
		if err != nil {
			return err
		}
		if rv.OverflowUint(v) {
			return ErrIntegerOutOfRange
		}
		rv.SetUint(v)
		return nil

	case reflect.Float32:
		v, err := r.ReadF32()
		if err != nil {
			return err
		}
		rv.SetFloat(float64(v))
		return nil

	case reflect.Float64:
		v, err := r.ReadF64()
		if err != nil {
			return err
		}
		rv.SetFloat(v)
		return nil

	case reflect.String:
		v, err := r.ReadString()
		if err != nil {
			return err
		}
		rv.SetString(v)
		return nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := r.ReadBin()
			if err != nil {
				return err
			}
			rv.SetBytes(append([]byte(nil), b...))
			return nil
		}
		n, err := r.ReadArrayHeader()
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(t, 0, 0)
		for i := uint32(0); i < n; i++ {
			ev := reflect.New(t.Elem()).Elem()
			if err := decode(r, ev); err != nil {
				return err
			}
			s = reflect.Append(s, ev)
		}
		rv.Set(s)
		return nil

	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := r.ReadBin()
			if err != nil {
				return err
			}
			if len(b) != rv.Len() {
				return ErrInvalidLength
			}
			reflect.Copy(rv, reflect.ValueOf(b))
			return nil
		}
		n, err := r.ReadArrayHeader()
		if err != nil {
			return err
		}
		if int(n) != rv.Len() {
			return ErrInvalidLength
		}
		for i := 0; i < rv.Len(); i++ {
			if err := decode(r, rv.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		n, err := r.ReadMapHeader()
		if err != nil {
			return err
		}
		m := reflect.MakeMapWithSize(t, int(n))
		for i := uint32(0); i < n; i++ {
			kv := reflect.New(t.Key()).Elem()
			if err := decode(r, kv); err != nil {
				return err
			}
			vv := reflect.New(t.Elem()).Elem()
			if err := decode(r, vv); err != nil {
				return err
			}
			m.SetMapIndex(kv, vv)
		}
		rv.Set(m)
		return nil

	case reflect.Ptr:
		// peek for nil, restoring the cursor when it is anything else
		save := r.Pos()
		tok, err := r.ReadToken()
		if err != nil {
			return err
		}
		if tok.Type == TokenNil {
			rv.Set(reflect.Zero(t))
			return nil
		}
		r.SetPos(save)
		pv := reflect.New(t.Elem())
		if err := decode(r, pv.Elem()); err != nil {
			return err
		}
		rv.Set(pv)
		return nil

	case reflect.Interface:
		if es := enumOf(t); es != nil {
			return decodeEnum(r, es, rv)
		}
		if t == valueType || t.NumMethod() == 0 {
			v, err := DecodeValue(r)
			if err != nil {
				return err
			}
			rv.Set(reflect.ValueOf(v))
			return nil
		}

	case reflect.Struct:
		ss, err := schemaOf(t)
		if err != nil {
			return err
		}
		return decodeStruct(r, rv, ss)
	}

	return fmt.Errorf("tagpack: unsupported type %s", t)
}

func decodeStruct(r *Reader, rv reflect.Value, ss *structSchema) error {
	switch {
	case ss.transparent:
		return decode(r, rv.Field(ss.fields[0].index))

	case ss.untagged:
		n, err := r.ReadArrayHeader()
		if err != nil {
			return err
		}
		if n != uint32(len(ss.fields)) {
			return fmt.Errorf("%w: %s wants %d elements, got %d", ErrInvalidLength, ss.name, len(ss.fields), n)
		}
		for _, f := range ss.fields {
			if err := decode(r, rv.Field(f.index)); err != nil {
				return err
			}
		}
		return nil

	default:
		return decodeTaggedStruct(r, rv, ss)
	}
}

func decodeTaggedStruct(r *Reader, rv reflect.Value, ss *structSchema) error {
	// Flatten fields re-decode the whole map with the inner struct's
	// own decoder from the pre-header position; the main loop below
	// then skips their tags as unknown keys.
	for _, f := range ss.fields {
		if !f.flatten {
			continue
		}
		if err := decodeTaggedStruct(r.fork(), rv.Field(f.index), f.inner); err != nil {
			return err
		}
	}

	n, err := r.ReadMapHeader()
	if err != nil {
		return err
	}

	filled := make([]bool, len(ss.fields))
	for i := uint32(0); i < n; i++ {
		key, err := r.ReadInt()
		if err != nil {
			return err
		}
		tag, err := key.Uint32()
		if err != nil {
			return err
		}
		idx, known := ss.byTag[tag]
		if !known {
			if err := r.Skip(); err != nil {
				return err
			}
			continue
		}
		f := ss.fields[idx]
		if filled[idx] {
			return fmt.Errorf("%w: %s.%s (tag %d)", ErrDuplicatedField, ss.name, f.name, tag)
		}
		filled[idx] = true
		if err := decode(r, rv.Field(f.index)); err != nil {
			return err
		}
	}

	for idx, f := range ss.fields {
		if f.flatten || f.optional {
			continue
		}
		if !filled[idx] {
			return fmt.Errorf("%w: %s.%s (tag %d)", ErrMissingField, ss.name, f.name, f.tag)
		}
	}
	return nil
}
