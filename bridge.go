package tagpack

// Value's own codec: every concrete Value type writes out exactly the
// token sequence it denotes and reads it back, preserving map entry
// order and duplicate keys verbatim. This is the dynamic fallback for
// unknown shapes and the round-trip oracle used by the tests.

func (Nil) MarshalPack(w *Writer) error    { return w.WriteNil() }
func (v Bool) MarshalPack(w *Writer) error { return w.WriteBool(bool(v)) }
func (v Int) MarshalPack(w *Writer) error  { return w.WriteInt(v) }
func (v F32) MarshalPack(w *Writer) error  { return w.WriteF32(float32(v)) }
func (v F64) MarshalPack(w *Writer) error  { return w.WriteF64(float64(v)) }
func (v Str) MarshalPack(w *Writer) error  { return w.WriteStr(v) }
func (v Bin) MarshalPack(w *Writer) error  { return w.WriteBin(v) }
func (v Ext) MarshalPack(w *Writer) error  { return w.WriteExt(v.Type, v.Data) }

func (v Array) MarshalPack(w *Writer) error {
	if uint64(len(v)) > 1<<32-1 {
		return ErrTooLarge
	}
	if err := w.WriteArrayHeader(uint32(len(v))); err != nil {
		return err
	}
	for _, e := range v {
		if err := marshalElem(w, e); err != nil {
			return err
		}
	}
	return nil
}

func (v Map) MarshalPack(w *Writer) error {
	if uint64(len(v)) > 1<<32-1 {
		return ErrTooLarge
	}
	if err := w.WriteMapHeader(uint32(len(v))); err != nil {
		return err
	}
	for _, e := range v {
		if err := marshalElem(w, e.Key); err != nil {
			return err
		}
		if err := marshalElem(w, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// marshalElem treats a nil element of an Array or Map as the nil object.
func marshalElem(w *Writer, v Value) error {
	if v == nil {
		return w.WriteNil()
	}
	return v.MarshalPack(w)
}

func (v *Nil) UnmarshalPack(r *Reader) error { return r.ReadNil() }

func (v *Bool) UnmarshalPack(r *Reader) error {
	b, err := r.ReadBool()
	if err != nil {
		return err
	}
	*v = Bool(b)
	return nil
}

func (v *Int) UnmarshalPack(r *Reader) error {
	i, err := r.ReadInt()
	if err != nil {
		return err
	}
	*v = i
	return nil
}

func (v *F32) UnmarshalPack(r *Reader) error {
	f, err := r.ReadF32()
	if err != nil {
		return err
	}
	*v = F32(f)
	return nil
}

func (v *F64) UnmarshalPack(r *Reader) error {
	f, err := r.ReadF64()
	if err != nil {
		return err
	}
	*v = F64(f)
	return nil
}

func (v *Str) UnmarshalPack(r *Reader) error {
	b, err := r.ReadStr()
	if err != nil {
		return err
	}
	*v = append(Str(nil), b...)
	return nil
}

func (v *Bin) UnmarshalPack(r *Reader) error {
	b, err := r.ReadBin()
	if err != nil {
		return err
	}
	*v = append(Bin(nil), b...)
	return nil
}

func (v *Ext) UnmarshalPack(r *Reader) error {
	typ, data, err := r.ReadExt()
	if err != nil {
		return err
	}
	*v = Ext{Type: typ, Data: append([]byte(nil), data...)}
	return nil
}

func (v *Array) UnmarshalPack(r *Reader) error {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	arr := make(Array, 0, min(int(n), 1024))
	for i := uint32(0); i < n; i++ {
		e, err := DecodeValue(r)
		if err != nil {
			return err
		}
		arr = append(arr, e)
	}
	*v = arr
	return nil
}

func (v *Map) UnmarshalPack(r *Reader) error {
	n, err := r.ReadMapHeader()
	if err != nil {
		return err
	}
	m := make(Map, 0, min(int(n), 1024))
	for i := uint32(0); i < n; i++ {
		key, err := DecodeValue(r)
		if err != nil {
			return err
		}
		val, err := DecodeValue(r)
		if err != nil {
			return err
		}
		m = append(m, MapEntry{Key: key, Value: val})
	}
	*v = m
	return nil
}

// DecodeValue reads one complete value of any shape into the Value
// model. Byte payloads are copied, so the result does not alias the
// reader's buffer.
func DecodeValue(r *Reader) (Value, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenNil:
		return Nil{}, nil
	case TokenBool:
		return Bool(tok.Bool), nil
	case TokenInt:
		return tok.Int, nil
	case TokenF32:
		return F32(tok.F32), nil
	case TokenF64:
		return F64(tok.F64), nil
	case TokenStr:
		return append(Str(nil), tok.Bytes...), nil
	case TokenBin:
		return append(Bin(nil), tok.Bytes...), nil
	case TokenExt:
		return Ext{Type: tok.ExtType, Data: append([]byte(nil), tok.Bytes...)}, nil
	case TokenArray:
		arr := make(Array, 0, min(int(tok.Len), 1024))
		for i := uint32(0); i < tok.Len; i++ {
			e, err := DecodeValue(r)
			if err != nil {
				return nil, err
			}
			arr = append(arr, e)
		}
		return arr, nil
	case TokenMap:
		m := make(Map, 0, min(int(tok.Len), 1024))
		for i := uint32(0); i < tok.Len; i++ {
			key, err := DecodeValue(r)
			if err != nil {
				return nil, err
			}
			val, err := DecodeValue(r)
			if err != nil {
				return nil, err
			}
			m = append(m, MapEntry{Key: key, Value: val})
		}
		return m, nil
	}
	return nil, ErrInvalidInput
}
