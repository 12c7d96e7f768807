package tagpack

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Reader decodes wire-level primitives from a byte buffer. It holds no
// stack: composite tokens return only their header and the caller is
// responsible for consuming the declared number of children. The cursor
// position is plain state, so a failed trial decode is undone by saving
// Pos beforehand and calling SetPos afterwards.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader decoding from data. The reader aliases
// data; Str/Bin/Ext token payloads are subslices of it.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.pos }

// SetPos restores the cursor to an offset previously obtained from Pos.
func (r *Reader) SetPos(pos int) { r.pos = pos }

// fork returns an independent reader over the same buffer starting at
// the current position.
func (r *Reader) fork() *Reader {
	return &Reader{data: r.data, pos: r.pos}
}

func (r *Reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrInvalidInput
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) readN(n int) ([]byte, error) {
	if n < 0 || len(r.data)-r.pos < n {
		return nil, ErrInvalidInput
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) readUint16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) readUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) readUint64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) readExt(n int) (Token, error) {
	typ, err := r.readByte()
	if err != nil {
		return Token{}, err
	}
	data, err := r.readN(n)
	if err != nil {
		return Token{}, err
	}
	return Token{Type: TokenExt, ExtType: int8(typ), Bytes: data}, nil
}

// ReadToken reads the next wire primitive and advances the cursor past
// it. It fails with ErrInvalidInput when no marker byte remains, a
// length or payload read would run past the end of the buffer, or the
// marker is the reserved byte.
func (r *Reader) ReadToken() (Token, error) {
	m, err := r.readByte()
	if err != nil {
		return Token{}, err
	}

	// Fixed-form markers first.
	switch {
	case m <= maxPosFixInt:
		return Token{Type: TokenInt, Int: NewUint(uint64(m))}, nil
	case m >= 0xe0:
		return Token{Type: TokenInt, Int: NewInt(int64(int8(m)))}, nil
	case m&0xe0 == fixStrMarker:
		b, err := r.readN(int(m & 0x1f))
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenStr, Bytes: b}, nil
	case m&0xf0 == fixArrayMarker:
		return Token{Type: TokenArray, Len: uint32(m & 0x0f)}, nil
	case m&0xf0 == fixMapMarker:
		return Token{Type: TokenMap, Len: uint32(m & 0x0f)}, nil
	}

	switch m {
	case markerNil:
		return Token{Type: TokenNil}, nil
	case markerFalse:
		return Token{Type: TokenBool, Bool: false}, nil
	case markerTrue:
		return Token{Type: TokenBool, Bool: true}, nil

	case markerUint8:
		v, err := r.readByte()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenInt, Int: NewUint(uint64(v))}, nil
	case markerUint16:
		v, err := r.readUint16()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenInt, Int: NewUint(uint64(v))}, nil
	case markerUint32:
		v, err := r.readUint32()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenInt, Int: NewUint(uint64(v))}, nil
	case markerUint64:
		v, err := r.readUint64()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenInt, Int: NewUint(v)}, nil

	case markerInt8:
		v, err := r.readByte()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenInt, Int: NewInt(int64(int8(v)))}, nil
	case markerInt16:
		v, err := r.readUint16()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenInt, Int: NewInt(int64(int16(v)))}, nil
	case markerInt32:
		v, err := r.readUint32()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenInt, Int: NewInt(int64(int32(v)))}, nil
	case markerInt64:
		v, err := r.readUint64()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenInt, Int: NewInt(int64(v))}, nil

	case markerF32:
		v, err := r.readUint32()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenF32, F32: math.Float32frombits(v)}, nil
	case markerF64:
		v, err := r.readUint64()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenF64, F64: math.Float64frombits(v)}, nil

	case markerStr8:
		n, err := r.readByte()
		if err != nil {
			return Token{}, err
		}
		b, err := r.readN(int(n))
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenStr, Bytes: b}, nil
	case markerStr16:
		n, err := r.readUint16()
		if err != nil {
			return Token{}, err
		}
		b, err := r.readN(int(n))
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenStr, Bytes: b}, nil
	case markerStr32:
		n, err := r.readUint32()
		if err != nil {
			return Token{}, err
		}
		b, err := r.readN(int(n))
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenStr, Bytes: b}, nil

	case markerBin8:
		n, err := r.readByte()
		if err != nil {
			return Token{}, err
		}
		b, err := r.readN(int(n))
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenBin, Bytes: b}, nil
	case markerBin16:
		n, err := r.readUint16()
		if err != nil {
			return Token{}, err
		}
		b, err := r.readN(int(n))
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenBin, Bytes: b}, nil
	case markerBin32:
		n, err := r.readUint32()
		if err != nil {
			return Token{}, err
		}
		b, err := r.readN(int(n))
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenBin, Bytes: b}, nil

	case markerArray16:
		n, err := r.readUint16()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenArray, Len: uint32(n)}, nil
	case markerArray32:
		n, err := r.readUint32()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenArray, Len: n}, nil

	case markerMap16:
		n, err := r.readUint16()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenMap, Len: uint32(n)}, nil
	case markerMap32:
		n, err := r.readUint32()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenMap, Len: n}, nil

	case markerFixExt1:
		return r.readExt(1)
	case markerFixExt2:
		return r.readExt(2)
	case markerFixExt4:
		return r.readExt(4)
	case markerFixExt8:
		return r.readExt(8)
	case markerFixExt16:
		return r.readExt(16)
	case markerExt8:
		n, err := r.readByte()
		if err != nil {
			return Token{}, err
		}
		return r.readExt(int(n))
	case markerExt16:
		n, err := r.readUint16()
		if err != nil {
			return Token{}, err
		}
		return r.readExt(int(n))
	case markerExt32:
		n, err := r.readUint32()
		if err != nil {
			return Token{}, err
		}
		return r.readExt(int(n))
	}

	// markerReserved
	return Token{}, ErrInvalidInput
}

// Skip consumes exactly one complete value of any shape, including
// nested composites, without interpreting it. It is how struct decoding
// discards map entries under unrecognized tags.
func (r *Reader) Skip() error {
	count := uint64(1)
	for count > 0 {
		count--
		tok, err := r.ReadToken()
		if err != nil {
			return err
		}
		switch tok.Type {
		case TokenArray:
			count += uint64(tok.Len)
		case TokenMap:
			count += 2 * uint64(tok.Len)
		}
	}
	return nil
}

// The typed reads below are the primitive decode bindings: each consumes
// one token and validates its shape, failing with a schema-level error
// on mismatch.

// ReadNil consumes a nil object.
func (r *Reader) ReadNil() error {
	tok, err := r.ReadToken()
	if err != nil {
		return err
	}
	if tok.Type != TokenNil {
		return ErrInvalidType
	}
	return nil
}

// ReadBool consumes a boolean object.
func (r *Reader) ReadBool() (bool, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return false, err
	}
	if tok.Type != TokenBool {
		return false, ErrInvalidType
	}
	return tok.Bool, nil
}

// ReadInt consumes an integer object of any wire width.
func (r *Reader) ReadInt() (Int, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return Int{}, err
	}
	if tok.Type != TokenInt {
		return Int{}, ErrInvalidType
	}
	return tok.Int, nil
}

// ReadF32 consumes a 32-bit float object.
func (r *Reader) ReadF32() (float32, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenF32 {
		return 0, ErrInvalidType
	}
	return tok.F32, nil
}

// ReadF64 consumes a 64-bit float object.
func (r *Reader) ReadF64() (float64, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenF64 {
		return 0, ErrInvalidType
	}
	return tok.F64, nil
}

// ReadStr consumes a string object and returns its raw bytes, which may
// be any byte sequence. The result aliases the input buffer.
func (r *Reader) ReadStr() ([]byte, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Type != TokenStr {
		return nil, ErrInvalidType
	}
	return tok.Bytes, nil
}

// ReadString consumes a string object and validates it as UTF-8.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadStr()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// ReadBin consumes a binary object. The result aliases the input buffer.
func (r *Reader) ReadBin() ([]byte, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Type != TokenBin {
		return nil, ErrInvalidType
	}
	return tok.Bytes, nil
}

// ReadArrayHeader consumes an array header and returns its length.
func (r *Reader) ReadArrayHeader() (uint32, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenArray {
		return 0, ErrInvalidType
	}
	return tok.Len, nil
}

// ReadMapHeader consumes a map header and returns its pair count.
func (r *Reader) ReadMapHeader() (uint32, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenMap {
		return 0, ErrInvalidType
	}
	return tok.Len, nil
}

// ReadExt consumes a user-extension object. The data aliases the input
// buffer.
func (r *Reader) ReadExt() (int8, []byte, error) {
	tok, err := r.ReadToken()
	if err != nil {
		return 0, nil, err
	}
	if tok.Type != TokenExt {
		return 0, nil, ErrInvalidType
	}
	return tok.ExtType, tok.Bytes, nil
}
