package tagpack

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer encodes wire-level primitives onto a byte sink. Each method
// writes exactly one marker plus its payload, always choosing the
// narrowest applicable marker. The writer performs no structural
// validation: callers announcing an array or map header are trusted to
// follow it with the declared number of child values. The only failure
// mode is an error from the underlying sink (plus ErrTooLarge for
// objects whose length cannot be expressed in a uint32 prefix).
type Writer struct {
	w       io.Writer
	scratch [10]byte
}

// NewWriter returns a Writer encoding onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) writeByte(b byte) error {
	w.scratch[0] = b
	_, err := w.w.Write(w.scratch[:1])
	return err
}

func (w *Writer) write2(marker byte, v uint8) error {
	w.scratch[0] = marker
	w.scratch[1] = v
	_, err := w.w.Write(w.scratch[:2])
	return err
}

func (w *Writer) write3(marker byte, v uint16) error {
	w.scratch[0] = marker
	binary.BigEndian.PutUint16(w.scratch[1:3], v)
	_, err := w.w.Write(w.scratch[:3])
	return err
}

func (w *Writer) write5(marker byte, v uint32) error {
	w.scratch[0] = marker
	binary.BigEndian.PutUint32(w.scratch[1:5], v)
	_, err := w.w.Write(w.scratch[:5])
	return err
}

func (w *Writer) write9(marker byte, v uint64) error {
	w.scratch[0] = marker
	binary.BigEndian.PutUint64(w.scratch[1:9], v)
	_, err := w.w.Write(w.scratch[:9])
	return err
}

// WriteNil writes the nil object.
func (w *Writer) WriteNil() error {
	return w.writeByte(markerNil)
}

// WriteBool writes a boolean object.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.writeByte(markerTrue)
	}
	return w.writeByte(markerFalse)
}

// WriteInt writes an integer object: fixint when it fits, otherwise the
// minimal signed width for negative values and the minimal unsigned
// width for non-negative values.
func (w *Writer) WriteInt(v Int) error {
	if v.sign {
		i := int64(v.value)
		switch {
		case i >= minNegFixInt:
			return w.writeByte(byte(i))
		case i >= math.MinInt8:
			return w.write2(markerInt8, uint8(i))
		case i >= math.MinInt16:
			return w.write3(markerInt16, uint16(i))
		case i >= math.MinInt32:
			return w.write5(markerInt32, uint32(i))
		default:
			return w.write9(markerInt64, uint64(i))
		}
	}
	u := v.value
	switch {
	case u <= maxPosFixInt:
		return w.writeByte(byte(u))
	case u <= math.MaxUint8:
		return w.write2(markerUint8, uint8(u))
	case u <= math.MaxUint16:
		return w.write3(markerUint16, uint16(u))
	case u <= math.MaxUint32:
		return w.write5(markerUint32, uint32(u))
	default:
		return w.write9(markerUint64, u)
	}
}

// WriteF32 writes a 32-bit float object.
func (w *Writer) WriteF32(v float32) error {
	return w.write5(markerF32, math.Float32bits(v))
}

// WriteF64 writes a 64-bit float object.
func (w *Writer) WriteF64(v float64) error {
	return w.write9(markerF64, math.Float64bits(v))
}

// WriteStr writes a string object. The bytes need not be valid UTF-8;
// the wire string type carries arbitrary bytes.
func (w *Writer) WriteStr(v []byte) error {
	n := len(v)
	var err error
	switch {
	case n <= maxFixStr:
		err = w.writeByte(fixStrMarker | byte(n))
	case n <= math.MaxUint8:
		err = w.write2(markerStr8, uint8(n))
	case n <= math.MaxUint16:
		err = w.write3(markerStr16, uint16(n))
	case uint64(n) <= math.MaxUint32:
		err = w.write5(markerStr32, uint32(n))
	default:
		return ErrTooLarge
	}
	if err != nil {
		return err
	}
	_, err = w.w.Write(v)
	return err
}

// WriteString writes a Go string as a string object.
func (w *Writer) WriteString(v string) error {
	return w.WriteStr([]byte(v))
}

// WriteBin writes a binary object.
func (w *Writer) WriteBin(v []byte) error {
	n := len(v)
	var err error
	switch {
	case n <= math.MaxUint8:
		err = w.write2(markerBin8, uint8(n))
	case n <= math.MaxUint16:
		err = w.write3(markerBin16, uint16(n))
	case uint64(n) <= math.MaxUint32:
		err = w.write5(markerBin32, uint32(n))
	default:
		return ErrTooLarge
	}
	if err != nil {
		return err
	}
	_, err = w.w.Write(v)
	return err
}

// WriteArrayHeader announces an array of n elements. The caller must
// follow it with exactly n complete values.
func (w *Writer) WriteArrayHeader(n uint32) error {
	switch {
	case n <= maxFixArray:
		return w.writeByte(fixArrayMarker | byte(n))
	case n <= math.MaxUint16:
		return w.write3(markerArray16, uint16(n))
	default:
		return w.write5(markerArray32, n)
	}
}

// WriteMapHeader announces a map of n key-value pairs. The caller must
// follow it with exactly 2*n complete values, alternating key and value.
func (w *Writer) WriteMapHeader(n uint32) error {
	switch {
	case n <= maxFixMap:
		return w.writeByte(fixMapMarker | byte(n))
	case n <= math.MaxUint16:
		return w.write3(markerMap16, uint16(n))
	default:
		return w.write5(markerMap32, n)
	}
}

// WriteExt writes a user-extension object.
func (w *Writer) WriteExt(typ int8, data []byte) error {
	n := len(data)
	var err error
	switch n {
	case 1:
		err = w.write2(markerFixExt1, uint8(typ))
	case 2:
		err = w.write2(markerFixExt2, uint8(typ))
	case 4:
		err = w.write2(markerFixExt4, uint8(typ))
	case 8:
		err = w.write2(markerFixExt8, uint8(typ))
	case 16:
		err = w.write2(markerFixExt16, uint8(typ))
	default:
		switch {
		case n <= math.MaxUint8:
			w.scratch[0] = markerExt8
			w.scratch[1] = uint8(n)
			w.scratch[2] = uint8(typ)
			_, err = w.w.Write(w.scratch[:3])
		case n <= math.MaxUint16:
			w.scratch[0] = markerExt16
			binary.BigEndian.PutUint16(w.scratch[1:3], uint16(n))
			w.scratch[3] = uint8(typ)
			_, err = w.w.Write(w.scratch[:4])
		case uint64(n) <= math.MaxUint32:
			w.scratch[0] = markerExt32
			binary.BigEndian.PutUint32(w.scratch[1:5], uint32(n))
			w.scratch[5] = uint8(typ)
			_, err = w.w.Write(w.scratch[:6])
		default:
			return ErrTooLarge
		}
	}
	if err != nil {
		return err
	}
	_, err = w.w.Write(data)
	return err
}
