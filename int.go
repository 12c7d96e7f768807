package tagpack

import "strconv"

// Int is an integer ranging from -(2^63) to (2^64)-1. It unifies the
// seven MessagePack integer wire widths into one lossless carrier: when
// sign is false the value reads as a uint64, when sign is true the value
// reinterpreted as a two's-complement int64 is negative.
type Int struct {
	sign bool
	// Whenever sign is true, bit 63 of value is set.
	value uint64
}

// NewInt returns the Int representing a signed integer.
func NewInt(v int64) Int {
	if v >= 0 {
		return Int{value: uint64(v)}
	}
	return Int{sign: true, value: uint64(v)}
}

// NewUint returns the Int representing an unsigned integer.
func NewUint(v uint64) Int {
	return Int{value: v}
}

// IsNegative reports whether the integer is below zero.
func (i Int) IsNegative() bool { return i.sign }

// Int64 returns the value as an int64, or ErrIntegerOutOfRange when it
// exceeds the int64 domain.
func (i Int) Int64() (int64, error) {
	if i.sign {
		return int64(i.value), nil
	}
	v := int64(i.value)
	if v < 0 {
		return 0, ErrIntegerOutOfRange
	}
	return v, nil
}

// Uint64 returns the value as a uint64, or ErrIntegerOutOfRange for
// negative values.
func (i Int) Uint64() (uint64, error) {
	if i.sign {
		return 0, ErrIntegerOutOfRange
	}
	return i.value, nil
}

// Narrower conversions route through Int64/Uint64 and re-check range.

func (i Int) Int32() (int32, error) {
	v, err := i.Int64()
	if err != nil || v < -1<<31 || v > 1<<31-1 {
		return 0, ErrIntegerOutOfRange
	}
	return int32(v), nil
}

func (i Int) Int16() (int16, error) {
	v, err := i.Int64()
	if err != nil || v < -1<<15 || v > 1<<15-1 {
		return 0, ErrIntegerOutOfRange
	}
	return int16(v), nil
}

func (i Int) Int8() (int8, error) {
	v, err := i.Int64()
	if err != nil || v < -1<<7 || v > 1<<7-1 {
		return 0, ErrIntegerOutOfRange
	}
	return int8(v), nil
}

func (i Int) Uint32() (uint32, error) {
	v, err := i.Uint64()
	if err != nil || v > 1<<32-1 {
		return 0, ErrIntegerOutOfRange
	}
	return uint32(v), nil
}

func (i Int) Uint16() (uint16, error) {
	v, err := i.Uint64()
	if err != nil || v > 1<<16-1 {
		return 0, ErrIntegerOutOfRange
	}
	return uint16(v), nil
}

func (i Int) Uint8() (uint8, error) {
	v, err := i.Uint64()
	if err != nil || v > 1<<8-1 {
		return 0, ErrIntegerOutOfRange
	}
	return uint8(v), nil
}

func (i Int) String() string {
	if i.sign {
		return strconv.FormatInt(int64(i.value), 10)
	}
	return strconv.FormatUint(i.value, 10)
}
