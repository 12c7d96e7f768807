package tagpack

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// roundTrips marshals each value and decodes it back into a fresh
// instance of the same type, comparing with go-cmp. Int's fields are
// unexported, so it gets its own comparer.
func roundTrips(t *testing.T, values []interface{}) {
	t.Helper()
	opts := cmp.Options{cmp.Comparer(func(a, b Int) bool { return a == b })}
	for _, v := range values {
		data, err := Marshal(v)
		if err != nil {
			t.Errorf("Marshal(%#v): %v", v, err)
			continue
		}
		out := reflect.New(reflect.TypeOf(v))
		if err := Unmarshal(data, out.Interface()); err != nil {
			t.Errorf("Unmarshal(% x) into %T: %v", data, v, err)
			continue
		}
		if diff := cmp.Diff(v, out.Elem().Interface(), opts); diff != "" {
			t.Errorf("round trip of %#v (wire % x):\n%s", v, data, diff)
		}
	}
}

func TestRoundTripScalars(t *testing.T) {
	roundTrips(t, []interface{}{
		false,
		true,
		int(-7),
		int8(-128),
		int16(300),
		int32(-70000),
		int64(1) << 40,
		uint(7),
		uint8(255),
		uint16(65535),
		uint32(1) << 20,
		uint64(1) << 63,
		float32(1.5),
		float64(-2.25),
		"",
		"hello",
		"héllo wörld",
	})
}

func TestRoundTripComposites(t *testing.T) {
	s := "opt"
	roundTrips(t, []interface{}{
		[]byte{1, 2, 3},
		[]uint32{1, 2, 3},
		[]string{},
		[][]bool{{true}, {false, true}},
		[4]byte{1, 2, 3, 4},
		[2]string{"a", "b"},
		map[uint32]string{1: "one", 2: "two"},
		map[string][]byte{"k": {0xff}},
		&s,
		(*string)(nil),
		[]*uint32{nil, ptrUint32(9)},
	})
}

func ptrUint32(v uint32) *uint32 { return &v }

func TestRoundTripNested(t *testing.T) {
	type leaf struct {
		Tag  string `tagpack:"0"`
		Data []byte `tagpack:"1"`
	}
	type tree struct {
		Name     string         `tagpack:"0"`
		Children []leaf         `tagpack:"1"`
		Weights  map[uint32]F64 `tagpack:"2"`
		Extra    *leaf          `tagpack:"3,optional"`
		Raw      Value          `tagpack:"4"`
	}
	roundTrips(t, []interface{}{
		tree{
			Name: "root",
			Children: []leaf{
				{Tag: "a", Data: []byte{1}},
				{Tag: "b", Data: []byte{}},
			},
			Weights: map[uint32]F64{7: 0.5},
			Extra:   &leaf{Tag: "x", Data: []byte{9}},
			Raw:     Array{Nil{}, Str("dyn")},
		},
		tree{
			Name:     "empty",
			Children: []leaf{},
			Weights:  map[uint32]F64{},
			Raw:      Nil{},
		},
	})
}

// celsius exercises the custom codec hooks: it encodes as a fixext4
// rather than anything the reflection path would pick.
type celsius float32

func (c celsius) MarshalPack(w *Writer) error {
	var buf [4]byte
	v := uint32(int32(c * 100))
	buf[0] = byte(v >> 24)
	buf[1] = byte(v >> 16)
	buf[2] = byte(v >> 8)
	buf[3] = byte(v)
	return w.WriteExt(17, buf[:])
}

func (c *celsius) UnmarshalPack(r *Reader) error {
	typ, data, err := r.ReadExt()
	if err != nil {
		return err
	}
	if typ != 17 || len(data) != 4 {
		return ErrInvalidType
	}
	v := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	*c = celsius(int32(v)) / 100
	return nil
}

func TestCustomCodec(t *testing.T) {
	data, err := Marshal(celsius(21.5))
	if err != nil {
		t.Fatal(err)
	}
	want := mustHex(t, "d6 11 00000866")
	if string(data) != string(want) {
		t.Fatalf("Marshal(celsius) = % x, want % x", data, want)
	}

	var c celsius
	if err := Unmarshal(data, &c); err != nil {
		t.Fatal(err)
	}
	if c != 21.5 {
		t.Errorf("got %v", c)
	}

	// The hook also fires for fields inside reflected structs.
	type reading struct {
		Temp celsius `tagpack:"0"`
	}
	roundTrips(t, []interface{}{reading{Temp: -4.25}})
}

func TestUnsupportedTypes(t *testing.T) {
	for _, v := range []interface{}{
		make(chan int),
		func() {},
		complex(1, 2),
	} {
		if _, err := Marshal(v); err == nil {
			t.Errorf("Marshal(%T) succeeded", v)
		}
	}
}
