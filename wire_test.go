package tagpack

import (
	"bytes"
	"encoding/hex"
	"math"
	"strings"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return b
}

func marshalWith(t *testing.T, f func(w *Writer) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := f(NewWriter(&buf)); err != nil {
		t.Fatalf("write: %v", err)
	}
	return buf.Bytes()
}

func TestWriteIntMarkers(t *testing.T) {
	tests := []struct {
		v    Int
		want string
	}{
		{NewUint(0), "00"},
		{NewUint(127), "7f"},
		{NewUint(128), "cc 80"},
		{NewUint(255), "cc ff"},
		{NewUint(256), "cd 0100"},
		{NewUint(65535), "cd ffff"},
		{NewUint(65536), "ce 00010000"},
		{NewUint(math.MaxUint32), "ce ffffffff"},
		{NewUint(math.MaxUint32 + 1), "cf 0000000100000000"},
		{NewUint(math.MaxUint64), "cf ffffffffffffffff"},
		{NewInt(-1), "ff"},
		{NewInt(-32), "e0"},
		{NewInt(-33), "d0 df"},
		{NewInt(-128), "d0 80"},
		{NewInt(-129), "d1 ff7f"},
		{NewInt(-32768), "d1 8000"},
		{NewInt(-32769), "d2 ffff7fff"},
		{NewInt(math.MinInt32), "d2 80000000"},
		{NewInt(math.MinInt32 - 1), "d3 ffffffff7fffffff"},
		{NewInt(math.MinInt64), "d3 8000000000000000"},
	}
	for _, tt := range tests {
		got := marshalWith(t, func(w *Writer) error { return w.WriteInt(tt.v) })
		want := mustHex(t, tt.want)
		if !bytes.Equal(got, want) {
			t.Errorf("WriteInt(%s) = % x, want % x", tt.v, got, want)
		}

		back, err := NewReader(want).ReadInt()
		if err != nil {
			t.Errorf("ReadInt(% x): %v", want, err)
		} else if back != tt.v {
			t.Errorf("ReadInt(% x) = %s, want %s", want, back, tt.v)
		}
	}
}

func TestWriteScalars(t *testing.T) {
	tests := []struct {
		name string
		f    func(w *Writer) error
		want string
	}{
		{"nil", func(w *Writer) error { return w.WriteNil() }, "c0"},
		{"false", func(w *Writer) error { return w.WriteBool(false) }, "c2"},
		{"true", func(w *Writer) error { return w.WriteBool(true) }, "c3"},
		{"f32", func(w *Writer) error { return w.WriteF32(1.5) }, "ca 3fc00000"},
		{"f64", func(w *Writer) error { return w.WriteF64(1.5) }, "cb 3ff8000000000000"},
		{"str empty", func(w *Writer) error { return w.WriteString("") }, "a0"},
		{"str fix", func(w *Writer) error { return w.WriteString("hello") }, "a5 68656c6c6f"},
		{"str 8", func(w *Writer) error { return w.WriteString(strings.Repeat("a", 32)) },
			"d9 20 " + strings.Repeat("61", 32)},
		{"str 16", func(w *Writer) error { return w.WriteString(strings.Repeat("a", 256)) },
			"da 0100 " + strings.Repeat("61", 256)},
		{"bin empty", func(w *Writer) error { return w.WriteBin(nil) }, "c4 00"},
		{"bin 8", func(w *Writer) error { return w.WriteBin([]byte{1, 2, 3}) }, "c4 03 010203"},
		{"array fix", func(w *Writer) error { return w.WriteArrayHeader(15) }, "9f"},
		{"array 16", func(w *Writer) error { return w.WriteArrayHeader(16) }, "dc 0010"},
		{"array 32", func(w *Writer) error { return w.WriteArrayHeader(1 << 16) }, "dd 00010000"},
		{"map fix", func(w *Writer) error { return w.WriteMapHeader(15) }, "8f"},
		{"map 16", func(w *Writer) error { return w.WriteMapHeader(16) }, "de 0010"},
		{"map 32", func(w *Writer) error { return w.WriteMapHeader(1 << 16) }, "df 00010000"},
		{"fixext1", func(w *Writer) error { return w.WriteExt(5, []byte{0xaa}) }, "d4 05 aa"},
		{"fixext2", func(w *Writer) error { return w.WriteExt(5, []byte{1, 2}) }, "d5 05 0102"},
		{"fixext4", func(w *Writer) error { return w.WriteExt(-1, []byte{1, 2, 3, 4}) }, "d6 ff 01020304"},
		{"ext8", func(w *Writer) error { return w.WriteExt(7, []byte{1, 2, 3}) }, "c7 03 07 010203"},
		{"ext8 empty", func(w *Writer) error { return w.WriteExt(7, nil) }, "c7 00 07"},
	}
	for _, tt := range tests {
		got := marshalWith(t, tt.f)
		want := mustHex(t, tt.want)
		if !bytes.Equal(got, want) {
			t.Errorf("%s = % x, want % x", tt.name, got, want)
		}
	}
}

func TestReadToken(t *testing.T) {
	tests := []struct {
		in   string
		want string // Token.String form
	}{
		{"c0", "nil"},
		{"c2", "bool(false)"},
		{"c3", "bool(true)"},
		{"2a", "int(42)"},
		{"e0", "int(-32)"},
		{"cc ff", "int(255)"},
		{"d3 8000000000000000", "int(-9223372036854775808)"},
		{"cf ffffffffffffffff", "int(18446744073709551615)"},
		{"ca 3fc00000", "f32(1.5)"},
		{"cb 3ff8000000000000", "f64(1.5)"},
		{"a3 616263", `str("abc")`},
		{"d9 03 616263", `str("abc")`},
		{"c4 02 beef", "bin(be ef)"},
		{"93", "array(3)"},
		{"dc 0010", "array(16)"},
		{"82", "map(2)"},
		{"de 0010", "map(16)"},
		{"d4 05 aa", "ext(5, aa)"},
		{"c8 0001 ff 00", "ext(-1, 00)"},
	}
	for _, tt := range tests {
		tok, err := NewReader(mustHex(t, tt.in)).ReadToken()
		if err != nil {
			t.Errorf("ReadToken(%s): %v", tt.in, err)
			continue
		}
		if tok.String() != tt.want {
			t.Errorf("ReadToken(%s) = %s, want %s", tt.in, tok, tt.want)
		}
	}
}

func TestReadTokenInvalid(t *testing.T) {
	tests := []string{
		"",                    // empty input
		"c1",                  // reserved marker
		"cc",                  // uint8 missing payload
		"cd 01",               // uint16 truncated
		"d3 00",               // int64 truncated
		"a5 6865",             // fixstr payload truncated
		"d9",                  // str8 missing length
		"d9 05 68",            // str8 payload truncated
		"c4 04 0102",          // bin8 payload truncated
		"c7 02 05 aa",         // ext8 payload truncated
		"ca 0000",             // f32 truncated
		"cb 00000000000000",   // f64 truncated
		"dc 00",               // array16 header truncated
		"df 000000",           // map32 header truncated
	}
	for _, in := range tests {
		_, err := NewReader(mustHex(t, in)).ReadToken()
		if err != ErrInvalidInput {
			t.Errorf("ReadToken(%q) err = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"scalar", "2a"},
		{"str", "a5 68656c6c6f"},
		{"empty array", "90"},
		{"nested array", "92 91 c0 a1 78"},
		{"map", "82 00 2a 01 a5 68656c6c6f"},
		{"map of maps", "81 00 81 01 92 c2 c3"},
	}
	for _, tt := range tests {
		data := mustHex(t, tt.in)
		// A trailing byte proves Skip stops exactly after one value.
		r := NewReader(append(data, 0x2a))
		if err := r.Skip(); err != nil {
			t.Errorf("%s: Skip: %v", tt.name, err)
			continue
		}
		if r.Pos() != len(data) {
			t.Errorf("%s: Skip stopped at %d, want %d", tt.name, r.Pos(), len(data))
		}
	}

	if err := NewReader(mustHex(t, "92 c0")).Skip(); err != ErrInvalidInput {
		t.Errorf("Skip of truncated array err = %v, want ErrInvalidInput", err)
	}
}

func TestTypedReadMismatch(t *testing.T) {
	boolWire := mustHex(t, "c3")
	if _, err := NewReader(boolWire).ReadInt(); err != ErrInvalidType {
		t.Errorf("ReadInt(bool) err = %v, want ErrInvalidType", err)
	}
	if _, err := NewReader(boolWire).ReadStr(); err != ErrInvalidType {
		t.Errorf("ReadStr(bool) err = %v, want ErrInvalidType", err)
	}
	if err := NewReader(boolWire).ReadNil(); err != ErrInvalidType {
		t.Errorf("ReadNil(bool) err = %v, want ErrInvalidType", err)
	}

	// f32 and f64 are distinct; neither read accepts the other.
	if _, err := NewReader(mustHex(t, "cb 3ff8000000000000")).ReadF32(); err != ErrInvalidType {
		t.Errorf("ReadF32(f64) err = %v, want ErrInvalidType", err)
	}
	if _, err := NewReader(mustHex(t, "ca 3fc00000")).ReadF64(); err != ErrInvalidType {
		t.Errorf("ReadF64(f32) err = %v, want ErrInvalidType", err)
	}

	// str and bin are distinct as well.
	if _, err := NewReader(mustHex(t, "a3 616263")).ReadBin(); err != ErrInvalidType {
		t.Errorf("ReadBin(str) err = %v, want ErrInvalidType", err)
	}
	if _, err := NewReader(mustHex(t, "c4 03 616263")).ReadStr(); err != ErrInvalidType {
		t.Errorf("ReadStr(bin) err = %v, want ErrInvalidType", err)
	}
}

func TestReadStringUTF8(t *testing.T) {
	s, err := NewReader(mustHex(t, "a3 e282ac")).ReadString()
	if err != nil || s != "€" {
		t.Errorf("ReadString = %q, %v", s, err)
	}

	// Raw bytes pass through ReadStr but fail ReadString.
	if _, err := NewReader(mustHex(t, "a2 80ff")).ReadStr(); err != nil {
		t.Errorf("ReadStr of non-UTF-8: %v", err)
	}
	if _, err := NewReader(mustHex(t, "a2 80ff")).ReadString(); err != ErrInvalidUTF8 {
		t.Errorf("ReadString of non-UTF-8 err = %v, want ErrInvalidUTF8", err)
	}
}

func TestPosRestore(t *testing.T) {
	r := NewReader(mustHex(t, "2a a1 78"))
	save := r.Pos()
	if _, err := r.ReadInt(); err != nil {
		t.Fatal(err)
	}
	r.SetPos(save)
	tok, err := r.ReadToken()
	if err != nil || tok.String() != "int(42)" {
		t.Errorf("after SetPos: %s, %v", tok, err)
	}
}
