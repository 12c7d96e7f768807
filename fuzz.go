//go:build gofuzz
// +build gofuzz

package tagpack

import (
	"github.com/google/go-cmp/cmp"
)

// Fuzz decodes arbitrary bytes into the Value model and, when that
// succeeds, checks that re-encoding and decoding again reproduces the
// same value. Inputs the decoder rejects are uninteresting; inputs that
// decode but fail the round trip panic.
func Fuzz(data []byte) int {
	r := NewReader(data)
	v, err := DecodeValue(r)
	if err != nil {
		return 0
	}

	out, err := Marshal(v)
	if err != nil {
		panic("failed to re-encode a decoded value: " + err.Error())
	}

	v2, err := DecodeValue(NewReader(out))
	if err != nil {
		panic("failed to decode re-encoded bytes: " + err.Error())
	}

	if !ValueEqual(v, v2) {
		diff := cmp.Diff(v, v2, cmp.Comparer(func(a, b Int) bool { return a == b }))
		panic("value changed across a round trip:\n" + diff)
	}
	return 1
}
