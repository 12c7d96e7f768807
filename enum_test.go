package tagpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event interface{ isEvent() }

type quit struct{}
type keypress uint32
type resize struct {
	W uint32 `tagpack:"0"`
	H uint32 `tagpack:"1"`
}

func (quit) isEvent()     {}
func (keypress) isEvent() {}
func (resize) isEvent()   {}

type animal interface{ isAnimal() }

type cat string
type dog uint32

func (cat) isAnimal() {}
func (dog) isAnimal() {}

func init() {
	RegisterEnum((*event)(nil),
		Variant{Tag: 0, Proto: quit{}},
		Variant{Tag: 1, Proto: keypress(0)},
		Variant{Tag: 2, Proto: resize{}},
	)
	// Order matters: cat is tried before dog.
	RegisterUntaggedEnum((*animal)(nil), cat(""), dog(0))
}

func marshalEvent(t *testing.T, ev event) []byte {
	t.Helper()
	data, err := Marshal(&ev)
	require.NoError(t, err)
	return data
}

func unmarshalEvent(t *testing.T, data []byte) event {
	t.Helper()
	var ev event
	require.NoError(t, Unmarshal(data, &ev))
	return ev
}

func TestEnumUnitVariant(t *testing.T) {
	// A unit variant is the bare tag integer, not a one-element array.
	data := marshalEvent(t, quit{})
	require.Equal(t, mustHex(t, "00"), data)
	assert.Equal(t, quit{}, unmarshalEvent(t, data))
}

func TestEnumPayloadVariant(t *testing.T) {
	data := marshalEvent(t, keypress(42))
	require.Equal(t, mustHex(t, "92 01 2a"), data)
	assert.Equal(t, keypress(42), unmarshalEvent(t, data))

	data = marshalEvent(t, resize{W: 3, H: 4})
	require.Equal(t, mustHex(t, "92 02 82 00 03 01 04"), data)
	assert.Equal(t, resize{W: 3, H: 4}, unmarshalEvent(t, data))
}

func TestEnumInStruct(t *testing.T) {
	type window struct {
		Ev event `tagpack:"0"`
	}
	data, err := Marshal(window{Ev: keypress(7)})
	require.NoError(t, err)
	require.Equal(t, mustHex(t, "81 00 92 01 07"), data)

	var w window
	require.NoError(t, Unmarshal(data, &w))
	assert.Equal(t, keypress(7), w.Ev)
}

func TestEnumDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown unit tag", "05", ErrUnknownVariant},
		{"unknown array tag", "92 09 2a", ErrUnknownVariant},
		{"unit tag in array form", "92 00 2a", ErrInvalidType},
		{"payload tag in unit form", "01", ErrInvalidType},
		{"one-element array", "91 01", ErrInvalidLength},
		{"three-element array", "93 01 2a 2a", ErrInvalidLength},
		{"not an enum shape", "a3 616263", ErrInvalidType},
	}
	for _, tt := range tests {
		var ev event
		err := Unmarshal(mustHex(t, tt.in), &ev)
		assert.ErrorIs(t, err, tt.want, tt.name)
		assert.ErrorIs(t, err, ErrValidation, tt.name)
	}
}

func TestUntaggedEnum(t *testing.T) {
	var a animal = dog(3)
	data, err := Marshal(&a)
	require.NoError(t, err)
	// No tag, no array: just the payload.
	require.Equal(t, mustHex(t, "03"), data)

	var back animal
	require.NoError(t, Unmarshal(data, &back))
	assert.Equal(t, dog(3), back)

	// A string picks cat without dog ever matching.
	require.NoError(t, Unmarshal(mustHex(t, "a1 78"), &back))
	assert.Equal(t, cat("x"), back)
}

func TestUntaggedEnumNoMatch(t *testing.T) {
	var a animal
	err := Unmarshal(mustHex(t, "c3"), &a)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestUntaggedEnumWireErrorAborts(t *testing.T) {
	// A truncated payload is a stream error, never a cue to try the next
	// variant.
	var a animal
	err := Unmarshal(mustHex(t, "a5 68"), &a)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEnumRegistrationPanics(t *testing.T) {
	type other interface{ isOther() }

	assert.Panics(t, func() { RegisterEnum((*other)(nil)) })
	assert.Panics(t, func() { RegisterEnum(quit{}) })
	assert.Panics(t, func() {
		// quit does not implement other.
		RegisterEnum((*other)(nil), Variant{Tag: 0, Proto: quit{}})
	})
	assert.Panics(t, func() {
		RegisterUntaggedEnum((*animal)(nil), cat("")) // already registered
	})
}

func TestEnumUnregisteredVariantValue(t *testing.T) {
	var ev event = unregisteredEvent{}
	_, err := Marshal(&ev)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}

// unregisteredEvent implements event but is never registered as a
// variant, so encoding it must fail.
type unregisteredEvent struct{}

func (unregisteredEvent) isEvent() {}
