package tagpack

// MessagePack marker bytes. Every multi-byte payload that follows a
// marker is big-endian.
const (
	markerNil      = 0xc0
	markerReserved = 0xc1 // never valid on the wire
	markerFalse    = 0xc2
	markerTrue     = 0xc3

	markerBin8  = 0xc4
	markerBin16 = 0xc5
	markerBin32 = 0xc6

	markerExt8  = 0xc7
	markerExt16 = 0xc8
	markerExt32 = 0xc9

	markerF32 = 0xca
	markerF64 = 0xcb

	markerUint8  = 0xcc
	markerUint16 = 0xcd
	markerUint32 = 0xce
	markerUint64 = 0xcf

	markerInt8  = 0xd0
	markerInt16 = 0xd1
	markerInt32 = 0xd2
	markerInt64 = 0xd3

	markerFixExt1  = 0xd4
	markerFixExt2  = 0xd5
	markerFixExt4  = 0xd6
	markerFixExt8  = 0xd7
	markerFixExt16 = 0xd8

	markerStr8  = 0xd9
	markerStr16 = 0xda
	markerStr32 = 0xdb

	markerArray16 = 0xdc
	markerArray32 = 0xdd

	markerMap16 = 0xde
	markerMap32 = 0xdf
)

// Fixed-form markers carry the value or length in the low bits of the
// marker byte itself.
const (
	fixStrMarker   = 0xa0 // 0xa0..0xbf, 5-bit length
	fixArrayMarker = 0x90 // 0x90..0x9f, 4-bit length
	fixMapMarker   = 0x80 // 0x80..0x8f, 4-bit length

	maxFixStr   = 31
	maxFixArray = 15
	maxFixMap   = 15

	minNegFixInt = -32
	maxPosFixInt = 127
)
