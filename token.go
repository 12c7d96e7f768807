package tagpack

import "fmt"

// TokenType identifies the shape of one wire-level primitive.
type TokenType uint8

const (
	TokenNil TokenType = iota
	TokenBool
	TokenInt
	TokenF32
	TokenF64
	TokenStr
	TokenBin
	TokenArray
	TokenMap
	TokenExt
)

func (t TokenType) String() string {
	switch t {
	case TokenNil:
		return "nil"
	case TokenBool:
		return "bool"
	case TokenInt:
		return "int"
	case TokenF32:
		return "f32"
	case TokenF64:
		return "f64"
	case TokenStr:
		return "str"
	case TokenBin:
		return "bin"
	case TokenArray:
		return "array"
	case TokenMap:
		return "map"
	case TokenExt:
		return "ext"
	default:
		return "unknown"
	}
}

// Token is one decoded wire primitive. Array and Map tokens are headers
// only: the reader does not consume their children, the surrounding
// logic must pull exactly Len (arrays) or 2*Len (maps) further complete
// values before control returns above the composite.
//
// Bytes holds the payload of Str, Bin and Ext tokens and aliases the
// reader's input buffer; it is valid until the caller mutates that
// buffer.
type Token struct {
	Type    TokenType
	Bool    bool
	Int     Int
	F32     float32
	F64     float64
	Bytes   []byte
	Len     uint32
	ExtType int8
}

func (t Token) String() string {
	switch t.Type {
	case TokenBool:
		return fmt.Sprintf("bool(%v)", t.Bool)
	case TokenInt:
		return fmt.Sprintf("int(%s)", t.Int)
	case TokenF32:
		return fmt.Sprintf("f32(%v)", t.F32)
	case TokenF64:
		return fmt.Sprintf("f64(%v)", t.F64)
	case TokenStr:
		return fmt.Sprintf("str(%q)", t.Bytes)
	case TokenBin:
		return fmt.Sprintf("bin(% x)", t.Bytes)
	case TokenArray:
		return fmt.Sprintf("array(%d)", t.Len)
	case TokenMap:
		return fmt.Sprintf("map(%d)", t.Len)
	case TokenExt:
		return fmt.Sprintf("ext(%d, % x)", t.ExtType, t.Bytes)
	default:
		return t.Type.String()
	}
}
