package tagpack

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the wire-level error: the byte stream is malformed
// or truncated. It is always fatal and is never treated as a signal to
// try another decoding, not even inside untagged-enum trial decoding.
var ErrInvalidInput = errors.New("tagpack: invalid input")

// ErrValidation is the base of the schema-level error taxonomy. Every
// schema-level failure wraps it, so errors.Is(err, ErrValidation)
// distinguishes "the bytes were fine but didn't match the schema" from
// a corrupt stream.
var ErrValidation = errors.New("tagpack: validation failed")

// Schema-level errors.
var (
	ErrInvalidType       = fmt.Errorf("%w: unexpected type", ErrValidation)
	ErrInvalidLength     = fmt.Errorf("%w: unexpected length", ErrValidation)
	ErrDuplicatedField   = fmt.Errorf("%w: duplicated field", ErrValidation)
	ErrMissingField      = fmt.Errorf("%w: missing field", ErrValidation)
	ErrUnknownVariant    = fmt.Errorf("%w: unknown variant", ErrValidation)
	ErrIntegerOutOfRange = fmt.Errorf("%w: integer out of range", ErrValidation)
	ErrInvalidUTF8       = fmt.Errorf("%w: invalid UTF-8", ErrValidation)
)

// Errors reporting misuse of the API rather than bad data.
var (
	ErrNotPointer = errors.New("tagpack: expected non-nil pointer")
	ErrTooLarge   = errors.New("tagpack: object length exceeds uint32")
)
