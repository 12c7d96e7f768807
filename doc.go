/*
Package tagpack implements a schema-directed MessagePack codec keyed by
integer field tags instead of field names.

Structs encode as maps from tag number to field value, declared with
`tagpack:"N"` field tags, so renaming a Go field never changes the wire
format and old readers skip tags they do not know. Alternative struct
shapes (positional arrays, transparent wrappers) are declared on a
zero-width _struct marker field, and sum-type enums are modeled as
registered interface types, see RegisterEnum.

The package exposes three layers. Marshal and Unmarshal are the
reflection-driven entry points. Value is a dynamic document model for
payloads whose shape is not known at compile time. Writer and Reader are
the wire-level primitives underneath both, usable directly from
MarshalPack and UnmarshalPack implementations.

Errors split into two kinds: ErrInvalidInput means the byte stream
itself is malformed, while errors wrapping ErrValidation mean
well-formed bytes did not match the requested schema. Only the latter
participate in untagged-enum trial decoding.
*/
package tagpack
