package tagpack

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Struct layout is declared with `tagpack` field tags:
//
//	type Human struct {
//		Age  uint32  `tagpack:"0"`
//		Name *string `tagpack:"1,optional"`
//	}
//
// The tag number identifies the field on the wire in place of its name.
// Options: "optional" (pointer field, omitted from the map when nil),
// "flatten" (splice a nested tagged struct's entries, no tag number),
// and "-" to ignore a field. Struct-level shape is declared on a
// zero-width marker field:
//
//	type Point struct {
//		_struct struct{} `tagpack:",untagged"`
//		X       uint32
//		Y       uint32
//	}
//
// "untagged" encodes the struct as a positional array; "transparent"
// makes a single-field wrapper encode as its inner value with no wire
// footprint of its own.

const structTagKey = "tagpack"
const structOptsField = "_struct"

type structField struct {
	index    int
	name     string
	tag      uint32
	optional bool
	flatten  bool
	inner    *structSchema // set for flatten fields
}

type structSchema struct {
	name        string
	untagged    bool
	transparent bool
	fields      []structField // declaration order
	byTag       map[uint32]int
}

type schemaEntry struct {
	schema *structSchema
	err    error
}

var schemaCache sync.Map // reflect.Type -> schemaEntry

// schemaOf returns the cached wire schema for a struct type, building
// and validating it on first use. An invalid declaration is cached too,
// so every Marshal/Unmarshal of the type reports the same error.
func schemaOf(t reflect.Type) (*structSchema, error) {
	if e, ok := schemaCache.Load(t); ok {
		entry := e.(schemaEntry)
		return entry.schema, entry.err
	}
	schema, err := buildSchema(t)
	schemaCache.Store(t, schemaEntry{schema, err})
	return schema, err
}

func parseFieldTag(tag string) (name string, opts []string) {
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

func buildSchema(t reflect.Type) (*structSchema, error) {
	ss := &structSchema{name: t.Name(), byTag: make(map[uint32]int)}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		raw, hasTag := f.Tag.Lookup(structTagKey)

		if f.Name == structOptsField {
			_, opts := parseFieldTag(raw)
			for _, o := range opts {
				switch o {
				case "untagged":
					ss.untagged = true
				case "transparent":
					ss.transparent = true
				default:
					return nil, fmt.Errorf("tagpack: %s: unknown struct option %q", t, o)
				}
			}
			continue
		}
		if f.PkgPath != "" {
			// unexported
			continue
		}

		name, opts := parseFieldTag(raw)
		if name == "-" {
			continue
		}

		sf := structField{index: i, name: f.Name}
		for _, o := range opts {
			switch o {
			case "optional":
				sf.optional = true
			case "flatten":
				sf.flatten = true
			case "":
			default:
				return nil, fmt.Errorf("tagpack: %s.%s: unknown option %q", t, f.Name, o)
			}
		}

		if ss.untagged || ss.transparent {
			if hasTag && raw != "" {
				return nil, fmt.Errorf("tagpack: %s.%s: untagged and transparent structs take no field tags", t, f.Name)
			}
			ss.fields = append(ss.fields, sf)
			continue
		}

		if sf.flatten {
			if sf.optional || name != "" {
				return nil, fmt.Errorf("tagpack: %s.%s: flatten fields take no tag number and cannot be optional", t, f.Name)
			}
			if f.Type.Kind() != reflect.Struct {
				return nil, fmt.Errorf("tagpack: %s.%s: flatten field must be a struct", t, f.Name)
			}
			inner, err := schemaOf(f.Type)
			if err != nil {
				return nil, err
			}
			if inner.untagged || inner.transparent {
				return nil, fmt.Errorf("tagpack: %s.%s: flatten field must be a tagged struct", t, f.Name)
			}
			sf.inner = inner
			ss.fields = append(ss.fields, sf)
			continue
		}

		if name == "" {
			return nil, fmt.Errorf("tagpack: %s.%s: missing tag number", t, f.Name)
		}
		tag64, err := strconv.ParseUint(name, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("tagpack: %s.%s: invalid tag number %q", t, f.Name, name)
		}
		sf.tag = uint32(tag64)
		if _, dup := ss.byTag[sf.tag]; dup {
			return nil, fmt.Errorf("tagpack: %s: duplicate tag number %d", t, sf.tag)
		}
		if sf.optional && f.Type.Kind() != reflect.Ptr {
			return nil, fmt.Errorf("tagpack: %s.%s: optional fields must be pointers", t, f.Name)
		}
		ss.byTag[sf.tag] = len(ss.fields)
		ss.fields = append(ss.fields, sf)
	}

	if ss.untagged && ss.transparent {
		return nil, fmt.Errorf("tagpack: %s: untagged and transparent are mutually exclusive", t)
	}
	if ss.transparent && len(ss.fields) != 1 {
		return nil, fmt.Errorf("tagpack: %s: transparent structs must have exactly one field", t)
	}
	if len(ss.fields) == 0 {
		return nil, fmt.Errorf("tagpack: %s: structs with no encodable fields are not supported", t)
	}
	return ss, nil
}
