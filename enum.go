package tagpack

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Go has no sum types, so enums are interface types whose variants are
// registered up front, in the manner of gob.Register:
//
//	type Event interface{ isEvent() }
//
//	type Quit struct{}        // unit variant: encodes as the bare tag
//	type Keypress uint32      // payload variant: encodes as [tag, payload]
//
//	func init() {
//		tagpack.RegisterEnum((*Event)(nil),
//			tagpack.Variant{Tag: 0, Proto: Quit{}},
//			tagpack.Variant{Tag: 1, Proto: Keypress(0)},
//		)
//	}
//
// A variant whose prototype is an empty struct is a unit variant; any
// other prototype is a single-payload variant. For untagged enums the
// wire carries no tag at all and decoding tries each variant in
// registration order, so registration order is semantic.

// Variant declares one variant of a tagged enum.
type Variant struct {
	Tag   uint32
	Proto interface{}
}

type variantDesc struct {
	tag  uint32
	typ  reflect.Type
	unit bool
}

type enumSchema struct {
	iface    reflect.Type
	untagged bool
	variants []variantDesc // declaration order
	byTag    map[uint32]int
	byType   map[reflect.Type]int
}

var (
	enumsMu sync.RWMutex
	enums   = make(map[reflect.Type]*enumSchema)
)

func enumOf(t reflect.Type) *enumSchema {
	enumsMu.RLock()
	es := enums[t]
	enumsMu.RUnlock()
	return es
}

func ifaceTypeOf(iface interface{}) reflect.Type {
	t := reflect.TypeOf(iface)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Interface {
		panic("tagpack: RegisterEnum wants a nil pointer to the interface type, e.g. (*Event)(nil)")
	}
	return t.Elem()
}

func isUnit(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

// RegisterEnum declares an interface type as a tagged enum. Unit
// variants encode as the bare tag integer, payload variants as a
// two-element array of tag and payload. Invalid registrations panic.
func RegisterEnum(iface interface{}, variants ...Variant) {
	it := ifaceTypeOf(iface)
	if len(variants) == 0 {
		panic(fmt.Sprintf("tagpack: enum %s has no variants", it))
	}
	es := &enumSchema{
		iface:  it,
		byTag:  make(map[uint32]int),
		byType: make(map[reflect.Type]int),
	}
	for _, v := range variants {
		vt := reflect.TypeOf(v.Proto)
		if vt == nil || !vt.Implements(it) {
			panic(fmt.Sprintf("tagpack: enum %s: variant prototype %v does not implement it", it, vt))
		}
		if _, dup := es.byTag[v.Tag]; dup {
			panic(fmt.Sprintf("tagpack: enum %s: duplicate variant tag %d", it, v.Tag))
		}
		if _, dup := es.byType[vt]; dup {
			panic(fmt.Sprintf("tagpack: enum %s: duplicate variant type %s", it, vt))
		}
		es.byTag[v.Tag] = len(es.variants)
		es.byType[vt] = len(es.variants)
		es.variants = append(es.variants, variantDesc{tag: v.Tag, typ: vt, unit: isUnit(vt)})
	}
	register(it, es)
}

// RegisterUntaggedEnum declares an interface type as an untagged enum:
// values encode exactly as their payload, and decoding tries each
// variant in the given order, taking the first that decodes cleanly.
// Every variant must carry a payload.
func RegisterUntaggedEnum(iface interface{}, protos ...interface{}) {
	it := ifaceTypeOf(iface)
	if len(protos) == 0 {
		panic(fmt.Sprintf("tagpack: enum %s has no variants", it))
	}
	es := &enumSchema{
		iface:    it,
		untagged: true,
		byType:   make(map[reflect.Type]int),
	}
	for _, p := range protos {
		vt := reflect.TypeOf(p)
		if vt == nil || !vt.Implements(it) {
			panic(fmt.Sprintf("tagpack: enum %s: variant prototype %v does not implement it", it, vt))
		}
		if isUnit(vt) {
			panic(fmt.Sprintf("tagpack: enum %s: untagged variants must carry a payload", it))
		}
		if _, dup := es.byType[vt]; dup {
			panic(fmt.Sprintf("tagpack: enum %s: duplicate variant type %s", it, vt))
		}
		es.byType[vt] = len(es.variants)
		es.variants = append(es.variants, variantDesc{typ: vt})
	}
	register(it, es)
}

func register(it reflect.Type, es *enumSchema) {
	enumsMu.Lock()
	defer enumsMu.Unlock()
	if _, dup := enums[it]; dup {
		panic(fmt.Sprintf("tagpack: enum %s registered twice", it))
	}
	enums[it] = es
}

func encodeEnum(w *Writer, es *enumSchema, rv reflect.Value) error {
	concrete := rv.Elem()
	idx, ok := es.byType[concrete.Type()]
	if !ok {
		return fmt.Errorf("tagpack: %s is not a registered variant of %s", concrete.Type(), es.iface)
	}
	vd := es.variants[idx]

	if es.untagged {
		return encode(w, concrete)
	}
	if vd.unit {
		return w.WriteInt(NewUint(uint64(vd.tag)))
	}
	if err := w.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := w.WriteInt(NewUint(uint64(vd.tag))); err != nil {
		return err
	}
	return encode(w, concrete)
}

func decodeEnum(r *Reader, es *enumSchema, rv reflect.Value) error {
	if es.untagged {
		// Trial decoding: validation failures roll the cursor back and
		// move on to the next variant; wire-level errors abort.
		for _, vd := range es.variants {
			save := r.Pos()
			pv := reflect.New(vd.typ)
			err := decode(r, pv.Elem())
			if err == nil {
				rv.Set(pv.Elem())
				return nil
			}
			if !errors.Is(err, ErrValidation) {
				return err
			}
			r.SetPos(save)
		}
		return fmt.Errorf("%w: no variant of %s matched", ErrUnknownVariant, es.iface)
	}

	tok, err := r.ReadToken()
	if err != nil {
		return err
	}
	switch tok.Type {
	case TokenInt:
		tag, err := tok.Int.Uint32()
		if err != nil {
			return err
		}
		idx, ok := es.byTag[tag]
		if !ok {
			return fmt.Errorf("%w: %s has no variant %d", ErrUnknownVariant, es.iface, tag)
		}
		vd := es.variants[idx]
		if !vd.unit {
			return fmt.Errorf("%w: variant %d of %s carries a payload", ErrInvalidType, tag, es.iface)
		}
		rv.Set(reflect.Zero(vd.typ))
		return nil

	case TokenArray:
		if tok.Len != 2 {
			return fmt.Errorf("%w: enum array must have 2 elements, got %d", ErrInvalidLength, tok.Len)
		}
		key, err := r.ReadInt()
		if err != nil {
			return err
		}
		tag, err := key.Uint32()
		if err != nil {
			return err
		}
		idx, ok := es.byTag[tag]
		if !ok {
			return fmt.Errorf("%w: %s has no variant %d", ErrUnknownVariant, es.iface, tag)
		}
		vd := es.variants[idx]
		if vd.unit {
			return fmt.Errorf("%w: variant %d of %s carries no payload", ErrInvalidType, tag, es.iface)
		}
		pv := reflect.New(vd.typ)
		if err := decode(r, pv.Elem()); err != nil {
			return err
		}
		rv.Set(pv.Elem())
		return nil
	}
	return ErrInvalidType
}
