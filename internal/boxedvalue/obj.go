// Package boxedvalue implements the uniform value representation from spec
// §4.5: every Covalent value lowers to an Obj — a 4-byte payload, an i8 tag
// discriminating how that payload decodes, and a pointer reserved for
// string objects.
package boxedvalue

import "github.com/covalent-lang/covalent/internal/typesystem"

// Tag values. The tag uniquely determines how the 4-byte payload decodes:
// 0 means the payload is a little-endian i32, 1 means it is an f32 bit
// pattern. No other tag is produced by this package.
const (
	TagInt   int8 = 0
	TagFloat int8 = 1

	// TagStr is not part of spec §4.6's fixed helper functions (there is no
	// use_str), but §4.5 reserves the str field "for string objects", so
	// the lowering driver assigns it this tag when it builds a string Obj
	// directly via new_obj.
	TagStr int8 = 2
)

// Obj mirrors the SSA-level StructValue { bytes: [4]i8, tag: i8, str: *i8 }.
// Str is represented as a Go string pointer here rather than a raw *i8,
// since this package only models the constant-folding side of the ABI, not
// the pointer machinery lowering emits.
type Obj struct {
	Bytes [4]byte
	Tag   int8
	Str   *string
}

// Zero returns the scalar i8 zero used as the safe default tag value.
func Zero() int8 { return 0 }

// ZeroArr returns the all-zero 4-byte payload used as the default Obj
// bytes field.
func ZeroArr() [4]byte { return [4]byte{} }

// Null returns the default (absent) str pointer.
func Null() *string { return nil }

// SetType returns a copy of src with its tag replaced — the host-side
// analogue of the SSA set_type constant operation.
func SetType(src Obj, tag int8) Obj {
	out := src
	out.Tag = tag
	return out
}

// SetBytes returns a copy of src with its payload replaced — the host-side
// analogue of the SSA set_bytes constant operation.
func SetBytes(src Obj, bytes [4]byte) Obj {
	out := src
	out.Bytes = bytes
	return out
}

// TagFor returns the Obj tag a given scalar ConstType decodes to. Only Int
// and Float carry a boxed runtime representation; callers must not invoke
// this for any other ConstType.
func TagFor(ty typesystem.ConstType) (int8, bool) {
	switch ty {
	case typesystem.Int:
		return TagInt, true
	case typesystem.Float:
		return TagFloat, true
	default:
		return 0, false
	}
}
