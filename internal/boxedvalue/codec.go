package boxedvalue

import (
	"fmt"
	"math"

	"github.com/funvibe/funbit/pkg/funbit"
	"github.com/covalent-lang/covalent/internal/config"
)

// EncodeInt packs a host int32 into an Obj's 4-byte payload, correctly
// little-endian, using funbit's bit-level primitives. This is a host-side
// reference encoding: the lowering package does not call it (literals are
// boxed at runtime through the use_int helper), and it intentionally does not
// share code with use_int, which emits the spec's documented shift-direction
// divergence (§9) into the generated module.
func EncodeInt(v int32) (Obj, error) {
	bytes, err := funbit.IntToBits(int64(v), 32, true)
	if err != nil {
		return Obj{}, fmt.Errorf("encode int: %w", err)
	}
	little, err := funbit.ConvertEndianness(bytes, funbit.GetNativeEndianness(), config.TargetByteOrder, 32)
	if err != nil {
		return Obj{}, fmt.Errorf("encode int: %w", err)
	}
	var arr [4]byte
	copy(arr[:], little)
	return Obj{Bytes: arr, Tag: TagInt}, nil
}

// DecodeInt is EncodeInt's inverse: the correctly-decoded reading of an
// Int-tagged Obj's payload.
func DecodeInt(o Obj) (int32, error) {
	if o.Tag != TagInt {
		return 0, fmt.Errorf("decode int: tag %d is not TagInt", o.Tag)
	}
	native, err := funbit.ConvertEndianness(o.Bytes[:], config.TargetByteOrder, funbit.GetNativeEndianness(), 32)
	if err != nil {
		return 0, fmt.Errorf("decode int: %w", err)
	}
	v, err := funbit.BitsToInt(native, true)
	if err != nil {
		return 0, fmt.Errorf("decode int: %w", err)
	}
	return int32(v), nil
}

// EncodeFloat packs a host float32 into an Obj's payload by reinterpreting
// its bits as an i32 and delegating to the same little-endian byte packing
// as EncodeInt.
func EncodeFloat(v float32) (Obj, error) {
	bits := int32(math.Float32bits(v))
	o, err := EncodeInt(bits)
	if err != nil {
		return Obj{}, err
	}
	o.Tag = TagFloat
	return o, nil
}

// DecodeFloat is EncodeFloat's inverse.
func DecodeFloat(o Obj) (float32, error) {
	if o.Tag != TagFloat {
		return 0, fmt.Errorf("decode float: tag %d is not TagFloat", o.Tag)
	}
	asInt := o
	asInt.Tag = TagInt
	bits, err := DecodeInt(asInt)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(bits)), nil
}
