package lowering

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/covalent-lang/covalent/internal/boxedvalue"
	"github.com/covalent-lang/covalent/internal/diagnostics"
	"github.com/covalent-lang/covalent/internal/typesystem"
)

// Runtime holds the five fixed helper functions spec §4.6 requires every
// module to emit at init, plus the dispatch/conversion helpers built on top
// of them.
type Runtime struct {
	Module *ir.Module

	MkInt    *ir.Func
	MkFloat  *ir.Func
	NewObj   *ir.Func
	UseInt   *ir.Func
	UseFloat *ir.Func
}

// NewRuntime builds a fresh module and emits the fixed helper functions
// into it. Callers lower user code into additional functions appended to
// the same module.
func NewRuntime() *Runtime {
	m := ir.NewModule()
	rt := &Runtime{Module: m}

	rt.NewObj = rt.buildNewObj()
	rt.MkInt = rt.buildMkInt()
	rt.MkFloat = rt.buildMkFloat()
	rt.UseInt = rt.buildUseInt()
	rt.UseFloat = rt.buildUseFloat()

	return rt
}

// buildNewObj emits `new_obj(bytes: [4]i8, tag: i8, str: i8*) -> Obj`: the
// StructValue assembled field by field from its arguments.
func (rt *Runtime) buildNewObj() *ir.Func {
	bytesParam := ir.NewParam("bytes", types.NewArray(4, types.I8))
	tagParam := ir.NewParam("tag", types.I8)
	strParam := ir.NewParam("str", types.NewPointer(types.I8))

	fn := rt.Module.NewFunc("new_obj", ObjType(), bytesParam, tagParam, strParam)
	block := fn.NewBlock("entry")

	zero := constant.NewZeroInitializer(ObjType())
	withBytes := block.NewInsertValue(zero, bytesParam, 0)
	withTag := block.NewInsertValue(withBytes, tagParam, 1)
	withStr := block.NewInsertValue(withTag, strParam, 2)
	block.NewRet(withStr)

	return fn
}

// buildMkInt emits `mk_int(bytes: [4]i8) -> i32`: the little-endian byte
// assembly `result = Σ zext(bytes[i]) << (i*8)` from spec §4.6.
func (rt *Runtime) buildMkInt() *ir.Func {
	bytesParam := ir.NewParam("bytes", types.NewArray(4, types.I8))
	fn := rt.Module.NewFunc("mk_int", types.I32, bytesParam)
	block := fn.NewBlock("entry")

	var result value.Value = constant.NewInt(types.I32, 0)
	for i := 0; i < 4; i++ {
		b := block.NewExtractValue(bytesParam, uint64(i))
		widened := block.NewZExt(b, types.I32)
		shifted := block.NewShl(widened, constant.NewInt(types.I32, int64(i*8)))
		result = block.NewOr(result, shifted)
	}
	block.NewRet(result)
	return fn
}

// buildMkFloat emits `mk_float(bytes: [4]i8) -> f32`: identical byte
// assembly into i32, then a bitcast to float.
func (rt *Runtime) buildMkFloat() *ir.Func {
	bytesParam := ir.NewParam("bytes", types.NewArray(4, types.I8))
	fn := rt.Module.NewFunc("mk_float", types.Float, bytesParam)
	block := fn.NewBlock("entry")

	asInt := block.NewCall(rt.MkInt, bytesParam)
	asFloat := block.NewBitCast(asInt, types.Float)
	block.NewRet(asFloat)
	return fn
}

// decomposeBytes builds the 4-byte array spec §4.6 describes for use_int and
// use_float: per byte index i, shift v left by i*8 bits before truncating to
// i8.
//
// NOTE: for a little-endian layout this should be a right shift — shifting
// left and truncating discards the high bits of every byte above index 0
// instead of selecting them. This divergence is intentional: see the
// corresponding note in spec §9, carried here unchanged rather than
// "fixed", since use_int/use_float's bit-for-bit behavior is part of what a
// caller comparing it against boxedvalue's host-side codec is meant to
// observe.
func decomposeBytes(block *ir.Block, v value.Value) value.Value {
	arr := value.Value(constant.NewZeroInitializer(types.NewArray(4, types.I8)))
	for i := 0; i < 4; i++ {
		shifted := block.NewShl(v, constant.NewInt(types.I32, int64(i*8)))
		b := block.NewTrunc(shifted, types.I8)
		arr = block.NewInsertValue(arr, b, uint64(i))
	}
	return arr
}

// buildUseInt emits `use_int(i32) -> Obj`.
func (rt *Runtime) buildUseInt() *ir.Func {
	v := ir.NewParam("v", types.I32)
	fn := rt.Module.NewFunc("use_int", ObjType(), v)
	block := fn.NewBlock("entry")

	arr := decomposeBytes(block, v)
	null := constant.NewNull(types.NewPointer(types.I8))
	tag := constant.NewInt(types.I8, int64(boxedvalue.TagInt))
	obj := block.NewCall(rt.NewObj, arr, tag, null)
	block.NewRet(obj)
	return fn
}

// buildUseFloat emits `use_float(f32) -> Obj`.
func (rt *Runtime) buildUseFloat() *ir.Func {
	v := ir.NewParam("v", types.Float)
	fn := rt.Module.NewFunc("use_float", ObjType(), v)
	block := fn.NewBlock("entry")

	asInt := block.NewBitCast(v, types.I32)
	arr := decomposeBytes(block, asInt)
	null := constant.NewNull(types.NewPointer(types.I8))
	tag := constant.NewInt(types.I8, int64(boxedvalue.TagFloat))
	obj := block.NewCall(rt.NewObj, arr, tag, null)
	block.NewRet(obj)
	return fn
}

// MkBasicObj implements spec §4.6's dispatch rule: the static ConstType of
// the value being boxed (known at lowering time, never at runtime) selects
// between use_int and use_float.
func (rt *Runtime) MkBasicObj(block *ir.Block, ty typesystem.ConstType, v value.Value) (value.Value, error) {
	switch ty {
	case typesystem.Int:
		return block.NewCall(rt.UseInt, v), nil
	case typesystem.Float:
		return block.NewCall(rt.UseFloat, v), nil
	default:
		return nil, diagnostics.Err(diagnostics.CannotConvertRight,
			"mk_basic_obj: "+ty.String()+" has no boxed representation", 0, 0)
	}
}

// MkVal implements spec §4.6's mk_val: unlike mk_basic_obj, the tag here is
// only known at runtime, so the two arms are emitted as a conditional
// branch rather than chosen at lowering time. Both arms assemble the same
// raw i32 bit pattern (mk_float's body is mk_int plus a bitcast, and the
// bitcast is reversible), so the merge block's phi is a single i32 value;
// callers that need the float interpretation bitcast it themselves once the
// tag is known to be 1.
func (rt *Runtime) MkVal(fn *ir.Func, entry *ir.Block, obj value.Value) value.Value {
	tag := entry.NewExtractValue(obj, 1)
	tagExt := entry.NewZExt(tag, types.I32)
	bytes := entry.NewExtractValue(obj, 0)

	intBlock := fn.NewBlock("mk_val.int")
	floatBlock := fn.NewBlock("mk_val.float")
	mergeBlock := fn.NewBlock("mk_val.merge")

	isFloat := entry.NewICmp(enum.IPredEQ, tagExt, constant.NewInt(types.I32, int64(boxedvalue.TagFloat)))
	entry.NewCondBr(isFloat, floatBlock, intBlock)

	intBits := intBlock.NewCall(rt.MkInt, bytes)
	intBlock.NewBr(mergeBlock)

	floatBits := floatBlock.NewCall(rt.MkInt, bytes)
	floatBlock.NewBr(mergeBlock)

	phi := mergeBlock.NewPhi(ir.NewIncoming(intBits, intBlock), ir.NewIncoming(floatBits, floatBlock))
	return phi
}

// ConvInto implements spec §4.6's conv_into: Float->Int via signed
// FP-to-int, Int->Float via signed int-to-FP, same-type is a no-op, any
// other pairing fails with CannotConvertRight.
func ConvInto(block *ir.Block, from, into typesystem.ConstType, v value.Value) (value.Value, error) {
	if from == into {
		return v, nil
	}
	switch {
	case from == typesystem.Float && into == typesystem.Int:
		return block.NewFPToSI(v, types.I32), nil
	case from == typesystem.Int && into == typesystem.Float:
		return block.NewSIToFP(v, types.Float), nil
	default:
		return nil, diagnostics.Err(diagnostics.CannotConvertRight,
			"cannot convert "+from.String()+" into "+into.String(), 0, 0)
	}
}
