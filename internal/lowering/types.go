// Package lowering emits the LLVM-style SSA module described in spec §4.5
// and §4.6: the Obj struct type, the five fixed runtime helper functions,
// and the dispatch/conversion helpers built on top of them. It uses
// github.com/llir/llvm, a pure-Go LLVM IR construction library, so the
// compiler never links against libLLVM.
package lowering

import (
	"github.com/llir/llvm/ir/types"
)

// ObjType builds the StructValue type from spec §4.5: a 4-byte payload, an
// i8 tag, and an i8* reserved for string objects.
func ObjType() *types.StructType {
	return types.NewStruct(
		types.NewArray(4, types.I8),
		types.I8,
		types.NewPointer(types.I8),
	)
}

// ScalarInt and ScalarFloat are the SSA basic-value types mk_val/conv_into
// operate on: a 32-bit integer and a 32-bit float, matching the payload
// width fixed by spec §4.5.
var (
	ScalarInt   = types.I32
	ScalarFloat = types.Float
)
