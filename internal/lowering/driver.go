package lowering

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/covalent-lang/covalent/internal/ast"
	"github.com/covalent-lang/covalent/internal/boxedvalue"
	"github.com/covalent-lang/covalent/internal/diagnostics"
	"github.com/covalent-lang/covalent/internal/typesystem"
)

// Lower implements spec §6's lowering driver: given the corrected TIR, it
// builds a fresh Runtime (the five fixed helpers), lowers every top-level
// AFunc into an SSA function, and gathers every remaining top-level
// expression into a synthetic entry function named main.<moduleID>, so two
// modules lowered in the same process never collide on symbol names.
func Lower(moduleID string, program []ast.TypedExpr) (*Runtime, error) {
	rt := NewRuntime()
	d := &driver{rt: rt, moduleID: moduleID, funcs: map[string]*ir.Func{}}

	// Two passes: declare every user function's signature first so calls
	// between them resolve regardless of source order, then lower bodies.
	for _, te := range program {
		if fn, ok := te.Expr.(ast.AFunc); ok {
			d.declareFunc(fn)
		}
	}

	var entry []ast.TypedExpr
	for _, te := range program {
		switch node := te.Expr.(type) {
		case ast.AFunc:
			if err := d.lowerFunc(node); err != nil {
				return nil, err
			}
		case ast.AImport, ast.ADebug:
			// Intrinsic registration and debug markers carry no lowering
			// obligation of their own.
		default:
			entry = append(entry, te)
		}
	}

	if len(entry) > 0 {
		if err := d.lowerEntry(entry); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

type driver struct {
	rt       *Runtime
	moduleID string
	funcs    map[string]*ir.Func
}

func (d *driver) symbolName(name string) string {
	return fmt.Sprintf("%s.%s", name, d.moduleID)
}

func (d *driver) declareFunc(fn ast.AFunc) {
	params := make([]*ir.Param, len(fn.Args))
	for i, arg := range fn.Args {
		params[i] = ir.NewParam(arg.Val, ObjType())
	}
	f := d.rt.Module.NewFunc(d.symbolName(fn.Name), ObjType(), params...)
	d.funcs[fn.Name] = f
}

func (d *driver) lowerFunc(fn ast.AFunc) error {
	f, ok := d.funcs[fn.Name]
	if !ok {
		return fmt.Errorf("lowering: %s was not declared", fn.Name)
	}

	fc := &funcCtx{driver: d, fn: f, locals: map[string]*ir.InstAlloca{}}
	entry := f.NewBlock("entry")
	fc.block = entry

	for i, arg := range fn.Args {
		slot := entry.NewAlloca(ObjType())
		entry.NewStore(f.Params[i], slot)
		fc.locals[arg.Val] = slot
	}

	var last value.Value
	for _, body := range fn.Body {
		v, err := fc.lower(body)
		if err != nil {
			return err
		}
		last = v
	}

	if last == nil {
		last = constant.NewZeroInitializer(ObjType())
	}
	fc.block.NewRet(last)
	return nil
}

// lowerEntry gathers every top-level expression outside a function
// definition into a synthetic nullary function so the module always has a
// single, well-defined entry sequence (spec §6's "top-level entry
// sequence").
func (d *driver) lowerEntry(exprs []ast.TypedExpr) error {
	f := d.rt.Module.NewFunc(d.symbolName("main"), ObjType())
	fc := &funcCtx{driver: d, fn: f, locals: map[string]*ir.InstAlloca{}}
	fc.block = f.NewBlock("entry")

	var last value.Value
	for _, e := range exprs {
		v, err := fc.lower(e)
		if err != nil {
			return err
		}
		last = v
	}
	if last == nil {
		last = constant.NewZeroInitializer(ObjType())
	}
	fc.block.NewRet(last)
	return nil
}

// funcCtx threads the current insertion block and local-variable allocas
// through the lowering of a single function body — the SSA builder context
// spec §6 describes as owned exclusively by the currently-executing
// lowering routine.
type funcCtx struct {
	driver *driver
	fn     *ir.Func
	block  *ir.Block
	locals map[string]*ir.InstAlloca
}

func (fc *funcCtx) lower(te ast.TypedExpr) (value.Value, error) {
	switch node := te.Expr.(type) {
	case ast.ALiteral:
		return fc.lowerLiteral(node.Value, te.Ty)

	case ast.AIdent:
		slot, ok := fc.locals[node.Name]
		if !ok {
			return nil, fmt.Errorf("lowering: identifier %s has no storage slot", node.Name)
		}
		return fc.block.NewLoad(ObjType(), slot), nil

	case ast.AAs:
		return fc.lowerAs(node)

	case ast.ABinaryExpr:
		return fc.lowerBinary(node, te.Ty)

	case ast.AVarDeclare:
		v, err := fc.lower(node.Val)
		if err != nil {
			return nil, err
		}
		slot := fc.block.NewAlloca(ObjType())
		fc.block.NewStore(v, slot)
		fc.locals[node.Name] = slot
		return v, nil

	case ast.AVarAssign:
		v, err := fc.lower(node.Val)
		if err != nil {
			return nil, err
		}
		slot, ok := fc.locals[node.Name]
		if !ok {
			return nil, fmt.Errorf("lowering: assignment to %s with no storage slot", node.Name)
		}
		fc.block.NewStore(v, slot)
		return v, nil

	case ast.ADiscard:
		if _, err := fc.lower(node.Value); err != nil {
			return nil, err
		}
		return nil, nil

	case ast.ARetExpr:
		v, err := fc.lower(node.Value)
		if err != nil {
			return nil, err
		}
		if v == nil {
			v = constant.NewZeroInitializer(ObjType())
		}
		fc.block.NewRet(v)
		return v, nil

	case ast.AFnCall:
		return fc.lowerCall(node)

	case ast.AIfExpr:
		return fc.lowerIf(node, te.Ty)

	case ast.ABlock:
		var last value.Value
		for _, e := range node {
			v, err := fc.lower(e)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	default:
		return nil, fmt.Errorf("lowering: unsupported node %T", te.Expr)
	}
}

func (fc *funcCtx) lowerLiteral(lit ast.Literal, ty typesystem.ConstType) (value.Value, error) {
	switch v := lit.(type) {
	case ast.IntLiteral:
		return fc.rt().MkBasicObj(fc.block, typesystem.Int, constant.NewInt(types.I32, int64(v)))
	case ast.FloatLiteral:
		return fc.rt().MkBasicObj(fc.block, typesystem.Float, constant.NewFloat(types.Float, float64(v)))
	case ast.BoolLiteral:
		n := int64(0)
		if v {
			n = 1
		}
		// Bool has no dedicated tag in the boxed-value ABI (spec §4.5 only
		// enumerates 0=Int, 1=Float); it is represented as its 0/1 Int
		// encoding rather than inventing an undocumented third tag.
		return fc.rt().MkBasicObj(fc.block, typesystem.Int, constant.NewInt(types.I32, n))
	case ast.StrLiteral:
		return fc.lowerStr(string(v))
	default:
		return nil, fmt.Errorf("lowering: unsupported literal %T", lit)
	}
}

// lowerStr builds a string Obj directly via new_obj: the spec defines no
// use_str helper (§4.6 only fixes use_int/use_float), but §4.5 names the str
// field as "reserved for string objects", so a string Obj is built with a
// zero payload, tag 2 (boxedvalue.TagStr), and the str field pointing at a
// module-level string constant.
func (fc *funcCtx) lowerStr(s string) (value.Value, error) {
	bytes := append([]byte(s), 0)
	arrType := types.NewArray(uint64(len(bytes)), types.I8)
	data := constant.NewCharArray(bytes)
	g := fc.driver.rt.Module.NewGlobalDef(fmt.Sprintf("str.%d.%s", len(fc.driver.rt.Module.Globals), fc.driver.moduleID), data)
	ptr := fc.block.NewGetElementPtr(arrType, g, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 0))

	zero := constant.NewZeroInitializer(types.NewArray(4, types.I8))
	tag := constant.NewInt(types.I8, int64(boxedvalue.TagStr))
	return fc.block.NewCall(fc.driver.rt.NewObj, zero, tag, ptr), nil
}

func (fc *funcCtx) lowerAs(node ast.AAs) (value.Value, error) {
	operandTy := operandType(node.Operand)
	v, err := fc.lower(node.Operand)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("lowering: As(%s, ·) applied to a Void value", node.Target)
	}
	if !isNumeric(operandTy) || !isNumeric(node.Target) {
		// Coercions into/from Str or Dynamic are a typed-IR bookkeeping
		// device for the analyzer; the boxed-value ABI carries no
		// corresponding scalar conversion, so the Obj passes through
		// unchanged.
		return v, nil
	}
	scalar, err := fc.unbox(v, operandTy)
	if err != nil {
		return nil, err
	}
	converted, err := ConvInto(fc.block, operandTy, node.Target, scalar)
	if err != nil {
		return nil, err
	}
	return fc.rt().MkBasicObj(fc.block, node.Target, converted)
}

func (fc *funcCtx) lowerBinary(node ast.ABinaryExpr, resultTy typesystem.ConstType) (value.Value, error) {
	leftTy := operandType(node.Left)
	rightTy := operandType(node.Right)

	left, err := fc.lower(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := fc.lower(node.Right)
	if err != nil {
		return nil, err
	}

	if !isNumeric(leftTy) || !isNumeric(rightTy) {
		// Str concatenation and comparison operators over non-numeric
		// operands are outside the boxed-value ABI's scalar arithmetic
		// (spec §4.5/§4.6 only fix Int/Float decoding); the left operand's
		// Obj is passed through so the module still type-checks as LLVM IR.
		return left, nil
	}

	leftScalar, err := fc.unbox(left, leftTy)
	if err != nil {
		return nil, err
	}
	rightScalar, err := fc.unbox(right, rightTy)
	if err != nil {
		return nil, err
	}

	result, err := arith(fc.block, node.Op, leftTy, leftScalar, rightScalar)
	if err != nil {
		return nil, err
	}

	if node.Op.IsComparison() {
		// Comparisons yield Bool, which this driver represents as Int.
		return fc.rt().MkBasicObj(fc.block, typesystem.Int, fc.block.NewZExt(result, types.I32))
	}
	return fc.rt().MkBasicObj(fc.block, resultTy, result)
}

func (fc *funcCtx) unbox(obj value.Value, ty typesystem.ConstType) (value.Value, error) {
	bytes := fc.block.NewExtractValue(obj, 0)
	switch ty {
	case typesystem.Int:
		return fc.block.NewCall(fc.rt().MkInt, bytes), nil
	case typesystem.Float:
		return fc.block.NewCall(fc.rt().MkFloat, bytes), nil
	default:
		return nil, diagnostics.Err(diagnostics.CannotConvertRight, "unbox: "+ty.String()+" has no scalar representation", 0, 0)
	}
}

func (fc *funcCtx) lowerCall(node ast.AFnCall) (value.Value, error) {
	if isIntrinsic(node.Name) {
		// Intrinsic I/O (writeln) has no SSA lowering of its own in this
		// core, and no host runtime support is emitted for it: the call
		// produces no output. Evaluate arguments for their side effects
		// on local state and yield nothing.
		for _, arg := range node.Args {
			if _, err := fc.lower(arg); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	callee, ok := fc.driver.funcs[node.Name]
	if !ok {
		return nil, fmt.Errorf("lowering: call to undeclared function %s", node.Name)
	}

	args := make([]value.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := fc.lower(a)
		if err != nil {
			return nil, err
		}
		if v == nil {
			v = constant.NewZeroInitializer(ObjType())
		}
		args[i] = v
	}
	return fc.block.NewCall(callee, args...), nil
}

func (fc *funcCtx) lowerIf(node ast.AIfExpr, ty typesystem.ConstType) (value.Value, error) {
	condObj, err := fc.lower(node.Cond)
	if err != nil {
		return nil, err
	}
	condScalar, err := fc.unbox(condObj, typesystem.Int)
	if err != nil {
		return nil, err
	}
	condBit := fc.block.NewICmp(enum.IPredNE, condScalar, constant.NewInt(types.I32, 0))

	thenBlock := fc.fn.NewBlock("if.then")
	elseBlock := fc.fn.NewBlock("if.else")
	mergeBlock := fc.fn.NewBlock("if.merge")
	fc.block.NewCondBr(condBit, thenBlock, elseBlock)

	fc.block = thenBlock
	thenVal, err := fc.lowerSeq(node.Body)
	if err != nil {
		return nil, err
	}
	thenExit := fc.block
	thenExit.NewBr(mergeBlock)

	fc.block = elseBlock
	elseVal, err := fc.lowerSeq(node.Alt)
	if err != nil {
		return nil, err
	}
	elseExit := fc.block
	elseExit.NewBr(mergeBlock)

	fc.block = mergeBlock
	if ty == typesystem.Void || (thenVal == nil && elseVal == nil) {
		return nil, nil
	}
	if thenVal == nil {
		thenVal = constant.NewZeroInitializer(ObjType())
	}
	if elseVal == nil {
		elseVal = constant.NewZeroInitializer(ObjType())
	}
	return mergeBlock.NewPhi(ir.NewIncoming(thenVal, thenExit), ir.NewIncoming(elseVal, elseExit)), nil
}

func (fc *funcCtx) lowerSeq(exprs []ast.TypedExpr) (value.Value, error) {
	var last value.Value
	for _, e := range exprs {
		v, err := fc.lower(e)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (fc *funcCtx) rt() *Runtime { return fc.driver.rt }

func isNumeric(ty typesystem.ConstType) bool {
	return ty == typesystem.Int || ty == typesystem.Float
}

// operandType recovers the static ConstType a TIR node was assigned by the
// analyzer, looking through the As(·) wrapper the coercion/correction
// passes insert.
func operandType(te ast.TypedExpr) typesystem.ConstType {
	switch node := te.Expr.(type) {
	case ast.AAs:
		return node.Target
	case ast.ALiteral:
		return node.Value.GetType()
	default:
		return te.Ty
	}
}

func isIntrinsic(name string) bool {
	return name == "writeln"
}

func arith(block *ir.Block, op typesystem.Op, ty typesystem.ConstType, left, right value.Value) (value.Value, error) {
	if ty == typesystem.Float {
		switch op {
		case typesystem.OpAdd:
			return block.NewFAdd(left, right), nil
		case typesystem.OpSub:
			return block.NewFSub(left, right), nil
		case typesystem.OpMul:
			return block.NewFMul(left, right), nil
		case typesystem.OpDiv:
			return block.NewFDiv(left, right), nil
		case typesystem.OpEq:
			return block.NewFCmp(enum.FPredOEQ, left, right), nil
		case typesystem.OpLt:
			return block.NewFCmp(enum.FPredOLT, left, right), nil
		case typesystem.OpGt:
			return block.NewFCmp(enum.FPredOGT, left, right), nil
		case typesystem.OpLe:
			return block.NewFCmp(enum.FPredOLE, left, right), nil
		case typesystem.OpGe:
			return block.NewFCmp(enum.FPredOGE, left, right), nil
		}
	}

	switch op {
	case typesystem.OpAdd:
		return block.NewAdd(left, right), nil
	case typesystem.OpSub:
		return block.NewSub(left, right), nil
	case typesystem.OpMul:
		return block.NewMul(left, right), nil
	case typesystem.OpDiv:
		return block.NewSDiv(left, right), nil
	case typesystem.OpEq:
		return block.NewICmp(enum.IPredEQ, left, right), nil
	case typesystem.OpLt:
		return block.NewICmp(enum.IPredSLT, left, right), nil
	case typesystem.OpGt:
		return block.NewICmp(enum.IPredSGT, left, right), nil
	case typesystem.OpLe:
		return block.NewICmp(enum.IPredSLE, left, right), nil
	case typesystem.OpGe:
		return block.NewICmp(enum.IPredSGE, left, right), nil
	}
	return nil, fmt.Errorf("lowering: unsupported operator %s", op)
}
