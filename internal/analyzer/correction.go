package analyzer

import (
	"github.com/covalent-lang/covalent/internal/ast"
	"github.com/covalent-lang/covalent/internal/symbols"
	"github.com/covalent-lang/covalent/internal/typesystem"
)

// Correct implements the post-analysis walk from spec §4.4: by the time the
// first pass over every function body completes, every signature's return
// type is final, so a second walk over the already-produced TIR can
// back-fill any FnCall node whose Ty is still Dynamic (because its callee
// was declared later in source order) and retype or drop the As(Dynamic, ·)
// wrappers inserted around its arguments now that the callee's parameter
// types are known. A function whose own return type was still Dynamic takes
// the corrected type of its last body expression, and its registered
// signature is updated to match. A call whose callee's return type is itself still
// Dynamic is left untouched — the spec allows that one benign case to
// persist (§7).
func Correct(program []ast.TypedExpr, root *symbols.Scope) []ast.TypedExpr {
	out := make([]ast.TypedExpr, len(program))
	for i, te := range program {
		out[i] = correctTyped(te, root)
	}
	return out
}

func correctTyped(te ast.TypedExpr, root *symbols.Scope) ast.TypedExpr {
	switch node := te.Expr.(type) {
	case ast.ALiteral, ast.AIdent, ast.AImport, ast.ADebug:
		return te

	case ast.ABinaryExpr:
		left := correctTyped(node.Left, root)
		right := correctTyped(node.Right, root)
		return ast.TypedExpr{Expr: ast.ABinaryExpr{Op: node.Op, Left: left, Right: right}, Ty: te.Ty}

	case ast.AVarDeclare:
		val := correctTyped(node.Val, root)
		return ast.TypedExpr{Expr: ast.AVarDeclare{Name: node.Name, Val: val}, Ty: val.Ty}

	case ast.AVarAssign:
		val := correctTyped(node.Val, root)
		return ast.TypedExpr{Expr: ast.AVarAssign{Name: node.Name, Val: val}, Ty: val.Ty}

	case ast.ADiscard:
		val := correctTyped(node.Value, root)
		return ast.TypedExpr{Expr: ast.ADiscard{Value: val}, Ty: typesystem.Void}

	case ast.ARetExpr:
		val := correctTyped(node.Value, root)
		return ast.TypedExpr{Expr: ast.ARetExpr{Value: val}, Ty: val.Ty}

	case ast.AAs:
		operand := correctTyped(node.Operand, root)
		return ast.TypedExpr{Expr: ast.AAs{Target: node.Target, Operand: operand}, Ty: node.Target}

	case ast.AIfExpr:
		cond := correctTyped(node.Cond, root)
		body := correctSeq(node.Body, root)
		alt := correctSeq(node.Alt, root)
		ty := typesystem.Void
		if len(body) > 0 {
			ty = body[len(body)-1].Ty
		}
		return ast.TypedExpr{Expr: ast.AIfExpr{Cond: cond, Body: body, Alt: alt}, Ty: ty}

	case ast.ABlock:
		elems := correctSeq([]ast.TypedExpr(node), root)
		ty := typesystem.Void
		if len(elems) > 0 {
			ty = elems[len(elems)-1].Ty
		}
		return ast.TypedExpr{Expr: ast.ABlock(elems), Ty: ty}

	case ast.AFunc:
		body := correctSeq(node.Body, root)
		ret := node.Ret
		if ret == typesystem.Dynamic && len(body) > 0 {
			ret = body[len(body)-1].Ty
			if sig, ok := root.GetFunction(node.Name); ok {
				sig.Ret = ret
			}
		}
		return ast.TypedExpr{Expr: ast.AFunc{Ret: ret, Name: node.Name, Args: node.Args, Body: body}, Ty: te.Ty}

	case ast.AFnCall:
		return correctFnCall(node, te.Ty, root)

	default:
		return te
	}
}

func correctSeq(exprs []ast.TypedExpr, root *symbols.Scope) []ast.TypedExpr {
	if exprs == nil {
		return nil
	}
	out := make([]ast.TypedExpr, len(exprs))
	for i, e := range exprs {
		out[i] = correctTyped(e, root)
	}
	return out
}

func correctFnCall(node ast.AFnCall, ty typesystem.ConstType, root *symbols.Scope) ast.TypedExpr {
	sig, ok := root.GetFunction(node.Name)

	args := make([]ast.TypedExpr, len(node.Args))
	for i, arg := range node.Args {
		args[i] = correctCallArg(arg, sig, i, root)
	}

	if ok && sig.Ret != typesystem.Dynamic {
		ty = sig.Ret
	}

	return ast.TypedExpr{Expr: ast.AFnCall{Name: node.Name, Args: args}, Ty: ty}
}

// correctCallArg retypes or drops the As(Dynamic, ·) wrapper the first pass
// put around a call argument, now that the callee's parameter type (if any)
// is known.
func correctCallArg(arg ast.TypedExpr, sig *symbols.FuncSig, index int, root *symbols.Scope) ast.TypedExpr {
	wrapper, ok := arg.Expr.(ast.AAs)
	if !ok {
		return correctTyped(arg, root)
	}
	operand := correctTyped(wrapper.Operand, root)

	if sig == nil || index >= len(sig.ParamTypes) {
		return ast.TypedExpr{Expr: ast.AAs{Target: wrapper.Target, Operand: operand}, Ty: wrapper.Target}
	}

	paramTy := sig.ParamTypes[index]
	if paramTy == typesystem.Dynamic {
		return ast.TypedExpr{Expr: ast.AAs{Target: typesystem.Dynamic, Operand: operand}, Ty: typesystem.Dynamic}
	}
	if operand.Ty == paramTy {
		// No coercion needed once the real parameter type is known: drop
		// the wrapper entirely.
		return operand
	}
	return ast.TypedExpr{Expr: ast.AAs{Target: paramTy, Operand: operand}, Ty: paramTy}
}
