package analyzer

import (
	"fmt"

	"github.com/covalent-lang/covalent/internal/ast"
	"github.com/covalent-lang/covalent/internal/diagnostics"
	"github.com/covalent-lang/covalent/internal/symbols"
	"github.com/covalent-lang/covalent/internal/typesystem"
)

// analyzeExpr dispatches on the untyped node kind, implementing the rules
// in spec §4.3.2.
func (a *Analyzer) analyzeExpr(scope *symbols.Scope, e ast.Expr) (ast.TypedExpr, error) {
	switch node := e.(type) {
	case ast.LiteralExpr:
		return ast.TypedExpr{Expr: ast.ALiteral{Value: node.Value}, Ty: node.Value.GetType()}, nil

	case ast.IdentExpr:
		ty, ok := scope.GetTy(node.Ident.Val)
		if !ok {
			return ast.TypedExpr{}, a.errf(diagnostics.UndeclaredVar, node.Ident.Val)
		}
		return ast.TypedExpr{Expr: ast.AIdent{Name: node.Ident.Val}, Ty: ty}, nil

	case ast.VarDeclare:
		if scope.HasLocal(node.Name) {
			return ast.TypedExpr{}, a.errf(diagnostics.VarAlreadyDeclared, node.Name)
		}
		val, err := a.analyzeExpr(scope, node.Val)
		if err != nil {
			return ast.TypedExpr{}, err
		}
		scope.Add(node.Name, val.Ty)
		return ast.TypedExpr{Expr: ast.AVarDeclare{Name: node.Name, Val: val}, Ty: val.Ty}, nil

	case ast.VarAssign:
		if !scope.Has(node.Name) {
			return ast.TypedExpr{}, a.errf(diagnostics.UndeclaredVar, node.Name)
		}
		val, err := a.analyzeExpr(scope, node.Val)
		if err != nil {
			return ast.TypedExpr{}, err
		}
		scope.Modify(node.Name, val.Ty)
		return ast.TypedExpr{Expr: ast.AVarAssign{Name: node.Name, Val: val}, Ty: val.Ty}, nil

	case ast.Discard:
		val, err := a.analyzeExpr(scope, node.Value)
		if err != nil {
			return ast.TypedExpr{}, err
		}
		return ast.TypedExpr{Expr: ast.ADiscard{Value: val}, Ty: typesystem.Void}, nil

	case ast.RetExpr:
		val, err := a.analyzeExpr(scope, node.Value)
		if err != nil {
			return ast.TypedExpr{}, err
		}
		return ast.TypedExpr{Expr: ast.ARetExpr{Value: val}, Ty: val.Ty}, nil

	case ast.PosInfo:
		a.line, a.column = node.Line, node.Column
		return ast.TypedExpr{Expr: ast.ADebug{Str: node.File, Line: node.Line, Column: node.Column}, Ty: typesystem.Void}, nil

	case ast.IfExpr:
		return a.analyzeIf(scope, node)

	case ast.Block:
		typed, ty, err := a.analyzeSeq(scope, []ast.Expr(node))
		if err != nil {
			return ast.TypedExpr{}, err
		}
		return ast.TypedExpr{Expr: ast.ABlock(typed), Ty: ty}, nil

	case ast.FnCall:
		return a.analyzeFnCall(scope, node)

	case ast.BinaryExpr:
		return a.analyzeBinary(scope, node)

	default:
		return ast.TypedExpr{}, a.errf(diagnostics.UndeclaredVar, fmt.Sprintf("unrecognized expression %T", e))
	}
}

// analyzeIf implements spec §4.3.2's IfExpr row: the condition and the
// else-branch are analyzed in the current scope; the body runs in a pushed
// child scope that is popped before the else-branch is examined.
func (a *Analyzer) analyzeIf(scope *symbols.Scope, node ast.IfExpr) (ast.TypedExpr, error) {
	cond, err := a.analyzeExpr(scope, node.Cond)
	if err != nil {
		return ast.TypedExpr{}, err
	}

	inner := scope.Child()
	body, ty, err := a.analyzeSeq(inner, node.Body)
	if err != nil {
		return ast.TypedExpr{}, err
	}

	var alt []ast.TypedExpr
	if node.Alt != nil {
		alt, _, err = a.analyzeSeq(scope, node.Alt)
		if err != nil {
			return ast.TypedExpr{}, err
		}
	}

	return ast.TypedExpr{Expr: ast.AIfExpr{Cond: cond, Body: body, Alt: alt}, Ty: ty}, nil
}

// analyzeFnCall implements spec §4.3.2's FnCall row: arity must match the
// registered signature, and every argument is wrapped in As(Dynamic, ·) so
// the correction pass can retype it once forward-referenced signatures are
// final.
func (a *Analyzer) analyzeFnCall(scope *symbols.Scope, node ast.FnCall) (ast.TypedExpr, error) {
	sig, ok := scope.GetFunction(node.Name)
	if !ok || len(sig.ParamTypes) != len(node.Args) {
		return ast.TypedExpr{}, a.errf(diagnostics.UndeclaredVar, node.Name)
	}

	args := make([]ast.TypedExpr, len(node.Args))
	for i, argExpr := range node.Args {
		typedArg, err := a.analyzeExpr(scope, argExpr)
		if err != nil {
			return ast.TypedExpr{}, err
		}
		args[i] = ast.TypedExpr{
			Expr: ast.AAs{Target: typesystem.Dynamic, Operand: typedArg},
			Ty:   typesystem.Dynamic,
		}
	}

	return ast.TypedExpr{Expr: ast.AFnCall{Name: node.Name, Args: args}, Ty: sig.Ret}, nil
}

// analyzeBinary implements the coercion table in spec §4.3.3.
func (a *Analyzer) analyzeBinary(scope *symbols.Scope, node ast.BinaryExpr) (ast.TypedExpr, error) {
	left, err := a.analyzeExpr(scope, node.Left)
	if err != nil {
		return ast.TypedExpr{}, err
	}
	right, err := a.analyzeExpr(scope, node.Right)
	if err != nil {
		return ast.TypedExpr{}, err
	}

	coercion := typesystem.Reconcile(left.Ty, right.Ty)
	switch coercion.Side {
	case typesystem.CoerceLeft:
		left = ast.TypedExpr{Expr: ast.AAs{Target: coercion.Target, Operand: left}, Ty: coercion.Target}
	case typesystem.CoerceRight:
		right = ast.TypedExpr{Expr: ast.AAs{Target: coercion.Target, Operand: right}, Ty: coercion.Target}
	}

	if !typesystem.SupportsOp(left.Ty, node.Op) {
		return ast.TypedExpr{}, a.errf(diagnostics.OperationNotGranted,
			fmt.Sprintf("%s %s %s", left.Ty, node.Op, right.Ty))
	}

	return ast.TypedExpr{
		Expr: ast.ABinaryExpr{Op: node.Op, Left: left, Right: right},
		Ty:   typesystem.ResultType(node.Op, left.Ty),
	}, nil
}
