// Package analyzer implements the type inference and coercion pass from
// spec §4.3: it consumes the untyped ast.Expr/ast.Function values the parser
// produces and returns the typed intermediate representation ([]ast.TypedExpr),
// inserting implicit coercions and rejecting operations the inferred type
// does not support.
package analyzer

import (
	"github.com/covalent-lang/covalent/internal/ast"
	"github.com/covalent-lang/covalent/internal/config"
	"github.com/covalent-lang/covalent/internal/diagnostics"
	"github.com/covalent-lang/covalent/internal/symbols"
	"github.com/covalent-lang/covalent/internal/typesystem"
)

// Analyzer performs semantic analysis on the AST. It owns the current
// position (threaded by PosInfo markers) used to annotate diagnostics.
type Analyzer struct {
	line   int
	column int
}

// New creates an Analyzer ready to run AnalyzProg.
func New() *Analyzer {
	return &Analyzer{}
}

// AnalyzProg is the public entry point from spec §4.3: it builds a fresh
// root scope, seeds the intrinsic surface, registers every function
// signature so forward references resolve, analyzes each body and each
// top-level expression in turn, and finally runs the correction pass.
func (a *Analyzer) AnalyzProg(exprs []ast.Expr, functions []ast.Function) ([]ast.TypedExpr, error) {
	root := symbols.NewRootScope()

	var program []ast.TypedExpr
	for _, def := range config.Intrinsics {
		paramTypes := make([]typesystem.ConstType, len(def.Args))
		for i := range def.Args {
			paramTypes[i] = typesystem.Dynamic
		}
		root.PushFunction(def.Name, paramTypes, typesystem.Void)
		program = append(program, ast.TypedExpr{
			Expr: ast.AImport{Module: def.Module, Name: def.Name, Args: paramTypes},
			Ty:   typesystem.Void,
		})
	}

	for _, fn := range functions {
		root.PushFunction(fn.Name.Val, paramTypesOf(fn.Args), typesystem.Dynamic)
	}

	for _, fn := range functions {
		node, err := a.analyzFunc(root, fn)
		if err != nil {
			return nil, err
		}
		program = append(program, node)
	}

	for _, e := range exprs {
		node, err := a.analyzeExpr(root, e)
		if err != nil {
			return nil, err
		}
		program = append(program, node)
	}

	return Correct(program, root), nil
}

func paramTypesOf(args []ast.Ident) []typesystem.ConstType {
	out := make([]typesystem.ConstType, len(args))
	for i, arg := range args {
		out[i] = paramType(arg)
	}
	return out
}

func paramType(id ast.Ident) typesystem.ConstType {
	if id.Tag != nil {
		return *id.Tag
	}
	return typesystem.Dynamic
}

// analyzFunc implements spec §4.3.1: push a child scope, bind each
// parameter to its declared (or Dynamic) type, analyze the body, compute
// the return type as the last body expression's type (Void if empty), and
// back-fill the signature registered in the outer scope.
func (a *Analyzer) analyzFunc(outer *symbols.Scope, fn ast.Function) (ast.TypedExpr, error) {
	inner := outer.Child()
	for _, arg := range fn.Args {
		inner.Add(arg.Val, paramType(arg))
	}

	typedBody, ret, err := a.analyzeSeq(inner, fn.Body)
	if err != nil {
		return ast.TypedExpr{}, err
	}

	if sig, ok := outer.GetFunction(fn.Name.Val); ok {
		sig.Ret = ret
	}

	return ast.TypedExpr{
		Expr: ast.AFunc{Ret: ret, Name: fn.Name.Val, Args: fn.Args, Body: typedBody},
		Ty:   typesystem.Void,
	}, nil
}

// analyzeSeq analyzes a list of expressions in order within scope, returning
// the typed sequence and the type of its last element (Void if empty) —
// the "type of last body element" rule shared by function bodies, Block and
// IfExpr.
func (a *Analyzer) analyzeSeq(scope *symbols.Scope, exprs []ast.Expr) ([]ast.TypedExpr, typesystem.ConstType, error) {
	if len(exprs) == 0 {
		return nil, typesystem.Void, nil
	}

	typed := make([]ast.TypedExpr, 0, len(exprs))
	for _, e := range exprs {
		node, err := a.analyzeExpr(scope, e)
		if err != nil {
			return nil, typesystem.Void, err
		}
		typed = append(typed, node)
	}
	return typed, typed[len(typed)-1].Ty, nil
}

func (a *Analyzer) errf(kind diagnostics.ErrKind, msg string) error {
	return diagnostics.Err(kind, msg, a.line, a.column)
}
