// Package surface reads the JSON program format covalentc accepts in place
// of Covalent source text. A real lexer and parser for Covalent's concrete
// syntax is out of scope for this module (spec.md §1 lists them as an
// external collaborator the analyzer and lowering core only consume); this
// package exists so the CLI driver has something real to parse on the way
// to ast.Expr/ast.Function, without reimplementing that collaborator.
package surface

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/covalent-lang/covalent/internal/ast"
	"github.com/covalent-lang/covalent/internal/typesystem"
)

// Program is the on-disk shape: a list of top-level expressions and a list
// of function definitions, mirroring the analyzer's AnalyzProg input.
type Program struct {
	Exprs     []Node     `json:"exprs"`
	Functions []Function `json:"functions"`
}

// Function mirrors ast.Function.
type Function struct {
	Name string  `json:"name"`
	Args []Param `json:"args"`
	Body []Node  `json:"body"`
}

// Param mirrors ast.Ident as used for a function parameter: an optional
// declared type.
type Param struct {
	Name string  `json:"name"`
	Type *string `json:"type,omitempty"`
}

// Node is a tagged union over ast.Expr's variants. Only the fields relevant
// to Kind are populated; ToAST rejects a Kind it doesn't recognize.
type Node struct {
	Kind string `json:"kind"`

	// LiteralExpr
	Int   *int64   `json:"int,omitempty"`
	Float *float64 `json:"float,omitempty"`
	Str   *string  `json:"str,omitempty"`
	Bool  *bool    `json:"bool,omitempty"`

	// IdentExpr / VarDeclare / VarAssign / FnCall / Function name
	Name string `json:"name,omitempty"`

	// BinaryExpr
	Op    string `json:"op,omitempty"`
	Left  *Node  `json:"left,omitempty"`
	Right *Node  `json:"right,omitempty"`

	// VarDeclare / VarAssign / RetExpr / Discard
	Val *Node `json:"val,omitempty"`

	// FnCall
	Args []Node `json:"args,omitempty"`

	// IfExpr
	Cond *Node  `json:"cond,omitempty"`
	Body []Node `json:"body,omitempty"`
	Alt  []Node `json:"alt,omitempty"`

	// PosInfo
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// ReadProgram loads and decodes a JSON program file from path.
func ReadProgram(path string) (Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("surface: read %s: %w", path, err)
	}
	var p Program
	if err := json.Unmarshal(raw, &p); err != nil {
		return Program{}, fmt.Errorf("surface: decode %s: %w", path, err)
	}
	return p, nil
}

// ToAST converts the decoded Program into the ast.Expr/ast.Function values
// the analyzer consumes.
func (p Program) ToAST() ([]ast.Expr, []ast.Function, error) {
	exprs := make([]ast.Expr, 0, len(p.Exprs))
	for _, n := range p.Exprs {
		e, err := n.toExpr()
		if err != nil {
			return nil, nil, err
		}
		exprs = append(exprs, e)
	}

	functions := make([]ast.Function, 0, len(p.Functions))
	for _, fn := range p.Functions {
		f, err := fn.toAST()
		if err != nil {
			return nil, nil, err
		}
		functions = append(functions, f)
	}

	return exprs, functions, nil
}

func (fn Function) toAST() (ast.Function, error) {
	args := make([]ast.Ident, 0, len(fn.Args))
	for _, p := range fn.Args {
		ident, err := p.toAST()
		if err != nil {
			return ast.Function{}, err
		}
		args = append(args, ident)
	}

	body := make([]ast.Expr, 0, len(fn.Body))
	for _, n := range fn.Body {
		e, err := n.toExpr()
		if err != nil {
			return ast.Function{}, err
		}
		body = append(body, e)
	}

	return ast.Function{Name: ast.Ident{Val: fn.Name}, Args: args, Body: body}, nil
}

func (p Param) toAST() (ast.Ident, error) {
	if p.Type == nil {
		return ast.Ident{Val: p.Name}, nil
	}
	ty, err := parseConstType(*p.Type)
	if err != nil {
		return ast.Ident{}, err
	}
	return ast.Ident{Val: p.Name, Tag: &ty}, nil
}

func parseConstType(name string) (typesystem.ConstType, error) {
	switch name {
	case "Int":
		return typesystem.Int, nil
	case "Float":
		return typesystem.Float, nil
	case "Str":
		return typesystem.Str, nil
	case "Bool":
		return typesystem.Bool, nil
	case "Void":
		return typesystem.Void, nil
	case "Dynamic":
		return typesystem.Dynamic, nil
	default:
		return 0, fmt.Errorf("surface: unknown type annotation %q", name)
	}
}

func (n Node) toExpr() (ast.Expr, error) {
	switch n.Kind {
	case "int":
		return ast.LiteralExpr{Value: ast.IntLiteral(deref(n.Int))}, nil
	case "float":
		return ast.LiteralExpr{Value: ast.FloatLiteral(deref(n.Float))}, nil
	case "str":
		return ast.LiteralExpr{Value: ast.StrLiteral(deref(n.Str))}, nil
	case "bool":
		return ast.LiteralExpr{Value: ast.BoolLiteral(deref(n.Bool))}, nil

	case "ident":
		return ast.IdentExpr{Ident: ast.Ident{Val: n.Name}}, nil

	case "binary":
		left, err := n.Left.toExpr()
		if err != nil {
			return nil, err
		}
		right, err := n.Right.toExpr()
		if err != nil {
			return nil, err
		}
		return ast.BinaryExpr{Op: typesystem.Op(n.Op), Left: left, Right: right}, nil

	case "var_declare":
		val, err := n.Val.toExpr()
		if err != nil {
			return nil, err
		}
		return ast.VarDeclare{Name: n.Name, Val: val}, nil

	case "var_assign":
		val, err := n.Val.toExpr()
		if err != nil {
			return nil, err
		}
		return ast.VarAssign{Name: n.Name, Val: val}, nil

	case "call":
		args := make([]ast.Expr, 0, len(n.Args))
		for _, a := range n.Args {
			e, err := a.toExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		return ast.FnCall{Name: n.Name, Args: args}, nil

	case "if":
		cond, err := n.Cond.toExpr()
		if err != nil {
			return nil, err
		}
		body, err := toExprs(n.Body)
		if err != nil {
			return nil, err
		}
		var alt []ast.Expr
		if n.Alt != nil {
			alt, err = toExprs(n.Alt)
			if err != nil {
				return nil, err
			}
		}
		return ast.IfExpr{Cond: cond, Body: body, Alt: alt}, nil

	case "block":
		body, err := toExprs(n.Body)
		if err != nil {
			return nil, err
		}
		return ast.Block(body), nil

	case "ret":
		val, err := n.Val.toExpr()
		if err != nil {
			return nil, err
		}
		return ast.RetExpr{Value: val}, nil

	case "discard":
		val, err := n.Val.toExpr()
		if err != nil {
			return nil, err
		}
		return ast.Discard{Value: val}, nil

	case "pos":
		return ast.PosInfo{File: n.File, Line: n.Line, Column: n.Column}, nil

	default:
		return nil, fmt.Errorf("surface: unknown node kind %q", n.Kind)
	}
}

func toExprs(nodes []Node) ([]ast.Expr, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]ast.Expr, 0, len(nodes))
	for _, n := range nodes {
		e, err := n.toExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
