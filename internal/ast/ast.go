// Package ast defines the untyped program shape the parser hands to the
// analyzer: Expr, Function and the literal/identifier leaves. The lexer and
// parser that produce these values are out of scope for this module (see
// spec.md §1) — this package only carries the contract between them and the
// analyzer.
package ast

import "github.com/covalent-lang/covalent/internal/typesystem"

// Literal is a leaf value classified by the parser; its kind decides the
// ConstType the analyzer assigns without any further lookup.
type Literal interface {
	GetType() typesystem.ConstType
}

type IntLiteral int64

func (IntLiteral) GetType() typesystem.ConstType { return typesystem.Int }

type FloatLiteral float64

func (FloatLiteral) GetType() typesystem.ConstType { return typesystem.Float }

type StrLiteral string

func (StrLiteral) GetType() typesystem.ConstType { return typesystem.Str }

type BoolLiteral bool

func (BoolLiteral) GetType() typesystem.ConstType { return typesystem.Bool }

// Ident is a user-supplied name with an optional type annotation (e.g. a
// function parameter hint). Tag is nil when the source carries no
// annotation.
type Ident struct {
	Tag *typesystem.ConstType
	Val string
}

// Expr is the base interface for every untyped AST node. exprNode is
// unexported so only this package can introduce new variants.
type Expr interface {
	exprNode()
}

type LiteralExpr struct{ Value Literal }

type IdentExpr struct{ Ident Ident }

type BinaryExpr struct {
	Op          typesystem.Op
	Left, Right Expr
}

type VarDeclare struct {
	Name string
	Val  Expr
}

type VarAssign struct {
	Name string
	Val  Expr
}

type FnCall struct {
	Name string
	Args []Expr
}

// IfExpr's Alt is nil when the source has no else-branch.
type IfExpr struct {
	Cond Expr
	Body []Expr
	Alt  []Expr
}

type Block []Expr

type RetExpr struct{ Value Expr }

type Discard struct{ Value Expr }

// PosInfo is a sentinel expression emitted by the parser purely to thread
// line/column information into the analyzer's current position; it carries
// no value of its own (spec §3, §9 "Diagnostics position").
type PosInfo struct {
	File   string
	Line   int
	Column int
}

func (LiteralExpr) exprNode() {}
func (IdentExpr) exprNode()   {}
func (BinaryExpr) exprNode()  {}
func (VarDeclare) exprNode()  {}
func (VarAssign) exprNode()   {}
func (FnCall) exprNode()      {}
func (IfExpr) exprNode()      {}
func (Block) exprNode()       {}
func (RetExpr) exprNode()     {}
func (Discard) exprNode()     {}
func (PosInfo) exprNode()     {}

// Function is a top-level function definition: a name, its parameters, and
// a body of expressions. The return type is not part of the parsed shape —
// it is inferred by the analyzer from the body's last expression.
type Function struct {
	Name Ident
	Args []Ident
	Body []Expr
}
