package ast

import "github.com/covalent-lang/covalent/internal/typesystem"

// TypedExpr is the unit of the typed intermediate representation (TIR) the
// analyzer produces: every node carries the ConstType the analyzer inferred
// for it. Ty == Void denotes a statement-like result.
type TypedExpr struct {
	Expr AnalyzedExpr
	Ty   typesystem.ConstType
}

// AnalyzedExpr mirrors Expr but operates over already-typed children, plus
// the four node kinds the analyzer introduces that have no untyped
// counterpart: As (explicit coercion), Import (resolved intrinsic/foreign
// call) and Debug (a lowered PosInfo marker), and Func (an analyzed function
// definition).
type AnalyzedExpr interface {
	analyzedNode()
}

type ALiteral struct{ Value Literal }

type AIdent struct{ Name string }

type ABinaryExpr struct {
	Op          typesystem.Op
	Left, Right TypedExpr
}

type AVarDeclare struct {
	Name string
	Val  TypedExpr
}

type AVarAssign struct {
	Name string
	Val  TypedExpr
}

type AFnCall struct {
	Name string
	Args []TypedExpr
}

type AIfExpr struct {
	Cond TypedExpr
	Body []TypedExpr
	Alt  []TypedExpr
}

type ABlock []TypedExpr

type ARetExpr struct{ Value TypedExpr }

type ADiscard struct{ Value TypedExpr }

// AAs is an explicit coercion the analyzer inserted around Operand to
// reconcile a binary expression's operand types, or around a call argument
// pending correction.
type AAs struct {
	Target  typesystem.ConstType
	Operand TypedExpr
}

// AImport is how a resolved intrinsic or foreign call is represented in the
// TIR, e.g. the seeded writeln intrinsic becomes Import{std, writeln, [Dynamic]}.
type AImport struct {
	Module string
	Name   string
	Args   []typesystem.ConstType
}

// ADebug is the lowered form of a PosInfo marker.
type ADebug struct {
	Str    string
	Line   int
	Column int
}

// AFunc is an analyzed function definition ready for lowering.
type AFunc struct {
	Ret  typesystem.ConstType
	Name string
	Args []Ident
	Body []TypedExpr
}

func (ALiteral) analyzedNode()    {}
func (AIdent) analyzedNode()      {}
func (ABinaryExpr) analyzedNode() {}
func (AVarDeclare) analyzedNode() {}
func (AVarAssign) analyzedNode()  {}
func (AFnCall) analyzedNode()     {}
func (AIfExpr) analyzedNode()     {}
func (ABlock) analyzedNode()      {}
func (ARetExpr) analyzedNode()    {}
func (ADiscard) analyzedNode()    {}
func (AAs) analyzedNode()         {}
func (AImport) analyzedNode()     {}
func (ADebug) analyzedNode()      {}
func (AFunc) analyzedNode()       {}
