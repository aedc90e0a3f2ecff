// Package typesystem defines the closed type lattice used by the Covalent
// analyzer: the primitive ConstType kinds and the supports_op relation that
// gates binary operators.
package typesystem

// ConstType is the closed sum of primitive kinds the analyzer assigns to
// every expression. Dynamic is a deferred-resolution placeholder, not a
// runtime "any" — it is eliminated where possible by the correction pass.
type ConstType int

const (
	Int ConstType = iota
	Float
	Str
	Bool
	Void
	Dynamic
)

func (t ConstType) String() string {
	switch t {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Str:
		return "Str"
	case Bool:
		return "Bool"
	case Void:
		return "Void"
	case Dynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}

// Op is one of the binary operator spellings the analyzer understands.
type Op string

const (
	OpEq  Op = "=="
	OpLt  Op = "<"
	OpGt  Op = ">"
	OpLe  Op = "<="
	OpGe  Op = ">="
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
)

// IsComparison reports whether op is one of the comparison operators, which
// always produce Bool.
func (op Op) IsComparison() bool {
	switch op {
	case OpEq, OpLt, OpGt, OpLe, OpGe:
		return true
	default:
		return false
	}
}

// SupportsOp implements the supports_op(ty, op) relation from spec §4.1.
func SupportsOp(ty ConstType, op Op) bool {
	if ty == Dynamic {
		// Any operator with an operand of kind Dynamic is accepted; the
		// correction pass is responsible for retyping it later.
		return true
	}

	if op.IsComparison() {
		switch ty {
		case Int, Float, Str, Bool:
			return true
		default:
			return false
		}
	}

	switch op {
	case OpAdd:
		switch ty {
		case Int, Float, Str:
			return true
		default:
			return false
		}
	case OpSub, OpMul, OpDiv:
		switch ty {
		case Int, Float:
			return true
		default:
			return false
		}
	default:
		return false
	}
}
