// Package config is the single source of truth for the analyzer's fixed
// tables: the intrinsic surface seeded into every root scope, and the
// lowering runtime's target byte order.
package config

// IntrinsicDef describes one intrinsic function seeded by the analyzer at
// root-scope construction (spec §4.3 step 2, §6 "Intrinsic surface", and
// §9 "Intrinsic seeding" — modeled as a fixed table rather than an ad-hoc
// call during construction).
type IntrinsicDef struct {
	Module string
	Name   string
	Args   []string // argument kind names; "Dynamic" accepts anything
}

// Intrinsics is the fixed set of intrinsics available to every Covalent
// program before any user declaration is analyzed.
var Intrinsics = []IntrinsicDef{
	{Module: "std", Name: "writeln", Args: []string{"Dynamic"}},
}

// TargetByteOrder names the byte order the lowering runtime's boxed-value
// helpers (mk_int, mk_float, use_int, use_float) assemble and disassemble.
// The spec's only supported layout is little-endian (spec §4.6, §6).
const TargetByteOrder = "little"
