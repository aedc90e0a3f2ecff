package pipeline

import (
	"github.com/covalent-lang/covalent/internal/ast"
	"github.com/covalent-lang/covalent/internal/lowering"
)

// PipelineContext holds all the data passed between pipeline stages:
// source, untyped AST, TIR, and the lowered module, accumulating as each
// stage runs.
type PipelineContext struct {
	SourcePath string
	ModuleID   string

	Exprs     []ast.Expr
	Functions []ast.Function

	Typed []ast.TypedExpr

	Runtime *lowering.Runtime

	Err error
}

// NewPipelineContext creates and initializes a new PipelineContext for the
// given source file and module identifier.
func NewPipelineContext(sourcePath, moduleID string) *PipelineContext {
	return &PipelineContext{SourcePath: sourcePath, ModuleID: moduleID}
}

// Failed reports whether an earlier stage already recorded an error.
func (c *PipelineContext) Failed() bool {
	return c.Err != nil
}
