package pipeline

import (
	"fmt"

	"github.com/covalent-lang/covalent/internal/analyzer"
	"github.com/covalent-lang/covalent/internal/lowering"
	"github.com/covalent-lang/covalent/internal/surface"
)

// ParseStage reads the JSON program file at ctx.SourcePath and decodes it
// into ctx.Exprs/ctx.Functions. It stands in for the lexer/parser stage
// spec.md §1 lists as out of scope for this module.
var ParseStage = ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
	program, err := surface.ReadProgram(ctx.SourcePath)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	exprs, functions, err := program.ToAST()
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Exprs, ctx.Functions = exprs, functions
	return ctx
})

// AnalyzeStage runs the analyzer (inference, coercion and the correction
// pass) over ctx.Exprs/ctx.Functions, producing ctx.Typed.
var AnalyzeStage = ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
	typed, err := analyzer.New().AnalyzProg(ctx.Exprs, ctx.Functions)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Typed = typed
	return ctx
})

// LowerStage lowers ctx.Typed into an SSA module, namespaced by ctx.ModuleID.
var LowerStage = ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
	if ctx.ModuleID == "" {
		ctx.Err = fmt.Errorf("pipeline: LowerStage requires a non-empty ModuleID")
		return ctx
	}
	rt, err := lowering.Lower(ctx.ModuleID, ctx.Typed)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Runtime = rt
	return ctx
})
