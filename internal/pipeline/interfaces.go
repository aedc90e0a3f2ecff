package pipeline

// Processor is one stage of the pipeline: it consumes and returns a
// PipelineContext, adding to it or, on failure, recording ctx.Err.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }
