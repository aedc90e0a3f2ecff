package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Spec §5 requires analysis to stop at the
// first error, so Run skips every remaining stage once ctx.Err is set.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if ctx.Failed() {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
