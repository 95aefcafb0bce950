package converter

import (
	"pseudoc/internal/converter/emitter"
	"pseudoc/internal/converter/ir"
)

// ParseOptions controls the source analysis half of the pipeline.
type ParseOptions struct {
	Debug           bool
	StrictTypes     bool
	IncludeComments bool
	IndentSize      int
	MaxNestingDepth int
	MaxErrors       int
	// TimeoutMs is an advisory bound; the pipeline itself is synchronous and
	// fast, so the value is only recorded, not enforced mid-parse.
	TimeoutMs int

	RecordPolicy   ir.RecordPolicy
	FallbackLength int
}

func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		IncludeComments: true,
		IndentSize:      4,
		MaxNestingDepth: 32,
		MaxErrors:       20,
		RecordPolicy:    ir.RecordAuto,
		FallbackLength:  ir.DefaultFallbackLength,
	}
}

// RenderOptions controls the text generation half of the pipeline. It is a
// thin alias so callers never import the emitter package directly.
type RenderOptions = emitter.Options

func DefaultRenderOptions() RenderOptions {
	return emitter.DefaultOptions()
}

// Options bundles both halves for the composed Convert entry point.
type Options struct {
	Parse  ParseOptions
	Render RenderOptions
}

func DefaultOptions() Options {
	return Options{
		Parse:  DefaultParseOptions(),
		Render: DefaultRenderOptions(),
	}
}
