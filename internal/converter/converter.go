// Package converter turns a subset of Python source into exam-style
// pseudocode. The pipeline has two independent halves: Parse analyzes source
// into an IR tree, Render turns an IR tree into text. Convert composes them.
// Neither half shares mutable state between calls.
package converter

import (
	"time"

	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/emitter"
	"pseudoc/internal/converter/ir"
	"pseudoc/internal/converter/parser"
)

// Parse analyzes source and builds the pseudocode IR. It never panics: any
// internal fault is converted into a single syntax diagnostic and an
// empty-but-valid tree, so callers always get a renderable result.
func Parse(source string, opts ParseOptions) (result ParseResult) {
	start := time.Now()
	log := NewLogger(opts.Debug)
	diags := diag.NewList(opts.MaxErrors)

	defer func() {
		if r := recover(); r != nil {
			log.Error("internal fault: %v", r)
			diags.Errorf(diag.KindSyntax, 0, "internal error during conversion: %v", r)
			result = ParseResult{
				IR:       ir.New(ir.KindBlock, ""),
				Errors:   diags.Errors(),
				Warnings: diags.Warnings(),
			}
		}
	}()

	indent := opts.IndentSize
	if indent <= 0 {
		indent = 4
	}

	log.Debug("parsing %d bytes of source", len(source))
	p := parser.NewParser(source, indent, diags)
	mod := p.ParseModule()
	log.Debug("structural parse produced %d top-level statements", len(mod.Statements))

	b := ir.NewBuilder(ir.Config{
		Strict:          opts.StrictTypes,
		IncludeComments: opts.IncludeComments,
		MaxNestingDepth: opts.MaxNestingDepth,
		RecordPolicy:    opts.RecordPolicy,
		FallbackLength:  opts.FallbackLength,
	}, diags)
	root := b.Build(mod)
	log.Debug("built %d IR nodes, %d classes registered", root.Count(), b.Registry().Len())
	if b.Registry().Len() > 0 {
		log.Debug("class registry: %v", b.Registry().Names())
	}

	return ParseResult{
		IR:       root,
		Errors:   diags.Errors(),
		Warnings: diags.Warnings(),
		Stats: collectParseStats(source, root, b.Scopes().VariableCount(),
			time.Since(start).Milliseconds()),
	}
}

// Render turns an IR tree into pseudocode text. Rendering the same tree with
// the same options always yields the same string.
func Render(node *ir.Node, opts RenderOptions) RenderResult {
	start := time.Now()
	diags := diag.NewList(0)

	if node == nil {
		node = ir.New(ir.KindBlock, "")
	}
	em := emitter.New(opts, diags)
	code := em.Emit(node)

	return RenderResult{
		Code:     code,
		Errors:   diags.Errors(),
		Warnings: diags.Warnings(),
		Stats: RenderStats{
			OutputLines: countLines(code),
			Characters:  len(code),
			ElapsedMs:   time.Since(start).Milliseconds(),
		},
	}
}

// Convert runs the full pipeline over source.
func Convert(source string, opts Options) ConvertResult {
	parsed := Parse(source, opts.Parse)
	rendered := Render(parsed.IR, opts.Render)

	return ConvertResult{
		Code:     rendered.Code,
		IR:       parsed.IR,
		Errors:   append(parsed.Errors, rendered.Errors...),
		Warnings: append(parsed.Warnings, rendered.Warnings...),
		Parse:    parsed.Stats,
		Render:   rendered.Stats,
	}
}
