package converter

import (
	"strings"

	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/ir"
)

// ParseStats is derived by walking the finished artifacts, never tracked
// incrementally.
type ParseStats struct {
	SourceLines int
	Nodes       int
	Functions   int
	Classes     int
	Variables   int
	ElapsedMs   int64
}

type ParseResult struct {
	IR       *ir.Node
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
	Stats    ParseStats
}

// OK reports whether parsing produced usable IR without errors.
func (r ParseResult) OK() bool { return len(r.Errors) == 0 }

type RenderStats struct {
	OutputLines int
	Characters  int
	ElapsedMs   int64
}

type RenderResult struct {
	Code     string
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
	Stats    RenderStats
}

// ConvertResult is the composed outcome of Parse followed by Render.
type ConvertResult struct {
	Code     string
	IR       *ir.Node
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
	Parse    ParseStats
	Render   RenderStats
}

func (r ConvertResult) OK() bool { return len(r.Errors) == 0 }

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

func collectParseStats(source string, root *ir.Node, variables int, elapsedMs int64) ParseStats {
	stats := ParseStats{
		SourceLines: countLines(source),
		Variables:   variables,
		ElapsedMs:   elapsedMs,
	}
	root.Walk(func(n *ir.Node) {
		stats.Nodes++
		switch n.Kind {
		case ir.KindFunction, ir.KindProcedure:
			stats.Functions++
		case ir.KindType, ir.KindClass:
			stats.Classes++
		}
	})
	return stats
}
