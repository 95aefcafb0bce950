// Package emitter renders the converter IR into pseudocode text. Rendering is
// a pure function of the tree and the options; the same input always produces
// the same output.
package emitter

import (
	"fmt"
	"strings"

	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/ir"
	"pseudoc/internal/converter/lib"
)

// Format selects the output envelope.
type Format string

const (
	FormatPlain Format = "plain"
	// FormatDocumentation wraps the code in a fenced markdown block under a
	// heading, ready for inclusion in worksheets.
	FormatDocumentation Format = "documentation"
)

type Options struct {
	Format               Format
	IndentSize           int
	IndentChar           string // " " or "\t"
	LineEnding           string
	IncludeComments      bool
	IncludeLineNumbers   bool
	UppercaseKeywords    bool
	SpaceAroundOperators bool
	SpaceAfterComma      bool
	MaxLineLength        int // 0 disables the check
}

func DefaultOptions() Options {
	return Options{
		Format:               FormatPlain,
		IndentSize:           4,
		IndentChar:           " ",
		LineEnding:           "\n",
		IncludeComments:      true,
		UppercaseKeywords:    true,
		SpaceAroundOperators: true,
		SpaceAfterComma:      true,
		MaxLineLength:        120,
	}
}

// Emitter walks the IR once, accumulating lines. It never aborts: nodes it
// does not recognize become warnings and comment lines.
type Emitter struct {
	opts  Options
	diags *diag.List
	lines []string
}

func New(opts Options, diags *diag.List) *Emitter {
	if opts.IndentSize <= 0 {
		opts.IndentSize = 4
	}
	if opts.IndentChar == "" {
		opts.IndentChar = " "
	}
	if opts.LineEnding == "" {
		opts.LineEnding = "\n"
	}
	if opts.Format == "" {
		opts.Format = FormatPlain
	}
	return &Emitter{opts: opts, diags: diags}
}

// Emit renders the tree rooted at node and returns the final text.
func (e *Emitter) Emit(node *ir.Node) string {
	e.lines = e.lines[:0]
	e.renderChildren(node, 0)

	var out strings.Builder
	if e.opts.Format == FormatDocumentation {
		out.WriteString("# Pseudocode" + e.opts.LineEnding + e.opts.LineEnding)
		out.WriteString("```pseudocode" + e.opts.LineEnding)
	}

	width := len(fmt.Sprintf("%d", len(e.lines)))
	for i, line := range e.lines {
		if e.opts.IncludeLineNumbers {
			out.WriteString(fmt.Sprintf("%*d  ", width, i+1))
		}
		out.WriteString(line)
		out.WriteString(e.opts.LineEnding)
	}

	if e.opts.Format == FormatDocumentation {
		out.WriteString("```" + e.opts.LineEnding)
	}
	return out.String()
}

// renderChildren renders node's children as siblings at the given depth,
// coalescing runs of duplicate comments.
func (e *Emitter) renderChildren(node *ir.Node, depth int) {
	var prevComment string
	for _, child := range node.Children {
		if child.Kind == ir.KindComment {
			if child.Text == prevComment {
				continue
			}
			prevComment = child.Text
		} else if child.Kind != ir.KindCompound {
			prevComment = ""
		}
		e.renderNode(child, depth)
	}
}

func (e *Emitter) renderNode(n *ir.Node, depth int) {
	switch n.Kind {
	case ir.KindBlock, ir.KindCompound:
		e.renderChildren(n, depth)

	case ir.KindComment:
		if e.opts.IncludeComments {
			e.writeRaw(depth, "// "+n.Text)
		}

	case ir.KindIf:
		e.write(depth, "IF "+n.Text+" THEN")
		e.renderChildren(n, depth+1)
	case ir.KindElseIf:
		e.write(depth, "ELSEIF "+n.Text+" THEN")
		e.renderChildren(n, depth+1)
	case ir.KindElse:
		e.write(depth, "ELSE")
		e.renderChildren(n, depth+1)
	case ir.KindEndIf:
		e.write(depth, "ENDIF")

	case ir.KindFor:
		e.write(depth, n.Text)
		e.renderChildren(n, depth+1)
		name := ""
		if n.Meta != nil {
			name = n.Meta.Name
		}
		e.write(depth, strings.TrimSpace("NEXT "+name))
	case ir.KindWhile:
		e.write(depth, "WHILE "+n.Text+" DO")
		e.renderChildren(n, depth+1)
	case ir.KindEndWhile:
		e.write(depth, "ENDWHILE")
	case ir.KindRepeat:
		e.write(depth, "REPEAT")
		e.renderChildren(n, depth+1)
	case ir.KindUntil:
		e.write(depth, "UNTIL "+n.Text)

	case ir.KindFunction:
		e.write(depth, n.Text)
		e.renderChildren(n, depth+1)
		e.write(depth, "ENDFUNCTION")
	case ir.KindProcedure:
		e.write(depth, n.Text)
		e.renderChildren(n, depth+1)
		e.write(depth, "ENDPROCEDURE")

	case ir.KindType:
		e.write(depth, n.Text)
		e.renderChildren(n, depth+1)
		e.write(depth, "ENDTYPE")
	case ir.KindClass:
		e.write(depth, n.Text)
		e.renderChildren(n, depth+1)
		e.write(depth, "ENDCLASS")
	case ir.KindCase:
		e.write(depth, "CASE OF "+n.Text)
		e.renderChildren(n, depth+1)
		e.write(depth, "ENDCASE")

	case ir.KindAssign, ir.KindElementAssign, ir.KindAttributeAssign,
		ir.KindArray, ir.KindArrayLiteral, ir.KindStatement,
		ir.KindExpression, ir.KindReturn, ir.KindBreak:
		e.write(depth, n.Text)

	default:
		e.diags.Warnf(diag.KindConversion, 0, "unrenderable node kind %q", n.Kind)
		if e.opts.IncludeComments {
			e.writeRaw(depth, "// "+n.Text)
		}
	}
}

// write applies the text transforms and appends one line.
func (e *Emitter) write(depth int, text string) {
	e.writeRaw(depth, e.transform(text))
}

func (e *Emitter) writeRaw(depth int, text string) {
	line := strings.Repeat(e.opts.IndentChar, depth*e.opts.IndentSize) + text
	if e.opts.MaxLineLength > 0 && len(line) > e.opts.MaxLineLength {
		e.diags.Warnf(diag.KindValidation, 0, "output line exceeds %d characters: %.40s...", e.opts.MaxLineLength, text)
	}
	e.lines = append(e.lines, line)
}

func (e *Emitter) transform(text string) string {
	if !e.opts.UppercaseKeywords {
		text = lib.MapUnquoted(text, lowercaseKeywords)
	}
	if !e.opts.SpaceAroundOperators {
		text = lib.MapUnquoted(text, collapseOperatorSpaces)
	}
	if !e.opts.SpaceAfterComma {
		text = lib.MapUnquoted(text, func(s string) string {
			return strings.ReplaceAll(s, ", ", ",")
		})
	}
	return text
}

// keywords is the full spelled-uppercase vocabulary the builder emits. The
// lowercase rendering mode folds exactly these words and nothing else, so
// user identifiers keep their case.
var keywords = map[string]bool{
	"IF": true, "THEN": true, "ELSE": true, "ELSEIF": true, "ENDIF": true,
	"WHILE": true, "DO": true, "ENDWHILE": true,
	"REPEAT": true, "UNTIL": true,
	"FOR": true, "TO": true, "STEP": true, "NEXT": true,
	"FUNCTION": true, "ENDFUNCTION": true, "PROCEDURE": true, "ENDPROCEDURE": true,
	"RETURN": true, "RETURNS": true, "CALL": true,
	"DECLARE": true, "ARRAY": true, "OF": true,
	"TYPE": true, "ENDTYPE": true, "CLASS": true, "ENDCLASS": true,
	"INHERITS": true, "PRIVATE": true, "PUBLIC": true, "NEW": true,
	"CASE": true, "ENDCASE": true, "OTHERWISE": true,
	"OUTPUT": true, "INPUT": true,
	"EXIT": true, "LOOP": true,
	"MOD": true, "DIV": true, "AND": true, "OR": true, "NOT": true, "IN": true,
	"TRUE": true, "FALSE": true, "NULL": true,
	"INTEGER": true, "REAL": true, "STRING": true, "BOOLEAN": true, "ANY": true,
	"LENGTH": true, "UCASE": true, "LCASE": true, "TRIM": true,
	"SPLIT": true, "FIND": true, "STR": true, "INT": true,
	"ABS": true, "ROUND": true, "CHR": true, "ORD": true, "MIN": true, "MAX": true,
}

func lowercaseKeywords(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if !lib.IsWordByte(s[i]) {
			out.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && lib.IsWordByte(s[j]) {
			j++
		}
		word := s[i:j]
		if keywords[word] {
			out.WriteString(strings.ToLower(word))
		} else {
			out.WriteString(word)
		}
		i = j
	}
	return out.String()
}

// operator tokens ordered longest first so "<=" collapses before "<".
var operatorTokens = []string{"<-", "<=", ">=", "<>", "^", "=", "<", ">", "+", "-", "*", "/", "&"}

func collapseOperatorSpaces(s string) string {
	for _, op := range operatorTokens {
		s = strings.ReplaceAll(s, " "+op+" ", op)
	}
	return s
}
