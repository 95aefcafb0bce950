package parser

import (
	"strings"

	"pseudoc/internal/converter/ast"
	"pseudoc/internal/converter/diag"
)

// Parser converts raw source text into an untyped statement tree using only
// leading-whitespace column counts. No grammar, no backtracking: each line is
// classified by ordered pattern tests and nesting follows indentation.
type Parser struct {
	lines []sourceLine
	pos   int
	diags *diag.List
}

func NewParser(source string, indentSize int, diags *diag.List) *Parser {
	return &Parser{
		lines: splitLines(source, indentSize),
		diags: diags,
	}
}

// ParseModule scans top to bottom and returns the root module record. It
// never raises: unrecognized lines become placeholder records and parsing
// continues.
func (p *Parser) ParseModule() *ast.Module {
	return &ast.Module{Statements: p.parseBlock(0)}
}

// parseBlock collects statements whose indentation is at least minIndent,
// stopping at the first dedent below it.
func (p *Parser) parseBlock(minIndent int) []ast.Statement {
	var stmts []ast.Statement
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if ln.blank {
			p.pos++
			stmts = append(stmts, &ast.BlankStmt{Line: ln.num})
			continue
		}
		if ln.text == "" && ln.comment != "" {
			p.pos++
			stmts = append(stmts, &ast.CommentStmt{Line: ln.num, Text: ln.comment})
			continue
		}
		if ln.indent < minIndent {
			return stmts
		}
		stmts = append(stmts, p.parseStatement(ln))
	}
	return stmts
}

// parseStatement consumes the current line (and any nested body it opens).
func (p *Parser) parseStatement(ln sourceLine) ast.Statement {
	text := ln.text

	switch {
	case strings.HasPrefix(text, "def ") || text == "def":
		return p.parseFuncDef(ln)
	case strings.HasPrefix(text, "class ") || text == "class":
		return p.parseClassDef(ln)
	case strings.HasPrefix(text, "if ") || strings.HasPrefix(text, "if("):
		return p.parseIf(ln, "if")
	case strings.HasPrefix(text, "elif ") || strings.HasPrefix(text, "else:") || text == "else":
		// a conditional continuation with no opener above it
		p.pos++
		p.diags.Errorf(diag.KindSyntax, ln.num, "%q without a matching if", firstWord(text))
		return &ast.UnknownStmt{Line: ln.num, Raw: text}
	case strings.HasPrefix(text, "while ") || strings.HasPrefix(text, "while("):
		return p.parseWhile(ln)
	case strings.HasPrefix(text, "for ") || strings.HasPrefix(text, "for("):
		return p.parseFor(ln)
	case text == "return" || strings.HasPrefix(text, "return ") || strings.HasPrefix(text, "return("):
		return p.parseReturn(ln)
	case text == "break":
		p.pos++
		return &ast.BreakStmt{Line: ln.num}
	case text == "continue":
		p.pos++
		return &ast.ContinueStmt{Line: ln.num}
	case text == "pass":
		p.pos++
		return &ast.PassStmt{Line: ln.num}
	}

	if stmt, ok := p.parseAssignment(ln); ok {
		return stmt
	}

	// Call-like suffix: name(...) or obj.attr(...)
	if looksLikeCall(text) {
		p.pos++
		return &ast.ExprStmt{Line: ln.num, Value: p.parseExpr(text, ln.num)}
	}

	// Generic expression fallback (docstrings land here too).
	p.pos++
	expr := p.parseExprChecked(text, ln.num)
	if expr != nil {
		return &ast.ExprStmt{Line: ln.num, Value: expr}
	}
	p.diags.Errorf(diag.KindSyntax, ln.num, "unrecognized statement: %s", text)
	return &ast.UnknownStmt{Line: ln.num, Raw: text}
}

// parseAssignment handles the annotated/subscript/attribute/augmented
// assignment shapes. Returns false when the line has no top-level '='.
func (p *Parser) parseAssignment(ln sourceLine) (ast.Statement, bool) {
	text := ln.text
	idx, augOp := findAssign(text)
	if idx < 0 {
		return nil, false
	}

	lhs := strings.TrimSpace(text[:idx])
	rhs := strings.TrimSpace(text[idx+1:])
	if augOp != "" {
		lhs = strings.TrimSpace(lhs[:len(lhs)-1]) // drop the operator half
	}
	if lhs == "" || rhs == "" {
		p.pos++
		p.diags.Errorf(diag.KindSyntax, ln.num, "malformed assignment: %s", text)
		return &ast.UnknownStmt{Line: ln.num, Raw: text}, true
	}

	p.pos++
	value := p.parseExpr(rhs, ln.num)

	if augOp != "" {
		if !isIdentifier(lhs) {
			p.diags.Errorf(diag.KindSyntax, ln.num, "unsupported augmented assignment target: %s", lhs)
			return &ast.UnknownStmt{Line: ln.num, Raw: text}, true
		}
		return &ast.AugAssignStmt{Line: ln.num, Name: lhs, Op: augOp, Value: value}, true
	}

	// name[index] = ...
	if open := strings.IndexByte(lhs, '['); open > 0 && strings.HasSuffix(lhs, "]") && isIdentifier(lhs[:open]) {
		index := p.parseExpr(lhs[open+1:len(lhs)-1], ln.num)
		return &ast.IndexAssignStmt{Line: ln.num, Name: lhs[:open], Index: index, Value: value}, true
	}

	// obj.attr = ...
	if dot := strings.IndexByte(lhs, '.'); dot > 0 {
		object, attr := lhs[:dot], lhs[dot+1:]
		if isIdentifier(object) && isIdentifier(attr) {
			return &ast.AttrAssignStmt{Line: ln.num, Object: object, Attr: attr, Value: value}, true
		}
	}

	// name: annotation = ...
	if colon := strings.IndexByte(lhs, ':'); colon > 0 {
		name := strings.TrimSpace(lhs[:colon])
		annotation := strings.TrimSpace(lhs[colon+1:])
		if isIdentifier(name) {
			return &ast.AssignStmt{Line: ln.num, Name: name, Annotation: annotation, Value: value}, true
		}
	}

	if isIdentifier(lhs) {
		return &ast.AssignStmt{Line: ln.num, Name: lhs, Value: value}, true
	}

	p.diags.Errorf(diag.KindSyntax, ln.num, "unsupported assignment target: %s", lhs)
	return &ast.UnknownStmt{Line: ln.num, Raw: text}, true
}

// parseIf handles an if or elif opener. A same-indentation elif continuation
// is rewritten into a nested if attached as the sole or-else element; a
// same-indentation else collects its own body.
func (p *Parser) parseIf(ln sourceLine, keyword string) ast.Statement {
	header, inline := p.splitHeader(ln, keyword)
	cond := p.parseExpr(header, ln.num)
	p.pos++

	stmt := &ast.IfStmt{Line: ln.num, Cond: cond}
	stmt.Body = p.parseBody(ln, inline)

	// conditional-chain continuations at the opener's indentation
	if next, ok := p.peek(); ok && next.indent == ln.indent {
		if strings.HasPrefix(next.text, "elif ") || strings.HasPrefix(next.text, "elif(") {
			nested := p.parseIf(next, "elif")
			stmt.OrElse = []ast.Statement{nested}
		} else if strings.HasPrefix(next.text, "else:") || next.text == "else" {
			_, elseInline := p.splitHeader(next, "else")
			p.pos++
			stmt.OrElse = p.parseBody(next, elseInline)
		}
	}
	return stmt
}

func (p *Parser) parseWhile(ln sourceLine) ast.Statement {
	header, inline := p.splitHeader(ln, "while")
	cond := p.parseExpr(header, ln.num)
	p.pos++
	return &ast.WhileStmt{Line: ln.num, Cond: cond, Body: p.parseBody(ln, inline)}
}

func (p *Parser) parseFor(ln sourceLine) ast.Statement {
	header, inline := p.splitHeader(ln, "for")
	p.pos++

	loopVar := ""
	iterText := ""
	if in := splitTopLevel(header, " in "); in >= 0 {
		loopVar = strings.TrimSpace(header[:in])
		iterText = strings.TrimSpace(header[in+4:])
	}
	if !isIdentifier(loopVar) || iterText == "" {
		p.diags.Errorf(diag.KindSyntax, ln.num, "malformed for header: %s", ln.text)
		_ = p.parseBody(ln, inline) // consume the body so the scan stays aligned
		return &ast.UnknownStmt{Line: ln.num, Raw: ln.text}
	}
	iter := p.parseExpr(iterText, ln.num)
	return &ast.ForStmt{Line: ln.num, Var: loopVar, Iter: iter, Body: p.parseBody(ln, inline)}
}

func (p *Parser) parseReturn(ln sourceLine) ast.Statement {
	p.pos++
	rest := strings.TrimSpace(strings.TrimPrefix(ln.text, "return"))
	if rest == "" {
		return &ast.ReturnStmt{Line: ln.num}
	}
	return &ast.ReturnStmt{Line: ln.num, Value: p.parseExpr(rest, ln.num)}
}

func (p *Parser) parseFuncDef(ln sourceLine) ast.Statement {
	header, inline := p.splitHeader(ln, "def")
	p.pos++

	name, params, returnAnnot, ok := parseDefHeader(header)
	if !ok {
		p.diags.Errorf(diag.KindSyntax, ln.num, "malformed function definition: %s", ln.text)
		return &ast.UnknownStmt{Line: ln.num, Raw: ln.text}
	}
	return &ast.FuncDefStmt{
		Line:             ln.num,
		Name:             name,
		Params:           params,
		ReturnAnnotation: returnAnnot,
		Body:             p.parseBody(ln, inline),
	}
}

func (p *Parser) parseClassDef(ln sourceLine) ast.Statement {
	header, inline := p.splitHeader(ln, "class")
	p.pos++

	name := header
	var bases []string
	if open := strings.IndexByte(header, '('); open >= 0 {
		name = strings.TrimSpace(header[:open])
		inner := strings.TrimSuffix(strings.TrimSpace(header[open:]), ")")
		inner = strings.TrimPrefix(inner, "(")
		for _, b := range strings.Split(inner, ",") {
			b = strings.TrimSpace(b)
			if b != "" && b != "object" {
				bases = append(bases, b)
			}
		}
	}
	name = strings.TrimSpace(name)
	if !isIdentifier(name) {
		p.diags.Errorf(diag.KindSyntax, ln.num, "malformed class definition: %s", ln.text)
		return &ast.UnknownStmt{Line: ln.num, Raw: ln.text}
	}
	return &ast.ClassDefStmt{Line: ln.num, Name: name, Bases: bases, Body: p.parseBody(ln, inline)}
}

// splitHeader strips the keyword and the terminating colon from a block
// opener, returning the header text and any inline body after the colon.
func (p *Parser) splitHeader(ln sourceLine, keyword string) (header, inline string) {
	text := strings.TrimSpace(strings.TrimPrefix(ln.text, keyword))
	colon := headerColon(text)
	if colon < 0 {
		p.diags.Errorf(diag.KindSyntax, ln.num, "missing colon after %s header", keyword)
		return text, ""
	}
	return strings.TrimSpace(text[:colon]), strings.TrimSpace(text[colon+1:])
}

// parseBody parses the nested body of an opener: either the inline statement
// after the colon or the indented block that follows.
func (p *Parser) parseBody(opener sourceLine, inline string) []ast.Statement {
	if inline != "" {
		inlineLn := sourceLine{num: opener.num, indent: opener.indent + 1, text: inline}
		sub := &Parser{lines: []sourceLine{inlineLn}, diags: p.diags}
		return []ast.Statement{sub.parseStatement(inlineLn)}
	}
	return p.parseBlock(opener.indent + 1)
}

// peek returns the current unconsumed line. Blank and comment-only lines
// between a body and its elif/else continuation have already been consumed
// by the body's block scan.
func (p *Parser) peek() (sourceLine, bool) {
	if p.pos < len(p.lines) && !p.lines[p.pos].blank {
		return p.lines[p.pos], true
	}
	return sourceLine{}, false
}

// parseDefHeader splits "name(a, b: int) -> int" into its parts.
func parseDefHeader(header string) (name string, params []ast.Param, returnAnnot string, ok bool) {
	open := strings.IndexByte(header, '(')
	if open <= 0 {
		return "", nil, "", false
	}
	name = strings.TrimSpace(header[:open])
	if !isIdentifier(name) {
		return "", nil, "", false
	}
	closeIdx := strings.LastIndexByte(header, ')')
	if closeIdx < open {
		return "", nil, "", false
	}
	if arrow := strings.Index(header[closeIdx:], "->"); arrow >= 0 {
		returnAnnot = strings.TrimSpace(header[closeIdx+arrow+2:])
	}
	inner := strings.TrimSpace(header[open+1 : closeIdx])
	if inner == "" {
		return name, nil, returnAnnot, true
	}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "self" {
			continue
		}
		param := ast.Param{Name: part}
		if colon := strings.IndexByte(part, ':'); colon > 0 {
			param.Name = strings.TrimSpace(part[:colon])
			param.Annotation = strings.TrimSpace(part[colon+1:])
		}
		// default values are dropped, only the name matters downstream
		if eq := strings.IndexByte(param.Name, '='); eq > 0 {
			param.Name = strings.TrimSpace(param.Name[:eq])
		}
		if eq := strings.IndexByte(param.Annotation, '='); eq > 0 {
			param.Annotation = strings.TrimSpace(param.Annotation[:eq])
		}
		params = append(params, param)
	}
	return name, params, returnAnnot, true
}

func looksLikeCall(text string) bool {
	open := strings.IndexByte(text, '(')
	if open <= 0 || !strings.HasSuffix(text, ")") {
		return false
	}
	callee := text[:open]
	if isIdentifier(callee) {
		return true
	}
	// obj.method(...) shape
	if dot := strings.LastIndexByte(callee, '.'); dot > 0 {
		return isIdentifier(callee[:dot]) && isIdentifier(callee[dot+1:])
	}
	return false
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " :("); i >= 0 {
		return s[:i]
	}
	return s
}
