package parser

import (
	"strconv"
	"strings"

	"pseudoc/internal/converter/ast"
	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/lexer"
	"pseudoc/internal/converter/token"
)

// parseExpr parses an expression fragment. It never returns nil: on failure
// the original text is preserved as a RawExpr so rendering stays best-effort.
func (p *Parser) parseExpr(text string, line int) ast.Expression {
	expr := p.parseExprChecked(text, line)
	if expr == nil {
		return &ast.RawExpr{Line: line, Text: text}
	}
	return expr
}

// parseExprChecked returns nil when the fragment does not parse cleanly.
func (p *Parser) parseExprChecked(text string, line int) ast.Expression {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	l := lexer.NewLexer(text, line)
	ep := &exprParser{line: line, diags: p.diags, src: text}
	for {
		tok := l.NextToken()
		ep.toks = append(ep.toks, tok)
		if tok.Type == token.TokenEOF {
			break
		}
	}
	for _, msg := range l.Errors() {
		p.diags.Errorf(diag.KindSyntax, line, "%s", msg)
	}

	expr := ep.parseExpression()
	if ep.failed {
		return nil
	}
	if ep.cur().Type != token.TokenEOF {
		// tuple display without parentheses: a, b, c
		if ep.cur().Type == token.TokenComma {
			elems := []ast.Expression{expr}
			for ep.cur().Type == token.TokenComma {
				ep.next()
				elems = append(elems, ep.parseExpression())
			}
			if !ep.failed && ep.cur().Type == token.TokenEOF {
				return &ast.TupleLit{Line: line, Elems: elems}
			}
		}
		p.diags.Errorf(diag.KindSyntax, line, "unexpected %q in expression: %s", ep.cur().Literal, text)
		return nil
	}
	return expr
}

type exprParser struct {
	toks   []token.Token
	pos    int
	line   int
	src    string
	failed bool
	diags  *diag.List
}

func (ep *exprParser) cur() token.Token {
	if ep.pos < len(ep.toks) {
		return ep.toks[ep.pos]
	}
	return token.Token{Type: token.TokenEOF, Line: ep.line}
}

func (ep *exprParser) next() token.Token {
	tok := ep.cur()
	if ep.pos < len(ep.toks) {
		ep.pos++
	}
	return tok
}

func (ep *exprParser) fail(format string, args ...any) ast.Expression {
	if !ep.failed {
		ep.failed = true
		ep.diags.Errorf(diag.KindSyntax, ep.line, format, args...)
	}
	return &ast.RawExpr{Line: ep.line, Text: ep.src}
}

func (ep *exprParser) expect(t token.TokenType) bool {
	if ep.cur().Type == t {
		ep.next()
		return true
	}
	ep.fail("expected %s, found %q", t, ep.cur().Literal)
	return false
}

// parseExpression -> or-expression (lowest precedence)
func (ep *exprParser) parseExpression() ast.Expression {
	left := ep.parseAnd()
	for !ep.failed && ep.cur().Type == token.TokenOr {
		ep.next()
		right := ep.parseAnd()
		left = &ast.BoolOpExpr{Line: ep.line, Op: "or", Left: left, Right: right}
	}
	return left
}

func (ep *exprParser) parseAnd() ast.Expression {
	left := ep.parseNot()
	for !ep.failed && ep.cur().Type == token.TokenAnd {
		ep.next()
		right := ep.parseNot()
		left = &ast.BoolOpExpr{Line: ep.line, Op: "and", Left: left, Right: right}
	}
	return left
}

func (ep *exprParser) parseNot() ast.Expression {
	if ep.cur().Type == token.TokenNot {
		ep.next()
		return &ast.UnaryExpr{Line: ep.line, Op: "not", Operand: ep.parseNot()}
	}
	return ep.parseComparison()
}

var compareOps = map[token.TokenType]string{
	token.TokenEq:    "==",
	token.TokenNotEq: "!=",
	token.TokenLt:    "<",
	token.TokenGt:    ">",
	token.TokenLtEq:  "<=",
	token.TokenGtEq:  ">=",
	token.TokenIn:    "in",
}

func (ep *exprParser) parseComparison() ast.Expression {
	left := ep.parseAdditive()
	for !ep.failed {
		op, ok := compareOps[ep.cur().Type]
		if !ok {
			break
		}
		ep.next()
		right := ep.parseAdditive()
		left = &ast.CompareExpr{Line: ep.line, Op: op, Left: left, Right: right}
	}
	return left
}

func (ep *exprParser) parseAdditive() ast.Expression {
	left := ep.parseTerm()
	for !ep.failed {
		var op string
		switch ep.cur().Type {
		case token.TokenPlus:
			op = "+"
		case token.TokenMinus:
			op = "-"
		default:
			return left
		}
		ep.next()
		right := ep.parseTerm()
		left = &ast.BinaryExpr{Line: ep.line, Op: op, Left: left, Right: right}
	}
	return left
}

func (ep *exprParser) parseTerm() ast.Expression {
	left := ep.parseUnary()
	for !ep.failed {
		var op string
		switch ep.cur().Type {
		case token.TokenAsterisk:
			op = "*"
		case token.TokenSlash:
			op = "/"
		case token.TokenFloorDiv:
			op = "//"
		case token.TokenPercent:
			op = "%"
		default:
			return left
		}
		ep.next()
		right := ep.parseUnary()
		left = &ast.BinaryExpr{Line: ep.line, Op: op, Left: left, Right: right}
	}
	return left
}

func (ep *exprParser) parseUnary() ast.Expression {
	switch ep.cur().Type {
	case token.TokenMinus:
		ep.next()
		return &ast.UnaryExpr{Line: ep.line, Op: "-", Operand: ep.parseUnary()}
	case token.TokenPlus:
		ep.next()
		return ep.parseUnary()
	}
	return ep.parsePower()
}

// parsePower -> postfix ['**' unary] (right associative)
func (ep *exprParser) parsePower() ast.Expression {
	left := ep.parsePostfix()
	if !ep.failed && ep.cur().Type == token.TokenPower {
		ep.next()
		right := ep.parseUnary()
		return &ast.BinaryExpr{Line: ep.line, Op: "**", Left: left, Right: right}
	}
	return left
}

func (ep *exprParser) parsePostfix() ast.Expression {
	expr := ep.parsePrimary()
	for !ep.failed {
		switch ep.cur().Type {
		case token.TokenLParen:
			ep.next()
			var args []ast.Expression
			for ep.cur().Type != token.TokenRParen && ep.cur().Type != token.TokenEOF {
				args = append(args, ep.parseExpression())
				if ep.cur().Type == token.TokenComma {
					ep.next()
				} else {
					break
				}
			}
			if !ep.expect(token.TokenRParen) {
				return expr
			}
			expr = &ast.CallExpr{Line: ep.line, Func: expr, Args: args}
		case token.TokenLBracket:
			ep.next()
			index := ep.parseExpression()
			if !ep.expect(token.TokenRBracket) {
				return expr
			}
			expr = &ast.IndexExpr{Line: ep.line, Target: expr, Index: index}
		case token.TokenDot:
			ep.next()
			name := ep.cur()
			if name.Type != token.TokenIdent {
				return ep.fail("expected attribute name after '.', found %q", name.Literal)
			}
			ep.next()
			expr = &ast.AttrExpr{Line: ep.line, Target: expr, Name: name.Literal}
		default:
			return expr
		}
	}
	return expr
}

func (ep *exprParser) parsePrimary() ast.Expression {
	tok := ep.cur()
	switch tok.Type {
	case token.TokenInt:
		ep.next()
		v, _ := strconv.Atoi(tok.Literal)
		return &ast.IntLit{Line: ep.line, Value: v, Raw: tok.Literal}
	case token.TokenFloat:
		ep.next()
		return &ast.FloatLit{Line: ep.line, Raw: tok.Literal}
	case token.TokenString:
		ep.next()
		return &ast.StringLit{Line: ep.line, Value: unescape(tok.Literal)}
	case token.TokenFString:
		ep.next()
		return ep.parseFString(tok.Literal)
	case token.TokenTrue:
		ep.next()
		return &ast.BoolLit{Line: ep.line, Value: true}
	case token.TokenFalse:
		ep.next()
		return &ast.BoolLit{Line: ep.line, Value: false}
	case token.TokenNone:
		ep.next()
		return &ast.NoneLit{Line: ep.line}
	case token.TokenIdent:
		ep.next()
		return &ast.Name{Line: ep.line, Value: tok.Literal}
	case token.TokenLParen:
		ep.next()
		first := ep.parseExpression()
		if ep.cur().Type == token.TokenComma {
			elems := []ast.Expression{first}
			for ep.cur().Type == token.TokenComma {
				ep.next()
				if ep.cur().Type == token.TokenRParen {
					break
				}
				elems = append(elems, ep.parseExpression())
			}
			if !ep.expect(token.TokenRParen) {
				return first
			}
			return &ast.TupleLit{Line: ep.line, Elems: elems}
		}
		ep.expect(token.TokenRParen)
		return first
	case token.TokenLBracket:
		ep.next()
		var elems []ast.Expression
		for ep.cur().Type != token.TokenRBracket && ep.cur().Type != token.TokenEOF {
			elems = append(elems, ep.parseExpression())
			if ep.cur().Type == token.TokenComma {
				ep.next()
			} else {
				break
			}
		}
		ep.expect(token.TokenRBracket)
		return &ast.ListLit{Line: ep.line, Elems: elems}
	default:
		return ep.fail("unexpected %q in expression", tok.Literal)
	}
}

// parseFString decomposes an interpolated literal into an ordered sequence of
// literal and expression fragments. Format specs after ':' inside a brace are
// dropped; {{ and }} are brace escapes.
func (ep *exprParser) parseFString(raw string) ast.Expression {
	lit := &ast.FStringLit{Line: ep.line}
	var text strings.Builder
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch == '{' && i+1 < len(raw) && raw[i+1] == '{':
			text.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(raw) && raw[i+1] == '}':
			text.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				ep.diags.Warnf(diag.KindSyntax, ep.line, "unterminated interpolation in f-string")
				text.WriteString(raw[i:])
				i = len(raw)
				break
			}
			if text.Len() > 0 {
				lit.Parts = append(lit.Parts, ast.FStringPart{Text: text.String()})
				text.Reset()
			}
			inner := raw[i+1 : i+end]
			if colon := splitTopLevel(inner, ":"); colon >= 0 {
				inner = inner[:colon]
			}
			sub := &exprParser{line: ep.line, diags: ep.diags, src: inner}
			l := lexer.NewLexer(inner, ep.line)
			for {
				t := l.NextToken()
				sub.toks = append(sub.toks, t)
				if t.Type == token.TokenEOF {
					break
				}
			}
			expr := sub.parseExpression()
			if sub.failed {
				expr = &ast.RawExpr{Line: ep.line, Text: inner}
			}
			lit.Parts = append(lit.Parts, ast.FStringPart{IsExpr: true, Expr: expr})
			i += end
		default:
			text.WriteByte(ch)
		}
	}
	if text.Len() > 0 {
		lit.Parts = append(lit.Parts, ast.FStringPart{Text: text.String()})
	}
	return lit
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case '\\', '\'', '"':
				out.WriteByte(s[i])
			default:
				out.WriteByte('\\')
				out.WriteByte(s[i])
			}
			continue
		}
		out.WriteByte(s[i])
	}
	return out.String()
}
