package ir

import (
	"fmt"
	"strings"

	"pseudoc/internal/converter/ast"
	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/types"
)

// Operator spellings in the target notation.
var operatorText = map[string]string{
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "/",
	"%":   "MOD",
	"//":  "DIV",
	"**":  "^",
	"==":  "=",
	"!=":  "<>",
	"<":   "<",
	">":   ">",
	"<=":  "<=",
	">=":  ">=",
	"and": "AND",
	"or":  "OR",
	"not": "NOT",
	"in":  "IN",
}

// Builtin call names in the target notation.
var builtinText = map[string]string{
	"len":   "LENGTH",
	"int":   "INT",
	"float": "REAL",
	"str":   "STR",
	"abs":   "ABS",
	"round": "ROUND",
	"chr":   "CHR",
	"ord":   "ORD",
	"min":   "MIN",
	"max":   "MAX",
}

// String method names in the target notation. The receiver becomes the first
// argument.
var methodText = map[string]string{
	"upper": "UCASE",
	"lower": "LCASE",
	"strip": "TRIM",
	"split": "SPLIT",
	"find":  "FIND",
	"index": "FIND",
}

// Precedence levels for parenthesization while rendering. Higher binds
// tighter. These mirror the source language so the flattened text keeps the
// original grouping without parenthesizing everything.
const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precAdditive
	precTerm
	precUnary
	precPower
	precAtom
)

func exprPrecedence(e ast.Expression) int {
	switch v := e.(type) {
	case *ast.BoolOpExpr:
		if v.Op == "or" {
			return precOr
		}
		return precAnd
	case *ast.CompareExpr:
		return precCompare
	case *ast.BinaryExpr:
		switch v.Op {
		case "+", "-":
			return precAdditive
		case "**":
			return precPower
		default:
			return precTerm
		}
	case *ast.UnaryExpr:
		if v.Op == "not" {
			return precNot
		}
		return precUnary
	default:
		return precAtom
	}
}

// exprText renders an expression into target notation. It never fails: text
// the analyzer could not classify passes through verbatim.
func (b *Builder) exprText(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.IntLit:
		return v.Raw
	case *ast.FloatLit:
		return v.Raw
	case *ast.StringLit:
		return fmt.Sprintf("%q", v.Value)
	case *ast.FStringLit:
		return b.fstringText(v)
	case *ast.BoolLit:
		if v.Value {
			return "TRUE"
		}
		return "FALSE"
	case *ast.NoneLit:
		return "NULL"
	case *ast.Name:
		return b.nameText(v)
	case *ast.BinaryExpr:
		return b.binaryText(v, v.Op, v.Left, v.Right)
	case *ast.CompareExpr:
		return b.binaryText(v, v.Op, v.Left, v.Right)
	case *ast.BoolOpExpr:
		return b.binaryText(v, v.Op, v.Left, v.Right)
	case *ast.UnaryExpr:
		return b.unaryText(v)
	case *ast.CallExpr:
		return b.callText(v)
	case *ast.IndexExpr:
		return b.indexText(v)
	case *ast.AttrExpr:
		return b.attrText(v)
	case *ast.ListLit:
		return b.listText(v.Elems)
	case *ast.TupleLit:
		return b.listText(v.Elems)
	case *ast.RawExpr:
		return v.Text
	default:
		b.diags.Warnf(diag.KindConversion, e.Pos(), "no rendering for %T", e)
		return e.String()
	}
}

// operand renders a child expression, parenthesizing when it binds looser
// than its parent.
func (b *Builder) operand(child ast.Expression, parentPrec int, right bool) string {
	text := b.exprText(child)
	childPrec := exprPrecedence(child)
	if childPrec < parentPrec {
		return "(" + text + ")"
	}
	// equal precedence on the right keeps explicit grouping for the
	// non-associative cases: a - (b - c), a / (b / c)
	if right && childPrec == parentPrec && childPrec != precPower {
		return "(" + text + ")"
	}
	return text
}

func (b *Builder) binaryText(parent ast.Expression, op string, left, right ast.Expression) string {
	spelled, ok := operatorText[op]
	if !ok {
		b.diags.Warnf(diag.KindUnsupported, parent.Pos(), "unsupported operator %q", op)
		spelled = op
	}
	prec := exprPrecedence(parent)
	return fmt.Sprintf("%s %s %s", b.operand(left, prec, false), spelled, b.operand(right, prec, true))
}

func (b *Builder) unaryText(v *ast.UnaryExpr) string {
	prec := exprPrecedence(v)
	if v.Op == "not" {
		return "NOT " + b.operand(v.Operand, prec, false)
	}
	if v.Op == "+" {
		return b.operand(v.Operand, prec, false)
	}
	return v.Op + b.operand(v.Operand, prec, false)
}

// nameText resolves loop-variable rewrites and records unknown names.
func (b *Builder) nameText(v *ast.Name) string {
	if subst, ok := b.loopSubst[v.Value]; ok {
		return subst
	}
	if _, found := b.scopes.FindVariable(v.Value); !found {
		if _, fn := b.scopes.FindFunction(v.Value); !fn && !b.registry.IsClass(v.Value) {
			if b.cfg.Strict {
				b.diags.Errorf(diag.KindName, v.Line, "undefined name %q", v.Value)
			}
		}
	}
	return v.Value
}

func (b *Builder) callText(call *ast.CallExpr) string {
	if name := call.FuncName(); name != "" {
		if name == "input" {
			// only recognized when a simple assignment lowers it
			b.diags.Warnf(diag.KindUnsupported, call.Line, "input() outside a simple assignment")
		}
		if name == "range" {
			b.diags.Warnf(diag.KindUnsupported, call.Line, "range() outside a for loop")
		}
		if mapped, ok := builtinText[name]; ok {
			return fmt.Sprintf("%s(%s)", mapped, b.argsText(call.Args))
		}
		if _, found := b.scopes.FindFunction(name); !found && !b.registry.IsClass(name) {
			switch name {
			case "input", "range", "print", "list", "sorted", "bool":
			default:
				b.diags.Warnf(diag.KindName, call.Line, "call to undefined name %q", name)
			}
		}
		return fmt.Sprintf("%s(%s)", name, b.argsText(call.Args))
	}

	attr, ok := call.Func.(*ast.AttrExpr)
	if !ok {
		b.diags.Warnf(diag.KindUnsupported, call.Line, "unsupported call target: %s", call.Func.String())
		return call.String()
	}

	target := b.exprText(attr.Target)
	if mapped, ok := methodText[attr.Name]; ok {
		if len(call.Args) == 0 {
			return fmt.Sprintf("%s(%s)", mapped, target)
		}
		return fmt.Sprintf("%s(%s, %s)", mapped, target, b.argsText(call.Args))
	}

	// self.m() inside a class body calls the method unqualified
	if attr.Target.String() == "self" && b.className != "" {
		return fmt.Sprintf("%s(%s)", attr.Name, b.argsText(call.Args))
	}
	return fmt.Sprintf("%s.%s(%s)", target, attr.Name, b.argsText(call.Args))
}

func (b *Builder) argsText(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = b.exprText(a)
	}
	return strings.Join(parts, ", ")
}

func (b *Builder) indexText(v *ast.IndexExpr) string {
	return fmt.Sprintf("%s[%s]", b.exprText(v.Target), b.rebasedIndexText(v.Index))
}

// rebasedIndexText shifts an index from 0-based to 1-based: literal k becomes
// k+1 folded, anything else gets "+ 1" appended.
func (b *Builder) rebasedIndexText(e ast.Expression) string {
	if v, ok := intLit(e); ok {
		return fmt.Sprintf("%d", v+1)
	}
	// k - 1 collapses instead of rendering k - 1 + 1
	if bin, ok := e.(*ast.BinaryExpr); ok && bin.Op == "-" {
		if v, isOne := intLit(bin.Right); isOne && v == 1 {
			return b.exprText(bin.Left)
		}
	}
	if exprPrecedence(e) < precAdditive {
		return "(" + b.exprText(e) + ") + 1"
	}
	return b.exprText(e) + " + 1"
}

func (b *Builder) attrText(v *ast.AttrExpr) string {
	if v.Target.String() == "self" && b.className != "" {
		return v.Name
	}
	return b.exprText(v.Target) + "." + v.Name
}

// listText renders a display literal inline, for the contexts where it is
// not an assignment right-hand side.
func (b *Builder) listText(elems []ast.Expression) string {
	return "[" + b.argsText(elems) + "]"
}

// fstringText decomposes an interpolated string into concatenation. Literal
// fragments stay quoted; embedded expressions join with the concatenation
// operator, non-string ones wrapped in STR.
func (b *Builder) fstringText(v *ast.FStringLit) string {
	if len(v.Parts) == 0 {
		return `""`
	}
	parts := make([]string, 0, len(v.Parts))
	for _, p := range v.Parts {
		if !p.IsExpr {
			parts = append(parts, fmt.Sprintf("%q", p.Text))
			continue
		}
		text := b.exprText(p.Expr)
		if b.inf.Infer(p.Expr) != types.String {
			text = "STR(" + text + ")"
		} else if exprPrecedence(p.Expr) < precAdditive {
			text = "(" + text + ")"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " & ")
}
