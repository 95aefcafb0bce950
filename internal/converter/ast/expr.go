package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// --- Expressions ---

// IntLit -> 42
type IntLit struct {
	Line  int
	Value int
	Raw   string
}

func (e *IntLit) expressionNode() {}
func (e *IntLit) Pos() int        { return e.Line }
func (e *IntLit) String() string  { return e.Raw }

// FloatLit -> 3.14
type FloatLit struct {
	Line int
	Raw  string
}

func (e *FloatLit) expressionNode() {}
func (e *FloatLit) Pos() int        { return e.Line }
func (e *FloatLit) String() string  { return e.Raw }

// StringLit -> "hello" or 'hello'
type StringLit struct {
	Line  int
	Value string
}

func (e *StringLit) expressionNode() {}
func (e *StringLit) Pos() int        { return e.Line }
func (e *StringLit) String() string  { return fmt.Sprintf("%q", e.Value) }

// FStringPart is one fragment of an interpolated string: either literal text
// or an embedded expression.
type FStringPart struct {
	IsExpr bool
	Text   string     // literal fragment when !IsExpr
	Expr   Expression // embedded expression when IsExpr
}

// FStringLit -> f"Result: {x}"
type FStringLit struct {
	Line  int
	Parts []FStringPart
}

func (e *FStringLit) expressionNode() {}
func (e *FStringLit) Pos() int        { return e.Line }
func (e *FStringLit) String() string {
	var out bytes.Buffer
	out.WriteString(`f"`)
	for _, p := range e.Parts {
		if p.IsExpr {
			out.WriteString("{" + p.Expr.String() + "}")
		} else {
			out.WriteString(p.Text)
		}
	}
	out.WriteString(`"`)
	return out.String()
}

// BoolLit -> True / False
type BoolLit struct {
	Line  int
	Value bool
}

func (e *BoolLit) expressionNode() {}
func (e *BoolLit) Pos() int        { return e.Line }
func (e *BoolLit) String() string {
	if e.Value {
		return "True"
	}
	return "False"
}

type NoneLit struct{ Line int }

func (e *NoneLit) expressionNode() {}
func (e *NoneLit) Pos() int        { return e.Line }
func (e *NoneLit) String() string  { return "None" }

// Name -> varName
type Name struct {
	Line  int
	Value string
}

func (e *Name) expressionNode() {}
func (e *Name) Pos() int        { return e.Line }
func (e *Name) String() string  { return e.Value }

// BinaryExpr -> left op right for arithmetic operators
type BinaryExpr struct {
	Line  int
	Op    string // + - * / // % **
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) expressionNode() {}
func (e *BinaryExpr) Pos() int        { return e.Line }
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
}

// CompareExpr -> left op right for == != < > <= >=
type CompareExpr struct {
	Line  int
	Op    string
	Left  Expression
	Right Expression
}

func (e *CompareExpr) expressionNode() {}
func (e *CompareExpr) Pos() int        { return e.Line }
func (e *CompareExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
}

// BoolOpExpr -> left and right / left or right
type BoolOpExpr struct {
	Line  int
	Op    string // "and", "or"
	Left  Expression
	Right Expression
}

func (e *BoolOpExpr) expressionNode() {}
func (e *BoolOpExpr) Pos() int        { return e.Line }
func (e *BoolOpExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
}

// UnaryExpr -> -x, not x
type UnaryExpr struct {
	Line    int
	Op      string // "-", "+", "not"
	Operand Expression
}

func (e *UnaryExpr) expressionNode() {}
func (e *UnaryExpr) Pos() int        { return e.Line }
func (e *UnaryExpr) String() string {
	if e.Op == "not" {
		return "(not " + e.Operand.String() + ")"
	}
	return "(" + e.Op + e.Operand.String() + ")"
}

// CallExpr -> f(a, b) or obj.m(a)
type CallExpr struct {
	Line int
	Func Expression // *Name or *AttrExpr
	Args []Expression
}

func (e *CallExpr) expressionNode() {}
func (e *CallExpr) Pos() int        { return e.Line }
func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Func.String(), strings.Join(args, ", "))
}

// FuncName returns the called name for a plain call, "" for method calls.
func (e *CallExpr) FuncName() string {
	if n, ok := e.Func.(*Name); ok {
		return n.Value
	}
	return ""
}

// IndexExpr -> xs[i]
type IndexExpr struct {
	Line   int
	Target Expression
	Index  Expression
}

func (e *IndexExpr) expressionNode() {}
func (e *IndexExpr) Pos() int        { return e.Line }
func (e *IndexExpr) String() string {
	return fmt.Sprintf("%s[%s]", e.Target.String(), e.Index.String())
}

// AttrExpr -> obj.attr
type AttrExpr struct {
	Line   int
	Target Expression
	Name   string
}

func (e *AttrExpr) expressionNode() {}
func (e *AttrExpr) Pos() int        { return e.Line }
func (e *AttrExpr) String() string  { return e.Target.String() + "." + e.Name }

// ListLit -> [1, 2, 3]
type ListLit struct {
	Line  int
	Elems []Expression
}

func (e *ListLit) expressionNode() {}
func (e *ListLit) Pos() int        { return e.Line }
func (e *ListLit) String() string {
	elems := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// TupleLit -> (1, 2) or a bare 1, 2
type TupleLit struct {
	Line  int
	Elems []Expression
}

func (e *TupleLit) expressionNode() {}
func (e *TupleLit) Pos() int        { return e.Line }
func (e *TupleLit) String() string {
	elems := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

// RawExpr is the fallback for text the expression parser could not handle.
// It renders verbatim so output stays best-effort.
type RawExpr struct {
	Line int
	Text string
}

func (e *RawExpr) expressionNode() {}
func (e *RawExpr) Pos() int        { return e.Line }
func (e *RawExpr) String() string  { return e.Text }
