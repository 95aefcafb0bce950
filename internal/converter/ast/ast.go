package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// --- Interfaces ---
type Node interface {
	String() string
}

type Statement interface {
	Node
	statementNode()
	Pos() int // 1-indexed source line
}

type Expression interface {
	Node
	expressionNode()
	Pos() int
}

// --- Module ---

// Module is the root of the untyped statement tree produced by the
// structural parser.
type Module struct {
	Statements []Statement
}

func (m *Module) String() string {
	var out bytes.Buffer
	for _, s := range m.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// --- Statements ---

// AssignStmt -> x = expr, optionally annotated: x: int = expr
type AssignStmt struct {
	Line       int
	Name       string
	Annotation string // "" when absent
	Value      Expression
}

func (s *AssignStmt) statementNode() {}
func (s *AssignStmt) Pos() int       { return s.Line }
func (s *AssignStmt) String() string {
	if s.Annotation != "" {
		return fmt.Sprintf("%s: %s = %s", s.Name, s.Annotation, s.Value.String())
	}
	return fmt.Sprintf("%s = %s", s.Name, s.Value.String())
}

// AugAssignStmt -> x += expr (also -=, *=, /=)
type AugAssignStmt struct {
	Line  int
	Name  string
	Op    string // "+", "-", "*", "/"
	Value Expression
}

func (s *AugAssignStmt) statementNode() {}
func (s *AugAssignStmt) Pos() int       { return s.Line }
func (s *AugAssignStmt) String() string {
	return fmt.Sprintf("%s %s= %s", s.Name, s.Op, s.Value.String())
}

// IndexAssignStmt -> xs[i] = expr
type IndexAssignStmt struct {
	Line  int
	Name  string
	Index Expression
	Value Expression
}

func (s *IndexAssignStmt) statementNode() {}
func (s *IndexAssignStmt) Pos() int       { return s.Line }
func (s *IndexAssignStmt) String() string {
	return fmt.Sprintf("%s[%s] = %s", s.Name, s.Index.String(), s.Value.String())
}

// AttrAssignStmt -> obj.attr = expr
type AttrAssignStmt struct {
	Line   int
	Object string
	Attr   string
	Value  Expression
}

func (s *AttrAssignStmt) statementNode() {}
func (s *AttrAssignStmt) Pos() int       { return s.Line }
func (s *AttrAssignStmt) String() string {
	return fmt.Sprintf("%s.%s = %s", s.Object, s.Attr, s.Value.String())
}

// IfStmt holds one branch. The structural parser rewrites an elif chain into
// right-nested IfStmts: each elif becomes a nested IfStmt that is the sole
// element of the opener's OrElse. The IR builder re-flattens the chain.
type IfStmt struct {
	Line   int
	Cond   Expression
	Body   []Statement
	OrElse []Statement
}

func (s *IfStmt) statementNode() {}
func (s *IfStmt) Pos() int       { return s.Line }
func (s *IfStmt) String() string {
	var out bytes.Buffer
	out.WriteString("if " + s.Cond.String() + ":")
	writeBlock(&out, s.Body)
	if len(s.OrElse) > 0 {
		out.WriteString("\nelse:")
		writeBlock(&out, s.OrElse)
	}
	return out.String()
}

type WhileStmt struct {
	Line int
	Cond Expression
	Body []Statement
}

func (s *WhileStmt) statementNode() {}
func (s *WhileStmt) Pos() int       { return s.Line }
func (s *WhileStmt) String() string {
	var out bytes.Buffer
	out.WriteString("while " + s.Cond.String() + ":")
	writeBlock(&out, s.Body)
	return out.String()
}

type ForStmt struct {
	Line int
	Var  string
	Iter Expression
	Body []Statement
}

func (s *ForStmt) statementNode() {}
func (s *ForStmt) Pos() int       { return s.Line }
func (s *ForStmt) String() string {
	var out bytes.Buffer
	out.WriteString(fmt.Sprintf("for %s in %s:", s.Var, s.Iter.String()))
	writeBlock(&out, s.Body)
	return out.String()
}

type Param struct {
	Name       string
	Annotation string // "" when absent
}

func (p Param) String() string {
	if p.Annotation != "" {
		return p.Name + ": " + p.Annotation
	}
	return p.Name
}

type FuncDefStmt struct {
	Line             int
	Name             string
	Params           []Param
	ReturnAnnotation string // "" when absent
	Body             []Statement
}

func (s *FuncDefStmt) statementNode() {}
func (s *FuncDefStmt) Pos() int       { return s.Line }
func (s *FuncDefStmt) String() string {
	var out bytes.Buffer
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	out.WriteString(fmt.Sprintf("def %s(%s):", s.Name, strings.Join(params, ", ")))
	writeBlock(&out, s.Body)
	return out.String()
}

type ClassDefStmt struct {
	Line  int
	Name  string
	Bases []string
	Body  []Statement
}

func (s *ClassDefStmt) statementNode() {}
func (s *ClassDefStmt) Pos() int       { return s.Line }
func (s *ClassDefStmt) String() string {
	var out bytes.Buffer
	if len(s.Bases) > 0 {
		out.WriteString(fmt.Sprintf("class %s(%s):", s.Name, strings.Join(s.Bases, ", ")))
	} else {
		out.WriteString(fmt.Sprintf("class %s:", s.Name))
	}
	writeBlock(&out, s.Body)
	return out.String()
}

// ReturnStmt -> return [expr]
type ReturnStmt struct {
	Line  int
	Value Expression // nil for a bare return
}

func (s *ReturnStmt) statementNode() {}
func (s *ReturnStmt) Pos() int       { return s.Line }
func (s *ReturnStmt) String() string {
	if s.Value != nil {
		return "return " + s.Value.String()
	}
	return "return"
}

type BreakStmt struct{ Line int }

func (s *BreakStmt) statementNode() {}
func (s *BreakStmt) Pos() int       { return s.Line }
func (s *BreakStmt) String() string { return "break" }

type ContinueStmt struct{ Line int }

func (s *ContinueStmt) statementNode() {}
func (s *ContinueStmt) Pos() int       { return s.Line }
func (s *ContinueStmt) String() string { return "continue" }

type PassStmt struct{ Line int }

func (s *PassStmt) statementNode() {}
func (s *PassStmt) Pos() int       { return s.Line }
func (s *PassStmt) String() string { return "pass" }

// ExprStmt wraps a bare expression used as a statement (calls, mostly).
type ExprStmt struct {
	Line  int
	Value Expression
}

func (s *ExprStmt) statementNode() {}
func (s *ExprStmt) Pos() int       { return s.Line }
func (s *ExprStmt) String() string { return s.Value.String() }

// CommentStmt -> # text
type CommentStmt struct {
	Line int
	Text string // without the leading marker
}

func (s *CommentStmt) statementNode() {}
func (s *CommentStmt) Pos() int       { return s.Line }
func (s *CommentStmt) String() string { return "# " + s.Text }

// BlankStmt preserves a blank source line.
type BlankStmt struct{ Line int }

func (s *BlankStmt) statementNode() {}
func (s *BlankStmt) Pos() int       { return s.Line }
func (s *BlankStmt) String() string { return "" }

// UnknownStmt is the placeholder for a line the classifier could not match.
// It keeps the rest of the file parsing.
type UnknownStmt struct {
	Line int
	Raw  string
}

func (s *UnknownStmt) statementNode() {}
func (s *UnknownStmt) Pos() int       { return s.Line }
func (s *UnknownStmt) String() string { return s.Raw }

func writeBlock(out *bytes.Buffer, body []Statement) {
	for _, stmt := range body {
		for _, line := range strings.Split(stmt.String(), "\n") {
			out.WriteString("\n    " + line)
		}
	}
}
