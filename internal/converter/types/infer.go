package types

import (
	"strconv"

	"pseudoc/internal/converter/ast"
	"pseudoc/internal/converter/diag"
)

// Resolver is what the inference engine needs to know about the surrounding
// program. The IR builder implements it on top of the scope manager and the
// class registry.
type Resolver interface {
	VariableType(name string) (DataType, bool)
	ElementType(name string) (DataType, bool)
	// FunctionReturn reports (returnType, hasReturn, found).
	FunctionReturn(name string) (DataType, bool, bool)
	IsClass(name string) bool
	AttributeType(object, attr string) (DataType, bool)
}

// Inference assigns one of the closed DataType set to every expression,
// bottom-up. The rules are heuristic and order-sensitive on purpose: the
// source is dynamically typed, the target wants declared types, and a simple
// explainable guess beats an unsound half-checker.
type Inference struct {
	res    Resolver
	strict bool
	diags  *diag.List
}

func NewInference(res Resolver, strict bool, diags *diag.List) *Inference {
	return &Inference{res: res, strict: strict, diags: diags}
}

// Fallback is the documented default for a name that resolves nowhere.
// The reference behavior flip-flopped between STRING and INTEGER depending on
// context; here it is STRING everywhere, and strict mode refuses the guess.
const Fallback = String

func (inf *Inference) Infer(e ast.Expression) DataType {
	switch node := e.(type) {
	case *ast.IntLit:
		return Integer
	case *ast.FloatLit:
		return Real
	case *ast.StringLit, *ast.FStringLit:
		return String
	case *ast.BoolLit:
		return Boolean
	case *ast.NoneLit:
		return Any
	case *ast.Name:
		return inf.inferName(node)
	case *ast.BinaryExpr:
		return inf.inferBinary(node)
	case *ast.CompareExpr, *ast.BoolOpExpr:
		return Boolean
	case *ast.UnaryExpr:
		if node.Op == "not" {
			return Boolean
		}
		return inf.Infer(node.Operand)
	case *ast.ListLit, *ast.TupleLit:
		return Array
	case *ast.CallExpr:
		return inf.inferCall(node)
	case *ast.IndexExpr:
		return inf.inferIndex(node)
	case *ast.AttrExpr:
		return inf.inferAttr(node)
	case *ast.RawExpr:
		return Any
	default:
		return Any
	}
}

// inferName reclassifies literal spellings first: the structural parser can
// hand over fragments where "42" or "True" arrives as a bare name.
func (inf *Inference) inferName(n *ast.Name) DataType {
	if _, err := strconv.Atoi(n.Value); err == nil {
		return Integer
	}
	if _, err := strconv.ParseFloat(n.Value, 64); err == nil {
		return Real
	}
	if n.Value == "True" || n.Value == "False" {
		return Boolean
	}
	if t, ok := inf.res.VariableType(n.Value); ok {
		return t
	}
	if inf.strict {
		inf.diags.Errorf(diag.KindName, n.Line, "cannot resolve name %q", n.Value)
		return Any
	}
	return Fallback
}

func (inf *Inference) inferBinary(b *ast.BinaryExpr) DataType {
	left := inf.Infer(b.Left)
	right := inf.Infer(b.Right)

	// + between two strings is concatenation, checked before the numeric
	// rules so string-typed names don't get promoted into arithmetic.
	if b.Op == "+" && left == String && right == String {
		return String
	}

	if left.IsNumeric() || right.IsNumeric() {
		switch b.Op {
		case "/":
			// division always promotes
			return Real
		case "//":
			return Integer
		}
		if left == Real || right == Real {
			return Real
		}
		return Integer
	}

	if b.Op == "+" && (left == String || right == String) {
		return String
	}
	return Any
}

func (inf *Inference) inferCall(c *ast.CallExpr) DataType {
	if attr, ok := c.Func.(*ast.AttrExpr); ok {
		return inf.inferMethodCall(attr)
	}

	name := c.FuncName()
	switch name {
	case "int", "len", "ord":
		return Integer
	case "float":
		return Real
	case "str", "input", "chr":
		return String
	case "bool":
		return Boolean
	case "abs":
		if len(c.Args) == 1 {
			return inf.Infer(c.Args[0])
		}
		return Integer
	case "round":
		// one-arg round truncates to a whole number, two-arg keeps decimals
		if len(c.Args) >= 2 {
			return Real
		}
		return Integer
	case "min", "max":
		if len(c.Args) > 0 {
			return inf.Infer(c.Args[0])
		}
		return Integer
	case "range", "list", "sorted":
		return Array
	}

	if inf.res.IsClass(name) {
		return Record
	}
	if ret, hasReturn, found := inf.res.FunctionReturn(name); found {
		if !hasReturn {
			return Any
		}
		return ret
	}
	if inf.strict {
		inf.diags.Errorf(diag.KindName, c.Line, "call to unresolved function %q", name)
		return Any
	}
	return Fallback
}

func (inf *Inference) inferMethodCall(attr *ast.AttrExpr) DataType {
	switch attr.Name {
	case "upper", "lower", "strip", "lstrip", "rstrip", "replace":
		return String
	case "split":
		return Array
	case "find", "index", "count":
		return Integer
	case "startswith", "endswith", "isdigit", "isalpha":
		return Boolean
	}
	return Any
}

func (inf *Inference) inferIndex(ix *ast.IndexExpr) DataType {
	if name, ok := ix.Target.(*ast.Name); ok {
		if elem, ok := inf.res.ElementType(name.Value); ok {
			return elem
		}
		if t, ok := inf.res.VariableType(name.Value); ok && t == String {
			return String
		}
	}
	if inf.strict {
		return Any
	}
	return Fallback
}

func (inf *Inference) inferAttr(a *ast.AttrExpr) DataType {
	if name, ok := a.Target.(*ast.Name); ok {
		if t, ok := inf.res.AttributeType(name.Value, a.Name); ok {
			return t
		}
	}
	if inf.strict {
		return Any
	}
	return Fallback
}

// InferReturn scans a function body, including nested conditional and loop
// bodies, for the first return statement and infers the function's return
// type from its expression. The second result is false when no reachable
// return carries a value, i.e. the definition is a procedure.
func (inf *Inference) InferReturn(body []ast.Statement) (DataType, bool) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			if s.Value == nil {
				continue
			}
			return inf.Infer(s.Value), true
		case *ast.IfStmt:
			if t, ok := inf.InferReturn(s.Body); ok {
				return t, true
			}
			if t, ok := inf.InferReturn(s.OrElse); ok {
				return t, true
			}
		case *ast.WhileStmt:
			if t, ok := inf.InferReturn(s.Body); ok {
				return t, true
			}
		case *ast.ForStmt:
			if t, ok := inf.InferReturn(s.Body); ok {
				return t, true
			}
		}
	}
	return Any, false
}
