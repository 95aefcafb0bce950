package parser

import (
	"testing"

	"pseudoc/internal/converter/ast"
	"pseudoc/internal/converter/diag"
)

// --- Test Helper Functions ---

// checkParserDiags is a common helper function for parser tests.
func checkParserDiags(t *testing.T, diags *diag.List) {
	t.Helper()
	errors := diags.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("Parser has %d errors:", len(errors))
	for i, d := range errors {
		t.Errorf("   Error %d: %q", i+1, d.String())
	}
	t.FailNow()
}

// nonBlank filters the blank-line records so structural assertions count
// only real statements.
func nonBlank(stmts []ast.Statement) []ast.Statement {
	var out []ast.Statement
	for _, s := range stmts {
		if _, blank := s.(*ast.BlankStmt); !blank {
			out = append(out, s)
		}
	}
	return out
}

func parseSource(t *testing.T, source string) (*ast.Module, *diag.List) {
	t.Helper()
	diags := diag.NewList(0)
	p := NewParser(source, 4, diags)
	mod := p.ParseModule()
	if mod == nil {
		t.Fatalf("ParseModule() returned nil")
	}
	return mod, diags
}

// --- The Test Cases ---

func TestFuncDefAndCall(t *testing.T) {
	input := `
def greet(name):
    print("Hello")

greet("Ada")
`
	mod, diags := parseSource(t, input)
	checkParserDiags(t, diags)

	stmts := nonBlank(mod.Statements)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got=%d", len(stmts))
	}

	def, ok := stmts[0].(*ast.FuncDefStmt)
	if !ok {
		t.Fatalf("statements[0] is not *ast.FuncDefStmt. got=%T", stmts[0])
	}
	if def.Name != "greet" {
		t.Errorf("function name expected=%q, got=%q", "greet", def.Name)
	}
	if len(def.Params) != 1 || def.Params[0].Name != "name" {
		t.Fatalf("expected one param %q, got=%v", "name", def.Params)
	}
	if len(nonBlank(def.Body)) != 1 {
		t.Fatalf("expected 1 body statement, got=%d", len(nonBlank(def.Body)))
	}

	call, ok := stmts[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("statements[1] is not *ast.ExprStmt. got=%T", stmts[1])
	}
	callExpr, ok := call.Value.(*ast.CallExpr)
	if !ok {
		t.Fatalf("call value is not *ast.CallExpr. got=%T", call.Value)
	}
	if callExpr.FuncName() != "greet" {
		t.Errorf("called name expected=%q, got=%q", "greet", callExpr.FuncName())
	}
}

func TestElifChainNests(t *testing.T) {
	input := `
if x > 10:
    print("big")
elif x > 5:
    print("medium")
else:
    print("small")
`
	mod, diags := parseSource(t, input)
	checkParserDiags(t, diags)

	stmts := nonBlank(mod.Statements)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got=%d", len(stmts))
	}

	outer, ok := stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("statements[0] is not *ast.IfStmt. got=%T", stmts[0])
	}
	if len(outer.OrElse) != 1 {
		t.Fatalf("expected elif as sole or-else element, got=%d elements", len(outer.OrElse))
	}

	inner, ok := outer.OrElse[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("or-else element is not a nested *ast.IfStmt. got=%T", outer.OrElse[0])
	}
	if len(inner.OrElse) == 0 {
		t.Fatalf("nested if lost its else branch")
	}
}

func TestAssignmentShapes(t *testing.T) {
	input := `x = 5
total += x
values[0] = 1
acct.balance = 100
count: int = 0
`
	mod, diags := parseSource(t, input)
	checkParserDiags(t, diags)

	stmts := nonBlank(mod.Statements)
	if len(stmts) != 5 {
		t.Fatalf("expected 5 statements, got=%d", len(stmts))
	}

	if _, ok := stmts[0].(*ast.AssignStmt); !ok {
		t.Errorf("statements[0] expected *ast.AssignStmt, got=%T", stmts[0])
	}
	aug, ok := stmts[1].(*ast.AugAssignStmt)
	if !ok {
		t.Fatalf("statements[1] expected *ast.AugAssignStmt, got=%T", stmts[1])
	}
	if aug.Op != "+" {
		t.Errorf("augmented operator expected=%q, got=%q", "+", aug.Op)
	}
	if _, ok := stmts[2].(*ast.IndexAssignStmt); !ok {
		t.Errorf("statements[2] expected *ast.IndexAssignStmt, got=%T", stmts[2])
	}
	if _, ok := stmts[3].(*ast.AttrAssignStmt); !ok {
		t.Errorf("statements[3] expected *ast.AttrAssignStmt, got=%T", stmts[3])
	}
	annotated, ok := stmts[4].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("statements[4] expected *ast.AssignStmt, got=%T", stmts[4])
	}
	if annotated.Annotation != "int" {
		t.Errorf("annotation expected=%q, got=%q", "int", annotated.Annotation)
	}
}

func TestInlineBody(t *testing.T) {
	input := `for i in range(5): total = i
`
	mod, diags := parseSource(t, input)
	checkParserDiags(t, diags)

	stmts := nonBlank(mod.Statements)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got=%d", len(stmts))
	}
	loop, ok := stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("statements[0] expected *ast.ForStmt, got=%T", stmts[0])
	}
	if loop.Var != "i" {
		t.Errorf("loop variable expected=%q, got=%q", "i", loop.Var)
	}
	if len(loop.Body) != 1 {
		t.Fatalf("inline body expected 1 statement, got=%d", len(loop.Body))
	}
	if _, ok := loop.Body[0].(*ast.AssignStmt); !ok {
		t.Errorf("inline body expected *ast.AssignStmt, got=%T", loop.Body[0])
	}
}

func TestUnknownLineDoesNotStopParsing(t *testing.T) {
	input := `x = 5
import os
y = 6
`
	mod, diags := parseSource(t, input)

	stmts := nonBlank(mod.Statements)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got=%d", len(stmts))
	}
	if _, ok := stmts[1].(*ast.UnknownStmt); !ok {
		t.Fatalf("statements[1] expected *ast.UnknownStmt, got=%T", stmts[1])
	}
	if !diags.HasErrors() {
		t.Errorf("expected a syntax diagnostic for the unknown line")
	}
	if _, ok := stmts[2].(*ast.AssignStmt); !ok {
		t.Errorf("parsing did not continue past the unknown line, got=%T", stmts[2])
	}
}

func TestClassHeader(t *testing.T) {
	input := `
class Account(Base):
    def __init__(self, owner):
        self.owner = owner
`
	mod, diags := parseSource(t, input)
	checkParserDiags(t, diags)

	stmts := nonBlank(mod.Statements)
	cls, ok := stmts[0].(*ast.ClassDefStmt)
	if !ok {
		t.Fatalf("statements[0] expected *ast.ClassDefStmt, got=%T", stmts[0])
	}
	if cls.Name != "Account" {
		t.Errorf("class name expected=%q, got=%q", "Account", cls.Name)
	}
	if len(cls.Bases) != 1 || cls.Bases[0] != "Base" {
		t.Errorf("bases expected=[Base], got=%v", cls.Bases)
	}

	ctor, ok := nonBlank(cls.Body)[0].(*ast.FuncDefStmt)
	if !ok {
		t.Fatalf("class body expected *ast.FuncDefStmt, got=%T", cls.Body[0])
	}
	if len(ctor.Params) != 1 || ctor.Params[0].Name != "owner" {
		t.Errorf("self should be dropped, params got=%v", ctor.Params)
	}
}
