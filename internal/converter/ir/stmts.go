package ir

import (
	"fmt"
	"strings"

	"pseudoc/internal/converter/ast"
	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/scope"
	"pseudoc/internal/converter/symbols"
	"pseudoc/internal/converter/types"
)

// buildStatement dispatches one statement-tree record into IR. It returns nil
// for records that produce no output (blank lines, suppressed comments) and
// never raises: recognized-but-unmapped constructs become comment placeholders.
func (b *Builder) buildStatement(stmt ast.Statement) *Node {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return b.buildAssign(s)
	case *ast.AugAssignStmt:
		return b.buildAugAssign(s)
	case *ast.IndexAssignStmt:
		return b.buildIndexAssign(s)
	case *ast.AttrAssignStmt:
		return b.buildAttrAssign(s)
	case *ast.IfStmt:
		return b.buildIf(s)
	case *ast.WhileStmt:
		return b.buildWhile(s)
	case *ast.ForStmt:
		return b.buildFor(s)
	case *ast.FuncDefStmt:
		return b.buildFuncDef(s)
	case *ast.ClassDefStmt:
		return b.buildClassDef(s)
	case *ast.ReturnStmt:
		return b.buildReturn(s)
	case *ast.BreakStmt:
		return New(KindBreak, "EXIT LOOP")
	case *ast.ContinueStmt:
		b.diags.Warnf(diag.KindUnsupported, s.Line, "continue has no pseudocode equivalent")
		return New(KindComment, "continue is not supported")
	case *ast.PassStmt:
		return nil
	case *ast.ExprStmt:
		return b.buildExprStmt(s)
	case *ast.CommentStmt:
		if !b.cfg.IncludeComments {
			return nil
		}
		return New(KindComment, s.Text)
	case *ast.BlankStmt:
		return nil
	case *ast.UnknownStmt:
		b.diags.Errorf(diag.KindUnsupported, s.Line, "unsupported statement: %s", s.Raw)
		return New(KindComment, "unsupported: "+s.Raw)
	default:
		b.diags.Errorf(diag.KindConversion, stmt.Pos(), "no conversion for %T", stmt)
		return New(KindComment, "unsupported construct")
	}
}

// buildBody builds every nested body, counting structural depth as it goes.
// The limit is diagnosed once per conversion; the walk itself keeps going.
func (b *Builder) buildBody(body []ast.Statement) []*Node {
	b.nesting++
	defer func() { b.nesting-- }()
	if b.nesting > b.cfg.MaxNestingDepth && !b.depthExceeded {
		b.depthExceeded = true
		line := 0
		if len(body) > 0 {
			line = body[0].Pos()
		}
		b.diags.Errorf(diag.KindValidation, line, "nesting depth %d exceeds maximum of %d", b.nesting, b.cfg.MaxNestingDepth)
	}

	var nodes []*Node
	for _, stmt := range body {
		if node := b.buildStatement(stmt); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// compound wraps a multi-node lowering of a single source statement. The
// renderer treats it as a transparent container.
func compound(nodes ...*Node) *Node {
	n := New(KindCompound, "")
	n.Add(nodes...)
	return n
}

// --- Assignments ---

func (b *Builder) buildAssign(s *ast.AssignStmt) *Node {
	// list/tuple display -> fixed-size array declaration plus one rebased
	// element assignment per element
	if list, ok := s.Value.(*ast.ListLit); ok {
		return b.buildArrayLiteral(s, list.Elems)
	}
	if tup, ok := s.Value.(*ast.TupleLit); ok {
		return b.buildArrayLiteral(s, tup.Elems)
	}

	if call, ok := s.Value.(*ast.CallExpr); ok {
		// x = int(input("prompt")) and friends
		if prompt, castType, ok := b.unwrapInputCall(call); ok {
			return b.buildInput(s, prompt, castType)
		}
		// constructor call -> declaration plus one attribute assignment per
		// constructor argument, in declared field order
		if cls, ok := b.registry.Lookup(call.FuncName()); ok {
			return b.buildInstantiation(s, call, cls)
		}
	}

	declared := b.inf.Infer(s.Value)
	if s.Annotation != "" {
		if t, ok := types.FromAnnotation(s.Annotation); ok {
			declared = t
		} else {
			b.diags.Warnf(diag.KindType, s.Line, "unknown annotation %q on %s", s.Annotation, s.Name)
		}
	}
	b.scopes.RegisterVariable(s.Name, symbols.VariableInfo{
		Type:        declared,
		Initialized: true,
		Line:        s.Line,
	})

	node := New(KindAssign, fmt.Sprintf("%s <- %s", s.Name, b.exprText(s.Value)))
	node.Meta = &Meta{Name: s.Name, DataType: declared}
	return node
}

func (b *Builder) buildArrayLiteral(s *ast.AssignStmt, elems []ast.Expression) *Node {
	elemType := types.Integer
	if len(elems) > 0 {
		elemType = b.inf.Infer(elems[0])
		for _, e := range elems[1:] {
			if b.inf.Infer(e) != elemType {
				elemType = types.Any
				break
			}
		}
	}

	b.scopes.RegisterVariable(s.Name, symbols.VariableInfo{
		Type:        types.Array,
		ElemType:    elemType,
		Size:        len(elems),
		Initialized: true,
		Line:        s.Line,
	})

	decl := New(KindArrayLiteral, fmt.Sprintf("DECLARE %s : ARRAY[1:%d] OF %s", s.Name, len(elems), elemType))
	decl.Meta = &Meta{Name: s.Name, DataType: types.Array, ElemType: elemType, Size: len(elems)}

	nodes := []*Node{decl}
	for i, e := range elems {
		nodes = append(nodes, New(KindElementAssign,
			fmt.Sprintf("%s[%d] <- %s", s.Name, i+1, b.exprText(e))))
	}
	return compound(nodes...)
}

// unwrapInputCall recognizes input("p"), int(input("p")) and float(input("p")).
func (b *Builder) unwrapInputCall(call *ast.CallExpr) (prompt ast.Expression, cast types.DataType, ok bool) {
	cast = types.String
	inner := call
	switch call.FuncName() {
	case "int", "float", "str":
		if len(call.Args) != 1 {
			return nil, "", false
		}
		wrapped, isCall := call.Args[0].(*ast.CallExpr)
		if !isCall {
			return nil, "", false
		}
		switch call.FuncName() {
		case "int":
			cast = types.Integer
		case "float":
			cast = types.Real
		}
		inner = wrapped
	}
	if inner.FuncName() != "input" {
		return nil, "", false
	}
	if len(inner.Args) > 0 {
		prompt = inner.Args[0]
	}
	return prompt, cast, true
}

func (b *Builder) buildInput(s *ast.AssignStmt, prompt ast.Expression, cast types.DataType) *Node {
	b.scopes.RegisterVariable(s.Name, symbols.VariableInfo{
		Type:        cast,
		Initialized: true,
		Line:        s.Line,
	})
	input := New(KindStatement, "INPUT "+s.Name)
	input.Meta = &Meta{Name: s.Name, DataType: cast}
	if prompt == nil {
		return input
	}
	return compound(New(KindStatement, "OUTPUT "+b.exprText(prompt)), input)
}

func (b *Builder) buildInstantiation(s *ast.AssignStmt, call *ast.CallExpr, cls *symbols.ClassInfo) *Node {
	b.scopes.RegisterVariable(s.Name, symbols.VariableInfo{
		Type:        types.Record,
		ClassName:   cls.Name,
		Initialized: true,
		Line:        s.Line,
	})

	decl := New(KindStatement, fmt.Sprintf("DECLARE %s : %s", s.Name, cls.Name))

	if !b.isRecord(cls) {
		// full classes construct through NEW
		ctor := New(KindAssign, fmt.Sprintf("%s <- NEW %s(%s)", s.Name, cls.Name, b.argsText(call.Args)))
		return compound(decl, ctor)
	}

	nodes := []*Node{decl}
	for i, arg := range call.Args {
		if i >= len(cls.Fields) {
			b.diags.Warnf(diag.KindType, s.Line, "%s takes %d fields, got %d arguments", cls.Name, len(cls.Fields), len(call.Args))
			break
		}
		nodes = append(nodes, New(KindAttributeAssign,
			fmt.Sprintf("%s.%s <- %s", s.Name, cls.Fields[i].Name, b.exprText(arg))))
	}
	return compound(nodes...)
}

func (b *Builder) buildAugAssign(s *ast.AugAssignStmt) *Node {
	// x += e desugars to x <- x + e
	desugared := &ast.BinaryExpr{
		Line:  s.Line,
		Op:    s.Op,
		Left:  &ast.Name{Line: s.Line, Value: s.Name},
		Right: s.Value,
	}
	if _, found := b.scopes.FindVariable(s.Name); !found {
		b.diags.Warnf(diag.KindName, s.Line, "%s updated before assignment", s.Name)
		b.scopes.RegisterVariable(s.Name, symbols.VariableInfo{
			Type: b.inf.Infer(desugared),
			Line: s.Line,
		})
	}
	return New(KindAssign, fmt.Sprintf("%s <- %s", s.Name, b.exprText(desugared)))
}

func (b *Builder) buildIndexAssign(s *ast.IndexAssignStmt) *Node {
	if _, found := b.scopes.FindVariable(s.Name); !found {
		b.diags.Warnf(diag.KindName, s.Line, "assignment to element of undeclared array %q", s.Name)
	}
	node := New(KindElementAssign,
		fmt.Sprintf("%s[%s] <- %s", s.Name, b.rebasedIndexText(s.Index), b.exprText(s.Value)))
	node.Meta = &Meta{Name: s.Name}
	return node
}

func (b *Builder) buildAttrAssign(s *ast.AttrAssignStmt) *Node {
	// inside a class body, self.field targets the bare field
	if s.Object == "self" && b.className != "" {
		return New(KindAssign, fmt.Sprintf("%s <- %s", s.Attr, b.exprText(s.Value)))
	}
	node := New(KindAttributeAssign,
		fmt.Sprintf("%s.%s <- %s", s.Object, s.Attr, b.exprText(s.Value)))
	node.Meta = &Meta{Name: s.Object}
	return node
}

// --- Conditionals ---

// buildIf re-flattens the right-nested elif chain the structural parser
// produced into a linear sibling sequence: IF, any ELSEIFs, optional ELSE,
// ENDIF. The renderer then emits one flat chain rather than nested blocks.
func (b *Builder) buildIf(s *ast.IfStmt) *Node {
	head := New(KindIf, b.exprText(s.Cond))
	head.Meta = &Meta{Condition: head.Text}
	head.Add(b.buildBody(s.Body)...)

	nodes := []*Node{head}
	orElse := s.OrElse
	for len(orElse) == 1 {
		nested, ok := orElse[0].(*ast.IfStmt)
		if !ok {
			break
		}
		branch := New(KindElseIf, b.exprText(nested.Cond))
		branch.Meta = &Meta{Condition: branch.Text}
		branch.Add(b.buildBody(nested.Body)...)
		nodes = append(nodes, branch)
		orElse = nested.OrElse
	}
	if len(orElse) > 0 {
		alt := New(KindElse, "")
		alt.Add(b.buildBody(orElse)...)
		nodes = append(nodes, alt)
	}
	nodes = append(nodes, New(KindEndIf, ""))
	return compound(nodes...)
}

// --- Loops ---

func (b *Builder) buildWhile(s *ast.WhileStmt) *Node {
	b.scopes.Enter(fmt.Sprintf("while@%d", s.Line), scope.KindWhile)
	defer b.scopes.Exit()

	// while True becomes a REPEAT loop; the UNTIL condition stays FALSE
	// because the real exit is a break inside the body
	if lit, ok := s.Cond.(*ast.BoolLit); ok && lit.Value {
		loop := New(KindRepeat, "")
		loop.Add(b.buildBody(s.Body)...)
		return compound(loop, New(KindUntil, "FALSE"))
	}

	cond := b.exprText(s.Cond)
	loop := New(KindWhile, cond)
	loop.Meta = &Meta{Condition: cond}
	loop.Add(b.buildBody(s.Body)...)
	return compound(loop, New(KindEndWhile, ""))
}

func (b *Builder) buildFor(s *ast.ForStmt) *Node {
	if call, ok := s.Iter.(*ast.CallExpr); ok && call.FuncName() == "range" {
		return b.buildRangeFor(s, call)
	}
	if name, ok := s.Iter.(*ast.Name); ok {
		return b.buildSequenceFor(s, name.Value)
	}
	b.diags.Errorf(diag.KindUnsupported, s.Line, "unsupported for-loop iterable: %s", s.Iter.String())
	return New(KindComment, "unsupported loop: "+s.String())
}

// buildRangeFor rewrites range() bounds from end-exclusive to end-inclusive.
func (b *Builder) buildRangeFor(s *ast.ForStmt, call *ast.CallExpr) *Node {
	meta := &Meta{Name: s.Var}
	switch len(call.Args) {
	case 1:
		meta.Start = "0"
		meta.End = b.decrementText(call.Args[0])
	case 2:
		meta.Start = b.exprText(call.Args[0])
		meta.End = b.decrementText(call.Args[1])
	case 3:
		meta.Start = b.exprText(call.Args[0])
		meta.End = b.lastReachedText(call.Args[0], call.Args[1], call.Args[2], s.Line)
		if step, ok := intLit(call.Args[2]); !ok || step != 1 {
			meta.Step = b.exprText(call.Args[2])
		}
	default:
		b.diags.Errorf(diag.KindSyntax, s.Line, "range() takes 1 to 3 arguments, got %d", len(call.Args))
		return New(KindComment, "unsupported loop: "+s.String())
	}

	b.scopes.Enter(fmt.Sprintf("for@%d", s.Line), scope.KindFor)
	defer b.scopes.Exit()
	b.scopes.RegisterVariable(s.Var, symbols.VariableInfo{
		Type:        types.Integer,
		Initialized: true,
		Line:        s.Line,
	})

	text := fmt.Sprintf("FOR %s <- %s TO %s", s.Var, meta.Start, meta.End)
	if meta.Step != "" {
		text += " STEP " + meta.Step
	}
	loop := New(KindFor, text)
	loop.Meta = meta
	loop.Add(b.buildBody(s.Body)...)
	return loop
}

// buildSequenceFor rewrites iteration over a named sequence into an
// index-counted loop; every body reference to the loop variable becomes an
// indexed element reference.
func (b *Builder) buildSequenceFor(s *ast.ForStmt, seqName string) *Node {
	length := b.cfg.FallbackLength
	elemType := types.DataType("")
	if info, ok := b.scopes.FindVariable(seqName); ok && info.Type == types.Array && info.Size > 0 {
		length = info.Size
		elemType = info.ElemType
	} else {
		b.diags.Warnf(diag.KindType, s.Line, "length of %q is unknown, assuming %d", seqName, length)
	}

	counter := b.counterName()
	b.scopes.Enter(fmt.Sprintf("for@%d", s.Line), scope.KindFor)
	defer b.scopes.Exit()
	b.scopes.RegisterVariable(counter, symbols.VariableInfo{
		Type:        types.Integer,
		Initialized: true,
		Line:        s.Line,
	})
	if elemType != "" {
		// let body references to the element infer properly
		b.scopes.RegisterVariable(s.Var, symbols.VariableInfo{
			Type:        elemType,
			Initialized: true,
			Line:        s.Line,
		})
	}

	prev, had := b.loopSubst[s.Var]
	b.loopSubst[s.Var] = fmt.Sprintf("%s[%s]", seqName, counter)
	defer func() {
		if had {
			b.loopSubst[s.Var] = prev
		} else {
			delete(b.loopSubst, s.Var)
		}
	}()

	meta := &Meta{Name: counter, Start: "1", End: fmt.Sprintf("%d", length)}
	loop := New(KindFor, fmt.Sprintf("FOR %s <- 1 TO %d", counter, length))
	loop.Meta = meta
	loop.Add(b.buildBody(s.Body)...)
	return loop
}

// counterName picks the synthetic loop counter, avoiding an existing i.
func (b *Builder) counterName() string {
	for _, name := range []string{"i", "j", "k", "idx"} {
		if _, exists := b.scopes.FindVariable(name); !exists {
			return name
		}
	}
	return "idx"
}

// decrementText folds literal-1 at build time, otherwise appends "- 1".
func (b *Builder) decrementText(e ast.Expression) string {
	if v, ok := intLit(e); ok {
		return fmt.Sprintf("%d", v-1)
	}
	return b.exprText(e) + " - 1"
}

// lastReachedText computes the inclusive end bound for a stepped range: the
// largest value <= end-1 reachable from start by repeated addition of step.
func (b *Builder) lastReachedText(start, end, step ast.Expression, line int) string {
	a, okA := intLit(start)
	z, okZ := intLit(end)
	s, okS := intLit(step)
	if okA && okZ && okS && s > 0 {
		if z <= a {
			b.diags.Warnf(diag.KindType, line, "range(%d, %d, %d) is empty", a, z, s)
			return fmt.Sprintf("%d", a)
		}
		last := a + (z-1-a)/s*s
		return fmt.Sprintf("%d", last)
	}
	if okS && s < 0 {
		// descending ranges keep the exclusive bound adjusted by one upward
		if okZ {
			return fmt.Sprintf("%d", z+1)
		}
		return b.exprText(end) + " + 1"
	}
	return b.decrementText(end)
}

func intLit(e ast.Expression) (int, bool) {
	switch v := e.(type) {
	case *ast.IntLit:
		return v.Value, true
	case *ast.UnaryExpr:
		if v.Op == "-" {
			if inner, ok := v.Operand.(*ast.IntLit); ok {
				return -inner.Value, true
			}
		}
	}
	return 0, false
}

// --- Return and expression statements ---

func (b *Builder) buildReturn(s *ast.ReturnStmt) *Node {
	if !b.scopes.InFunction() {
		b.diags.Errorf(diag.KindSyntax, s.Line, "return outside a function")
		return New(KindComment, "return outside a function")
	}
	if s.Value == nil {
		return New(KindReturn, "RETURN")
	}
	return New(KindReturn, "RETURN "+b.exprText(s.Value))
}

func (b *Builder) buildExprStmt(s *ast.ExprStmt) *Node {
	switch v := s.Value.(type) {
	case *ast.StringLit:
		// a bare string statement is a docstring
		if !b.cfg.IncludeComments {
			return nil
		}
		return New(KindComment, strings.TrimSpace(v.Value))
	case *ast.CallExpr:
		return b.buildCallStmt(s, v)
	}
	b.diags.Warnf(diag.KindUnsupported, s.Line, "expression statement has no effect: %s", s.Value.String())
	return New(KindExpression, b.exprText(s.Value))
}

func (b *Builder) buildCallStmt(s *ast.ExprStmt, call *ast.CallExpr) *Node {
	switch call.FuncName() {
	case "print":
		return b.buildOutput(call)
	case "input":
		// input used for effect only: show the prompt, read into nothing
		if len(call.Args) > 0 {
			return compound(
				New(KindStatement, "OUTPUT "+b.exprText(call.Args[0])),
				New(KindStatement, "INPUT dummy"),
			)
		}
		return New(KindStatement, "INPUT dummy")
	}

	if name := call.FuncName(); name != "" {
		if _, found := b.scopes.FindFunction(name); !found && !b.registry.IsClass(name) {
			b.diags.Warnf(diag.KindName, s.Line, "call to undefined name %q", name)
		}
		return New(KindStatement, fmt.Sprintf("CALL %s(%s)", name, b.argsText(call.Args)))
	}

	// method call statement: obj.m(...)
	if attr, ok := call.Func.(*ast.AttrExpr); ok {
		target := b.exprText(attr.Target)
		if attr.Target.String() == "self" && b.className != "" {
			return New(KindStatement, fmt.Sprintf("CALL %s(%s)", attr.Name, b.argsText(call.Args)))
		}
		return New(KindStatement, fmt.Sprintf("CALL %s.%s(%s)", target, attr.Name, b.argsText(call.Args)))
	}

	b.diags.Warnf(diag.KindUnsupported, s.Line, "unsupported call statement: %s", call.String())
	return New(KindComment, "unsupported: "+call.String())
}

func (b *Builder) buildOutput(call *ast.CallExpr) *Node {
	if len(call.Args) == 0 {
		return New(KindStatement, `OUTPUT ""`)
	}
	parts := make([]string, len(call.Args))
	for i, arg := range call.Args {
		parts[i] = b.exprText(arg)
	}
	return New(KindStatement, "OUTPUT "+strings.Join(parts, ", "))
}
