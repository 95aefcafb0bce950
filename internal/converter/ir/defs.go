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

// buildFuncDef emits a FUNCTION block when the body returns a value and a
// PROCEDURE block otherwise. The function is registered provisionally before
// its body builds so recursive calls resolve.
func (b *Builder) buildFuncDef(s *ast.FuncDefStmt) *Node {
	info := symbols.FunctionInfo{Line: s.Line}
	for _, p := range s.Params {
		info.Params = append(info.Params, symbols.Param{Name: p.Name, Type: b.paramType(p, s.Line)})
	}

	if s.ReturnAnnotation != "" {
		if t, ok := types.FromAnnotation(s.ReturnAnnotation); ok {
			info.ReturnType = t
			info.HasReturn = true
		} else if s.ReturnAnnotation != "None" {
			b.diags.Warnf(diag.KindType, s.Line, "unknown return annotation %q on %s", s.ReturnAnnotation, s.Name)
		}
	}

	b.scopes.RegisterFunction(s.Name, info)
	b.scopes.Enter(s.Name, scope.KindFunction)
	for _, p := range info.Params {
		b.scopes.RegisterVariable(p.Name, symbols.VariableInfo{
			Type:        p.Type,
			ScopeName:   s.Name,
			Initialized: true,
			Line:        s.Line,
		})
	}

	annotated := info.HasReturn
	if !annotated {
		// provisional guess so recursive calls inside the body resolve; the
		// body's locals are not in scope yet, so infer quietly and redo below
		pre := types.NewInference(b, false, diag.NewList(0))
		if t, found := pre.InferReturn(s.Body); found {
			info.ReturnType = t
			info.HasReturn = true
			b.scopes.RegisterFunction(s.Name, info)
		}
	}

	body := b.buildBody(s.Body)
	if !annotated {
		// re-infer with the locals registered by the body walk, so
		// `return result` resolves result instead of hitting the fallback;
		// any name the return expression uses was already diagnosed above
		post := types.NewInference(b, b.cfg.Strict, diag.NewList(0))
		if t, found := post.InferReturn(s.Body); found {
			info.ReturnType = t
			info.HasReturn = true
		}
	}
	b.scopes.Exit()
	b.scopes.RegisterFunction(s.Name, info)

	var node *Node
	params := paramListText(info.Params)
	if info.HasReturn {
		node = New(KindFunction, fmt.Sprintf("FUNCTION %s(%s) RETURNS %s", s.Name, params, info.ReturnType))
		node.Meta = &Meta{Name: s.Name, Params: params, DataType: info.ReturnType}
	} else {
		node = New(KindProcedure, fmt.Sprintf("PROCEDURE %s(%s)", s.Name, params))
		node.Meta = &Meta{Name: s.Name, Params: params}
	}
	node.Add(body...)
	return node
}

func paramListText(params []symbols.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s : %s", p.Name, p.Type)
	}
	return strings.Join(parts, ", ")
}

// isRecord decides whether a class lowers to a plain record type. The policy
// is configurable; the default requires a constructor that only copies
// parameters into fields, no inheritance in either direction, and no methods.
func (b *Builder) isRecord(cls *symbols.ClassInfo) bool {
	switch b.cfg.RecordPolicy {
	case RecordNever:
		return false
	case RecordPrefer:
		return cls.Base == "" && !b.registry.IsBase(cls.Name)
	default:
		return cls.Base == "" && !b.registry.IsBase(cls.Name) &&
			len(cls.Methods) == 0 && cls.PlainCtor && len(cls.Fields) > 0
	}
}

// buildClassDef emits a TYPE record block for plain data classes and a full
// CLASS block, with PRIVATE fields, a NEW constructor and methods, for
// everything else.
func (b *Builder) buildClassDef(s *ast.ClassDefStmt) *Node {
	cls, ok := b.registry.Lookup(s.Name)
	if !ok {
		// nested classes never hit the pre-pass
		b.diags.Errorf(diag.KindUnsupported, s.Line, "nested class %q is not supported", s.Name)
		return New(KindComment, "unsupported nested class: "+s.Name)
	}

	if b.isRecord(cls) {
		node := New(KindType, "TYPE "+cls.Name)
		node.Meta = &Meta{Name: cls.Name}
		for _, f := range cls.Fields {
			node.Add(New(KindStatement, fmt.Sprintf("DECLARE %s : %s", f.Name, f.Type)))
		}
		return node
	}

	node := New(KindClass, "CLASS "+cls.Name)
	node.Meta = &Meta{Name: cls.Name, Base: cls.Base}
	if cls.Base != "" {
		node.Text = fmt.Sprintf("CLASS %s INHERITS %s", cls.Name, cls.Base)
	}

	for _, f := range cls.Fields {
		node.Add(New(KindStatement, fmt.Sprintf("PRIVATE %s : %s", f.Name, f.Type)))
	}

	b.scopes.Enter(s.Name, scope.KindClass)
	prev := b.className
	b.className = s.Name
	defer func() {
		b.className = prev
		b.scopes.Exit()
	}()

	for _, f := range cls.Fields {
		b.scopes.RegisterVariable(f.Name, symbols.VariableInfo{
			Type:        f.Type,
			ScopeName:   s.Name,
			Initialized: true,
			Line:        s.Line,
		})
	}

	for _, stmt := range s.Body {
		def, ok := stmt.(*ast.FuncDefStmt)
		if !ok {
			switch v := stmt.(type) {
			case *ast.CommentStmt:
				if b.cfg.IncludeComments {
					node.Add(New(KindComment, v.Text))
				}
			case *ast.BlankStmt, *ast.PassStmt:
			case *ast.ExprStmt:
				if lit, isDoc := v.Value.(*ast.StringLit); isDoc && b.cfg.IncludeComments {
					node.Add(New(KindComment, strings.TrimSpace(lit.Value)))
				}
			default:
				b.diags.Warnf(diag.KindUnsupported, stmt.Pos(), "unsupported class-level statement in %s", s.Name)
			}
			continue
		}
		if def.Name == "__init__" {
			node.Add(b.buildCtor(cls, def))
			continue
		}
		node.Add(b.buildFuncDef(def))
	}
	return node
}

// buildCtor turns __init__ into a NEW procedure. Field assignments from self
// drop the receiver; the fields themselves are declared on the class.
func (b *Builder) buildCtor(cls *symbols.ClassInfo, ctor *ast.FuncDefStmt) *Node {
	var params []symbols.Param
	for _, p := range ctor.Params {
		params = append(params, symbols.Param{Name: p.Name, Type: b.paramType(p, ctor.Line)})
	}

	b.scopes.Enter("__init__", scope.KindFunction)
	for _, p := range params {
		b.scopes.RegisterVariable(p.Name, symbols.VariableInfo{
			Type:        p.Type,
			ScopeName:   cls.Name,
			Initialized: true,
			Line:        ctor.Line,
		})
	}
	body := b.buildBody(ctor.Body)
	b.scopes.Exit()

	node := New(KindProcedure, fmt.Sprintf("PROCEDURE NEW(%s)", paramListText(params)))
	node.Meta = &Meta{Name: "NEW", Params: paramListText(params)}
	node.Add(body...)
	return node
}
