package ir

import (
	"pseudoc/internal/converter/ast"
	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/scope"
	"pseudoc/internal/converter/symbols"
	"pseudoc/internal/converter/types"
)

// RecordPolicy selects how class definitions are classified.
type RecordPolicy string

const (
	// RecordAuto synthesizes a plain record type when the class has no
	// inheritance, is not used as a base, and its constructor consists
	// solely of field-from-parameter assignments; otherwise a full class.
	RecordAuto RecordPolicy = "auto"
	// RecordNever always produces a full class block.
	RecordNever RecordPolicy = "never"
	// RecordPrefer produces a record whenever the class has no inheritance
	// in either direction, even with a computing constructor.
	RecordPrefer RecordPolicy = "prefer"
)

type Config struct {
	Strict          bool
	IncludeComments bool
	MaxNestingDepth int
	RecordPolicy    RecordPolicy
	// FallbackLength is the loop bound used when iterating a sequence whose
	// size was never recorded.
	FallbackLength int
}

const (
	DefaultFallbackLength = 10
	DefaultMaxDepth       = 32
)

// Builder converts the statement tree into IR, consulting the scope manager
// and type inference engine and accumulating diagnostics. All of its state is
// owned by one conversion; nothing survives between calls.
type Builder struct {
	cfg      Config
	scopes   *scope.Manager
	registry *scope.Registry
	inf      *types.Inference
	diags    *diag.List

	className string            // set while building a class body
	loopSubst map[string]string // loop variable -> indexed element rewrite

	// structural nesting depth, tracked here because if bodies nest without
	// opening a scope (the source language has function-level visibility)
	nesting       int
	depthExceeded bool
}

func NewBuilder(cfg Config, diags *diag.List) *Builder {
	if cfg.FallbackLength <= 0 {
		cfg.FallbackLength = DefaultFallbackLength
	}
	if cfg.MaxNestingDepth <= 0 {
		cfg.MaxNestingDepth = DefaultMaxDepth
	}
	if cfg.RecordPolicy == "" {
		cfg.RecordPolicy = RecordAuto
	}
	b := &Builder{
		cfg:       cfg,
		scopes:    scope.NewManager(diags),
		registry:  scope.NewRegistry(),
		diags:     diags,
		loopSubst: make(map[string]string),
	}
	b.inf = types.NewInference(b, cfg.Strict, diags)
	return b
}

// Registry exposes the class registry for statistics after a build.
func (b *Builder) Registry() *scope.Registry { return b.registry }

// Scopes exposes the scope manager for statistics after a build.
func (b *Builder) Scopes() *scope.Manager { return b.scopes }

// Build runs the class pre-pass and then the full semantic walk, returning
// the root IR node.
func (b *Builder) Build(mod *ast.Module) *Node {
	b.registerClasses(mod)

	root := New(KindBlock, "")
	for _, stmt := range mod.Statements {
		if node := b.buildStatement(stmt); node != nil {
			root.Add(node)
		}
	}
	return root
}

// registerClasses is the dedicated first pass over the top-level statement
// list. It runs before the main walk so class lookups are order-independent.
func (b *Builder) registerClasses(mod *ast.Module) {
	for _, stmt := range mod.Statements {
		cls, ok := stmt.(*ast.ClassDefStmt)
		if !ok {
			continue
		}
		info := symbols.ClassInfo{Name: cls.Name, Line: cls.Line, PlainCtor: true}
		if len(cls.Bases) > 0 {
			info.Base = cls.Bases[0]
		}
		for _, body := range cls.Body {
			def, ok := body.(*ast.FuncDefStmt)
			if !ok {
				continue
			}
			if def.Name == "__init__" {
				b.collectFields(&info, def)
				continue
			}
			info.Methods = append(info.Methods, def.Name)
		}
		b.registry.Define(info)
	}
}

// collectFields derives the record fields from the constructor: every
// self.field assignment contributes one field, typed from the matching
// parameter when the value is a plain parameter reference.
func (b *Builder) collectFields(info *symbols.ClassInfo, ctor *ast.FuncDefStmt) {
	paramTypes := make(map[string]types.DataType, len(ctor.Params))
	for _, p := range ctor.Params {
		paramTypes[p.Name] = b.paramType(p, ctor.Line)
	}
	for _, stmt := range ctor.Body {
		assign, ok := stmt.(*ast.AttrAssignStmt)
		if !ok {
			switch stmt.(type) {
			case *ast.CommentStmt, *ast.BlankStmt, *ast.PassStmt:
				continue
			}
			info.PlainCtor = false
			continue
		}
		if assign.Object != "self" {
			info.PlainCtor = false
			continue
		}
		field := symbols.Field{Name: assign.Attr}
		if name, ok := assign.Value.(*ast.Name); ok {
			if t, found := paramTypes[name.Value]; found {
				field.Type = t
			}
		}
		if field.Type == "" {
			info.PlainCtor = false
			field.Type = b.inf.Infer(assign.Value)
		}
		info.Fields = append(info.Fields, field)
	}
}

// paramType resolves a parameter's declared type. An explicit annotation
// wins; unannotated parameters default to INTEGER, which is a deliberate
// declaration-site policy, distinct from the unresolved-name fallback.
func (b *Builder) paramType(p ast.Param, line int) types.DataType {
	if p.Annotation != "" {
		if t, ok := types.FromAnnotation(p.Annotation); ok {
			return t
		}
		if b.registry.IsClass(p.Annotation) {
			return types.Record
		}
		b.diags.Warnf(diag.KindType, line, "unknown annotation %q, assuming INTEGER", p.Annotation)
	}
	return types.Integer
}

// --- types.Resolver ---

func (b *Builder) VariableType(name string) (types.DataType, bool) {
	if info, ok := b.scopes.FindVariable(name); ok {
		return info.Type, true
	}
	return "", false
}

func (b *Builder) ElementType(name string) (types.DataType, bool) {
	if info, ok := b.scopes.FindVariable(name); ok && info.Type == types.Array && info.ElemType != "" {
		return info.ElemType, true
	}
	return "", false
}

func (b *Builder) FunctionReturn(name string) (types.DataType, bool, bool) {
	if info, ok := b.scopes.FindFunction(name); ok {
		return info.ReturnType, info.HasReturn, true
	}
	return "", false, false
}

func (b *Builder) IsClass(name string) bool {
	return b.registry.IsClass(name)
}

func (b *Builder) AttributeType(object, attr string) (types.DataType, bool) {
	className := ""
	if object == "self" && b.className != "" {
		className = b.className
	} else if info, ok := b.scopes.FindVariable(object); ok && info.ClassName != "" {
		className = info.ClassName
	}
	if className == "" {
		return "", false
	}
	cls, ok := b.registry.Lookup(className)
	if !ok {
		return "", false
	}
	if f := cls.Field(attr); f != nil {
		return f.Type, true
	}
	return "", false
}
