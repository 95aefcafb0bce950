package diag

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind classifies where in the pipeline a diagnostic came from.
type Kind string

const (
	KindSyntax      Kind = "syntax"
	KindType        Kind = "type"
	KindName        Kind = "name"
	KindUnsupported Kind = "unsupported"
	KindConversion  Kind = "conversion"
	KindValidation  Kind = "validation"
)

type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Line     int // 1-indexed, 0 when unknown
	Column   int
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Kind, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// List accumulates diagnostics across the whole pipeline. Stages append rather
// than raise; callers read the ordered error/warning slices at the end.
type List struct {
	diags     []Diagnostic
	maxErrors int
	truncated bool
}

// NewList creates a collector. maxErrors <= 0 means unlimited.
func NewList(maxErrors int) *List {
	return &List{maxErrors: maxErrors}
}

func (l *List) Errorf(kind Kind, line int, format string, args ...any) {
	l.add(Diagnostic{
		Kind:     kind,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	})
}

func (l *List) Warnf(kind Kind, line int, format string, args ...any) {
	l.add(Diagnostic{
		Kind:     kind,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	})
}

func (l *List) add(d Diagnostic) {
	if d.Severity == SeverityError && l.maxErrors > 0 && l.errorCount() >= l.maxErrors {
		if !l.truncated {
			l.truncated = true
			l.diags = append(l.diags, Diagnostic{
				Kind:     KindValidation,
				Severity: SeverityError,
				Message:  fmt.Sprintf("too many errors (limit %d), further errors suppressed", l.maxErrors),
			})
		}
		return
	}
	l.diags = append(l.diags, d)
}

func (l *List) errorCount() int {
	n := 0
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (l *List) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

func (l *List) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range l.diags {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

func (l *List) All() []Diagnostic { return l.diags }

func (l *List) HasErrors() bool { return l.errorCount() > 0 }
