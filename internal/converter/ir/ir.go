package ir

import "pseudoc/internal/converter/types"

// Kind is the closed set of IR node variants. The kind alone determines which
// opening/closing keyword pair the renderer emits; Text carries the node's
// own rendered fragment and may be empty for pure containers.
type Kind string

const (
	KindAssign          Kind = "assign"
	KindElementAssign   Kind = "element-assign"
	KindAttributeAssign Kind = "attribute-assign"

	KindIf     Kind = "if"
	KindElseIf Kind = "elseif"
	KindElse   Kind = "else"
	KindEndIf  Kind = "endif"

	KindFor      Kind = "for"
	KindWhile    Kind = "while"
	KindEndWhile Kind = "endwhile"
	KindRepeat   Kind = "repeat"
	KindUntil    Kind = "until"
	KindBreak    Kind = "break"

	KindFunction  Kind = "function"
	KindProcedure Kind = "procedure"
	KindReturn    Kind = "return"

	KindArray        Kind = "array"
	KindArrayLiteral Kind = "array-literal"
	KindType         Kind = "type"
	KindClass        Kind = "class"

	KindBlock      Kind = "block"
	KindCase       Kind = "case"
	KindStatement  Kind = "statement"
	KindExpression Kind = "expression"
	KindCompound   Kind = "compound"
	KindComment    Kind = "comment"
)

// Meta carries the optional structured fields a kind may need beyond Text.
type Meta struct {
	Name      string
	Params    string // rendered parameter list
	Condition string

	// loop bounds, already rendered to target text
	Start string
	End   string
	Step  string

	DataType types.DataType
	ElemType types.DataType
	Size     int
	Base     string
}

// Node is one node of the immutable IR tree. Nodes are created once during
// the semantic walk and only read afterwards.
type Node struct {
	Kind     Kind
	Text     string
	Children []*Node
	Meta     *Meta
}

func New(kind Kind, text string) *Node {
	return &Node{Kind: kind, Text: text}
}

func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Count returns the number of nodes in the subtree, root included.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Walk visits every node depth-first, root first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
