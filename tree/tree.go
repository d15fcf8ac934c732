package tree

// Span is a half-open range [Start, End) of source word positions.
type Span struct {
	Start int
	End   int
}

// Len returns the number of words covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Node is one position in the source tree. A node with no children is a
// terminal (its Symbol is the surface word); otherwise Symbol is a
// syntactic category. Nodes are read-only once the tree is built.
type Node struct {
	Span     Span
	Symbol   string
	Children []*Node
}

// IsLeaf reports whether the node is a terminal.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is the parsed source sentence. Nodes lists every node in post-order,
// so every child precedes its parent and the root is last.
type Tree struct {
	Nodes  []*Node
	Root   *Node
	Leaves []*Node
}

// NewTree builds a Tree from an already-linked root node. Spans are
// recomputed from leaf order, so callers only need to set symbols and
// children.
func NewTree(root *Node) *Tree {
	t := &Tree{Root: root}
	next := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			n.Span = Span{Start: next, End: next + 1}
			next++
			t.Leaves = append(t.Leaves, n)
			t.Nodes = append(t.Nodes, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
		n.Span = Span{Start: n.Children[0].Span.Start, End: n.Children[len(n.Children)-1].Span.End}
		t.Nodes = append(t.Nodes, n)
	}
	walk(root)
	return t
}

// Words returns the surface words of the sentence in order.
func (t *Tree) Words() []string {
	words := make([]string, len(t.Leaves))
	for i, leaf := range t.Leaves {
		words[i] = leaf.Symbol
	}
	return words
}

// Size returns the sentence length in words.
func (t *Tree) Size() int {
	return len(t.Leaves)
}
