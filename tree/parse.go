package tree

import (
	"fmt"
	"strings"
)

// Parse reads a bracketed tree such as "(S (NP john) (VP runs))".
// Internal nodes open with "(Symbol" and close with ")"; bare tokens are
// terminals. The input must contain exactly one top-level tree.
func Parse(text string) (*Tree, error) {
	toks := tokenize(text)
	if len(toks) == 0 {
		return nil, fmt.Errorf("tree: empty input")
	}
	root, rest, err := parseNode(toks)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("tree: trailing input after tree: %q", strings.Join(rest, " "))
	}
	return NewTree(root), nil
}

func tokenize(text string) []string {
	text = strings.ReplaceAll(text, "(", " ( ")
	text = strings.ReplaceAll(text, ")", " ) ")
	return strings.Fields(text)
}

func parseNode(toks []string) (*Node, []string, error) {
	if len(toks) == 0 {
		return nil, nil, fmt.Errorf("tree: unexpected end of input")
	}
	if toks[0] != "(" {
		if toks[0] == ")" {
			return nil, nil, fmt.Errorf("tree: unexpected ')'")
		}
		// Terminal.
		return &Node{Symbol: toks[0]}, toks[1:], nil
	}
	if len(toks) < 2 || toks[1] == "(" || toks[1] == ")" {
		return nil, nil, fmt.Errorf("tree: expected symbol after '('")
	}
	node := &Node{Symbol: toks[1]}
	toks = toks[2:]
	for {
		if len(toks) == 0 {
			return nil, nil, fmt.Errorf("tree: missing ')' for node %s", node.Symbol)
		}
		if toks[0] == ")" {
			break
		}
		child, rest, err := parseNode(toks)
		if err != nil {
			return nil, nil, err
		}
		node.Children = append(node.Children, child)
		toks = rest
	}
	if len(node.Children) == 0 {
		return nil, nil, fmt.Errorf("tree: node %s has no children", node.Symbol)
	}
	return node, toks[1:], nil
}

// String renders the tree back into bracketed form.
func (t *Tree) String() string {
	var sb strings.Builder
	writeNode(&sb, t.Root)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node) {
	if n.IsLeaf() {
		sb.WriteString(n.Symbol)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Symbol)
	for _, c := range n.Children {
		sb.WriteByte(' ')
		writeNode(sb, c)
	}
	sb.WriteByte(')')
}
