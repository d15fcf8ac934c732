package grammar

import (
	"fmt"
	"strings"
)

// Sym is one symbol of a rule's source pattern. NonTerm distinguishes
// syntactic categories from surface words.
type Sym struct {
	Value   string
	NonTerm bool
}

// Pattern is a rule's source-side tree fragment. A leaf with NonTerm set is
// a substitution site; a terminal leaf must match a source word verbatim.
type Pattern struct {
	Sym      Sym
	Children []*Pattern
}

// IsLeaf reports whether the pattern node has no expansion.
func (p *Pattern) IsLeaf() bool {
	return len(p.Children) == 0
}

// Frontier returns the pattern's leaves in source word order.
func (p *Pattern) Frontier() []*Pattern {
	var leaves []*Pattern
	var walk func(n *Pattern)
	walk = func(n *Pattern) {
		if n.IsLeaf() {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(p)
	return leaves
}

// docSites returns the substitution sites in source word order.
func (p *Pattern) docSites() []*Pattern {
	var sites []*Pattern
	for _, leaf := range p.Frontier() {
		if leaf.Sym.NonTerm {
			sites = append(sites, leaf)
		}
	}
	return sites
}

// captureSites returns the substitution sites in the order the level-wise
// matcher discovers them: by the depth at which the pattern stops expanding
// them, left to right within a depth. Rule alignment tables and matcher
// tails both use this order, which keeps the two in agreement.
func (p *Pattern) captureSites() []*Pattern {
	frontier := []*Pattern{p}
	var sites []*Pattern
	for {
		expands := false
		for _, n := range frontier {
			if !n.IsLeaf() {
				expands = true
				break
			}
		}
		if !expands {
			for _, n := range frontier {
				if n.Sym.NonTerm {
					sites = append(sites, n)
				}
			}
			return sites
		}
		var next []*Pattern
		for _, n := range frontier {
			if n.IsLeaf() {
				if n.Sym.NonTerm {
					sites = append(sites, n)
				}
				continue
			}
			next = append(next, n.Children...)
		}
		frontier = next
	}
}

// ParsePattern reads a bracketed source pattern such as
// "(S [NP] (VP loves [NP]))". Bare tokens are terminals, "[Sym]" is a
// substitution site, "(Sym ...)" an internal node.
func ParsePattern(text string) (*Pattern, error) {
	toks := patternTokens(text)
	p, rest, err := parsePatternNode(toks)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("grammar: trailing input after pattern: %q", strings.Join(rest, " "))
	}
	if p.IsLeaf() {
		return nil, fmt.Errorf("grammar: pattern must have at least one child")
	}
	return p, nil
}

func patternTokens(text string) []string {
	text = strings.ReplaceAll(text, "(", " ( ")
	text = strings.ReplaceAll(text, ")", " ) ")
	return strings.Fields(text)
}

func parsePatternNode(toks []string) (*Pattern, []string, error) {
	if len(toks) == 0 {
		return nil, nil, fmt.Errorf("grammar: unexpected end of pattern")
	}
	tok := toks[0]
	if tok == ")" {
		return nil, nil, fmt.Errorf("grammar: unexpected ')' in pattern")
	}
	if tok != "(" {
		if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
			sym := tok[1 : len(tok)-1]
			if sym == "" {
				return nil, nil, fmt.Errorf("grammar: empty site symbol")
			}
			return &Pattern{Sym: Sym{Value: sym, NonTerm: true}}, toks[1:], nil
		}
		return &Pattern{Sym: Sym{Value: tok}}, toks[1:], nil
	}
	if len(toks) < 2 || toks[1] == "(" || toks[1] == ")" {
		return nil, nil, fmt.Errorf("grammar: expected symbol after '('")
	}
	node := &Pattern{Sym: Sym{Value: toks[1], NonTerm: true}}
	toks = toks[2:]
	for {
		if len(toks) == 0 {
			return nil, nil, fmt.Errorf("grammar: missing ')' for pattern node %s", node.Sym.Value)
		}
		if toks[0] == ")" {
			break
		}
		child, rest, err := parsePatternNode(toks)
		if err != nil {
			return nil, nil, err
		}
		node.Children = append(node.Children, child)
		toks = rest
	}
	if len(node.Children) == 0 {
		return nil, nil, fmt.Errorf("grammar: pattern node %s has no children", node.Sym.Value)
	}
	return node, toks[1:], nil
}

// String renders the pattern back into bracketed form.
func (p *Pattern) String() string {
	var sb strings.Builder
	writePattern(&sb, p)
	return sb.String()
}

func writePattern(sb *strings.Builder, p *Pattern) {
	if p.IsLeaf() {
		if p.Sym.NonTerm {
			sb.WriteByte('[')
			sb.WriteString(p.Sym.Value)
			sb.WriteByte(']')
		} else {
			sb.WriteString(p.Sym.Value)
		}
		return
	}
	sb.WriteByte('(')
	sb.WriteString(p.Sym.Value)
	for _, c := range p.Children {
		sb.WriteByte(' ')
		writePattern(sb, c)
	}
	sb.WriteByte(')')
}
