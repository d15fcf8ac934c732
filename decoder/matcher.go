package decoder

import (
	"github.com/teatak/treedec/grammar"
	"github.com/teatak/treedec/tree"
)

// RuleMatcher enumerates, for one input node, every rule whose source
// pattern matches the subtree rooted there. A node matching nothing yields
// zero calls, which is not an error.
type RuleMatcher interface {
	EnumerateHyperedges(node *tree.Node, emit func(PatternHyperedge))
}

// TrieMatcher matches rule patterns against input subtrees by advancing a
// queue of frontier pairs through the trie, one level per step (the "SFP"
// queue of Zhang et al. 2009). Stateless across calls; one instance serves
// a whole decode.
type TrieMatcher struct {
	trie *grammar.Trie
}

// NewTrieMatcher creates a matcher over one rule trie.
func NewTrieMatcher(trie *grammar.Trie) *TrieMatcher {
	return &TrieMatcher{trie: trie}
}

// frontierItem pairs an input node with the pattern symbol that matched it.
// The symbol's NonTerm flag decides whether the node becomes a substitution
// site when the pattern stops expanding it.
type frontierItem struct {
	node *tree.Node
	sym  grammar.Sym
}

// frontierPair is one state of the matching search: the input nodes whose
// expansions come next, the trie state reached so far, and the site nodes
// captured so far (in capture order).
type frontierPair struct {
	frontier []frontierItem
	trieNode *grammar.TrieNode
	tail     []*tree.Node
}

// EnumerateHyperedges implements RuleMatcher.
func (m *TrieMatcher) EnumerateHyperedges(node *tree.Node, emit func(PatternHyperedge)) {
	if node.IsLeaf() {
		return
	}
	rootLevel := grammar.Level{{Kind: grammar.TokSym, Sym: grammar.Sym{Value: node.Symbol, NonTerm: true}}}
	edge := m.trie.Root().Edge(rootLevel)
	if edge == nil {
		return
	}
	queue := []frontierPair{{
		frontier: []frontierItem{{node: node, sym: grammar.Sym{Value: node.Symbol, NonTerm: true}}},
		trieNode: edge.Next,
	}}
	for len(queue) > 0 {
		fp := queue[0]
		queue = queue[1:]
		if len(fp.trieNode.Rules) > 0 {
			m.emitRules(node, fp, emit)
		}
		for _, e := range fp.trieNode.Edges {
			if next, ok := m.advance(fp, e); ok {
				queue = append(queue, next)
			}
		}
	}
}

// emitRules reports one hyperedge per rule at an accepting trie state. The
// rules there all share one source pattern, whose remaining leaves are
// exactly the pair's frontier, so nonterminal frontier items complete the
// tail in capture order.
func (m *TrieMatcher) emitRules(head *tree.Node, fp frontierPair, emit func(PatternHyperedge)) {
	tail := make([]*tree.Node, len(fp.tail), len(fp.tail)+len(fp.frontier))
	copy(tail, fp.tail)
	for _, it := range fp.frontier {
		if it.sym.NonTerm {
			tail = append(tail, it.node)
		}
	}
	for _, r := range fp.trieNode.Rules {
		emit(PatternHyperedge{Head: head, Tail: tail, Rule: r})
	}
}

// levelGroup is the slice of one level belonging to a single parent: either
// an end marker or the parent's required child symbols.
type levelGroup struct {
	end  bool
	toks []grammar.Tok
}

// splitLevel cuts a level at its commas. The group lengths are the
// per-parent subsequence lengths the frontier must satisfy.
func splitLevel(seq grammar.Level) []levelGroup {
	groups := make([]levelGroup, 1)
	for _, t := range seq {
		switch t.Kind {
		case grammar.TokComma:
			groups = append(groups, levelGroup{})
		case grammar.TokEnd:
			groups[len(groups)-1].end = true
		default:
			g := &groups[len(groups)-1]
			g.toks = append(g.toks, t)
		}
	}
	return groups
}

// advance consumes one trie level against the pair's frontier. Each
// parent's group must either end its expansion or match the parent's
// children exactly, in arity and in symbols.
func (m *TrieMatcher) advance(fp frontierPair, e *grammar.TrieEdge) (frontierPair, bool) {
	groups := splitLevel(e.Seq)
	if len(groups) != len(fp.frontier) {
		return frontierPair{}, false
	}
	next := frontierPair{trieNode: e.Next}
	next.tail = make([]*tree.Node, len(fp.tail))
	copy(next.tail, fp.tail)
	for i, it := range fp.frontier {
		g := groups[i]
		if g.end {
			// The pattern stops here: a nonterminal leaf is a
			// substitution site, a terminal leaf was already matched
			// by symbol at the previous level.
			if it.sym.NonTerm {
				next.tail = append(next.tail, it.node)
			}
			continue
		}
		if len(g.toks) != len(it.node.Children) {
			return frontierPair{}, false
		}
		for j, tok := range g.toks {
			child := it.node.Children[j]
			if tok.Sym.NonTerm == child.IsLeaf() || child.Symbol != tok.Sym.Value {
				return frontierPair{}, false
			}
			next.frontier = append(next.frontier, frontierItem{node: child, sym: tok.Sym})
		}
	}
	return next, true
}
