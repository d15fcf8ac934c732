package grammar

import "strings"

// The trie indexes rules by their source patterns serialized breadth-first
// into "levels" (Zhang et al. 2009). Level 0 holds the root symbol alone.
// Each later level concatenates, for every frontier node of the previous
// level, either the symbols of its children or an end marker, with commas
// separating the groups of consecutive parents. Two patterns are identical
// iff their level sequences are identical, so all rules stored at one trie
// node share a single source pattern.

// TokKind discriminates the three kinds of level tokens.
type TokKind int

const (
	TokSym   TokKind = iota // a pattern symbol
	TokComma                // group separator between consecutive parents
	TokEnd                  // the parent's expansion stops here
)

// Tok is one element of a level.
type Tok struct {
	Kind TokKind
	Sym  Sym
}

// Level is one breadth-first slice of a serialized pattern.
type Level []Tok

// Key returns a canonical string for the level, used as the trie edge key.
func (l Level) Key() string {
	var sb strings.Builder
	for i, t := range l {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch t.Kind {
		case TokComma:
			sb.WriteByte(',')
		case TokEnd:
			sb.WriteByte('#')
		default:
			if t.Sym.NonTerm {
				sb.WriteString("n:")
			} else {
				sb.WriteString("w:")
			}
			sb.WriteString(t.Sym.Value)
		}
	}
	return sb.String()
}

// EncodePattern serializes a pattern into its level sequence.
func EncodePattern(p *Pattern) []Level {
	levels := []Level{{Tok{Kind: TokSym, Sym: p.Sym}}}
	frontier := []*Pattern{p}
	for {
		expands := false
		for _, n := range frontier {
			if !n.IsLeaf() {
				expands = true
				break
			}
		}
		if !expands {
			return levels
		}
		var level Level
		var next []*Pattern
		for i, n := range frontier {
			if i > 0 {
				level = append(level, Tok{Kind: TokComma})
			}
			if n.IsLeaf() {
				level = append(level, Tok{Kind: TokEnd})
				continue
			}
			for _, c := range n.Children {
				level = append(level, Tok{Kind: TokSym, Sym: c.Sym})
				next = append(next, c)
			}
		}
		levels = append(levels, level)
		frontier = next
	}
}

// TrieNode is one state of the rule index. Rules is non-empty only at
// accepting states. Edges keeps insertion order so traversal, and with it
// the decoder's tie-breaking, stays reproducible.
type TrieNode struct {
	Edges []*TrieEdge
	Rules []*Rule

	byKey map[string]*TrieEdge
}

// TrieEdge is one outgoing transition, labeled by a whole level.
type TrieEdge struct {
	Seq  Level
	Next *TrieNode
}

// Trie indexes a rule table for incremental level-by-level traversal.
// Built once, read-only during decoding.
type Trie struct {
	root *TrieNode
}

// NewTrie creates an empty rule trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

func newTrieNode() *TrieNode {
	return &TrieNode{byKey: make(map[string]*TrieEdge)}
}

// Root returns the trie's start state.
func (t *Trie) Root() *TrieNode {
	return t.root
}

// Edge returns the outgoing transition labeled by the given level, or nil.
func (n *TrieNode) Edge(level Level) *TrieEdge {
	return n.byKey[level.Key()]
}

// Insert adds a rule under its source pattern's level sequence.
func (t *Trie) Insert(r *Rule) {
	node := t.root
	for _, level := range EncodePattern(r.Pattern) {
		key := level.Key()
		edge, ok := node.byKey[key]
		if !ok {
			edge = &TrieEdge{Seq: level, Next: newTrieNode()}
			node.byKey[key] = edge
			node.Edges = append(node.Edges, edge)
		}
		node = edge.Next
	}
	node.Rules = append(node.Rules, r)
}

// Find returns the rules stored under the given pattern, or nil.
func (t *Trie) Find(p *Pattern) []*Rule {
	node := t.root
	for _, level := range EncodePattern(p) {
		edge := node.byKey[level.Key()]
		if edge == nil {
			return nil
		}
		node = edge.Next
	}
	return node.Rules
}
