package decoder

import (
	"github.com/teatak/treedec/grammar"
	"github.com/teatak/treedec/tree"
)

// SVertex is one node of the output search space: an input-tree position
// together with its best incoming hyperedge and the alternatives folded
// into it by recombination. Terminal leaves get a vertex with no incoming
// hyperedge. At most one canonical vertex exists per equivalence key per
// input node.
type SVertex struct {
	Node       *tree.Node
	Best       *SHyperedge
	Recombined []*SHyperedge
}

// Score returns the score of the vertex's best incoming hyperedge, or 0
// for a leaf vertex.
func (v *SVertex) Score() float64 {
	if v.Best == nil {
		return 0
	}
	return v.Best.Score
}

// SHyperedge is one instantiated rule application: a head vertex, the
// already-decided child vertices filling the rule's substitution sites (in
// capture order), and the total score. Exactly one vertex owns the edge as
// an incoming edge at any time.
type SHyperedge struct {
	Head  *SVertex
	Tail  []*SVertex
	Rule  *grammar.Rule
	Score float64
}

// Stack is the ranked, size-bounded vertex list of one input node, sorted
// by best-hyperedge score, descending.
type Stack []*SVertex

// PatternHyperedge is a transient rule match: one rule applied at a head
// node, with the input nodes consumed by the rule's substitution sites.
type PatternHyperedge struct {
	Head *tree.Node
	Tail []*tree.Node
	Rule *grammar.Rule
}
