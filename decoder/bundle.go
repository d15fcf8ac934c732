package decoder

import (
	"sort"

	"github.com/teatak/treedec/grammar"
	"github.com/teatak/treedec/tree"
)

// Bundle is the ranked cross-product search space for one head node and one
// tail shape: the matching rules sorted by intrinsic score and, per
// substitution site, the child node's vertex stack. Stacks alias the stack
// manager's slices; nothing is copied.
type Bundle struct {
	Head   *tree.Node
	Tail   []*tree.Node
	Rules  []*grammar.Rule
	Stacks []Stack
}

// BuildBundles groups pattern hyperedges by identical tail-node lists and
// attaches the child stacks. Each bundle's rule list is sorted descending
// by rule score, keeping matching order on ties, and capped at ruleLimit
// when positive.
func BuildBundles(edges []PatternHyperedge, stacks map[*tree.Node]Stack, ruleLimit int) []*Bundle {
	var bundles []*Bundle
	for _, e := range edges {
		b := findBundle(bundles, e.Tail)
		if b == nil {
			b = &Bundle{Head: e.Head, Tail: e.Tail}
			b.Stacks = make([]Stack, len(e.Tail))
			for i, n := range e.Tail {
				b.Stacks[i] = stacks[n]
			}
			bundles = append(bundles, b)
		}
		b.Rules = append(b.Rules, e.Rule)
	}
	for _, b := range bundles {
		sort.SliceStable(b.Rules, func(i, j int) bool {
			return b.Rules[i].Score > b.Rules[j].Score
		})
		if ruleLimit > 0 && len(b.Rules) > ruleLimit {
			b.Rules = b.Rules[:ruleLimit]
		}
	}
	return bundles
}

func findBundle(bundles []*Bundle, tail []*tree.Node) *Bundle {
	for _, b := range bundles {
		if sameTail(b.Tail, tail) {
			return b
		}
	}
	return nil
}

func sameTail(a, b []*tree.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
