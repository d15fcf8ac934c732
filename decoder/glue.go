package decoder

import (
	"github.com/teatak/treedec/grammar"
	"github.com/teatak/treedec/tree"
)

// GlueSynthesizer builds fallback rules on demand for nodes no grammar rule
// matches. A glue rule takes the node's children verbatim, concatenates
// their translations without reordering, aligns its terminals one to one,
// and carries a fixed score. Rules go into a dedicated trie served by its
// own matcher.
type GlueSynthesizer struct {
	trie  *grammar.Trie
	score float64
}

// NewGlueSynthesizer creates a synthesizer feeding the given glue trie.
func NewGlueSynthesizer(trie *grammar.Trie, score float64) *GlueSynthesizer {
	return &GlueSynthesizer{trie: trie, score: score}
}

// SynthesizeRule inserts a glue rule matching the node's exact shape. Nodes
// with the same symbol and child shape share one rule.
func (g *GlueSynthesizer) SynthesizeRule(node *tree.Node) error {
	p := &grammar.Pattern{
		Sym:      grammar.Sym{Value: node.Symbol, NonTerm: true},
		Children: make([]*grammar.Pattern, len(node.Children)),
	}
	var target []grammar.TargetTok
	var align []grammar.AlignPoint
	sites := 0
	for i, child := range node.Children {
		if child.IsLeaf() {
			p.Children[i] = &grammar.Pattern{Sym: grammar.Sym{Value: child.Symbol}}
			align = append(align, grammar.AlignPoint{Source: i, Target: i})
			target = append(target, grammar.TargetTok{Word: child.Symbol, Site: -1})
		} else {
			p.Children[i] = &grammar.Pattern{Sym: grammar.Sym{Value: child.Symbol, NonTerm: true}}
			target = append(target, grammar.TargetTok{Site: sites})
			sites++
		}
	}
	if g.trie.Find(p) != nil {
		return nil
	}
	rule, err := grammar.NewRule(p, target, align, []float64{g.score}, nil)
	if err != nil {
		return err
	}
	g.trie.Insert(rule)
	return nil
}
