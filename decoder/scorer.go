package decoder

import "github.com/teatak/treedec/grammar"

// Scorer is the feature-function collaborator. Score combines a rule choice
// with its children's accumulated scores into a total; EquivalenceKey
// derives the recombination key from whatever state of an edge affects
// future scoring (for a stateless scorer, the empty string). Cube pruning
// only assumes that higher tail scores never lower the total.
type Scorer interface {
	Score(rule *grammar.Rule, tailScores []float64) float64
	EquivalenceKey(edge *SHyperedge) string
}

// RuleScorer is the default stateless scorer: the rule's intrinsic score
// plus the sum of the tail scores. All vertices of a node recombine into
// one canonical vertex.
type RuleScorer struct{}

// Score implements Scorer.
func (RuleScorer) Score(rule *grammar.Rule, tailScores []float64) float64 {
	score := rule.Score
	for _, s := range tailScores {
		score += s
	}
	return score
}

// EquivalenceKey implements Scorer.
func (RuleScorer) EquivalenceKey(*SHyperedge) string {
	return ""
}
