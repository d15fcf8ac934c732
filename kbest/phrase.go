package kbest

import "strings"

// Sentence boundary markers. OutputPhrase includes them; writers strip
// them before printing.
const (
	BOS = "<s>"
	EOS = "</s>"
)

// OutputPhrase returns the derivation's surface target sentence, wrapped
// in boundary markers.
func OutputPhrase(d *Derivation) []string {
	words := append([]string{BOS}, targetYield(nil, d)...)
	return append(words, EOS)
}

func targetYield(words []string, d *Derivation) []string {
	for _, tok := range d.Edge.S.Rule.Target {
		if tok.IsSite() {
			words = targetYield(words, d.Subderivations[tok.Site])
		} else {
			words = append(words, tok.Word)
		}
	}
	return words
}

// ScoreBreakdown returns the elementwise sum of the feature vectors of
// every rule in the derivation.
func ScoreBreakdown(d *Derivation) []float64 {
	var total []float64
	var add func(d *Derivation)
	add = func(d *Derivation) {
		for i, f := range d.Edge.S.Rule.Features {
			if i >= len(total) {
				total = append(total, 0)
			}
			total[i] += f
		}
		for _, sub := range d.Subderivations {
			add(sub)
		}
	}
	add(d)
	return total
}

// TreeString renders the derivation's target-side parse: each rule becomes
// a node labeled with its source head symbol, target words become leaves,
// and sites expand into their subderivations.
func TreeString(d *Derivation) string {
	var sb strings.Builder
	writeDerivation(&sb, d)
	return sb.String()
}

func writeDerivation(sb *strings.Builder, d *Derivation) {
	rule := d.Edge.S.Rule
	sb.WriteByte('(')
	sb.WriteString(rule.Head().Value)
	for _, tok := range rule.Target {
		sb.WriteByte(' ')
		if tok.IsSite() {
			writeDerivation(sb, d.Subderivations[tok.Site])
		} else {
			sb.WriteString(tok.Word)
		}
	}
	sb.WriteByte(')')
}
