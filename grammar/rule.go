package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// AlignPoint is one word-alignment link. For a rule's terminal alignment,
// Source is a position in the rule's source frontier and Target a position
// in its target tokens; after reconstruction both are absolute sentence
// positions.
type AlignPoint struct {
	Source int
	Target int
}

// TargetTok is one token of a rule's target side. Site is the index of the
// substitution site (in capture order) the token stands for, or -1 for a
// surface word.
type TargetTok struct {
	Word string
	Site int
}

// IsSite reports whether the token is a nonterminal placeholder.
func (t TargetTok) IsSite() bool {
	return t.Site >= 0
}

// Rule is one grammar rule: a source pattern, a target token sequence, the
// rule-internal alignment tables, and its scores. Frontier caches the
// pattern's leaves in source word order; SitePos maps each substitution
// site (capture order) to its frontier position.
type Rule struct {
	Pattern   *Pattern
	Frontier  []Sym
	SitePos   []int
	Target    []TargetTok
	AlignTerm []AlignPoint
	Features  []float64
	Score     float64
}

// Arity returns the number of substitution sites.
func (r *Rule) Arity() int {
	return len(r.SitePos)
}

// Head returns the root symbol of the rule's source pattern.
func (r *Rule) Head() Sym {
	return r.Pattern.Sym
}

// NewRule assembles and validates a rule. Target site indices refer to
// capture order. The rule's intrinsic score is the dot product of its
// feature values with weights; nil weights mean uniform 1.0.
func NewRule(p *Pattern, target []TargetTok, alignTerm []AlignPoint, features []float64, weights []float64) (*Rule, error) {
	frontier := p.Frontier()
	sites := p.captureSites()
	r := &Rule{
		Pattern:   p,
		Frontier:  make([]Sym, len(frontier)),
		SitePos:   make([]int, len(sites)),
		Target:    target,
		AlignTerm: alignTerm,
		Features:  features,
	}
	pos := make(map[*Pattern]int, len(frontier))
	for i, leaf := range frontier {
		r.Frontier[i] = leaf.Sym
		pos[leaf] = i
	}
	for i, site := range sites {
		r.SitePos[i] = pos[site]
	}
	for _, tok := range target {
		if tok.IsSite() && tok.Site >= len(sites) {
			return nil, fmt.Errorf("grammar: target references site %d but rule has %d sites", tok.Site, len(sites))
		}
	}
	for _, a := range alignTerm {
		if a.Source < 0 || a.Source >= len(frontier) {
			return nil, fmt.Errorf("grammar: alignment source %d out of range", a.Source)
		}
		if frontier[a.Source].Sym.NonTerm {
			return nil, fmt.Errorf("grammar: alignment source %d is a site", a.Source)
		}
		if a.Target < 0 || a.Target >= len(target) || target[a.Target].IsSite() {
			return nil, fmt.Errorf("grammar: alignment target %d is not a terminal", a.Target)
		}
	}
	r.Score = dot(features, weights)
	return r, nil
}

func dot(features, weights []float64) float64 {
	var score float64
	for i, f := range features {
		if weights == nil || i >= len(weights) {
			score += f
		} else {
			score += f * weights[i]
		}
	}
	return score
}

// ParseRule reads one rule-table line:
//
//	(X a [NP] c) ||| b [2] d ||| 0.5 -0.3 ||| 0-1 2-0
//
// Fields are source pattern, target tokens, feature values, and optional
// terminal alignment pairs (frontier position - target position). A target
// token "[k]" substitutes the k-th site of the source pattern counted in
// source word order, 1-based.
func ParseRule(line string, weights []float64) (*Rule, error) {
	fields := strings.Split(line, "|||")
	if len(fields) < 3 || len(fields) > 4 {
		return nil, fmt.Errorf("grammar: rule needs 3 or 4 ||| fields, got %d", len(fields))
	}
	p, err := ParsePattern(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, err
	}

	// Target "[k]" references count sites in source word order; the rule
	// itself stores capture-order indices, so translate between the two.
	docSites := p.docSites()
	captureIdx := make(map[*Pattern]int)
	for i, site := range p.captureSites() {
		captureIdx[site] = i
	}
	var target []TargetTok
	for _, tok := range strings.Fields(fields[1]) {
		if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
			k, err := strconv.Atoi(tok[1 : len(tok)-1])
			if err != nil || k < 1 || k > len(docSites) {
				return nil, fmt.Errorf("grammar: bad site reference %q", tok)
			}
			target = append(target, TargetTok{Site: captureIdx[docSites[k-1]]})
			continue
		}
		target = append(target, TargetTok{Word: tok, Site: -1})
	}
	if len(target) == 0 {
		return nil, fmt.Errorf("grammar: empty target side")
	}

	var features []float64
	for _, f := range strings.Fields(fields[2]) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("grammar: bad feature value %q: %w", f, err)
		}
		features = append(features, v)
	}

	var alignTerm []AlignPoint
	if len(fields) == 4 {
		for _, pair := range strings.Fields(fields[3]) {
			st := strings.SplitN(pair, "-", 2)
			if len(st) != 2 {
				return nil, fmt.Errorf("grammar: bad alignment pair %q", pair)
			}
			s, err1 := strconv.Atoi(st[0])
			t, err2 := strconv.Atoi(st[1])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("grammar: bad alignment pair %q", pair)
			}
			alignTerm = append(alignTerm, AlignPoint{Source: s, Target: t})
		}
	}
	return NewRule(p, target, alignTerm, features, weights)
}
