package kbest

import (
	"errors"
	"fmt"

	"github.com/teatak/treedec/grammar"
)

// Both errors signal a matching or substitution invariant broken upstream,
// never a normal decode outcome.
var (
	ErrAlignmentCollision = errors.New("kbest: duplicate alignment point")
	ErrArityMismatch      = errors.New("kbest: rule site count does not match subderivations")
)

// Alignments maps every rule-internal terminal alignment in the derivation
// to absolute source and target sentence positions.
func Alignments(d *Derivation) (map[grammar.AlignPoint]bool, error) {
	points := make(map[grammar.AlignPoint]bool)
	if _, err := alignDerivation(points, d, 0); err != nil {
		return nil, err
	}
	return points, nil
}

// alignDerivation accumulates the derivation's alignment points given the
// absolute target position its yield starts at, and returns the number of
// target words the yield consumed so the caller can place its successors.
// The absolute source start comes from the head vertex's span.
func alignDerivation(points map[grammar.AlignPoint]bool, d *Derivation, startTarget int) (int, error) {
	edge := d.Edge.S
	rule := edge.Rule
	if rule.Arity() != len(d.Subderivations) {
		return 0, fmt.Errorf("%w: rule has %d sites, derivation has %d subderivations",
			ErrArityMismatch, rule.Arity(), len(d.Subderivations))
	}
	startSource := edge.Head.Node.Span.Start

	// Per rule-internal position: 0 for a terminal, the consumed span
	// width for a site. shiftOffsets then turns both vectors into
	// absolute positions for the terminal entries.
	sourceOffsets := make([]int, calcSourceSize(d))
	targetOffsets := make([]int, len(rule.Target))
	totalTarget := 0
	for pos, tok := range rule.Target {
		if !tok.IsSite() {
			totalTarget++
			continue
		}
		sub := d.Subderivations[tok.Site]
		sourceOffsets[rule.SitePos[tok.Site]] = sub.Edge.S.Head.Node.Span.Len()
		size, err := alignDerivation(points, sub, startTarget+totalTarget)
		if err != nil {
			return 0, err
		}
		targetOffsets[pos] = size
		totalTarget += size
	}
	shiftOffsets(sourceOffsets, startSource)
	shiftOffsets(targetOffsets, startTarget)

	for _, a := range rule.AlignTerm {
		p := grammar.AlignPoint{Source: sourceOffsets[a.Source], Target: targetOffsets[a.Target]}
		if points[p] {
			return 0, fmt.Errorf("%w: (%d,%d)", ErrAlignmentCollision, p.Source, p.Target)
		}
		points[p] = true
	}
	return totalTarget, nil
}

// calcSourceSize is the width of the rule's own source frontier: the head
// span minus what the sites' subtrees cover beyond one slot each.
func calcSourceSize(d *Derivation) int {
	edge := d.Edge.S
	size := edge.Head.Node.Span.Len()
	for _, t := range edge.Tail {
		size -= t.Node.Span.Len() - 1
	}
	return size
}

// shiftOffsets rewrites per-position widths into absolute positions
// starting at start: zero entries occupy one position, wider entries
// advance the cursor by their width.
func shiftOffsets(offsets []int, start int) {
	pos := start
	for i, width := range offsets {
		if width == 0 {
			offsets[i] = pos
			pos++
		} else {
			pos += width
			offsets[i] = pos - 1
		}
	}
}
