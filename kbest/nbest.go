package kbest

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/teatak/treedec/decoder"
	"github.com/teatak/treedec/grammar"
)

// ErrShortPhrase reports an output phrase missing its boundary markers,
// which indicates a corrupted derivation.
var ErrShortPhrase = errors.New("kbest: output phrase shorter than its boundary markers")

// ExtractKBest returns up to k derivations from the manager's root stack,
// best first. With distinct set, the extraction is oversampled by the
// configured n-best factor (0 selects a large default) and filtered to the
// first derivation of each surface phrase; fewer than k distinct phrases
// yield a shorter list, which is not an error.
func ExtractKBest(m *decoder.Manager, k int, distinct bool) []*Derivation {
	if k == 0 || m.Tree().Size() == 0 {
		return nil
	}
	stack := m.RootStack()
	x := NewExtractor()
	if !distinct {
		return x.Extract(stack, k)
	}
	factor := m.Config().NBestFactor
	if factor == 0 {
		// Pragmatic stand-in for "unlimited"; tunable, not meaningful.
		factor = 1000
	}
	var out []*Derivation
	seen := make(map[string]bool)
	for _, d := range x.Extract(stack, k*factor) {
		phrase := strings.Join(OutputPhrase(d), " ")
		if seen[phrase] {
			continue
		}
		seen[phrase] = true
		out = append(out, d)
		if len(out) == k {
			break
		}
	}
	return out
}

// WriteNBest prints one line per derivation:
//
//	id ||| target words ||| feature scores ||| total score
//
// with boundary markers stripped, plus optional alignment and target-tree
// fields per the config.
func WriteNBest(w io.Writer, id string, list []*Derivation, cfg decoder.Config) error {
	for _, d := range list {
		phrase := OutputPhrase(d)
		if len(phrase) < 2 {
			return ErrShortPhrase
		}
		words := phrase[1 : len(phrase)-1]
		if _, err := fmt.Fprintf(w, "%s ||| %s ||| %s ||| %s",
			id, strings.Join(words, " "),
			formatFloats(ScoreBreakdown(d)),
			strconv.FormatFloat(d.Score, 'g', -1, 64)); err != nil {
			return err
		}
		if cfg.IncludeAlignment {
			points, err := Alignments(d)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, " ||| %s", FormatAlignments(points)); err != nil {
				return err
			}
		}
		if cfg.IncludeTree {
			if _, err := fmt.Fprintf(w, " ||| %s", TreeString(d)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// FormatAlignments renders alignment points as "s-t" pairs sorted by
// source, then target position.
func FormatAlignments(points map[grammar.AlignPoint]bool) string {
	sorted := make([]grammar.AlignPoint, 0, len(points))
	for p := range points {
		sorted = append(sorted, p)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Source != sorted[j].Source {
			return sorted[i].Source < sorted[j].Source
		}
		return sorted[i].Target < sorted[j].Target
	})
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = fmt.Sprintf("%d-%d", p.Source, p.Target)
	}
	return strings.Join(parts, " ")
}

func formatFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
