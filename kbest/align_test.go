package kbest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teatak/treedec/decoder"
	"github.com/teatak/treedec/grammar"
)

func bestDerivation(t *testing.T, m *decoder.Manager) *Derivation {
	t.Helper()
	list := NewExtractor().Extract(m.RootStack(), 1)
	require.Len(t, list, 1)
	return list[0]
}

func TestAlignmentsReordering(t *testing.T) {
	m := mustDecode(t, decoder.DefaultConfig(), "(X a b c)",
		"(X a b c) ||| c b a ||| 0.5 ||| 0-2 1-1 2-0")

	points, err := Alignments(bestDerivation(t, m))
	require.NoError(t, err)
	want := map[grammar.AlignPoint]bool{
		{Source: 0, Target: 2}: true,
		{Source: 1, Target: 1}: true,
		{Source: 2, Target: 0}: true,
	}
	require.Equal(t, want, points)
}

func TestAlignmentsAcrossSites(t *testing.T) {
	// The site's subtree spans one source word but sits after z on the
	// target side, so both rules' points land shifted.
	m := mustDecode(t, decoder.DefaultConfig(), "(S (A a) b)",
		"(A a) ||| x ||| 1 ||| 0-0",
		"(S [A] b) ||| z [1] ||| 1 ||| 1-0")

	points, err := Alignments(bestDerivation(t, m))
	require.NoError(t, err)
	want := map[grammar.AlignPoint]bool{
		{Source: 0, Target: 1}: true,
		{Source: 1, Target: 0}: true,
	}
	require.Equal(t, want, points)
}

func TestAlignmentsGlueIdentity(t *testing.T) {
	m := mustDecode(t, decoder.DefaultConfig(), "(X a b c)")

	points, err := Alignments(bestDerivation(t, m))
	require.NoError(t, err)
	want := map[grammar.AlignPoint]bool{
		{Source: 0, Target: 0}: true,
		{Source: 1, Target: 1}: true,
		{Source: 2, Target: 2}: true,
	}
	require.Equal(t, want, points)
}

func TestAlignmentsMultiWordSite(t *testing.T) {
	// The A subtree covers two source words and yields two target words;
	// the outer rule's alignment must skip past both.
	m := mustDecode(t, decoder.DefaultConfig(), "(S (A a1 a2) b)",
		"(A a1 a2) ||| x1 x2 ||| 1 ||| 0-0 1-1",
		"(S [A] b) ||| [1] w ||| 1 ||| 1-1")

	points, err := Alignments(bestDerivation(t, m))
	require.NoError(t, err)
	want := map[grammar.AlignPoint]bool{
		{Source: 0, Target: 0}: true,
		{Source: 1, Target: 1}: true,
		{Source: 2, Target: 2}: true,
	}
	require.Equal(t, want, points)
}
