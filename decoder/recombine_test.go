package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teatak/treedec/grammar"
)

// wordKeyScorer recombines edges by their first target word, standing in
// for a stateful feature function.
type wordKeyScorer struct {
	RuleScorer
}

func (wordKeyScorer) EquivalenceKey(e *SHyperedge) string {
	return e.Rule.Target[0].Word
}

func scoredEdge(score float64, word string) *SHyperedge {
	e := &SHyperedge{
		Head:  &SVertex{},
		Rule:  &grammar.Rule{Target: []grammar.TargetTok{{Word: word, Site: -1}}},
		Score: score,
	}
	e.Head.Best = e
	return e
}

func TestRecombineMergesByKey(t *testing.T) {
	a1 := scoredEdge(5, "a")
	a2 := scoredEdge(3, "a")
	b := scoredEdge(4, "b")
	stack := RecombineAndSort([]*SHyperedge{a1, a2, b}, wordKeyScorer{}, 0)

	require.Len(t, stack, 2)
	assert.Same(t, a1, stack[0].Best)
	require.Len(t, stack[0].Recombined, 1)
	assert.Same(t, a2, stack[0].Recombined[0])
	assert.Same(t, b, stack[1].Best)
	assert.Empty(t, stack[1].Recombined)

	// The losing edge's head now points at the canonical vertex.
	assert.Same(t, stack[0], a2.Head)
}

func TestRecombineLaterWinner(t *testing.T) {
	low := scoredEdge(2, "a")
	high := scoredEdge(6, "a")
	stack := RecombineAndSort([]*SHyperedge{low, high}, wordKeyScorer{}, 0)

	require.Len(t, stack, 1)
	assert.Same(t, high, stack[0].Best)
	require.Len(t, stack[0].Recombined, 1)
	assert.Same(t, low, stack[0].Recombined[0])
}

func TestRecombineTieKeepsFirst(t *testing.T) {
	first := scoredEdge(4, "a")
	second := scoredEdge(4, "a")
	stack := RecombineAndSort([]*SHyperedge{first, second}, wordKeyScorer{}, 0)

	require.Len(t, stack, 1)
	assert.Same(t, first, stack[0].Best)
}

func TestRecombineSortsAndTruncates(t *testing.T) {
	buffer := []*SHyperedge{
		scoredEdge(1, "a"),
		scoredEdge(9, "b"),
		scoredEdge(5, "c"),
	}
	stack := RecombineAndSort(buffer, wordKeyScorer{}, 2)

	require.Len(t, stack, 2)
	assert.Equal(t, 9.0, stack[0].Score())
	assert.Equal(t, 5.0, stack[1].Score())
}

func TestRecombineStatelessScorer(t *testing.T) {
	// The default scorer keys every edge alike, so one vertex survives
	// and it carries every losing edge.
	buffer := []*SHyperedge{
		scoredEdge(1, "a"),
		scoredEdge(9, "b"),
		scoredEdge(5, "c"),
	}
	stack := RecombineAndSort(buffer, RuleScorer{}, 0)

	require.Len(t, stack, 1)
	assert.Equal(t, 9.0, stack[0].Score())
	assert.Len(t, stack[0].Recombined, 2)
}

func TestRecombineBestDominatesRecombined(t *testing.T) {
	buffer := []*SHyperedge{
		scoredEdge(3, "a"),
		scoredEdge(7, "a"),
		scoredEdge(5, "a"),
	}
	stack := RecombineAndSort(buffer, wordKeyScorer{}, 0)

	require.Len(t, stack, 1)
	for _, r := range stack[0].Recombined {
		assert.LessOrEqual(t, r.Score, stack[0].Best.Score)
	}
}
