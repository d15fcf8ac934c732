package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPattern(t *testing.T, text string) *Pattern {
	t.Helper()
	p, err := ParsePattern(text)
	require.NoError(t, err)
	return p
}

func TestEncodePatternFlat(t *testing.T) {
	levels := EncodePattern(mustPattern(t, "(X a [NP] c)"))
	require.Len(t, levels, 2)
	assert.Equal(t, "n:X", levels[0].Key())
	assert.Equal(t, "w:a n:NP w:c", levels[1].Key())
}

func TestEncodePatternNested(t *testing.T) {
	levels := EncodePattern(mustPattern(t, "(S [NP] (VP loves [NP]))"))
	require.Len(t, levels, 3)
	assert.Equal(t, "n:S", levels[0].Key())
	assert.Equal(t, "n:NP n:VP", levels[1].Key())
	// NP ends its expansion, VP opens its children.
	assert.Equal(t, "# , w:loves n:NP", levels[2].Key())
}

// Patterns sharing a prefix share trie states; one can accept where the
// other continues.
func TestTrieSharedPrefix(t *testing.T) {
	trie := NewTrie()
	shallow, err := NewRule(mustPattern(t, "(X a [NP])"), []TargetTok{{Word: "w", Site: -1}}, nil, []float64{1}, nil)
	require.NoError(t, err)
	deep, err := NewRule(mustPattern(t, "(X a (NP b))"), []TargetTok{{Word: "v", Site: -1}}, nil, []float64{2}, nil)
	require.NoError(t, err)
	trie.Insert(shallow)
	trie.Insert(deep)

	root := trie.Root()
	require.Len(t, root.Edges, 1)
	second := root.Edges[0].Next
	require.Len(t, second.Edges, 1, "level 'a NP' is shared")

	assert.Equal(t, []*Rule{shallow}, trie.Find(shallow.Pattern))
	assert.Equal(t, []*Rule{deep}, trie.Find(deep.Pattern))
	assert.Nil(t, trie.Find(mustPattern(t, "(X a [VP])")))
}

func TestTrieEdgeOrderIsInsertion(t *testing.T) {
	trie := NewTrie()
	for _, text := range []string{"(X c c)", "(X a a)", "(X b b)"} {
		r, err := NewRule(mustPattern(t, text), []TargetTok{{Word: "w", Site: -1}}, nil, nil, nil)
		require.NoError(t, err)
		trie.Insert(r)
	}
	node := trie.Root().Edges[0].Next
	var keys []string
	for _, e := range node.Edges {
		keys = append(keys, e.Seq.Key())
	}
	assert.Equal(t, []string{"w:c w:c", "w:a w:a", "w:b w:b"}, keys)
}
