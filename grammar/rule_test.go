package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	r, err := ParseRule("(X a [NP] c) ||| b [1] d ||| 0.5 -0.3 ||| 0-0 2-2", nil)
	require.NoError(t, err)

	assert.Equal(t, "X", r.Head().Value)
	assert.Equal(t, 1, r.Arity())
	assert.Equal(t, []int{1}, r.SitePos, "the site sits at frontier position 1")
	require.Len(t, r.Target, 3)
	assert.Equal(t, TargetTok{Word: "b", Site: -1}, r.Target[0])
	assert.Equal(t, 0, r.Target[1].Site)
	assert.True(t, r.Target[1].IsSite())
	assert.Equal(t, []AlignPoint{{Source: 0, Target: 0}, {Source: 2, Target: 2}}, r.AlignTerm)
	assert.InDelta(t, 0.2, r.Score, 1e-9, "uniform weights sum the features")
}

func TestParseRuleWeights(t *testing.T) {
	r, err := ParseRule("(X a) ||| b ||| 2.0 3.0", []float64{0.5, 1.0})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, r.Score, 1e-9)
}

// Target references count sites in source order even when capture order
// differs; the stored indices follow capture order.
func TestParseRuleSiteOrderTranslation(t *testing.T) {
	r, err := ParseRule("(X (P [B]) [A]) ||| [1] [2] ||| 1", nil)
	require.NoError(t, err)

	// Capture order is A then B, so source site 1 (B) is stored index 1.
	require.Len(t, r.Target, 2)
	assert.Equal(t, 1, r.Target[0].Site, "[1] is B, captured second")
	assert.Equal(t, 0, r.Target[1].Site, "[2] is A, captured first")
}

func TestParseRuleErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "(X a) ||| b"},
		{"bad pattern", "X a ||| b ||| 1"},
		{"empty target", "(X a) ||| ||| 1"},
		{"site out of range", "(X a [NP]) ||| [2] ||| 1"},
		{"bad feature", "(X a) ||| b ||| one"},
		{"bad alignment pair", "(X a) ||| b ||| 1 ||| 0:0"},
		{"alignment source out of range", "(X a) ||| b ||| 1 ||| 5-0"},
		{"alignment source is site", "(X [NP]) ||| [1] b ||| 1 ||| 0-1"},
		{"alignment target is site", "(X a [NP]) ||| [1] ||| 1 ||| 0-0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRule(tt.line, nil)
			assert.Error(t, err)
		})
	}
}

func TestReadTable(t *testing.T) {
	src := strings.NewReader(`
# reversal grammar
(X a b c) ||| c b a ||| 0.5 ||| 0-2 1-1 2-0

(X [A] [B]) ||| [2] [1] ||| -1.0
`)
	table, err := Read(src, nil)
	require.NoError(t, err)
	require.Len(t, table.Rules, 2)
	assert.Equal(t, table.Rules[0], table.Trie.Find(table.Rules[0].Pattern)[0])
}

func TestReadTableBadLine(t *testing.T) {
	_, err := Read(strings.NewReader("(X a) ||| b ||| 1\nnot a rule\n"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
