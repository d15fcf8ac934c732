package kbest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teatak/treedec/decoder"
	"github.com/teatak/treedec/grammar"
)

func TestExtractKBest(t *testing.T) {
	m := mustDecode(t, decoder.DefaultConfig(), "(S (A a) (B b))", ambiguousGrammar...)

	list := ExtractKBest(m, 3, false)
	assert.Equal(t, []string{"x u", "y u", "x v"}, phrases(list))
}

func TestExtractKBestDistinct(t *testing.T) {
	m := mustDecode(t, decoder.DefaultConfig(), "(X a)",
		"(X a) ||| p q ||| 3 |||",
		"(X a) ||| p q ||| 2 |||",
		"(X a) ||| r s ||| 1 |||")

	plain := ExtractKBest(m, 5, false)
	require.Len(t, plain, 3)

	distinct := ExtractKBest(m, 5, true)
	require.Len(t, distinct, 2)
	assert.Equal(t, []string{"p q", "r s"}, phrases(distinct))
	assert.Equal(t, []float64{3, 1}, scores(distinct))
}

func TestExtractKBestZero(t *testing.T) {
	m := mustDecode(t, decoder.DefaultConfig(), "(X a)")
	assert.Nil(t, ExtractKBest(m, 0, false))
}

func TestWriteNBest(t *testing.T) {
	m := mustDecode(t, decoder.DefaultConfig(), "(X a b c)",
		"(X a b c) ||| c b a ||| 0.5 ||| 0-2 1-1 2-0")
	cfg := m.Config()
	cfg.IncludeAlignment = true
	cfg.IncludeTree = true

	var buf bytes.Buffer
	require.NoError(t, WriteNBest(&buf, "0", ExtractKBest(m, 1, false), cfg))
	assert.Equal(t,
		"0 ||| c b a ||| 0.5 ||| 0.5 ||| 0-2 1-1 2-0 ||| (X c b a)\n",
		buf.String())
}

func TestWriteNBestPlain(t *testing.T) {
	m := mustDecode(t, decoder.DefaultConfig(), "(S (A a) (B b))", ambiguousGrammar...)

	var buf bytes.Buffer
	require.NoError(t, WriteNBest(&buf, "7", ExtractKBest(m, 2, false), m.Config()))
	assert.Equal(t,
		"7 ||| x u ||| 4 ||| 4\n7 ||| y u ||| 3 ||| 3\n",
		buf.String())
}

func TestFormatAlignments(t *testing.T) {
	points := map[grammar.AlignPoint]bool{
		{Source: 2, Target: 0}: true,
		{Source: 0, Target: 2}: true,
		{Source: 0, Target: 1}: true,
	}
	assert.Equal(t, "0-1 0-2 2-0", FormatAlignments(points))
}
