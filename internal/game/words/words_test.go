package words

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordarena/internal/game"
)

func TestEmbeddedListLoads(t *testing.T) {
	require.NoError(t, Init())
	assert.Greater(t, Count(), 0)
	assert.Len(t, All(), Count())
}

func TestAllWordsAreValid(t *testing.T) {
	require.NoError(t, Init())
	for _, w := range All() {
		_, err := game.ParseWord(string(w))
		assert.NoError(t, err, "word %s", w)
	}
}

func TestRandomReturnsKnownWord(t *testing.T) {
	require.NoError(t, Init())
	known := make(map[game.Word]bool, Count())
	for _, w := range All() {
		known[w] = true
	}
	for i := 0; i < 20; i++ {
		assert.True(t, known[Random()])
	}
}

func TestParseList(t *testing.T) {
	input := "# comment\nCRANE\n\ncrane\nSLATE\n"
	list, err := parseList(strings.NewReader(input))
	require.NoError(t, err)
	// Comments, blanks and duplicates (case-insensitive) are dropped
	require.Len(t, list, 2)
	assert.Equal(t, game.MustWord("CRANE"), list[0])
	assert.Equal(t, game.MustWord("SLATE"), list[1])
}

func TestParseList_RejectsBadEntry(t *testing.T) {
	_, err := parseList(strings.NewReader("CRANE\nTOOLONG\n"))
	assert.Error(t, err)
}

func TestParseList_RejectsEmpty(t *testing.T) {
	_, err := parseList(strings.NewReader("# only comments\n"))
	assert.Error(t, err)
}
