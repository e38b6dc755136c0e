package words_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-solver/internal/words"
)

func TestRead(t *testing.T) {
	in := "# header\nzebra\napple\r\n\napple\nfig\n  angle  \nあいうえお\ntoolong\n"
	got, err := words.Read(strings.NewReader(in), 5)
	require.NoError(t, err)

	var ss []string
	for _, w := range got {
		ss = append(ss, w.String())
	}
	assert.Equal(t, []string{"angle", "apple", "zebra", "あいうえお"}, ss)
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"wordle/possible.txt":   {Data: []byte("crane\nslate\ncrane\n")},
		"wordle/valid.txt":      {Data: []byte("roate\nsalet\n")},
		"bopomofo/possible.txt": {Data: []byte("ㄅㄆㄇㄈ\nㄉㄊㄋㄌ\n")},
		"empty/possible.txt":    {Data: []byte("abc\n")},
	}
}

func TestLoad(t *testing.T) {
	l, err := words.Load(testFS(), "wordle", 5)
	require.NoError(t, err)
	assert.Equal(t, "wordle", l.Dataset)
	assert.Equal(t, 5, l.Length)
	assert.Len(t, l.Candidates, 2)
	assert.Len(t, l.Guesses, 2)

	// valid.txt is optional
	l, err = words.Load(testFS(), "bopomofo", 4)
	require.NoError(t, err)
	assert.Len(t, l.Candidates, 2)
	assert.Empty(t, l.Guesses)
}

func TestAvailableOrder(t *testing.T) {
	names, err := words.Available(testFS())
	require.NoError(t, err)
	assert.Equal(t, []string{"bopomofo", "wordle", "empty"}, names)
}

func TestLoadErrors(t *testing.T) {
	_, err := words.Load(testFS(), "missing", 5)
	require.ErrorIs(t, err, words.ErrDatasetUnknown)

	_, err = words.Load(testFS(), "../wordle", 5)
	require.ErrorIs(t, err, words.ErrDatasetUnknown)

	_, err = words.Load(testFS(), "empty", 5)
	require.ErrorIs(t, err, words.ErrEmptyList)
}

func TestEmbeddedDefaults(t *testing.T) {
	fsys := words.Source("")
	names, err := words.Available(fsys)
	require.NoError(t, err)
	assert.Contains(t, names, "wordle")

	l, err := words.Load(fsys, "wordle", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, l.Candidates)
	assert.NotEmpty(t, l.Guesses)
	for _, w := range l.Candidates {
		assert.Len(t, w, 5)
	}
}

func TestCache(t *testing.T) {
	c := words.NewCache(testFS())
	a, err := c.Get("wordle", 5)
	require.NoError(t, err)
	b, err := c.Get("wordle", 5)
	require.NoError(t, err)
	assert.Same(t, &a.Candidates[0][0], &b.Candidates[0][0])

	_, err = c.Get("nope", 5)
	require.Error(t, err)
}
