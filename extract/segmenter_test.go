package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordSegmenterEvenSplit(t *testing.T) {
	segmenter := NewWordSegmenter(3)

	chunks, err := segmenter.Segment("one two three four five six")
	require.NoError(t, err)
	assert.Equal(t, []string{"one two three", "four five six"}, chunks)
}

func TestWordSegmenterRemainder(t *testing.T) {
	segmenter := NewWordSegmenter(4)

	chunks, err := segmenter.Segment("a b c d e")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a b c d", chunks[0])
	assert.Equal(t, "e", chunks[1])
}

func TestWordSegmenterEmpty(t *testing.T) {
	segmenter := NewWordSegmenter(10)

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		chunks, err := segmenter.Segment(text)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestWordSegmenterCoversAllWords(t *testing.T) {
	segmenter := NewWordSegmenter(7)
	words := make([]string, 100)
	for i := range words {
		words[i] = "word"
	}

	chunks, err := segmenter.Segment(strings.Join(words, " "))
	require.NoError(t, err)

	total := 0
	for _, chunk := range chunks {
		n := len(strings.Fields(chunk))
		assert.Greater(t, n, 0)
		assert.LessOrEqual(t, n, 7)
		total += n
	}
	assert.Equal(t, 100, total)
}

func TestWordSegmenterDefaultSize(t *testing.T) {
	segmenter := NewWordSegmenter(0)
	assert.Equal(t, DefaultWordsPerSegment, segmenter.wordsPerSegment)
}

func TestSplitterSegmenter(t *testing.T) {
	segmenter, err := NewSplitterSegmenter(40, 0)
	require.NoError(t, err)

	text := "First sentence here. Second sentence follows. Third one closes the paragraph."
	chunks, err := segmenter.Segment(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitterSegmenterInvalidSize(t *testing.T) {
	_, err := NewSplitterSegmenter(0, 0)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)
}
